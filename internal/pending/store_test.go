package pending

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type regPayload struct {
	Email string `json:"email"`
}

// runStoreSuite exercises the verify state machine shared by every Store
// implementation.
func runStoreSuite(t *testing.T, store Store[regPayload]) {
	ctx := context.Background()

	t.Run("attempt ceiling", func(t *testing.T) {
		key, code, err := store.Create(ctx, regPayload{Email: "alice@example.com"}, time.Minute)
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		// Three wrong codes count down the remaining attempts.
		for i, want := range []int{2, 1, 0} {
			res, err := store.Verify(ctx, key, wrong)
			if err != nil {
				t.Fatalf("Verify() attempt %d error: %v", i+1, err)
			}
			if res.Status != VerifyInvalid {
				t.Fatalf("attempt %d: expected VerifyInvalid, got %v", i+1, res.Status)
			}
			if res.RemainingAttempts != want {
				t.Errorf("attempt %d: expected %d remaining, got %d", i+1, want, res.RemainingAttempts)
			}
		}

		// The fourth wrong code destroys the record.
		res, err := store.Verify(ctx, key, wrong)
		if err != nil {
			t.Fatalf("Verify() attempt 4 error: %v", err)
		}
		if res.Status != VerifyMaxAttempts {
			t.Fatalf("expected VerifyMaxAttempts, got %v", res.Status)
		}
		if _, err := store.Get(ctx, key); err != ErrNotFound {
			t.Errorf("expected record deleted after max attempts, got %v", err)
		}
	})

	t.Run("success leaves record for caller", func(t *testing.T) {
		key, code, err := store.Create(ctx, regPayload{Email: "bob@example.com"}, time.Minute)
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}

		res, err := store.Verify(ctx, key, code)
		if err != nil {
			t.Fatalf("Verify() error: %v", err)
		}
		if res.Status != VerifyOK {
			t.Fatalf("expected VerifyOK, got %v", res.Status)
		}
		if res.Record == nil || res.Record.Payload.Email != "bob@example.com" {
			t.Fatal("expected payload on successful verify")
		}

		// Deletion is the caller's job.
		if _, err := store.Get(ctx, key); err != nil {
			t.Fatalf("record must survive a successful verify: %v", err)
		}
		if err := store.Delete(ctx, key); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		if _, err := store.Get(ctx, key); err != ErrNotFound {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("regenerate resets attempts", func(t *testing.T) {
		key, code, err := store.Create(ctx, regPayload{Email: "carol@example.com"}, time.Minute)
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		if _, err := store.Verify(ctx, key, wrong); err != nil {
			t.Fatalf("Verify() error: %v", err)
		}

		newCode, err := store.RegenerateOTP(ctx, key, time.Minute)
		if err != nil {
			t.Fatalf("RegenerateOTP() error: %v", err)
		}

		rec, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if rec.Attempts != 0 {
			t.Errorf("expected attempts reset to 0, got %d", rec.Attempts)
		}

		res, err := store.Verify(ctx, key, newCode)
		if err != nil {
			t.Fatalf("Verify() error: %v", err)
		}
		if res.Status != VerifyOK {
			t.Errorf("expected new code to verify, got %v", res.Status)
		}
	})

	t.Run("regenerate unknown key", func(t *testing.T) {
		if _, err := store.RegenerateOTP(ctx, "deadbeefdeadbeefdeadbeefdeadbeef", time.Minute); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("expired record", func(t *testing.T) {
		key, code, err := store.Create(ctx, regPayload{Email: "dave@example.com"}, time.Second)
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}

		// Force the expiry into the past without waiting.
		if _, err := store.RegenerateOTP(ctx, key, time.Millisecond); err != nil {
			t.Fatalf("RegenerateOTP() error: %v", err)
		}
		time.Sleep(5 * time.Millisecond)

		res, err := store.Verify(ctx, key, code)
		if err != nil && err != ErrNotFound {
			t.Fatalf("Verify() error: %v", err)
		}
		// Redis may have expired the key natively already.
		if err == nil && res.Status != VerifyExpired {
			t.Fatalf("expected VerifyExpired, got %v", res.Status)
		}
		if _, err := store.Get(ctx, key); err != ErrNotFound {
			t.Errorf("expected expired record deleted, got %v", err)
		}
	})

	t.Run("find by payload", func(t *testing.T) {
		key, _, err := store.Create(ctx, regPayload{Email: "eve@example.com"}, time.Minute)
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}

		foundKey, rec, err := store.Find(ctx, func(p regPayload) bool { return p.Email == "eve@example.com" })
		if err != nil {
			t.Fatalf("Find() error: %v", err)
		}
		if foundKey != key {
			t.Errorf("expected key %s, got %s", key, foundKey)
		}
		if rec.Payload.Email != "eve@example.com" {
			t.Errorf("unexpected payload %+v", rec.Payload)
		}

		if _, _, err := store.Find(ctx, func(p regPayload) bool { return p.Email == "nobody@example.com" }); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore[regPayload](time.Hour)
	defer store.Close()
	runStoreSuite(t, store)
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore[regPayload](time.Hour)
	defer store.Close()

	ctx := context.Background()
	key, _, err := store.Create(ctx, regPayload{Email: "stale@example.com"}, -time.Minute)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Sweep must remove the record even though it is never verified.
	store.sweep(time.Now())

	if _, err := store.Get(ctx, key); err != ErrNotFound {
		t.Errorf("expected swept record to be gone, got %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore[regPayload](client, "pending:test")
	runStoreSuite(t, store)
}

func TestRedisStore_NativeTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore[regPayload](client, "pending:ttl")

	ctx := context.Background()
	key, _, err := store.Create(ctx, regPayload{Email: "ttl@example.com"}, time.Minute)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, key); err != ErrNotFound {
		t.Errorf("expected record expired by redis TTL, got %v", err)
	}
}
