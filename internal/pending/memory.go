package pending

import (
	"context"
	"sync"
	"time"

	"github.com/SAP-F-2025/seminar-service/internal/otp"
)

// MemoryStore is the single-process implementation: a mutex-guarded map with
// a background sweep. All operations on a given key are serialized by the
// store lock so concurrent mismatches cannot lose attempt increments.
type MemoryStore[T any] struct {
	mu      sync.Mutex
	records map[string]*Record[T]

	sweepInterval time.Duration
	stop          chan struct{}
	done          chan struct{}
}

func NewMemoryStore[T any](sweepInterval time.Duration) *MemoryStore[T] {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	s := &MemoryStore[T]{
		records:       make(map[string]*Record[T]),
		sweepInterval: sweepInterval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

func (s *MemoryStore[T]) Create(ctx context.Context, payload T, ttl time.Duration) (string, string, error) {
	key, err := otp.NewKey()
	if err != nil {
		return "", "", err
	}
	code, err := otp.Generate()
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	s.mu.Lock()
	s.records[key] = &Record[T]{
		Payload:      payload,
		OTP:          code,
		OTPExpiresAt: now.Add(ttl),
		Attempts:     0,
		CreatedAt:    now,
	}
	s.mu.Unlock()

	return key, code, nil
}

func (s *MemoryStore[T]) Get(ctx context.Context, key string) (*Record[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore[T]) Find(ctx context.Context, match func(T) bool) (string, *Record[T], error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, rec := range s.records {
		if rec.Expired(now) {
			continue
		}
		if match(rec.Payload) {
			cp := *rec
			return key, &cp, nil
		}
	}
	return "", nil, ErrNotFound
}

func (s *MemoryStore[T]) RegenerateOTP(ctx context.Context, key string, ttl time.Duration) (string, error) {
	code, err := otp.Generate()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return "", ErrNotFound
	}
	rec.OTP = code
	rec.OTPExpiresAt = time.Now().Add(ttl)
	rec.Attempts = 0

	return code, nil
}

func (s *MemoryStore[T]) Verify(ctx context.Context, key, supplied string) (*VerifyResult[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}

	// Expiry is checked before the code is compared.
	if rec.Expired(time.Now()) {
		delete(s.records, key)
		return &VerifyResult[T]{Status: VerifyExpired}, nil
	}

	if supplied != rec.OTP {
		if rec.Attempts >= MaxAttempts {
			delete(s.records, key)
			return &VerifyResult[T]{Status: VerifyMaxAttempts}, nil
		}
		rec.Attempts++
		return &VerifyResult[T]{
			Status:            VerifyInvalid,
			RemainingAttempts: MaxAttempts - rec.Attempts,
		}, nil
	}

	cp := *rec
	return &VerifyResult[T]{Status: VerifyOK, Record: &cp}, nil
}

func (s *MemoryStore[T]) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// Close stops the background sweep.
func (s *MemoryStore[T]) Close() error {
	close(s.stop)
	<-s.done
	return nil
}

// sweepLoop deletes records whose OTP expiry has passed, even if they are
// never touched again after creation.
func (s *MemoryStore[T]) sweepLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *MemoryStore[T]) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, rec := range s.records {
		if rec.Expired(now) {
			delete(s.records, key)
		}
	}
}
