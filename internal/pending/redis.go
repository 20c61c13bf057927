package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/seminar-service/internal/otp"
)

// RedisStore keeps pending records in Redis so multiple nodes can share a
// flow. Native key TTLs stand in for the in-memory sweep: Redis deletes a
// record when its OTP expiry elapses regardless of access.
type RedisStore[T any] struct {
	client *redis.Client
	prefix string
}

func NewRedisStore[T any](client *redis.Client, prefix string) *RedisStore[T] {
	return &RedisStore[T]{client: client, prefix: prefix}
}

func (s *RedisStore[T]) redisKey(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

func (s *RedisStore[T]) Create(ctx context.Context, payload T, ttl time.Duration) (string, string, error) {
	key, err := otp.NewKey()
	if err != nil {
		return "", "", err
	}
	code, err := otp.Generate()
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	rec := &Record[T]{
		Payload:      payload,
		OTP:          code,
		OTPExpiresAt: now.Add(ttl),
		Attempts:     0,
		CreatedAt:    now,
	}
	if err := s.set(ctx, key, rec); err != nil {
		return "", "", err
	}
	return key, code, nil
}

func (s *RedisStore[T]) Get(ctx context.Context, key string) (*Record[T], error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pending record: %w", err)
	}

	var rec Record[T]
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending record: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore[T]) Find(ctx context.Context, match func(T) bool) (string, *Record[T], error) {
	now := time.Now()

	iter := s.client.Scan(ctx, 0, s.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		fullKey := iter.Val()
		key := fullKey[len(s.prefix)+1:]

		rec, err := s.Get(ctx, key)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // expired between SCAN and GET
			}
			return "", nil, err
		}
		if rec.Expired(now) {
			continue
		}
		if match(rec.Payload) {
			return key, rec, nil
		}
	}
	if err := iter.Err(); err != nil {
		return "", nil, fmt.Errorf("failed to scan pending records: %w", err)
	}
	return "", nil, ErrNotFound
}

func (s *RedisStore[T]) RegenerateOTP(ctx context.Context, key string, ttl time.Duration) (string, error) {
	rec, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}

	code, err := otp.Generate()
	if err != nil {
		return "", err
	}
	rec.OTP = code
	rec.OTPExpiresAt = time.Now().Add(ttl)
	rec.Attempts = 0

	if err := s.set(ctx, key, rec); err != nil {
		return "", err
	}
	return code, nil
}

func (s *RedisStore[T]) Verify(ctx context.Context, key, supplied string) (*VerifyResult[T], error) {
	rec, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if rec.Expired(time.Now()) {
		// Redis normally expires the key itself; this covers clock skew.
		if err := s.Delete(ctx, key); err != nil {
			return nil, err
		}
		return &VerifyResult[T]{Status: VerifyExpired}, nil
	}

	if supplied != rec.OTP {
		if rec.Attempts >= MaxAttempts {
			if err := s.Delete(ctx, key); err != nil {
				return nil, err
			}
			return &VerifyResult[T]{Status: VerifyMaxAttempts}, nil
		}
		rec.Attempts++
		if err := s.set(ctx, key, rec); err != nil {
			return nil, err
		}
		return &VerifyResult[T]{
			Status:            VerifyInvalid,
			RemainingAttempts: MaxAttempts - rec.Attempts,
		}, nil
	}

	return &VerifyResult[T]{Status: VerifyOK, Record: rec}, nil
}

func (s *RedisStore[T]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending record: %w", err)
	}
	return nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (s *RedisStore[T]) Close() error {
	return nil
}

func (s *RedisStore[T]) set(ctx context.Context, key string, rec *Record[T]) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal pending record: %w", err)
	}

	ttl := time.Until(rec.OTPExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, s.redisKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending record: %w", err)
	}
	return nil
}
