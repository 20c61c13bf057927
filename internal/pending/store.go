// Package pending implements the short-lived, attempt-limited record store
// backing OTP registration and password-reset flows. Records are keyed by an
// unguessable hex key, carry a numeric one-time code with an expiry, and are
// never persisted to durable storage: a process restart loses them, which is
// a documented property of the flows built on top.
package pending

import (
	"context"
	"errors"
	"time"
)

// MaxAttempts is the verification attempt ceiling. The attempt after the
// ceiling is reached destroys the record.
const MaxAttempts = 3

// DefaultSweepInterval is how often the in-memory store scans for records
// whose OTP expiry has passed, independent of access patterns.
const DefaultSweepInterval = 15 * time.Minute

var ErrNotFound = errors.New("pending record not found")

// Record is a single pending action awaiting OTP verification.
type Record[T any] struct {
	Payload      T         `json:"payload"`
	OTP          string    `json:"otp"`
	OTPExpiresAt time.Time `json:"otp_expires_at"`
	Attempts     int       `json:"attempts"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *Record[T]) Expired(now time.Time) bool {
	return now.After(r.OTPExpiresAt)
}

type VerifyStatus int

const (
	VerifyOK VerifyStatus = iota
	VerifyInvalid
	VerifyExpired
	VerifyMaxAttempts
)

// VerifyResult reports the outcome of a single verification attempt.
// RemainingAttempts is meaningful only for VerifyInvalid; Record is set only
// for VerifyOK.
type VerifyResult[T any] struct {
	Status            VerifyStatus
	RemainingAttempts int
	Record            *Record[T]
}

// Store holds pending records for one flow. The registration and password
// reset flows each get their own instance with a disjoint keyspace.
//
// Verify checks expiry before comparing the code; an expired or
// attempt-exhausted record is deleted by the store itself. A successful match
// leaves the record in place: the caller consumes it with Delete once the
// durable side effects have been applied.
type Store[T any] interface {
	Create(ctx context.Context, payload T, ttl time.Duration) (key string, otpCode string, err error)
	Get(ctx context.Context, key string) (*Record[T], error)
	Find(ctx context.Context, match func(T) bool) (string, *Record[T], error)
	RegenerateOTP(ctx context.Context, key string, ttl time.Duration) (string, error)
	Verify(ctx context.Context, key, supplied string) (*VerifyResult[T], error)
	Delete(ctx context.Context, key string) error
	Close() error
}
