// Package otp generates one-time verification codes and the opaque keys
// that pending registration/reset records are stored under.
package otp

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
)

const (
	// Codes are 6 ASCII digits in [100000, 999999], never zero-padded.
	codeMin   = 100000
	codeRange = 900000

	keyBytes = 16
)

// Generate returns a 6-digit numeric one-time code drawn from crypto/rand.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

// NewKey returns a hex-encoded random key for pending records. The key space
// is large enough that collisions are treated as impossible.
func NewKey() (string, error) {
	b := make([]byte, keyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate pending key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
