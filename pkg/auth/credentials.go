package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
)

// HashPassword produces a salted argon2id hash of the plaintext.
func HashPassword(plaintext string) (string, error) {
	return argon2id.CreateHash(plaintext, argon2id.DefaultParams)
}

// VerifyPassword reports whether plaintext matches the stored hash.
func VerifyPassword(plaintext, hash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(plaintext, hash)
}

// NewResetToken returns a hex-encoded token with 32 bytes of entropy and its
// expiry. Reset tokens are stored server-side, single use, and distinct from
// bearer tokens.
func NewResetToken(ttl time.Duration) (string, time.Time, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), time.Now().Add(ttl), nil
}

// ResetTokenValid reports whether the supplied token matches the stored one
// and has not expired.
func ResetTokenValid(storedToken string, storedExpiry time.Time, suppliedToken string, now time.Time) bool {
	if storedToken == "" || suppliedToken == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(storedToken), []byte(suppliedToken)) != 1 {
		return false
	}
	return now.Before(storedExpiry)
}
