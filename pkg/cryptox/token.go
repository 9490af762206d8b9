package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// TokenSize256 is the byte length for 256 bits of entropy (43 chars base64url).
// This is the size used for email verification and workspace invite tokens.
const TokenSize256 = 32

// GenerateToken returns a cryptographically secure random token of size bytes,
// encoded as base64url without padding. Two calls are independent draws from
// the system CSPRNG, so collisions are not a practical concern at 256 bits.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// MustGenerateToken is like GenerateToken but panics on error. RNG failure is
// a fatal process-level condition, not something callers can recover from.
func MustGenerateToken(size int) string {
	token, err := GenerateToken(size)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate token: %v", err))
	}
	return token
}

// FingerprintToken returns the deterministic SHA-256 digest of a raw token,
// base64url-encoded (43 chars). Only fingerprints are persisted; a fast hash
// is enough here because the input already carries full token entropy and the
// property needed is irreversibility plus equality lookup, not resistance to
// brute-forcing a weak secret.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
