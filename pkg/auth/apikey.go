package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// 32 random bytes before encoding, so a key carries 256 bits of entropy.
const apiKeyBytes = 32

// GenerateAPIKey returns a fresh device API key. The encoding is URL-safe
// base64 without padding so the key can travel in a header untouched.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashAPIKey returns the hex encoded SHA-256 digest of the raw key. Only
// this digest is ever persisted.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// ValidateAPIKey hashes the provided key and compares against the stored
// digest. Hex digests may differ in case between writers, hence EqualFold.
func ValidateAPIKey(key, storedHash string) bool {
	return strings.EqualFold(HashAPIKey(key), storedHash)
}
