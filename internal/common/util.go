package common

import (
	"crypto/rand"
	"strings"
)

// GenerateRandByteArray returns size bytes from crypto/rand.
// It panics if the system random source fails.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray zeroes b in place.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// BearerToken extracts the token from an "Bearer <token>" authorization
// value. The scheme is matched case-insensitively. ok is false when the
// value is empty, uses another scheme or carries no token.
func BearerToken(value string) (token string, ok bool) {
	scheme, rest, found := strings.Cut(strings.TrimSpace(value), " ")
	if !found || !strings.EqualFold(scheme, BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(rest)
	if token == "" {
		return "", false
	}
	return token, true
}
