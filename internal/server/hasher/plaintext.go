package hasher

import "crypto/subtle"

// Plaintext stores secrets verbatim.
//
// UNSAFE: anyone with read access to the store learns every password. It
// exists only to reproduce the legacy debug mode and is selected solely by
// Options.InsecurePlaintext.
type Plaintext struct{}

func (Plaintext) Hash(secret string) (string, error) {
	return secret, nil
}

func (Plaintext) Verify(secret, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(secret), []byte(stored)) == 1
}
