package hasher

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches passlib's default used by the legacy service.
const DefaultBcryptCost = bcrypt.DefaultCost

// Bcrypt hashes secrets with bcrypt. It reads $2a$, $2b$ and $2y$ hashes,
// so rows written by the legacy passlib service verify unchanged.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher. A zero cost selects DefaultBcryptCost.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

func (b *Bcrypt) Hash(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrSecretTooLong
		}
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

func (b *Bcrypt) Verify(secret, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
}

// IsBcryptHash reports whether stored looks like a modular-crypt bcrypt hash.
func IsBcryptHash(stored string) bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(stored, p) {
			return true
		}
	}
	return false
}
