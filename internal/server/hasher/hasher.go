// Package hasher turns plaintext secrets into storable forms and verifies
// secrets against them.
//
// New secrets are hashed with the configured scheme (bcrypt or Argon2id).
// Verification recognises both schemes by their encoded prefix, so a change
// of scheme does not lock out users whose hashes predate it.
package hasher

import (
	"errors"
	"fmt"
	"strings"
)

// Hasher is the credential hashing contract.
//
// Verify never returns an error: any malformed or unsupported stored form
// simply does not match.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, stored string) bool
}

// Scheme names a hashing algorithm for new secrets.
type Scheme string

const (
	SchemeBcrypt   Scheme = "bcrypt"
	SchemeArgon2id Scheme = "argon2id"
)

var (
	ErrUnknownScheme = errors.New("unknown password scheme")
	ErrSecretTooLong = errors.New("secret too long")
)

// Options selects and tunes the hasher built by New.
type Options struct {
	Scheme     Scheme
	BcryptCost int
	Argon2id   Argon2idParams

	// InsecurePlaintext stores and compares secrets verbatim. Only for local
	// development against throwaway data; never enable it where real
	// passwords are handled.
	InsecurePlaintext bool
}

// New builds the Hasher described by opts.
func New(opts Options) (Hasher, error) {
	if opts.InsecurePlaintext {
		return Plaintext{}, nil
	}

	bc, err := NewBcrypt(opts.BcryptCost)
	if err != nil {
		return nil, err
	}
	params := opts.Argon2id
	if params == (Argon2idParams{}) {
		params = DefaultArgon2idParams()
	}
	ar := NewArgon2id(params)

	var primary Hasher
	switch Scheme(strings.ToLower(string(opts.Scheme))) {
	case SchemeBcrypt, "":
		primary = bc
	case SchemeArgon2id:
		primary = ar
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, opts.Scheme)
	}

	return &Adaptive{primary: primary, bcrypt: bc, argon2id: ar}, nil
}

// Adaptive hashes with one scheme and verifies any supported one.
type Adaptive struct {
	primary  Hasher
	bcrypt   *Bcrypt
	argon2id *Argon2id
}

func (a *Adaptive) Hash(secret string) (string, error) {
	return a.primary.Hash(secret)
}

func (a *Adaptive) Verify(secret, stored string) bool {
	switch {
	case IsBcryptHash(stored):
		return a.bcrypt.Verify(secret, stored)
	case IsArgon2idHash(stored):
		return a.argon2id.Verify(secret, stored)
	default:
		return false
	}
}
