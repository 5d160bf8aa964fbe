package hasher

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/collabogames/collabo-auth/internal/common"
)

const argon2idPrefix = "$argon2id$"

// Argon2idParams are the cost parameters for new Argon2id hashes.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2idParams returns 64 MiB, one pass, four lanes, 16-byte salt
// and a 32-byte key.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		MemoryKiB:   64 * 1024,
		Iterations:  1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2id hashes secrets into PHC strings:
//
//	$argon2id$v=19$m=<KiB>,t=<iterations>,p=<lanes>$<salt>$<key>
//
// with unpadded standard base64 for salt and key.
type Argon2id struct {
	params Argon2idParams
}

func NewArgon2id(p Argon2idParams) *Argon2id {
	if p.Parallelism == 0 {
		p.Parallelism = 1
	}
	if p.Iterations == 0 {
		p.Iterations = 1
	}
	if p.MemoryKiB < 8*1024 {
		p.MemoryKiB = 8 * 1024
	}
	if p.SaltLength < 8 {
		p.SaltLength = 16
	}
	if p.KeyLength < 16 {
		p.KeyLength = 32
	}
	return &Argon2id{params: p}
}

func (a *Argon2id) Hash(secret string) (string, error) {
	p := a.params
	salt := common.GenerateRandByteArray(int(p.SaltLength))
	key := argon2.IDKey([]byte(secret), salt, p.Iterations, p.MemoryKiB, p.Parallelism, p.KeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix, argon2.Version, p.MemoryKiB, p.Iterations, p.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

func (a *Argon2id) Verify(secret, stored string) bool {
	p, salt, want, ok := decodeArgon2id(stored)
	if !ok || !a.withinBounds(p) {
		return false
	}
	got := argon2.IDKey([]byte(secret), salt, p.Iterations, p.MemoryKiB, p.Parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

// withinBounds refuses stored parameters far above our own, so a crafted row
// cannot make a login burn unbounded memory or CPU.
func (a *Argon2id) withinBounds(got Argon2idParams) bool {
	lim := a.params
	switch {
	case got.MemoryKiB > lim.MemoryKiB*2,
		got.Iterations > lim.Iterations*2+2,
		got.Parallelism > lim.Parallelism*2,
		got.SaltLength < 8 || got.SaltLength > 64,
		got.KeyLength < 16 || got.KeyLength > 128:
		return false
	}
	return true
}

// IsArgon2idHash reports whether stored is an Argon2id PHC string.
func IsArgon2idHash(stored string) bool {
	return strings.HasPrefix(stored, argon2idPrefix)
}

func decodeArgon2id(stored string) (Argon2idParams, []byte, []byte, bool) {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2idParams{}, nil, nil, false
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return Argon2idParams{}, nil, nil, false
	}

	mem, it, par, ok := parseArgon2Costs(parts[3])
	if !ok || mem == 0 || it == 0 || par == 0 || par > 255 {
		return Argon2idParams{}, nil, nil, false
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Argon2idParams{}, nil, nil, false
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return Argon2idParams{}, nil, nil, false
	}

	return Argon2idParams{
		MemoryKiB:   mem,
		Iterations:  it,
		Parallelism: uint8(par),
		SaltLength:  uint32(len(salt)),
		KeyLength:   uint32(len(key)),
	}, salt, key, true
}

// parseArgon2Costs reads exactly "m=<n>,t=<n>,p=<n>" in that order. Anything
// else in the segment makes the stored form malformed.
func parseArgon2Costs(seg string) (mem, it, par uint32, ok bool) {
	fields := strings.Split(seg, ",")
	if len(fields) != 3 {
		return 0, 0, 0, false
	}

	var vals [3]uint32
	for i, key := range []string{"m=", "t=", "p="} {
		digits, found := strings.CutPrefix(fields[i], key)
		if !found || digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
			return 0, 0, 0, false
		}
		v, err := strconv.ParseUint(digits, 10, 32)
		if err != nil {
			return 0, 0, 0, false
		}
		vals[i] = uint32(v)
	}
	return vals[0], vals[1], vals[2], true
}
