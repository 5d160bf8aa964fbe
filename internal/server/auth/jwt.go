// Package auth issues and parses the signed session tokens handed to clients
// after a successful login.
//
// Tokens are JWTs signed with a shared HMAC secret. The only claims carried
// are the subject (the user's numeric id, as a decimal string), the issue
// time and the expiry. Nothing else about the user is trusted from a token.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the out-of-the-box token lifetime.
const DefaultTTL = 1440 * time.Minute

// ErrTokenRejected is matched by every error Parse returns.
var ErrTokenRejected = errors.New("token rejected")

// Rejection reasons. They are for logs only and must not reach clients.
const (
	ReasonMalformed = "malformed"
	ReasonSignature = "signature"
	ReasonAlgorithm = "algorithm"
	ReasonExpired   = "expired"
	ReasonSubject   = "subject"
)

// RejectedError carries the internal reason a token was refused.
type RejectedError struct {
	Reason string
	Err    error
}

func (e *RejectedError) Error() string {
	if e.Err == nil {
		return "token rejected: " + e.Reason
	}
	return fmt.Sprintf("token rejected: %s: %v", e.Reason, e.Err)
}

func (e *RejectedError) Is(target error) bool { return target == ErrTokenRejected }

func (e *RejectedError) Unwrap() error { return e.Err }

// Codec signs and verifies session tokens. It is immutable after
// construction and safe for concurrent use.
type Codec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption customises a Codec.
type CodecOption func(*Codec)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec builds a Codec for the named HMAC algorithm (HS256, HS384 or
// HS512). ttl is the lifetime Issue uses and must be positive.
func NewCodec(secret []byte, algorithm string, ttl time.Duration, opts ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q: a shared-secret HMAC algorithm is required", algorithm)
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the default token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Algorithm returns the signing algorithm name.
func (c *Codec) Algorithm() string { return c.method.Alg() }

// Issue signs a token for subjectID valid for the default lifetime.
func (c *Codec) Issue(subjectID int64) (string, time.Time, error) {
	return c.IssueWithTTL(subjectID, c.ttl)
}

// IssueWithTTL signs a token for subjectID valid for ttl. A zero ttl
// produces a token that is already expired.
//
// The expiry is truncated to whole seconds, the resolution of the exp claim,
// so a token never outlives ttl.
func (c *Codec) IssueWithTTL(subjectID int64, ttl time.Duration) (string, time.Time, error) {
	if ttl < 0 {
		return "", time.Time{}, fmt.Errorf("token ttl must not be negative, got %s", ttl)
	}

	now := c.now()
	exp := now.Add(ttl).Truncate(time.Second)

	token := jwt.NewWithClaims(c.method, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subjectID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies tokenString and returns its subject id. Any failure is a
// *RejectedError matching ErrTokenRejected.
func (c *Codec) Parse(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return 0, &RejectedError{Reason: rejectionReason(err), Err: err}
	}

	// canonical decimal only: no sign, no leading zeros
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err == nil && (id <= 0 || strconv.FormatInt(id, 10) != claims.Subject) {
		err = fmt.Errorf("subject %q is not a canonical positive id", claims.Subject)
	}
	if err != nil {
		return 0, &RejectedError{Reason: ReasonSubject, Err: err}
	}
	return id, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ReasonSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonAlgorithm
	default:
		return ReasonMalformed
	}
}
