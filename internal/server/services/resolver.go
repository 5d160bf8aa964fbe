package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/collabogames/collabo-auth/internal/common"
	"github.com/collabogames/collabo-auth/internal/logging"
	"github.com/collabogames/collabo-auth/internal/server/auth"
	"github.com/collabogames/collabo-auth/internal/server/models"
	"github.com/collabogames/collabo-auth/internal/server/repositories/users"
)

// TokenParser extracts the subject id from a session token.
type TokenParser interface {
	Parse(token string) (int64, error)
}

// IdentityResolver turns a bearer token into the live account it names.
type IdentityResolver struct {
	users  users.Repository
	tokens TokenParser
	logger logging.Logger

	fixedID  int64
	hasFixed bool
}

type ResolverOption func(*IdentityResolver)

// WithFixedIdentity makes every call resolve to account id, ignoring the
// presented token. It exists for local debugging and must stay off in any
// shared environment.
func WithFixedIdentity(id int64) ResolverOption {
	return func(r *IdentityResolver) {
		r.fixedID = id
		r.hasFixed = true
	}
}

func WithResolverLogger(l logging.Logger) ResolverOption {
	return func(r *IdentityResolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewIdentityResolver(repo users.Repository, tokens TokenParser, opts ...ResolverOption) *IdentityResolver {
	r := &IdentityResolver{users: repo, tokens: tokens, logger: logging.Nop{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FixedIdentity reports the bypass identity, if one is configured.
func (r *IdentityResolver) FixedIdentity() (int64, bool) {
	return r.fixedID, r.hasFixed
}

// Resolve returns the account for token. Every token problem (missing,
// malformed, forged, expired, or naming a deleted account) is reported as
// common.ErrorUnauthenticated; store failures wrap common.ErrorInfrastructure.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	id := r.fixedID
	if !r.hasFixed {
		if token == "" {
			return nil, common.ErrorUnauthenticated
		}

		var err error
		id, err = r.tokens.Parse(token)
		if err != nil {
			var rejected *auth.RejectedError
			if errors.As(err, &rejected) {
				r.logger.Debug(ctx, "token rejected", "reason", rejected.Reason)
			} else {
				r.logger.Debug(ctx, "token rejected", "error", err)
			}
			return nil, common.ErrorUnauthenticated
		}
	}

	user, err := r.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			r.logger.Debug(ctx, "token subject not found", "user_id", id)
			return nil, common.ErrorUnauthenticated
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInfrastructure, err)
	}
	return user, nil
}

// ResolveOptional is Resolve for calls that also serve anonymous callers:
// an unauthenticated request yields (nil, nil).
func (r *IdentityResolver) ResolveOptional(ctx context.Context, token string) (*models.User, error) {
	user, err := r.Resolve(ctx, token)
	if errors.Is(err, common.ErrorUnauthenticated) {
		return nil, nil
	}
	return user, err
}
