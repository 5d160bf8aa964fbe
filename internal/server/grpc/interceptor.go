package grpc

import (
	"context"
	"path"
	"time"

	"github.com/collabogames/collabo-auth/internal/authrpc"
	"github.com/collabogames/collabo-auth/internal/common"
	"github.com/collabogames/collabo-auth/internal/server/models"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type ctxKey string

const userKey ctxKey = "user"

// protectedMethods require a resolved identity.
var protectedMethods = map[string]bool{
	authrpc.MethodWhoAmI: true,
}

// optionalMethods take an identity when a valid token comes with the call
// and run anonymously otherwise.
var optionalMethods = map[string]bool{
	authrpc.MethodPing: true,
}

// UserFromContext returns the identity resolved for the call, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

func withUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// bearerFromMetadata extracts the token from the authorization header.
// A missing or non-bearer header yields "".
func bearerFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return ""
	}
	token, _ := common.BearerToken(values[0])
	return token
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	switch {
	case protectedMethods[info.FullMethod]:
		user, err := s.resolver.Resolve(ctx, bearerFromMetadata(ctx))
		if err != nil {
			return nil, err
		}
		return handler(withUser(ctx, user), req)

	case optionalMethods[info.FullMethod]:
		user, err := s.resolver.ResolveOptional(ctx, bearerFromMetadata(ctx))
		if err != nil {
			return nil, err
		}
		if user != nil {
			ctx = withUser(ctx, user)
		}
		return handler(ctx, req)
	}
	return handler(ctx, req)
}

// observeInterceptor is the outermost interceptor: it tags the call with a
// request id, turns domain errors into gRPC statuses, logs the call and
// records its outcome.
func (s *GRPCServer) observeInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	method := path.Base(info.FullMethod)
	logger := s.logger.With("request_id", uuid.NewString(), "method", method)

	resp, err := handler(ctx, req)

	outcome := outcomeFor(err)
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.Observe(method, outcome, elapsed)
	}

	if err == nil {
		logger.Info(ctx, "request handled", "outcome", outcome, "duration", elapsed)
		return resp, nil
	}

	st := toStatus(err)
	if isInfrastructure(err) {
		logger.Error(ctx, "request failed", "outcome", outcome, "duration", elapsed, "error", err)
	} else {
		logger.Info(ctx, "request rejected", "outcome", outcome, "duration", elapsed, "code", st.Code().String())
	}
	return nil, st.Err()
}
