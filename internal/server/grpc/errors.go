package grpc

import (
	"errors"

	"github.com/collabogames/collabo-auth/internal/common"
	"github.com/collabogames/collabo-auth/internal/server/metrics"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Client-facing messages. They never vary with the underlying cause.
const (
	msgInvalidLogin    = "invalid username or password"
	msgUnauthenticated = "invalid credentials"
	msgInternal        = "internal error"
	msgAlreadyExists   = "user already exists"
)

func toStatus(err error) *status.Status {
	switch {
	case errors.Is(err, common.ErrorInvalidCredentials):
		return status.New(codes.Unauthenticated, msgInvalidLogin)
	case errors.Is(err, common.ErrorUnauthenticated):
		return status.New(codes.Unauthenticated, msgUnauthenticated)
	case errors.Is(err, common.ErrorValidation):
		return status.New(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.New(codes.AlreadyExists, msgAlreadyExists)
	}
	if st, ok := status.FromError(err); ok {
		return st
	}
	return status.New(codes.Internal, msgInternal)
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, common.ErrorInvalidCredentials):
		return metrics.OutcomeInvalidCredentials
	case errors.Is(err, common.ErrorUnauthenticated):
		return metrics.OutcomeUnauthenticated
	case errors.Is(err, common.ErrorValidation):
		return metrics.OutcomeInvalidArgument
	case errors.Is(err, common.ErrorAlreadyExists):
		return metrics.OutcomeAlreadyExists
	default:
		return metrics.OutcomeInfrastructure
	}
}

func isInfrastructure(err error) bool {
	return outcomeFor(err) == metrics.OutcomeInfrastructure
}
