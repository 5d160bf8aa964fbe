package client

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotLoggedIn        = errors.New("not logged in or session expired")
	ErrUserExists         = errors.New("user name is already taken")
	ErrUnavailable        = errors.New("server unavailable")
)

// describe converts a gRPC status into one of the package errors where one
// applies. Other statuses are returned unchanged.
func describe(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated:
		if st.Message() == ErrInvalidCredentials.Error() {
			return ErrInvalidCredentials
		}
		return ErrNotLoggedIn
	case codes.AlreadyExists:
		return ErrUserExists
	case codes.Unavailable:
		return ErrUnavailable
	case codes.InvalidArgument:
		return errors.New(st.Message())
	}
	return err
}
