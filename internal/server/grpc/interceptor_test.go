package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/collabogames/collabo-auth/internal/authrpc"
	"github.com/collabogames/collabo-auth/internal/common"
	"github.com/collabogames/collabo-auth/internal/server/metrics"
	"github.com/collabogames/collabo-auth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func incoming(pairs ...string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(pairs...))
}

func TestAccessToken_UnprotectedMethodSkipsResolution(t *testing.T) {
	r := &fakeResolver{}
	s, _ := newTestServer(&fakeUsers{}, r)

	called := false
	h := func(ctx context.Context, req any) (any, error) {
		called = true
		_, ok := UserFromContext(ctx)
		assert.False(t, ok)
		return "ok", nil
	}

	for _, m := range []string{authrpc.MethodLogin, authrpc.MethodRegister} {
		resp, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: m}, h)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	}
	assert.True(t, called)
	assert.Empty(t, r.calls)
}

func TestAccessToken_OptionalMethod(t *testing.T) {
	alice := &models.User{ID: 7, Name: "alice"}
	r := &fakeResolver{token: "good", user: alice}
	s, _ := newTestServer(&fakeUsers{}, r)

	var seen *models.User
	h := func(ctx context.Context, req any) (any, error) {
		seen, _ = UserFromContext(ctx)
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: authrpc.MethodPing}

	_, err := s.accessTokenInterceptor(incoming("authorization", "Bearer good"), nil, info, h)
	require.NoError(t, err)
	assert.Same(t, alice, seen)

	seen = nil
	_, err = s.accessTokenInterceptor(incoming("authorization", "Bearer forged"), nil, info, h)
	require.NoError(t, err)
	assert.Nil(t, seen)

	// a tokenless call still asks the resolver, which may hold a fixed identity
	_, err = s.accessTokenInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	assert.Nil(t, seen)
	assert.Equal(t, []string{"good", "forged", ""}, r.calls)

	r.err = fmt.Errorf("%w: db down", common.ErrorInfrastructure)
	_, err = s.accessTokenInterceptor(incoming("authorization", "Bearer good"), nil, info, h)
	require.ErrorIs(t, err, common.ErrorInfrastructure)
}

func TestAccessToken_ProtectedWithBearer(t *testing.T) {
	alice := &models.User{ID: 7, Name: "alice"}
	s, _ := newTestServer(&fakeUsers{}, &fakeResolver{token: "good", user: alice})

	var seen *models.User
	h := func(ctx context.Context, req any) (any, error) {
		seen, _ = UserFromContext(ctx)
		return "ok", nil
	}

	for _, header := range []string{"Bearer good", "bearer good", "BEARER  good"} {
		seen = nil
		_, err := s.accessTokenInterceptor(incoming("authorization", header), nil, &grpc.UnaryServerInfo{FullMethod: authrpc.MethodWhoAmI}, h)
		require.NoError(t, err, header)
		assert.Same(t, alice, seen)
	}
}

func TestAccessToken_ProtectedRejections(t *testing.T) {
	r := &fakeResolver{token: "good", user: &models.User{ID: 7}}
	s, _ := newTestServer(&fakeUsers{}, r)

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler must not run")
		return nil, nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: authrpc.MethodWhoAmI}

	ctxs := map[string]context.Context{
		"no metadata":  context.Background(),
		"no header":    incoming("x-other", "1"),
		"wrong scheme": incoming("authorization", "Basic good"),
		"bare token":   incoming("authorization", "good"),
		"bad token":    incoming("authorization", "Bearer bad"),
	}
	for name, ctx := range ctxs {
		_, err := s.accessTokenInterceptor(ctx, nil, info, h)
		require.ErrorIs(t, err, common.ErrorUnauthenticated, name)
	}
}

func TestAccessToken_InfrastructureSurfaces(t *testing.T) {
	boom := fmt.Errorf("%w: %w", common.ErrorInfrastructure, errors.New("db down"))
	s, _ := newTestServer(&fakeUsers{}, &fakeResolver{err: boom})

	_, err := s.accessTokenInterceptor(incoming("authorization", "Bearer x"), nil,
		&grpc.UnaryServerInfo{FullMethod: authrpc.MethodWhoAmI},
		func(ctx context.Context, req any) (any, error) { return nil, nil })
	require.ErrorIs(t, err, common.ErrorInfrastructure)
}

func TestObserve_MapsErrorsAndRecordsOutcome(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    codes.Code
		msg     string
		outcome string
	}{
		{"ok", nil, codes.OK, "", metrics.OutcomeOK},
		{"bad login", common.ErrorInvalidCredentials, codes.Unauthenticated, "invalid username or password", metrics.OutcomeInvalidCredentials},
		{"bad token", common.ErrorUnauthenticated, codes.Unauthenticated, "invalid credentials", metrics.OutcomeUnauthenticated},
		{"validation", fmt.Errorf("%w: name is required", common.ErrorValidation), codes.InvalidArgument, "validation error: name is required", metrics.OutcomeInvalidArgument},
		{"duplicate", common.ErrorAlreadyExists, codes.AlreadyExists, "user already exists", metrics.OutcomeAlreadyExists},
		{"infra", fmt.Errorf("%w: %w", common.ErrorInfrastructure, errors.New("dial tcp 10.0.0.1:5432")), codes.Internal, "internal error", metrics.OutcomeInfrastructure},
		{"unknown", errors.New("surprise"), codes.Internal, "internal error", metrics.OutcomeInfrastructure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, obs := newTestServer(&fakeUsers{}, &fakeResolver{})
			h := func(ctx context.Context, req any) (any, error) {
				if tc.err != nil {
					return nil, tc.err
				}
				return "ok", nil
			}

			resp, err := s.observeInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: authrpc.MethodLogin}, h)
			st, _ := status.FromError(err)
			assert.Equal(t, tc.code, st.Code())
			if tc.err == nil {
				assert.Equal(t, "ok", resp)
			} else {
				assert.Nil(t, resp)
				assert.Equal(t, tc.msg, st.Message())
			}
			assert.Equal(t, []sample{{"Login", tc.outcome}}, obs.all())
		})
	}
}

func TestObserve_KeepsExistingStatus(t *testing.T) {
	s, obs := newTestServer(&fakeUsers{}, &fakeResolver{})
	h := func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.DeadlineExceeded, "slow")
	}

	_, err := s.observeInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: authrpc.MethodPing}, h)
	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
	assert.Equal(t, []sample{{"Ping", metrics.OutcomeInfrastructure}}, obs.all())
}

func TestUserFromContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserFromContext(withUser(context.Background(), nil))
	assert.False(t, ok)

	u := &models.User{ID: 1}
	got, ok := UserFromContext(withUser(context.Background(), u))
	assert.True(t, ok)
	assert.Same(t, u, got)
}
