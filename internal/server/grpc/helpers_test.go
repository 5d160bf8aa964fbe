package grpc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/collabogames/collabo-auth/internal/common"
	"github.com/collabogames/collabo-auth/internal/logging"
	"github.com/collabogames/collabo-auth/internal/server/models"
	"github.com/collabogames/collabo-auth/internal/server/services"
)

type fakeUsers struct {
	registerIn services.RegisterInput
	session    *services.Session
	err        error
}

func (f *fakeUsers) Register(_ context.Context, in services.RegisterInput) (*services.Session, error) {
	f.registerIn = in
	return f.session, f.err
}

func (f *fakeUsers) Login(_ context.Context, name, password string) (*services.Session, error) {
	return f.session, f.err
}

// fakeResolver accepts exactly one token.
type fakeResolver struct {
	token string
	user  *models.User
	err   error
	calls []string
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (*models.User, error) {
	f.calls = append(f.calls, token)
	if f.err != nil {
		return nil, f.err
	}
	if token == "" || token != f.token {
		return nil, common.ErrorUnauthenticated
	}
	return f.user, nil
}

func (f *fakeResolver) ResolveOptional(ctx context.Context, token string) (*models.User, error) {
	u, err := f.Resolve(ctx, token)
	if errors.Is(err, common.ErrorUnauthenticated) {
		return nil, nil
	}
	return u, err
}

type sample struct {
	method  string
	outcome string
}

type recordingObserver struct {
	mu      sync.Mutex
	samples []sample
}

func (r *recordingObserver) Observe(method, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, sample{method, outcome})
}

func (r *recordingObserver) all() []sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sample(nil), r.samples...)
}

func newTestServer(us UserService, r Resolver) (*GRPCServer, *recordingObserver) {
	obs := &recordingObserver{}
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, us, r, obs), obs
}
