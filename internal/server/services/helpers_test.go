package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/collabogames/collabo-auth/internal/logging"
	"github.com/collabogames/collabo-auth/internal/server/auth"
	"github.com/collabogames/collabo-auth/internal/server/hasher"
	"github.com/collabogames/collabo-auth/internal/server/models"
	"github.com/collabogames/collabo-auth/internal/server/repositories/repomanager"
	"github.com/collabogames/collabo-auth/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errStoreDown = errors.New("connection refused")

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestHasher(t *testing.T) hasher.Hasher {
	t.Helper()
	h, err := hasher.New(hasher.Options{Scheme: hasher.SchemeBcrypt, BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return h
}

func newTestCodec(t *testing.T, clk *testClock) *auth.Codec {
	t.Helper()
	c, err := auth.NewCodec([]byte("test-secret"), "HS256", time.Hour, auth.WithClock(clk.Now))
	require.NoError(t, err)
	return c
}

// env bundles a fully wired in-memory service stack.
type env struct {
	clock    *testClock
	store    *users.MemoryRepository
	hasher   hasher.Hasher
	codec    *auth.Codec
	auth     *Authenticator
	resolver *IdentityResolver
	svc      *UserService
	log      *recordingLogger
}

func newEnv(t *testing.T, opts ...ResolverOption) *env {
	t.Helper()
	e := &env{
		clock: &testClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)},
		store: users.NewMemoryRepository(),
		log:   &recordingLogger{},
	}
	e.hasher = newTestHasher(t)
	e.codec = newTestCodec(t, e.clock)

	a, err := NewAuthenticator(e.store, e.hasher)
	require.NoError(t, err)
	e.auth = a

	opts = append([]ResolverOption{WithResolverLogger(e.log)}, opts...)
	e.resolver = NewIdentityResolver(e.store, e.codec, opts...)
	e.svc = NewUserService(repomanager.NewMemoryRepositoryManager(e.store), e.hasher, a, e.codec)
	return e
}

// seed stores an account with the given password and returns it.
func (e *env) seed(t *testing.T, name, password string) *models.User {
	t.Helper()
	h, err := e.hasher.Hash(password)
	require.NoError(t, err)
	u, err := e.store.Create(context.Background(), &models.User{Name: name, PasswordHash: h})
	require.NoError(t, err)
	return u
}

// seedUpTo fills the store with filler accounts so the next insert gets id.
func (e *env) seedUpTo(t *testing.T, id int64) {
	t.Helper()
	for i := int64(1); i < id; i++ {
		e.seed(t, fmt.Sprintf("filler-%d", i), "x")
	}
}

// failingRepo fails every call with err.
type failingRepo struct{ err error }

func (f failingRepo) Create(context.Context, *models.User) (*models.User, error) { return nil, f.err }
func (f failingRepo) GetUserByName(context.Context, string) (*models.User, error) {
	return nil, f.err
}
func (f failingRepo) GetUserByID(context.Context, int64) (*models.User, error) { return nil, f.err }

// countingHasher records Verify calls.
type countingHasher struct {
	hasher.Hasher
	mu       sync.Mutex
	verified []string
}

func (c *countingHasher) Verify(secret, stored string) bool {
	c.mu.Lock()
	c.verified = append(c.verified, stored)
	c.mu.Unlock()
	return c.Hasher.Verify(secret, stored)
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(_ context.Context, msg string, args ...any) { l.add("debug", msg, args) }
func (l *recordingLogger) Info(_ context.Context, msg string, args ...any)  { l.add("info", msg, args) }
func (l *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recordingLogger) Error(_ context.Context, msg string, args ...any) { l.add("error", msg, args) }
func (l *recordingLogger) With(...any) logging.Logger                       { return l }

func (l *recordingLogger) snapshot() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.entries...)
}
