// Package server wires the configured storage, credential hasher, token
// codec and services into the gRPC and metrics servers, and runs them until
// the process is told to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/collabogames/collabo-auth/internal/logging"
	"github.com/collabogames/collabo-auth/internal/server/auth"
	"github.com/collabogames/collabo-auth/internal/server/config"
	"github.com/collabogames/collabo-auth/internal/server/hasher"
	"github.com/collabogames/collabo-auth/internal/server/metrics"
	"github.com/collabogames/collabo-auth/internal/server/repositories/repomanager"
	"github.com/collabogames/collabo-auth/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/collabogames/collabo-auth/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	grpc     *gs.GRPCServer
	recorder *metrics.Recorder
}

// NewApp builds the application, logging JSON to stdout.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, c.Debug))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	repos, err := openRepositories(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := wire(ctx, c, logger, repos)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}
	return app, nil
}

func openRepositories(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	if dsn == config.MemoryDSN {
		return repomanager.NewMemoryRepositoryManager(nil), nil
	}

	m, err := repomanager.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return m, nil
}

func wire(ctx context.Context, c *config.Config, logger logging.Logger, repos repomanager.RepositoryManager) (*App, error) {
	h, err := hasher.New(hasher.Options{
		Scheme:            hasher.Scheme(c.PasswordScheme),
		BcryptCost:        c.BcryptCost,
		InsecurePlaintext: c.InsecurePlaintextPasswords,
	})
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	if c.InsecurePlaintextPasswords {
		logger.Warn(ctx, "INSECURE: passwords are stored and compared in plaintext")
	}

	codec, err := auth.NewCodec([]byte(c.SecretKey), c.Algorithm, c.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	authenticator, err := services.NewAuthenticator(repos.Users(), h)
	if err != nil {
		return nil, err
	}

	opts := []services.ResolverOption{services.WithResolverLogger(logger.With("module", "resolver"))}
	if c.FixedIdentityID > 0 {
		opts = append(opts, services.WithFixedIdentity(c.FixedIdentityID))
		logger.Warn(ctx, "INSECURE: every request resolves to a fixed identity", "user_id", c.FixedIdentityID)
	}
	resolver := services.NewIdentityResolver(repos.Users(), codec, opts...)

	userService := services.NewUserService(repos, h, authenticator, codec)
	recorder := metrics.NewRecorder()

	return &App{
		config:   c,
		logger:   logger,
		repos:    repos,
		grpc:     gs.NewGRPCServer(c.EndpointAddrGRPC, logger, userService, resolver, recorder),
		recorder: recorder,
	}, nil
}

// Run serves until ctx is cancelled, a termination signal arrives, or a
// server fails. The store is closed before returning.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(context.Background(), "closing store", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...",
		"algorithm", app.config.Algorithm,
		"session_ttl", app.config.AccessTokenTTL.String(),
		"password_scheme", app.config.PasswordScheme)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.grpc.Run(ctx)
	})

	if app.config.MetricsAddr != "" {
		g.Go(func() error {
			return app.recorder.Serve(ctx, app.config.MetricsAddr, app.logger)
		})
	}

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}
	return nil
}
