// Package grpc exposes the auth services over gRPC.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/collabogames/collabo-auth/internal/authrpc"
	"github.com/collabogames/collabo-auth/internal/logging"
	"github.com/collabogames/collabo-auth/internal/server/models"
	"github.com/collabogames/collabo-auth/internal/server/services"
	"google.golang.org/grpc"
)

// UserService is the account logic behind Register and Login.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.Session, error)
	Login(ctx context.Context, name, password string) (*services.Session, error)
}

// Resolver maps a bearer token to the live account.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
	ResolveOptional(ctx context.Context, token string) (*models.User, error)
}

// Observer receives one sample per finished call.
type Observer interface {
	Observe(method, outcome string, elapsed time.Duration)
}

type GRPCServer struct {
	address  string
	users    UserService
	resolver Resolver
	metrics  Observer
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, us UserService, r Resolver, m Observer) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		users:    us,
		resolver: r,
		metrics:  m,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	<-stopped
	return nil
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.observeInterceptor, s.accessTokenInterceptor))
	authrpc.RegisterAuthServiceServer(srv, s)
	return srv
}
