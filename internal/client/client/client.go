// Package client is a thin gRPC client for the auth service. It remembers
// the access token from the last Register or Login and presents it as a
// bearer credential on every later call.
package client

import (
	"context"
	"sync"

	"github.com/collabogames/collabo-auth/internal/authrpc"
	"github.com/collabogames/collabo-auth/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

type GRPCClient struct {
	conn *grpc.ClientConn
	api  authrpc.AuthServiceClient

	mu          sync.RWMutex
	accessToken string
}

// New connects to addr. Extra dial options are appended to the defaults
// (plaintext transport and the bearer interceptor).
func New(addr string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.bearerInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.api = authrpc.NewAuthServiceClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *GRPCClient) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func withBearer(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AuthorizationHeaderName, common.BearerScheme+" "+token)
}

func (c *GRPCClient) bearerInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := c.AccessToken(); token != "" {
		ctx = withBearer(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (c *GRPCClient) Register(ctx context.Context, req *authrpc.RegisterRequest) (*authrpc.TokenResponse, error) {
	resp, err := c.api.Register(ctx, req)
	if err != nil {
		return nil, describe(err)
	}
	c.SetAccessToken(resp.AccessToken)
	return resp, nil
}

func (c *GRPCClient) Login(ctx context.Context, name, password string) (*authrpc.TokenResponse, error) {
	resp, err := c.api.Login(ctx, &authrpc.LoginRequest{Name: name, Password: password})
	if err != nil {
		return nil, describe(err)
	}
	c.SetAccessToken(resp.AccessToken)
	return resp, nil
}

func (c *GRPCClient) WhoAmI(ctx context.Context) (*authrpc.UserProfile, error) {
	resp, err := c.api.WhoAmI(ctx, &authrpc.WhoAmIRequest{})
	if err != nil {
		return nil, describe(err)
	}
	return resp, nil
}

// Ping checks the server is up. The response names the signed-in user when
// the kept token is still good.
func (c *GRPCClient) Ping(ctx context.Context) (*authrpc.PingResponse, error) {
	resp, err := c.api.Ping(ctx, &authrpc.PingRequest{})
	if err != nil {
		return nil, describe(err)
	}
	return resp, nil
}
