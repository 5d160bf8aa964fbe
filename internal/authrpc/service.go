package authrpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "collabo.auth.v1.AuthService"

// Full method names, as seen by interceptors.
const (
	MethodRegister = "/" + ServiceName + "/Register"
	MethodLogin    = "/" + ServiceName + "/Login"
	MethodWhoAmI   = "/" + ServiceName + "/WhoAmI"
	MethodPing     = "/" + ServiceName + "/Ping"
)

// AuthServiceServer is implemented by the server.
type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*TokenResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	WhoAmI(context.Context, *WhoAmIRequest) (*UserProfile, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// unary adapts a typed server method to a grpc method handler.
func unary[Req, Resp any](fullMethod string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(MethodRegister, AuthServiceServer.Register)},
		{MethodName: "Login", Handler: unary(MethodLogin, AuthServiceServer.Login)},
		{MethodName: "WhoAmI", Handler: unary(MethodWhoAmI, AuthServiceServer.WhoAmI)},
		{MethodName: "Ping", Handler: unary(MethodPing, AuthServiceServer.Ping)},
	},
	Metadata: "collabo/auth/v1/auth.json",
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// AuthServiceClient is the client side of the service.
type AuthServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	WhoAmI(ctx context.Context, in *WhoAmIRequest, opts ...grpc.CallOption) (*UserProfile, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *authServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *authServiceClient) WhoAmI(ctx context.Context, in *WhoAmIRequest, opts ...grpc.CallOption) (*UserProfile, error) {
	return invoke[UserProfile](ctx, c.cc, MethodWhoAmI, in, opts)
}

func (c *authServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}
