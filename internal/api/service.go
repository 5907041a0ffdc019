package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophauth.AuthService"

const (
	MethodRegister  = "/" + ServiceName + "/Register"
	MethodLogin     = "/" + ServiceName + "/Login"
	MethodActivate  = "/" + ServiceName + "/Activate"
	MethodLogout    = "/" + ServiceName + "/Logout"
	MethodRefresh   = "/" + ServiceName + "/Refresh"
	MethodListUsers = "/" + ServiceName + "/ListUsers"
	MethodPing      = "/" + ServiceName + "/Ping"
)

// AuthServiceServer is implemented by the transport layer.
type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Activate(context.Context, *ActivateRequest) (*ActivateResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	Refresh(context.Context, *RefreshRequest) (*AuthResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// UnimplementedAuthServiceServer can be embedded to stay forward compatible.
type UnimplementedAuthServiceServer struct{}

func (UnimplementedAuthServiceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedAuthServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedAuthServiceServer) Activate(context.Context, *ActivateRequest) (*ActivateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Activate not implemented")
}
func (UnimplementedAuthServiceServer) Logout(context.Context, *LogoutRequest) (*LogoutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}
func (UnimplementedAuthServiceServer) Refresh(context.Context, *RefreshRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
}
func (UnimplementedAuthServiceServer) ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListUsers not implemented")
}
func (UnimplementedAuthServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

// unary adapts a typed server method to a grpc.MethodDesc.
func unary[Req, Resp any](name, fullMethod string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
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
		},
	}
}

var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", MethodRegister, AuthServiceServer.Register),
		unary("Login", MethodLogin, AuthServiceServer.Login),
		unary("Activate", MethodActivate, AuthServiceServer.Activate),
		unary("Logout", MethodLogout, AuthServiceServer.Logout),
		unary("Refresh", MethodRefresh, AuthServiceServer.Refresh),
		unary("ListUsers", MethodListUsers, AuthServiceServer.ListUsers),
		unary("Ping", MethodPing, AuthServiceServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophauth/auth",
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}
