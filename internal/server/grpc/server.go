// Package grpc exposes the auth workflows over gRPC.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/sessions"
	"github.com/dmitrijs2005/gophauth/internal/server/tokens"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
)

// userService is the part of users.Service the transport calls.
type userService interface {
	Register(ctx context.Context, email, password string) (*users.AuthResult, error)
	Login(ctx context.Context, email, password string) (*users.AuthResult, error)
	Activate(ctx context.Context, link string) error
	ActivationRedirect() string
	Logout(ctx context.Context, refreshToken string) (*sessions.Record, error)
	Refresh(ctx context.Context, refreshToken string) (*users.AuthResult, error)
	ListUsers(ctx context.Context) ([]tokens.Identity, error)
	Authorize(accessToken string) (tokens.Identity, error)
}

type GRPCServer struct {
	api.UnimplementedAuthServiceServer
	address string
	users   userService
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, us userService) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
	}
}

// newServer builds the grpc.Server with the protobuf codec and interceptors.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ForceServerCodec(api.Codec{}),
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
	)
	api.RegisterAuthServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
