// Package client talks to the auth server over gRPC and keeps the current
// token pair in memory.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      api.AuthServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	user         api.User
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the access token to every call. When a
// protected call is rejected and a refresh token is held, the pair is
// rotated once and the call retried.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	access, refresh := s.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)

	if err == nil || method != api.MethodListUsers || refresh == "" {
		return err
	}
	if status.Code(err) != codes.Unauthenticated {
		return err
	}

	if err := s.rotate(ctx, refresh); err != nil {
		return err
	}

	// tokens refreshed, retrying with the new access token
	access, _ = s.tokens()
	return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
}

// NewAuthClient prepares a client for endpointURL. No connection is made
// until the first call. Extra dial options are appended to the defaults.
func NewAuthClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewAuthServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) store(resp *api.AuthResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = resp.AccessToken
	s.refreshToken = resp.RefreshToken
	s.user = resp.User
}

func (s *GRPCClient) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken, s.user = "", "", api.User{}
}

// User reports the signed-in account, if any.
func (s *GRPCClient) User() (api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.refreshToken != ""
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) mapError(err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, status.Convert(err).Message())
	}
	return api.ErrorFromStatus(err)
}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (api.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Register(ctx, &api.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return api.User{}, s.mapError(err)
	}

	s.store(resp)
	return resp.User, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (api.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return api.User{}, s.mapError(err)
	}

	s.store(resp)
	return resp.User, nil
}

// Activate confirms an activation link and returns the page the server
// suggests opening next.
func (s *GRPCClient) Activate(ctx context.Context, link string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Activate(ctx, &api.ActivateRequest{Link: link})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.RedirectURL, nil
}

func (s *GRPCClient) rotate(ctx context.Context, refreshToken string) error {
	resp, err := s.client.Refresh(ctx, &api.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		if status.Code(err) == codes.Unauthenticated {
			s.clear()
		}
		return s.mapError(err)
	}
	s.store(resp)
	return nil
}

// Refresh rotates the held token pair.
func (s *GRPCClient) Refresh(ctx context.Context) error {
	_, refresh := s.tokens()
	if refresh == "" {
		return ErrNotLoggedIn
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.rotate(ctx, refresh)
}

// Logout ends the server session and forgets the local tokens. It reports
// whether the server still held the session.
func (s *GRPCClient) Logout(ctx context.Context) (bool, error) {
	_, refresh := s.tokens()
	if refresh == "" {
		return false, ErrNotLoggedIn
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Logout(ctx, &api.LogoutRequest{RefreshToken: refresh})
	if err != nil {
		return false, s.mapError(err)
	}

	s.clear()
	return resp.Removed, nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]api.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.ListUsers(ctx, &api.ListUsersRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Users, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.client.Ping(ctx, &api.PingRequest{}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}
