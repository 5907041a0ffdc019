package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// fakeServer issues numbered tokens and only accepts the latest access
// token on ListUsers.
type fakeServer struct {
	api.UnimplementedAuthServiceServer

	mu        sync.Mutex
	gen       int
	access    string
	refresh   string
	refreshes int
	loginErr  error
	logouts   []string
}

func (f *fakeServer) issue() *api.AuthResponse {
	f.gen++
	f.access = "access-" + string(rune('0'+f.gen))
	f.refresh = "refresh-" + string(rune('0'+f.gen))
	return &api.AuthResponse{AccessToken: f.access, RefreshToken: f.refresh, User: api.User{ID: "u1", Email: "a@x.com"}}
}

func (f *fakeServer) Register(_ context.Context, req *api.RegisterRequest) (*api.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.Email == "taken@x.com" {
		return nil, status.Error(codes.AlreadyExists, "duplicate_account: account with email taken@x.com already exists")
	}
	return f.issue(), nil
}

func (f *fakeServer) Login(context.Context, *api.LoginRequest) (*api.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.issue(), nil
}

func (f *fakeServer) Activate(_ context.Context, req *api.ActivateRequest) (*api.ActivateResponse, error) {
	if req.Link != "good" {
		return nil, status.Error(codes.NotFound, "invalid_activation_link: activation link is invalid")
	}
	return &api.ActivateResponse{RedirectURL: "http://client"}, nil
}

func (f *fakeServer) Refresh(_ context.Context, req *api.RefreshRequest) (*api.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.RefreshToken != f.refresh {
		return nil, status.Error(codes.Unauthenticated, "unauthorized: session not found")
	}
	f.refreshes++
	return f.issue(), nil
}

func (f *fakeServer) Logout(_ context.Context, req *api.LogoutRequest) (*api.LogoutResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts = append(f.logouts, req.RefreshToken)
	removed := req.RefreshToken == f.refresh
	f.refresh = ""
	return &api.LogoutResponse{Removed: removed}, nil
}

func (f *fakeServer) ListUsers(ctx context.Context, _ *api.ListUsersRequest) (*api.ListUsersResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get(common.AccessTokenHeaderName); len(v) == 0 || v[0] != f.access {
		return nil, status.Error(codes.Unauthenticated, "unauthorized: access token is invalid")
	}
	return &api.ListUsersResponse{Users: []api.User{{ID: "u1", Email: "a@x.com"}}}, nil
}

func (f *fakeServer) Ping(context.Context, *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

// expireAccess makes the current access token unacceptable.
func (f *fakeServer) expireAccess() {
	f.mu.Lock()
	f.access = "expired"
	f.mu.Unlock()
}

func newTestClient(t *testing.T) (*GRPCClient, *fakeServer) {
	t.Helper()

	fake := &fakeServer{}
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ForceServerCodec(api.Codec{}))
	api.RegisterAuthServiceServer(srv, fake)
	go func() { _ = srv.Serve(lis) }()

	c, err := NewAuthClient("passthrough:///bufnet", 2*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		c.Close()
		srv.Stop()
	})
	return c, fake
}

func TestRegisterAndLogin_StoreTokens(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	_, ok := c.User()
	assert.False(t, ok)

	u, err := c.Register(ctx, "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	access, refresh := c.tokens()
	assert.Equal(t, "access-1", access)
	assert.Equal(t, "refresh-1", refresh)

	_, err = c.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)
	access, _ = c.tokens()
	assert.Equal(t, "access-2", access)

	got, ok := c.User()
	assert.True(t, ok)
	assert.Equal(t, "u1", got.ID)
}

func TestRegister_MapsErrorKinds(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Register(context.Background(), "taken@x.com", "secret")
	assert.ErrorIs(t, err, common.ErrDuplicateAccount)

	_, err = c.Activate(context.Background(), "bad")
	assert.ErrorIs(t, err, common.ErrInvalidActivationLink)

	redirect, err := c.Activate(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "http://client", redirect)
}

func TestListUsers_RefreshesOnceOnUnauthenticated(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	_, err := c.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 0, fake.refreshes)

	fake.expireAccess()
	users, err = c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, fake.refreshes)

	access, _ := c.tokens()
	assert.Equal(t, "access-2", access)
}

func TestListUsers_NotLoggedIn(t *testing.T) {
	c, fake := newTestClient(t)

	_, err := c.ListUsers(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, 0, fake.refreshes)
}

func TestRefresh(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.Refresh(ctx), ErrNotLoggedIn)

	_, err := c.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)
	require.NoError(t, c.Refresh(ctx))
	_, refresh := c.tokens()
	assert.Equal(t, "refresh-2", refresh)

	// a superseded session drops the local tokens
	fake.mu.Lock()
	fake.refresh = "someone-else"
	fake.mu.Unlock()

	assert.ErrorIs(t, c.Refresh(ctx), common.ErrUnauthorized)
	_, ok := c.User()
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	_, err := c.Logout(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = c.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)

	removed, err := c.Logout(ctx)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"refresh-1"}, fake.logouts)

	_, ok := c.User()
	assert.False(t, ok)
}

func TestPing(t *testing.T) {
	c, _ := newTestClient(t)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	err := c.mapError(status.Error(codes.Unavailable, "connection refused"))
	assert.ErrorIs(t, err, ErrUnavailable)

	err = c.mapError(status.Error(codes.DeadlineExceeded, "slow"))
	assert.ErrorIs(t, err, ErrUnavailable)

	err = c.mapError(status.Error(codes.Unauthenticated, "bad_credentials: wrong password"))
	assert.ErrorIs(t, err, common.ErrBadCredentials)

	plain := errors.New("x")
	assert.Equal(t, plain, c.mapError(plain))
}

func TestWithAccessToken_ReplacesExisting(t *testing.T) {
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "old", "other", "v")
	ctx = withAccessToken(ctx, "new")

	md, _ := metadata.FromOutgoingContext(ctx)
	assert.Equal(t, []string{"new"}, md.Get(common.AccessTokenHeaderName))
	assert.Equal(t, []string{"v"}, md.Get("other"))

	ctx = withAccessToken(ctx, "")
	md, _ = metadata.FromOutgoingContext(ctx)
	assert.Empty(t, md.Get(common.AccessTokenHeaderName))
}
