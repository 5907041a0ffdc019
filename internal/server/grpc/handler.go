package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/tokens"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
)

func toUser(id tokens.Identity) api.User {
	return api.User{ID: id.ID, Email: id.Email, IsActivated: id.IsActivated}
}

func toAuthResponse(r *users.AuthResult) *api.AuthResponse {
	return &api.AuthResponse{
		AccessToken:      r.Tokens.AccessToken,
		RefreshToken:     r.Tokens.RefreshToken,
		AccessExpiresAt:  r.Tokens.AccessExpiresAt,
		RefreshExpiresAt: r.Tokens.RefreshExpiresAt,
		User:             toUser(r.User),
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.AuthResponse, error) {

	s.logger.Info(ctx, "Registration request")

	result, err := s.users.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "account_id", result.User.ID)
	return toAuthResponse(result), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.AuthResponse, error) {

	result, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return toAuthResponse(result), nil
}

func (s *GRPCServer) Activate(ctx context.Context, req *api.ActivateRequest) (*api.ActivateResponse, error) {

	if err := s.users.Activate(ctx, req.Link); err != nil {
		return nil, toStatus(err)
	}

	return &api.ActivateResponse{RedirectURL: s.users.ActivationRedirect()}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *api.LogoutRequest) (*api.LogoutResponse, error) {

	rec, err := s.users.Logout(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}
	if rec == nil {
		return &api.LogoutResponse{}, nil
	}

	return &api.LogoutResponse{Removed: true, AccountID: rec.AccountID, ExpiresAt: rec.ExpiresAt}, nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *api.RefreshRequest) (*api.AuthResponse, error) {

	result, err := s.users.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}

	return toAuthResponse(result), nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, req *api.ListUsersRequest) (*api.ListUsersResponse, error) {

	if _, ok := IdentityFromContext(ctx); !ok {
		return nil, toStatus(common.NewError(common.KindUnauthorized, "caller identity is missing"))
	}

	list, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	out := make([]api.User, 0, len(list))
	for _, id := range list {
		out = append(out, toUser(id))
	}
	return &api.ListUsersResponse{Users: out}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}
