package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/tokens"
)

type ctxKey string

const identityKey ctxKey = "identity"

// protectedMethods require a valid access token.
var protectedMethods = map[string]bool{
	api.MethodListUsers: true,
}

// IdentityFromContext returns the caller identity set by the access-token
// interceptor.
func IdentityFromContext(ctx context.Context) (tokens.Identity, bool) {
	id, ok := ctx.Value(identityKey).(tokens.Identity)
	return id, ok
}

func accessTokenFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AccessTokenHeaderName)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if protectedMethods[info.FullMethod] {
		id, err := s.users.Authorize(accessTokenFromContext(ctx))
		if err != nil {
			return nil, toStatus(err)
		}
		ctx = context.WithValue(ctx, identityKey, id)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "rpc",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
