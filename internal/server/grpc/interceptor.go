package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/rpc"
	"github.com/dmitrijs2005/fintrack/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const identityKey ctxKey = "identity"

// accessTokenInterceptor verifies the bearer token in the "authorization"
// metadata for every method except the public auth ones.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if rpc.IsPublic(info.FullMethod) {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AuthorizationHeaderName)
		if len(values) > 0 {
			header = values[0]
		}
	}
	if len(header) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	identity, err := authorize(s.verifier, header)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	ctx = context.WithValue(ctx, identityKey, identity)

	return handler(ctx, req)
}

func authorize(v TokenVerifier, header string) (auth.Identity, error) {
	token, ok := auth.BearerToken(header)
	if !ok {
		return auth.Identity{}, common.ErrorUnauthorized
	}
	return v.Verify(token)
}

// loggingInterceptor logs one line per call with its outcome code.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	args := []any{
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"latency_ms", time.Since(start).Milliseconds(),
		"request_id", uuid.NewString(),
	}
	s.logger.Info(ctx, "rpc", args...)

	return resp, err
}

func identityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}
