package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/avolkov/url-shortener/internal/auth"
)

// GRPCAuthMiddleware mirrors the HTTP bearer-token middleware for gRPC
// metadata.
type GRPCAuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewGRPCAuthMiddleware creates a GRPCAuthMiddleware with the provided JWT
// service.
func NewGRPCAuthMiddleware(jwtService *auth.JWTService) *GRPCAuthMiddleware {
	return &GRPCAuthMiddleware{
		jwtService: jwtService,
	}
}

// UnaryInterceptor validates the authorization metadata entry and stores the
// user ID in the call context. Calls without a token proceed unauthenticated;
// handlers that need an identity check for its presence.
func (m *GRPCAuthMiddleware) UnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "metadata is missing")
	}

	authHeader := md.Get("authorization")
	if len(authHeader) == 0 {
		return handler(ctx, req)
	}

	token := strings.TrimPrefix(authHeader[0], "Bearer ")
	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		return handler(ctx, req)
	}

	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	return handler(ctx, req)
}
