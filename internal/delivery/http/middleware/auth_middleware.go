package middleware

import (
	"context"
	"net/http"
	"strings"

	"medimarket/internal/domain/entity"
	"medimarket/pkg/jwt"
	"medimarket/pkg/response"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	RoleIDKey  contextKey = "role_id"
	TokenIDKey contextKey = "token_id"
	ClaimsKey  contextKey = "claims"
)

// IdentityResolver maps a verified provider subject to the internal user.
// ResolveUser returns (nil, nil) when the subject has never been synced.
type IdentityResolver interface {
	ResolveUser(ctx context.Context, authID string) (*entity.User, error)
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	resolver   IdentityResolver
	log        *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, resolver IdentityResolver, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		resolver:   resolver,
		log:        log,
	}
}

// VerifyToken only checks the provider token. The caller may not have an internal user yet.
func (m *AuthMiddleware) VerifyToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.verify(w, r)
		if !ok {
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, TokenIDKey, claims.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authenticate checks the provider token and resolves the internal user behind it.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.verify(w, r)
		if !ok {
			return
		}

		user, err := m.resolver.ResolveUser(r.Context(), claims.Subject)
		if err != nil {
			m.log.Warnf("Failed to resolve user %s: %+v", claims.Subject, err)
			response.InternalServerError(w, "Failed to resolve user")
			return
		}
		if user == nil {
			response.Unauthorized(w, "User not synced")
			return
		}
		if !user.IsActive {
			response.Forbidden(w, "User is inactive")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, TokenIDKey, claims.ID)
		ctx = ContextWithUser(ctx, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) verify(w http.ResponseWriter, r *http.Request) (*jwt.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		response.Unauthorized(w, "Authorization header is required")
		return nil, false
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Unauthorized(w, "Invalid authorization header format")
		return nil, false
	}

	claims, err := m.jwtService.ValidateToken(parts[1])
	if err != nil {
		response.Unauthorized(w, "Invalid or expired token")
		return nil, false
	}

	if claims.ID != "" {
		revoked, err := m.resolver.IsTokenRevoked(r.Context(), claims.ID)
		if err != nil {
			m.log.Warnf("Failed to check token revocation: %+v", err)
			response.InternalServerError(w, "Failed to validate token")
			return nil, false
		}
		if revoked {
			response.Unauthorized(w, "Token has been revoked")
			return nil, false
		}
	}

	return claims, true
}

// ContextWithUser stores the resolved user's id and role on the context
func ContextWithUser(ctx context.Context, user *entity.User) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, user.ID)
	return context.WithValue(ctx, RoleIDKey, user.RoleID)
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetRoleIDFromContext extracts role ID from context
func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	roleID, ok := ctx.Value(RoleIDKey).(int)
	return roleID, ok
}

// GetClaimsFromContext extracts the verified provider claims from context
func GetClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims)
	return claims, ok
}
