// file: internal/middleware/auth.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"coursehub/internal/models"
	"coursehub/internal/response"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const authContextKey ContextKey = "auth_context"

// AuthContext holds the authenticated caller's identity for a request.
// Identity is resolved externally; the token is trusted once its signature
// verifies.
type AuthContext struct {
	UserID primitive.ObjectID `json:"user_id"`
	Name   string             `json:"name"`
	Role   string             `json:"role"`
}

// IsInstructor reports whether the caller holds the instructor role.
func (a *AuthContext) IsInstructor() bool {
	return a != nil && a.Role == models.RoleInstructor
}

// AuthMiddleware verifies bearer tokens and attaches the caller's identity
// to the request context.
type AuthMiddleware struct {
	secret []byte
	logger *zap.Logger
}

// NewAuthMiddleware creates the bearer-token middleware
func NewAuthMiddleware(secret string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret), logger: logger}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth, err := m.authenticate(r)
		if err != nil {
			GetLogger(r.Context(), m.logger).Debug("Authentication failed", zap.Error(err))
			response.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), auth)))
	})
}

// OptionalAuth attaches the caller's identity when a valid token is present
// and lets the request through anonymously otherwise.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth, err := m.authenticate(r); err == nil {
			r = r.WithContext(WithAuthContext(r.Context(), auth))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*AuthContext, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, fmt.Errorf("missing authorization header")
	}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, fmt.Errorf("malformed authorization header")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	userID, err := primitive.ObjectIDFromHex(subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject %q", subject)
	}

	auth := &AuthContext{UserID: userID, Role: models.RoleStudent}
	if role, ok := claims["role"].(string); ok && role != "" {
		auth.Role = role
	}
	if name, ok := claims["name"].(string); ok {
		auth.Name = name
	}
	return auth, nil
}

// WithAuthContext attaches an identity to the context. Exposed for handler
// tests that bypass the token path.
func WithAuthContext(ctx context.Context, auth *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, auth)
}

// GetAuthContext returns the caller's identity, or nil for anonymous
// requests.
func GetAuthContext(ctx context.Context) *AuthContext {
	auth, _ := ctx.Value(authContextKey).(*AuthContext)
	return auth
}
