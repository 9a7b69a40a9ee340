package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/platera-api/internal/domain/entity"
)

// SessionCookie is the cookie the identity provider's frontend SDK sets.
const SessionCookie = "__session"

const userContextKey = "current_user"

// TokenVerifier validates a session token and returns the provider user id.
type TokenVerifier interface {
	VerifySessionToken(ctx context.Context, token string) (string, error)
}

// UserResolver resolves a provider user id to a local account.
type UserResolver interface {
	CurrentUser(ctx context.Context, clerkID string) (*entity.User, error)
}

// AuthMiddleware authenticates requests against the identity provider and
// resolves the local account for downstream handlers.
type AuthMiddleware struct {
	verifier TokenVerifier
	resolver UserResolver
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(verifier TokenVerifier, resolver UserResolver) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, resolver: resolver}
}

// sessionToken reads the session token from the cookie, falling back to the
// Authorization header for non-browser clients.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// resolve verifies the token and resolves the account. A nil user with a nil
// error means the request is anonymous.
func (m *AuthMiddleware) resolve(c *gin.Context) (*entity.User, error) {
	token := sessionToken(c)
	if token == "" {
		return nil, nil
	}

	clerkID, err := m.verifier.VerifySessionToken(c.Request.Context(), token)
	if err != nil {
		// An invalid token downgrades to anonymous rather than failing the
		// request. Protected routes reject the nil user.
		return nil, nil
	}

	user, err := m.resolver.CurrentUser(c.Request.Context(), clerkID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RequireAuth rejects requests that cannot be resolved to a local account.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.resolve(c)
		if err != nil {
			log.Printf("[AuthMiddleware] Account resolution failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve account", "error_type": "internal_server_error"})
			c.Abort()
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "token_missing"})
			c.Abort()
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// OptionalAuth resolves the account when a valid session is present and
// continues anonymously otherwise.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.resolve(c)
		if err != nil {
			log.Printf("[AuthMiddleware] Account resolution failed, continuing anonymously: %v", err)
		}
		if user != nil {
			SetCurrentUser(c, user)
		}
		c.Next()
	}
}

// SetCurrentUser stores the resolved account in the Gin context.
func SetCurrentUser(c *gin.Context, user *entity.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the resolved account, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *entity.User {
	val, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := val.(*entity.User)
	if !ok {
		return nil
	}
	return user
}
