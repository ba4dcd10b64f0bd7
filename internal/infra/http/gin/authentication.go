package ginserver

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"bookflow/internal/app/services/auth"
)

const (
	principalContextKey = "bookflow.principal"
	sessionCookieName   = "token"
)

type principal struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// TokenVerifier validates an access token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware resolves the session token, from the HTTP-only cookie
// or an Authorization bearer header, into a principal. Requests without
// a valid token pass through anonymous; handlers decide what needs auth.
type AuthMiddleware struct {
	Service *auth.Service
	Tokens  TokenVerifier
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := sessionToken(c)
	if token == "" || m.Service == nil || m.Tokens == nil {
		c.Next()
		return
	}
	userID, err := m.Tokens.Verify(token)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	user, err := m.Service.UserByID(c.Request.Context(), userID)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Debug("token subject not found", "user_id", userID, "error", err)
		}
		c.Next()
		return
	}
	setPrincipal(c, principal{
		ID:        string(user.ID),
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	})
	c.Next()
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	return extractBearerToken(c.GetHeader("Authorization"))
}

func setPrincipal(c *gin.Context, p principal) {
	c.Set(principalContextKey, p)
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requireAuth(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return principal{}, false
	}
	return p, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
