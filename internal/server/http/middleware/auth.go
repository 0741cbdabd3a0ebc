package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/tableside/internal/domain/model"
	pkgAuth "github.com/polkiloo/tableside/internal/pkg/auth"
)

const (
	// RoleContextKey is a gin context key for the caller role.
	RoleContextKey = "role"
	// SubjectContextKey is a gin context key for the authenticated subject.
	SubjectContextKey = "subject"
	authCookieName    = "tableside_token"
)

// TokenParser resolves a bearer token into an identity.
type TokenParser interface {
	ParseToken(token string) (pkgAuth.Identity, error)
}

// Identify attaches the caller role to the request. Requests without a
// valid token are served as customers.
func Identify(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(RoleContextKey, model.RoleCustomer)

		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}
		identity, err := parser.ParseToken(token)
		if err != nil || !identity.Role.Valid() {
			c.Next()
			return
		}

		c.Set(RoleContextKey, identity.Role)
		c.Set(SubjectContextKey, identity.Subject)
		c.Next()
	}
}

// RequireRole rejects callers without role. Anonymous callers get 401,
// authenticated callers with another role get 403.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(SubjectContextKey) == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if RoleOf(c) != role {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// RoleOf returns the role attached by Identify.
func RoleOf(c *gin.Context) model.Role {
	val, ok := c.Get(RoleContextKey)
	if !ok {
		return model.RoleCustomer
	}
	role, ok := val.(model.Role)
	if !ok {
		return model.RoleCustomer
	}
	return role
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}

// ClearAuthCookie drops the auth cookie, returning the browser to the customer role.
func ClearAuthCookie(c *gin.Context) {
	c.SetCookie(authCookieName, "", -1, "/", "", false, true)
}
