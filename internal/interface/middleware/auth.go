package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andrsolo/contactbook/internal/domain/entity"
	repo "github.com/andrsolo/contactbook/internal/domain/repository"
	"github.com/andrsolo/contactbook/pkg/response"
	"github.com/andrsolo/contactbook/pkg/tokens"
)

const ctxUserKey = "currentUser"

// Auth validates the bearer token from the Authorization header and resolves
// the authenticated user. Token verification is stateless; the user row is
// loaded fresh on every request.
func Auth(users repo.UserRepository, tm *tokens.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		claims, err := tm.Parse(token, tokens.PurposeSession)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}
		u, err := users.GetByUsername(c.Request.Context(), claims.Subject)
		if err != nil || u == nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}
		c.Set(ctxUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the user resolved by Auth, or nil outside it.
func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}

// RequireAdmin must run after Auth; it rejects non-admin users.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || u.Role != entity.RoleAdmin {
			response.Error[any](c, http.StatusForbidden, "admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
