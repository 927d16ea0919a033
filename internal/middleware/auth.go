package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medtrain/cert-registry-api/internal/service"
	appErrors "github.com/medtrain/cert-registry-api/pkg/errors"
	"github.com/medtrain/cert-registry-api/pkg/response"
)

// ContextUserKey is the gin context key storing validated claims.
const ContextUserKey = "currentUser"

// Auth protects routes by requiring a valid identity token. The token
// is read from the session cookie first; a Bearer header is accepted as
// a fallback for non-browser clients.
func Auth(authService *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c, cookieName)
		if token == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
