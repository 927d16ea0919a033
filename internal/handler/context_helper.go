package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/medtrain/cert-registry-api/internal/middleware"
	"github.com/medtrain/cert-registry-api/internal/models"
)

// claimsFromContext returns the validated claims the auth middleware
// stored, or nil when the route was reached unauthenticated.
func claimsFromContext(c *gin.Context) *models.AuthClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}
