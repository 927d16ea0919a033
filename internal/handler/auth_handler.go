package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medtrain/cert-registry-api/internal/models"
	"github.com/medtrain/cert-registry-api/internal/service"
	appErrors "github.com/medtrain/cert-registry-api/pkg/errors"
	"github.com/medtrain/cert-registry-api/pkg/response"
)

// AuthHandlerConfig controls the session cookie the handler issues.
type AuthHandlerConfig struct {
	CookieName   string
	CookieDomain string
	CookieSecure bool
	TokenExpiry  time.Duration
}

// AuthHandler wires HTTP endpoints to the auth service and owns the
// session cookie lifecycle.
type AuthHandler struct {
	service *service.AuthService
	config  AuthHandlerConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{service: svc, config: config}
}

// Register godoc
// @Summary Register admin account
// @Description Create a portal account with username and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Register payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid register payload"))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by username and password, setting the session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.config.TokenExpiry.Seconds()))
	response.JSON(c, http.StatusOK, user)
}

// Logout godoc
// @Summary Logout current session
// @Description Expire the session cookie
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	response.JSON(c, http.StatusOK, gin.H{"logged_out": true})
}

// Me godoc
// @Summary Current user
// @Description Return the identity behind the session cookie
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.CurrentUser(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

// setSessionCookie writes the http-only session cookie. SameSite=None
// lets the browser send it on cross-site requests from the frontend
// origin, which requires the Secure attribute.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(h.config.CookieName, token, maxAge, "/", h.config.CookieDomain, h.config.CookieSecure, true)
}
