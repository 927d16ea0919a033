package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medtrain/cert-registry-api/internal/service"
	appErrors "github.com/medtrain/cert-registry-api/pkg/errors"
	"github.com/medtrain/cert-registry-api/pkg/response"
)

// DraftHandler wires HTTP endpoints to the draft service.
type DraftHandler struct {
	service *service.DraftService
}

// NewDraftHandler creates a new handler.
func NewDraftHandler(svc *service.DraftService) *DraftHandler {
	return &DraftHandler{service: svc}
}

// Get godoc
// @Summary Get draft
// @Description Return the caller's saved form draft, null when none exists
// @Tags Drafts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /drafts [get]
func (h *DraftHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	draft, err := h.service.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft)
}

// Save godoc
// @Summary Save draft
// @Description Replace the caller's form draft with the request body
// @Tags Drafts
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /drafts [put]
func (h *DraftHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}

	draft, err := h.service.Save(c.Request.Context(), claims.UserID, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft)
}

// Clear godoc
// @Summary Clear draft
// @Description Remove the caller's saved form draft
// @Tags Drafts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /drafts [delete]
func (h *DraftHandler) Clear(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Clear(c.Request.Context(), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"cleared": true})
}
