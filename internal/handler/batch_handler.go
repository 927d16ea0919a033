package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medtrain/cert-registry-api/internal/service"
	"github.com/medtrain/cert-registry-api/pkg/response"
)

// BatchHandler wires HTTP endpoints to the batch service.
type BatchHandler struct {
	service *service.BatchService
}

// NewBatchHandler creates a new handler.
func NewBatchHandler(svc *service.BatchService) *BatchHandler {
	return &BatchHandler{service: svc}
}

// List godoc
// @Summary List batches
// @Description Group records into training batches, optionally filtered by search
// @Tags Batches
// @Produce json
// @Param search query string false "Search needle"
// @Success 200 {object} response.Envelope
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	batches, err := h.service.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches)
}

// Get godoc
// @Summary Get batch
// @Description Fetch a single batch by its normalized key
// @Tags Batches
// @Produce json
// @Param key path string true "Batch key"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{key} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	batch, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batch)
}
