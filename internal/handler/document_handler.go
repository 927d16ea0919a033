package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/medtrain/cert-registry-api/internal/service"
	"github.com/medtrain/cert-registry-api/pkg/response"
)

// DocumentHandler wires HTTP endpoints to the document renderer.
type DocumentHandler struct {
	service *service.DocumentService
	metrics *service.MetricsService
}

// NewDocumentHandler creates a new handler.
func NewDocumentHandler(svc *service.DocumentService, metrics *service.MetricsService) *DocumentHandler {
	return &DocumentHandler{service: svc, metrics: metrics}
}

// Certificate godoc
// @Summary Download certificate
// @Description Render the certificate PDF for one record
// @Tags Documents
// @Produce application/pdf
// @Param id path int true "Record ID"
// @Success 200 {file} binary
// @Router /certificates/{id}/pdf [get]
func (h *DocumentHandler) Certificate(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	filename, payload, err := h.service.RenderCertificate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.ObserveDocumentRender("certificate")
	response.PDF(c, filename, payload)
}

// BatchCertificates godoc
// @Summary Download batch certificates
// @Description Render one certificate page per record in the batch
// @Tags Documents
// @Produce application/pdf
// @Param key path string true "Batch key"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /batches/{key}/certificates/pdf [get]
func (h *DocumentHandler) BatchCertificates(c *gin.Context) {
	filename, payload, err := h.service.RenderBatchCertificates(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.ObserveDocumentRender("batch_certificates")
	response.PDF(c, filename, payload)
}

// BatchIDCards godoc
// @Summary Download batch ID cards
// @Description Render double-sided ID cards for the batch
// @Tags Documents
// @Produce application/pdf
// @Param key path string true "Batch key"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /batches/{key}/id-cards/pdf [get]
func (h *DocumentHandler) BatchIDCards(c *gin.Context) {
	filename, payload, err := h.service.RenderBatchIDCards(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.ObserveDocumentRender("batch_id_cards")
	response.PDF(c, filename, payload)
}
