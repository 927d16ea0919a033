package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medtrain/cert-registry-api/internal/dto"
	"github.com/medtrain/cert-registry-api/internal/service"
	appErrors "github.com/medtrain/cert-registry-api/pkg/errors"
	"github.com/medtrain/cert-registry-api/pkg/response"
)

// CertificateHandler wires HTTP endpoints to the certificate service.
type CertificateHandler struct {
	service *service.CertificateService
}

// NewCertificateHandler creates a new handler.
func NewCertificateHandler(svc *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{service: svc}
}

// Create godoc
// @Summary Create record
// @Description Create a trainee record from a sanitized submission
// @Tags Certificates
// @Accept json
// @Produce json
// @Param payload body dto.CertificateRequest true "Record payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /certificates [post]
func (h *CertificateHandler) Create(c *gin.Context) {
	var req dto.CertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}

	rec, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, rec)
}

// List godoc
// @Summary List records
// @Description List all records, optionally filtered by date needle
// @Tags Certificates
// @Produce json
// @Param date query string false "Date filter"
// @Success 200 {object} response.Envelope
// @Router /certificates [get]
func (h *CertificateHandler) List(c *gin.Context) {
	if date := c.Query("date"); date != "" {
		records, err := h.service.ListByDate(c.Request.Context(), date)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, records)
		return
	}

	records, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// ListByDate godoc
// @Summary List records by date
// @Description List records whose training date contains the needle or whose creation date equals it
// @Tags Certificates
// @Produce json
// @Param date path string true "Date needle"
// @Success 200 {object} response.Envelope
// @Router /certificates/date/{date} [get]
func (h *CertificateHandler) ListByDate(c *gin.Context) {
	records, err := h.service.ListByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// Get godoc
// @Summary Get record
// @Description Fetch a single record by id
// @Tags Certificates
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /certificates/{id} [get]
func (h *CertificateHandler) Get(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	rec, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec)
}

// Update godoc
// @Summary Update record
// @Description Fully replace the mutable fields of a record
// @Tags Certificates
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param payload body dto.CertificateRequest true "Record payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /certificates/{id} [put]
func (h *CertificateHandler) Update(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	var req dto.CertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}

	rec, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec)
}

// Delete godoc
// @Summary Delete record
// @Description Remove a record permanently
// @Tags Certificates
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /certificates/{id} [delete]
func (h *CertificateHandler) Delete(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer"))
		return 0, false
	}
	return id, true
}
