package handler

import (
	"bytes"
	"net/http"

	"leadqual_backend/internal/results/service"
	"leadqual_backend/internal/results/transport"
	"leadqual_backend/platform/httpkit"
	"leadqual_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	csvFileName         = "results.csv"
)

// Handler handles HTTP requests for results.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new results handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers result routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/csv", h.CSV)
	rg.POST("/exports", h.Export)
}

// List returns results as JSON.
// GET /api/v1/results
func (h *Handler) List(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}
	filter, err := service.ParseFilter(query)
	if httpkit.HandleError(c, err) {
		return
	}

	rows, err := h.svc.List(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, rows)
}

// CSV returns results as a CSV attachment.
// GET /api/v1/results/csv
func (h *Handler) CSV(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}
	filter, err := service.ParseFilter(query)
	if httpkit.HandleError(c, err) {
		return
	}

	rows, err := h.svc.List(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}

	var buf bytes.Buffer
	if err := service.WriteCSV(&buf, rows); httpkit.HandleError(c, err) {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+csvFileName+`"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// Export writes a CSV snapshot to object storage.
// POST /api/v1/results/exports
func (h *Handler) Export(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}
	filter, err := service.ParseFilter(query)
	if httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.Export(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) bindQuery(c *gin.Context) (transport.ResultsQuery, bool) {
	var query transport.ResultsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return query, false
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return query, false
	}
	return query, true
}
