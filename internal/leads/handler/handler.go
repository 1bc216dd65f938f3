package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"leadqual_backend/internal/leads/transport"
	"leadqual_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgMissingOfferID = "Missing offerId"
	msgMissingFile    = "Missing csv file"
	msgMissingBoth    = "Missing offerId and csv file"
	msgInvalidOfferID = "offerId must be a valid identifier"
	msgFileTooLarge   = "csv file too large"

	// MaxUploadBytes bounds the multipart body.
	MaxUploadBytes = 10 << 20
)

// Uploader ingests a CSV for an offer.
type Uploader interface {
	Upload(ctx context.Context, offerID uuid.UUID, file io.Reader) (transport.UploadResponse, error)
}

// Handler handles lead upload requests.
type Handler struct {
	svc Uploader
}

// New creates a new leads handler.
func New(svc Uploader) *Handler {
	return &Handler{svc: svc}
}

// Upload ingests a multipart CSV upload.
// POST /api/v1/leads/upload
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)
	if err := c.Request.ParseMultipartForm(MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpkit.Error(c, http.StatusRequestEntityTooLarge, msgFileTooLarge, nil)
			return
		}
	}

	offerIDRaw := strings.TrimSpace(c.PostForm("offerId"))
	// Any FormFile error means the part is absent or unreadable.
	fileHeader, _ := c.FormFile("file")

	switch {
	case offerIDRaw == "" && fileHeader == nil:
		httpkit.Error(c, http.StatusBadRequest, msgMissingBoth, nil)
		return
	case offerIDRaw == "":
		httpkit.Error(c, http.StatusBadRequest, msgMissingOfferID, nil)
		return
	case fileHeader == nil:
		httpkit.Error(c, http.StatusBadRequest, msgMissingFile, nil)
		return
	}

	offerID, err := uuid.Parse(offerIDRaw)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidOfferID, nil)
		return
	}

	file, err := fileHeader.Open()
	if httpkit.HandleError(c, err) {
		return
	}
	defer file.Close()

	result, err := h.svc.Upload(c.Request.Context(), offerID, file)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
