package handler

import (
	"context"
	"net/http"

	"leadqual_backend/internal/scoring/service"
	"leadqual_backend/internal/scoring/transport"
	"leadqual_backend/platform/apperr"
	"leadqual_backend/platform/httpkit"
	"leadqual_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest  = "invalid request"
	msgIDsRequired     = "batchId and offerId required"
	msgAsyncNotEnabled = "asynchronous scoring is not configured"
)

// Scorer is the slice of the scoring service used over HTTP.
type Scorer interface {
	ScoreBatch(ctx context.Context, req service.ScoreRequest) (service.BatchResult, error)
	Validate(ctx context.Context, req service.ScoreRequest) error
}

// Enqueuer schedules background scoring runs.
type Enqueuer interface {
	EnqueueBatchScoring(ctx context.Context, batchID, offerID uuid.UUID) (string, error)
}

// Handler handles HTTP requests for scoring.
type Handler struct {
	svc      Scorer
	enqueuer Enqueuer
	val      *validator.Validator
}

// New creates a new scoring handler. enqueuer may be nil.
func New(svc Scorer, enqueuer Enqueuer, val *validator.Validator) *Handler {
	return &Handler{svc: svc, enqueuer: enqueuer, val: val}
}

// RegisterRoutes registers scoring routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Score)
	rg.POST("/async", h.ScoreAsync)
}

func (h *Handler) Score(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	result, err := h.svc.ScoreBatch(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ScoreResponse{
		Success: true,
		Results: make([]transport.ScoredLeadResponse, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		resp.Results = append(resp.Results, transport.ScoredLeadResponse{
			LeadID:    r.LeadID,
			Name:      r.Name,
			Role:      r.Role,
			Company:   r.Company,
			Intent:    r.Intent,
			Score:     r.Score,
			Reasoning: r.Reasoning,
		})
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ScoreAsync(c *gin.Context) {
	if h.enqueuer == nil {
		httpkit.HandleError(c, apperr.Unavailable(msgAsyncNotEnabled))
		return
	}

	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	if err := h.svc.Validate(c.Request.Context(), req); httpkit.HandleError(c, err) {
		return
	}

	taskID, err := h.enqueuer.EnqueueBatchScoring(c.Request.Context(), req.BatchID, req.OfferID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, transport.EnqueueScoreResponse{TaskID: taskID})
}

func (h *Handler) bindRequest(c *gin.Context) (service.ScoreRequest, bool) {
	var body transport.ScoreRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return service.ScoreRequest{}, false
	}
	if err := h.val.Struct(body); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgIDsRequired, nil)
		return service.ScoreRequest{}, false
	}

	req, err := service.ParseScoreRequest(body.BatchID, body.OfferID)
	if httpkit.HandleError(c, err) {
		return service.ScoreRequest{}, false
	}
	return req, true
}
