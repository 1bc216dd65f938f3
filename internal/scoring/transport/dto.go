package transport

import (
	"leadqual_backend/internal/scoring/domain"

	"github.com/google/uuid"
)

type ScoreRequest struct {
	BatchID string `json:"batchId" validate:"required,notblank"`
	OfferID string `json:"offerId" validate:"required,notblank"`
}

type ScoredLeadResponse struct {
	LeadID    uuid.UUID     `json:"leadId"`
	Name      string        `json:"name"`
	Role      string        `json:"role"`
	Company   string        `json:"company"`
	Intent    domain.Intent `json:"intent"`
	Score     int           `json:"score"`
	Reasoning string        `json:"reasoning"`
}

type ScoreResponse struct {
	Success bool                 `json:"success"`
	Results []ScoredLeadResponse `json:"results"`
}

type EnqueueScoreResponse struct {
	TaskID string `json:"taskId"`
}
