package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateOfferRequest keeps the snake_case field names the upload tooling sends.
type CreateOfferRequest struct {
	Name          string   `json:"name" validate:"max=200"`
	ValueProps    []string `json:"value_props" validate:"max=50,dive,max=500"`
	IdealUseCases []string `json:"ideal_use_cases" validate:"max=50,dive,max=200"`
}

type OfferResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ValueProps    []string  `json:"valueProps"`
	IdealUseCases []string  `json:"idealUseCases"`
	CreatedAt     time.Time `json:"createdAt"`
}
