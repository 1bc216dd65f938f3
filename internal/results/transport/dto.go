package transport

import "time"

// ResultsQuery filters results by batch and/or offer. Both are optional.
type ResultsQuery struct {
	BatchID string `form:"batchId" validate:"omitempty,uuid"`
	OfferID string `form:"offerId" validate:"omitempty,uuid"`
}

// ResultRow is one lead with its score, if any. Unscored leads carry the
// "Unknown" intent and null score and reasoning.
type ResultRow struct {
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Company   string  `json:"company"`
	Industry  string  `json:"industry"`
	Location  string  `json:"location"`
	Intent    string  `json:"intent"`
	Score     *int    `json:"score"`
	Reasoning *string `json:"reasoning"`
}

type ExportResponse struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
	Rows      int       `json:"rows"`
}
