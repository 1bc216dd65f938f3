// Package events defines the lead pipeline's domain events: BatchIngested
// after a CSV upload and BatchScored after a scoring run. The bus itself is
// in platform/events.
package events

import (
	"leadqual_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Ingestion Events
// =============================================================================

// BatchIngested is published after a CSV upload created a batch and its leads.
type BatchIngested struct {
	BaseEvent
	BatchID   uuid.UUID `json:"batchId"`
	OfferID   uuid.UUID `json:"offerId"`
	LeadCount int       `json:"leadCount"`
}

func (e BatchIngested) EventName() string { return "leads.batch.ingested" }

// =============================================================================
// Scoring Events
// =============================================================================

// BatchScored is published after every lead of a batch has a stored result.
type BatchScored struct {
	BaseEvent
	BatchID     uuid.UUID `json:"batchId"`
	OfferID     uuid.UUID `json:"offerId"`
	LeadCount   int       `json:"leadCount"`
	HighIntent  int       `json:"highIntent"`
	FailedCalls int       `json:"failedCalls"`
}

func (e BatchScored) EventName() string { return "scoring.batch.scored" }
