// Package domain holds the scoring value types shared by the pipeline, the
// service and the persistence adapters.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Intent is the discrete qualification outcome of a lead.
type Intent string

const (
	IntentHigh   Intent = "High"
	IntentMedium Intent = "Medium"
	IntentLow    Intent = "Low"
)

// ParseIntent returns the intent matching label case-insensitively.
func ParseIntent(label string) (Intent, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "high":
		return IntentHigh, true
	case "medium":
		return IntentMedium, true
	case "low":
		return IntentLow, true
	default:
		return "", false
	}
}

// Valid reports whether i is one of the three known intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentHigh, IntentMedium, IntentLow:
		return true
	default:
		return false
	}
}

// Offer is the product a batch of leads is scored against.
type Offer struct {
	ID            uuid.UUID
	Name          string
	ValueProps    []string
	IdealUseCases []string
}

// Lead is a prospect record created at ingestion.
type Lead struct {
	ID       uuid.UUID
	BatchID  uuid.UUID
	Name     string
	Role     string
	Company  string
	Industry string
	Location string
	Bio      *string
}

// ResultInput is the payload written for a lead by a scoring run.
type ResultInput struct {
	Intent    Intent
	Score     int
	Reasoning string
}

// LeadResult is the persisted outcome for one lead.
type LeadResult struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Intent    Intent
	Score     int
	Reasoning string
	CreatedAt time.Time
	UpdatedAt time.Time
}
