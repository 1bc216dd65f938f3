// Package service ingests uploaded prospect lists into batches of leads.
package service

import (
	"context"
	"errors"
	"io"

	"leadqual_backend/internal/events"
	"leadqual_backend/internal/leads/csvimport"
	"leadqual_backend/internal/leads/repository"
	"leadqual_backend/internal/leads/transport"
	"leadqual_backend/platform/apperr"
	"leadqual_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgCSVInvalid    = "CSV file is empty or invalid"
	msgTooManyRows   = "CSV file has too many rows"
	msgOfferNotFound = "offer not found"

	// DefaultMaxRows caps a single upload.
	DefaultMaxRows = 10000
)

// Repository persists batches.
type Repository interface {
	CreateBatch(ctx context.Context, offerID uuid.UUID, leads []repository.NewLead) (repository.Batch, error)
}

// OfferChecker reports whether an offer exists.
type OfferChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service handles lead uploads.
type Service struct {
	repo     Repository
	offers   OfferChecker
	eventBus events.Bus
	log      *logger.Logger
	maxRows  int
}

// New creates a lead ingestion service.
func New(repo Repository, offers OfferChecker, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, offers: offers, eventBus: eventBus, log: log, maxRows: DefaultMaxRows}
}

// Upload parses a CSV and stores its rows as a new batch for offerID.
func (s *Service) Upload(ctx context.Context, offerID uuid.UUID, file io.Reader) (transport.UploadResponse, error) {
	rows, err := csvimport.Parse(file, s.maxRows)
	switch {
	case errors.Is(err, csvimport.ErrTooManyRows):
		return transport.UploadResponse{}, apperr.BadRequest(msgTooManyRows)
	case errors.Is(err, csvimport.ErrEmpty):
		return transport.UploadResponse{}, apperr.BadRequest(msgCSVInvalid)
	case err != nil:
		return transport.UploadResponse{}, apperr.Wrap(apperr.KindBadRequest, msgCSVInvalid, err)
	}

	exists, err := s.offers.Exists(ctx, offerID)
	if err != nil {
		return transport.UploadResponse{}, err
	}
	if !exists {
		return transport.UploadResponse{}, apperr.NotFound(msgOfferNotFound)
	}

	leads := make([]repository.NewLead, len(rows))
	for i, r := range rows {
		leads[i] = repository.NewLead{
			Name:     r.Name,
			Role:     r.Role,
			Company:  r.Company,
			Industry: r.Industry,
			Location: r.Location,
			Bio:      r.Bio,
		}
	}

	batch, err := s.repo.CreateBatch(ctx, offerID, leads)
	if err != nil {
		return transport.UploadResponse{}, err
	}

	s.log.WithContext(ctx).Info("lead batch ingested", "batchId", batch.ID, "offerId", offerID, "leads", batch.LeadCount)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.BatchIngested{
			BaseEvent: events.NewBaseEvent(),
			BatchID:   batch.ID,
			OfferID:   offerID,
			LeadCount: batch.LeadCount,
		})
	}

	return transport.UploadResponse{BatchID: batch.ID, InsertedCount: batch.LeadCount}, nil
}
