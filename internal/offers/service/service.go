package service

import (
	"context"

	"leadqual_backend/internal/offers/repository"
	"leadqual_backend/internal/offers/transport"
	"leadqual_backend/platform/apperr"
	"leadqual_backend/platform/logger"
	"leadqual_backend/platform/sanitize"

	"github.com/google/uuid"
)

const msgNameRequired = "name required"

// Repository is the persistence port for offers.
type Repository interface {
	Create(ctx context.Context, params repository.CreateOfferParams) (repository.Offer, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Offer, error)
}

// Service provides business logic for offers.
type Service struct {
	repo Repository
	log  *logger.Logger
}

// New creates a new offers service.
func New(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create stores a new offer. Blank list entries are dropped.
func (s *Service) Create(ctx context.Context, req transport.CreateOfferRequest) (transport.OfferResponse, error) {
	name := sanitize.Field(req.Name)
	if name == "" {
		return transport.OfferResponse{}, apperr.Validation(msgNameRequired)
	}

	offer, err := s.repo.Create(ctx, repository.CreateOfferParams{
		Name:          name,
		ValueProps:    cleanList(req.ValueProps),
		IdealUseCases: cleanList(req.IdealUseCases),
	})
	if err != nil {
		return transport.OfferResponse{}, err
	}

	s.log.WithContext(ctx).Info("offer created", "offerId", offer.ID, "name", offer.Name)
	return toResponse(offer), nil
}

// GetByID returns an offer.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.OfferResponse, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.OfferResponse{}, err
	}
	return toResponse(offer), nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = sanitize.Field(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func toResponse(o repository.Offer) transport.OfferResponse {
	return transport.OfferResponse{
		ID:            o.ID,
		Name:          o.Name,
		ValueProps:    cleanNil(o.ValueProps),
		IdealUseCases: cleanNil(o.IdealUseCases),
		CreatedAt:     o.CreatedAt,
	}
}

func cleanNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
