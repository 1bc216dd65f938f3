// Package service orchestrates batch scoring: it loads the offer and the
// leads, evaluates every lead through the pipeline and persists one result
// per lead.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"leadqual_backend/internal/events"
	"leadqual_backend/internal/scoring/domain"
	"leadqual_backend/internal/scoring/pipeline"
	"leadqual_backend/platform/apperr"
	"leadqual_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	msgIDsRequired  = "batchId and offerId required"
	msgInvalidIDs   = "batchId and offerId must be valid identifiers"
	defaultParallel = 4
)

// Repository is the persistence port of the scoring service.
type Repository interface {
	FindOffer(ctx context.Context, offerID uuid.UUID) (domain.Offer, error)
	FindLeads(ctx context.Context, batchID uuid.UUID) ([]domain.Lead, error)
	UpsertLeadResult(ctx context.Context, leadID uuid.UUID, in domain.ResultInput) (domain.LeadResult, error)
}

// ScoreRequest identifies the batch to score and the offer to score it against.
type ScoreRequest struct {
	BatchID uuid.UUID
	OfferID uuid.UUID
}

// ScoredLead is the per-lead summary returned to callers.
type ScoredLead struct {
	LeadID    uuid.UUID
	Name      string
	Role      string
	Company   string
	Intent    domain.Intent
	Score     int
	Reasoning string
}

// BatchResult lists scored leads in the order the batch stores them.
type BatchResult struct {
	BatchID uuid.UUID
	OfferID uuid.UUID
	Results []ScoredLead
}

// Service scores batches of leads.
type Service struct {
	repo        Repository
	classifier  *pipeline.Classifier
	eventBus    events.Bus
	log         *logger.Logger
	concurrency int
}

// New creates a scoring service. concurrency bounds the number of leads
// evaluated at once; values below 1 fall back to the default.
func New(repo Repository, classifier *pipeline.Classifier, eventBus events.Bus, log *logger.Logger, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = defaultParallel
	}
	return &Service{
		repo:        repo,
		classifier:  classifier,
		eventBus:    eventBus,
		log:         log,
		concurrency: concurrency,
	}
}

// ParseScoreRequest validates raw identifiers.
func ParseScoreRequest(batchID, offerID string) (ScoreRequest, error) {
	batchID, offerID = strings.TrimSpace(batchID), strings.TrimSpace(offerID)
	if batchID == "" || offerID == "" {
		return ScoreRequest{}, apperr.Validation(msgIDsRequired)
	}
	b, errB := uuid.Parse(batchID)
	o, errO := uuid.Parse(offerID)
	if errB != nil || errO != nil {
		return ScoreRequest{}, apperr.Validation(msgInvalidIDs)
	}
	return ScoreRequest{BatchID: b, OfferID: o}, nil
}

// Validate checks that the offer exists without scoring anything. Used
// before enqueueing asynchronous scoring jobs.
func (s *Service) Validate(ctx context.Context, req ScoreRequest) error {
	if req.BatchID == uuid.Nil || req.OfferID == uuid.Nil {
		return apperr.Validation(msgIDsRequired)
	}
	_, err := s.repo.FindOffer(ctx, req.OfferID)
	return err
}

// ScoreBatch evaluates and persists every lead of the batch. Classifier
// failures degrade the affected lead to the default intent; persistence
// failures abort the whole run.
func (s *Service) ScoreBatch(ctx context.Context, req ScoreRequest) (BatchResult, error) {
	if req.BatchID == uuid.Nil || req.OfferID == uuid.Nil {
		return BatchResult{}, apperr.Validation(msgIDsRequired)
	}

	start := time.Now()
	log := s.log.WithContext(ctx)

	offer, err := s.repo.FindOffer(ctx, req.OfferID)
	if err != nil {
		return BatchResult{}, err
	}
	leads, err := s.repo.FindLeads(ctx, req.BatchID)
	if err != nil {
		return BatchResult{}, err
	}

	results := make([]ScoredLead, len(leads))
	failed := make([]bool, len(leads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, lead := range leads {
		g.Go(func() error {
			eval, outcome := pipeline.Evaluate(gctx, s.classifier, offer, lead)
			if !outcome.OK() {
				failed[i] = true
				log.ClassifierFailure(lead.ID.String(), outcome.Err)
			}

			if _, err := s.repo.UpsertLeadResult(gctx, lead.ID, eval.Result); err != nil {
				return fmt.Errorf("persist result for lead %s: %w", lead.ID, err)
			}

			results[i] = ScoredLead{
				LeadID:    lead.ID,
				Name:      lead.Name,
				Role:      lead.Role,
				Company:   lead.Company,
				Intent:    eval.Result.Intent,
				Score:     eval.Result.Score,
				Reasoning: eval.Result.Reasoning,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.DatabaseError("score batch", err)
		return BatchResult{}, err
	}

	log.BatchScored(req.BatchID.String(), req.OfferID.String(), len(results), time.Since(start))

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.BatchScored{
			BaseEvent:   events.NewBaseEvent(),
			BatchID:     req.BatchID,
			OfferID:     req.OfferID,
			LeadCount:   len(results),
			HighIntent:  countIntent(results, domain.IntentHigh),
			FailedCalls: countTrue(failed),
		})
	}

	return BatchResult{BatchID: req.BatchID, OfferID: req.OfferID, Results: results}, nil
}

func countIntent(results []ScoredLead, intent domain.Intent) int {
	n := 0
	for _, r := range results {
		if r.Intent == intent {
			n++
		}
	}
	return n
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
