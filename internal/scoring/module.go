// Package scoring provides the lead scoring bounded context module.
// This file wires the repository, pipeline and HTTP handler together.
package scoring

import (
	"context"

	"leadqual_backend/internal/events"
	apphttp "leadqual_backend/internal/http"
	"leadqual_backend/internal/scheduler"
	"leadqual_backend/internal/scoring/handler"
	"leadqual_backend/internal/scoring/pipeline"
	"leadqual_backend/internal/scoring/repository"
	"leadqual_backend/internal/scoring/service"
	"leadqual_backend/platform/config"
	"leadqual_backend/platform/db"
	"leadqual_backend/platform/logger"
	"leadqual_backend/platform/validator"
)

// Module is the scoring bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the scoring module. enqueuer may be nil, in which case
// asynchronous scoring is disabled.
func NewModule(pool db.Querier, classifier *pipeline.Classifier, eventBus events.Bus, enqueuer scheduler.BatchScoringEnqueuer, val *validator.Validator, cfg config.ScoringConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, classifier, eventBus, log, cfg.GetScoringConcurrency())

	h := handler.New(svc, enqueuer, val)

	if cfg.GetAutoScoreOnUpload() && enqueuer != nil {
		eventBus.Subscribe(events.BatchIngested{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
			e, ok := event.(events.BatchIngested)
			if !ok || e.LeadCount == 0 {
				return nil
			}
			taskID, err := enqueuer.EnqueueBatchScoring(ctx, e.BatchID, e.OfferID)
			if err != nil {
				log.Error("auto scoring enqueue failed", "error", err, "batchId", e.BatchID)
				return err
			}
			log.Info("auto scoring enqueued", "batchId", e.BatchID, "taskId", taskID)
			return nil
		}))
	}

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scoring"
}

// Service returns the scoring service for the worker and CLI.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts scoring routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/score"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
