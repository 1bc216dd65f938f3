// Package results provides the scoring results bounded context module.
package results

import (
	"context"

	"leadqual_backend/internal/adapters/storage"
	"leadqual_backend/internal/events"
	apphttp "leadqual_backend/internal/http"
	"leadqual_backend/internal/results/handler"
	"leadqual_backend/internal/results/repository"
	"leadqual_backend/internal/results/service"
	"leadqual_backend/platform/config"
	"leadqual_backend/platform/db"
	"leadqual_backend/platform/logger"
	"leadqual_backend/platform/validator"
)

// Module is the results bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the results module. store may be nil when object
// storage is not configured; exports then answer 503.
func NewModule(pool db.Querier, store storage.StorageService, cfg config.ExportConfig, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), store, cfg.GetMinioBucketExports(), cfg.GetExportURLTTL(), log)

	if cfg.GetExportOnScore() && svc.ExportsEnabled() {
		eventBus.Subscribe(events.BatchScored{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
			e, ok := event.(events.BatchScored)
			if !ok {
				return nil
			}
			batchID := e.BatchID
			export, err := svc.Export(ctx, repository.Filter{BatchID: &batchID})
			if err != nil {
				log.Error("batch export failed", "error", err, "batchId", e.BatchID)
				return err
			}
			log.Info("batch export written", "batchId", e.BatchID, "fileKey", export.FileKey)
			return nil
		}))
	}

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "results"
}

// Service returns the results service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts results routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/results"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
