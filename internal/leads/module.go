// Package leads provides the lead ingestion bounded context module.
package leads

import (
	"leadqual_backend/internal/events"
	apphttp "leadqual_backend/internal/http"
	"leadqual_backend/internal/leads/handler"
	"leadqual_backend/internal/leads/repository"
	"leadqual_backend/internal/leads/service"
	"leadqual_backend/platform/db"
	"leadqual_backend/platform/logger"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the leads module. offers answers whether an upload's
// offer exists.
func NewModule(pool db.Querier, offers service.OfferChecker, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, offers, eventBus, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the ingestion service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Uploads.POST("/leads/upload", m.handler.Upload)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
