package events

import (
	platformevents "leadqual_backend/platform/events"
	"leadqual_backend/platform/logger"
)

// InMemoryBus carries BatchIngested and BatchScored between the leads,
// scoring and results modules of one process.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates the bus the composition roots share between modules.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
