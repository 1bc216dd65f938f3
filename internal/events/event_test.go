package events

import (
	"context"
	"testing"

	"leadqual_backend/platform/logger"

	"github.com/google/uuid"
)

func TestEventNames(t *testing.T) {
	if got := (BatchIngested{}).EventName(); got != "leads.batch.ingested" {
		t.Fatalf("unexpected ingestion event name %q", got)
	}
	if got := (BatchScored{}).EventName(); got != "scoring.batch.scored" {
		t.Fatalf("unexpected scoring event name %q", got)
	}
}

func TestBusDeliversBatchScored(t *testing.T) {
	bus := NewInMemoryBus(logger.Nop())
	batchID := uuid.New()

	var got BatchScored
	bus.Subscribe(BatchScored{}.EventName(), HandlerFunc(func(_ context.Context, e Event) error {
		got = e.(BatchScored)
		return nil
	}))

	err := bus.PublishSync(context.Background(), BatchScored{BaseEvent: NewBaseEvent(), BatchID: batchID, LeadCount: 3})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if got.BatchID != batchID || got.LeadCount != 3 {
		t.Fatalf("unexpected delivered event %+v", got)
	}
	if got.OccurredAt().IsZero() {
		t.Fatal("expected a timestamp")
	}
}
