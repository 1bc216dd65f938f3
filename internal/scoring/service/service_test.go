package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"leadqual_backend/internal/events"
	"leadqual_backend/internal/scoring/domain"
	"leadqual_backend/internal/scoring/pipeline"
	"leadqual_backend/platform/apperr"
	"leadqual_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu        sync.Mutex
	offers    map[uuid.UUID]domain.Offer
	leads     map[uuid.UUID][]domain.Lead
	results   map[uuid.UUID]domain.LeadResult
	upserts   int
	failLeads map[uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		offers:    map[uuid.UUID]domain.Offer{},
		leads:     map[uuid.UUID][]domain.Lead{},
		results:   map[uuid.UUID]domain.LeadResult{},
		failLeads: map[uuid.UUID]bool{},
	}
}

func (f *fakeRepo) FindOffer(_ context.Context, id uuid.UUID) (domain.Offer, error) {
	o, ok := f.offers[id]
	if !ok {
		return domain.Offer{}, apperr.NotFound("offer not found")
	}
	return o, nil
}

func (f *fakeRepo) FindLeads(_ context.Context, batchID uuid.UUID) ([]domain.Lead, error) {
	return f.leads[batchID], nil
}

func (f *fakeRepo) UpsertLeadResult(_ context.Context, leadID uuid.UUID, in domain.ResultInput) (domain.LeadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.failLeads[leadID] {
		return domain.LeadResult{}, errors.New("disk full")
	}
	res, ok := f.results[leadID]
	if !ok {
		res = domain.LeadResult{ID: uuid.New(), LeadID: leadID}
	}
	res.Intent, res.Score, res.Reasoning = in.Intent, in.Score, in.Reasoning
	f.results[leadID] = res
	return res, nil
}

// scriptedGenerator answers based on the lead name embedded in the prompt.
type scriptedGenerator struct {
	byName map[string]string
	fail   map[string]bool
	delay  map[string]time.Duration
}

func (g *scriptedGenerator) Name() string { return "scripted" }

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	for name, reply := range g.byName {
		if !strings.Contains(prompt, "- Name: "+name+"\n") {
			continue
		}
		if d := g.delay[name]; d > 0 {
			time.Sleep(d)
		}
		if g.fail[name] {
			return "", errors.New("service unavailable")
		}
		return reply, nil
	}
	return "", nil
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, e)
}
func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}
func (b *recordingBus) Subscribe(string, events.Handler) {}

type fixture struct {
	repo    *fakeRepo
	gen     *scriptedGenerator
	bus     *recordingBus
	svc     *Service
	batchID uuid.UUID
	offerID uuid.UUID
	leads   []domain.Lead
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	offerID, batchID := uuid.New(), uuid.New()
	repo.offers[offerID] = domain.Offer{
		ID:            offerID,
		Name:          "Acme CRM",
		ValueProps:    []string{"fast onboarding"},
		IdealUseCases: []string{"saas", "fintech"},
	}
	leads := []domain.Lead{
		{ID: uuid.New(), BatchID: batchID, Name: "Ada", Role: "VP Sales", Company: "Engines", Industry: "FinTech", Location: "London"},
		{ID: uuid.New(), BatchID: batchID, Name: "Grace", Role: "Senior Engineer", Company: "Navy", Industry: "Defense", Location: "Arlington"},
		{ID: uuid.New(), BatchID: batchID, Name: "Linus", Role: "Engineer", Company: "", Industry: "B2B SaaS", Location: "Portland"},
	}
	repo.leads[batchID] = leads

	gen := &scriptedGenerator{
		byName: map[string]string{
			"Ada":   "INTENT: High\nREASON: Decision maker in a target industry.",
			"Grace": "INTENT: Low\nREASON: No budget authority.",
			"Linus": "They might look at it later.",
		},
		fail:  map[string]bool{},
		delay: map[string]time.Duration{"Ada": 20 * time.Millisecond},
	}
	bus := &recordingBus{}
	classifier := pipeline.NewClassifier(gen, pipeline.WithTimeout(time.Second))
	svc := New(repo, classifier, bus, logger.Nop(), 3)

	return &fixture{repo: repo, gen: gen, bus: bus, svc: svc, batchID: batchID, offerID: offerID, leads: leads}
}

func TestScoreBatchScoresEveryLeadInOrder(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.ScoreBatch(context.Background(), ScoreRequest{BatchID: f.batchID, OfferID: f.offerID})
	if err != nil {
		t.Fatalf("ScoreBatch: %v", err)
	}
	if len(res.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res.Results))
	}
	for i, lead := range f.leads {
		if res.Results[i].LeadID != lead.ID {
			t.Fatalf("result %d out of order", i)
		}
	}

	ada, grace, linus := res.Results[0], res.Results[1], res.Results[2]
	if ada.Intent != domain.IntentHigh || ada.Score != 100 {
		t.Fatalf("unexpected Ada result %+v", ada)
	}
	// role 10 + industry 0 + completeness 10 + Low 10
	if grace.Intent != domain.IntentLow || grace.Score != 30 {
		t.Fatalf("unexpected Grace result %+v", grace)
	}
	// role 0 + industry 10 + completeness 0 + Medium 30
	if linus.Intent != domain.IntentMedium || linus.Score != 40 {
		t.Fatalf("unexpected Linus result %+v", linus)
	}
	if linus.Reasoning != "Rule: role 0, industry 10, completeness 0. AI: They might look at it later." {
		t.Fatalf("unexpected reasoning %q", linus.Reasoning)
	}
}

func TestScoreBatchIsIdempotent(t *testing.T) {
	f := newFixture(t)
	req := ScoreRequest{BatchID: f.batchID, OfferID: f.offerID}

	first, err := f.svc.ScoreBatch(context.Background(), req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	snapshot := map[uuid.UUID]domain.LeadResult{}
	for k, v := range f.repo.results {
		snapshot[k] = v
	}

	second, err := f.svc.ScoreBatch(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(f.repo.results) != len(f.leads) {
		t.Fatalf("expected one result per lead, got %d", len(f.repo.results))
	}
	for id, before := range snapshot {
		if after := f.repo.results[id]; after != before {
			t.Fatalf("result for %s changed: %+v -> %+v", id, before, after)
		}
	}
	for i := range first.Results {
		if first.Results[i] != second.Results[i] {
			t.Fatalf("summary %d differs between runs", i)
		}
	}
}

func TestScoreBatchDegradesClassifierFailure(t *testing.T) {
	f := newFixture(t)
	f.gen.fail["Ada"] = true

	res, err := f.svc.ScoreBatch(context.Background(), ScoreRequest{BatchID: f.batchID, OfferID: f.offerID})
	if err != nil {
		t.Fatalf("classifier failure must not fail the batch: %v", err)
	}
	ada := res.Results[0]
	if ada.Intent != domain.IntentMedium || ada.Score != 80 {
		t.Fatalf("unexpected degraded result %+v", ada)
	}
	if !strings.HasSuffix(ada.Reasoning, "AI: "+pipeline.NoResponseExplanation) {
		t.Fatalf("unexpected reasoning %q", ada.Reasoning)
	}
	if res.Results[1].Intent != domain.IntentLow {
		t.Fatal("sibling leads must still be classified")
	}

	scored, ok := f.bus.published[0].(events.BatchScored)
	if !ok || scored.FailedCalls != 1 || scored.LeadCount != 3 {
		t.Fatalf("unexpected event %+v", f.bus.published)
	}
}

func TestScoreBatchPublishesEvent(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.ScoreBatch(context.Background(), ScoreRequest{BatchID: f.batchID, OfferID: f.offerID}); err != nil {
		t.Fatalf("ScoreBatch: %v", err)
	}
	if len(f.bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(f.bus.published))
	}
	e := f.bus.published[0].(events.BatchScored)
	if e.BatchID != f.batchID || e.OfferID != f.offerID || e.HighIntent != 1 {
		t.Fatalf("unexpected event %+v", e)
	}
}

func TestScoreBatchOfferNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ScoreBatch(context.Background(), ScoreRequest{BatchID: f.batchID, OfferID: uuid.New()})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if f.repo.upserts != 0 {
		t.Fatal("no lead may be processed when the offer is missing")
	}
}

func TestScoreBatchPersistenceFailureFailsRequest(t *testing.T) {
	f := newFixture(t)
	f.repo.failLeads[f.leads[1].ID] = true

	_, err := f.svc.ScoreBatch(context.Background(), ScoreRequest{BatchID: f.batchID, OfferID: f.offerID})
	if err == nil {
		t.Fatal("expected persistence failure")
	}
	if apperr.GetKind(err) != apperr.KindUnknown {
		t.Fatalf("persistence failure should be an unexpected error, got kind %v", apperr.GetKind(err))
	}
	if len(f.bus.published) != 0 {
		t.Fatal("no event on failure")
	}
}

func TestScoreBatchEmptyBatch(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.ScoreBatch(context.Background(), ScoreRequest{BatchID: uuid.New(), OfferID: f.offerID})
	if err != nil {
		t.Fatalf("ScoreBatch: %v", err)
	}
	if len(res.Results) != 0 {
		t.Fatalf("expected no results, got %d", len(res.Results))
	}
}

func TestParseScoreRequest(t *testing.T) {
	b, o := uuid.New(), uuid.New()
	req, err := ParseScoreRequest(b.String(), " "+o.String()+" ")
	if err != nil || req.BatchID != b || req.OfferID != o {
		t.Fatalf("unexpected parse %+v %v", req, err)
	}

	for _, tc := range [][2]string{{"", o.String()}, {b.String(), ""}, {"", ""}} {
		_, err := ParseScoreRequest(tc[0], tc[1])
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %v, got %v", tc, err)
		}
		if err.Error() == "" || !strings.Contains(err.Error(), "batchId and offerId required") {
			t.Fatalf("unexpected message %q", err.Error())
		}
	}

	if _, err := ParseScoreRequest("42", o.String()); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for malformed id, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.Validate(context.Background(), ScoreRequest{BatchID: f.batchID, OfferID: f.offerID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.svc.Validate(context.Background(), ScoreRequest{BatchID: f.batchID, OfferID: uuid.New()}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
