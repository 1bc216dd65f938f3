package service

import (
	"context"
	"testing"
	"time"

	"leadqual_backend/internal/offers/repository"
	"leadqual_backend/internal/offers/transport"
	"leadqual_backend/platform/apperr"
	"leadqual_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	created []repository.CreateOfferParams
	offers  map[uuid.UUID]repository.Offer
}

func (f *fakeRepo) Create(_ context.Context, p repository.CreateOfferParams) (repository.Offer, error) {
	f.created = append(f.created, p)
	o := repository.Offer{ID: uuid.New(), Name: p.Name, ValueProps: p.ValueProps, IdealUseCases: p.IdealUseCases, CreatedAt: time.Now()}
	if f.offers == nil {
		f.offers = map[uuid.UUID]repository.Offer{}
	}
	f.offers[o.ID] = o
	return o, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Offer, error) {
	o, ok := f.offers[id]
	if !ok {
		return repository.Offer{}, apperr.NotFound("offer not found")
	}
	return o, nil
}

func TestCreateRequiresName(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, logger.Nop())

	for _, name := range []string{"", "   ", "<b></b>"} {
		_, err := svc.Create(context.Background(), transport.CreateOfferRequest{Name: name})
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %q, got %v", name, err)
		}
		if err.(*apperr.Error).Message != msgNameRequired {
			t.Fatalf("unexpected message %q", err.(*apperr.Error).Message)
		}
	}
	if len(repo.created) != 0 {
		t.Fatal("nothing may be stored without a name")
	}
}

func TestCreateCleansLists(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, logger.Nop())

	resp, err := svc.Create(context.Background(), transport.CreateOfferRequest{
		Name:          "  Acme   CRM ",
		ValueProps:    []string{" fast onboarding ", ""},
		IdealUseCases: nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Name != "Acme CRM" {
		t.Fatalf("unexpected name %q", resp.Name)
	}
	if len(resp.ValueProps) != 1 || resp.ValueProps[0] != "fast onboarding" {
		t.Fatalf("unexpected value props %v", resp.ValueProps)
	}
	if resp.IdealUseCases == nil || len(resp.IdealUseCases) != 0 {
		t.Fatalf("missing use cases should become an empty list, got %v", resp.IdealUseCases)
	}
}

func TestGetByID(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, logger.Nop())
	created, _ := svc.Create(context.Background(), transport.CreateOfferRequest{Name: "Acme"})

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil || got.ID != created.ID {
		t.Fatalf("unexpected result %+v %v", got, err)
	}
	if _, err := svc.GetByID(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
