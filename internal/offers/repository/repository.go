// Package repository is the Postgres adapter for offers.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadqual_backend/platform/apperr"
	"leadqual_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const offerNotFoundMsg = "offer not found"

// Offer is the stored offer row.
type Offer struct {
	ID            uuid.UUID
	Name          string
	ValueProps    []string
	IdealUseCases []string
	CreatedAt     time.Time
}

// CreateOfferParams holds the fields for a new offer.
type CreateOfferParams struct {
	Name          string
	ValueProps    []string
	IdealUseCases []string
}

type Repository struct {
	pool db.Querier
}

func New(pool db.Querier) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an offer and returns the stored row.
func (r *Repository) Create(ctx context.Context, params CreateOfferParams) (Offer, error) {
	query := `
		INSERT INTO offers (id, name, value_props, ideal_use_cases)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, value_props, ideal_use_cases, created_at`

	var o Offer
	err := r.pool.QueryRow(ctx, query, uuid.New(), params.Name, nonNil(params.ValueProps), nonNil(params.IdealUseCases)).
		Scan(&o.ID, &o.Name, &o.ValueProps, &o.IdealUseCases, &o.CreatedAt)
	if err != nil {
		return Offer{}, fmt.Errorf("create offer: %w", err)
	}
	return o, nil
}

// GetByID loads an offer.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Offer, error) {
	query := `
		SELECT id, name, value_props, ideal_use_cases, created_at
		FROM offers
		WHERE id = $1`

	var o Offer
	err := r.pool.QueryRow(ctx, query, id).Scan(&o.ID, &o.Name, &o.ValueProps, &o.IdealUseCases, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Offer{}, apperr.NotFound(offerNotFoundMsg)
	}
	if err != nil {
		return Offer{}, fmt.Errorf("get offer: %w", err)
	}
	return o, nil
}

// Exists reports whether an offer with id is stored.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM offers WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check offer: %w", err)
	}
	return exists, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
