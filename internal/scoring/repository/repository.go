// Package repository is the Postgres adapter for the scoring service.
package repository

import (
	"context"
	"errors"
	"fmt"

	"leadqual_backend/internal/scoring/domain"
	"leadqual_backend/platform/apperr"
	"leadqual_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const offerNotFoundMsg = "offer not found"

// Repository reads offers and leads and writes lead results.
type Repository struct {
	pool db.Querier
}

// New creates a scoring repository.
func New(pool db.Querier) *Repository {
	return &Repository{pool: pool}
}

// FindOffer loads an offer by id.
func (r *Repository) FindOffer(ctx context.Context, offerID uuid.UUID) (domain.Offer, error) {
	query := `
		SELECT id, name, value_props, ideal_use_cases
		FROM offers
		WHERE id = $1`

	var o domain.Offer
	err := r.pool.QueryRow(ctx, query, offerID).Scan(&o.ID, &o.Name, &o.ValueProps, &o.IdealUseCases)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Offer{}, apperr.NotFound(offerNotFoundMsg)
	}
	if err != nil {
		return domain.Offer{}, fmt.Errorf("find offer: %w", err)
	}
	return o, nil
}

// FindLeads returns the leads of a batch in upload order.
func (r *Repository) FindLeads(ctx context.Context, batchID uuid.UUID) ([]domain.Lead, error) {
	query := `
		SELECT id, batch_id, name, role, company, industry, location, bio
		FROM leads
		WHERE batch_id = $1
		ORDER BY position, id`

	rows, err := r.pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("find leads: %w", err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(&l.ID, &l.BatchID, &l.Name, &l.Role, &l.Company, &l.Industry, &l.Location, &l.Bio); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// UpsertLeadResult creates the result for leadID or replaces it entirely.
func (r *Repository) UpsertLeadResult(ctx context.Context, leadID uuid.UUID, in domain.ResultInput) (domain.LeadResult, error) {
	query := `
		INSERT INTO lead_results (id, lead_id, intent, score, reasoning)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lead_id) DO UPDATE
		SET intent = EXCLUDED.intent,
		    score = EXCLUDED.score,
		    reasoning = EXCLUDED.reasoning,
		    updated_at = now()
		RETURNING id, lead_id, intent, score, reasoning, created_at, updated_at`

	var (
		res    domain.LeadResult
		intent string
	)
	err := r.pool.QueryRow(ctx, query, uuid.New(), leadID, string(in.Intent), in.Score, in.Reasoning).Scan(
		&res.ID, &res.LeadID, &intent, &res.Score, &res.Reasoning, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return domain.LeadResult{}, fmt.Errorf("upsert lead result: %w", err)
	}
	res.Intent = domain.Intent(intent)
	return res, nil
}
