// Package repository reads leads joined with their scoring results.
package repository

import (
	"context"
	"fmt"

	"leadqual_backend/platform/db"

	"github.com/google/uuid"
)

// Filter narrows the result listing. Nil fields are ignored.
type Filter struct {
	BatchID *uuid.UUID
	OfferID *uuid.UUID
}

// Row is a lead with the nullable columns of its result.
type Row struct {
	Name      string
	Role      string
	Company   string
	Industry  string
	Location  string
	Intent    *string
	Score     *int
	Reasoning *string
}

type Repository struct {
	pool db.Querier
}

func New(pool db.Querier) *Repository {
	return &Repository{pool: pool}
}

// List returns leads in upload order with their result columns.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Row, error) {
	query := `
		SELECT l.name, l.role, l.company, l.industry, l.location,
		       lr.intent, lr.score, lr.reasoning
		FROM leads l
		JOIN batches b ON b.id = l.batch_id
		LEFT JOIN lead_results lr ON lr.lead_id = l.id
		WHERE ($1::uuid IS NULL OR l.batch_id = $1)
		  AND ($2::uuid IS NULL OR b.offer_id = $2)
		ORDER BY b.created_at, l.batch_id, l.position`

	rows, err := r.pool.Query(ctx, query, filter.BatchID, filter.OfferID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	out := make([]Row, 0)
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Name, &row.Role, &row.Company, &row.Industry, &row.Location,
			&row.Intent, &row.Score, &row.Reasoning); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}
