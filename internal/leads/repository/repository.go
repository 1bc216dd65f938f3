// Package repository is the Postgres adapter for lead ingestion.
package repository

import (
	"context"
	"errors"
	"fmt"

	"leadqual_backend/platform/apperr"
	"leadqual_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	offerNotFoundMsg = "offer not found"
	// foreignKeyViolation is the Postgres SQLSTATE for a missing parent row.
	foreignKeyViolation = "23503"
)

var leadColumns = []string{"id", "batch_id", "position", "name", "role", "company", "industry", "location", "bio"}

// NewLead is one lead to insert.
type NewLead struct {
	Name     string
	Role     string
	Company  string
	Industry string
	Location string
	Bio      *string
}

// Batch is the stored batch header.
type Batch struct {
	ID        uuid.UUID
	OfferID   uuid.UUID
	LeadCount int
}

type Repository struct {
	pool db.Querier
}

func New(pool db.Querier) *Repository {
	return &Repository{pool: pool}
}

// CreateBatch stores a batch and its leads in one transaction. Leads keep
// their input order through the position column.
func (r *Repository) CreateBatch(ctx context.Context, offerID uuid.UUID, leads []NewLead) (Batch, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Batch{}, fmt.Errorf("create batch: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batchID := uuid.New()
	if _, err := tx.Exec(ctx, `INSERT INTO batches (id, offer_id) VALUES ($1, $2)`, batchID, offerID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return Batch{}, apperr.NotFound(offerNotFoundMsg)
		}
		return Batch{}, fmt.Errorf("create batch: insert batch: %w", err)
	}

	rows := make([][]any, len(leads))
	for i, l := range leads {
		rows[i] = []any{uuid.New(), batchID, i, l.Name, l.Role, l.Company, l.Industry, l.Location, l.Bio}
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"leads"}, leadColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return Batch{}, fmt.Errorf("create batch: copy leads: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Batch{}, fmt.Errorf("create batch: commit tx: %w", err)
	}

	return Batch{ID: batchID, OfferID: offerID, LeadCount: int(n)}, nil
}
