package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadqual_backend/internal/scoring/domain"
	"leadqual_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOffer(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, name, value_props, ideal_use_cases\s+FROM offers`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "value_props", "ideal_use_cases"}).
			AddRow(id, "Acme CRM", []string{"fast"}, []string{"saas", "fintech"}))

	offer, err := New(mock).FindOffer(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Acme CRM", offer.Name)
	assert.Equal(t, []string{"saas", "fintech"}, offer.IdealUseCases)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOfferNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM offers`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err = New(mock).FindOffer(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "offer not found", err.(*apperr.Error).Message)
}

func TestFindLeadsOrdered(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	batchID := uuid.New()
	first, second := uuid.New(), uuid.New()
	bio := "Payments veteran."
	cols := []string{"id", "batch_id", "name", "role", "company", "industry", "location", "bio"}
	mock.ExpectQuery(`FROM leads\s+WHERE batch_id = \$1\s+ORDER BY position, id`).
		WithArgs(batchID).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(first, batchID, "Ada", "CEO", "Engines", "FinTech", "London", bio).
			AddRow(second, batchID, "Grace", "Senior Engineer", "Navy", "Defense", "Arlington", nil))

	leads, err := New(mock).FindLeads(context.Background(), batchID)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, first, leads[0].ID)
	assert.Equal(t, second, leads[1].ID)
	require.NotNil(t, leads[0].Bio)
	assert.Equal(t, bio, *leads[0].Bio)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLeadsWrapsQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("connection refused")
	mock.ExpectQuery(`FROM leads`).WithArgs(pgxmock.AnyArg()).WillReturnError(boom)

	_, err = New(mock).FindLeads(context.Background(), uuid.New())
	assert.ErrorIs(t, err, boom)
}

func TestUpsertLeadResult(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	leadID, resultID := uuid.New(), uuid.New()
	now := time.Now()
	in := domain.ResultInput{Intent: domain.IntentHigh, Score: 100, Reasoning: "Rule: role 20, industry 20, completeness 10. AI: Fit."}

	mock.ExpectQuery(`(?s)INSERT INTO lead_results .* ON CONFLICT \(lead_id\) DO UPDATE`).
		WithArgs(pgxmock.AnyArg(), leadID, "High", 100, in.Reasoning).
		WillReturnRows(pgxmock.NewRows([]string{"id", "lead_id", "intent", "score", "reasoning", "created_at", "updated_at"}).
			AddRow(resultID, leadID, "High", 100, in.Reasoning, now, now))

	res, err := New(mock).UpsertLeadResult(context.Background(), leadID, in)
	require.NoError(t, err)
	assert.Equal(t, resultID, res.ID)
	assert.Equal(t, domain.IntentHigh, res.Intent)
	assert.Equal(t, 100, res.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertLeadResultError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO lead_results`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("deadlock detected"))

	_, err = New(mock).UpsertLeadResult(context.Background(), uuid.New(), domain.ResultInput{Intent: domain.IntentLow})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert lead result")
}
