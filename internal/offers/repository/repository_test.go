package repository

import (
	"context"
	"testing"
	"time"

	"leadqual_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaultsNilLists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`INSERT INTO offers`).
		WithArgs(pgxmock.AnyArg(), "Acme CRM", []string{}, []string{"saas"}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "value_props", "ideal_use_cases", "created_at"}).
			AddRow(id, "Acme CRM", []string{}, []string{"saas"}, time.Now()))

	o, err := New(mock).Create(context.Background(), CreateOfferParams{Name: "Acme CRM", IdealUseCases: []string{"saas"}})
	require.NoError(t, err)
	assert.Equal(t, id, o.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM offers`).WithArgs(pgxmock.AnyArg()).WillReturnError(pgx.ErrNoRows)

	_, err = New(mock).GetByID(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := New(mock).Exists(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)
}
