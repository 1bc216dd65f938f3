package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"name", "role", "company", "industry", "location", "intent", "score", "reasoning"}

func TestListJoinsResults(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	batchID := uuid.New()
	intent, score, reasoning := "High", 100, "Rule: role 20, industry 20, completeness 10. AI: Fit."
	mock.ExpectQuery(`LEFT JOIN lead_results`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("Ada", "CEO", "Engines", "FinTech", "London", intent, score, reasoning).
			AddRow("Grace", "Engineer", "Navy", "Defense", "Arlington", nil, nil, nil))

	rows, err := New(mock).List(context.Background(), Filter{BatchID: &batchID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Score)
	assert.Equal(t, 100, *rows[0].Score)
	assert.Nil(t, rows[1].Intent)
	assert.Nil(t, rows[1].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}
