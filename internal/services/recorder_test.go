package services

import (
	"context"
	"testing"

	"expenses/internal/core"
	"expenses/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) (*Recorder, *storage.Repository, *core.User, map[string]int64) {
	t.Helper()

	repo, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	user, err := repo.CreateUser(context.Background(), "carol@example.com", "$2a$10$hash", "Carol")
	require.NoError(t, err)

	cats, err := repo.ListCategories(context.Background(), user.ID)
	require.NoError(t, err)
	byName := make(map[string]int64, len(cats))
	for _, c := range cats {
		byName[c.Name] = c.ID
	}

	// No AMQP client: publishing is skipped, recording still works.
	return NewRecorder(repo, nil), repo, user, byName
}

func TestRecordExpenseValidation(t *testing.T) {
	rec, _, user, cats := newTestRecorder(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		expense core.Expense
		wantErr error
	}{
		{
			name: "zero amount",
			expense: core.Expense{
				UserID: user.ID, CategoryID: cats["Food"],
				Date: core.NewDate(2025, 3, 10), Amount: core.Money{Cents: 0},
			},
			wantErr: core.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			expense: core.Expense{
				UserID: user.ID, CategoryID: cats["Food"],
				Date: core.NewDate(2025, 3, 10), Amount: core.Money{Cents: -500},
			},
			wantErr: core.ErrInvalidAmount,
		},
		{
			name: "missing date",
			expense: core.Expense{
				UserID: user.ID, CategoryID: cats["Food"],
				Amount: core.Money{Cents: 500},
			},
			wantErr: core.ErrInvalidDate,
		},
		{
			name: "missing category",
			expense: core.Expense{
				UserID: user.ID,
				Date:   core.NewDate(2025, 3, 10), Amount: core.Money{Cents: 500},
			},
			wantErr: core.ErrInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := rec.RecordExpense(ctx, tt.expense)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRecordExpenseWithoutBroker(t *testing.T) {
	rec, repo, user, cats := newTestRecorder(t)
	ctx := context.Background()

	_, err := repo.CreateLimit(ctx, core.Limit{
		UserID: user.ID,
		Amount: core.Money{Cents: 10000},
		Period: core.Monthly,
	})
	require.NoError(t, err)

	// Exceeding the limit with no AMQP client must still record the
	// expense and the alert.
	id, result, err := rec.RecordExpense(ctx, core.Expense{
		UserID:     user.ID,
		CategoryID: cats["Food"],
		Date:       core.NewDate(2025, 3, 10),
		Amount:     core.Money{Cents: 15000},
	})
	require.NoError(t, err)
	assert.NotZero(t, id)
	require.True(t, result.Exceeded)
	assert.EqualValues(t, 10000, result.Limit.Cents)

	alerts, err := repo.ListAlerts(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestRecordExpensePreservesResult(t *testing.T) {
	rec, _, user, cats := newTestRecorder(t)
	ctx := context.Background()

	id, result, err := rec.RecordExpense(ctx, core.Expense{
		UserID:      user.ID,
		CategoryID:  cats["Housing"],
		Date:        core.NewDate(2025, 3, 1),
		Amount:      core.Money{Cents: 120000},
		Description: "rent",
	})
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.False(t, result.Exceeded, "no limit configured, nothing to exceed")
	assert.Zero(t, result.AlertID)
}
