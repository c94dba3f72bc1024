package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/expensekeeper/internal/models"
	"github.com/iudanet/expensekeeper/internal/server/storage"
)

func TestExpenseStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "owner", "owner@example.com")

	now := time.Now()
	expense := &models.Expense{
		UserID:      user.ID,
		Amount:      25.50,
		Description: "Lunch",
		Category:    "Food",
		Date:        "2024-01-15",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.CreateExpense(ctx, expense))
	require.NotZero(t, expense.ID)

	retrieved, err := s.GetExpense(ctx, user.ID, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, expense.ID, retrieved.ID)
	assert.Equal(t, user.ID, retrieved.UserID)
	assert.InDelta(t, 25.50, retrieved.Amount, 0.001)
	assert.Equal(t, "Lunch", retrieved.Description)
	assert.Equal(t, "Food", retrieved.Category)
	assert.Equal(t, "2024-01-15", retrieved.Date)
}

func TestExpenseStorage_Get_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")

	expense := createTestExpense(t, s, alice.ID, 10, "Food", "2024-01-01")

	// Bob must not see Alice's expense; the error is the same as for a
	// nonexistent id
	_, err := s.GetExpense(ctx, bob.ID, expense.ID)
	assert.ErrorIs(t, err, storage.ErrExpenseNotFound)

	_, err = s.GetExpense(ctx, bob.ID, 9999)
	assert.ErrorIs(t, err, storage.ErrExpenseNotFound)
}

func TestExpenseStorage_List_Ordering(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "owner", "owner@example.com")

	createTestExpense(t, s, user.ID, 1, "Food", "2024-01-10")
	createTestExpense(t, s, user.ID, 2, "Food", "2024-01-20")
	createTestExpense(t, s, user.ID, 3, "Food", "2024-01-15")

	expenses, total, err := s.ListExpenses(ctx, user.ID, storage.ExpenseFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, expenses, 3)

	// Date descending
	assert.Equal(t, "2024-01-20", expenses[0].Date)
	assert.Equal(t, "2024-01-15", expenses[1].Date)
	assert.Equal(t, "2024-01-10", expenses[2].Date)
}

func TestExpenseStorage_List_TieBreak(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "owner", "owner@example.com")

	// Same date and creation time: newest id first
	first := createTestExpense(t, s, user.ID, 1, "Food", "2024-01-10")
	second := createTestExpense(t, s, user.ID, 2, "Food", "2024-01-10")

	expenses, _, err := s.ListExpenses(ctx, user.ID, storage.ExpenseFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.True(t, expenses[0].ID == second.ID || expenses[0].CreatedAt.After(expenses[1].CreatedAt))
	assert.NotEqual(t, expenses[0].ID, expenses[1].ID)
	_ = first
}

func TestExpenseStorage_List_Filters(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "owner", "owner@example.com")

	createTestExpense(t, s, user.ID, 10, "Food", "2024-01-01")
	createTestExpense(t, s, user.ID, 20, "Transportation", "2024-01-05")
	createTestExpense(t, s, user.ID, 30, "Food", "2024-02-01")

	tests := []struct {
		name      string
		filter    storage.ExpenseFilter
		wantTotal int64
	}{
		{
			name:      "by category",
			filter:    storage.ExpenseFilter{Category: "Food"},
			wantTotal: 2,
		},
		{
			name:      "by date_from",
			filter:    storage.ExpenseFilter{DateFrom: "2024-01-02"},
			wantTotal: 2,
		},
		{
			name:      "by date_to",
			filter:    storage.ExpenseFilter{DateTo: "2024-01-31"},
			wantTotal: 2,
		},
		{
			name:      "conjunctive",
			filter:    storage.ExpenseFilter{Category: "Food", DateFrom: "2024-01-02"},
			wantTotal: 1,
		},
		{
			name:      "inclusive bounds",
			filter:    storage.ExpenseFilter{DateFrom: "2024-01-01", DateTo: "2024-02-01"},
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Page = 1
			tt.filter.Limit = 10
			expenses, total, err := s.ListExpenses(ctx, user.ID, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Len(t, expenses, int(tt.wantTotal))
		})
	}
}

func TestExpenseStorage_List_Pagination(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "owner", "owner@example.com")

	// 7 expenses, distinct dates
	dates := []string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-05", "2024-01-06", "2024-01-07",
	}
	for _, d := range dates {
		createTestExpense(t, s, user.ID, 1, "Food", d)
	}

	// Concatenating all pages reproduces the full ordered set
	seen := make(map[int64]bool)
	var collected []string
	for page := 1; page <= 3; page++ {
		expenses, total, err := s.ListExpenses(ctx, user.ID, storage.ExpenseFilter{Page: page, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)

		for _, e := range expenses {
			assert.False(t, seen[e.ID], "expense %d returned twice", e.ID)
			seen[e.ID] = true
			collected = append(collected, e.Date)
		}
	}

	require.Len(t, collected, 7)
	for i := 1; i < len(collected); i++ {
		assert.LessOrEqual(t, collected[i], collected[i-1], "dates must be descending")
	}

	// Page past the end is empty
	expenses, total, err := s.ListExpenses(ctx, user.ID, storage.ExpenseFilter{Page: 4, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Empty(t, expenses)
}

func TestExpenseStorage_Update(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "owner", "owner@example.com")
	expense := createTestExpense(t, s, user.ID, 10, "Food", "2024-01-01")

	expense.Amount = 15.75
	expense.Description = "updated"
	expense.Category = "Shopping"
	expense.Date = "2024-02-02"
	expense.UpdatedAt = time.Now()

	require.NoError(t, s.UpdateExpense(ctx, expense))

	retrieved, err := s.GetExpense(ctx, user.ID, expense.ID)
	require.NoError(t, err)
	assert.InDelta(t, 15.75, retrieved.Amount, 0.001)
	assert.Equal(t, "updated", retrieved.Description)
	assert.Equal(t, "Shopping", retrieved.Category)
	assert.Equal(t, "2024-02-02", retrieved.Date)
}

func TestExpenseStorage_Update_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")

	expense := createTestExpense(t, s, alice.ID, 10, "Food", "2024-01-01")

	hijacked := *expense
	hijacked.UserID = bob.ID
	hijacked.Amount = 999

	err := s.UpdateExpense(ctx, &hijacked)
	assert.ErrorIs(t, err, storage.ErrExpenseNotFound)

	// Alice's expense is untouched
	retrieved, err := s.GetExpense(ctx, alice.ID, expense.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10, retrieved.Amount, 0.001)
}

func TestExpenseStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")

	expense := createTestExpense(t, s, alice.ID, 10, "Food", "2024-01-01")

	// Foreign delete fails like a missing id
	err := s.DeleteExpense(ctx, bob.ID, expense.ID)
	assert.ErrorIs(t, err, storage.ErrExpenseNotFound)

	require.NoError(t, s.DeleteExpense(ctx, alice.ID, expense.ID))

	_, err = s.GetExpense(ctx, alice.ID, expense.ID)
	assert.ErrorIs(t, err, storage.ErrExpenseNotFound)

	// Second delete fails
	err = s.DeleteExpense(ctx, alice.ID, expense.ID)
	assert.ErrorIs(t, err, storage.ErrExpenseNotFound)
}

func TestExpenseStorage_Summarize(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "owner", "owner@example.com")
	other := createTestUser(t, s, "other", "other@example.com")

	createTestExpense(t, s, user.ID, 10, "Food", "2024-01-01")
	createTestExpense(t, s, user.ID, 5, "Food", "2024-01-02")
	createTestExpense(t, s, user.ID, 20, "Transportation", "2024-01-03")

	// Another user's expenses must not leak into the summary
	createTestExpense(t, s, other.ID, 1000, "Shopping", "2024-01-01")

	summary, err := s.SummarizeExpenses(ctx, user.ID)
	require.NoError(t, err)

	assert.InDelta(t, 35, summary.TotalAmount, 0.001)
	assert.Equal(t, int64(3), summary.TotalCount)
	require.Len(t, summary.Categories, 2)

	byCategory := make(map[string]models.CategorySummary)
	for _, c := range summary.Categories {
		byCategory[c.Category] = c
	}

	food := byCategory["Food"]
	assert.InDelta(t, 15, food.Total, 0.001)
	assert.Equal(t, int64(2), food.Count)

	transport := byCategory["Transportation"]
	assert.InDelta(t, 20, transport.Total, 0.001)
	assert.Equal(t, int64(1), transport.Count)
}

func TestExpenseStorage_Summarize_Empty(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "owner", "owner@example.com")

	summary, err := s.SummarizeExpenses(ctx, user.ID)
	require.NoError(t, err)

	assert.Zero(t, summary.TotalAmount)
	assert.Zero(t, summary.TotalCount)
	assert.Empty(t, summary.Categories)
}
