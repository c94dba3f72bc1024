package storage

import (
	"context"

	"github.com/iudanet/expensekeeper/internal/models"
)

// ExpenseFilter narrows an expense listing. Zero values mean "no filter"
// Dates are YYYY-MM-DD strings and bound the expense date inclusively
type ExpenseFilter struct {
	Category string
	DateFrom string
	DateTo   string
	Page     int
	Limit    int
}

// ExpenseStorage defines interface for expense persistence
// Every operation is scoped by the owning user id: an expense is never
// visible or mutable through another user's id
type ExpenseStorage interface {
	// CreateExpense creates a new expense and sets its assigned ID
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by id, scoped to the owner
	// Returns ErrExpenseNotFound for missing and foreign expenses alike
	GetExpense(ctx context.Context, userID, expenseID int64) (*models.Expense, error)

	// ListExpenses returns one page of the owner's expenses matching the
	// filter, ordered by date descending then creation time descending,
	// together with the total number of matching rows
	ListExpenses(ctx context.Context, userID int64, filter ExpenseFilter) ([]*models.Expense, int64, error)

	// UpdateExpense persists amount, description, category and date of the
	// expense, scoped to the owner
	// Returns ErrExpenseNotFound for missing and foreign expenses alike
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense deletes an expense by id, scoped to the owner
	// Returns ErrExpenseNotFound for missing and foreign expenses alike
	DeleteExpense(ctx context.Context, userID, expenseID int64) error

	// SummarizeExpenses aggregates all of the owner's expenses:
	// grand total, row count and a per-category breakdown
	SummarizeExpenses(ctx context.Context, userID int64) (*models.ExpenseSummary, error)
}
