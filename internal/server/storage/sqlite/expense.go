package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/expensekeeper/internal/models"
	"github.com/iudanet/expensekeeper/internal/server/storage"
)

// CreateExpense creates a new expense and sets its assigned ID
func (s *Storage) CreateExpense(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (user_id, amount, description, category, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		expense.UserID,
		expense.Amount,
		expense.Description,
		expense.Category,
		expense.Date,
		expense.CreatedAt,
		expense.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted expense id: %w", err)
	}
	expense.ID = id

	return nil
}

// GetExpense retrieves an expense by id, scoped to the owner
func (s *Storage) GetExpense(ctx context.Context, userID, expenseID int64) (*models.Expense, error) {
	query := `
		SELECT id, user_id, amount, description, category, date, created_at, updated_at
		FROM expenses
		WHERE id = ? AND user_id = ?
	`

	expense := &models.Expense{}

	err := s.db.QueryRowContext(ctx, query, expenseID, userID).Scan(
		&expense.ID,
		&expense.UserID,
		&expense.Amount,
		&expense.Description,
		&expense.Category,
		&expense.Date,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// buildFilter renders the WHERE clause for a listing and its arguments
// Date comparisons are lexicographic, which is correct for YYYY-MM-DD
func buildFilter(userID int64, filter storage.ExpenseFilter) (string, []any) {
	conditions := []string{"user_id = ?"}
	args := []any{userID}

	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.DateTo)
	}

	return strings.Join(conditions, " AND "), args
}

// ListExpenses returns one page of the owner's expenses and the total count
func (s *Storage) ListExpenses(ctx context.Context, userID int64, filter storage.ExpenseFilter) ([]*models.Expense, int64, error) {
	where, args := buildFilter(userID, filter)

	var total int64
	countQuery := "SELECT COUNT(*) FROM expenses WHERE " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	// id DESC breaks ties deterministically when date and created_at match
	listQuery := `
		SELECT id, user_id, amount, description, category, date, created_at, updated_at
		FROM expenses
		WHERE ` + where + `
		ORDER BY date DESC, created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	listArgs := append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.UserID,
			&expense.Amount,
			&expense.Description,
			&expense.Category,
			&expense.Date,
			&expense.CreatedAt,
			&expense.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, total, nil
}

// UpdateExpense persists the mutable fields of an expense, scoped to the owner
func (s *Storage) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	query := `
		UPDATE expenses
		SET amount = ?, description = ?, category = ?, date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		expense.Amount,
		expense.Description,
		expense.Category,
		expense.Date,
		expense.UpdatedAt,
		expense.ID,
		expense.UserID,
	)

	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrExpenseNotFound
	}

	return nil
}

// DeleteExpense deletes an expense by id, scoped to the owner
func (s *Storage) DeleteExpense(ctx context.Context, userID, expenseID int64) error {
	query := `DELETE FROM expenses WHERE id = ? AND user_id = ?`

	result, err := s.db.ExecContext(ctx, query, expenseID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrExpenseNotFound
	}

	return nil
}

// SummarizeExpenses aggregates all of the owner's expenses
func (s *Storage) SummarizeExpenses(ctx context.Context, userID int64) (*models.ExpenseSummary, error) {
	summary := &models.ExpenseSummary{
		Categories: []models.CategorySummary{},
	}

	totalQuery := `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses
		WHERE user_id = ?
	`
	err := s.db.QueryRowContext(ctx, totalQuery, userID).Scan(
		&summary.TotalAmount,
		&summary.TotalCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense totals: %w", err)
	}

	categoryQuery := `
		SELECT category, SUM(amount), COUNT(*)
		FROM expenses
		WHERE user_id = ?
		GROUP BY category
		ORDER BY category
	`
	rows, err := s.db.QueryContext(ctx, categoryQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cs models.CategorySummary
		if err := rows.Scan(&cs.Category, &cs.Total, &cs.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category summary: %w", err)
		}
		summary.Categories = append(summary.Categories, cs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category summary: %w", err)
	}

	return summary, nil
}
