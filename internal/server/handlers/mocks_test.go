package handlers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/iudanet/expensekeeper/internal/models"
	"github.com/iudanet/expensekeeper/internal/server/storage"
	"github.com/iudanet/expensekeeper/internal/server/token"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTokenService() *token.Service {
	return token.NewService("handlers-test-secret", time.Hour, 720*time.Hour)
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[int64]*models.User // id -> User
	createError error
	getError    error
	updateError error
	nextID      int64
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{
		users:  make(map[int64]*models.User),
		nextID: 1,
	}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return storage.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return storage.ErrEmailTaken
		}
	}
	user.ID = m.nextID
	m.nextID++
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *mockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, u := range m.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, u := range m.users {
		if u.Username == login || u.Email == login {
			clone := *u
			return &clone, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdateUser(ctx context.Context, user *models.User) error {
	if m.updateError != nil {
		return m.updateError
	}
	existing, ok := m.users[user.ID]
	if !ok {
		return storage.ErrUserNotFound
	}
	for id, u := range m.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username {
			return storage.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return storage.ErrEmailTaken
		}
	}
	*existing = *user
	return nil
}

// mockExpenseStorage is a mock implementation of ExpenseStorage for testing
type mockExpenseStorage struct {
	expenses    map[int64]*models.Expense // id -> Expense
	createError error
	listError   error
	lastFilter  storage.ExpenseFilter
	nextID      int64
}

func newMockExpenseStorage() *mockExpenseStorage {
	return &mockExpenseStorage{
		expenses: make(map[int64]*models.Expense),
		nextID:   1,
	}
}

func (m *mockExpenseStorage) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if m.createError != nil {
		return m.createError
	}
	expense.ID = m.nextID
	m.nextID++
	clone := *expense
	m.expenses[expense.ID] = &clone
	return nil
}

func (m *mockExpenseStorage) GetExpense(ctx context.Context, userID, expenseID int64) (*models.Expense, error) {
	expense, ok := m.expenses[expenseID]
	if !ok || expense.UserID != userID {
		return nil, storage.ErrExpenseNotFound
	}
	clone := *expense
	return &clone, nil
}

func (m *mockExpenseStorage) ListExpenses(ctx context.Context, userID int64, filter storage.ExpenseFilter) ([]*models.Expense, int64, error) {
	if m.listError != nil {
		return nil, 0, m.listError
	}
	m.lastFilter = filter

	var matched []*models.Expense
	for _, e := range m.expenses {
		if e.UserID != userID {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.DateFrom != "" && e.Date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && e.Date > filter.DateTo {
			continue
		}
		clone := *e
		matched = append(matched, &clone)
	}

	total := int64(len(matched))

	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		return []*models.Expense{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *mockExpenseStorage) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	existing, ok := m.expenses[expense.ID]
	if !ok || existing.UserID != expense.UserID {
		return storage.ErrExpenseNotFound
	}
	*existing = *expense
	return nil
}

func (m *mockExpenseStorage) DeleteExpense(ctx context.Context, userID, expenseID int64) error {
	existing, ok := m.expenses[expenseID]
	if !ok || existing.UserID != userID {
		return storage.ErrExpenseNotFound
	}
	delete(m.expenses, expenseID)
	return nil
}

func (m *mockExpenseStorage) SummarizeExpenses(ctx context.Context, userID int64) (*models.ExpenseSummary, error) {
	summary := &models.ExpenseSummary{Categories: []models.CategorySummary{}}
	byCategory := make(map[string]*models.CategorySummary)

	for _, e := range m.expenses {
		if e.UserID != userID {
			continue
		}
		summary.TotalAmount += e.Amount
		summary.TotalCount++
		cs, ok := byCategory[e.Category]
		if !ok {
			cs = &models.CategorySummary{Category: e.Category}
			byCategory[e.Category] = cs
		}
		cs.Total += e.Amount
		cs.Count++
	}

	for _, cs := range byCategory {
		summary.Categories = append(summary.Categories, *cs)
	}

	return summary, nil
}
