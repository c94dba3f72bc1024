package models

import "time"

// DateLayout is the wire format for expense dates (calendar date, no time)
const DateLayout = "2006-01-02"

// Expense represents a single expense record owned by a user
// Date is kept as a YYYY-MM-DD string: it round-trips through the API
// unchanged and compares correctly both in Go and in SQL
type Expense struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Amount      float64   `json:"amount"`
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
}

// Categories is the fixed set of allowed expense categories
var Categories = []string{
	"Food",
	"Transportation",
	"Entertainment",
	"Healthcare",
	"Shopping",
	"Utilities",
	"Other",
}

// IsValidCategory reports whether category is a member of the fixed set
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// CategorySummary is the per-category aggregation line
type CategorySummary struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

// ExpenseSummary aggregates all expenses of a single owner
type ExpenseSummary struct {
	Categories  []CategorySummary `json:"categories"`
	TotalAmount float64           `json:"total_amount"`
	TotalCount  int64             `json:"total_count"`
}
