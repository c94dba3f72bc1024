package api

import "github.com/iudanet/expensekeeper/internal/models"

// CreateExpenseRequest represents a new expense
// Amount is a JSON number; Date is a YYYY-MM-DD string
type CreateExpenseRequest struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
}

// UpdateExpenseRequest carries a partial expense update
// Only fields present in the request body are applied
type UpdateExpenseRequest struct {
	Amount      *float64 `json:"amount,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Date        *string  `json:"date,omitempty"`
}

// ExpenseResponse wraps a single expense
type ExpenseResponse struct {
	Expense models.Expense `json:"expense"`
}

// PageInfo describes the position of a listing page
type PageInfo struct {
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	PerPage int   `json:"per_page"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// ExpenseListResponse is one page of expenses plus pagination metadata
type ExpenseListResponse struct {
	Expenses []models.Expense `json:"expenses"`
	PageInfo PageInfo         `json:"page_info"`
	Total    int64            `json:"total"`
}

// CategoriesResponse lists the fixed category set
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
