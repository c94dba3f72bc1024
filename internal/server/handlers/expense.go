package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/expensekeeper/internal/models"
	"github.com/iudanet/expensekeeper/internal/server/storage"
	"github.com/iudanet/expensekeeper/pkg/api"
)

// MaxDescriptionLen bounds the expense description length
const MaxDescriptionLen = 255

// ExpenseHandler handles expense CRUD, listing and aggregation
// Every operation is scoped to the account resolved by the auth middleware
type ExpenseHandler struct {
	logger         *slog.Logger
	expenseStorage storage.ExpenseStorage
	defaultPerPage int
}

// NewExpenseHandler creates a new expense handler
// defaultPerPage is the page size used when the request does not specify one
func NewExpenseHandler(logger *slog.Logger, expenseStorage storage.ExpenseStorage, defaultPerPage int) *ExpenseHandler {
	if defaultPerPage < 1 {
		defaultPerPage = 10
	}
	return &ExpenseHandler{
		logger:         logger,
		expenseStorage: expenseStorage,
		defaultPerPage: defaultPerPage,
	}
}

func validateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > MaxDescriptionLen {
		return fmt.Errorf("description must be less than %d characters", MaxDescriptionLen)
	}
	return nil
}

func validateCategory(category string) error {
	if !models.IsValidCategory(category) {
		return fmt.Errorf("invalid category. Must be one of: %s", strings.Join(models.Categories, ", "))
	}
	return nil
}

func validateDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return fmt.Errorf("invalid date format. Use YYYY-MM-DD")
	}
	return nil
}

// List handles GET /expenses
// Filters are conjunctive; pagination is 1-indexed
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()

	page := 1
	if v := query.Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			sendError(h.logger, w, "invalid page parameter", http.StatusBadRequest)
			return
		}
		page = p
	}

	limit := h.defaultPerPage
	if v := query.Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			sendError(h.logger, w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = l
	}

	filter := storage.ExpenseFilter{
		Category: query.Get("category"),
		DateFrom: query.Get("date_from"),
		DateTo:   query.Get("date_to"),
		Page:     page,
		Limit:    limit,
	}

	if filter.DateFrom != "" {
		if err := validateDate(filter.DateFrom); err != nil {
			sendError(h.logger, w, "invalid date_from format. Use YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	if filter.DateTo != "" {
		if err := validateDate(filter.DateTo); err != nil {
			sendError(h.logger, w, "invalid date_to format. Use YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	expenses, total, err := h.expenseStorage.ListExpenses(ctx, user.ID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list expenses", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}

	items := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, *e)
	}

	resp := api.ExpenseListResponse{
		Expenses: items,
		Total:    total,
		PageInfo: api.PageInfo{
			Page:    page,
			Pages:   pages,
			PerPage: limit,
			HasNext: page < pages,
			HasPrev: page > 1,
		},
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Create handles POST /expenses
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode create expense request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)

	if req.Amount == 0 || req.Description == "" || req.Category == "" || req.Date == "" {
		sendError(h.logger, w, "amount, description, category, and date are required", http.StatusBadRequest)
		return
	}

	for _, err := range []error{
		validateAmount(req.Amount),
		validateDescription(req.Description),
		validateCategory(req.Category),
		validateDate(req.Date),
	} {
		if err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	now := time.Now()
	expense := &models.Expense{
		UserID:      user.ID,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.expenseStorage.CreateExpense(ctx, expense); err != nil {
		h.logger.ErrorContext(ctx, "failed to create expense", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "expense created",
		slog.Int64("user_id", user.ID),
		slog.Int64("expense_id", expense.ID))

	sendJSON(h.logger, w, api.ExpenseResponse{Expense: *expense}, http.StatusCreated)
}

// expenseID parses the {id} path segment
func expenseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// Get handles GET /expenses/{id}
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := expenseID(r)
	if err != nil {
		sendError(h.logger, w, "expense not found", http.StatusNotFound)
		return
	}

	expense, err := h.expenseStorage.GetExpense(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, storage.ErrExpenseNotFound) {
			sendError(h.logger, w, "expense not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get expense", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.ExpenseResponse{Expense: *expense}, http.StatusOK)
}

// Update handles PUT /expenses/{id}
// Only fields present in the request body are modified
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := expenseID(r)
	if err != nil {
		sendError(h.logger, w, "expense not found", http.StatusNotFound)
		return
	}

	expense, err := h.expenseStorage.GetExpense(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, storage.ErrExpenseNotFound) {
			sendError(h.logger, w, "expense not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get expense", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	var req api.UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode update expense request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Amount != nil {
		if err := validateAmount(*req.Amount); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		expense.Amount = *req.Amount
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if err := validateDescription(description); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		expense.Description = description
	}

	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if err := validateCategory(category); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		expense.Category = category
	}

	if req.Date != nil {
		if err := validateDate(*req.Date); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		expense.Date = *req.Date
	}

	expense.UpdatedAt = time.Now()

	if err := h.expenseStorage.UpdateExpense(ctx, expense); err != nil {
		if errors.Is(err, storage.ErrExpenseNotFound) {
			sendError(h.logger, w, "expense not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update expense", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "expense updated",
		slog.Int64("user_id", user.ID),
		slog.Int64("expense_id", expense.ID))

	sendJSON(h.logger, w, api.ExpenseResponse{Expense: *expense}, http.StatusOK)
}

// Delete handles DELETE /expenses/{id}
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := expenseID(r)
	if err != nil {
		sendError(h.logger, w, "expense not found", http.StatusNotFound)
		return
	}

	if err := h.expenseStorage.DeleteExpense(ctx, user.ID, id); err != nil {
		if errors.Is(err, storage.ErrExpenseNotFound) {
			sendError(h.logger, w, "expense not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete expense", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "expense deleted",
		slog.Int64("user_id", user.ID),
		slog.Int64("expense_id", id))

	sendJSON(h.logger, w, api.MessageResponse{Message: "Expense deleted successfully"}, http.StatusOK)
}

// Categories handles GET /expenses/categories
// Public: the category set is fixed configuration, not user data
func (h *ExpenseHandler) Categories(w http.ResponseWriter, r *http.Request) {
	sendJSON(h.logger, w, api.CategoriesResponse{Categories: models.Categories}, http.StatusOK)
}

// Summary handles GET /expenses/summary
func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.expenseStorage.SummarizeExpenses(ctx, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to summarize expenses", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, summary, http.StatusOK)
}
