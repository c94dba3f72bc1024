package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/expensekeeper/internal/auth"
	"github.com/iudanet/expensekeeper/internal/server/storage"
	"github.com/iudanet/expensekeeper/internal/validation"
	"github.com/iudanet/expensekeeper/pkg/api"
)

// ProfileHandler handles profile read and partial update
type ProfileHandler struct {
	logger      *slog.Logger
	userStorage storage.UserStorage
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(logger *slog.Logger, userStorage storage.UserStorage) *ProfileHandler {
	return &ProfileHandler{
		logger:      logger,
		userStorage: userStorage,
	}
}

// Get handles GET /user/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sendJSON(h.logger, w, api.ProfileResponse{User: user.Public()}, http.StatusOK)
}

// Update handles PUT /user/profile
// Only fields present in the request body are modified. All changes are
// written in a single statement: either every field commits or none does
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode profile update request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == nil && req.Email == nil && req.Password == nil {
		sendError(h.logger, w, "no data provided", http.StatusBadRequest)
		return
	}

	updated := *user

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := validation.ValidateUsername(username); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		updated.Username = username
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := validation.ValidateEmail(email); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		updated.Email = email
	}

	if req.Password != nil {
		if err := validation.ValidatePassword(*req.Password); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}

		passwordHash, err := auth.HashPassword(*req.Password)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}
		updated.PasswordHash = passwordHash
	}

	updated.UpdatedAt = time.Now()

	if err := h.userStorage.UpdateUser(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, storage.ErrUsernameTaken), errors.Is(err, storage.ErrEmailTaken):
			sendError(h.logger, w, err.Error(), http.StatusConflict)
		case errors.Is(err, storage.ErrUserNotFound):
			sendError(h.logger, w, "user not found", http.StatusNotFound)
		default:
			h.logger.ErrorContext(ctx, "failed to update user", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "profile updated", slog.Int64("user_id", user.ID))

	sendJSON(h.logger, w, api.ProfileResponse{User: updated.Public()}, http.StatusOK)
}
