package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/expensekeeper/internal/auth"
	"github.com/iudanet/expensekeeper/internal/models"
	"github.com/iudanet/expensekeeper/internal/server/storage"
	"github.com/iudanet/expensekeeper/internal/server/token"
	"github.com/iudanet/expensekeeper/internal/validation"
	"github.com/iudanet/expensekeeper/pkg/api"
)

// AuthHandler handles registration, login, logout and token refresh
type AuthHandler struct {
	logger      *slog.Logger
	userStorage storage.UserStorage
	tokens      *token.Service
	revocation  auth.RevocationChecker
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, tokens *token.Service, revocation auth.RevocationChecker) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		userStorage: userStorage,
		tokens:      tokens,
		revocation:  revocation,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" || email == "" || req.Password == "" {
		sendError(h.logger, w, "username, email, and password are required", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateUsername(username); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateEmail(email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUsernameTaken), errors.Is(err, storage.ErrEmailTaken):
			h.logger.WarnContext(ctx, "duplicate registration", slog.String("username", username))
			sendError(h.logger, w, err.Error(), http.StatusConflict)
		default:
			h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", username),
		slog.Int64("user_id", user.ID))

	resp := api.RegisterResponse{
		Message: "User registered successfully",
		UserID:  user.ID,
	}

	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// Login handles POST /auth/login
// The username field accepts either the username or the email of the account
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	login := strings.TrimSpace(req.Username)
	if login == "" || req.Password == "" {
		sendError(h.logger, w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("login", login))
			sendError(h.logger, w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		h.logger.WarnContext(ctx, "login failed: wrong password", slog.String("login", login))
		sendError(h.logger, w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	accessToken, _, err := h.tokens.IssueAccessToken(user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	refreshToken, err := h.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue refresh token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", user.Username),
		slog.Int64("user_id", user.ID))

	resp := api.LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		UserInfo:     user.Public(),
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Logout handles POST /auth/logout
// Revokes the jti of the presented access token; the token keeps failing
// verification until its natural expiry
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenString, err := BearerToken(r)
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.Verify(tokenString)
	if err != nil {
		h.logger.WarnContext(ctx, "logout with invalid token", slog.Any("error", err))
		sendError(h.logger, w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	revoked, err := h.revocation.IsRevoked(claims.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to check revocation", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if revoked {
		sendError(h.logger, w, "token has been revoked", http.StatusUnauthorized)
		return
	}

	if err := h.revocation.Revoke(claims.ID); err != nil {
		h.logger.ErrorContext(ctx, "failed to revoke token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged out successfully",
		slog.Int64("user_id", claims.UserID),
		slog.String("jti", claims.ID))

	sendJSON(h.logger, w, api.MessageResponse{Message: "Successfully logged out"}, http.StatusOK)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sendJSON(h.logger, w, api.UserInfoResponse{UserInfo: user.Public()}, http.StatusOK)
}

// Refresh handles POST /auth/refresh
// A valid, non-revoked refresh token yields a new access token. The refresh
// token itself is not rotated and stays valid until expiry or logout
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenString, err := BearerToken(r)
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.Verify(tokenString)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			sendError(h.logger, w, "refresh token expired", http.StatusUnauthorized)
			return
		}
		sendError(h.logger, w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	if claims.TokenType != token.TypeRefresh {
		h.logger.WarnContext(ctx, "refresh attempted with non-refresh token",
			slog.String("token_type", claims.TokenType))
		sendError(h.logger, w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	revoked, err := h.revocation.IsRevoked(claims.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to check revocation", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if revoked {
		sendError(h.logger, w, "token has been revoked", http.StatusUnauthorized)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	accessToken, _, err := h.tokens.IssueAccessToken(user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "access token refreshed", slog.Int64("user_id", user.ID))

	sendJSON(h.logger, w, api.RefreshResponse{Token: accessToken}, http.StatusOK)
}
