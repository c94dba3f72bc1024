package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/expensekeeper/internal/auth"
	"github.com/iudanet/expensekeeper/internal/server/handlers"
	"github.com/iudanet/expensekeeper/internal/server/storage"
	"github.com/iudanet/expensekeeper/internal/server/token"
	"github.com/iudanet/expensekeeper/pkg/api"
)

// AuthMiddleware resolves the request identity before any handler runs:
// verify token signature and expiry, reject non-access and revoked tokens,
// load the account, and attach it to the request context.
// Handlers downstream trust only this resolved identity
func AuthMiddleware(logger *slog.Logger, tokens *token.Service, revocation auth.RevocationChecker, users storage.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := handlers.BearerToken(r)
			if err != nil {
				logger.Warn("missing or malformed Authorization header", "error", err)
				unauthorized(w, err.Error())
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				logger.Warn("token verification failed", "error", err)
				if errors.Is(err, token.ErrTokenExpired) {
					unauthorized(w, "token has expired")
					return
				}
				unauthorized(w, "invalid token")
				return
			}

			if claims.TokenType != token.TypeAccess {
				logger.Warn("non-access token on authenticated endpoint",
					"token_type", claims.TokenType)
				unauthorized(w, "invalid token")
				return
			}

			revoked, err := revocation.IsRevoked(claims.ID)
			if err != nil {
				logger.Error("failed to check token revocation", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if revoked {
				logger.Warn("revoked token used", "jti", claims.ID, "user_id", claims.UserID)
				unauthorized(w, "token has been revoked")
				return
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					logger.Warn("token subject no longer exists", "user_id", claims.UserID)
					unauthorized(w, "user not found")
					return
				}
				logger.Error("failed to load user", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			logger.Debug("user authenticated",
				"user_id", user.ID, "username", user.Username)

			ctx := handlers.ContextWithIdentity(r.Context(), user, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized writes the uniform error body with a 401 status
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: message})
}
