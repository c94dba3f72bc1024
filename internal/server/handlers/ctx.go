package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/iudanet/expensekeeper/internal/models"
	"github.com/iudanet/expensekeeper/internal/server/token"
)

// contextKey type for context keys
type contextKey string

const (
	// UserKey holds the resolved account in the request context
	UserKey contextKey = "user"
	// ClaimsKey holds the verified token claims in the request context
	ClaimsKey contextKey = "claims"
)

// UserFromContext returns the account resolved by the auth middleware
// Handlers must use this as the only source of ownership identity:
// no client-supplied user id is ever trusted
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok
}

// ClaimsFromContext returns the verified token claims for the request
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*token.Claims)
	return claims, ok
}

// ContextWithIdentity attaches the resolved account and its token claims
// to the context. Used by the auth middleware and by tests
func ContextWithIdentity(ctx context.Context, user *models.User, claims *token.Claims) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	return context.WithValue(ctx, ClaimsKey, claims)
}

// BearerToken extracts the token from the Authorization header
// Expects the "Bearer <token>" format
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header is required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("invalid authorization header format")
	}

	if parts[1] == "" {
		return "", fmt.Errorf("token is required")
	}

	return parts[1], nil
}
