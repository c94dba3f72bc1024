package api

import "github.com/iudanet/expensekeeper/internal/models"

// RegisterRequest represents a new account registration
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse represents a successful registration
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// LoginRequest represents an authentication attempt
// Username accepts either the username or the email of the account
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued tokens together with the account info
type LoginResponse struct {
	Token        string            `json:"token"`
	RefreshToken string            `json:"refresh_token"`
	UserInfo     models.PublicUser `json:"user_info"`
}

// RefreshResponse carries the newly minted access token
type RefreshResponse struct {
	Token string `json:"token"`
}

// UserInfoResponse wraps the current account info
type UserInfoResponse struct {
	UserInfo models.PublicUser `json:"user_info"`
}

// ProfileResponse wraps the account returned by the profile endpoints
type ProfileResponse struct {
	User models.PublicUser `json:"user"`
}

// UpdateProfileRequest carries a partial profile update
// Only fields present in the request body are applied
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// MessageResponse is a bare confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the uniform error body for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
