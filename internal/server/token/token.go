package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type discriminator carried in the token_type claim
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

const issuer = "expensekeeper"

// Verification errors
var (
	// ErrTokenExpired indicates the token signature is valid but the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the token is malformed or its signature does not verify
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims represents the JWT claims issued by this service
// The jti (RegisteredClaims.ID) is the revocation key
type Claims struct {
	TokenType string `json:"token_type"`
	UserID    int64  `json:"user_id"`
	jwt.RegisteredClaims
}

// Service issues and verifies signed access and refresh tokens
type Service struct {
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewService creates a new token service
// secret should be a cryptographically secure random string
func NewService(secret string, accessTokenTTL, refreshTokenTTL time.Duration) *Service {
	return &Service{
		secret:          []byte(secret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// IssueAccessToken creates a signed short-lived access token for the user
// Returns the token string and its lifetime in seconds
func (s *Service) IssueAccessToken(userID int64) (string, int64, error) {
	tokenString, err := s.issue(userID, TypeAccess, s.accessTokenTTL)
	if err != nil {
		return "", 0, fmt.Errorf("failed to issue access token: %w", err)
	}
	return tokenString, int64(s.accessTokenTTL.Seconds()), nil
}

// IssueRefreshToken creates a signed longer-lived refresh token for the user
func (s *Service) IssueRefreshToken(userID int64) (string, error) {
	tokenString, err := s.issue(userID, TypeRefresh, s.refreshTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return tokenString, nil
}

func (s *Service) issue(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks the signature and expiry of a token and returns its claims
// It does not consult the revocation list: that is the caller's concern
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject anything but HMAC to prevent algorithm substitution
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
