package validation

import (
	"fmt"
	"regexp"
)

// EmailPattern defines the accepted email shape: local-part@domain.tld
var EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	// MinUsernameLen minimum username length
	MinUsernameLen = 3
	// MaxUsernameLen maximum username length
	MaxUsernameLen = 80
	// MinPasswordLen minimum password length
	MinPasswordLen = 6
)

// ValidateUsername checks that username length is within bounds
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must be less than %d characters", MaxUsernameLen)
	}

	return nil
}

// ValidateEmail checks that email matches a standard local-part@domain.tld shape
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

// ValidatePassword checks minimal password strength requirements
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}
