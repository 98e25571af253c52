// pkg/auth/password.go
package auth

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var ErrWeakPassword = errors.New("password does not meet requirements")

// Policy describes the password requirements enforced at registration.
// The zero value accepts any non-empty password.
type Policy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireNumber bool
}

// PasswordManager hashes and verifies passwords with bcrypt.
type PasswordManager struct {
	policy Policy
	cost   int
}

// NewPasswordManager returns a manager with the default permissive policy.
func NewPasswordManager() *PasswordManager {
	return NewPasswordManagerWithPolicy(Policy{MinLength: 1})
}

// NewPasswordManagerWithPolicy returns a manager enforcing the given policy.
func NewPasswordManagerWithPolicy(policy Policy) *PasswordManager {
	if policy.MinLength < 1 {
		policy.MinLength = 1
	}
	return &PasswordManager{policy: policy, cost: 12}
}

// HashPassword validates the password against the policy and hashes it.
func (pm *PasswordManager) HashPassword(password string) (string, error) {
	if err := pm.ValidatePassword(password); err != nil {
		return "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), pm.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword reports whether password matches hashedPassword.
// The bcrypt comparison is constant-time.
func (pm *PasswordManager) ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword checks the password against the policy.
func (pm *PasswordManager) ValidatePassword(password string) error {
	if len(password) < pm.policy.MinLength {
		return fmt.Errorf("%w: minimum length is %d characters", ErrWeakPassword, pm.policy.MinLength)
	}

	var hasUpper, hasLower, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}

	if pm.policy.RequireUpper && !hasUpper {
		return fmt.Errorf("%w: must contain at least one uppercase letter", ErrWeakPassword)
	}
	if pm.policy.RequireLower && !hasLower {
		return fmt.Errorf("%w: must contain at least one lowercase letter", ErrWeakPassword)
	}
	if pm.policy.RequireNumber && !hasNumber {
		return fmt.Errorf("%w: must contain at least one number", ErrWeakPassword)
	}
	return nil
}

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
)

// ValidateEmail checks the email address format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	if len(email) > 255 {
		return errors.New("email address too long")
	}
	return nil
}

// ValidateUsername checks length and character set of a username.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if len(username) > 50 {
		return errors.New("username must not exceed 50 characters")
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("username can only contain letters, numbers, underscore, and hyphen")
	}
	return nil
}
