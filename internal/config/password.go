package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig holds configuration for password hashing and verification.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // optional global secret appended before hashing
	Policy     PasswordPolicy
}

// PasswordPolicy describes the minimum composition of a new password.
type PasswordPolicy struct {
	MinLength    int
	MinUppercase int
	MinDigits    int
	MinSpecial   int
}

// DefaultPasswordPolicy requires 8 characters with one uppercase letter,
// one digit and one special character.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:    8,
		MinUppercase: 1,
		MinDigits:    1,
		MinSpecial:   1,
	}
}

// PolicyError lists every rule a password failed.
type PolicyError struct {
	Violations []string
}

func (e *PolicyError) Error() string {
	return "password does not meet policy: " + strings.Join(e.Violations, "; ")
}

// Check returns a *PolicyError when pw violates the policy.
func (p PasswordPolicy) Check(pw string) error {
	var upper, digits, special int
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsDigit(r):
			digits++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special++
		}
	}

	var violations []string
	if n := len([]rune(pw)); n < p.MinLength {
		violations = append(violations, fmt.Sprintf("at least %d characters", p.MinLength))
	}
	if upper < p.MinUppercase {
		violations = append(violations, fmt.Sprintf("at least %d uppercase letter(s)", p.MinUppercase))
	}
	if digits < p.MinDigits {
		violations = append(violations, fmt.Sprintf("at least %d digit(s)", p.MinDigits))
	}
	if special < p.MinSpecial {
		violations = append(violations, fmt.Sprintf("at least %d special character(s)", p.MinSpecial))
	}

	if len(violations) > 0 {
		return &PolicyError{Violations: violations}
	}
	return nil
}

// NewPasswordConfig reads BCRYPT_COST (default 12, range 10-14) and the
// optional PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	cost := 12
	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
		}
		cost = parsed
	}

	cfg := &PasswordConfig{
		BcryptCost: cost,
		Pepper:     os.Getenv("PASSWORD_PEPPER"),
		Policy:     DefaultPasswordPolicy(),
	}
	if cfg.BcryptCost < 10 || cfg.BcryptCost > 14 {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", cfg.BcryptCost)
	}
	return cfg, nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword hashes a password using bcrypt.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}
