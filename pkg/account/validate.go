package account

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 30
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizeUsername trims surrounding whitespace. Usernames stay
// case-sensitive.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateUsername checks a normalized username and returns every rule
// violation found.
func ValidateUsername(username string) []string {
	var violations []string

	if len(username) < usernameMinLength {
		violations = append(violations, fmt.Sprintf("Username must be at least %d characters long", usernameMinLength))
	}
	if len(username) > usernameMaxLength {
		violations = append(violations, fmt.Sprintf("Username must be at most %d characters long", usernameMaxLength))
	}
	if username != "" && !usernamePattern.MatchString(username) {
		violations = append(violations, "Username may only contain letters, numbers, underscores and hyphens")
	}

	return violations
}

// ValidateEmail checks a normalized email address.
func ValidateEmail(email string) []string {
	if !emailPattern.MatchString(email) {
		return []string{"Email address is not valid"}
	}
	return nil
}
