package password

import (
	"fmt"
	"strings"
)

// Symbols is the punctuation set counted toward the symbol requirement.
const Symbols = "!@#$%^&*()_+-=[]{}|;:'\",.<>/?`~\\"

// Policy defines the requirements for password complexity
type Policy struct {
	MinLength          int
	MinSymbols         int
	MinDigits          int
	DisallowCommonPwds bool
}

// ValidationResult carries every rule violation for a candidate password.
// Violations are collected, not short-circuited, so a caller can display
// all unmet rules at once.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// PolicyChecker defines the interface for checking password complexity
// and scoring candidates for UI feedback
type PolicyChecker interface {
	Validate(candidate string) ValidationResult
	Strength(candidate string) int
	GetPolicy() *Policy
}

// DefaultPolicyChecker implements the PolicyChecker interface
type DefaultPolicyChecker struct {
	policy          *Policy
	commonPasswords map[string]bool
}

// NewDefaultPolicyChecker creates a new default password policy checker
func NewDefaultPolicyChecker(policy *Policy, commonPasswords map[string]bool) *DefaultPolicyChecker {
	if policy == nil {
		policy = DefaultPolicy()
	}

	if commonPasswords == nil {
		commonPasswords = loadCommonPasswords()
	}

	return &DefaultPolicyChecker{
		policy:          policy,
		commonPasswords: commonPasswords,
	}
}

// Validate checks a candidate against every policy rule and returns all
// violations found.
func (pc *DefaultPolicyChecker) Validate(candidate string) ValidationResult {
	var violations []string

	if len(candidate) < pc.policy.MinLength {
		violations = append(violations, fmt.Sprintf("Password must be at least %d characters long", pc.policy.MinLength))
	}

	if countSymbols(candidate) < pc.policy.MinSymbols {
		violations = append(violations, fmt.Sprintf("Password must contain at least %d special characters", pc.policy.MinSymbols))
	}

	if countDigits(candidate) < pc.policy.MinDigits {
		violations = append(violations, fmt.Sprintf("Password must contain at least %d numbers", pc.policy.MinDigits))
	}

	if pc.policy.DisallowCommonPwds && pc.isCommonPassword(candidate) {
		violations = append(violations, "Password is too common, please choose a more secure password")
	}

	return ValidationResult{
		Valid:  len(violations) == 0,
		Errors: violations,
	}
}

// GetPolicy returns the password policy
func (pc *DefaultPolicyChecker) GetPolicy() *Policy {
	return pc.policy
}

func (pc *DefaultPolicyChecker) isCommonPassword(candidate string) bool {
	return pc.commonPasswords[strings.ToLower(candidate)]
}

func countSymbols(s string) int {
	count := 0
	for _, r := range s {
		if strings.ContainsRune(Symbols, r) {
			count++
		}
	}
	return count
}

func countDigits(s string) int {
	count := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}

// DefaultPolicy returns the policy enforced for the admin account
func DefaultPolicy() *Policy {
	return &Policy{
		MinLength:          15,
		MinSymbols:         2,
		MinDigits:          2,
		DisallowCommonPwds: true,
	}
}

// loadCommonPasswords returns a default deny list. The entries are short
// enough that the length rule already rejects them, but keeping the check
// guards against a relaxed policy.
func loadCommonPasswords() map[string]bool {
	commonPwds := []string{
		"password", "123456", "12345678", "qwerty", "admin",
		"welcome", "login", "abc123", "letmein", "monkey",
		"password123456!", "administrator123",
	}

	result := make(map[string]bool)
	for _, pwd := range commonPwds {
		result[pwd] = true
	}
	return result
}
