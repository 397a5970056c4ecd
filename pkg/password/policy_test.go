package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_CollectsAllViolations(t *testing.T) {
	pc := NewDefaultPolicyChecker(nil, nil)

	t.Run("EmptyPassword", func(t *testing.T) {
		result := pc.Validate("")
		assert.False(t, result.Valid)
		assert.Len(t, result.Errors, 3, "length, symbol and digit rules should all be reported")
	})

	t.Run("ShortWithOneSymbolOneDigit", func(t *testing.T) {
		// 14 chars, 1 symbol, 1 digit
		result := pc.Validate("aaaaaaaaaaaa!1")
		assert.False(t, result.Valid)

		joined := strings.Join(result.Errors, "; ")
		assert.Contains(t, joined, "15 characters")
		assert.Contains(t, joined, "special characters")
		assert.Contains(t, joined, "numbers")
	})

	t.Run("ValidPassword", func(t *testing.T) {
		result := pc.Validate("correct-horse#battery42")
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("LongEnoughMissingSymbols", func(t *testing.T) {
		result := pc.Validate("aaaaaaaaaaaaaaaa42")
		assert.False(t, result.Valid)
		assert.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "special characters")
	})
}

func TestValidate_ShortPasswordsAlwaysReportLength(t *testing.T) {
	pc := NewDefaultPolicyChecker(nil, nil)

	candidates := []string{
		"",
		"a",
		"!!22",
		"Ab1!Ab1!Ab1!",
		"aaaaaaaaaaaaaa", // 14 chars, one short of the minimum
	}
	for _, candidate := range candidates {
		result := pc.Validate(candidate)
		assert.False(t, result.Valid, "candidate %q", candidate)

		found := false
		for _, msg := range result.Errors {
			if strings.Contains(msg, "15 characters") {
				found = true
			}
		}
		assert.True(t, found, "length violation missing for %q", candidate)
	}
}

func TestValidate_MeetingAllRulesIsValid(t *testing.T) {
	pc := NewDefaultPolicyChecker(nil, nil)

	candidates := []string{
		"aaaaaaaaaaaaa!!22",
		"long enough passphrase #1 of 2",
		"XyZ--0123456789abc",
	}
	for _, candidate := range candidates {
		result := pc.Validate(candidate)
		assert.True(t, result.Valid, "candidate %q: %v", candidate, result.Errors)
	}
}

func TestValidate_CommonPassword(t *testing.T) {
	pc := NewDefaultPolicyChecker(nil, map[string]bool{"password123456!!22wordpass": true})

	result := pc.Validate("Password123456!!22wordpass")
	assert.False(t, result.Valid, "common password lookup is case-insensitive")
	assert.Contains(t, result.Errors[0], "too common")
}

func TestValidate_CustomPolicy(t *testing.T) {
	pc := NewDefaultPolicyChecker(&Policy{MinLength: 4, MinSymbols: 1, MinDigits: 1}, nil)

	assert.True(t, pc.Validate("ab1!").Valid)
	assert.False(t, pc.Validate("ab1").Valid)
}
