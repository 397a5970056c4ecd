package token

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danohq/portfolio-auth/pkg/account"
)

func testAccount() account.Account {
	return account.Account{
		ID:       uuid.New(),
		Username: "admin",
		Email:    "admin@example.com",
		Role:     account.RoleAdmin,
	}
}

func TestIssueAndVerify(t *testing.T) {
	svc := NewService("test-secret", "portfolio-auth", "portfolio", time.Hour)
	acct := testAccount()

	tokenStr, expiresAt, err := svc.Issue(acct)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenStr)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Verify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, acct.ID.String(), claims.Subject)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, account.RoleAdmin, claims.Role)
	assert.Equal(t, "portfolio-auth", claims.Issuer)
	assert.NotEmpty(t, claims.ID, "each token carries a unique jti")
}

func TestVerify_Expired(t *testing.T) {
	svc := NewService("test-secret", "portfolio-auth", "portfolio", time.Hour)
	svc.ttl = -time.Minute

	tokenStr, _, err := svc.Issue(testAccount())
	require.NoError(t, err)

	_, err = svc.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongKey(t *testing.T) {
	issuer := NewService("secret-a", "portfolio-auth", "portfolio", time.Hour)
	verifier := NewService("secret-b", "portfolio-auth", "portfolio", time.Hour)

	tokenStr, _, err := issuer.Issue(testAccount())
	require.NoError(t, err)

	_, err = verifier.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Tampered(t *testing.T) {
	svc := NewService("test-secret", "portfolio-auth", "portfolio", time.Hour)

	tokenStr, _, err := svc.Issue(testAccount())
	require.NoError(t, err)

	parts := strings.Split(tokenStr, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	svc := NewService("test-secret", "portfolio-auth", "portfolio", time.Hour)

	for _, tokenStr := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := svc.Verify(tokenStr)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenStr)
	}
}

func TestUniqueTokensPerIssue(t *testing.T) {
	svc := NewService("test-secret", "portfolio-auth", "portfolio", time.Hour)
	acct := testAccount()

	first, _, err := svc.Issue(acct)
	require.NoError(t, err)
	second, _, err := svc.Issue(acct)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "jti must differ between issues")
}
