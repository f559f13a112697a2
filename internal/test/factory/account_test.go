package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"authapp/internal/account"
	"authapp/internal/credential"
)

func TestNewAccount_WithoutDigest(t *testing.T) {
	acct := NewAccount[account.Account](map[string]any{
		"Email": "test@example.com",
	})

	digest := &credential.SHA256Digest{}

	assert.Equal(t, "test@example.com", acct.Email)
	assert.Equal(t, digest.Sum("12345678"), acct.CredentialDigest)
	assert.Len(t, acct.ActivationToken, 43)
	assert.NotEmpty(t, acct.UUID)
}

func TestNewAccount_WithCustomDigest(t *testing.T) {
	digest := &credential.SHA256Digest{}
	custom := digest.Sum("custompassword123")

	acct := NewAccount[account.Account](map[string]any{
		"Email":            "test@example.com",
		"CredentialDigest": custom,
	})

	assert.Equal(t, custom, acct.CredentialDigest)
	assert.Equal(t, "test@example.com", acct.Email)
}

func TestNewAccount_DistinctTokensPerBuild(t *testing.T) {
	first := NewAccount[account.Account](map[string]any{"Email": "a@example.com"})
	second := NewAccount[account.Account](map[string]any{"Email": "b@example.com"})

	assert.NotEqual(t, first.ActivationToken, second.ActivationToken)
	assert.NotEqual(t, first.UUID, second.UUID)
}
