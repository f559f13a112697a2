package factory

import (
	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"authapp/internal/credential"
)

// NewAccount builds an account-shaped struct for tests. Unless overridden,
// the credential digest matches the secret "12345678" under the legacy
// sha256 scheme and the activation token is a fresh one.
func NewAccount[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	defaults := map[string]any{}

	if !hasKey(customData, "UUID") {
		defaults["UUID"] = uuid.New()
	}

	if !hasKey(customData, "CredentialDigest") {
		digest := &credential.SHA256Digest{}
		defaults["CredentialDigest"] = digest.Sum("12345678")
	}

	if !hasKey(customData, "ActivationToken") {
		token, _ := credential.NewActivationToken()
		defaults["ActivationToken"] = token
	}

	if len(defaults) > 0 {
		customData = append(customData, defaults)
	}

	return instance.Build(customData...)
}

func hasKey(customData []map[string]any, key string) bool {
	for _, data := range customData {
		if _, exists := data[key]; exists {
			return true
		}
	}

	return false
}
