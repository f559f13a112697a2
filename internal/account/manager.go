package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"authapp/internal/credential"
	"authapp/internal/shared"
)

// Manager owns the account lifecycle rules: it is the only place digests are
// computed and activation tokens generated. It holds no mutable state, all
// state lives in the Store, so a single instance is safe for concurrent use.
type Manager struct {
	store   Store
	digest  credential.Digest
	metrics *shared.AppMetrics
}

func NewManager(store Store, digest credential.Digest, metrics *shared.AppMetrics) *Manager {
	return &Manager{
		store:   store,
		digest:  digest,
		metrics: metrics,
	}
}

// Register creates an unactivated account and returns its activation token.
// The token is handed back to the caller, dispatching it (email, callback
// URL) is not the manager's job.
func (m *Manager) Register(ctx context.Context, email string, secret string) (string, error) {
	exists, err := m.store.Exists(ctx, email)

	if err != nil {
		m.count("register", "error")
		return "", err
	}

	// Fast path only. The unique constraint on insert is what actually
	// guards against concurrent duplicates.
	if exists {
		m.count("register", "duplicate")
		return "", ErrAlreadyRegistered
	}

	token, err := credential.NewActivationToken()

	if err != nil {
		m.count("register", "error")
		return "", err
	}

	now := time.Now()

	_, err = m.store.Insert(ctx, Account{
		UUID:             uuid.New(),
		Email:            email,
		CredentialDigest: m.digest.Sum(secret),
		ActivationToken:  token,
		Activated:        false,
		CreatedAt:        now,
		UpdatedAt:        now,
	})

	if err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			m.count("register", "duplicate")
			return "", ErrAlreadyRegistered
		}

		m.count("register", "error")
		return "", err
	}

	m.count("register", "success")

	return token, nil
}

// Confirm consumes the activation token. Unknown email, wrong token and an
// already consumed token all report ErrInvalidToken, a stale token must not
// reveal whether the account exists or is active.
func (m *Manager) Confirm(ctx context.Context, email string, token string) error {
	changed, err := m.store.Activate(ctx, email, token)

	if err != nil {
		m.count("confirm", "error")
		return err
	}

	if !changed {
		m.count("confirm", "invalid")
		return ErrInvalidToken
	}

	m.count("confirm", "success")

	return nil
}

// Authenticate reports whether the secret matches an activated account. A
// false result carries no detail: unknown identity, wrong secret and a
// pending account are indistinguishable.
func (m *Manager) Authenticate(ctx context.Context, email string, secret string) (bool, error) {
	acct, err := m.store.FindForAuth(ctx, email, m.digest.Sum(secret))

	if err != nil {
		m.count("authenticate", "error")
		return false, err
	}

	if acct == nil {
		m.count("authenticate", "denied")
		return false, nil
	}

	m.count("authenticate", "success")

	return true, nil
}

func (m *Manager) count(operation string, result string) {
	if m.metrics != nil {
		m.metrics.RecordAccountOperation(operation, result)
	}
}
