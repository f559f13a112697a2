package account

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateIdentity is returned by Store.Insert when the email is
	// already taken. The unique constraint in the storage engine is the
	// authoritative guard, not the Exists fast path.
	ErrDuplicateIdentity = errors.New("account: identity already exists")

	ErrAlreadyRegistered = errors.New("account: already registered")
	ErrInvalidToken      = errors.New("account: invalid activation token")
)

// Store is dumb persistence for accounts. All business rules (digest
// computation, token generation) live in the Manager.
type Store interface {
	// Exists reports whether an account with the email is present. No side
	// effects.
	Exists(ctx context.Context, email string) (bool, error)

	// Insert creates an unactivated account. The insert must be atomic with
	// respect to concurrent callers: two inserts for the same email must not
	// both succeed. Returns ErrDuplicateIdentity on collision.
	Insert(ctx context.Context, account Account) (Account, error)

	// Activate marks the account matching both email and token as activated
	// and reports whether a row actually changed. Already activated accounts
	// and wrong tokens change nothing.
	Activate(ctx context.Context, email string, token string) (bool, error)

	// FindForAuth returns the account only when the email matches, the
	// digest matches exactly and the account is activated. The digest
	// comparison must be constant-time.
	FindForAuth(ctx context.Context, email string, credentialDigest string) (*Account, error)
}
