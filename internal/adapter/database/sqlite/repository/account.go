package repository

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"authapp/internal/account"
)

// AccountRepository implements account.Store on sqlite. Identity uniqueness
// is enforced by the UNIQUE constraint on accounts.email, never by a
// check-then-insert in Go.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Exists(ctx context.Context, email string) (bool, error) {
	var one int

	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM accounts WHERE email = ? LIMIT 1", email).Scan(&one)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *AccountRepository) Insert(ctx context.Context, acct account.Account) (account.Account, error) {
	stmt, err := r.db.PrepareContext(ctx, "INSERT INTO accounts (uuid, email, credential_digest, activation_token, activated, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)")

	if err != nil {
		return account.Account{}, err
	}

	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		acct.UUID.String(),
		acct.Email,
		acct.CredentialDigest,
		acct.ActivationToken,
		acct.Activated,
		acct.CreatedAt,
		acct.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return account.Account{}, account.ErrDuplicateIdentity
		}

		return account.Account{}, err
	}

	return r.getByEmail(ctx, acct.Email)
}

func (r *AccountRepository) Activate(ctx context.Context, email string, token string) (bool, error) {
	stmt, err := r.db.PrepareContext(ctx, "UPDATE accounts SET activated = 1, updated_at = CURRENT_TIMESTAMP WHERE email = ? AND activation_token = ? AND activated = 0")

	if err != nil {
		return false, err
	}

	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, email, token)

	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *AccountRepository) FindForAuth(ctx context.Context, email string, credentialDigest string) (*account.Account, error) {
	acct, err := r.getByEmail(ctx, email)

	// The digest comparison stays in Go and runs against a dummy value when
	// the row is absent, so unknown identity, wrong secret and a pending
	// account all take the same path.
	stored := strings.Repeat("0", len(credentialDigest))
	activated := false

	if err == nil {
		stored = acct.CredentialDigest
		activated = acct.Activated
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	match := subtle.ConstantTimeCompare([]byte(stored), []byte(credentialDigest)) == 1

	if err != nil || !match || !activated {
		return nil, nil
	}

	return &acct, nil
}

func (r *AccountRepository) getByEmail(ctx context.Context, email string) (account.Account, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id, uuid, email, credential_digest, activation_token, activated, created_at, updated_at FROM accounts WHERE email = ? LIMIT 1", email)

	var acct account.Account
	var uuidStr string
	var token sql.NullString

	err := row.Scan(
		&acct.ID,
		&uuidStr,
		&acct.Email,
		&acct.CredentialDigest,
		&token,
		&acct.Activated,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)

	if err != nil {
		return account.Account{}, err
	}

	acct.ActivationToken = token.String

	acct.UUID, err = uuid.Parse(uuidStr)

	if err != nil {
		return account.Account{}, err
	}

	return acct, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error

	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
