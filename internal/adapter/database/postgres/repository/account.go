package repository

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"authapp/internal/account"
	"authapp/internal/adapter/database/postgres"
)

const uniqueViolationCode = "23505"

// AccountRepository implements account.Store on postgres through pgxpool.
type AccountRepository struct {
	db *postgres.DB
}

func NewAccountRepository(db *postgres.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Exists(ctx context.Context, email string) (bool, error) {
	query, args, err := r.db.QueryBuilder.
		Select("1").
		From("accounts").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, err
	}

	var one int

	err = r.db.QueryRow(ctx, query, args...).Scan(&one)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *AccountRepository) Insert(ctx context.Context, acct account.Account) (account.Account, error) {
	query, args, err := r.db.QueryBuilder.
		Insert("accounts").
		Columns("uuid", "email", "credential_digest", "activation_token", "activated", "created_at", "updated_at").
		Values(acct.UUID, acct.Email, acct.CredentialDigest, acct.ActivationToken, acct.Activated, acct.CreatedAt, acct.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return account.Account{}, err
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&acct.ID)

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return account.Account{}, account.ErrDuplicateIdentity
		}

		return account.Account{}, err
	}

	return acct, nil
}

func (r *AccountRepository) Activate(ctx context.Context, email string, token string) (bool, error) {
	query, args, err := r.db.QueryBuilder.
		Update("accounts").
		Set("activated", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"email": email, "activation_token": token, "activated": false}).
		ToSql()

	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, query, args...)

	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (r *AccountRepository) FindForAuth(ctx context.Context, email string, credentialDigest string) (*account.Account, error) {
	query, args, err := r.db.QueryBuilder.
		Select("id", "uuid", "email", "credential_digest", "activation_token", "activated", "created_at", "updated_at").
		From("accounts").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, err
	}

	var acct account.Account
	var token *string

	scanErr := r.db.QueryRow(ctx, query, args...).Scan(
		&acct.ID,
		&acct.UUID,
		&acct.Email,
		&acct.CredentialDigest,
		&token,
		&acct.Activated,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)

	if token != nil {
		acct.ActivationToken = *token
	}

	stored := strings.Repeat("0", len(credentialDigest))
	activated := false

	if scanErr == nil {
		stored = acct.CredentialDigest
		activated = acct.Activated
	} else if !errors.Is(scanErr, pgx.ErrNoRows) {
		return nil, scanErr
	}

	match := subtle.ConstantTimeCompare([]byte(stored), []byte(credentialDigest)) == 1

	if scanErr != nil || !match || !activated {
		return nil, nil
	}

	return &acct, nil
}
