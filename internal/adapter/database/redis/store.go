package redis

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"authapp/internal/account"
)

const keyPrefix = "account:"

// activateScript flips the activated flag only when the stored token matches
// and the account is still pending. Runs atomically server-side, mirrors the
// relational `UPDATE ... WHERE email AND token AND NOT activated`.
var activateScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
  return 0
end
local acct = cjson.decode(raw)
if acct.activated then
  return 0
end
if acct.activation_token ~= ARGV[1] then
  return 0
end
acct.activated = true
acct.updated_at = ARGV[2]
redis.call("SET", KEYS[1], cjson.encode(acct))
return 1
`)

type record struct {
	UUID             string `json:"uuid"`
	Email            string `json:"email"`
	CredentialDigest string `json:"credential_digest"`
	ActivationToken  string `json:"activation_token"`
	Activated        bool   `json:"activated"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// AccountStore implements account.Store on redis for deployments without a
// relational engine. SET NX gives the same atomic uniqueness guarantee a
// UNIQUE constraint does.
type AccountStore struct {
	client *redis.Client
}

func NewAccountStore(client *redis.Client) *AccountStore {
	return &AccountStore{client: client}
}

func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)

	if err != nil {
		return nil, err
	}

	return redis.NewClient(opts), nil
}

func (s *AccountStore) Exists(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+email).Result()

	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (s *AccountStore) Insert(ctx context.Context, acct account.Account) (account.Account, error) {
	raw, err := json.Marshal(record{
		UUID:             acct.UUID.String(),
		Email:            acct.Email,
		CredentialDigest: acct.CredentialDigest,
		ActivationToken:  acct.ActivationToken,
		Activated:        acct.Activated,
		CreatedAt:        acct.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:        acct.UpdatedAt.Format(time.RFC3339Nano),
	})

	if err != nil {
		return account.Account{}, err
	}

	ok, err := s.client.SetNX(ctx, keyPrefix+acct.Email, raw, 0).Result()

	if err != nil {
		return account.Account{}, err
	}

	if !ok {
		return account.Account{}, account.ErrDuplicateIdentity
	}

	return acct, nil
}

func (s *AccountStore) Activate(ctx context.Context, email string, token string) (bool, error) {
	now := time.Now().Format(time.RFC3339Nano)

	n, err := activateScript.Run(ctx, s.client, []string{keyPrefix + email}, token, now).Int()

	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (s *AccountStore) FindForAuth(ctx context.Context, email string, credentialDigest string) (*account.Account, error) {
	raw, err := s.client.Get(ctx, keyPrefix+email).Result()

	stored := strings.Repeat("0", len(credentialDigest))
	activated := false

	var rec record

	if err == nil {
		if jsonErr := json.Unmarshal([]byte(raw), &rec); jsonErr != nil {
			return nil, jsonErr
		}

		stored = rec.CredentialDigest
		activated = rec.Activated
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	match := subtle.ConstantTimeCompare([]byte(stored), []byte(credentialDigest)) == 1

	if err != nil || !match || !activated {
		return nil, nil
	}

	return toAccount(rec)
}

func toAccount(rec record) (*account.Account, error) {
	id, err := uuid.Parse(rec.UUID)

	if err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)

	if err != nil {
		return nil, err
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, rec.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return &account.Account{
		UUID:             id,
		Email:            rec.Email,
		CredentialDigest: rec.CredentialDigest,
		ActivationToken:  rec.ActivationToken,
		Activated:        rec.Activated,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}
