package account

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// CachedStore wraps a Store with a positive-only existence cache. Accounts
// are never deleted, so a cached "exists" can never go stale. Negative
// results are never cached, a registration racing the lookup would otherwise
// read a stale miss. Only the Exists fast path is served from cache, the
// unique constraint on Insert remains the authoritative duplicate guard.
type CachedStore struct {
	Store
	existing *cache.Cache
}

func NewCachedStore(store Store) *CachedStore {
	return &CachedStore{
		Store:    store,
		existing: cache.New(cache.NoExpiration, 0),
	}
}

func (s *CachedStore) Exists(ctx context.Context, email string) (bool, error) {
	if _, hit := s.existing.Get(email); hit {
		return true, nil
	}

	exists, err := s.Store.Exists(ctx, email)

	if err != nil {
		return false, err
	}

	if exists {
		s.existing.Set(email, struct{}{}, cache.NoExpiration)
	}

	return exists, nil
}

func (s *CachedStore) Insert(ctx context.Context, account Account) (Account, error) {
	saved, err := s.Store.Insert(ctx, account)

	if err != nil {
		return Account{}, err
	}

	s.existing.Set(saved.Email, struct{}{}, cache.NoExpiration)

	return saved, nil
}
