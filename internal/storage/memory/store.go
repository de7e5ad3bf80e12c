package memory

import (
	"context"
	"sync"

	"github.com/atlasbank/ledger-core/internal/interfaces"
	"github.com/atlasbank/ledger-core/internal/models"
)

// Store is an in-memory implementation of interfaces.AccountStore,
// intended for tests and local experimentation. It is safe for
// concurrent use.
type Store struct {
	mu    sync.Mutex
	accts map[uint64]models.Account
}

func New() *Store {
	return &Store{accts: make(map[uint64]models.Account)}
}

func (s *Store) Get(ctx context.Context, id uint64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accts[id]
	if !ok {
		return models.Account{}, models.ErrAccountNotFound
	}
	// return a copy so callers cannot reach into the store's state
	return acct.Clone(), nil
}

func (s *Store) Create(ctx context.Context, acct models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accts[acct.ID]; ok {
		return models.ErrDuplicateAccount
	}
	s.accts[acct.ID] = acct.Clone()
	return nil
}

func (s *Store) PutAll(ctx context.Context, accounts map[uint64]models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, acct := range accounts {
		s.accts[id] = acct.Clone()
	}
	return nil
}

var _ interfaces.AccountStore = (*Store)(nil)
