package memory

import (
	"sort"
	"strings"
	"sync"

	interfaces "github.com/sheikh-saqib/atm-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
)

// AccountStore is an in-memory implementation of interfaces.AccountStore.
// It owns every account record; callers only see copies.
type AccountStore struct {
	mu       sync.RWMutex               // protects accounts
	accounts map[string]*models.Account // keyed by access code
}

// NewAccountStore creates a store holding a copy of each seed account.
// A later seed entry with a duplicate code replaces the earlier one.
func NewAccountStore(seed []models.Account) *AccountStore {
	s := &AccountStore{
		accounts: make(map[string]*models.Account, len(seed)),
	}
	for _, a := range seed {
		cp := a.Clone()
		s.accounts[cp.Code] = &cp
	}
	return s
}

// Lookup returns a copy of the account stored under code.
func (s *AccountStore) Lookup(code string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[code]
	if !ok {
		return models.Account{}, models.ErrNotFound
	}
	return a.Clone(), nil
}

func (s *AccountStore) Contains(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.accounts[code]
	return ok
}

// Rekey moves the account from oldCode to newCode. Every other field,
// including the stable ID, is left untouched.
func (s *AccountStore) Rekey(oldCode, newCode string) error {
	if newCode == "" || newCode == oldCode {
		return models.ErrInvalidOrDuplicatePin
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[oldCode]
	if !ok {
		return models.ErrInvalidOrDuplicatePin
	}
	// newCode already belongs to someone else
	if _, taken := s.accounts[newCode]; taken {
		return models.ErrInvalidOrDuplicatePin
	}

	delete(s.accounts, oldCode)
	a.Code = newCode
	s.accounts[newCode] = a
	return nil
}

func (s *AccountStore) Rename(code, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return models.ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[code]
	if !ok {
		return models.ErrNotFound
	}
	a.Name = newName
	return nil
}

// Save replaces the stored records with the given ones. Either every
// record is written or, when one of them is unknown, none is.
func (s *AccountStore) Save(accounts ...models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range accounts {
		if _, ok := s.accounts[a.Code]; !ok {
			return models.ErrNotFound
		}
	}
	for _, a := range accounts {
		cp := a.Clone()
		s.accounts[cp.Code] = &cp
	}
	return nil
}

// List returns copies of all accounts ordered by code.
func (s *AccountStore) List() []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Compile-time check: ensure AccountStore implements the interface
var _ interfaces.AccountStore = (*AccountStore)(nil)
