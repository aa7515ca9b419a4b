package memory

import (
	"context"
	"sync"

	"github.com/avolkov/url-shortener/internal/model"
	"github.com/avolkov/url-shortener/internal/storage"
)

// Storage implements the URL and account ports in memory, for testing and
// development. A single mutex covers both tables, so PutURLIfAbsent is
// atomic with respect to concurrent writers.
type Storage struct {
	urls       map[string]model.URL
	ownerIndex map[string][]string
	accounts   map[string]model.Account
	byUsername map[string]string
	mutex      sync.RWMutex
}

// NewStorage creates a new in-memory storage instance.
func NewStorage() *Storage {
	return &Storage{
		urls:       make(map[string]model.URL),
		ownerIndex: make(map[string][]string),
		accounts:   make(map[string]model.Account),
		byUsername: make(map[string]string),
	}
}

// PutURLIfAbsent stores a mapping if its short ID is unbound, returning
// storage.ErrShortIDExists otherwise.
func (s *Storage) PutURLIfAbsent(ctx context.Context, u model.URL) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.urls[u.ShortID]; exists {
		return storage.ErrShortIDExists
	}

	s.urls[u.ShortID] = u
	s.ownerIndex[u.OwnerID] = append(s.ownerIndex[u.OwnerID], u.ShortID)
	return nil
}

// GetURL retrieves the mapping for a given short ID.
func (s *Storage) GetURL(ctx context.Context, shortID string) (model.URL, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	u, found := s.urls[shortID]
	if !found {
		return model.URL{}, storage.ErrNotFound
	}

	return u, nil
}

// ListURLs returns every stored mapping, unordered.
func (s *Storage) ListURLs(ctx context.Context) ([]model.URL, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]model.URL, 0, len(s.urls))
	for _, u := range s.urls {
		result = append(result, u)
	}

	return result, nil
}

// ListURLsByOwner returns all mappings owned by the given account.
func (s *Storage) ListURLsByOwner(ctx context.Context, ownerID string) ([]model.URL, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ids := s.ownerIndex[ownerID]
	result := make([]model.URL, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.urls[id])
	}

	return result, nil
}

// CountURLsByOwner returns the number of mappings owned by the given account.
func (s *Storage) CountURLsByOwner(ctx context.Context, ownerID string) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.ownerIndex[ownerID]), nil
}

// CreateAccount stores a new account, rejecting duplicate usernames.
func (s *Storage) CreateAccount(ctx context.Context, a model.Account) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.byUsername[a.Username]; exists {
		return storage.ErrAccountExists
	}
	if _, exists := s.accounts[a.UserID]; exists {
		return storage.ErrAccountExists
	}

	s.accounts[a.UserID] = a
	s.byUsername[a.Username] = a.UserID
	return nil
}

// GetAccount retrieves an account by its user ID.
func (s *Storage) GetAccount(ctx context.Context, userID string) (model.Account, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	a, found := s.accounts[userID]
	if !found {
		return model.Account{}, storage.ErrNotFound
	}

	return a, nil
}

// GetAccountByUsername retrieves an account by username.
func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (model.Account, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	userID, found := s.byUsername[username]
	if !found {
		return model.Account{}, storage.ErrNotFound
	}

	return s.accounts[userID], nil
}

// UpdateURLLimit persists a new URL limit on the account.
func (s *Storage) UpdateURLLimit(ctx context.Context, userID string, limit int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	a, found := s.accounts[userID]
	if !found {
		return storage.ErrNotFound
	}

	a.URLLimit = limit
	s.accounts[userID] = a
	return nil
}

// UpdatePassword persists a new password hash on the account.
func (s *Storage) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	a, found := s.accounts[userID]
	if !found {
		return storage.ErrNotFound
	}

	a.PasswordHash = passwordHash
	s.accounts[userID] = a
	return nil
}

// Ping reports storage health; the in-memory implementation is always up.
func (s *Storage) Ping(ctx context.Context) error {
	return nil
}
