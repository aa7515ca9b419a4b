package service

import (
	"context"
	"testing"

	"github.com/avolkov/url-shortener/internal/model"
	"github.com/avolkov/url-shortener/internal/storage/memory"
)

// newMemoryFixture returns an in-memory store pre-seeded with accounts.
func newMemoryFixture(t *testing.T, accounts ...model.Account) *memory.Storage {
	t.Helper()

	store := memory.NewStorage()
	for _, a := range accounts {
		if err := store.CreateAccount(context.Background(), a); err != nil {
			t.Fatalf("failed to seed account %s: %v", a.UserID, err)
		}
	}

	return store
}

type mockURLStorage struct {
	putURLIfAbsentFunc   func(ctx context.Context, u model.URL) error
	getURLFunc           func(ctx context.Context, shortID string) (model.URL, error)
	listURLsFunc         func(ctx context.Context) ([]model.URL, error)
	listURLsByOwnerFunc  func(ctx context.Context, ownerID string) ([]model.URL, error)
	countURLsByOwnerFunc func(ctx context.Context, ownerID string) (int, error)
}

func (m *mockURLStorage) PutURLIfAbsent(ctx context.Context, u model.URL) error {
	return m.putURLIfAbsentFunc(ctx, u)
}

func (m *mockURLStorage) GetURL(ctx context.Context, shortID string) (model.URL, error) {
	if m.getURLFunc != nil {
		return m.getURLFunc(ctx, shortID)
	}
	return model.URL{}, nil
}

func (m *mockURLStorage) ListURLs(ctx context.Context) ([]model.URL, error) {
	if m.listURLsFunc != nil {
		return m.listURLsFunc(ctx)
	}
	return nil, nil
}

func (m *mockURLStorage) ListURLsByOwner(ctx context.Context, ownerID string) ([]model.URL, error) {
	if m.listURLsByOwnerFunc != nil {
		return m.listURLsByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockURLStorage) CountURLsByOwner(ctx context.Context, ownerID string) (int, error) {
	if m.countURLsByOwnerFunc != nil {
		return m.countURLsByOwnerFunc(ctx, ownerID)
	}
	return 0, nil
}

type mockAccountStorage struct {
	createAccountFunc        func(ctx context.Context, a model.Account) error
	getAccountFunc           func(ctx context.Context, userID string) (model.Account, error)
	getAccountByUsernameFunc func(ctx context.Context, username string) (model.Account, error)
	updateURLLimitFunc       func(ctx context.Context, userID string, limit int) error
	updatePasswordFunc       func(ctx context.Context, userID string, passwordHash string) error
}

func (m *mockAccountStorage) CreateAccount(ctx context.Context, a model.Account) error {
	if m.createAccountFunc != nil {
		return m.createAccountFunc(ctx, a)
	}
	return nil
}

func (m *mockAccountStorage) GetAccount(ctx context.Context, userID string) (model.Account, error) {
	return m.getAccountFunc(ctx, userID)
}

func (m *mockAccountStorage) GetAccountByUsername(ctx context.Context, username string) (model.Account, error) {
	if m.getAccountByUsernameFunc != nil {
		return m.getAccountByUsernameFunc(ctx, username)
	}
	return model.Account{}, nil
}

func (m *mockAccountStorage) UpdateURLLimit(ctx context.Context, userID string, limit int) error {
	if m.updateURLLimitFunc != nil {
		return m.updateURLLimitFunc(ctx, userID, limit)
	}
	return nil
}

func (m *mockAccountStorage) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, userID, passwordHash)
	}
	return nil
}
