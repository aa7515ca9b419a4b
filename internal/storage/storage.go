package storage

import (
	"context"
	"errors"

	"github.com/avolkov/url-shortener/internal/model"
)

// Sentinel errors returned by storage implementations. Callers classify
// failures with errors.Is instead of inspecting error text.
var (
	// ErrShortIDExists signals a failed conditional write: the short ID is
	// already bound. This is the only retryable condition for generated IDs.
	ErrShortIDExists = errors.New("short ID already exists")

	// ErrNotFound signals that the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAccountExists signals a username that is already registered.
	ErrAccountExists = errors.New("account already exists")

	// ErrUnavailable signals a transient infrastructural failure. It must
	// never be confused with a naming conflict.
	ErrUnavailable = errors.New("storage unavailable")
)

// URLStorage is the port for short URL mappings. PutURLIfAbsent is the only
// write path and must be atomic: implementations may not emulate it with a
// read followed by an unconditional write.
type URLStorage interface {
	PutURLIfAbsent(ctx context.Context, u model.URL) error

	GetURL(ctx context.Context, shortID string) (model.URL, error)

	ListURLs(ctx context.Context) ([]model.URL, error)

	ListURLsByOwner(ctx context.Context, ownerID string) ([]model.URL, error)

	CountURLsByOwner(ctx context.Context, ownerID string) (int, error)
}

// AccountStorage is the port for user accounts.
type AccountStorage interface {
	CreateAccount(ctx context.Context, a model.Account) error

	GetAccount(ctx context.Context, userID string) (model.Account, error)

	GetAccountByUsername(ctx context.Context, username string) (model.Account, error)

	UpdateURLLimit(ctx context.Context, userID string, limit int) error

	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
}
