package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/avolkov/url-shortener/internal/model"
	"github.com/avolkov/url-shortener/internal/storage"
)

// Storage implements the URL and account ports on top of Postgres. The
// conditional write maps onto the primary key constraint: an insert that
// hits a unique violation is reported as storage.ErrShortIDExists.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage connects to the database and ensures the schema exists.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	if dsn == "" {
		return nil, errors.New("database connection string is empty")
	}

	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	s := &Storage{pool: pool}

	if err := s.createTables(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS urls (
			short_id VARCHAR(50) PRIMARY KEY,
			original_url TEXT NOT NULL,
			owner_id VARCHAR(64) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_urls_owner_id ON urls(owner_id);`,
		`CREATE TABLE IF NOT EXISTS accounts (
			user_id VARCHAR(64) PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			url_limit INTEGER NOT NULL DEFAULT 3,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			disabled BOOLEAN NOT NULL DEFAULT FALSE
		);`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return classify(err)
		}
	}

	return nil
}

// classify maps driver errors onto the storage sentinels. A unique violation
// is a naming conflict; connection-class failures are infrastructural and
// must never be mistaken for one.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UniqueViolation {
			return storage.ErrShortIDExists
		}
		if pgerrcode.IsConnectionException(pgErr.Code) {
			return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return err
}

// PutURLIfAbsent inserts a mapping, relying on the primary key for
// atomicity. No prior existence check is performed.
func (s *Storage) PutURLIfAbsent(ctx context.Context, u model.URL) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO urls (short_id, original_url, owner_id) VALUES ($1, $2, $3)",
		u.ShortID, u.OriginalURL, u.OwnerID)
	if err != nil {
		return classify(err)
	}

	return nil
}

// GetURL retrieves the mapping for a given short ID.
func (s *Storage) GetURL(ctx context.Context, shortID string) (model.URL, error) {
	var u model.URL
	err := s.pool.QueryRow(ctx,
		"SELECT short_id, original_url, owner_id FROM urls WHERE short_id = $1",
		shortID).Scan(&u.ShortID, &u.OriginalURL, &u.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.URL{}, storage.ErrNotFound
		}
		return model.URL{}, classify(err)
	}

	return u, nil
}

// ListURLs returns every stored mapping.
func (s *Storage) ListURLs(ctx context.Context) ([]model.URL, error) {
	rows, err := s.pool.Query(ctx, "SELECT short_id, original_url, owner_id FROM urls")
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	return scanURLs(rows)
}

// ListURLsByOwner returns all mappings owned by the given account via the
// owner index.
func (s *Storage) ListURLsByOwner(ctx context.Context, ownerID string) ([]model.URL, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT short_id, original_url, owner_id FROM urls WHERE owner_id = $1", ownerID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	return scanURLs(rows)
}

func scanURLs(rows pgx.Rows) ([]model.URL, error) {
	var result []model.URL
	for rows.Next() {
		var u model.URL
		if err := rows.Scan(&u.ShortID, &u.OriginalURL, &u.OwnerID); err != nil {
			return nil, classify(err)
		}
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}

	return result, nil
}

// CountURLsByOwner returns the number of mappings owned by the given account.
func (s *Storage) CountURLsByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM urls WHERE owner_id = $1", ownerID).Scan(&count)
	if err != nil {
		return 0, classify(err)
	}

	return count, nil
}

// CreateAccount inserts a new account, rejecting duplicate usernames.
func (s *Storage) CreateAccount(ctx context.Context, a model.Account) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (user_id, username, password_hash, url_limit, is_admin, disabled)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.UserID, a.Username, a.PasswordHash, a.URLLimit, a.IsAdmin, a.Disabled)
	if err != nil {
		err = classify(err)
		if errors.Is(err, storage.ErrShortIDExists) {
			return storage.ErrAccountExists
		}
		return err
	}

	return nil
}

// GetAccount retrieves an account by its user ID.
func (s *Storage) GetAccount(ctx context.Context, userID string) (model.Account, error) {
	return s.getAccount(ctx, "user_id", userID)
}

// GetAccountByUsername retrieves an account by username.
func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (model.Account, error) {
	return s.getAccount(ctx, "username", username)
}

func (s *Storage) getAccount(ctx context.Context, column, value string) (model.Account, error) {
	var a model.Account
	query := fmt.Sprintf(
		"SELECT user_id, username, password_hash, url_limit, is_admin, disabled FROM accounts WHERE %s = $1",
		column)
	err := s.pool.QueryRow(ctx, query, value).Scan(
		&a.UserID, &a.Username, &a.PasswordHash, &a.URLLimit, &a.IsAdmin, &a.Disabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, storage.ErrNotFound
		}
		return model.Account{}, classify(err)
	}

	return a, nil
}

// UpdateURLLimit persists a new URL limit on the account.
func (s *Storage) UpdateURLLimit(ctx context.Context, userID string, limit int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE accounts SET url_limit = $1 WHERE user_id = $2", limit, userID)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// UpdatePassword persists a new password hash on the account.
func (s *Storage) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE accounts SET password_hash = $1 WHERE user_id = $2", passwordHash, userID)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// Ping reports database health.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
