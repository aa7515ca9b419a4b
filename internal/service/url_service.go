package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/avolkov/url-shortener/internal/model"
	"github.com/avolkov/url-shortener/internal/storage"
)

// URLService is the boundary the request-handling layer talks to. It runs
// the quota check before every allocation; a rejected request never reaches
// the allocator.
type URLService struct {
	urls      storage.URLStorage
	accounts  storage.AccountStorage
	quota     *QuotaGuard
	allocator *Allocator
	baseURL   string
}

// NewURLService constructs a URLService over the given stores.
func NewURLService(urls storage.URLStorage, accounts storage.AccountStorage, quota *QuotaGuard, allocator *Allocator, baseURL string) *URLService {
	return &URLService{
		urls:      urls,
		accounts:  accounts,
		quota:     quota,
		allocator: allocator,
		baseURL:   baseURL,
	}
}

// CreateShortURL allocates a mapping for the owner. With a non-empty
// customShortID the identifier is bound as-is in a single attempt; otherwise
// identifiers are generated and retried under the allocator's budget.
func (s *URLService) CreateShortURL(ctx context.Context, ownerID, targetURL, customShortID string) (model.URL, error) {
	status, err := s.quota.CheckQuota(ctx, ownerID)
	if err != nil {
		return model.URL{}, err
	}

	if !status.Allowed {
		return model.URL{}, &QuotaExceededError{Limit: status.Limit, Count: status.Count}
	}

	if customShortID != "" {
		return s.allocator.AllocateCustom(ctx, targetURL, customShortID, ownerID)
	}

	return s.allocator.AllocateGenerated(ctx, targetURL, ownerID)
}

// ResolveShortURL returns the original URL bound to a short ID.
func (s *URLService) ResolveShortURL(ctx context.Context, shortID string) (string, error) {
	mapping, err := s.urls.GetURL(ctx, shortID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve %s: %w", shortID, err)
	}

	return mapping.OriginalURL, nil
}

// CheckQuota exposes the quota guard's decision for the account.
func (s *URLService) CheckQuota(ctx context.Context, userID string) (model.QuotaStatus, error) {
	return s.quota.CheckQuota(ctx, userID)
}

// AdjustURLLimit changes the target account's quota on behalf of an admin.
func (s *URLService) AdjustURLLimit(ctx context.Context, adminID, targetUserID string, newLimit int) error {
	return s.quota.AdjustLimit(ctx, adminID, targetUserID, newLimit)
}

// ListUserURLs returns all mappings owned by the account, with absolute
// short URLs.
func (s *URLService) ListUserURLs(ctx context.Context, userID string) ([]model.UserURL, error) {
	urls, err := s.urls.ListURLsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs for %s: %w", userID, err)
	}

	return s.toUserURLs(urls), nil
}

// ListAllURLs returns every mapping in the system. Restricted to admins.
func (s *URLService) ListAllURLs(ctx context.Context, adminID string) ([]model.UserURL, error) {
	admin, err := s.accounts.GetAccount(ctx, adminID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account %s: %w", adminID, err)
	}

	if !admin.IsAdmin {
		return nil, ErrPermissionDenied
	}

	urls, err := s.urls.ListURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}

	return s.toUserURLs(urls), nil
}

// ShortURL renders the absolute short URL for an identifier.
func (s *URLService) ShortURL(shortID string) string {
	shortURL, err := url.JoinPath(s.baseURL, shortID)
	if err != nil {
		return s.baseURL + "/" + shortID
	}
	return shortURL
}

func (s *URLService) toUserURLs(urls []model.URL) []model.UserURL {
	result := make([]model.UserURL, 0, len(urls))
	for _, u := range urls {
		result = append(result, model.UserURL{
			ShortURL:    s.ShortURL(u.ShortID),
			OriginalURL: u.OriginalURL,
		})
	}

	return result
}
