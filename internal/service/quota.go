package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/avolkov/url-shortener/internal/model"
	"github.com/avolkov/url-shortener/internal/storage"
)

// QuotaGuard decides whether an account may own one more short URL. It is
// read-only on the allocation path; the count and the limit are read in two
// separate store calls, so two concurrent requests from the same account can
// both pass against a stale count. That overshoot window is accepted.
type QuotaGuard struct {
	accounts storage.AccountStorage
	urls     storage.URLStorage
}

// NewQuotaGuard constructs a QuotaGuard over the given stores.
func NewQuotaGuard(accounts storage.AccountStorage, urls storage.URLStorage) *QuotaGuard {
	return &QuotaGuard{
		accounts: accounts,
		urls:     urls,
	}
}

// CheckQuota reports whether the account may create another mapping, along
// with its limit and current usage. Store failures propagate as-is and are
// never reported as an exceeded quota.
func (g *QuotaGuard) CheckQuota(ctx context.Context, userID string) (model.QuotaStatus, error) {
	account, err := g.accounts.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.QuotaStatus{}, ErrAccountNotFound
		}
		return model.QuotaStatus{}, fmt.Errorf("failed to get account %s: %w", userID, err)
	}

	count, err := g.urls.CountURLsByOwner(ctx, userID)
	if err != nil {
		return model.QuotaStatus{}, fmt.Errorf("failed to count URLs for %s: %w", userID, err)
	}

	return model.QuotaStatus{
		Allowed: count < account.URLLimit,
		Limit:   account.URLLimit,
		Count:   count,
	}, nil
}

// AdjustLimit sets a new URL limit on the target account. The caller must be
// an administrator and the new limit must not fall below the target's
// current usage; the count is read before the write on purpose.
func (g *QuotaGuard) AdjustLimit(ctx context.Context, adminID, targetUserID string, newLimit int) error {
	admin, err := g.accounts.GetAccount(ctx, adminID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to get account %s: %w", adminID, err)
	}

	if !admin.IsAdmin {
		return ErrPermissionDenied
	}

	if _, err := g.accounts.GetAccount(ctx, targetUserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to get account %s: %w", targetUserID, err)
	}

	count, err := g.urls.CountURLsByOwner(ctx, targetUserID)
	if err != nil {
		return fmt.Errorf("failed to count URLs for %s: %w", targetUserID, err)
	}

	if newLimit < 0 || newLimit < count {
		return &InvalidLimitError{Requested: newLimit, Current: count}
	}

	if err := g.accounts.UpdateURLLimit(ctx, targetUserID, newLimit); err != nil {
		return fmt.Errorf("failed to update limit for %s: %w", targetUserID, err)
	}

	log.Info().
		Str("adminID", adminID).
		Str("userID", targetUserID).
		Int("newLimit", newLimit).
		Msg("URL limit updated")

	return nil
}
