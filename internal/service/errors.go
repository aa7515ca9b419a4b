package service

import (
	"errors"
	"fmt"
)

// Business-rule rejections are terminal and never retried internally.
// Infrastructural failures propagate as storage.ErrUnavailable or the
// original error, never remapped onto one of these.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInvalidLimit        = errors.New("invalid limit")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrShortIDTaken        = errors.New("short ID taken")
	ErrAllocationExhausted = errors.New("allocation attempts exhausted")
	ErrInvalidURL          = errors.New("invalid URL")
	ErrInvalidShortID      = errors.New("invalid short ID")
)

// QuotaExceededError carries the count and limit that caused the rejection,
// so clients can decide whether to wait or contact an administrator.
// It matches ErrQuotaExceeded under errors.Is.
type QuotaExceededError struct {
	Limit int
	Count int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: %d of %d URLs used", e.Count, e.Limit)
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrQuotaExceeded
}

// ShortIDTakenError names the conflicting identifier. It matches
// ErrShortIDTaken under errors.Is.
type ShortIDTakenError struct {
	ShortID string
}

func (e *ShortIDTakenError) Error() string {
	return fmt.Sprintf("short ID %q is already taken", e.ShortID)
}

func (e *ShortIDTakenError) Unwrap() error {
	return ErrShortIDTaken
}

// InvalidLimitError reports a limit change rejected because it falls below
// the account's current usage. It matches ErrInvalidLimit under errors.Is.
type InvalidLimitError struct {
	Requested int
	Current   int
}

func (e *InvalidLimitError) Error() string {
	return fmt.Sprintf("requested limit %d is below current usage %d", e.Requested, e.Current)
}

func (e *InvalidLimitError) Unwrap() error {
	return ErrInvalidLimit
}
