package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/avolkov/url-shortener/internal/generator"
	"github.com/avolkov/url-shortener/internal/model"
	"github.com/avolkov/url-shortener/internal/storage"
)

// maxGenerateAttempts bounds the retry budget for generated identifiers.
// Custom identifiers get exactly one attempt.
const maxGenerateAttempts = 5

// AllocationEvent describes one finished allocation for the asynchronous
// event recorder.
type AllocationEvent struct {
	ShortID  string
	OwnerID  string
	Attempts int
	Custom   bool
	Outcome  string
}

// Allocation outcomes reported to the recorder.
const (
	OutcomeBound     = "bound"
	OutcomeConflict  = "conflict"
	OutcomeExhausted = "exhausted"
)

// AllocationRecorder receives allocation events off the hot path. Record
// must not block.
type AllocationRecorder interface {
	Record(e AllocationEvent)
}

// Allocator binds target URLs to short identifiers. Uniqueness is delegated
// entirely to the store's conditional write; the allocator never checks for
// existence before writing.
type Allocator struct {
	urls     storage.URLStorage
	recorder AllocationRecorder
}

// NewAllocator constructs an Allocator. The recorder may be nil.
func NewAllocator(urls storage.URLStorage, recorder AllocationRecorder) *Allocator {
	return &Allocator{
		urls:     urls,
		recorder: recorder,
	}
}

// AllocateCustom binds a caller-chosen identifier with a single conditional
// write. A conflict fails with ShortIDTakenError: the caller picked this
// name, so substituting a generated one would violate intent.
func (a *Allocator) AllocateCustom(ctx context.Context, targetURL, desiredShortID, ownerID string) (model.URL, error) {
	if err := validateTargetURL(targetURL); err != nil {
		return model.URL{}, err
	}
	if desiredShortID == "" || len(desiredShortID) > model.MaxShortIDLength {
		return model.URL{}, ErrInvalidShortID
	}

	mapping := model.URL{
		ShortID:     desiredShortID,
		OriginalURL: targetURL,
		OwnerID:     ownerID,
	}

	if err := a.urls.PutURLIfAbsent(ctx, mapping); err != nil {
		if errors.Is(err, storage.ErrShortIDExists) {
			a.record(AllocationEvent{
				ShortID: desiredShortID, OwnerID: ownerID,
				Attempts: 1, Custom: true, Outcome: OutcomeConflict,
			})
			return model.URL{}, &ShortIDTakenError{ShortID: desiredShortID}
		}
		return model.URL{}, fmt.Errorf("failed to store mapping: %w", err)
	}

	log.Info().
		Str("shortID", desiredShortID).
		Str("ownerID", ownerID).
		Msg("Custom short URL created")

	a.record(AllocationEvent{
		ShortID: desiredShortID, OwnerID: ownerID,
		Attempts: 1, Custom: true, Outcome: OutcomeBound,
	})

	return mapping, nil
}

// AllocateGenerated binds a generated identifier, drawing a fresh candidate
// after every collision. Only collisions consume retry budget; any other
// store failure aborts immediately.
func (a *Allocator) AllocateGenerated(ctx context.Context, targetURL, ownerID string) (model.URL, error) {
	if err := validateTargetURL(targetURL); err != nil {
		return model.URL{}, err
	}

	var mapping model.URL
	attempts := 0

	err := withAttempts(maxGenerateAttempts, isCollision, func() error {
		attempts++
		candidate := model.URL{
			ShortID:     generator.NewShortID(),
			OriginalURL: targetURL,
			OwnerID:     ownerID,
		}

		if err := a.urls.PutURLIfAbsent(ctx, candidate); err != nil {
			if errors.Is(err, storage.ErrShortIDExists) {
				log.Warn().
					Str("shortID", candidate.ShortID).
					Int("attempt", attempts).
					Msg("Generated short ID collided")
			}
			return err
		}

		mapping = candidate
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrShortIDExists) {
			a.record(AllocationEvent{
				OwnerID: ownerID, Attempts: attempts, Outcome: OutcomeExhausted,
			})
			return model.URL{}, ErrAllocationExhausted
		}
		return model.URL{}, fmt.Errorf("failed to store mapping: %w", err)
	}

	log.Info().
		Str("shortID", mapping.ShortID).
		Str("ownerID", ownerID).
		Int("attempts", attempts).
		Msg("Generated short URL created")

	a.record(AllocationEvent{
		ShortID: mapping.ShortID, OwnerID: ownerID,
		Attempts: attempts, Outcome: OutcomeBound,
	})

	return mapping, nil
}

func (a *Allocator) record(e AllocationEvent) {
	if a.recorder != nil {
		a.recorder.Record(e)
	}
}

func isCollision(err error) bool {
	return errors.Is(err, storage.ErrShortIDExists)
}

func validateTargetURL(targetURL string) error {
	if targetURL == "" || len(targetURL) > model.MaxOriginalURLLength {
		return ErrInvalidURL
	}

	parsed, err := url.Parse(targetURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ErrInvalidURL
	}

	return nil
}
