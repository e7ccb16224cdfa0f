package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"travelbooking/pkg/apperror"
	"travelbooking/pkg/cache"
)

const attemptPrefix = "booking:attempt:"

func attemptKey(id string) string {
	return attemptPrefix + id
}

func confirmGuardKey(id string) string {
	return attemptPrefix + id + ":confirm"
}

// AttemptStore keeps attempts in the cache. Finished attempts are kept for a
// shorter time so late callbacks still see the outcome.
type AttemptStore struct {
	cache       cache.Cache
	ttl         time.Duration
	terminalTTL time.Duration
}

func NewAttemptStore(c cache.Cache, ttl, terminalTTL time.Duration) *AttemptStore {
	if terminalTTL <= 0 || terminalTTL > ttl {
		terminalTTL = ttl
	}
	return &AttemptStore{cache: c, ttl: ttl, terminalTTL: terminalTTL}
}

func (s *AttemptStore) Save(ctx context.Context, a *Attempt) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("booking: marshal attempt: %w", err)
	}
	ttl := s.ttl
	if a.State.Final() {
		ttl = s.terminalTTL
	}
	if err := s.cache.Set(ctx, attemptKey(a.ID), string(raw), ttl); err != nil {
		return fmt.Errorf("booking: save attempt %s: %w", a.ID, err)
	}
	return nil
}

func (s *AttemptStore) Load(ctx context.Context, id string) (*Attempt, error) {
	raw, err := s.cache.Get(ctx, attemptKey(id))
	if errors.Is(err, cache.ErrMiss) {
		return nil, apperror.NotFound("booking attempt not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("booking: load attempt %s: %w", id, err)
	}

	var a Attempt
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("booking: decode attempt %s: %w", id, err)
	}
	return &a, nil
}

// ClaimConfirmation consumes the one-shot confirmation token for the
// attempt. Only the first caller gets true.
func (s *AttemptStore) ClaimConfirmation(ctx context.Context, id string) (bool, error) {
	ok, err := s.cache.SetNX(ctx, confirmGuardKey(id), time.Now().UTC().Format(time.RFC3339Nano), s.ttl)
	if err != nil {
		return false, fmt.Errorf("booking: claim confirmation %s: %w", id, err)
	}
	return ok, nil
}

// ReleaseConfirmation hands the token back. Only valid before an order was
// requested.
func (s *AttemptStore) ReleaseConfirmation(ctx context.Context, id string) error {
	if err := s.cache.Del(ctx, confirmGuardKey(id)); err != nil {
		return fmt.Errorf("booking: release confirmation %s: %w", id, err)
	}
	return nil
}
