package service

import (
	"context"
	"time"

	"asset-ledger-backend/internal/domain"
)

const casAttempts = 3

// withConflictRetry re-runs fn on optimistic-concurrency conflicts, with a
// short linear backoff. Conflict is the only retryable error class; anything
// else returns immediately. The last conflict is surfaced to the caller when
// all attempts lose the race.
func withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < casAttempts; attempt++ {
		err = fn()
		if !domain.IsCode(err, domain.ErrCodeConflict) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 20 * time.Millisecond):
		}
	}
	return err
}
