package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-ledger-backend/internal/authz"
	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/repository"
)

func TestWithConflictRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("SucceedsAfterConflicts", func(t *testing.T) {
		calls := 0
		err := withConflictRetry(ctx, func() error {
			calls++
			if calls < 3 {
				return domain.Conflict("asset lot", 1)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("GivesUpAfterThreeConflicts", func(t *testing.T) {
		calls := 0
		err := withConflictRetry(ctx, func() error {
			calls++
			return domain.Conflict("asset lot", 1)
		})
		assert.True(t, domain.IsCode(err, domain.ErrCodeConflict))
		assert.Equal(t, 3, calls)
	})

	t.Run("NonConflictReturnsImmediately", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := withConflictRetry(ctx, func() error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("CancelledContextStopsRetrying", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		calls := 0
		err := withConflictRetry(cancelled, func() error {
			calls++
			return domain.Conflict("asset lot", 1)
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

// conflictingStore wraps a Store and fails the next n asset CAS updates with
// a conflict before letting them through, to simulate losing the version race.
type conflictingStore struct {
	repository.Store
	remaining *int
}

func (s conflictingStore) Assets() repository.AssetRepository {
	return conflictingAssets{AssetRepository: s.Store.Assets(), remaining: s.remaining}
}

func (s conflictingStore) WithinTransaction(ctx context.Context, fn func(repository.Store) error) error {
	return s.Store.WithinTransaction(ctx, func(st repository.Store) error {
		return fn(conflictingStore{Store: st, remaining: s.remaining})
	})
}

type conflictingAssets struct {
	repository.AssetRepository
	remaining *int
}

func (a conflictingAssets) CASUpdate(ctx context.Context, lot *domain.AssetLot) error {
	if *a.remaining > 0 {
		*a.remaining--
		return domain.Conflict("asset lot", lot.ID)
	}
	return a.AssetRepository.CASUpdate(ctx, lot)
}

func TestTransferInitiateRetriesLostRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	src := env.deliverLot(t, env.base1, 10)

	remaining := 1
	flaky := conflictingStore{Store: env.store, remaining: &remaining}
	transfers := NewTransferService(flaky, authz.NewGate(), nil)

	// The first attempt loses the version race; the retry goes through and
	// the reservation lands exactly once.
	tr, err := transfers.Initiate(ctx, env.admin, InitiateTransferInput{
		AssetLotID: src.ID, DestBaseID: env.base2, Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusInitiated, tr.Status)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, int64(6), env.lot(t, src.ID).Quantity)

	t.Run("PersistentConflictSurfaces", func(t *testing.T) {
		remaining = 100
		_, err := transfers.Initiate(ctx, env.admin, InitiateTransferInput{
			AssetLotID: src.ID, DestBaseID: env.base2, Quantity: 1,
		})
		assert.True(t, domain.IsCode(err, domain.ErrCodeConflict))
		assert.Equal(t, 97, remaining, "exactly three attempts before giving up")
	})
}

var _ repository.Store = conflictingStore{}
