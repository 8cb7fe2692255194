package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-ledger-backend/internal/domain"
)

func TestAssignmentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lot := env.deliverLot(t, env.base1, 6)

	due := time.Now().Add(72 * time.Hour)
	a, err := env.assignments.Create(ctx, env.commander1, CreateAssignmentInput{
		AssetLotID:         lot.ID,
		AssignedToID:       501,
		ExpectedReturnDate: &due,
		Purpose:            "field exercise",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentStatusActive, a.Status)
	assert.Equal(t, env.base1, a.BaseID)

	// The lot is held by the assignment, quantity untouched.
	held := env.lot(t, lot.ID)
	assert.Equal(t, domain.AssetStatusAssigned, held.Status)
	assert.Equal(t, int64(6), held.Quantity)

	t.Run("AssignedLotCannotBeReassigned", func(t *testing.T) {
		_, err := env.assignments.Create(ctx, env.commander1, CreateAssignmentInput{
			AssetLotID:   lot.ID,
			AssignedToID: 502,
		})
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidStateTransition))
	})

	t.Run("AssignedLotCannotBeTransferred", func(t *testing.T) {
		_, err := env.transfers.Initiate(ctx, env.admin, InitiateTransferInput{
			AssetLotID: lot.ID, DestBaseID: env.base2, Quantity: 1,
		})
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidStateTransition))
	})

	returned, err := env.assignments.Return(ctx, env.commander1, a.ID, domain.AssetConditionFair)
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentStatusReturned, returned.Status)
	assert.Equal(t, domain.AssetConditionFair, returned.ReturnCondition)

	freed := env.lot(t, lot.ID)
	assert.Equal(t, domain.AssetStatusAvailable, freed.Status)
	assert.Equal(t, domain.AssetConditionFair, freed.Condition)
	assert.Equal(t, int64(6), freed.Quantity)

	t.Run("DoubleReturnRejected", func(t *testing.T) {
		_, err := env.assignments.Return(ctx, env.commander1, a.ID, domain.AssetConditionGood)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidStateTransition))
	})
}

func TestAssignmentReturnConditionValidated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lot := env.deliverLot(t, env.base1, 1)

	a, err := env.assignments.Create(ctx, env.admin, CreateAssignmentInput{
		AssetLotID:   lot.ID,
		AssignedToID: 501,
	})
	require.NoError(t, err)

	_, err = env.assignments.Return(ctx, env.admin, a.ID, domain.AssetCondition("PRISTINE"))
	assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
}

func TestAssignmentLostIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lot := env.deliverLot(t, env.base1, 4)

	a, err := env.assignments.Create(ctx, env.commander1, CreateAssignmentInput{
		AssetLotID:   lot.ID,
		AssignedToID: 501,
	})
	require.NoError(t, err)

	closed, err := env.assignments.MarkLostOrDamaged(ctx, env.commander1, a.ID, domain.AssignmentStatusLost, "lost on patrol")
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentStatusLost, closed.Status)
	assert.Equal(t, "lost on patrol", closed.Notes)

	// The lot leaves inventory for good.
	gone := env.lot(t, lot.ID)
	assert.Equal(t, domain.AssetStatusExpended, gone.Status)
	assert.Equal(t, int64(0), gone.Quantity)
	assert.Equal(t, domain.AssetConditionUnserviceable, gone.Condition)

	// A lost assignment cannot later be returned.
	_, err = env.assignments.Return(ctx, env.commander1, a.ID, domain.AssetConditionGood)
	assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidStateTransition))
}

func TestAssignmentWriteOffStatusValidated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lot := env.deliverLot(t, env.base1, 1)

	a, err := env.assignments.Create(ctx, env.admin, CreateAssignmentInput{
		AssetLotID:   lot.ID,
		AssignedToID: 501,
	})
	require.NoError(t, err)

	_, err = env.assignments.MarkLostOrDamaged(ctx, env.admin, a.ID, domain.AssignmentStatusReturned, "")
	assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
}

func TestAssignmentForeignCommanderForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lot := env.deliverLot(t, env.base1, 2)

	_, err := env.assignments.Create(ctx, env.commander2, CreateAssignmentInput{
		AssetLotID:   lot.ID,
		AssignedToID: 501,
	})
	assert.True(t, domain.IsCode(err, domain.ErrCodeForbidden))
	assert.Equal(t, domain.AssetStatusAvailable, env.lot(t, lot.ID).Status)
}
