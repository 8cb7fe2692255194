package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/repository"
)

// totalQuantity sums every non-expended lot across both bases so tests can
// assert quantity conservation around transfers.
func (env *testEnv) totalQuantity(t *testing.T) int64 {
	t.Helper()
	lots, err := env.store.Assets().List(context.Background(), repository.AssetFilter{})
	require.NoError(t, err)
	var total int64
	for _, lot := range lots {
		total += lot.Quantity
	}
	return total
}

func TestTransferLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 10 radios arrive at base1.
	src := env.deliverLot(t, env.base1, 10)
	require.Equal(t, int64(10), env.totalQuantity(t))

	// Initiation reserves 4 units out of the source lot.
	tr, err := env.transfers.Initiate(ctx, env.commander1, InitiateTransferInput{
		AssetLotID: src.ID,
		DestBaseID: env.base2,
		Quantity:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusInitiated, tr.Status)
	assert.Equal(t, env.base1, tr.SourceBaseID)
	assert.Equal(t, src.Condition, tr.Condition)
	assert.Equal(t, int64(6), env.lot(t, src.ID).Quantity)

	// Approval moves the record only, no quantity change.
	tr, err = env.transfers.Approve(ctx, env.logistics, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusInTransit, tr.Status)
	require.NotNil(t, tr.ApprovedBy)
	assert.Equal(t, int64(6), env.lot(t, src.ID).Quantity)

	// Completion books the 4 units into base2.
	tr, err = env.transfers.Complete(ctx, env.commander2, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusCompleted, tr.Status)

	destLots, err := env.store.Assets().List(ctx, repository.AssetFilter{BaseID: &env.base2})
	require.NoError(t, err)
	require.Len(t, destLots, 1)
	assert.Equal(t, int64(4), destLots[0].Quantity)
	assert.Equal(t, src.Condition, destLots[0].Condition)
	assert.Equal(t, domain.AssetStatusAvailable, destLots[0].Status)

	// 6 + 4 = 10: nothing created or destroyed.
	assert.Equal(t, int64(10), env.totalQuantity(t))

	t.Run("CompletedTransferIsClosed", func(t *testing.T) {
		_, err := env.transfers.Complete(ctx, env.admin, tr.ID)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidStateTransition))
		_, err = env.transfers.Cancel(ctx, env.admin, tr.ID, "")
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidStateTransition))
	})
}

func TestTransferInitiateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	src := env.deliverLot(t, env.base1, 10)

	t.Run("InsufficientQuantity", func(t *testing.T) {
		_, err := env.transfers.Initiate(ctx, env.admin, InitiateTransferInput{
			AssetLotID: src.ID, DestBaseID: env.base2, Quantity: 11,
		})
		assert.True(t, domain.IsCode(err, domain.ErrCodeInsufficientQuantity))
		assert.Equal(t, int64(10), env.lot(t, src.ID).Quantity, "failed initiation reserves nothing")
	})

	t.Run("SameBase", func(t *testing.T) {
		_, err := env.transfers.Initiate(ctx, env.admin, InitiateTransferInput{
			AssetLotID: src.ID, DestBaseID: env.base1, Quantity: 1,
		})
		assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
	})

	t.Run("UnknownLot", func(t *testing.T) {
		_, err := env.transfers.Initiate(ctx, env.admin, InitiateTransferInput{
			AssetLotID: 9999, DestBaseID: env.base2, Quantity: 1,
		})
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidReference))
	})

	t.Run("UnknownDestBase", func(t *testing.T) {
		_, err := env.transfers.Initiate(ctx, env.admin, InitiateTransferInput{
			AssetLotID: src.ID, DestBaseID: 9999, Quantity: 1,
		})
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidReference))
	})

	t.Run("ForeignCommanderForbidden", func(t *testing.T) {
		// commander2 holds neither end of a base1 -> base3 transfer.
		otherBase := &domain.Base{Name: "Fort Charlie", Location: "East"}
		require.NoError(t, env.store.Bases().Create(ctx, otherBase))

		_, err := env.transfers.Initiate(ctx, env.commander2, InitiateTransferInput{
			AssetLotID: src.ID, DestBaseID: otherBase.ID, Quantity: 1,
		})
		assert.True(t, domain.IsCode(err, domain.ErrCodeForbidden))
	})
}

func TestTransferCommanderCannotApprove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	src := env.deliverLot(t, env.base1, 5)

	tr, err := env.transfers.Initiate(ctx, env.commander1, InitiateTransferInput{
		AssetLotID: src.ID, DestBaseID: env.base2, Quantity: 2,
	})
	require.NoError(t, err)

	// Not even the initiating commander may approve.
	_, err = env.transfers.Approve(ctx, env.commander1, tr.ID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeForbidden))
	_, err = env.transfers.Approve(ctx, env.commander2, tr.ID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeForbidden))

	// Completion before approval is out of order.
	_, err = env.transfers.Complete(ctx, env.commander2, tr.ID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidStateTransition))
}

func TestTransferCompleteRequiresReceivingCommander(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	src := env.deliverLot(t, env.base1, 5)

	tr, err := env.transfers.Initiate(ctx, env.admin, InitiateTransferInput{
		AssetLotID: src.ID, DestBaseID: env.base2, Quantity: 2,
	})
	require.NoError(t, err)
	tr, err = env.transfers.Approve(ctx, env.admin, tr.ID)
	require.NoError(t, err)

	// The sending commander cannot confirm receipt at the other end.
	_, err = env.transfers.Complete(ctx, env.commander1, tr.ID)
	assert.True(t, domain.IsCode(err, domain.ErrCodeForbidden))

	_, err = env.transfers.Complete(ctx, env.commander2, tr.ID)
	require.NoError(t, err)
}

func TestTransferCancelRestoresReservation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	src := env.deliverLot(t, env.base1, 10)

	tr, err := env.transfers.Initiate(ctx, env.admin, InitiateTransferInput{
		AssetLotID: src.ID, DestBaseID: env.base2, Quantity: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), env.lot(t, src.ID).Quantity)

	cancelled, err := env.transfers.Cancel(ctx, env.commander1, tr.ID, "convoy rerouted")
	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusCancelled, cancelled.Status)
	assert.Equal(t, "convoy rerouted", cancelled.Notes)

	lot := env.lot(t, src.ID)
	assert.Equal(t, int64(10), lot.Quantity)
	assert.Equal(t, domain.AssetStatusAvailable, lot.Status)

	// Nothing arrived at the destination.
	destLots, err := env.store.Assets().List(ctx, repository.AssetFilter{BaseID: &env.base2})
	require.NoError(t, err)
	assert.Empty(t, destLots)
}

func TestTransferDrainingWholeLot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	src := env.deliverLot(t, env.base1, 5)

	tr, err := env.transfers.Initiate(ctx, env.admin, InitiateTransferInput{
		AssetLotID: src.ID, DestBaseID: env.base2, Quantity: 5,
	})
	require.NoError(t, err)

	// Mid-flight the source lot sits at zero but is not yet retired.
	lot := env.lot(t, src.ID)
	assert.Equal(t, int64(0), lot.Quantity)
	assert.Equal(t, domain.AssetStatusAvailable, lot.Status)

	tr, err = env.transfers.Approve(ctx, env.admin, tr.ID)
	require.NoError(t, err)
	_, err = env.transfers.Complete(ctx, env.admin, tr.ID)
	require.NoError(t, err)

	// The drained source lot is retired on completion.
	lot = env.lot(t, src.ID)
	assert.Equal(t, domain.AssetStatusExpended, lot.Status)
	assert.Equal(t, int64(0), lot.Quantity)
}

func TestTransferCancelWithLotAssignedMeanwhile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	src := env.deliverLot(t, env.base1, 10)

	tr, err := env.transfers.Initiate(ctx, env.admin, InitiateTransferInput{
		AssetLotID: src.ID, DestBaseID: env.base2, Quantity: 4,
	})
	require.NoError(t, err)
	require.Equal(t, int64(6), env.lot(t, src.ID).Quantity)

	// The remaining 6 units are issued while the transfer is in flight.
	asg, err := env.assignments.Create(ctx, env.commander1, CreateAssignmentInput{
		AssetLotID: src.ID, AssignedToID: 501, Purpose: "patrol",
	})
	require.NoError(t, err)
	require.Equal(t, domain.AssetStatusAssigned, env.lot(t, src.ID).Status)

	// Cancellation must not inflate the assignee's holding: the returned
	// units go back to the base's available pool in a lot of their own.
	_, err = env.transfers.Cancel(ctx, env.admin, tr.ID, "")
	require.NoError(t, err)

	held := env.lot(t, src.ID)
	assert.Equal(t, domain.AssetStatusAssigned, held.Status)
	assert.Equal(t, int64(6), held.Quantity)

	pool, err := env.store.Assets().List(ctx, repository.AssetFilter{BaseID: &env.base1, Status: domain.AssetStatusAvailable})
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, int64(4), pool[0].Quantity)
	assert.Equal(t, src.Condition, pool[0].Condition)
	assert.Equal(t, int64(10), env.totalQuantity(t))

	// Writing the assignment off retires only the units actually issued.
	_, err = env.assignments.MarkLostOrDamaged(ctx, env.commander1, asg.ID, domain.AssignmentStatusLost, "")
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusExpended, env.lot(t, src.ID).Status)
	assert.Equal(t, int64(4), env.totalQuantity(t))
}

func TestTransferCancelReopensRetiredLot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	src := env.deliverLot(t, env.base1, 5)

	// Two transfers split the lot; completing the first drains and retires it
	// while the second is still in flight.
	first, err := env.transfers.Initiate(ctx, env.admin, InitiateTransferInput{
		AssetLotID: src.ID, DestBaseID: env.base2, Quantity: 3,
	})
	require.NoError(t, err)
	second, err := env.transfers.Initiate(ctx, env.admin, InitiateTransferInput{
		AssetLotID: src.ID, DestBaseID: env.base2, Quantity: 2,
	})
	require.NoError(t, err)

	first, err = env.transfers.Approve(ctx, env.admin, first.ID)
	require.NoError(t, err)
	_, err = env.transfers.Complete(ctx, env.admin, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusExpended, env.lot(t, src.ID).Status)

	// Cancelling the second returns its units and reopens the lot.
	_, err = env.transfers.Cancel(ctx, env.admin, second.ID, "")
	require.NoError(t, err)
	lot := env.lot(t, src.ID)
	assert.Equal(t, domain.AssetStatusAvailable, lot.Status)
	assert.Equal(t, int64(2), lot.Quantity)
}
