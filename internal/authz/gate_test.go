package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"asset-ledger-backend/internal/domain"
)

func actorWithBase(role domain.Role, baseID int64) *domain.Actor {
	return &domain.Actor{UserID: 1, Role: role, BaseID: &baseID, Active: true}
}

func denyReason(t *testing.T, err error) string {
	t.Helper()
	var derr *domain.Error
	if !errors.As(err, &derr) {
		t.Fatalf("expected a domain error, got %v", err)
	}
	assert.Equal(t, domain.ErrCodeForbidden, derr.Code)
	return derr.Reason
}

func TestGate_AdminAndLogisticsUnrestricted(t *testing.T) {
	gate := NewGate()

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleLogisticsOfficer} {
		actor := &domain.Actor{UserID: 1, Role: role, Active: true}
		assert.NoError(t, gate.Authorize(actor, OpPurchaseCreate, BaseScope(7)))
		assert.NoError(t, gate.Authorize(actor, OpTransferApprove, TransferScope(1, 2)))
		assert.NoError(t, gate.Authorize(actor, OpCatalogManage, Scope{}))
	}
}

func TestGate_InactiveOrMissingActor(t *testing.T) {
	gate := NewGate()

	err := gate.Authorize(nil, OpPurchaseCreate, BaseScope(1))
	assert.Equal(t, domain.DenyRoleInsufficient, denyReason(t, err))

	inactive := &domain.Actor{UserID: 1, Role: domain.RoleAdmin, Active: false}
	err = gate.Authorize(inactive, OpPurchaseCreate, BaseScope(1))
	assert.Equal(t, domain.DenyRoleInsufficient, denyReason(t, err))
}

func TestGate_UserReadOnly(t *testing.T) {
	gate := NewGate()
	actor := &domain.Actor{UserID: 1, Role: domain.RoleUser, Active: true}

	err := gate.Authorize(actor, OpAssignmentCreate, BaseScope(1))
	assert.Equal(t, domain.DenyRoleInsufficient, denyReason(t, err))
}

func TestGate_CommanderOwnBase(t *testing.T) {
	gate := NewGate()
	commander := actorWithBase(domain.RoleBaseCommander, 1)

	assert.NoError(t, gate.Authorize(commander, OpPurchaseCreate, BaseScope(1)))
	assert.NoError(t, gate.Authorize(commander, OpAssignmentCreate, BaseScope(1)))

	err := gate.Authorize(commander, OpPurchaseCreate, BaseScope(2))
	assert.Equal(t, domain.DenyBaseMismatch, denyReason(t, err))
}

func TestGate_CommanderTransfers(t *testing.T) {
	gate := NewGate()
	commander := actorWithBase(domain.RoleBaseCommander, 1)

	// May initiate or cancel when either end is the commander's base.
	assert.NoError(t, gate.Authorize(commander, OpTransferInitiate, TransferScope(1, 2)))
	assert.NoError(t, gate.Authorize(commander, OpTransferCancel, TransferScope(2, 1)))

	err := gate.Authorize(commander, OpTransferInitiate, TransferScope(2, 3))
	assert.Equal(t, domain.DenyBaseMismatch, denyReason(t, err))

	// Approval is never a commander's call, even on their own transfers.
	err = gate.Authorize(commander, OpTransferApprove, TransferScope(1, 2))
	assert.Equal(t, domain.DenyRoleInsufficient, denyReason(t, err))

	// Completion requires the commander to hold the receiving end.
	assert.NoError(t, gate.Authorize(commander, OpTransferComplete, TransferScope(2, 1)))
	err = gate.Authorize(commander, OpTransferComplete, TransferScope(1, 2))
	assert.Equal(t, domain.DenyBaseMismatch, denyReason(t, err))
}

func TestGate_CommanderCatalogDenied(t *testing.T) {
	gate := NewGate()
	commander := actorWithBase(domain.RoleBaseCommander, 1)

	err := gate.Authorize(commander, OpCatalogManage, Scope{})
	assert.Equal(t, domain.DenyRoleInsufficient, denyReason(t, err))
}

func TestGate_EffectiveBase(t *testing.T) {
	gate := NewGate()

	commander := actorWithBase(domain.RoleBaseCommander, 1)
	assert.Equal(t, int64(1), gate.EffectiveBase(commander, 9))

	admin := &domain.Actor{UserID: 1, Role: domain.RoleAdmin, Active: true}
	assert.Equal(t, int64(9), gate.EffectiveBase(admin, 9))
}
