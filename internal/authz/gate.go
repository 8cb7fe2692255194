// Package authz implements the role/base authorization gate consulted by
// every workflow entry point before any ledger mutation.
package authz

import (
	"asset-ledger-backend/internal/domain"
)

type Operation string

const (
	OpPurchaseCreate  Operation = "purchase:create"
	OpPurchaseDeliver Operation = "purchase:deliver"
	OpPurchaseCancel  Operation = "purchase:cancel"

	OpTransferInitiate Operation = "transfer:initiate"
	OpTransferApprove  Operation = "transfer:approve"
	OpTransferComplete Operation = "transfer:complete"
	OpTransferCancel   Operation = "transfer:cancel"

	OpAssignmentCreate   Operation = "assignment:create"
	OpAssignmentReturn   Operation = "assignment:return"
	OpAssignmentWriteOff Operation = "assignment:write_off"

	OpExpenditureCreate   Operation = "expenditure:create"
	OpExpenditureApprove  Operation = "expenditure:approve"
	OpExpenditureComplete Operation = "expenditure:complete"
	OpExpenditureCancel   Operation = "expenditure:cancel"

	OpAssetMaintain Operation = "asset:maintain"
	OpCatalogManage Operation = "catalog:manage"
)

// Scope names the base(s) an operation touches. Transfers carry both ends;
// everything else carries the owning base.
type Scope struct {
	BaseID       *int64
	SourceBaseID *int64
	DestBaseID   *int64
}

func BaseScope(baseID int64) Scope {
	return Scope{BaseID: &baseID}
}

func TransferScope(sourceBaseID, destBaseID int64) Scope {
	return Scope{SourceBaseID: &sourceBaseID, DestBaseID: &destBaseID}
}

type Gate struct{}

func NewGate() *Gate {
	return &Gate{}
}

// Authorize decides whether actor may run op against the given scope.
// Admins and logistics officers have unrestricted base scope. Base commanders
// are confined to their assigned base; for transfers their base must be the
// source or destination end (completion: the destination). Plain users are
// read-only. Denials carry a machine-readable reason.
func (g *Gate) Authorize(actor *domain.Actor, op Operation, scope Scope) error {
	if actor == nil || !actor.Active {
		return domain.Forbidden(domain.DenyRoleInsufficient, "inactive or missing actor")
	}

	switch actor.Role {
	case domain.RoleAdmin, domain.RoleLogisticsOfficer:
		return nil

	case domain.RoleBaseCommander:
		return g.authorizeCommander(actor, op, scope)

	default:
		return domain.Forbidden(domain.DenyRoleInsufficient, "role %s may not perform %s", actor.Role, op)
	}
}

func (g *Gate) authorizeCommander(actor *domain.Actor, op Operation, scope Scope) error {
	if actor.BaseID == nil {
		return domain.Forbidden(domain.DenyBaseMismatch, "base commander has no assigned base")
	}

	switch op {
	case OpTransferApprove:
		// Transfer approval stays with admins and logistics officers.
		return domain.Forbidden(domain.DenyRoleInsufficient, "role %s may not perform %s", actor.Role, op)

	case OpCatalogManage:
		return domain.Forbidden(domain.DenyRoleInsufficient, "role %s may not perform %s", actor.Role, op)

	case OpTransferComplete:
		if scope.DestBaseID != nil && *scope.DestBaseID == *actor.BaseID {
			return nil
		}
		return domain.Forbidden(domain.DenyBaseMismatch, "transfer does not arrive at base %d", *actor.BaseID)

	case OpTransferInitiate, OpTransferCancel:
		if scope.SourceBaseID != nil && *scope.SourceBaseID == *actor.BaseID {
			return nil
		}
		if scope.DestBaseID != nil && *scope.DestBaseID == *actor.BaseID {
			return nil
		}
		return domain.Forbidden(domain.DenyBaseMismatch, "transfer does not touch base %d", *actor.BaseID)

	default:
		if scope.BaseID != nil && *scope.BaseID == *actor.BaseID {
			return nil
		}
		return domain.Forbidden(domain.DenyBaseMismatch, "resource is outside base %d", *actor.BaseID)
	}
}

// EffectiveBase resolves the base a base-scoped create acts on. Client input
// is advisory only: a base commander always acts on their own base, whatever
// the request said.
func (g *Gate) EffectiveBase(actor *domain.Actor, requested int64) int64 {
	if actor != nil && actor.Role == domain.RoleBaseCommander && actor.BaseID != nil {
		return *actor.BaseID
	}
	return requested
}
