package service

import (
	"context"
	"time"

	"asset-ledger-backend/internal/authz"
	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/logger"
	"asset-ledger-backend/internal/repository"
)

type assignmentService struct {
	store repository.Store
	gate  *authz.Gate
}

func NewAssignmentService(store repository.Store, gate *authz.Gate) AssignmentService {
	return &assignmentService{store: store, gate: gate}
}

// Create issues a whole lot to a person: the lot flips AVAILABLE -> ASSIGNED
// and the assignment opens ACTIVE, in one transaction.
func (s *assignmentService) Create(ctx context.Context, actor *domain.Actor, in CreateAssignmentInput) (*domain.Assignment, error) {
	if in.AssignedToID <= 0 {
		return nil, domain.Errorf(domain.ErrCodeValidation, "assigned_to is required")
	}

	var created *domain.Assignment
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			lot, err := st.Assets().GetByID(ctx, in.AssetLotID)
			if err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpAssignmentCreate, authz.BaseScope(lot.BaseID)); err != nil {
				return err
			}
			if lot.Status != domain.AssetStatusAvailable {
				return domain.InvalidTransition("asset lot", lot.Status, domain.AssetStatusAssigned)
			}
			if lot.Quantity <= 0 {
				return domain.InsufficientQuantity(1, lot.Quantity)
			}

			lot.Status = domain.AssetStatusAssigned
			if err := st.Assets().CASUpdate(ctx, lot); err != nil {
				return err
			}

			a := &domain.Assignment{
				AssetLotID:         lot.ID,
				BaseID:             lot.BaseID,
				AssignedToID:       in.AssignedToID,
				AssignedOn:         time.Now(),
				ExpectedReturnDate: in.ExpectedReturnDate,
				Purpose:            in.Purpose,
				Status:             domain.AssignmentStatusActive,
				Notes:              in.Notes,
				CreatedBy:          actor.UserID,
			}
			if err := st.Assignments().Create(ctx, a); err != nil {
				return err
			}
			created = a
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Info("assignment created", "assignment_id", created.ID, "lot_id", created.AssetLotID, "assigned_to", created.AssignedToID)
	return created, nil
}

// Return closes an ACTIVE assignment and puts the lot back in the available
// pool, carrying the condition it came back in.
func (s *assignmentService) Return(ctx context.Context, actor *domain.Actor, assignmentID int64, condition domain.AssetCondition) (*domain.Assignment, error) {
	switch condition {
	case domain.AssetConditionNew, domain.AssetConditionGood, domain.AssetConditionFair,
		domain.AssetConditionPoor, domain.AssetConditionUnserviceable:
	default:
		return nil, domain.Errorf(domain.ErrCodeValidation, "unknown return condition %q", condition)
	}

	var returned *domain.Assignment
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			a, err := st.Assignments().GetByID(ctx, assignmentID)
			if err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpAssignmentReturn, authz.BaseScope(a.BaseID)); err != nil {
				return err
			}
			if a.Status != domain.AssignmentStatusActive {
				return domain.InvalidTransition("assignment", a.Status, domain.AssignmentStatusReturned)
			}

			lot, err := st.Assets().GetByID(ctx, a.AssetLotID)
			if err != nil {
				return err
			}
			lot.Status = domain.AssetStatusAvailable
			lot.Condition = condition
			if err := st.Assets().CASUpdate(ctx, lot); err != nil {
				return err
			}

			a.Status = domain.AssignmentStatusReturned
			a.ReturnCondition = condition
			if err := st.Assignments().CASUpdate(ctx, a); err != nil {
				return err
			}
			returned = a
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Info("assignment returned", "assignment_id", returned.ID, "condition", condition)
	return returned, nil
}

// MarkLostOrDamaged is terminal: the assignment closes and the lot is retired
// out of inventory for good.
func (s *assignmentService) MarkLostOrDamaged(ctx context.Context, actor *domain.Actor, assignmentID int64, status domain.AssignmentStatus, notes string) (*domain.Assignment, error) {
	if status != domain.AssignmentStatusLost && status != domain.AssignmentStatusDamaged {
		return nil, domain.Errorf(domain.ErrCodeValidation, "status must be LOST or DAMAGED, got %q", status)
	}

	var closed *domain.Assignment
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			a, err := st.Assignments().GetByID(ctx, assignmentID)
			if err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpAssignmentWriteOff, authz.BaseScope(a.BaseID)); err != nil {
				return err
			}
			if a.Status != domain.AssignmentStatusActive {
				return domain.InvalidTransition("assignment", a.Status, status)
			}

			lot, err := st.Assets().GetByID(ctx, a.AssetLotID)
			if err != nil {
				return err
			}
			lot.Retire()
			lot.Condition = domain.AssetConditionUnserviceable
			if err := st.Assets().CASUpdate(ctx, lot); err != nil {
				return err
			}

			a.Status = status
			if notes != "" {
				a.Notes = notes
			}
			if err := st.Assignments().CASUpdate(ctx, a); err != nil {
				return err
			}
			closed = a
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Info("assignment written off", "assignment_id", closed.ID, "status", status)
	return closed, nil
}

func (s *assignmentService) Get(ctx context.Context, actor *domain.Actor, assignmentID int64) (*domain.Assignment, error) {
	a, err := s.store.Assignments().GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := readScope(actor, a.BaseID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) List(ctx context.Context, actor *domain.Actor, baseID int64, status domain.AssignmentStatus) ([]domain.Assignment, error) {
	if err := readScope(actor, baseID); err != nil {
		return nil, err
	}
	return s.store.Assignments().ListByBase(ctx, baseID, status)
}
