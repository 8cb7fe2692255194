package service

import (
	"context"

	"asset-ledger-backend/internal/authz"
	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/logger"
	"asset-ledger-backend/internal/repository"
)

type expenditureService struct {
	store repository.Store
	gate  *authz.Gate
}

func NewExpenditureService(store repository.Store, gate *authz.Gate) ExpenditureService {
	return &expenditureService{store: store, gate: gate}
}

// Create opens an expenditure in PENDING. The reservation is logical only:
// nothing is decremented until completion, so the availability check here is
// a precondition, not a hold.
func (s *expenditureService) Create(ctx context.Context, actor *domain.Actor, in CreateExpenditureInput) (*domain.Expenditure, error) {
	if in.Quantity <= 0 {
		return nil, domain.Errorf(domain.ErrCodeValidation, "quantity must be positive, got %d", in.Quantity)
	}
	if !domain.ValidReason(in.Reason) {
		return nil, domain.Errorf(domain.ErrCodeValidation, "unknown expenditure reason %q", in.Reason)
	}

	lot, err := s.store.Assets().GetByID(ctx, in.AssetLotID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(actor, authz.OpExpenditureCreate, authz.BaseScope(lot.BaseID)); err != nil {
		return nil, err
	}
	switch lot.Status {
	case domain.AssetStatusAvailable:
	case domain.AssetStatusAssigned:
		// Expending an assigned lot consumes the whole remaining holding and
		// will close the active assignment on completion.
		if in.Quantity != lot.Quantity {
			return nil, domain.Errorf(domain.ErrCodeValidation, "an assigned lot may only be expended in full (%d units)", lot.Quantity)
		}
	default:
		return nil, domain.InvalidTransition("asset lot", lot.Status, domain.AssetStatusExpended)
	}
	if in.Quantity > lot.Quantity {
		return nil, domain.InsufficientQuantity(in.Quantity, lot.Quantity)
	}

	e := &domain.Expenditure{
		AssetLotID:    lot.ID,
		BaseID:        lot.BaseID,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		Status:        domain.ExpenditureStatusPending,
		OperationName: in.OperationName,
		Notes:         in.Notes,
		CreatedBy:     actor.UserID,
	}
	if err := s.store.Expenditures().Create(ctx, e); err != nil {
		return nil, err
	}
	logger.Info("expenditure created", "expenditure_id", e.ID, "lot_id", e.AssetLotID, "quantity", e.Quantity, "reason", e.Reason)
	return e, nil
}

func (s *expenditureService) Approve(ctx context.Context, actor *domain.Actor, expenditureID int64) (*domain.Expenditure, error) {
	var approved *domain.Expenditure
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			e, err := st.Expenditures().GetByID(ctx, expenditureID)
			if err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpExpenditureApprove, authz.BaseScope(e.BaseID)); err != nil {
				return err
			}
			if e.Status != domain.ExpenditureStatusPending {
				return domain.InvalidTransition("expenditure", e.Status, domain.ExpenditureStatusApproved)
			}
			e.Status = domain.ExpenditureStatusApproved
			e.ApprovedBy = &actor.UserID
			if err := st.Expenditures().CASUpdate(ctx, e); err != nil {
				return err
			}
			approved = e
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Info("expenditure approved", "expenditure_id", approved.ID, "approved_by", actor.UserID)
	return approved, nil
}

// Complete performs the irreversible decrement. Availability is re-checked
// against the live lot inside the transaction: the logical reservation made
// at creation gives no priority over writes that landed in between.
func (s *expenditureService) Complete(ctx context.Context, actor *domain.Actor, expenditureID int64) (*domain.Expenditure, error) {
	var completed *domain.Expenditure
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			e, err := st.Expenditures().GetByID(ctx, expenditureID)
			if err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpExpenditureComplete, authz.BaseScope(e.BaseID)); err != nil {
				return err
			}
			if e.Status != domain.ExpenditureStatusApproved {
				return domain.InvalidTransition("expenditure", e.Status, domain.ExpenditureStatusCompleted)
			}

			lot, err := st.Assets().GetByID(ctx, e.AssetLotID)
			if err != nil {
				return err
			}
			if lot.Status != domain.AssetStatusAvailable && lot.Status != domain.AssetStatusAssigned {
				return domain.InvalidTransition("asset lot", lot.Status, domain.AssetStatusExpended)
			}
			if e.Quantity > lot.Quantity {
				return domain.InsufficientQuantity(e.Quantity, lot.Quantity)
			}

			wasAssigned := lot.Status == domain.AssetStatusAssigned
			lot.Quantity -= e.Quantity
			if lot.Quantity == 0 {
				lot.Retire()
			}
			if err := st.Assets().CASUpdate(ctx, lot); err != nil {
				return err
			}

			if wasAssigned {
				a, err := st.Assignments().GetActiveByLot(ctx, lot.ID)
				if err != nil {
					return err
				}
				if a != nil {
					a.Status = domain.AssignmentStatusExpended
					if err := st.Assignments().CASUpdate(ctx, a); err != nil {
						return err
					}
				}
			}

			e.Status = domain.ExpenditureStatusCompleted
			e.CompletedBy = &actor.UserID
			if err := st.Expenditures().CASUpdate(ctx, e); err != nil {
				return err
			}
			completed = e
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Info("expenditure completed", "expenditure_id", completed.ID, "quantity", completed.Quantity)
	return completed, nil
}

// Cancel aborts a pending or approved expenditure. Nothing was decremented
// yet, so there is no ledger effect; the reason is kept on the record.
func (s *expenditureService) Cancel(ctx context.Context, actor *domain.Actor, expenditureID int64, reason string) (*domain.Expenditure, error) {
	var cancelled *domain.Expenditure
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			e, err := st.Expenditures().GetByID(ctx, expenditureID)
			if err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpExpenditureCancel, authz.BaseScope(e.BaseID)); err != nil {
				return err
			}
			if e.Status != domain.ExpenditureStatusPending && e.Status != domain.ExpenditureStatusApproved {
				return domain.InvalidTransition("expenditure", e.Status, domain.ExpenditureStatusCancelled)
			}
			e.Status = domain.ExpenditureStatusCancelled
			e.CancelReason = reason
			if err := st.Expenditures().CASUpdate(ctx, e); err != nil {
				return err
			}
			cancelled = e
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Info("expenditure cancelled", "expenditure_id", cancelled.ID, "reason", reason)
	return cancelled, nil
}

func (s *expenditureService) Get(ctx context.Context, actor *domain.Actor, expenditureID int64) (*domain.Expenditure, error) {
	e, err := s.store.Expenditures().GetByID(ctx, expenditureID)
	if err != nil {
		return nil, err
	}
	if err := readScope(actor, e.BaseID); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *expenditureService) List(ctx context.Context, actor *domain.Actor, baseID int64, status domain.ExpenditureStatus) ([]domain.Expenditure, error) {
	if err := readScope(actor, baseID); err != nil {
		return nil, err
	}
	return s.store.Expenditures().ListByBase(ctx, baseID, status)
}
