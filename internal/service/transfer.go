package service

import (
	"context"
	"fmt"

	"asset-ledger-backend/internal/authz"
	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/logger"
	"asset-ledger-backend/internal/repository"
)

type transferService struct {
	store repository.Store
	gate  *authz.Gate
	email EmailService
}

func NewTransferService(store repository.Store, gate *authz.Gate, email EmailService) TransferService {
	return &transferService{store: store, gate: gate, email: email}
}

// Initiate reserves quantity out of the source lot and opens the transfer in
// one transaction. The decrement and the transfer record land together, so no
// other workflow can reserve the same units.
func (s *transferService) Initiate(ctx context.Context, actor *domain.Actor, in InitiateTransferInput) (*domain.Transfer, error) {
	if in.Quantity <= 0 {
		return nil, domain.Errorf(domain.ErrCodeValidation, "quantity must be positive, got %d", in.Quantity)
	}

	var created *domain.Transfer
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			lot, err := st.Assets().GetByID(ctx, in.AssetLotID)
			if err != nil {
				return err
			}
			if lot.BaseID == in.DestBaseID {
				return domain.Errorf(domain.ErrCodeValidation, "source and destination base must differ")
			}
			if _, err := st.Bases().GetByID(ctx, in.DestBaseID); err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpTransferInitiate, authz.TransferScope(lot.BaseID, in.DestBaseID)); err != nil {
				return err
			}
			if lot.Status != domain.AssetStatusAvailable {
				return domain.InvalidTransition("asset lot", lot.Status, domain.AssetStatusInTransit)
			}
			if in.Quantity > lot.Quantity {
				return domain.InsufficientQuantity(in.Quantity, lot.Quantity)
			}

			lot.Quantity -= in.Quantity
			if err := st.Assets().CASUpdate(ctx, lot); err != nil {
				return err
			}

			t := &domain.Transfer{
				SourceBaseID:     lot.BaseID,
				DestBaseID:       in.DestBaseID,
				EquipmentTypeID:  lot.EquipmentTypeID,
				AssetLotID:       lot.ID,
				Quantity:         in.Quantity,
				Condition:        lot.Condition,
				Status:           domain.TransferStatusInitiated,
				TransportDetails: in.TransportDetails,
				Notes:            in.Notes,
				InitiatedBy:      actor.UserID,
			}
			if err := st.Transfers().Create(ctx, t); err != nil {
				return err
			}
			created = t
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyDestBase(ctx, created, "Inbound transfer initiated",
		fmt.Sprintf("Transfer #%d: %d units inbound from base %d", created.ID, created.Quantity, created.SourceBaseID))
	logger.Info("transfer initiated", "transfer_id", created.ID, "lot_id", created.AssetLotID, "quantity", created.Quantity)
	return created, nil
}

func (s *transferService) Approve(ctx context.Context, actor *domain.Actor, transferID int64) (*domain.Transfer, error) {
	var approved *domain.Transfer
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			t, err := st.Transfers().GetByID(ctx, transferID)
			if err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpTransferApprove, authz.TransferScope(t.SourceBaseID, t.DestBaseID)); err != nil {
				return err
			}
			if t.Status != domain.TransferStatusInitiated {
				return domain.InvalidTransition("transfer", t.Status, domain.TransferStatusInTransit)
			}
			// The quantity is already reserved; approval only moves the record.
			t.Status = domain.TransferStatusInTransit
			t.ApprovedBy = &actor.UserID
			if err := st.Transfers().CASUpdate(ctx, t); err != nil {
				return err
			}
			approved = t
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Info("transfer approved", "transfer_id", approved.ID, "approved_by", actor.UserID)
	return approved, nil
}

// Complete books the reserved quantity into the destination base and closes
// the transfer. A source lot the reservation drained to zero is retired here;
// until completion the zero quantity is a transient workflow mid-state.
func (s *transferService) Complete(ctx context.Context, actor *domain.Actor, transferID int64) (*domain.Transfer, error) {
	var completed *domain.Transfer
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			t, err := st.Transfers().GetByID(ctx, transferID)
			if err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpTransferComplete, authz.TransferScope(t.SourceBaseID, t.DestBaseID)); err != nil {
				return err
			}
			if t.Status != domain.TransferStatusInTransit {
				return domain.InvalidTransition("transfer", t.Status, domain.TransferStatusCompleted)
			}

			if err := creditLot(ctx, st, t.DestBaseID, t.EquipmentTypeID, t.Condition, t.Quantity, nil); err != nil {
				return err
			}

			src, err := st.Assets().GetByID(ctx, t.AssetLotID)
			if err != nil {
				return err
			}
			if src.Quantity == 0 && src.Status == domain.AssetStatusAvailable {
				src.Retire()
				if err := st.Assets().CASUpdate(ctx, src); err != nil {
					return err
				}
			}

			t.Status = domain.TransferStatusCompleted
			t.CompletedBy = &actor.UserID
			if err := st.Transfers().CASUpdate(ctx, t); err != nil {
				return err
			}
			completed = t
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyDestBase(ctx, completed, "Transfer completed",
		fmt.Sprintf("Transfer #%d: %d units received from base %d", completed.ID, completed.Quantity, completed.SourceBaseID))
	logger.Info("transfer completed", "transfer_id", completed.ID, "completed_by", actor.UserID)
	return completed, nil
}

// Cancel releases the reservation back into the source lot. Valid from
// INITIATED or IN_TRANSIT; a completed transfer cannot be unwound.
func (s *transferService) Cancel(ctx context.Context, actor *domain.Actor, transferID int64, reason string) (*domain.Transfer, error) {
	var cancelled *domain.Transfer
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			t, err := st.Transfers().GetByID(ctx, transferID)
			if err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpTransferCancel, authz.TransferScope(t.SourceBaseID, t.DestBaseID)); err != nil {
				return err
			}
			if t.Status != domain.TransferStatusInitiated && t.Status != domain.TransferStatusInTransit {
				return domain.InvalidTransition("transfer", t.Status, domain.TransferStatusCancelled)
			}

			lot, err := st.Assets().GetByID(ctx, t.AssetLotID)
			if err != nil {
				return err
			}
			switch lot.Status {
			case domain.AssetStatusAvailable:
				lot.Quantity += t.Quantity
				if err := st.Assets().CASUpdate(ctx, lot); err != nil {
					return err
				}
			case domain.AssetStatusExpended:
				// The rest of the lot was retired while these units were in
				// transit; the returned units reopen it.
				lot.Quantity += t.Quantity
				lot.Status = domain.AssetStatusAvailable
				if err := st.Assets().CASUpdate(ctx, lot); err != nil {
					return err
				}
			default:
				// The remainder of the lot was issued or pulled for
				// maintenance in the meantime. The returned units belong to
				// the available pool, not to whoever holds the lot now.
				if err := creditLot(ctx, st, t.SourceBaseID, t.EquipmentTypeID, t.Condition, t.Quantity, nil); err != nil {
					return err
				}
			}

			t.Status = domain.TransferStatusCancelled
			if reason != "" {
				t.Notes = reason
			}
			if err := st.Transfers().CASUpdate(ctx, t); err != nil {
				return err
			}
			cancelled = t
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Info("transfer cancelled", "transfer_id", cancelled.ID, "reason", reason)
	return cancelled, nil
}

func (s *transferService) Get(ctx context.Context, actor *domain.Actor, transferID int64) (*domain.Transfer, error) {
	t, err := s.store.Transfers().GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if readScope(actor, t.SourceBaseID) != nil && readScope(actor, t.DestBaseID) != nil {
		return nil, domain.Forbidden(domain.DenyBaseMismatch, "transfer does not touch the commander's base")
	}
	return t, nil
}

func (s *transferService) List(ctx context.Context, actor *domain.Actor, baseID int64, status domain.TransferStatus) ([]domain.Transfer, error) {
	if err := readScope(actor, baseID); err != nil {
		return nil, err
	}
	return s.store.Transfers().ListByBase(ctx, baseID, status)
}

// notifyDestBase records an in-app notification for the destination base
// commander and mails the logistics inbox. Delivery failures are logged and
// never fail the workflow.
func (s *transferService) notifyDestBase(ctx context.Context, t *domain.Transfer, title, message string) {
	base, err := s.store.Bases().GetByID(ctx, t.DestBaseID)
	if err == nil && base.CommanderID != nil {
		n := &domain.Notification{
			UserID:  *base.CommanderID,
			BaseID:  &t.DestBaseID,
			Title:   title,
			Message: message,
			Attributes: map[string]string{
				"type":        "TRANSFER",
				"transfer_id": fmt.Sprintf("%d", t.ID),
			},
		}
		if err := s.store.Notifications().Create(ctx, n); err != nil {
			logger.Warn("failed to record transfer notification", "transfer_id", t.ID, "error", err)
		}
	}
	if s.email != nil {
		if err := s.email.SendTransferNotice(ctx, title, message); err != nil {
			logger.Warn("failed to send transfer notice", "transfer_id", t.ID, "error", err)
		}
	}
}
