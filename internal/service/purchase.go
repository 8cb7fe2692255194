package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"asset-ledger-backend/internal/authz"
	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/logger"
	"asset-ledger-backend/internal/repository"
)

type purchaseService struct {
	store repository.Store
	gate  *authz.Gate
}

func NewPurchaseService(store repository.Store, gate *authz.Gate) PurchaseService {
	return &purchaseService{store: store, gate: gate}
}

func (s *purchaseService) Create(ctx context.Context, actor *domain.Actor, in CreatePurchaseInput) (*domain.Purchase, error) {
	if in.Quantity <= 0 {
		return nil, domain.Errorf(domain.ErrCodeValidation, "quantity must be positive, got %d", in.Quantity)
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.Errorf(domain.ErrCodeValidation, "unit price must not be negative")
	}

	// Client-supplied base is advisory: commanders always buy for their own base.
	baseID := s.gate.EffectiveBase(actor, in.BaseID)
	if err := s.gate.Authorize(actor, authz.OpPurchaseCreate, authz.BaseScope(baseID)); err != nil {
		return nil, err
	}
	if _, err := s.store.Bases().GetByID(ctx, baseID); err != nil {
		return nil, err
	}
	if _, err := s.store.EquipmentTypes().GetByID(ctx, in.EquipmentTypeID); err != nil {
		return nil, err
	}

	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}
	p := &domain.Purchase{
		EquipmentTypeID: in.EquipmentTypeID,
		BaseID:          baseID,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		OrderDate:       orderDate,
		Status:          domain.PurchaseStatusOrdered,
		Supplier:        in.Supplier,
		Notes:           in.Notes,
		CreatedBy:       actor.UserID,
	}
	p.RecomputeTotal()

	if err := s.store.Purchases().Create(ctx, p); err != nil {
		return nil, err
	}
	logger.Info("purchase created", "purchase_id", p.ID, "base_id", p.BaseID, "quantity", p.Quantity)
	return p, nil
}

// MarkDelivered moves a purchase out of ORDERED exactly once and books its
// quantity into the ledger. The lot upsert and the purchase status change
// commit in one transaction; re-delivery of an already delivered purchase is
// rejected, so the ledger increments at most once per purchase.
func (s *purchaseService) MarkDelivered(ctx context.Context, actor *domain.Actor, purchaseID int64) (*domain.Purchase, error) {
	var delivered *domain.Purchase
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			p, err := st.Purchases().GetByID(ctx, purchaseID)
			if err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpPurchaseDeliver, authz.BaseScope(p.BaseID)); err != nil {
				return err
			}
			if p.Status != domain.PurchaseStatusOrdered {
				return domain.InvalidTransition("purchase", p.Status, domain.PurchaseStatusDelivered)
			}

			if err := creditLot(ctx, st, p.BaseID, p.EquipmentTypeID, domain.AssetConditionNew, p.Quantity, &p.ID); err != nil {
				return err
			}

			now := time.Now()
			p.Status = domain.PurchaseStatusDelivered
			p.DeliveryDate = &now
			if err := st.Purchases().CASUpdate(ctx, p); err != nil {
				return err
			}
			delivered = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Info("purchase delivered", "purchase_id", delivered.ID, "quantity", delivered.Quantity)
	return delivered, nil
}

func (s *purchaseService) Cancel(ctx context.Context, actor *domain.Actor, purchaseID int64) (*domain.Purchase, error) {
	var cancelled *domain.Purchase
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			p, err := st.Purchases().GetByID(ctx, purchaseID)
			if err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpPurchaseCancel, authz.BaseScope(p.BaseID)); err != nil {
				return err
			}
			if p.Status != domain.PurchaseStatusOrdered {
				return domain.InvalidTransition("purchase", p.Status, domain.PurchaseStatusCancelled)
			}
			p.Status = domain.PurchaseStatusCancelled
			if err := st.Purchases().CASUpdate(ctx, p); err != nil {
				return err
			}
			cancelled = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (s *purchaseService) Get(ctx context.Context, actor *domain.Actor, purchaseID int64) (*domain.Purchase, error) {
	p, err := s.store.Purchases().GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := readScope(actor, p.BaseID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *purchaseService) List(ctx context.Context, actor *domain.Actor, baseID int64, status domain.PurchaseStatus) ([]domain.Purchase, error) {
	if err := readScope(actor, baseID); err != nil {
		return nil, err
	}
	return s.store.Purchases().ListByBase(ctx, baseID, status)
}

// creditLot adds inbound quantity to the matching AVAILABLE lot at the base,
// or opens a new lot with a generated serial number when none matches.
func creditLot(ctx context.Context, st repository.Store, baseID, equipmentTypeID int64, condition domain.AssetCondition, quantity int64, purchaseID *int64) error {
	lot, err := st.Assets().FindMatch(ctx, baseID, equipmentTypeID, condition)
	if err != nil {
		return err
	}
	if lot != nil {
		lot.Quantity += quantity
		return st.Assets().CASUpdate(ctx, lot)
	}
	return st.Assets().Create(ctx, &domain.AssetLot{
		SerialNumber:    uuid.NewString(),
		EquipmentTypeID: equipmentTypeID,
		BaseID:          baseID,
		PurchaseID:      purchaseID,
		Quantity:        quantity,
		Status:          domain.AssetStatusAvailable,
		Condition:       condition,
	})
}
