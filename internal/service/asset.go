package service

import (
	"context"

	"asset-ledger-backend/internal/authz"
	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/logger"
	"asset-ledger-backend/internal/repository"
)

type assetService struct {
	store repository.Store
	gate  *authz.Gate
}

func NewAssetService(store repository.Store, gate *authz.Gate) AssetService {
	return &assetService{store: store, gate: gate}
}

func (s *assetService) Get(ctx context.Context, actor *domain.Actor, lotID int64) (*domain.AssetLot, error) {
	lot, err := s.store.Assets().GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if err := readScope(actor, lot.BaseID); err != nil {
		return nil, err
	}
	return lot, nil
}

func (s *assetService) List(ctx context.Context, actor *domain.Actor, filter repository.AssetFilter) ([]domain.AssetLot, error) {
	if actor != nil && actor.Role == domain.RoleBaseCommander {
		// Commanders list their own base, whatever filter the client sent.
		filter.BaseID = actor.BaseID
	}
	if actor == nil || !actor.Active {
		return nil, domain.Forbidden(domain.DenyRoleInsufficient, "inactive or missing actor")
	}
	return s.store.Assets().List(ctx, filter)
}

// AvailableQuantity is the single availability query every workflow and form
// consults; only an AVAILABLE lot exposes quantity to new reservations.
func (s *assetService) AvailableQuantity(ctx context.Context, lotID int64) (int64, error) {
	lot, err := s.store.Assets().GetByID(ctx, lotID)
	if err != nil {
		return 0, err
	}
	if lot.Status != domain.AssetStatusAvailable {
		return 0, nil
	}
	return lot.Quantity, nil
}

func (s *assetService) SetMaintenance(ctx context.Context, actor *domain.Actor, lotID int64) (*domain.AssetLot, error) {
	return s.moveStatus(ctx, actor, lotID, domain.AssetStatusAvailable, domain.AssetStatusMaintenance)
}

func (s *assetService) ReturnToService(ctx context.Context, actor *domain.Actor, lotID int64) (*domain.AssetLot, error) {
	return s.moveStatus(ctx, actor, lotID, domain.AssetStatusMaintenance, domain.AssetStatusAvailable)
}

func (s *assetService) moveStatus(ctx context.Context, actor *domain.Actor, lotID int64, from, to domain.AssetStatus) (*domain.AssetLot, error) {
	var moved *domain.AssetLot
	err := withConflictRetry(ctx, func() error {
		return s.store.WithinTransaction(ctx, func(st repository.Store) error {
			lot, err := st.Assets().GetByID(ctx, lotID)
			if err != nil {
				return err
			}
			if err := s.gate.Authorize(actor, authz.OpAssetMaintain, authz.BaseScope(lot.BaseID)); err != nil {
				return err
			}
			if lot.Status != from {
				return domain.InvalidTransition("asset lot", lot.Status, to)
			}
			lot.Status = to
			if err := st.Assets().CASUpdate(ctx, lot); err != nil {
				return err
			}
			moved = lot
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Info("asset lot status moved", "lot_id", moved.ID, "from", from, "to", to)
	return moved, nil
}

func (s *assetService) BaseSummary(ctx context.Context, actor *domain.Actor, baseID int64) ([]domain.BaseSummary, error) {
	if err := readScope(actor, baseID); err != nil {
		return nil, err
	}
	return s.store.Assets().BaseSummary(ctx, baseID)
}
