package service

import (
	"context"

	"asset-ledger-backend/internal/authz"
	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/repository"
)

type catalogService struct {
	store repository.Store
	gate  *authz.Gate
}

func NewCatalogService(store repository.Store, gate *authz.Gate) CatalogService {
	return &catalogService{store: store, gate: gate}
}

func (s *catalogService) CreateBase(ctx context.Context, actor *domain.Actor, b *domain.Base) error {
	if err := s.gate.Authorize(actor, authz.OpCatalogManage, authz.Scope{}); err != nil {
		return err
	}
	if b.Name == "" {
		return domain.Errorf(domain.ErrCodeValidation, "base name is required")
	}
	return s.store.Bases().Create(ctx, b)
}

func (s *catalogService) GetBase(ctx context.Context, baseID int64) (*domain.Base, error) {
	return s.store.Bases().GetByID(ctx, baseID)
}

func (s *catalogService) ListBases(ctx context.Context) ([]domain.Base, error) {
	return s.store.Bases().List(ctx)
}

func (s *catalogService) CreateEquipmentType(ctx context.Context, actor *domain.Actor, t *domain.EquipmentType) error {
	if err := s.gate.Authorize(actor, authz.OpCatalogManage, authz.Scope{}); err != nil {
		return err
	}
	if t.Code == "" || t.Name == "" {
		return domain.Errorf(domain.ErrCodeValidation, "equipment type code and name are required")
	}
	return s.store.EquipmentTypes().Create(ctx, t)
}

func (s *catalogService) GetEquipmentType(ctx context.Context, typeID int64) (*domain.EquipmentType, error) {
	return s.store.EquipmentTypes().GetByID(ctx, typeID)
}

func (s *catalogService) ListEquipmentTypes(ctx context.Context) ([]domain.EquipmentType, error) {
	return s.store.EquipmentTypes().List(ctx)
}
