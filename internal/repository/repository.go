package repository

import (
	"context"
	"time"

	"asset-ledger-backend/internal/domain"
)

// Store bundles every repository plus the unit-of-work boundary. Workflow
// services run all multi-record mutations inside WithinTransaction so that a
// lot update and its workflow record are applied atomically: either both land
// or neither does.
type Store interface {
	Assets() AssetRepository
	Purchases() PurchaseRepository
	Transfers() TransferRepository
	Assignments() AssignmentRepository
	Expenditures() ExpenditureRepository
	Bases() BaseRepository
	EquipmentTypes() EquipmentTypeRepository
	Notifications() NotificationRepository

	// WithinTransaction runs fn against a transactional view of the store.
	// The callback's repositories share one transaction; returning an error
	// rolls everything back.
	WithinTransaction(ctx context.Context, fn func(Store) error) error
}

// AssetFilter narrows lot listings.
type AssetFilter struct {
	BaseID          *int64
	EquipmentTypeID *int64
	Status          domain.AssetStatus
}

// AssetRepository is the lot store. CASUpdate implements the
// compare-and-swap contract: the write succeeds only when lot.Version still
// matches the stored version, and bumps the version on success. A stale
// version yields a conflict error; a missing row an invalid_reference error.
type AssetRepository interface {
	Create(ctx context.Context, lot *domain.AssetLot) error
	GetByID(ctx context.Context, id int64) (*domain.AssetLot, error)
	CASUpdate(ctx context.Context, lot *domain.AssetLot) error
	// FindMatch returns the AVAILABLE lot matching base, equipment type and
	// condition, or nil when no such lot exists. Used by inbound quantity
	// (purchase delivery, transfer completion) to increment instead of
	// creating parallel lots.
	FindMatch(ctx context.Context, baseID, equipmentTypeID int64, condition domain.AssetCondition) (*domain.AssetLot, error)
	List(ctx context.Context, filter AssetFilter) ([]domain.AssetLot, error)
	BaseSummary(ctx context.Context, baseID int64) ([]domain.BaseSummary, error)
}

type PurchaseRepository interface {
	Create(ctx context.Context, p *domain.Purchase) error
	GetByID(ctx context.Context, id int64) (*domain.Purchase, error)
	CASUpdate(ctx context.Context, p *domain.Purchase) error
	ListByBase(ctx context.Context, baseID int64, status domain.PurchaseStatus) ([]domain.Purchase, error)
}

type TransferRepository interface {
	Create(ctx context.Context, t *domain.Transfer) error
	GetByID(ctx context.Context, id int64) (*domain.Transfer, error)
	CASUpdate(ctx context.Context, t *domain.Transfer) error
	ListByBase(ctx context.Context, baseID int64, status domain.TransferStatus) ([]domain.Transfer, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.Assignment) error
	GetByID(ctx context.Context, id int64) (*domain.Assignment, error)
	CASUpdate(ctx context.Context, a *domain.Assignment) error
	// GetActiveByLot returns the ACTIVE assignment holding the lot, or nil.
	GetActiveByLot(ctx context.Context, lotID int64) (*domain.Assignment, error)
	ListByBase(ctx context.Context, baseID int64, status domain.AssignmentStatus) ([]domain.Assignment, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Assignment, error)
}

type ExpenditureRepository interface {
	Create(ctx context.Context, e *domain.Expenditure) error
	GetByID(ctx context.Context, id int64) (*domain.Expenditure, error)
	CASUpdate(ctx context.Context, e *domain.Expenditure) error
	ListByBase(ctx context.Context, baseID int64, status domain.ExpenditureStatus) ([]domain.Expenditure, error)
}

type BaseRepository interface {
	Create(ctx context.Context, b *domain.Base) error
	GetByID(ctx context.Context, id int64) (*domain.Base, error)
	List(ctx context.Context) ([]domain.Base, error)
}

type EquipmentTypeRepository interface {
	Create(ctx context.Context, t *domain.EquipmentType) error
	GetByID(ctx context.Context, id int64) (*domain.EquipmentType, error)
	List(ctx context.Context) ([]domain.EquipmentType, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, limit, offset int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
}
