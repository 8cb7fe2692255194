// Package service implements the ledger core: every state-changing operation
// of the purchase, transfer, assignment and expenditure workflows, plus the
// read surface. All quantity mutation in the system goes through these
// services; nothing edits a lot directly.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/repository"
)

type CreatePurchaseInput struct {
	EquipmentTypeID int64
	BaseID          int64
	Quantity        int64
	UnitPrice       decimal.Decimal
	OrderDate       time.Time
	Supplier        string
	Notes           string
}

type PurchaseService interface {
	Create(ctx context.Context, actor *domain.Actor, in CreatePurchaseInput) (*domain.Purchase, error)
	MarkDelivered(ctx context.Context, actor *domain.Actor, purchaseID int64) (*domain.Purchase, error)
	Cancel(ctx context.Context, actor *domain.Actor, purchaseID int64) (*domain.Purchase, error)
	Get(ctx context.Context, actor *domain.Actor, purchaseID int64) (*domain.Purchase, error)
	List(ctx context.Context, actor *domain.Actor, baseID int64, status domain.PurchaseStatus) ([]domain.Purchase, error)
}

type InitiateTransferInput struct {
	AssetLotID       int64
	DestBaseID       int64
	Quantity         int64
	TransportDetails string
	Notes            string
}

type TransferService interface {
	Initiate(ctx context.Context, actor *domain.Actor, in InitiateTransferInput) (*domain.Transfer, error)
	Approve(ctx context.Context, actor *domain.Actor, transferID int64) (*domain.Transfer, error)
	Complete(ctx context.Context, actor *domain.Actor, transferID int64) (*domain.Transfer, error)
	Cancel(ctx context.Context, actor *domain.Actor, transferID int64, reason string) (*domain.Transfer, error)
	Get(ctx context.Context, actor *domain.Actor, transferID int64) (*domain.Transfer, error)
	List(ctx context.Context, actor *domain.Actor, baseID int64, status domain.TransferStatus) ([]domain.Transfer, error)
}

type CreateAssignmentInput struct {
	AssetLotID         int64
	AssignedToID       int64
	ExpectedReturnDate *time.Time
	Purpose            string
	Notes              string
}

type AssignmentService interface {
	Create(ctx context.Context, actor *domain.Actor, in CreateAssignmentInput) (*domain.Assignment, error)
	Return(ctx context.Context, actor *domain.Actor, assignmentID int64, condition domain.AssetCondition) (*domain.Assignment, error)
	MarkLostOrDamaged(ctx context.Context, actor *domain.Actor, assignmentID int64, status domain.AssignmentStatus, notes string) (*domain.Assignment, error)
	Get(ctx context.Context, actor *domain.Actor, assignmentID int64) (*domain.Assignment, error)
	List(ctx context.Context, actor *domain.Actor, baseID int64, status domain.AssignmentStatus) ([]domain.Assignment, error)
}

type CreateExpenditureInput struct {
	AssetLotID    int64
	Quantity      int64
	Reason        domain.ExpenditureReason
	OperationName string
	Notes         string
}

type ExpenditureService interface {
	Create(ctx context.Context, actor *domain.Actor, in CreateExpenditureInput) (*domain.Expenditure, error)
	Approve(ctx context.Context, actor *domain.Actor, expenditureID int64) (*domain.Expenditure, error)
	Complete(ctx context.Context, actor *domain.Actor, expenditureID int64) (*domain.Expenditure, error)
	Cancel(ctx context.Context, actor *domain.Actor, expenditureID int64, reason string) (*domain.Expenditure, error)
	Get(ctx context.Context, actor *domain.Actor, expenditureID int64) (*domain.Expenditure, error)
	List(ctx context.Context, actor *domain.Actor, baseID int64, status domain.ExpenditureStatus) ([]domain.Expenditure, error)
}

type AssetService interface {
	Get(ctx context.Context, actor *domain.Actor, lotID int64) (*domain.AssetLot, error)
	List(ctx context.Context, actor *domain.Actor, filter repository.AssetFilter) ([]domain.AssetLot, error)
	AvailableQuantity(ctx context.Context, lotID int64) (int64, error)
	SetMaintenance(ctx context.Context, actor *domain.Actor, lotID int64) (*domain.AssetLot, error)
	ReturnToService(ctx context.Context, actor *domain.Actor, lotID int64) (*domain.AssetLot, error)
	BaseSummary(ctx context.Context, actor *domain.Actor, baseID int64) ([]domain.BaseSummary, error)
}

type CatalogService interface {
	CreateBase(ctx context.Context, actor *domain.Actor, b *domain.Base) error
	GetBase(ctx context.Context, baseID int64) (*domain.Base, error)
	ListBases(ctx context.Context) ([]domain.Base, error)
	CreateEquipmentType(ctx context.Context, actor *domain.Actor, t *domain.EquipmentType) error
	GetEquipmentType(ctx context.Context, typeID int64) (*domain.EquipmentType, error)
	ListEquipmentTypes(ctx context.Context) ([]domain.EquipmentType, error)
}

type NotificationService interface {
	List(ctx context.Context, actor *domain.Actor, limit, offset int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, actor *domain.Actor, notificationID int64) error
}

type EmailService interface {
	SendTransferNotice(ctx context.Context, subject, message string) error
	SendOverdueReminder(ctx context.Context, subject, message string) error
}

// readScope enforces the read-side base scoping: base commanders only see
// their own base, everyone else (including the read-only user role) sees all.
func readScope(actor *domain.Actor, baseID int64) error {
	if actor == nil || !actor.Active {
		return domain.Forbidden(domain.DenyRoleInsufficient, "inactive or missing actor")
	}
	if actor.Role == domain.RoleBaseCommander && !actor.CommandsBase(baseID) {
		return domain.Forbidden(domain.DenyBaseMismatch, "resource is outside the commander's base")
	}
	return nil
}
