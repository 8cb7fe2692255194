package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchaseStatusOrdered   PurchaseStatus = "ORDERED"
	PurchaseStatusDelivered PurchaseStatus = "DELIVERED"
	PurchaseStatusCancelled PurchaseStatus = "CANCELLED"
)

// Purchase is a procurement event. Delivery is the only path that creates new
// asset quantity in the ledger.
type Purchase struct {
	ID              int64           `json:"id"`
	EquipmentTypeID int64           `json:"equipment_type_id"`
	BaseID          int64           `json:"base_id"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	OrderDate       time.Time       `json:"order_date"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
	Status          PurchaseStatus  `json:"status"`
	Supplier        string          `json:"supplier"`
	Notes           string          `json:"notes"`
	CreatedBy       int64           `json:"created_by"`
	Version         int64           `json:"version"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
}

// RecomputeTotal keeps total_amount = quantity x unit_price on every write.
func (p *Purchase) RecomputeTotal() {
	p.TotalAmount = p.UnitPrice.Mul(decimal.NewFromInt(p.Quantity))
}
