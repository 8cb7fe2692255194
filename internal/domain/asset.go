package domain

import "time"

type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "AVAILABLE"
	AssetStatusAssigned    AssetStatus = "ASSIGNED"
	AssetStatusInTransit   AssetStatus = "IN_TRANSIT"
	AssetStatusMaintenance AssetStatus = "MAINTENANCE"
	AssetStatusExpended    AssetStatus = "EXPENDED"
)

type AssetCondition string

const (
	AssetConditionNew           AssetCondition = "NEW"
	AssetConditionGood          AssetCondition = "GOOD"
	AssetConditionFair          AssetCondition = "FAIR"
	AssetConditionPoor          AssetCondition = "POOR"
	AssetConditionUnserviceable AssetCondition = "UNSERVICEABLE"
)

// AssetLot is a quantity of one equipment type held at one base, tracked as a
// single ledger record. All quantity changes go through the workflow services;
// Version is the optimistic-concurrency token checked on every update.
type AssetLot struct {
	ID              int64          `json:"id"`
	SerialNumber    string         `json:"serial_number"`
	EquipmentTypeID int64          `json:"equipment_type_id"`
	BaseID          int64          `json:"base_id"`
	PurchaseID      *int64         `json:"purchase_id,omitempty"`
	Quantity        int64          `json:"quantity"`
	Status          AssetStatus    `json:"status"`
	Condition       AssetCondition `json:"condition"`
	Version         int64          `json:"version"`
	CreatedOn       time.Time      `json:"created_on"`
	UpdatedOn       time.Time      `json:"updated_on"`
}

// Available reports whether the lot can back a new reservation.
func (l *AssetLot) Available() bool {
	return l.Status == AssetStatusAvailable && l.Quantity > 0
}

// Retire zeroes the lot and marks it expended. A zero-quantity lot never
// rests in any other status.
func (l *AssetLot) Retire() {
	l.Quantity = 0
	l.Status = AssetStatusExpended
}

// BaseSummary aggregates a base's holdings and movements for one equipment
// type, used by the dashboard endpoint.
type BaseSummary struct {
	EquipmentTypeID int64 `json:"equipment_type_id"`
	AvailableQty    int64 `json:"available_qty"`
	AssignedQty     int64 `json:"assigned_qty"`
	MaintenanceQty  int64 `json:"maintenance_qty"`
	InboundTransit  int64 `json:"inbound_transit"`
	OutboundTransit int64 `json:"outbound_transit"`
	ExpendedQty     int64 `json:"expended_qty"`
}
