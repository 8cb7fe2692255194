package domain

import "time"

type TransferStatus string

const (
	TransferStatusInitiated TransferStatus = "INITIATED"
	TransferStatusInTransit TransferStatus = "IN_TRANSIT"
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// Transfer moves a quantity of an asset lot between two bases. The quantity
// is reserved out of the source lot at initiation and either relocates to the
// destination on completion or returns to the source on cancellation.
type Transfer struct {
	ID               int64          `json:"id"`
	SourceBaseID     int64          `json:"source_base_id"`
	DestBaseID       int64          `json:"dest_base_id"`
	EquipmentTypeID  int64          `json:"equipment_type_id"`
	AssetLotID       int64          `json:"asset_lot_id"`
	Quantity         int64          `json:"quantity"`
	Condition        AssetCondition `json:"condition"`
	Status           TransferStatus `json:"status"`
	TransportDetails string         `json:"transport_details"`
	Notes            string         `json:"notes"`
	InitiatedBy      int64          `json:"initiated_by"`
	ApprovedBy       *int64         `json:"approved_by,omitempty"`
	CompletedBy      *int64         `json:"completed_by,omitempty"`
	Version          int64          `json:"version"`
	CreatedOn        time.Time      `json:"created_on"`
	UpdatedOn        time.Time      `json:"updated_on"`
}
