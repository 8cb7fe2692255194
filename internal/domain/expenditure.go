package domain

import "time"

type ExpenditureStatus string

const (
	ExpenditureStatusPending   ExpenditureStatus = "PENDING"
	ExpenditureStatusApproved  ExpenditureStatus = "APPROVED"
	ExpenditureStatusCompleted ExpenditureStatus = "COMPLETED"
	ExpenditureStatusCancelled ExpenditureStatus = "CANCELLED"
)

type ExpenditureReason string

const (
	ExpenditureReasonTraining    ExpenditureReason = "TRAINING"
	ExpenditureReasonOperation   ExpenditureReason = "OPERATION"
	ExpenditureReasonMaintenance ExpenditureReason = "MAINTENANCE"
	ExpenditureReasonDisposal    ExpenditureReason = "DISPOSAL"
	ExpenditureReasonOther       ExpenditureReason = "OTHER"
)

// Expenditure consumes a quantity of an asset lot through a
// PENDING -> APPROVED -> COMPLETED pipeline. The reservation is logical until
// completion: the lot is only decremented when the expenditure completes.
type Expenditure struct {
	ID            int64             `json:"id"`
	AssetLotID    int64             `json:"asset_lot_id"`
	BaseID        int64             `json:"base_id"`
	Quantity      int64             `json:"quantity"`
	Reason        ExpenditureReason `json:"reason"`
	Status        ExpenditureStatus `json:"status"`
	OperationName string            `json:"operation_name,omitempty"`
	Notes         string            `json:"notes"`
	CancelReason  string            `json:"cancel_reason,omitempty"`
	CreatedBy     int64             `json:"created_by"`
	ApprovedBy    *int64            `json:"approved_by,omitempty"`
	CompletedBy   *int64            `json:"completed_by,omitempty"`
	Version       int64             `json:"version"`
	CreatedOn     time.Time         `json:"created_on"`
	UpdatedOn     time.Time         `json:"updated_on"`
}

// ValidReason reports whether r is one of the enumerated reasons.
func ValidReason(r ExpenditureReason) bool {
	switch r {
	case ExpenditureReasonTraining, ExpenditureReasonOperation,
		ExpenditureReasonMaintenance, ExpenditureReasonDisposal,
		ExpenditureReasonOther:
		return true
	}
	return false
}
