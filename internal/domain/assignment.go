package domain

import "time"

type AssignmentStatus string

const (
	AssignmentStatusActive   AssignmentStatus = "ACTIVE"
	AssignmentStatusReturned AssignmentStatus = "RETURNED"
	AssignmentStatusLost     AssignmentStatus = "LOST"
	AssignmentStatusDamaged  AssignmentStatus = "DAMAGED"
	// AssignmentStatusExpended is reached only when an expenditure consumes
	// the assigned lot, never by a direct assignment transition.
	AssignmentStatusExpended AssignmentStatus = "EXPENDED"
)

// Terminal reports whether no further assignment transition is defined.
func (s AssignmentStatus) Terminal() bool {
	return s != AssignmentStatusActive
}

// Assignment issues a whole lot to a person until it is returned, written
// off, or expended.
type Assignment struct {
	ID                 int64            `json:"id"`
	AssetLotID         int64            `json:"asset_lot_id"`
	BaseID             int64            `json:"base_id"`
	AssignedToID       int64            `json:"assigned_to_id"`
	AssignedOn         time.Time        `json:"assigned_on"`
	ExpectedReturnDate *time.Time       `json:"expected_return_date,omitempty"`
	Purpose            string           `json:"purpose"`
	Status             AssignmentStatus `json:"status"`
	ReturnCondition    AssetCondition   `json:"return_condition,omitempty"`
	Notes              string           `json:"notes"`
	CreatedBy          int64            `json:"created_by"`
	Version            int64            `json:"version"`
	CreatedOn          time.Time        `json:"created_on"`
	UpdatedOn          time.Time        `json:"updated_on"`
}
