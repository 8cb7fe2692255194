package domain

import "time"

// Base is a physical location that owns asset lots and scopes base-commander
// authorization.
type Base struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	CommanderID *int64    `json:"commander_id,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
}

// EquipmentType is reference data from the equipment catalog, read-only to
// the ledger.
type EquipmentType struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedOn time.Time `json:"created_on"`
}
