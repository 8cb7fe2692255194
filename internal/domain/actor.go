package domain

type Role string

const (
	RoleAdmin            Role = "admin"
	RoleBaseCommander    Role = "base_commander"
	RoleLogisticsOfficer Role = "logistics_officer"
	RoleUser             Role = "user"
)

// Actor is the authenticated operator context supplied by the identity
// provider. The ledger consumes it as authorization input and never mutates
// it. BaseID is set only for base commanders.
type Actor struct {
	UserID int64  `json:"user_id"`
	Role   Role   `json:"role"`
	BaseID *int64 `json:"base_id,omitempty"`
	Active bool   `json:"active"`
}

// Unrestricted reports whether the actor's base scope is unlimited.
func (a *Actor) Unrestricted() bool {
	return a.Role == RoleAdmin || a.Role == RoleLogisticsOfficer
}

// CommandsBase reports whether the actor is the commander of baseID.
func (a *Actor) CommandsBase(baseID int64) bool {
	return a.Role == RoleBaseCommander && a.BaseID != nil && *a.BaseID == baseID
}
