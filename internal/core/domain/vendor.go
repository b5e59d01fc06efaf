package domain

import "time"

// Vendor supplies restocked goods. The ledger only validates existence;
// Active is informational for the registry endpoints.
type Vendor struct {
	ID        int64
	Name      string
	Active    bool
	CreatedAt time.Time
}

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	DisplayName  string
	Role         Role
	Active       bool
	CreatedAt    time.Time
}
