package domain

import "time"

// Role determines what a user may do with entries.
type Role string

const (
	RoleManager       Role = "Manager"
	RoleAccountant    Role = "Accountant"
	RoleAdministrator Role = "Administrator"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleManager, RoleAccountant, RoleAdministrator:
		return true
	}
	return false
}

// CanReviewEntries reports whether the role may approve or reject entries.
func (r Role) CanReviewEntries() bool {
	return r == RoleManager
}

// User represents a user of the application in the domain.
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
