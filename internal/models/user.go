package models

import (
	"time"
)

// User represents a user row, including the password hash used for login.
type User struct {
	UserID       string     `db:"user_id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	Role         string     `db:"role"`
	PasswordHash string     `db:"password_hash"`
	IsActive     bool       `db:"is_active"`
	DeletedAt    *time.Time `db:"deleted_at"`
	AuditFields
}
