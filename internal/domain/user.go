package domain

import "time"

// UserStatus represents lifecycle states for a console user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for console operators and storefront shoppers.
// OrganizationID is nil for the superadmin role.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	OrganizationID *string
	Status         UserStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
