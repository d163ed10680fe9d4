package domain

import "time"

type UserRole string

const (
	RoleUser           UserRole = "USER"
	RoleCompanyManager UserRole = "COMPANY_MANAGER"
	RoleAdmin          UserRole = "ADMIN"
)

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Role     *UserRole
	IsActive *bool
	Limit    int
	Offset   int
}
