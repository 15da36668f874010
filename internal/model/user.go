package model

import (
	"time"

	"gorm.io/gorm"
)

// Role is a user's role within their tenant. It is a closed set so the role
// gate can compare against known constants instead of free-form strings.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User represents the user model stored in the database. Email is unique
// across the whole system, not per tenant. Every user belongs to exactly one
// tenant.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Role      Role           `json:"role" gorm:"type:varchar(20);not null;default:'member'"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant Tenant `json:"-" gorm:"foreignKey:TenantID"`
}
