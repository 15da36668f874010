package model

import (
	"time"

	"gorm.io/gorm"
)

// Plan is a tenant's subscription tier.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Tenant represents an isolated customer account. All notes and users are
// partitioned by tenant.
type Tenant struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Slug      string         `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Plan      Plan           `json:"plan" gorm:"type:varchar(20);not null;default:'free'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
