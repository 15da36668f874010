package model

import (
	"time"

	"gorm.io/gorm"
)

// Note represents a tenant-scoped note. Notes are visible and mutable only to
// users of the owning tenant; cross-tenant lookups behave as if the note does
// not exist.
type Note struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"type:varchar(255);not null"`
	Content   string         `json:"content" gorm:"type:text"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	AuthorID  uint           `json:"author_id" gorm:"index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
