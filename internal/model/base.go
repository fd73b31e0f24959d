package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel carries the shared columns of every table. Rows are never
// physically removed: deletion flips IsDeleted and the default read path
// filters it out.
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsDeleted bool      `json:"-" gorm:"not null;default:false;index"`
}

// Active is the default query scope excluding soft-deleted rows
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// WithDeleted is the explicit read path that includes soft-deleted rows
func WithDeleted(db *gorm.DB) *gorm.DB {
	return db
}

// SoftDelete marks a record as deleted without removing the row
func SoftDelete(db *gorm.DB, record interface{}) error {
	return db.Model(record).Update("is_deleted", true).Error
}
