package models

import "time"

// Customer - deduplicated customer registry entry. Soft-deleted customers
// stay linked from their sales but disappear from listings and searches.
type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Tracked

	// Uniqueness applies to active rows only, so the check lives in the
	// service layer rather than a database index.
	Name string `gorm:"size:200;index;not null" json:"name"`

	IsDeleted     bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt     *time.Time `json:"deleted_at"`
	DeletedReason string     `gorm:"type:text" json:"deleted_reason"`
}
