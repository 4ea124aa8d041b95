package models

import "time"

// AuditLog - one field-level change on a tracked entity. Append-only: rows
// are never updated or deleted, and the referenced entity may be gone.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Which entity? (e.g. "batch", "sale", "expense")
	EntityType string `gorm:"size:50;index;not null" json:"entity_type"`
	EntityID   uint   `gorm:"index;not null" json:"entity_id"`

	FieldName string `gorm:"size:100;not null" json:"field_name"`
	OldValue  string `gorm:"type:text" json:"old_value"`
	NewValue  string `gorm:"type:text" json:"new_value"`

	ChangedAt   time.Time `json:"changed_at"`
	ChangedByID uint      `gorm:"not null;index" json:"changed_by_id"`
	ChangedBy   *User     `gorm:"foreignKey:ChangedByID;constraint:OnDelete:RESTRICT" json:"-"`
}
