package models

import "time"

// Tracked carries the timestamp and attribution fields shared by every
// bookkeeping entity. CreatedAt/CreatedByID are set once at creation,
// ModifiedAt/ModifiedByID on every save.
type Tracked struct {
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
	CreatedByID  *uint     `json:"created_by_id"`
	CreatedBy    *User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT" json:"-"`
	ModifiedByID *uint     `json:"modified_by_id"`
	ModifiedBy   *User     `gorm:"foreignKey:ModifiedByID;constraint:OnDelete:RESTRICT" json:"-"`
}

// Stamp applies timestamps and attribution for a save. Attribution fields
// stay unset when there is no acting user (system/background context).
func (t *Tracked) Stamp(actor *User, isNew bool) {
	now := time.Now()
	if isNew {
		t.CreatedAt = now
	}
	t.ModifiedAt = now
	if actor == nil {
		return
	}
	id := actor.ID
	if isNew {
		t.CreatedByID = &id
	}
	t.ModifiedByID = &id
}
