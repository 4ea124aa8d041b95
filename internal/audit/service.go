package audit

import (
	"fmt"
	"time"

	"hivebooks-backend/internal/models"

	"gorm.io/gorm"
)

// Auditable is implemented by every entity whose field changes are recorded.
// The tracked-field list is fixed per entity type; snapshots are stringified
// field values keyed by field name.
type Auditable interface {
	AuditEntityType() string
	AuditEntityID() uint
	AuditTrackedFields() []string
	AuditSnapshot() map[string]string
}

// Record appends one AuditLog row per tracked field whose value differs
// between the stored row (before) and the row about to be written (after).
// Creation events are never audited; callers pass before only on updates,
// and it must be loaded fresh from the store inside the same transaction.
//
// Skipped silently when before is nil (row vanished before the save) or when
// changedBy is nil (no acting identity - an entry must always name an actor).
func Record(tx *gorm.DB, before, after Auditable, changedBy *uint) error {
	if before == nil || changedBy == nil {
		return nil
	}

	old := before.AuditSnapshot()
	cur := after.AuditSnapshot()
	now := time.Now()

	for _, field := range after.AuditTrackedFields() {
		if old[field] == cur[field] {
			continue
		}

		entry := models.AuditLog{
			EntityType:  after.AuditEntityType(),
			EntityID:    after.AuditEntityID(),
			FieldName:   field,
			OldValue:    old[field],
			NewValue:    cur[field],
			ChangedAt:   now,
			ChangedByID: *changedBy,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("could not write audit entry: %w", err)
		}
	}

	return nil
}
