package audit

import (
	"fmt"

	"hivebooks-backend/internal/auth"
	"hivebooks-backend/internal/database"
	"hivebooks-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint   `json:"id"`
	EntityType  string `json:"entity_type"`
	EntityID    uint   `json:"entity_id"`
	FieldName   string `json:"field_name"`
	OldValue    string `json:"old_value"`
	NewValue    string `json:"new_value"`
	ChangedAt   string `json:"changed_at"`
	ChangedByID uint   `json:"changed_by_id"`
	ChangedBy   string `json:"changed_by"`
}

// GET /api/audit-logs?entity_type=batch&entity_id=1&user_id=2
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityType := c.Query("entity_type")
		entityIDStr := c.Query("entity_id")
		userIDStr := c.Query("user_id")

		dbq := database.DB.Model(&models.AuditLog{}).Preload("ChangedBy")

		if entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityIDStr != "" {
			var eid uint
			if _, err := fmt.Sscan(entityIDStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}
		if userIDStr != "" {
			var uid uint
			if _, err := fmt.Sscan(userIDStr, &uid); err == nil && uid > 0 {
				dbq = dbq.Where("changed_by_id = ?", uid)
			}
		}

		var entries []models.AuditLog
		if err := dbq.Order("changed_at DESC, id DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit entries")
		}

		resp := make([]AuditLogResponse, 0, len(entries))
		for _, entry := range entries {
			changedBy := ""
			if entry.ChangedBy != nil {
				changedBy = entry.ChangedBy.Name
			}
			resp = append(resp, AuditLogResponse{
				ID:          entry.ID,
				EntityType:  entry.EntityType,
				EntityID:    entry.EntityID,
				FieldName:   entry.FieldName,
				OldValue:    entry.OldValue,
				NewValue:    entry.NewValue,
				ChangedAt:   entry.ChangedAt.Format("2006-01-02 15:04:05"),
				ChangedByID: entry.ChangedByID,
				ChangedBy:   changedBy,
			})
		}

		return c.JSON(resp)
	}
}

// POST /api/audit-logs/:id/undo
func UndoAuditLogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		var logID uint
		if _, err := fmt.Sscan(idStr, &logID); err != nil || logID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid audit entry ID")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if err := Undo(database.DB, logID, actor); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"message": "Change reverted successfully",
		})
	}
}
