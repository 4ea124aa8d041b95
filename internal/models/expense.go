package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense - an operating expense. Soft delete keeps archived rows
// retrievable with the reason and the identity that archived them.
type Expense struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Tracked

	Item        string          `gorm:"size:200;not null" json:"item"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost"`
	ExpenseDate time.Time       `gorm:"type:date;index;not null" json:"expense_date"`
	Notes       string          `gorm:"type:text" json:"notes"`

	IsDeleted     bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt     *time.Time `json:"deleted_at"`
	DeletedReason string     `gorm:"type:text" json:"deleted_reason"`
	DeletedByID   *uint      `json:"deleted_by_id"`
	DeletedBy     *User      `gorm:"foreignKey:DeletedByID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (e *Expense) AuditEntityType() string { return "expense" }
func (e *Expense) AuditEntityID() uint     { return e.ID }

func (e *Expense) AuditTrackedFields() []string {
	return []string{"item", "cost", "expense_date", "notes"}
}

func (e *Expense) AuditSnapshot() map[string]string {
	return map[string]string{
		"item":         e.Item,
		"cost":         e.Cost.String(),
		"expense_date": e.ExpenseDate.Format("2006-01-02"),
		"notes":        e.Notes,
	}
}
