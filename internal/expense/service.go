package expense

import (
	"strings"
	"time"

	"hivebooks-backend/internal/audit"
	"hivebooks-backend/internal/dateinput"
	"hivebooks-backend/internal/httperr"
	"hivebooks-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// View selects which slice of the expense table a listing covers.
type View string

const (
	ViewActive   View = "active"
	ViewArchived View = "archived"
	ViewAll      View = "all"
)

// Input carries submitted expense fields. Unlike a batch's supply date, the
// expense date is required.
type Input struct {
	Item        string
	Cost        decimal.Decimal
	ExpenseDate string
	Notes       string
}

func (in Input) parse() (*models.Expense, error) {
	if strings.TrimSpace(in.Item) == "" {
		return nil, httperr.Validationf("item", "item is required")
	}
	if in.Cost.IsNegative() {
		return nil, httperr.Validationf("cost", "cost cannot be negative")
	}
	if in.ExpenseDate == "" {
		return nil, httperr.Validationf("expense_date", "Expense date is required")
	}
	date, err := dateinput.Parse("expense_date", in.ExpenseDate)
	if err != nil {
		return nil, err
	}

	return &models.Expense{
		Item:        strings.TrimSpace(in.Item),
		Cost:        in.Cost,
		ExpenseDate: *date,
		Notes:       in.Notes,
	}, nil
}

// Create records a new expense. Creation is never audited.
func Create(db *gorm.DB, actor *models.User, in Input) (*models.Expense, error) {
	e, err := in.parse()
	if err != nil {
		return nil, err
	}
	e.Stamp(actor, true)

	if err := db.Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// Update rewrites an expense's fields, recording the audit diff against the
// stored row inside one transaction.
func Update(db *gorm.DB, actor *models.User, id uint, in Input) (*models.Expense, error) {
	parsed, err := in.parse()
	if err != nil {
		return nil, err
	}

	var updated *models.Expense
	err = db.Transaction(func(tx *gorm.DB) error {
		var stored models.Expense
		if err := tx.Where("is_deleted = ?", false).First(&stored, "id = ?", id).Error; err != nil {
			return httperr.NotFoundf("expense %d not found", id)
		}

		e := stored
		e.Item = parsed.Item
		e.Cost = parsed.Cost
		e.ExpenseDate = parsed.ExpenseDate
		e.Notes = parsed.Notes
		e.Stamp(actor, false)

		if err := audit.Record(tx, &stored, &e, e.ModifiedByID); err != nil {
			return err
		}
		if err := tx.Save(&e).Error; err != nil {
			return err
		}
		updated = &e
		return nil
	})
	return updated, err
}

// SoftDelete archives an expense with a mandatory reason and records who
// did it.
func SoftDelete(db *gorm.DB, actor *models.User, id uint, reason string) (*models.Expense, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, httperr.Validationf("reason", "a reason is required to archive an expense")
	}

	var e models.Expense
	if err := db.First(&e, "id = ?", id).Error; err != nil {
		return nil, httperr.NotFoundf("expense %d not found", id)
	}

	now := time.Now()
	e.IsDeleted = true
	e.DeletedAt = &now
	e.DeletedReason = strings.TrimSpace(reason)
	if actor != nil {
		uid := actor.ID
		e.DeletedByID = &uid
	}
	if err := db.Save(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// Restore clears all four soft-delete fields. Restoring an active expense
// is a no-op.
func Restore(db *gorm.DB, id uint) (*models.Expense, error) {
	var e models.Expense
	if err := db.First(&e, "id = ?", id).Error; err != nil {
		return nil, httperr.NotFoundf("expense %d not found", id)
	}
	if !e.IsDeleted {
		return &e, nil
	}

	e.IsDeleted = false
	e.DeletedAt = nil
	e.DeletedReason = ""
	e.DeletedByID = nil
	if err := db.Save(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// Get loads one expense, archived or not.
func Get(db *gorm.DB, id uint) (*models.Expense, error) {
	var e models.Expense
	if err := db.First(&e, "id = ?", id).Error; err != nil {
		return nil, httperr.NotFoundf("expense %d not found", id)
	}
	return &e, nil
}

// List returns expenses for the given view, newest first. search matches the
// item text; from/to bound the expense date inclusively.
func List(db *gorm.DB, view View, search string, from, to *time.Time) ([]models.Expense, error) {
	dbq := db.Model(&models.Expense{})

	switch view {
	case ViewArchived:
		dbq = dbq.Where("is_deleted = ?", true)
	case ViewAll:
		// no filter: oversight view shows everything
	default:
		dbq = dbq.Where("is_deleted = ?", false)
	}

	if search != "" {
		dbq = dbq.Where("item LIKE ?", "%"+search+"%")
	}
	if from != nil {
		dbq = dbq.Where("expense_date >= ?", *from)
	}
	if to != nil {
		dbq = dbq.Where("expense_date <= ?", *to)
	}

	var expenses []models.Expense
	if err := dbq.Order("expense_date DESC, created_at DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}
