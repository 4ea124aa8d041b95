package audit

import (
	"strconv"
	"time"

	"hivebooks-backend/internal/httperr"
	"hivebooks-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Undo re-applies the old value of one audit entry onto the entity it came
// from. The reversal itself goes through the normal update path, so it shows
// up in the trail as a fresh entry attributed to the undoing user.
func Undo(db *gorm.DB, logID uint, actor *models.User) error {
	var entry models.AuditLog
	if err := db.First(&entry, "id = ?", logID).Error; err != nil {
		return httperr.NotFoundf("audit entry %d not found", logID)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		switch entry.EntityType {
		case "batch":
			return undoBatch(tx, entry, actor)
		case "sale":
			return undoSale(tx, entry, actor)
		case "expense":
			return undoExpense(tx, entry, actor)
		default:
			return httperr.Validationf("", "entries for %q cannot be undone", entry.EntityType)
		}
	})
}

func undoBatch(tx *gorm.DB, entry models.AuditLog, actor *models.User) error {
	var b models.Batch
	if err := tx.First(&b, "id = ?", entry.EntityID).Error; err != nil {
		return httperr.NotFoundf("batch %d no longer exists", entry.EntityID)
	}

	before := b
	if err := applyBatchField(&b, entry.FieldName, entry.OldValue); err != nil {
		return err
	}

	b.Stamp(actor, false)
	if err := Record(tx, &before, &b, b.ModifiedByID); err != nil {
		return err
	}
	return tx.Save(&b).Error
}

func undoSale(tx *gorm.DB, entry models.AuditLog, actor *models.User) error {
	var s models.Sale
	if err := tx.First(&s, "id = ?", entry.EntityID).Error; err != nil {
		return httperr.NotFoundf("sale %d no longer exists", entry.EntityID)
	}

	before := s
	if err := applySaleField(&s, entry.FieldName, entry.OldValue); err != nil {
		return err
	}
	// Total price is derived, never restored directly.
	s.TotalPrice = s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))

	s.Stamp(actor, false)
	if err := Record(tx, &before, &s, s.ModifiedByID); err != nil {
		return err
	}
	return tx.Save(&s).Error
}

func undoExpense(tx *gorm.DB, entry models.AuditLog, actor *models.User) error {
	var e models.Expense
	if err := tx.First(&e, "id = ?", entry.EntityID).Error; err != nil {
		return httperr.NotFoundf("expense %d no longer exists", entry.EntityID)
	}

	before := e
	if err := applyExpenseField(&e, entry.FieldName, entry.OldValue); err != nil {
		return err
	}

	e.Stamp(actor, false)
	if err := Record(tx, &before, &e, e.ModifiedByID); err != nil {
		return err
	}
	return tx.Save(&e).Error
}

func applyBatchField(b *models.Batch, field, value string) error {
	switch field {
	case "bottles_25cl", "bottles_75cl", "bottles_1l", "bottles_4l":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return httperr.Validationf(field, "invalid bottle count %q", value)
		}
		switch field {
		case "bottles_25cl":
			b.Bottles25CL = n
		case "bottles_75cl":
			b.Bottles75CL = n
		case "bottles_1l":
			b.Bottles1L = n
		case "bottles_4l":
			b.Bottles4L = n
		}
	case "price":
		d, err := decimal.NewFromString(value)
		if err != nil {
			return httperr.Validationf(field, "invalid amount %q", value)
		}
		b.Price = d
	case "tp_cost":
		if value == "" {
			b.TpCost = nil
			break
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return httperr.Validationf(field, "invalid amount %q", value)
		}
		b.TpCost = &d
	case "supply_date":
		if value == "" {
			b.SupplyDate = nil
			break
		}
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return httperr.Validationf(field, "invalid date %q", value)
		}
		b.SupplyDate = &t
	case "source":
		b.Source = value
	default:
		return httperr.Validationf(field, "field is not tracked for batches")
	}
	return nil
}

func applySaleField(s *models.Sale, field, value string) error {
	switch field {
	case "customer_name":
		s.CustomerName = value
	case "bottle_type":
		if !models.ValidBottleType(value) {
			return httperr.Validationf(field, "invalid bottle type %q", value)
		}
		s.BottleType = models.BottleType(value)
	case "unit_price":
		d, err := decimal.NewFromString(value)
		if err != nil {
			return httperr.Validationf(field, "invalid amount %q", value)
		}
		s.UnitPrice = d
	case "quantity":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return httperr.Validationf(field, "invalid quantity %q", value)
		}
		s.Quantity = n
	case "payment_status":
		switch models.PaymentStatus(value) {
		case models.PaymentUnpaid, models.PaymentPartial, models.PaymentPaid:
			s.PaymentStatus = models.PaymentStatus(value)
		default:
			return httperr.Validationf(field, "invalid payment status %q", value)
		}
	case "is_wholesale":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return httperr.Validationf(field, "invalid flag %q", value)
		}
		s.IsWholesale = v
	default:
		return httperr.Validationf(field, "field is not tracked for sales")
	}
	return nil
}

func applyExpenseField(e *models.Expense, field, value string) error {
	switch field {
	case "item":
		e.Item = value
	case "cost":
		d, err := decimal.NewFromString(value)
		if err != nil {
			return httperr.Validationf(field, "invalid amount %q", value)
		}
		e.Cost = d
	case "expense_date":
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return httperr.Validationf(field, "invalid date %q", value)
		}
		e.ExpenseDate = t
	case "notes":
		e.Notes = value
	default:
		return httperr.Validationf(field, "field is not tracked for expenses")
	}
	return nil
}
