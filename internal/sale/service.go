package sale

import (
	"strings"
	"time"

	"hivebooks-backend/internal/audit"
	"hivebooks-backend/internal/customer"
	"hivebooks-backend/internal/httperr"
	"hivebooks-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Input carries submitted sale fields. TotalPrice is never accepted from the
// caller; it is derived on every save.
type Input struct {
	CustomerID   *uint
	CustomerName string
	BottleType   string
	UnitPrice    decimal.Decimal
	Quantity     int
	BatchID      uint
	IsWholesale  bool
	Notes        string
}

func (in Input) validate() error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return httperr.Validationf("customer_name", "customer name is required")
	}
	if !models.ValidBottleType(in.BottleType) {
		return httperr.Validationf("bottle_type", "invalid bottle type %q", in.BottleType)
	}
	if in.Quantity <= 0 {
		return httperr.Validationf("quantity", "quantity must be a positive number")
	}
	if in.UnitPrice.IsNegative() {
		return httperr.Validationf("unit_price", "unit price cannot be negative")
	}
	if in.BatchID == 0 {
		return httperr.Validationf("batch_id", "batch is required")
	}
	return nil
}

// apply copies the submitted fields onto s and recomputes the derived total.
// Customer resolution happens in the same save, before the audit step: a
// named customer without a reference is looked up or registered on the spot.
func (in Input) apply(tx *gorm.DB, actor *models.User, s *models.Sale) error {
	s.CustomerName = strings.TrimSpace(in.CustomerName)
	s.CustomerID = in.CustomerID
	s.BottleType = models.BottleType(in.BottleType)
	s.UnitPrice = in.UnitPrice
	s.Quantity = in.Quantity
	s.BatchID = in.BatchID
	s.IsWholesale = in.IsWholesale
	s.Notes = in.Notes

	// Derived, overrides anything the caller supplied.
	s.TotalPrice = s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))

	if s.CustomerName != "" && s.CustomerID == nil {
		cust, err := customer.FindOrCreate(tx, actor, s.CustomerName)
		if err != nil {
			return err
		}
		s.CustomerID = &cust.ID
	}
	return nil
}

// Create records a new sale. Sale date and time are set here and never
// change afterward.
func Create(db *gorm.DB, actor *models.User, in Input) (*models.Sale, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *models.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		var b models.Batch
		if err := tx.First(&b, "id = ?", in.BatchID).Error; err != nil {
			return httperr.Validationf("batch_id", "batch %d not found", in.BatchID)
		}

		now := time.Now()
		s := models.Sale{
			PaymentStatus: models.PaymentUnpaid,
			SaleDate:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
			SaleTime:      now,
		}
		if err := in.apply(tx, actor, &s); err != nil {
			return err
		}
		s.Stamp(actor, true)

		if err := tx.Create(&s).Error; err != nil {
			return err
		}
		created = &s
		return nil
	})
	return created, err
}

// Update rewrites a sale's fields, recording the audit diff against the
// stored row inside one transaction. Payment status is untouched here: only
// payment creation and deletion drive it.
func Update(db *gorm.DB, actor *models.User, id uint, in Input) (*models.Sale, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *models.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		var stored models.Sale
		if err := tx.Where("is_deleted = ?", false).First(&stored, "id = ?", id).Error; err != nil {
			return httperr.NotFoundf("sale %d not found", id)
		}

		if in.BatchID != stored.BatchID {
			var b models.Batch
			if err := tx.First(&b, "id = ?", in.BatchID).Error; err != nil {
				return httperr.Validationf("batch_id", "batch %d not found", in.BatchID)
			}
		}

		s := stored
		if err := in.apply(tx, actor, &s); err != nil {
			return err
		}
		s.Stamp(actor, false)

		if err := audit.Record(tx, &stored, &s, s.ModifiedByID); err != nil {
			return err
		}
		if err := tx.Save(&s).Error; err != nil {
			return err
		}
		updated = &s
		return nil
	})
	return updated, err
}

// AmountPaid sums all payments recorded against a sale.
func AmountPaid(db *gorm.DB, saleID uint) (decimal.Decimal, error) {
	var payments []models.Payment
	if err := db.Where("sale_id = ?", saleID).Find(&payments).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}

// AddPayment records a payment against a sale. The amount must not exceed
// the balance due, computed fresh here; paying it off exactly is valid and
// drives the status to PAID. The creator attribution is set once and never
// touched again.
func AddPayment(db *gorm.DB, actor *models.User, saleID uint, amount decimal.Decimal, method, notes string) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, httperr.Validationf("amount", "amount must be greater than zero")
	}
	if method == "" {
		method = string(models.PayCash)
	}
	if !models.ValidPaymentMethod(method) {
		return nil, httperr.Validationf("payment_method", "invalid payment method %q", method)
	}

	var created *models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var s models.Sale
		if err := tx.Where("is_deleted = ?", false).First(&s, "id = ?", saleID).Error; err != nil {
			return httperr.NotFoundf("sale %d not found", saleID)
		}

		paid, err := AmountPaid(tx, s.ID)
		if err != nil {
			return err
		}
		due := s.TotalPrice.Sub(paid)
		if amount.GreaterThan(due) {
			return httperr.Validationf("amount", "amount exceeds balance due (%s)", due.StringFixed(2))
		}

		p := models.Payment{
			SaleID:        s.ID,
			Amount:        amount,
			PaymentMethod: models.PaymentMethod(method),
			PaymentDate:   time.Now(),
			Notes:         notes,
		}
		if actor != nil {
			id := actor.ID
			p.CreatedByID = &id
		}

		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		if err := refreshPaymentStatus(tx, s.ID, actor); err != nil {
			return err
		}
		created = &p
		return nil
	})
	return created, err
}

// DeletePayment removes one payment and recomputes the parent sale's
// status, which can move a PAID sale back to PARTIAL or UNPAID.
func DeletePayment(db *gorm.DB, actor *models.User, saleID, paymentID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var p models.Payment
		if err := tx.Where("sale_id = ?", saleID).First(&p, "id = ?", paymentID).Error; err != nil {
			return httperr.NotFoundf("payment %d not found for sale %d", paymentID, saleID)
		}

		if err := tx.Delete(&p).Error; err != nil {
			return err
		}
		return refreshPaymentStatus(tx, saleID, actor)
	})
}

// refreshPaymentStatus recomputes the derived status from scratch and saves
// it through the normal audited update path, so the transition shows in the
// trail. It is triggered only by payment creation and deletion.
func refreshPaymentStatus(tx *gorm.DB, saleID uint, actor *models.User) error {
	var stored models.Sale
	if err := tx.First(&stored, "id = ?", saleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil // sale vanished, nothing to refresh
		}
		return err
	}

	paid, err := AmountPaid(tx, saleID)
	if err != nil {
		return err
	}

	s := stored
	switch {
	case paid.IsZero():
		s.PaymentStatus = models.PaymentUnpaid
	case paid.GreaterThanOrEqual(s.TotalPrice):
		s.PaymentStatus = models.PaymentPaid
	default:
		s.PaymentStatus = models.PaymentPartial
	}

	s.Stamp(actor, false)
	if err := audit.Record(tx, &stored, &s, s.ModifiedByID); err != nil {
		return err
	}
	return tx.Save(&s).Error
}

// Archive soft-deletes a sale with a mandatory reason. Its payments are
// untouched and stay queryable through the sale.
func Archive(db *gorm.DB, actor *models.User, id uint, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return httperr.Validationf("reason", "a reason is required to archive a sale")
	}

	var s models.Sale
	if err := db.Where("is_deleted = ?", false).First(&s, "id = ?", id).Error; err != nil {
		return httperr.NotFoundf("sale %d not found", id)
	}

	now := time.Now()
	s.IsDeleted = true
	s.DeletedAt = &now
	s.DeletedReason = strings.TrimSpace(reason)
	if actor != nil {
		uid := actor.ID
		s.DeletedByID = &uid
	}
	return db.Save(&s).Error
}

// Restore brings an archived sale back. Restoring an active sale is a no-op.
func Restore(db *gorm.DB, id uint) error {
	var s models.Sale
	if err := db.First(&s, "id = ?", id).Error; err != nil {
		return httperr.NotFoundf("sale %d not found", id)
	}
	if !s.IsDeleted {
		return nil
	}

	s.IsDeleted = false
	s.DeletedAt = nil
	s.DeletedReason = ""
	s.DeletedByID = nil
	return db.Save(&s).Error
}

// Get loads one sale with its payments, archived or not.
func Get(db *gorm.DB, id uint) (*models.Sale, error) {
	var s models.Sale
	if err := db.Preload("Payments").First(&s, "id = ?", id).Error; err != nil {
		return nil, httperr.NotFoundf("sale %d not found", id)
	}
	return &s, nil
}

// List returns active sales, newest first. search matches the customer name
// snapshot, status filters on payment status.
func List(db *gorm.DB, search, status string) ([]models.Sale, error) {
	dbq := db.Model(&models.Sale{}).Where("is_deleted = ?", false)
	if search != "" {
		dbq = dbq.Where("customer_name LIKE ?", "%"+search+"%")
	}
	if status != "" {
		dbq = dbq.Where("payment_status = ?", status)
	}

	var sales []models.Sale
	if err := dbq.Order("sale_date DESC, sale_time DESC").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Archived returns soft-deleted sales, most recently archived first.
func Archived(db *gorm.DB) ([]models.Sale, error) {
	var sales []models.Sale
	if err := db.Where("is_deleted = ?", true).
		Order("deleted_at DESC").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
