package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type BottleType string

const (
	Bottle25CL BottleType = "25CL"
	Bottle75CL BottleType = "75CL"
	Bottle1L   BottleType = "1L"
	Bottle4L   BottleType = "4L"
)

// ValidBottleType reports whether s is one of the sold container sizes.
func ValidBottleType(s string) bool {
	switch BottleType(s) {
	case Bottle25CL, Bottle75CL, Bottle1L, Bottle4L:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

// Sale - one transaction with a customer. CustomerName is a snapshot kept
// for display even if the customer link is later cleared; TotalPrice is
// always derived from unit price and quantity. PaymentStatus is derived
// from the linked payments.
type Sale struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Tracked

	CustomerID   *uint     `gorm:"index" json:"customer_id"`
	Customer     *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"-"`
	CustomerName string    `gorm:"size:200;not null" json:"customer_name"`

	BottleType BottleType      `gorm:"size:10;not null" json:"bottle_type"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`

	BatchID uint  `gorm:"index;not null" json:"batch_id"`
	Batch   Batch `gorm:"foreignKey:BatchID;constraint:OnDelete:RESTRICT" json:"-"`

	PaymentStatus PaymentStatus `gorm:"size:10;not null;default:UNPAID" json:"payment_status"`
	IsWholesale   bool          `gorm:"not null;default:false" json:"is_wholesale"`
	Notes         string        `gorm:"type:text" json:"notes"`

	// Set once at creation, never edited afterward.
	SaleDate time.Time `gorm:"type:date;index;not null" json:"sale_date"`
	SaleTime time.Time `gorm:"not null" json:"sale_time"`

	Payments []Payment `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`

	IsDeleted     bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt     *time.Time `json:"deleted_at"`
	DeletedReason string     `gorm:"type:text" json:"deleted_reason"`
	DeletedByID   *uint      `json:"deleted_by_id"`
	DeletedBy     *User      `gorm:"foreignKey:DeletedByID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (s *Sale) AuditEntityType() string { return "sale" }
func (s *Sale) AuditEntityID() uint     { return s.ID }

func (s *Sale) AuditTrackedFields() []string {
	return []string{
		"customer_name", "bottle_type", "unit_price",
		"quantity", "payment_status", "is_wholesale",
	}
}

func (s *Sale) AuditSnapshot() map[string]string {
	return map[string]string{
		"customer_name":  s.CustomerName,
		"bottle_type":    string(s.BottleType),
		"unit_price":     s.UnitPrice.String(),
		"quantity":       strconv.Itoa(s.Quantity),
		"payment_status": string(s.PaymentStatus),
		"is_wholesale":   strconv.FormatBool(s.IsWholesale),
	}
}

type PaymentMethod string

const (
	PayCash     PaymentMethod = "CASH"
	PayTransfer PaymentMethod = "TRANSFER"
	PayPOS      PaymentMethod = "POS"
	PayCheque   PaymentMethod = "CHEQUE"
)

// ValidPaymentMethod reports whether s is an accepted payment method.
func ValidPaymentMethod(s string) bool {
	switch PaymentMethod(s) {
	case PayCash, PayTransfer, PayPOS, PayCheque:
		return true
	}
	return false
}

// Payment - money received against a sale. Deleting the sale deletes its
// payments; creating or deleting a payment drives the sale's payment status.
type Payment struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	SaleID uint `gorm:"index;not null" json:"sale_id"`

	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod PaymentMethod   `gorm:"size:20;not null;default:CASH" json:"payment_method"`
	PaymentDate   time.Time       `gorm:"not null" json:"payment_date"` // set once
	Notes         string          `gorm:"type:text" json:"notes"`

	CreatedAt   time.Time `json:"created_at"`
	CreatedByID *uint     `json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT" json:"-"`
}
