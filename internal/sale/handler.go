package sale

import (
	"fmt"
	"time"

	"hivebooks-backend/internal/auth"
	"hivebooks-backend/internal/database"
	"hivebooks-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRequest struct {
	CustomerID   *uint           `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	BottleType   string          `json:"bottle_type"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	BatchID      uint            `json:"batch_id"`
	IsWholesale  bool            `json:"is_wholesale"`
	Notes        string          `json:"notes"`
}

type SaleResponse struct {
	ID            uint            `json:"id"`
	CustomerID    *uint           `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	BottleType    string          `json:"bottle_type"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	BatchID       uint            `json:"batch_id"`
	PaymentStatus string          `json:"payment_status"`
	IsWholesale   bool            `json:"is_wholesale"`
	Notes         string          `json:"notes"`
	SaleDate      string          `json:"sale_date"`
	SaleTime      string          `json:"sale_time"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	IsDeleted     bool            `json:"is_deleted"`
	DeletedReason string          `json:"deleted_reason,omitempty"`
}

type AddPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

type PaymentResponse struct {
	ID            uint            `json:"id"`
	SaleID        uint            `json:"sale_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   string          `json:"payment_date"`
	Notes         string          `json:"notes"`
}

type ArchiveSaleRequest struct {
	Reason string `json:"reason"`
}

func toResponse(db *gorm.DB, s *models.Sale) (SaleResponse, error) {
	paid, err := AmountPaid(db, s.ID)
	if err != nil {
		return SaleResponse{}, fiber.NewError(fiber.StatusInternalServerError, "Could not compute payments")
	}
	return SaleResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		CustomerName:  s.CustomerName,
		BottleType:    string(s.BottleType),
		UnitPrice:     s.UnitPrice,
		Quantity:      s.Quantity,
		TotalPrice:    s.TotalPrice,
		BatchID:       s.BatchID,
		PaymentStatus: string(s.PaymentStatus),
		IsWholesale:   s.IsWholesale,
		Notes:         s.Notes,
		SaleDate:      s.SaleDate.Format("2006-01-02"),
		SaleTime:      s.SaleTime.Format("15:04:05"),
		AmountPaid:    paid,
		AmountDue:     s.TotalPrice.Sub(paid),
		IsDeleted:     s.IsDeleted,
		DeletedReason: s.DeletedReason,
	}, nil
}

func toPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		SaleID:        p.SaleID,
		Amount:        p.Amount,
		PaymentMethod: string(p.PaymentMethod),
		PaymentDate:   p.PaymentDate.Format(time.RFC3339),
		Notes:         p.Notes,
	}
}

func (r SaleRequest) toInput() Input {
	return Input{
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		BottleType:   r.BottleType,
		UnitPrice:    r.UnitPrice,
		Quantity:     r.Quantity,
		BatchID:      r.BatchID,
		IsWholesale:  r.IsWholesale,
		Notes:        r.Notes,
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params(name), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid ID")
	}
	return id, nil
}

// POST /api/sales
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		s, err := Create(database.DB, actor, body.toInput())
		if err != nil {
			return err
		}

		resp, err := toResponse(database.DB, s)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": fmt.Sprintf("Sale #%d recorded successfully.", s.ID),
			"sale":    resp,
		})
	}
}

// GET /api/sales?search=...&status=PARTIAL
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sales, err := List(database.DB, c.Query("search"), c.Query("status"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}
		return respondSaleList(c, sales)
	}
}

// GET /api/sales/archived
func ListArchivedSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sales, err := Archived(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list archived sales")
		}
		return respondSaleList(c, sales)
	}
}

func respondSaleList(c *fiber.Ctx, sales []models.Sale) error {
	resp := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		r, err := toResponse(database.DB, &sales[i])
		if err != nil {
			return err
		}
		resp = append(resp, r)
	}
	return c.JSON(resp)
}

// GET /api/sales/:id - detail including payments.
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		s, err := Get(database.DB, id)
		if err != nil {
			return err
		}

		resp, err := toResponse(database.DB, s)
		if err != nil {
			return err
		}

		payments := make([]PaymentResponse, 0, len(s.Payments))
		for i := range s.Payments {
			payments = append(payments, toPaymentResponse(&s.Payments[i]))
		}

		return c.JSON(fiber.Map{
			"sale":     resp,
			"payments": payments,
		})
	}
}

// PUT /api/sales/:id
func UpdateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var body SaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		s, err := Update(database.DB, actor, id, body.toInput())
		if err != nil {
			return err
		}

		resp, err := toResponse(database.DB, s)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Sale #%d updated successfully.", s.ID),
			"sale":    resp,
		})
	}
}

// POST /api/sales/:id/payments
func AddPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var body AddPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		p, err := AddPayment(database.DB, actor, id, body.Amount, body.PaymentMethod, body.Notes)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": fmt.Sprintf("Payment of %s recorded for sale #%d.", p.Amount.StringFixed(2), id),
			"payment": toPaymentResponse(p),
		})
	}
}

// DELETE /api/sales/:id/payments/:paymentID
func DeletePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}
		paymentID, err := parseIDParam(c, "paymentID")
		if err != nil {
			return err
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if err := DeletePayment(database.DB, actor, id, paymentID); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/sales/:id/archive
func ArchiveSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var body ArchiveSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if err := Archive(database.DB, actor, id, body.Reason); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": fmt.Sprintf("Sale #%d archived successfully.", id)})
	}
}

// POST /api/sales/:id/restore
func RestoreSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		if err := Restore(database.DB, id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": fmt.Sprintf("Sale #%d restored successfully.", id)})
	}
}
