package customer

import (
	"fmt"
	"time"

	"hivebooks-backend/internal/auth"
	"hivebooks-backend/internal/database"
	"hivebooks-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateCustomerRequest struct {
	Name string `json:"name"`
}

type ArchiveCustomerRequest struct {
	Reason string `json:"reason"`
}

type CustomerResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	IsDeleted     bool   `json:"is_deleted"`
	DeletedAt     string `json:"deleted_at,omitempty"`
	DeletedReason string `json:"deleted_reason,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type CustomerSaleResponse struct {
	ID            uint            `json:"id"`
	SaleDate      string          `json:"sale_date"`
	BottleType    string          `json:"bottle_type"`
	Quantity      int             `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PaymentStatus string          `json:"payment_status"`
}

func toResponse(cust *models.Customer) CustomerResponse {
	deletedAt := ""
	if cust.DeletedAt != nil {
		deletedAt = cust.DeletedAt.Format(time.RFC3339)
	}
	return CustomerResponse{
		ID:            cust.ID,
		Name:          cust.Name,
		IsDeleted:     cust.IsDeleted,
		DeletedAt:     deletedAt,
		DeletedReason: cust.DeletedReason,
		CreatedAt:     cust.CreatedAt.Format(time.RFC3339),
	}
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid ID")
	}
	return id, nil
}

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		cust, err := Create(database.DB, actor, body.Name)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":  fmt.Sprintf("Customer %s created successfully.", cust.Name),
			"customer": toResponse(cust),
		})
	}
}

// GET /api/customers?search=...
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		customers, err := Search(database.DB, c.Query("search"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list customers")
		}

		resp := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			resp = append(resp, toResponse(&customers[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/customers/archived
func ListArchivedCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		customers, err := Archived(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list archived customers")
		}

		resp := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			resp = append(resp, toResponse(&customers[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/customers/autocomplete?q=...
func AutocompleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		customers, err := Autocomplete(database.DB, c.Query("q"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not search customers")
		}

		names := make([]string, 0, len(customers))
		for _, cust := range customers {
			names = append(names, cust.Name)
		}
		return c.JSON(names)
	}
}

// GET /api/customers/:id - detail including the last 20 sales.
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		cust, sales, err := Get(database.DB, id)
		if err != nil {
			return err
		}

		saleResp := make([]CustomerSaleResponse, 0, len(sales))
		for _, s := range sales {
			saleResp = append(saleResp, CustomerSaleResponse{
				ID:            s.ID,
				SaleDate:      s.SaleDate.Format("2006-01-02"),
				BottleType:    string(s.BottleType),
				Quantity:      s.Quantity,
				TotalPrice:    s.TotalPrice,
				PaymentStatus: string(s.PaymentStatus),
			})
		}

		return c.JSON(fiber.Map{
			"customer": toResponse(cust),
			"sales":    saleResp,
		})
	}
}

// POST /api/customers/:id/archive
func ArchiveCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body ArchiveCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		cust, err := SoftDelete(database.DB, id, body.Reason)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": fmt.Sprintf("Customer %s archived successfully.", cust.Name)})
	}
}

// POST /api/customers/:id/restore
func RestoreCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		cust, err := Restore(database.DB, id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": fmt.Sprintf("Customer %s restored successfully.", cust.Name)})
	}
}
