package expense

import (
	"fmt"
	"time"

	"hivebooks-backend/internal/auth"
	"hivebooks-backend/internal/database"
	"hivebooks-backend/internal/dateinput"
	"hivebooks-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ExpenseRequest struct {
	Item        string          `json:"item"`
	Cost        decimal.Decimal `json:"cost"`
	ExpenseDate string          `json:"expense_date"` // "dd/mm/yyyy" or "yyyy-mm-dd"
	Notes       string          `json:"notes"`
}

type ExpenseResponse struct {
	ID            uint            `json:"id"`
	Item          string          `json:"item"`
	Cost          decimal.Decimal `json:"cost"`
	ExpenseDate   string          `json:"expense_date"`
	Notes         string          `json:"notes"`
	IsDeleted     bool            `json:"is_deleted"`
	DeletedReason string          `json:"deleted_reason,omitempty"`
	CreatedAt     string          `json:"created_at"`
	ModifiedAt    string          `json:"modified_at"`
}

type ArchiveExpenseRequest struct {
	Reason string `json:"reason"`
}

func toResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		Item:          e.Item,
		Cost:          e.Cost,
		ExpenseDate:   e.ExpenseDate.Format("2006-01-02"),
		Notes:         e.Notes,
		IsDeleted:     e.IsDeleted,
		DeletedReason: e.DeletedReason,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		ModifiedAt:    e.ModifiedAt.Format(time.RFC3339),
	}
}

func (r ExpenseRequest) toInput() Input {
	return Input{
		Item:        r.Item,
		Cost:        r.Cost,
		ExpenseDate: r.ExpenseDate,
		Notes:       r.Notes,
	}
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid ID")
	}
	return id, nil
}

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		e, err := Create(database.DB, actor, body.toInput())
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": fmt.Sprintf("Expense '%s' recorded successfully.", e.Item),
			"expense": toResponse(e),
		})
	}
}

// GET /api/expenses?view=active|archived|all&search=fuel&date_from=01/06/2026&date_to=30/06/2026
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, err := dateinput.Parse("date_from", c.Query("date_from"))
		if err != nil {
			return err
		}
		to, err := dateinput.Parse("date_to", c.Query("date_to"))
		if err != nil {
			return err
		}

		expenses, err := List(database.DB, View(c.Query("view")), c.Query("search"), from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list expenses")
		}

		resp := make([]ExpenseResponse, 0, len(expenses))
		for i := range expenses {
			resp = append(resp, toResponse(&expenses[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/expenses/:id
func GetExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		e, err := Get(database.DB, id)
		if err != nil {
			return err
		}
		return c.JSON(toResponse(e))
	}
}

// PUT /api/expenses/:id
func UpdateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body ExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		e, err := Update(database.DB, actor, id, body.toInput())
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Expense '%s' updated successfully.", e.Item),
			"expense": toResponse(e),
		})
	}
}

// POST /api/expenses/:id/archive
func ArchiveExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body ArchiveExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		e, err := SoftDelete(database.DB, actor, id, body.Reason)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": fmt.Sprintf("Expense '%s' archived.", e.Item)})
	}
}

// POST /api/expenses/:id/restore
func RestoreExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		e, err := Restore(database.DB, id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": fmt.Sprintf("Expense '%s' restored.", e.Item)})
	}
}
