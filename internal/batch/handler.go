package batch

import (
	"fmt"
	"time"

	"hivebooks-backend/internal/auth"
	"hivebooks-backend/internal/database"
	"hivebooks-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type BatchRequest struct {
	BatchID     string           `json:"batch_id"`
	Price       *decimal.Decimal `json:"price"`
	TpCost      *decimal.Decimal `json:"tp_cost"`
	SupplyDate  string           `json:"supply_date"` // "dd/mm/yyyy" or "yyyy-mm-dd"
	Source      string           `json:"source"`
	Bottles25CL *int             `json:"bottles_25cl"`
	Bottles75CL *int             `json:"bottles_75cl"`
	Bottles1L   *int             `json:"bottles_1l"`
	Bottles4L   *int             `json:"bottles_4l"`
	Notes       string           `json:"notes"`
}

type BatchResponse struct {
	ID           uint             `json:"id"`
	BatchID      string           `json:"batch_id"`
	GroupNumber  string           `json:"group_number"`
	Price        decimal.Decimal  `json:"price"`
	TpCost       *decimal.Decimal `json:"tp_cost"`
	TotalCost    decimal.Decimal  `json:"total_cost"`
	SupplyDate   string           `json:"supply_date"`
	Source       string           `json:"source"`
	Bottles25CL  int              `json:"bottles_25cl"`
	Bottles75CL  int              `json:"bottles_75cl"`
	Bottles1L    int              `json:"bottles_1l"`
	Bottles4L    int              `json:"bottles_4l"`
	TotalBottles int              `json:"total_bottles"`
	Notes        string           `json:"notes"`
	CreatedAt    string           `json:"created_at"`
	ModifiedAt   string           `json:"modified_at"`
}

func toResponse(b *models.Batch) BatchResponse {
	supplyDate := ""
	if b.SupplyDate != nil {
		supplyDate = b.SupplyDate.Format("2006-01-02")
	}
	return BatchResponse{
		ID:           b.ID,
		BatchID:      b.BatchID,
		GroupNumber:  b.GroupNumber(),
		Price:        b.Price,
		TpCost:       b.TpCost,
		TotalCost:    b.TotalCost(),
		SupplyDate:   supplyDate,
		Source:       b.Source,
		Bottles25CL:  b.Bottles25CL,
		Bottles75CL:  b.Bottles75CL,
		Bottles1L:    b.Bottles1L,
		Bottles4L:    b.Bottles4L,
		TotalBottles: b.TotalBottles(),
		Notes:        b.Notes,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
		ModifiedAt:   b.ModifiedAt.Format(time.RFC3339),
	}
}

func (r BatchRequest) toInput() Input {
	return Input{
		BatchID:     r.BatchID,
		Price:       r.Price,
		TpCost:      r.TpCost,
		SupplyDate:  r.SupplyDate,
		Source:      r.Source,
		Bottles25CL: r.Bottles25CL,
		Bottles75CL: r.Bottles75CL,
		Bottles1L:   r.Bottles1L,
		Bottles4L:   r.Bottles4L,
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

// POST /api/batches
func CreateBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		b, err := Create(database.DB, actor, body.toInput())
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": fmt.Sprintf("Batch %s created successfully.", b.BatchID),
			"batch":   toResponse(b),
		})
	}
}

// GET /api/batches?search=A24&group=G02
func ListBatchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		batches, err := List(database.DB, c.Query("search"), c.Query("group"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list batches")
		}

		resp := make([]BatchResponse, 0, len(batches))
		for i := range batches {
			resp = append(resp, toResponse(&batches[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/batches/:id
func GetBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		b, err := Get(database.DB, id)
		if err != nil {
			return err
		}
		return c.JSON(toResponse(b))
	}
}

// PUT /api/batches/:id
func UpdateBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body BatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		actor, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		b, err := Update(database.DB, actor, id, body.toInput())
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Batch %s updated successfully.", b.BatchID),
			"batch":   toResponse(b),
		})
	}
}

// DELETE /api/batches/:id
func DeleteBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		if err := Delete(database.DB, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/batches/group/:group
func GroupSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		group := c.Params("group")
		if group == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Group suffix is required")
		}

		sum, err := Summarize(database.DB, group)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute group summary")
		}
		return c.JSON(sum)
	}
}
