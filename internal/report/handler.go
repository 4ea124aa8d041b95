package report

import (
	"time"

	"hivebooks-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

// GET /api/reports/statistics?preset=this_month
// GET /api/reports/statistics?date_from=01/06/2026&date_to=30/06/2026
func StatisticsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := ResolveRange(c.Query("preset"), c.Query("date_from"), c.Query("date_to"), time.Now())
		if err != nil {
			return err
		}

		stats, err := Compute(database.DB, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute statistics")
		}
		return c.JSON(stats)
	}
}
