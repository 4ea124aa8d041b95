package main

import (
	"errors"
	"log"
	"strings"

	"hivebooks-backend/internal/audit"
	"hivebooks-backend/internal/auth"
	"hivebooks-backend/internal/batch"
	"hivebooks-backend/internal/config"
	"hivebooks-backend/internal/customer"
	"hivebooks-backend/internal/database"
	"hivebooks-backend/internal/expense"
	"hivebooks-backend/internal/httperr"
	"hivebooks-backend/internal/models"
	"hivebooks-backend/internal/report"
	"hivebooks-backend/internal/sale"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var herr *httperr.Error
			if errors.As(err, &herr) {
				body := fiber.Map{"error": herr.Message}
				if herr.Field != "" {
					body["field"] = herr.Field
				}
				return c.Status(herr.Status()).JSON(body)
			}
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Honey batches
	protected.Post("/batches", batch.CreateBatchHandler())
	protected.Get("/batches", batch.ListBatchesHandler())
	protected.Get("/batches/group/:group", batch.GroupSummaryHandler())
	protected.Get("/batches/:id", batch.GetBatchHandler())
	protected.Put("/batches/:id", batch.UpdateBatchHandler())
	protected.Delete("/batches/:id", batch.DeleteBatchHandler())

	// Customers
	protected.Post("/customers", customer.CreateCustomerHandler())
	protected.Get("/customers", customer.ListCustomersHandler())
	protected.Get("/customers/archived", customer.ListArchivedCustomersHandler())
	protected.Get("/customers/autocomplete", customer.AutocompleteHandler())
	protected.Get("/customers/:id", customer.GetCustomerHandler())
	protected.Post("/customers/:id/archive", customer.ArchiveCustomerHandler())
	protected.Post("/customers/:id/restore", customer.RestoreCustomerHandler())

	// Sales & payments
	protected.Post("/sales", sale.CreateSaleHandler())
	protected.Get("/sales", sale.ListSalesHandler())
	protected.Get("/sales/archived", sale.ListArchivedSalesHandler())
	protected.Get("/sales/:id", sale.GetSaleHandler())
	protected.Put("/sales/:id", sale.UpdateSaleHandler())
	protected.Post("/sales/:id/payments", sale.AddPaymentHandler())
	protected.Delete("/sales/:id/payments/:paymentID", sale.DeletePaymentHandler())
	protected.Post("/sales/:id/archive", sale.ArchiveSaleHandler())
	protected.Post("/sales/:id/restore", sale.RestoreSaleHandler())

	// Expenses
	protected.Post("/expenses", expense.CreateExpenseHandler())
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Get("/expenses/:id", expense.GetExpenseHandler())
	protected.Put("/expenses/:id", expense.UpdateExpenseHandler())
	protected.Post("/expenses/:id/archive", expense.ArchiveExpenseHandler())
	protected.Post("/expenses/:id/restore", expense.RestoreExpenseHandler())

	// Reports
	protected.Get("/reports/statistics", report.StatisticsHandler())

	// Audit logs; reverting a change is admin-only
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", auth.RequireRole(models.RoleAdmin), audit.UndoAuditLogHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
