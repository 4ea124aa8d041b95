package expense

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"hivebooks-backend/internal/auth"
	"hivebooks-backend/internal/database"
	"hivebooks-backend/internal/models"
	"hivebooks-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newApp(t *testing.T, db *gorm.DB, actor *models.User) *fiber.App {
	t.Helper()
	database.DB = db

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, actor.ID)
		return c.Next()
	})
	app.Post("/expenses", CreateExpenseHandler())
	app.Post("/expenses/:id/archive", ArchiveExpenseHandler())
	app.Post("/expenses/:id/restore", RestoreExpenseHandler())
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

// Confirmations name the item, not the row id.
func TestExpenseMessagesNameItem(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)
	app := newApp(t, db, actor)

	status, body := postJSON(t, app, "/expenses",
		`{"item":"Office Supplies","cost":"1500.00","expense_date":"10/06/2026"}`)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Expense 'Office Supplies' recorded successfully.", body["message"])

	var e models.Expense
	require.NoError(t, db.First(&e, "item = ?", "Office Supplies").Error)

	status, body = postJSON(t, app, fmt.Sprintf("/expenses/%d/archive", e.ID), `{"reason":"entered twice"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Expense 'Office Supplies' archived.", body["message"])

	status, body = postJSON(t, app, fmt.Sprintf("/expenses/%d/restore", e.ID), `{}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Expense 'Office Supplies' restored.", body["message"])
}
