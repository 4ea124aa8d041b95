package customer

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"hivebooks-backend/internal/database"
	"hivebooks-backend/internal/models"
	"hivebooks-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

// Archive and restore confirmations name the customer.
func TestCustomerMessagesNameCustomer(t *testing.T) {
	db := testutil.NewDB(t)
	database.DB = db
	actor := seedUser(t, db)

	cust, err := Create(db, actor, "Musa Ibrahim")
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/customers/:id/archive", ArchiveCustomerHandler())
	app.Post("/customers/:id/restore", RestoreCustomerHandler())

	status, body := postJSON(t, app, fmt.Sprintf("/customers/%d/archive", cust.ID), `{"reason":"duplicate entry"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Customer Musa Ibrahim archived successfully.", body["message"])

	status, body = postJSON(t, app, fmt.Sprintf("/customers/%d/restore", cust.ID), `{}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Customer Musa Ibrahim restored successfully.", body["message"])

	var got models.Customer
	require.NoError(t, db.First(&got, "id = ?", cust.ID).Error)
	assert.False(t, got.IsDeleted)
}
