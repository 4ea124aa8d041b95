package expense

import (
	"testing"
	"time"

	"hivebooks-backend/internal/httperr"
	"hivebooks-backend/internal/models"
	"hivebooks-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	u := models.User{Name: "Test Clerk", Email: "clerk@example.com", PasswordHash: "x", Role: models.RoleStaff}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateExpense(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	e, err := Create(db, actor, Input{Item: "  Diesel  ", Cost: dec("15000.00"), ExpenseDate: "10/06/2026"})
	require.NoError(t, err)
	assert.Equal(t, "Diesel", e.Item)
	assert.Equal(t, "2026-06-10", e.ExpenseDate.Format("2006-01-02"))
	require.NotNil(t, e.CreatedByID)
	assert.Equal(t, actor.ID, *e.CreatedByID)
}

func TestCreateExpenseRequiresDate(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	_, err := Create(db, actor, Input{Item: "Diesel", Cost: dec("100")})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.Validation))

	var herr *httperr.Error
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, "expense_date", herr.Field)
	assert.Equal(t, "Expense date is required", herr.Message)
}

func TestCreateExpenseValidation(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	_, err := Create(db, actor, Input{Item: " ", Cost: dec("100"), ExpenseDate: "10/06/2026"})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.Validation))

	_, err = Create(db, actor, Input{Item: "Diesel", Cost: dec("-5"), ExpenseDate: "10/06/2026"})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.Validation))
}

func TestUpdateExpenseWritesAudit(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	e, err := Create(db, actor, Input{Item: "Diesel", Cost: dec("15000.00"), ExpenseDate: "10/06/2026"})
	require.NoError(t, err)

	got, err := Update(db, actor, e.ID, Input{Item: "Diesel", Cost: dec("18000.00"), ExpenseDate: "10/06/2026"})
	require.NoError(t, err)
	assert.True(t, got.Cost.Equal(dec("18000.00")))

	var logs []models.AuditLog
	require.NoError(t, db.Where("entity_type = ? AND entity_id = ?", "expense", e.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "cost", logs[0].FieldName)
	assert.True(t, dec("15000").Equal(decimal.RequireFromString(logs[0].OldValue)))
	assert.True(t, dec("18000").Equal(decimal.RequireFromString(logs[0].NewValue)))
}

func TestSoftDeleteAndRestore(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	e, err := Create(db, actor, Input{Item: "Diesel", Cost: dec("100"), ExpenseDate: "10/06/2026"})
	require.NoError(t, err)

	_, err = SoftDelete(db, actor, e.ID, " ")
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.Validation))

	gone, err := SoftDelete(db, actor, e.ID, "entered twice")
	require.NoError(t, err)
	assert.Equal(t, "Diesel", gone.Item)

	active, err := List(db, ViewActive, "", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, active)

	archived, err := List(db, ViewArchived, "", nil, nil)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "entered twice", archived[0].DeletedReason)

	all, err := List(db, ViewAll, "", nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = Restore(db, e.ID)
	require.NoError(t, err)
	_, err = Restore(db, e.ID) // no-op when already active
	require.NoError(t, err)

	var got models.Expense
	require.NoError(t, db.First(&got, "id = ?", e.ID).Error)
	assert.False(t, got.IsDeleted)
	assert.Nil(t, got.DeletedAt)
	assert.Empty(t, got.DeletedReason)
	assert.Nil(t, got.DeletedByID)
}

func TestListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	mk := func(item, date string) {
		_, err := Create(db, actor, Input{Item: item, Cost: dec("100"), ExpenseDate: date})
		require.NoError(t, err)
	}
	mk("Diesel", "01/06/2026")
	mk("Jar lids", "15/06/2026")
	mk("Diesel top-up", "01/07/2026")

	byItem, err := List(db, ViewActive, "Diesel", nil, nil)
	require.NoError(t, err)
	assert.Len(t, byItem, 2)

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	june, err := List(db, ViewActive, "", &from, &to)
	require.NoError(t, err)
	assert.Len(t, june, 2)
}
