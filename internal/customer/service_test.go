package customer

import (
	"testing"

	"hivebooks-backend/internal/httperr"
	"hivebooks-backend/internal/models"
	"hivebooks-backend/internal/testutil"

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

func TestCreateCustomer(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	c, err := Create(db, actor, "  Musa Ibrahim  ")
	require.NoError(t, err)
	assert.Equal(t, "Musa Ibrahim", c.Name)
	require.NotNil(t, c.CreatedByID)
	assert.Equal(t, actor.ID, *c.CreatedByID)

	_, err = Create(db, actor, "Musa Ibrahim")
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.Conflict))

	_, err = Create(db, actor, "   ")
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.Validation))
}

func TestFindOrCreateExactMatch(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	first, err := FindOrCreate(db, actor, "Musa Ibrahim")
	require.NoError(t, err)

	second, err := FindOrCreate(db, actor, "Musa Ibrahim")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Lookup is case-sensitive: a different casing is a different customer.
	other, err := FindOrCreate(db, actor, "musa ibrahim")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	c, err := Create(db, actor, "Musa Ibrahim")
	require.NoError(t, err)

	_, err = SoftDelete(db, c.ID, "")
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.Validation))

	gone, err := SoftDelete(db, c.ID, "duplicate entry")
	require.NoError(t, err)
	assert.Equal(t, "Musa Ibrahim", gone.Name)

	active, err := Search(db, "")
	require.NoError(t, err)
	assert.Empty(t, active)

	archived, err := Archived(db)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "duplicate entry", archived[0].DeletedReason)

	_, err = Restore(db, c.ID)
	require.NoError(t, err)
	_, err = Restore(db, c.ID) // no-op on an active customer
	require.NoError(t, err)

	active, err = Search(db, "")
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestArchivedNameCanBeReused(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	c, err := Create(db, actor, "Musa Ibrahim")
	require.NoError(t, err)
	_, err = SoftDelete(db, c.ID, "moved away")
	require.NoError(t, err)

	// Only active rows participate in the uniqueness check.
	again, err := Create(db, actor, "Musa Ibrahim")
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, again.ID)
}

func TestAutocomplete(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	names := []string{"Musa Ibrahim", "Musa Bello", "Amina Yusuf"}
	for _, n := range names {
		_, err := Create(db, actor, n)
		require.NoError(t, err)
	}

	empty, err := Autocomplete(db, "")
	require.NoError(t, err)
	assert.Empty(t, empty)

	musa, err := Autocomplete(db, "Musa")
	require.NoError(t, err)
	assert.Len(t, musa, 2)
}

func TestGetCustomerWithSales(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	c, err := Create(db, actor, "Musa Ibrahim")
	require.NoError(t, err)

	b := models.Batch{BatchID: "A24G02"}
	require.NoError(t, db.Create(&b).Error)
	s := models.Sale{
		CustomerID:   &c.ID,
		CustomerName: c.Name,
		BottleType:   models.Bottle1L,
		Quantity:     1,
		BatchID:      b.ID,
	}
	require.NoError(t, db.Create(&s).Error)

	got, sales, err := Get(db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	require.Len(t, sales, 1)
	assert.Equal(t, s.ID, sales[0].ID)

	_, _, err = Get(db, 9999)
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.NotFound))
}
