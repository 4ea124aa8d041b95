package sale

import (
	"testing"

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

func seedBatch(t *testing.T, db *gorm.DB) *models.Batch {
	t.Helper()
	b := models.Batch{BatchID: "A24G02", Price: decimal.NewFromInt(50000)}
	require.NoError(t, db.Create(&b).Error)
	return &b
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newSale(t *testing.T, db *gorm.DB, actor *models.User, unitPrice string, qty int) *models.Sale {
	t.Helper()
	b := models.Batch{BatchID: "B" + unitPrice, Price: decimal.Zero}
	require.NoError(t, db.Create(&b).Error)
	s, err := Create(db, actor, Input{
		CustomerName: "Musa Ibrahim",
		BottleType:   string(models.Bottle75CL),
		UnitPrice:    dec(unitPrice),
		Quantity:     qty,
		BatchID:      b.ID,
	})
	require.NoError(t, err)
	return s
}

func TestCreateSaleDerivesTotal(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)
	b := seedBatch(t, db)

	s, err := Create(db, actor, Input{
		CustomerName: "Musa Ibrahim",
		BottleType:   string(models.Bottle1L),
		UnitPrice:    dec("2500.00"),
		Quantity:     4,
		BatchID:      b.ID,
	})
	require.NoError(t, err)

	assert.True(t, s.TotalPrice.Equal(dec("10000.00")))
	assert.Equal(t, models.PaymentUnpaid, s.PaymentStatus)
	assert.False(t, s.SaleDate.IsZero())
	require.NotNil(t, s.CustomerID)

	var cust models.Customer
	require.NoError(t, db.First(&cust, "id = ?", *s.CustomerID).Error)
	assert.Equal(t, "Musa Ibrahim", cust.Name)
}

func TestUpdateSaleOverridesTotal(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)
	s := newSale(t, db, actor, "2500.00", 4)

	got, err := Update(db, actor, s.ID, Input{
		CustomerName: "Musa Ibrahim",
		BottleType:   string(models.Bottle75CL),
		UnitPrice:    dec("3000.00"),
		Quantity:     3,
		BatchID:      s.BatchID,
	})
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(dec("9000.00")))
}

func TestCreateSaleValidation(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)
	b := seedBatch(t, db)

	cases := []Input{
		{CustomerName: "", BottleType: "1L", UnitPrice: dec("10"), Quantity: 1, BatchID: b.ID},
		{CustomerName: "X", BottleType: "2L", UnitPrice: dec("10"), Quantity: 1, BatchID: b.ID},
		{CustomerName: "X", BottleType: "1L", UnitPrice: dec("10"), Quantity: 0, BatchID: b.ID},
		{CustomerName: "X", BottleType: "1L", UnitPrice: dec("-1"), Quantity: 1, BatchID: b.ID},
		{CustomerName: "X", BottleType: "1L", UnitPrice: dec("10"), Quantity: 1, BatchID: 0},
	}
	for _, in := range cases {
		_, err := Create(db, actor, in)
		require.Error(t, err)
		assert.True(t, httperr.IsKind(err, httperr.Validation))
	}
}

func TestPaymentStateMachine(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)
	s := newSale(t, db, actor, "20000.00", 1)

	reload := func() models.Sale {
		var got models.Sale
		require.NoError(t, db.First(&got, "id = ?", s.ID).Error)
		return got
	}

	assert.Equal(t, models.PaymentUnpaid, reload().PaymentStatus)

	_, err := AddPayment(db, actor, s.ID, dec("5000.00"), "", "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPartial, reload().PaymentStatus)

	p2, err := AddPayment(db, actor, s.ID, dec("15000.00"), string(models.PayTransfer), "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, reload().PaymentStatus)

	// Removing the closing payment reopens the balance.
	require.NoError(t, DeletePayment(db, actor, s.ID, p2.ID))
	assert.Equal(t, models.PaymentPartial, reload().PaymentStatus)
}

func TestAddPaymentBoundary(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)
	s := newSale(t, db, actor, "10000.00", 1)

	_, err := AddPayment(db, actor, s.ID, dec("10000.01"), "", "")
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.Validation))

	_, err = AddPayment(db, actor, s.ID, dec("10000.00"), "", "")
	require.NoError(t, err)

	var got models.Sale
	require.NoError(t, db.First(&got, "id = ?", s.ID).Error)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
}

func TestAddPaymentRejectsNonPositive(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)
	s := newSale(t, db, actor, "10000.00", 1)

	for _, amount := range []string{"0", "-50"} {
		_, err := AddPayment(db, actor, s.ID, dec(amount), "", "")
		require.Error(t, err)
		assert.True(t, httperr.IsKind(err, httperr.Validation))
	}
}

func TestAddPaymentDefaultsAndAttribution(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)
	s := newSale(t, db, actor, "10000.00", 1)

	p, err := AddPayment(db, actor, s.ID, dec("4000.00"), "", "first instalment")
	require.NoError(t, err)
	assert.Equal(t, models.PayCash, p.PaymentMethod)
	require.NotNil(t, p.CreatedByID)
	assert.Equal(t, actor.ID, *p.CreatedByID)
}

func TestFindOrCreateCustomerDedup(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)

	s1 := newSale(t, db, actor, "100.00", 1)
	s2 := newSale(t, db, actor, "200.00", 1)

	require.NotNil(t, s1.CustomerID)
	require.NotNil(t, s2.CustomerID)
	assert.Equal(t, *s1.CustomerID, *s2.CustomerID)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestArchiveRequiresReason(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)
	s := newSale(t, db, actor, "100.00", 1)

	err := Archive(db, actor, s.ID, "  ")
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.Validation))

	require.NoError(t, Archive(db, actor, s.ID, "entered twice"))

	active, err := List(db, "", "")
	require.NoError(t, err)
	assert.Empty(t, active)

	archived, err := Archived(db)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "entered twice", archived[0].DeletedReason)
}

func TestRestoreIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)
	s := newSale(t, db, actor, "100.00", 1)

	require.NoError(t, Archive(db, actor, s.ID, "mistake"))
	require.NoError(t, Restore(db, s.ID))
	// Restoring an already-active sale changes nothing.
	require.NoError(t, Restore(db, s.ID))

	var got models.Sale
	require.NoError(t, db.First(&got, "id = ?", s.ID).Error)
	assert.False(t, got.IsDeleted)
	assert.Nil(t, got.DeletedAt)
	assert.Empty(t, got.DeletedReason)
}

func TestListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	actor := seedUser(t, db)
	b := seedBatch(t, db)

	mk := func(name string) *models.Sale {
		s, err := Create(db, actor, Input{
			CustomerName: name,
			BottleType:   "1L",
			UnitPrice:    dec("1000"),
			Quantity:     1,
			BatchID:      b.ID,
		})
		require.NoError(t, err)
		return s
	}
	mk("Musa Ibrahim")
	paid := mk("Amina Bello")
	_, err := AddPayment(db, actor, paid.ID, dec("1000"), "", "")
	require.NoError(t, err)

	byName, err := List(db, "Musa", "")
	require.NoError(t, err)
	assert.Len(t, byName, 1)

	byStatus, err := List(db, "", string(models.PaymentPaid))
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Amina Bello", byStatus[0].CustomerName)
}
