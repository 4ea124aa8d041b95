package report

import (
	"time"

	"hivebooks-backend/internal/dateinput"
	"hivebooks-backend/internal/httperr"
	"hivebooks-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Statistics is the read-side aggregate over sales, payments, expenses and
// batch costs for one date range.
type Statistics struct {
	DateFrom       string          `json:"date_from,omitempty"`
	DateTo         string          `json:"date_to,omitempty"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	SalesCollected decimal.Decimal `json:"sales_collected"`
	SalesPending   decimal.Decimal `json:"sales_pending"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	TotalBatchCost decimal.Decimal `json:"total_batch_cost"`
}

// ResolveRange turns a preset name or a custom date pair into an inclusive
// [from, to] range. Both bounds nil means all-time. now anchors the presets.
func ResolveRange(preset, dateFrom, dateTo string, now time.Time) (*time.Time, *time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch preset {
	case "":
		// fall through to the custom range below
	case "this_week":
		monday := startOfWeek(today)
		return &monday, &today, nil
	case "last_week":
		monday := startOfWeek(today).AddDate(0, 0, -7)
		sunday := monday.AddDate(0, 0, 6)
		return &monday, &sunday, nil
	case "this_month":
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return &first, &today, nil
	case "last_month":
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		first := firstOfThis.AddDate(0, -1, 0)
		last := firstOfThis.AddDate(0, 0, -1)
		return &first, &last, nil
	default:
		return nil, nil, httperr.Validationf("preset", "unknown preset %q", preset)
	}

	from, err := dateinput.Parse("date_from", dateFrom)
	if err != nil {
		return nil, nil, err
	}
	to, err := dateinput.Parse("date_to", dateTo)
	if err != nil {
		return nil, nil, err
	}
	if (from == nil) != (to == nil) {
		return nil, nil, httperr.Validationf("date_from", "date_from and date_to must be given together")
	}
	if from != nil && from.After(*to) {
		return nil, nil, httperr.Validationf("date_from", "date_from must not be after date_to")
	}
	return from, to, nil
}

// startOfWeek returns the Monday of the week containing day.
func startOfWeek(day time.Time) time.Time {
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// Compute aggregates the ledgers over the given range. Soft-deleted sales
// and expenses are excluded; batches with no supply date count only in the
// all-time view. Sums run in Go so the figures come out the same on every
// database.
func Compute(db *gorm.DB, from, to *time.Time) (*Statistics, error) {
	stats := &Statistics{
		TotalSales:     decimal.Zero,
		SalesCollected: decimal.Zero,
		SalesPending:   decimal.Zero,
		TotalExpenses:  decimal.Zero,
		TotalBatchCost: decimal.Zero,
	}
	if from != nil {
		stats.DateFrom = from.Format("2006-01-02")
		stats.DateTo = to.Format("2006-01-02")
	}

	saleQ := db.Model(&models.Sale{}).Where("is_deleted = ?", false)
	if from != nil {
		saleQ = saleQ.Where("sale_date >= ? AND sale_date <= ?", *from, *to)
	}
	var sales []models.Sale
	if err := saleQ.Find(&sales).Error; err != nil {
		return nil, err
	}
	saleIDs := make([]uint, 0, len(sales))
	for i := range sales {
		stats.TotalSales = stats.TotalSales.Add(sales[i].TotalPrice)
		saleIDs = append(saleIDs, sales[i].ID)
	}

	// With no range, collected means every payment ever taken, including
	// payments against sales that were later archived. A ranged view scopes
	// payments to the filtered sale set instead.
	var payments []models.Payment
	if from == nil {
		if err := db.Find(&payments).Error; err != nil {
			return nil, err
		}
	} else if len(saleIDs) > 0 {
		if err := db.Where("sale_id IN ?", saleIDs).Find(&payments).Error; err != nil {
			return nil, err
		}
	}
	for i := range payments {
		stats.SalesCollected = stats.SalesCollected.Add(payments[i].Amount)
	}
	stats.SalesPending = stats.TotalSales.Sub(stats.SalesCollected)

	expQ := db.Model(&models.Expense{}).Where("is_deleted = ?", false)
	if from != nil {
		expQ = expQ.Where("expense_date >= ? AND expense_date <= ?", *from, *to)
	}
	var expenses []models.Expense
	if err := expQ.Find(&expenses).Error; err != nil {
		return nil, err
	}
	for i := range expenses {
		stats.TotalExpenses = stats.TotalExpenses.Add(expenses[i].Cost)
	}

	batchQ := db.Model(&models.Batch{})
	if from != nil {
		batchQ = batchQ.Where("supply_date >= ? AND supply_date <= ?", *from, *to)
	}
	var batches []models.Batch
	if err := batchQ.Find(&batches).Error; err != nil {
		return nil, err
	}
	for i := range batches {
		stats.TotalBatchCost = stats.TotalBatchCost.Add(batches[i].TotalCost())
	}

	return stats, nil
}
