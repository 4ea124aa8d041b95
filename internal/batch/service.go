package batch

import (
	"strings"

	"hivebooks-backend/internal/audit"
	"hivebooks-backend/internal/dateinput"
	"hivebooks-backend/internal/httperr"
	"hivebooks-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Input carries submitted batch fields. Only BatchID is required; empty
// counts and price coerce to zero, empty transport cost stays null, and the
// supply date is raw user text (dd/mm/yyyy first).
type Input struct {
	BatchID     string
	Price       *decimal.Decimal
	TpCost      *decimal.Decimal
	SupplyDate  string
	Source      string
	Bottles25CL *int
	Bottles75CL *int
	Bottles1L   *int
	Bottles4L   *int
	Notes       string
}

func (in Input) validate() error {
	if strings.TrimSpace(in.BatchID) == "" {
		return httperr.Validationf("batch_id", "batch ID is required")
	}
	if in.Price != nil && in.Price.IsNegative() {
		return httperr.Validationf("price", "price cannot be negative")
	}
	for field, count := range map[string]*int{
		"bottles_25cl": in.Bottles25CL,
		"bottles_75cl": in.Bottles75CL,
		"bottles_1l":   in.Bottles1L,
		"bottles_4l":   in.Bottles4L,
	} {
		if count != nil && *count < 0 {
			return httperr.Validationf(field, "bottle count cannot be negative")
		}
	}
	return nil
}

// apply copies the submitted fields onto b, filling the stated defaults.
func (in Input) apply(b *models.Batch) error {
	supplyDate, err := dateinput.Parse("supply_date", in.SupplyDate)
	if err != nil {
		return err
	}

	b.BatchID = strings.TrimSpace(in.BatchID)
	b.Price = decimal.Zero
	if in.Price != nil {
		b.Price = *in.Price
	}
	b.TpCost = in.TpCost
	b.SupplyDate = supplyDate
	b.Source = in.Source
	b.Bottles25CL = intOrZero(in.Bottles25CL)
	b.Bottles75CL = intOrZero(in.Bottles75CL)
	b.Bottles1L = intOrZero(in.Bottles1L)
	b.Bottles4L = intOrZero(in.Bottles4L)
	b.Notes = in.Notes
	return nil
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// Create records a new batch. The batch ID must be unique.
func Create(db *gorm.DB, actor *models.User, in Input) (*models.Batch, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Batch{}).
		Where("batch_id = ?", strings.TrimSpace(in.BatchID)).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, httperr.Conflictf("batch %s already exists", strings.TrimSpace(in.BatchID))
	}

	var b models.Batch
	if err := in.apply(&b); err != nil {
		return nil, err
	}
	b.Stamp(actor, true)

	if err := db.Create(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// Update rewrites a batch's fields and records the audit diff against the
// stored row, inside one transaction.
func Update(db *gorm.DB, actor *models.User, id uint, in Input) (*models.Batch, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *models.Batch
	err := db.Transaction(func(tx *gorm.DB) error {
		var stored models.Batch
		if err := tx.First(&stored, "id = ?", id).Error; err != nil {
			return httperr.NotFoundf("batch %d not found", id)
		}

		newID := strings.TrimSpace(in.BatchID)
		if newID != stored.BatchID {
			var count int64
			if err := tx.Model(&models.Batch{}).
				Where("batch_id = ? AND id <> ?", newID, id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return httperr.Conflictf("batch %s already exists", newID)
			}
		}

		b := stored
		if err := in.apply(&b); err != nil {
			return err
		}
		b.Stamp(actor, false)

		if err := audit.Record(tx, &stored, &b, b.ModifiedByID); err != nil {
			return err
		}
		if err := tx.Save(&b).Error; err != nil {
			return err
		}
		updated = &b
		return nil
	})
	return updated, err
}

// Delete removes a batch permanently. Batches referenced by any sale are
// protected.
func Delete(db *gorm.DB, id uint) error {
	var b models.Batch
	if err := db.First(&b, "id = ?", id).Error; err != nil {
		return httperr.NotFoundf("batch %d not found", id)
	}

	var saleCount int64
	if err := db.Model(&models.Sale{}).
		Where("batch_id = ?", id).
		Count(&saleCount).Error; err != nil {
		return err
	}
	if saleCount > 0 {
		return httperr.Protectedf("batch %s cannot be deleted while sales reference it", b.BatchID)
	}

	return db.Delete(&models.Batch{}, "id = ?", id).Error
}

// Get loads one batch by primary key.
func Get(db *gorm.DB, id uint) (*models.Batch, error) {
	var b models.Batch
	if err := db.First(&b, "id = ?", id).Error; err != nil {
		return nil, httperr.NotFoundf("batch %d not found", id)
	}
	return &b, nil
}

// List returns batches, newest supply first. search matches anywhere in the
// batch ID, group matches the ID suffix.
func List(db *gorm.DB, search, group string) ([]models.Batch, error) {
	dbq := db.Model(&models.Batch{})
	if search != "" {
		dbq = dbq.Where("batch_id LIKE ?", "%"+search+"%")
	}
	if group != "" {
		dbq = dbq.Where("batch_id LIKE ?", "%"+group)
	}

	var batches []models.Batch
	if err := dbq.Order("supply_date DESC, created_at DESC").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

type GroupSummary struct {
	Group        string          `json:"group"`
	BatchCount   int             `json:"batch_count"`
	TotalBottles int             `json:"total_bottles"`
	Bottles25CL  int             `json:"bottles_25cl"`
	Bottles75CL  int             `json:"bottles_75cl"`
	Bottles1L    int             `json:"bottles_1l"`
	Bottles4L    int             `json:"bottles_4l"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// Summarize aggregates bottle and cost totals for every batch whose ID ends
// with the given group suffix.
func Summarize(db *gorm.DB, group string) (*GroupSummary, error) {
	batches, err := List(db, "", group)
	if err != nil {
		return nil, err
	}

	sum := GroupSummary{Group: group, TotalCost: decimal.Zero}
	for _, b := range batches {
		sum.BatchCount++
		sum.Bottles25CL += b.Bottles25CL
		sum.Bottles75CL += b.Bottles75CL
		sum.Bottles1L += b.Bottles1L
		sum.Bottles4L += b.Bottles4L
		sum.TotalBottles += b.TotalBottles()
		sum.TotalCost = sum.TotalCost.Add(b.TotalCost())
	}
	return &sum, nil
}
