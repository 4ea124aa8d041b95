package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Batch - a purchased jerrycan of raw honey and the bottles produced from it.
// BatchID format: A24G02 (A24 = jerrycan, G02 = group number).
type Batch struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Tracked

	BatchID    string           `gorm:"size:50;uniqueIndex;not null" json:"batch_id"`
	Price      decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	TpCost     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"tp_cost"` // transport cost
	SupplyDate *time.Time       `gorm:"type:date;index" json:"supply_date"`
	Source     string           `gorm:"size:200" json:"source"` // supplier name or location

	Bottles25CL int `gorm:"not null;default:0" json:"bottles_25cl"`
	Bottles75CL int `gorm:"not null;default:0" json:"bottles_75cl"`
	Bottles1L   int `gorm:"not null;default:0" json:"bottles_1l"`
	Bottles4L   int `gorm:"not null;default:0" json:"bottles_4l"`

	Notes string `gorm:"type:text" json:"notes"`
}

// GroupNumber is the last 3 characters of the batch ID, empty when the ID is
// shorter than that.
func (b *Batch) GroupNumber() string {
	if len(b.BatchID) < 3 {
		return ""
	}
	return b.BatchID[len(b.BatchID)-3:]
}

// TotalBottles is the number of bottles produced from this jerrycan.
func (b *Batch) TotalBottles() int {
	return b.Bottles25CL + b.Bottles75CL + b.Bottles1L + b.Bottles4L
}

// TotalCost is purchase price plus transport cost, missing transport cost
// counting as zero.
func (b *Batch) TotalCost() decimal.Decimal {
	total := b.Price
	if b.TpCost != nil {
		total = total.Add(*b.TpCost)
	}
	return total
}

func (b *Batch) AuditEntityType() string { return "batch" }
func (b *Batch) AuditEntityID() uint     { return b.ID }

func (b *Batch) AuditTrackedFields() []string {
	return []string{
		"bottles_25cl", "bottles_75cl", "bottles_1l", "bottles_4l",
		"price", "tp_cost", "supply_date", "source",
	}
}

func (b *Batch) AuditSnapshot() map[string]string {
	tpCost := ""
	if b.TpCost != nil {
		tpCost = b.TpCost.String()
	}
	supplyDate := ""
	if b.SupplyDate != nil {
		supplyDate = b.SupplyDate.Format("2006-01-02")
	}
	return map[string]string{
		"bottles_25cl": strconv.Itoa(b.Bottles25CL),
		"bottles_75cl": strconv.Itoa(b.Bottles75CL),
		"bottles_1l":   strconv.Itoa(b.Bottles1L),
		"bottles_4l":   strconv.Itoa(b.Bottles4L),
		"price":        b.Price.String(),
		"tp_cost":      tpCost,
		"supply_date":  supplyDate,
		"source":       b.Source,
	}
}
