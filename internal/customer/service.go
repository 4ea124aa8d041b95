package customer

import (
	"strings"
	"time"

	"hivebooks-backend/internal/httperr"
	"hivebooks-backend/internal/models"

	"gorm.io/gorm"
)

// Create adds a customer with the given name. Duplicate active names are
// rejected.
func Create(db *gorm.DB, actor *models.User, name string) (*models.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, httperr.Validationf("name", "name is required")
	}

	var count int64
	if err := db.Model(&models.Customer{}).
		Where("name = ? AND is_deleted = ?", name, false).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, httperr.Conflictf("customer %q already exists", name)
	}

	cust := models.Customer{Name: name}
	cust.Stamp(actor, true)

	if err := db.Create(&cust).Error; err != nil {
		return nil, err
	}
	return &cust, nil
}

// FindOrCreate returns the active customer with exactly this name
// (case-sensitive), creating one with the actor's attribution when absent.
// Used by sale creation, so a sale naming a new customer registers them.
func FindOrCreate(db *gorm.DB, actor *models.User, name string) (*models.Customer, error) {
	var cust models.Customer
	err := db.Where("name = ? AND is_deleted = ?", name, false).First(&cust).Error
	if err == nil {
		return &cust, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	cust = models.Customer{Name: name}
	cust.Stamp(actor, true)
	if err := db.Create(&cust).Error; err != nil {
		return nil, err
	}
	return &cust, nil
}

// SoftDelete hides a customer from listings and searches. Their sales keep
// both the customer reference and the name snapshot.
func SoftDelete(db *gorm.DB, id uint, reason string) (*models.Customer, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, httperr.Validationf("reason", "a reason is required to archive a customer")
	}

	var cust models.Customer
	if err := db.First(&cust, "id = ?", id).Error; err != nil {
		return nil, httperr.NotFoundf("customer %d not found", id)
	}

	now := time.Now()
	cust.IsDeleted = true
	cust.DeletedAt = &now
	cust.DeletedReason = strings.TrimSpace(reason)
	if err := db.Save(&cust).Error; err != nil {
		return nil, err
	}
	return &cust, nil
}

// Restore clears the soft-delete fields. Restoring an active customer is a
// no-op.
func Restore(db *gorm.DB, id uint) (*models.Customer, error) {
	var cust models.Customer
	if err := db.First(&cust, "id = ?", id).Error; err != nil {
		return nil, httperr.NotFoundf("customer %d not found", id)
	}
	if !cust.IsDeleted {
		return &cust, nil
	}

	cust.IsDeleted = false
	cust.DeletedAt = nil
	cust.DeletedReason = ""
	if err := db.Save(&cust).Error; err != nil {
		return nil, err
	}
	return &cust, nil
}

// Search lists active customers by name, optionally filtered by substring.
func Search(db *gorm.DB, search string) ([]models.Customer, error) {
	dbq := db.Model(&models.Customer{}).Where("is_deleted = ?", false)
	if search != "" {
		dbq = dbq.Where("name LIKE ?", "%"+search+"%")
	}

	var customers []models.Customer
	if err := dbq.Order("name ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Archived lists soft-deleted customers, most recently archived first.
func Archived(db *gorm.DB) ([]models.Customer, error) {
	var customers []models.Customer
	if err := db.Where("is_deleted = ?", true).
		Order("deleted_at DESC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Autocomplete returns up to 10 active name matches. An empty query yields
// an empty result.
func Autocomplete(db *gorm.DB, query string) ([]models.Customer, error) {
	if query == "" {
		return []models.Customer{}, nil
	}

	var customers []models.Customer
	if err := db.Where("is_deleted = ? AND name LIKE ?", false, "%"+query+"%").
		Order("name ASC").Limit(10).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Get loads one active customer with their last 20 active sales.
func Get(db *gorm.DB, id uint) (*models.Customer, []models.Sale, error) {
	var cust models.Customer
	if err := db.Where("is_deleted = ?", false).First(&cust, "id = ?", id).Error; err != nil {
		return nil, nil, httperr.NotFoundf("customer %d not found", id)
	}

	var sales []models.Sale
	if err := db.Where("customer_id = ? AND is_deleted = ?", id, false).
		Order("sale_date DESC, sale_time DESC").Limit(20).Find(&sales).Error; err != nil {
		return nil, nil, err
	}
	return &cust, sales, nil
}
