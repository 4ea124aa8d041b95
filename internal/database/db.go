package database

import (
	"log"

	"hivebooks-backend/internal/config"
	"hivebooks-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connection established. Migration complete.")
}

// Migrate creates or updates the schema for the full model set.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Batch{},
		&models.Customer{},
		&models.Sale{},
		&models.Payment{},
		&models.Expense{},
		&models.AuditLog{},
	)
}
