package database

import (
	"fmt"

	"finance-tracker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AutoMigrate creates or updates the tables and makes sure every id
// sequence has a row.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Budget{},
		&models.Transaction{},
		&models.Sequence{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for collection, next := range models.DefaultSeq() {
		seq := models.Sequence{Collection: collection, Next: next}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
			return fmt.Errorf("seed sequence %s: %w", collection, err)
		}
	}
	return nil
}
