package database

import (
	"fmt"

	"github.com/kisaansetu/mandi-api/internal/database/migrations"
	"github.com/kisaansetu/mandi-api/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase initializes and returns a new GORM DB connection
func NewDatabase(path string) (*gorm.DB, error) {
	if path == "" {
		path = "mandi.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&types.Account{},
		&types.Listing{},
		&types.Bid{},
	)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := migrations.BackfillListingAggregates(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
