package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// OpenTest opens a fresh in-memory database with all models migrated.
// Each call returns an independent database.
func OpenTest() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
