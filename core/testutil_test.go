package core

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// openTestDB gives each test its own in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig(LogLevelSilent))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(&Employee{}, &Credential{}, &Timesheet{}, &TimesheetRow{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
