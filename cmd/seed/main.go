package main

import (
	"fmt"
	"log"
	"os"

	"axiapac.com/timesheets/core"
	"github.com/joho/godotenv"
)

// Creates the schema and the built-in administrator account.
func main() {
	godotenv.Load()

	dsn := os.Getenv("TIMESHEETS_DSN")
	if dsn == "" {
		log.Fatal("TIMESHEETS_DSN is not set")
	}

	db := core.ConnectDB(dsn)

	err := db.AutoMigrate(
		&core.Employee{},
		&core.Credential{},
		&core.Timesheet{},
		&core.TimesheetRow{},
	)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if err := core.EnsureAdminExists(db); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	fmt.Println("schema ready")
}
