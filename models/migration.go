package models

import (
	"log"

	"bitbucket.org/mmdatafocus/site_backend/config"
	"gorm.io/gorm"
)

// MigrateTable migrates the global DB and exits on failure.
func MigrateTable() {
	if err := MigrateTables(config.GetDB()); err != nil {
		log.Fatal(err)
	}
}

// MigrateTables creates the analysis table and, for local setups, the collaborator
// tables the engine reads. Production collaborator schemas are owned elsewhere.
func MigrateTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Worker{}, &Project{}, &Material{}, &Supplier{}, &Client{},
		&FinanceSnapshotDaily{}, &SystemSnapshotDaily{},
		&Attendance{}, &LeaveRequest{}, &Incident{}, &DailyReport{}, &Holiday{},
		&CEOAnalysisSnapshot{},
	)
}
