// seed-dev fills a local database with sample site data so the executive
// analysis has something to read.
//
// Usage (from backend directory):
//
//	DB_DRIVER=sqlite SQLITE_PATH=site_backend.db go run ./cmd/seed-dev -workers 40 -days 7
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/config"
	"bitbucket.org/mmdatafocus/site_backend/models"
	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

var trades = []string{"Mason", "Carpenter", "Electrician", "Plumber", "Helper", "Welder"}

func main() {
	workerCount := flag.Int("workers", getenvInt("SEED_WORKERS", 30), "Number of workers to create")
	days := flag.Int("days", getenvInt("SEED_DAYS", 7), "Days of attendance history to create")
	absentEvery := flag.Int("absent-every", 6, "Mark every Nth worker absent each day (0 disables)")
	reset := flag.Bool("reset", false, "Delete existing seeded rows first")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	if err := models.MigrateTables(db); err != nil {
		fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
		os.Exit(1)
	}

	loc := config.AppLocation()
	today := utils.ConvertToDate(time.Now(), loc)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if *reset {
			for _, m := range []any{
				&models.Attendance{}, &models.LeaveRequest{}, &models.Incident{}, &models.DailyReport{},
				&models.Project{}, &models.Worker{}, &models.Client{}, &models.FinanceSnapshotDaily{},
			} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
					return err
				}
			}
		}
		return seed(tx, today, *workerCount, *days, *absentEvery)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d workers with %d days of attendance up to %s\n", *workerCount, *days, today.Format(utils.DateLayout))
}

func seed(tx *gorm.DB, today time.Time, workerCount, days, absentEvery int) error {
	client := models.Client{Name: "Golden Land Developers", Phone: "09-123456789"}
	if err := tx.Create(&client).Error; err != nil {
		return err
	}

	projects := []models.Project{
		{Name: "Riverside Tower", Status: models.ProjectStatusOngoing, Progress: 85},
		{Name: "Hlaing Warehouse", Status: models.ProjectStatusOngoing, Progress: 35},
		{Name: "School Extension", Status: models.ProjectStatusOnHold, Progress: 20},
		{Name: "Clinic Fit-out", Status: models.ProjectStatusCompleted, Progress: 100},
	}
	for i := range projects {
		projects[i].ClientId = client.ID
		projects[i].Budget = decimal.NewFromInt(int64(50_000_000 * (i + 1)))
	}
	if err := tx.Create(&projects).Error; err != nil {
		return err
	}

	workers := make([]models.Worker, workerCount)
	for i := range workers {
		workers[i] = models.Worker{
			Name:      fmt.Sprintf("Worker %03d", i+1),
			Trade:     trades[i%len(trades)],
			DailyWage: decimal.NewFromInt(15000),
		}
	}
	if len(workers) > 0 {
		if err := tx.CreateInBatches(&workers, 100).Error; err != nil {
			return err
		}
	}

	var attendance []models.Attendance
	for d := 0; d < days; d++ {
		date := today.AddDate(0, 0, -d)
		for i, w := range workers {
			present := absentEvery <= 0 || (i+d)%absentEvery != 0
			status := models.AttendanceStatusPresent
			if !present {
				status = models.AttendanceStatusAbsent
			}
			attendance = append(attendance, models.Attendance{
				WorkerId:  w.ID,
				Date:      date,
				IsPresent: present,
				Status:    status,
			})
		}
	}
	if len(attendance) > 0 {
		if err := tx.CreateInBatches(&attendance, 200).Error; err != nil {
			return err
		}
	}

	if len(workers) > 1 {
		leave := []models.LeaveRequest{
			{WorkerId: workers[0].ID, StartDate: today.AddDate(0, 0, 2), EndDate: today.AddDate(0, 0, 3), Reason: "Family event"},
			{WorkerId: workers[1].ID, StartDate: today.AddDate(0, 0, 5), EndDate: today.AddDate(0, 0, 5), Reason: "Medical", Status: models.LeaveRequestStatusApproved},
		}
		if err := tx.Create(&leave).Error; err != nil {
			return err
		}
	}

	if err := tx.Create(&models.Incident{ProjectId: projects[1].ID, Title: "Scaffold plank cracked", Severity: "medium", Status: "open"}).Error; err != nil {
		return err
	}

	return tx.Create(&models.FinanceSnapshotDaily{
		SnapshotDate:    today,
		CashBalance:     decimal.NewNullDecimal(decimal.NewFromInt(12_500_000)),
		TotalIncome:     decimal.NewNullDecimal(decimal.NewFromInt(48_000_000)),
		TotalExpenses:   decimal.NewNullDecimal(decimal.NewFromInt(41_250_000)),
		PendingPayments: decimal.NewNullDecimal(decimal.NewFromInt(3_400_000)),
	}).Error
}
