package analytics

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/site_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	sourceWorkers       = "workers"
	sourceProjects      = "projects"
	sourceMaterials     = "materials"
	sourceSuppliers     = "suppliers"
	sourceClients       = "clients"
	sourceFinance       = "finance_snapshot_daily"
	sourceSystem        = "system_snapshot_daily"
	sourceAttendance    = "attendances"
	sourceLeaveRequests = "leave_requests"
	sourceIncidents     = "incidents"
	sourceDailyReports  = "daily_reports"
	sourceHolidays      = "holidays"
)

const (
	projectsLimit      = 50
	materialsLimit     = 100
	suppliersLimit     = 50
	clientsLimit       = 50
	attendanceLimit    = 500
	leaveRequestsLimit = 50
	incidentsLimit     = 30
	dailyReportsLimit  = 30
)

// failOpen runs read against the engine's database and maps any error, or
// panic, to the zero value of T. It never reports failure to its caller.
func failOpen[T any](ctx context.Context, e *Engine, source string, read func(db *gorm.DB) (T, error)) (result T) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			e.sourceFailed(ctx, source, fmt.Errorf("panic: %v", r))
		}
	}()
	if e.db == nil {
		e.sourceFailed(ctx, source, errors.New("database is not connected"))
		return result
	}
	v, err := read(e.db.WithContext(ctx))
	if err != nil {
		e.sourceFailed(ctx, source, err)
		var zero T
		return zero
	}
	return v
}

func (e *Engine) sourceFailed(ctx context.Context, source string, err error) {
	sourceFailures.WithLabelValues(source).Inc()
	e.logger.WithFields(requestFields(ctx, logrus.Fields{
		"module": "analytics",
		"source": source,
	})).Warn("source read failed; using empty default: " + err.Error())
}

func orderBy(table, column string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Table: table, Name: column}, Desc: desc}
}

// listRows reads up to limit rows in the given order; limit <= 0 reads all.
func listRows[T any](db *gorm.DB, limit int, order ...clause.OrderByColumn) ([]T, error) {
	var rows []T
	q := db
	for _, o := range order {
		q = q.Order(o)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// latestRow returns the first row in the given order, or nil when the table is empty.
func latestRow[T any](db *gorm.DB, order clause.OrderByColumn) (*T, error) {
	var row T
	err := db.Order(order).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func readWorkers(db *gorm.DB) ([]models.Worker, error) {
	return listRows[models.Worker](db, 0, orderBy("", "created_at", true))
}

func readProjects(db *gorm.DB) ([]models.Project, error) {
	return listRows[models.Project](db, projectsLimit, orderBy("", "created_at", true))
}

func readMaterials(db *gorm.DB) ([]models.Material, error) {
	return listRows[models.Material](db, materialsLimit, orderBy("", "created_at", true))
}

func readSuppliers(db *gorm.DB) ([]models.Supplier, error) {
	return listRows[models.Supplier](db, suppliersLimit, orderBy("", "created_at", true))
}

func readClients(db *gorm.DB) ([]models.Client, error) {
	return listRows[models.Client](db, clientsLimit, orderBy("", "created_at", true))
}

func readFinanceSnapshot(db *gorm.DB) (*models.FinanceSnapshotDaily, error) {
	return latestRow[models.FinanceSnapshotDaily](db, orderBy("", "snapshot_date", true))
}

func readSystemSnapshot(db *gorm.DB) (*models.SystemSnapshotDaily, error) {
	return latestRow[models.SystemSnapshotDaily](db, orderBy("", "snapshot_date", true))
}

// readAttendance joins each record with its worker, most recent first.
func readAttendance(db *gorm.DB) ([]models.Attendance, error) {
	return listRows[models.Attendance](db.Joins("Worker"), attendanceLimit,
		orderBy("attendances", "date", true),
		orderBy("attendances", "created_at", true),
	)
}

func readLeaveRequests(db *gorm.DB) ([]models.LeaveRequest, error) {
	return listRows[models.LeaveRequest](db, leaveRequestsLimit, orderBy("", "created_at", true))
}

func readIncidents(db *gorm.DB) ([]models.Incident, error) {
	return listRows[models.Incident](db, incidentsLimit, orderBy("", "created_at", true))
}

func readDailyReports(db *gorm.DB) ([]models.DailyReport, error) {
	return listRows[models.DailyReport](db, dailyReportsLimit, orderBy("", "report_date", true))
}

func readHolidays(db *gorm.DB) ([]models.Holiday, error) {
	return listRows[models.Holiday](db, 0, orderBy("", "date", false))
}
