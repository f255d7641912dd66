package analytics

import (
	"context"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/models"
	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// attendanceWindowDays is how many distinct recent dates the rollup keeps.
const attendanceWindowDays = 7

// FetchAllLiveData reads every source concurrently and waits for all of them.
// It cannot fail: an unreachable source contributes its empty default.
// query is carried into the metadata only.
func (e *Engine) FetchAllLiveData(ctx context.Context, query string) *LiveSnapshot {
	ctx, span := tracer.Start(ctx, "analytics.FetchAllLiveData")
	defer span.End()
	started := time.Now()
	defer logSlowReport(ctx, e.logger, "ceo_live_data", started, map[string]any{"query": query})

	var (
		snap      LiveSnapshot
		financeAg *models.FinanceSnapshotDaily
		systemAg  *models.SystemSnapshotDaily
	)

	// Each goroutine owns one destination; readers swallow their own errors.
	var g errgroup.Group
	g.Go(func() error { snap.Workers = failOpen(ctx, e, sourceWorkers, readWorkers); return nil })
	g.Go(func() error { snap.Projects = failOpen(ctx, e, sourceProjects, readProjects); return nil })
	g.Go(func() error { snap.Materials = failOpen(ctx, e, sourceMaterials, readMaterials); return nil })
	g.Go(func() error { snap.Suppliers = failOpen(ctx, e, sourceSuppliers, readSuppliers); return nil })
	g.Go(func() error { snap.Clients = failOpen(ctx, e, sourceClients, readClients); return nil })
	g.Go(func() error { financeAg = failOpen(ctx, e, sourceFinance, readFinanceSnapshot); return nil })
	g.Go(func() error { systemAg = failOpen(ctx, e, sourceSystem, readSystemSnapshot); return nil })
	g.Go(func() error { snap.Attendance = failOpen(ctx, e, sourceAttendance, readAttendance); return nil })
	g.Go(func() error { snap.LeaveRequests = failOpen(ctx, e, sourceLeaveRequests, readLeaveRequests); return nil })
	g.Go(func() error { snap.Incidents = failOpen(ctx, e, sourceIncidents, readIncidents); return nil })
	g.Go(func() error { snap.DailyReports = failOpen(ctx, e, sourceDailyReports, readDailyReports); return nil })
	g.Go(func() error { snap.Holidays = failOpen(ctx, e, sourceHolidays, readHolidays); return nil })
	_ = g.Wait()

	snap.Workers = utils.OrEmpty(snap.Workers)
	snap.Projects = utils.OrEmpty(snap.Projects)
	snap.Materials = utils.OrEmpty(snap.Materials)
	snap.Suppliers = utils.OrEmpty(snap.Suppliers)
	snap.Clients = utils.OrEmpty(snap.Clients)
	snap.Attendance = utils.OrEmpty(snap.Attendance)
	snap.LeaveRequests = utils.OrEmpty(snap.LeaveRequests)
	snap.Incidents = utils.OrEmpty(snap.Incidents)
	snap.DailyReports = utils.OrEmpty(snap.DailyReports)
	snap.Holidays = utils.OrEmpty(snap.Holidays)

	snap.AttendanceByDate = SummarizeAttendance(snap.Attendance, len(snap.Workers))
	snap.Finance = NormalizeFinance(systemAg, financeAg)
	snap.Metadata = LiveMetadata{
		FetchedAt: e.now(),
		Query:     query,
		Stats: LiveStats{
			TotalWorkers:    len(snap.Workers),
			TotalProjects:   len(snap.Projects),
			TotalMaterials:  len(snap.Materials),
			TotalSuppliers:  len(snap.Suppliers),
			TotalClients:    len(snap.Clients),
			TotalAttendance: len(snap.Attendance),
		},
	}

	span.SetAttributes(
		attribute.Int("workers", len(snap.Workers)),
		attribute.Int("attendance", len(snap.Attendance)),
	)
	return &snap
}

// SummarizeAttendance rolls records up per calendar date for the most recent
// attendanceWindowDays dates. Dates are taken as stored, without timezone shifts.
func SummarizeAttendance(records []models.Attendance, workerCount int) AttendanceSummary {
	seen := make(map[string]bool)
	var dates []string
	for _, a := range records {
		key := a.Date.Format(utils.DateLayout)
		if !seen[key] {
			seen[key] = true
			dates = append(dates, key)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > attendanceWindowDays {
		dates = dates[:attendanceWindowDays]
	}

	byDate := make(map[string]DayAttendance, len(dates))
	for _, d := range dates {
		byDate[d] = DayAttendance{}
	}
	for _, a := range records {
		key := a.Date.Format(utils.DateLayout)
		day, ok := byDate[key]
		if !ok {
			continue
		}
		day.Total++
		if a.CountsPresent() {
			day.Present++
		}
		if a.CountsAbsent() {
			day.Absent++
		}
		byDate[key] = day
	}

	summary := AttendanceSummary{
		Total:    len(records),
		NoRecord: workerCount,
		ByDate:   byDate,
	}
	if len(dates) > 0 {
		latest := byDate[dates[0]]
		summary.LatestDate = dates[0]
		summary.Present = latest.Present
		summary.Absent = latest.Absent
		summary.NoRecord = max(0, workerCount-latest.Total)
	}
	return summary
}

// NormalizeFinance merges the two daily aggregates field by field. A field is
// taken from system when it is set and non-zero, then from finance when set.
func NormalizeFinance(system *models.SystemSnapshotDaily, finance *models.FinanceSnapshotDaily) FinanceSummary {
	var sys, fin models.SystemSnapshotDaily
	if system != nil {
		sys = *system
	}
	if finance != nil {
		fin = models.SystemSnapshotDaily{
			CashBalance:     finance.CashBalance,
			TotalIncome:     finance.TotalIncome,
			TotalExpenses:   finance.TotalExpenses,
			PendingPayments: finance.PendingPayments,
		}
	}

	income := firstNonZero(sys.TotalIncome, fin.TotalIncome)
	expenses := firstNonZero(sys.TotalExpenses, fin.TotalExpenses)
	profit := income.Sub(expenses)
	loss := decimal.Zero
	if profit.IsNegative() {
		loss = profit.Neg()
	}
	return FinanceSummary{
		CashBalance:     firstNonZero(sys.CashBalance, fin.CashBalance),
		TotalIncome:     income,
		TotalExpenses:   expenses,
		Profit:          profit,
		Loss:            loss,
		NetFlow:         profit,
		PendingPayments: firstNonZero(sys.PendingPayments, fin.PendingPayments),
	}
}

func firstNonZero(values ...decimal.NullDecimal) decimal.Decimal {
	for _, v := range values {
		if v.Valid && !v.Decimal.IsZero() {
			return v.Decimal
		}
	}
	return decimal.Zero
}
