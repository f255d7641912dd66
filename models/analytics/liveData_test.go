package analytics

import (
	"context"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/models"
	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestSummarizeAttendance_WindowAndLatest(t *testing.T) {
	var records []models.Attendance
	// Eight distinct dates; only the seven most recent are kept.
	for d := 10; d <= 17; d++ {
		records = append(records,
			models.Attendance{WorkerId: 1, Date: day(2026, 10, d), IsPresent: true, Status: models.AttendanceStatusPresent},
			models.Attendance{WorkerId: 2, Date: day(2026, 10, d), IsPresent: false, Status: models.AttendanceStatusAbsent},
		)
	}
	records = append(records, models.Attendance{WorkerId: 3, Date: day(2026, 10, 17), IsPresent: true, Status: models.AttendanceStatusPresent})

	s := SummarizeAttendance(records, 5)

	if s.Total != len(records) {
		t.Fatalf("Total = %d, want %d", s.Total, len(records))
	}
	if len(s.ByDate) != 7 {
		t.Fatalf("len(ByDate) = %d, want 7", len(s.ByDate))
	}
	if _, ok := s.ByDate["2026-10-10"]; ok {
		t.Fatalf("oldest date should fall outside the window")
	}
	if s.LatestDate != "2026-10-17" {
		t.Fatalf("LatestDate = %q", s.LatestDate)
	}
	if s.Present != 2 || s.Absent != 1 {
		t.Fatalf("latest Present/Absent = %d/%d, want 2/1", s.Present, s.Absent)
	}
	if s.NoRecord != 2 {
		t.Fatalf("NoRecord = %d, want 2", s.NoRecord)
	}
	dates := s.Dates()
	if dates[0] != "2026-10-17" || dates[6] != "2026-10-11" {
		t.Fatalf("Dates = %v", dates)
	}
}

func TestSummarizeAttendance_InconsistentRecordCountsTwice(t *testing.T) {
	records := []models.Attendance{
		{WorkerId: 1, Date: day(2026, 10, 19), IsPresent: true, Status: models.AttendanceStatusAbsent},
		{WorkerId: 2, Date: day(2026, 10, 19), IsPresent: false, Status: models.AttendanceStatusPresent},
		{WorkerId: 3, Date: day(2026, 10, 19), IsPresent: true, Status: models.AttendanceStatusHalfDay},
	}
	s := SummarizeAttendance(records, 3)
	got := s.ByDate["2026-10-19"]
	want := DayAttendance{Total: 3, Present: 3, Absent: 2}
	if got != want {
		t.Fatalf("ByDate = %+v, want %+v", got, want)
	}
}

func TestSummarizeAttendance_Empty(t *testing.T) {
	s := SummarizeAttendance(nil, 4)
	if s.Total != 0 || s.Present != 0 || s.Absent != 0 || s.LatestDate != "" {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.NoRecord != 4 {
		t.Fatalf("NoRecord = %d, want 4", s.NoRecord)
	}
	if s.ByDate == nil {
		t.Fatalf("ByDate should be an empty map")
	}
}

func TestSummarizeAttendance_NoRecordNeverNegative(t *testing.T) {
	records := []models.Attendance{
		{WorkerId: 1, Date: day(2026, 10, 19), IsPresent: true},
		{WorkerId: 2, Date: day(2026, 10, 19), IsPresent: true},
	}
	if s := SummarizeAttendance(records, 1); s.NoRecord != 0 {
		t.Fatalf("NoRecord = %d, want 0", s.NoRecord)
	}
}

func TestNormalizeFinance_PrefersSystemFieldByField(t *testing.T) {
	system := &models.SystemSnapshotDaily{
		CashBalance: decimal.NewNullDecimal(decimal.Zero),
		TotalIncome: decimal.NewNullDecimal(decimal.NewFromInt(500)),
	}
	finance := &models.FinanceSnapshotDaily{
		CashBalance:     decimal.NewNullDecimal(decimal.NewFromInt(100)),
		TotalIncome:     decimal.NewNullDecimal(decimal.NewFromInt(300)),
		TotalExpenses:   decimal.NewNullDecimal(decimal.NewFromInt(800)),
		PendingPayments: decimal.NewNullDecimal(decimal.NewFromInt(40)),
	}

	got := NormalizeFinance(system, finance)

	check := func(name string, got decimal.Decimal, want int64) {
		t.Helper()
		if !got.Equal(decimal.NewFromInt(want)) {
			t.Fatalf("%s = %s, want %d", name, got, want)
		}
	}
	check("CashBalance", got.CashBalance, 100)
	check("TotalIncome", got.TotalIncome, 500)
	check("TotalExpenses", got.TotalExpenses, 800)
	check("PendingPayments", got.PendingPayments, 40)
	check("Profit", got.Profit, -300)
	check("Loss", got.Loss, 300)
	check("NetFlow", got.NetFlow, -300)
}

func TestNormalizeFinance_NoAggregates(t *testing.T) {
	got := NormalizeFinance(nil, nil)
	if !got.Profit.IsZero() || !got.Loss.IsZero() || !got.CashBalance.IsZero() {
		t.Fatalf("expected zero finance, got %+v", got)
	}
}

func seedLiveData(t *testing.T, e *Engine) {
	t.Helper()
	db := e.db
	for _, name := range []string{"Aung", "Min", "Hla"} {
		mustCreate(t, db, &models.Worker{Name: name})
	}
	mustCreate(t, db, &models.Project{Name: "Tower A", Status: models.ProjectStatusOngoing, Progress: 30})
	mustCreate(t, db, &models.Project{Name: "Depot", Status: models.ProjectStatusCompleted, Progress: 100})
	mustCreate(t, db, &models.Incident{Title: "Scaffold slip", Severity: "low", Status: "open"})
	mustCreate(t, db, &models.Attendance{WorkerId: 1, Date: day(2026, 10, 18), IsPresent: true, Status: models.AttendanceStatusPresent})
	mustCreate(t, db, &models.Attendance{WorkerId: 1, Date: day(2026, 10, 19), IsPresent: true, Status: models.AttendanceStatusPresent})
	mustCreate(t, db, &models.Attendance{WorkerId: 2, Date: day(2026, 10, 19), IsPresent: false, Status: models.AttendanceStatusAbsent})
	mustCreate(t, db, &models.FinanceSnapshotDaily{
		SnapshotDate:  day(2026, 10, 18),
		CashBalance:   decimal.NewNullDecimal(decimal.NewFromInt(750000)),
		TotalIncome:   decimal.NewNullDecimal(decimal.NewFromInt(400000)),
		TotalExpenses: decimal.NewNullDecimal(decimal.NewFromInt(250000)),
	})
	mustCreate(t, db, &models.SystemSnapshotDaily{
		SnapshotDate: day(2026, 10, 18),
		TotalIncome:  decimal.NewNullDecimal(decimal.NewFromInt(450000)),
	})
}

func TestFetchAllLiveData(t *testing.T) {
	e := newTestEngine(newTestDB(t), testNow)
	seedLiveData(t, e)

	snap := e.FetchAllLiveData(context.Background(), "site status")

	if len(snap.Workers) != 3 || len(snap.Projects) != 2 || len(snap.Incidents) != 1 {
		t.Fatalf("workers/projects/incidents = %d/%d/%d", len(snap.Workers), len(snap.Projects), len(snap.Incidents))
	}
	if len(snap.Attendance) != 3 {
		t.Fatalf("len(Attendance) = %d, want 3", len(snap.Attendance))
	}
	if got := snap.Attendance[0].Date.Format("2006-01-02"); got != "2026-10-19" {
		t.Fatalf("attendance not most recent first: %s", got)
	}
	for _, a := range snap.Attendance {
		if a.Worker == nil || a.Worker.ID != a.WorkerId {
			t.Fatalf("attendance %d not joined with its worker", a.ID)
		}
	}
	if snap.AttendanceByDate.LatestDate != "2026-10-19" || snap.AttendanceByDate.Present != 1 || snap.AttendanceByDate.NoRecord != 1 {
		t.Fatalf("AttendanceByDate = %+v", snap.AttendanceByDate)
	}
	if !snap.Finance.TotalIncome.Equal(decimal.NewFromInt(450000)) {
		t.Fatalf("TotalIncome = %s, want system figure 450000", snap.Finance.TotalIncome)
	}
	if !snap.Finance.Profit.Equal(decimal.NewFromInt(200000)) {
		t.Fatalf("Profit = %s, want 200000", snap.Finance.Profit)
	}
	if snap.Metadata.Query != "site status" || snap.Metadata.Stats.TotalAttendance != 3 || !snap.Metadata.FetchedAt.Equal(testNow) {
		t.Fatalf("Metadata = %+v", snap.Metadata)
	}
	if snap.Holidays == nil || snap.Materials == nil {
		t.Fatalf("empty sources must be empty slices, not nil")
	}
}

func TestFetchAllLiveData_FailedSourceDegradesAlone(t *testing.T) {
	e := newTestEngine(newTestDB(t), testNow)
	seedLiveData(t, e)
	if err := e.db.Migrator().DropTable(&models.Incident{}); err != nil {
		t.Fatalf("DropTable: %v", err)
	}

	snap := e.FetchAllLiveData(context.Background(), "")

	if snap.Incidents == nil || len(snap.Incidents) != 0 {
		t.Fatalf("Incidents = %v, want empty slice", snap.Incidents)
	}
	if len(snap.Workers) != 3 || len(snap.Projects) != 2 || len(snap.Attendance) != 3 {
		t.Fatalf("other sources should be unaffected: workers=%d projects=%d attendance=%d",
			len(snap.Workers), len(snap.Projects), len(snap.Attendance))
	}
	if snap.Finance.CashBalance.IsZero() {
		t.Fatalf("finance should still be populated")
	}
}

func TestFetchAllLiveData_NoDatabase(t *testing.T) {
	e := newTestEngine(nil, testNow)
	snap := e.FetchAllLiveData(context.Background(), "")
	if snap.Workers == nil || snap.Attendance == nil || snap.Holidays == nil {
		t.Fatalf("sequences must default to empty")
	}
	if snap.Metadata.Stats.TotalWorkers != 0 {
		t.Fatalf("TotalWorkers = %d", snap.Metadata.Stats.TotalWorkers)
	}
}

func TestFetchAllLiveData_FailureLogCarriesTrigger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	e := NewEngine(nil, logger, WithClock(func() time.Time { return testNow }), WithLocation(time.UTC), WithReportCache(false))

	ctx := utils.SetCorrelationIdInContext(context.Background(), "cid-1")
	ctx = utils.SetTriggerInContext(ctx, "ceo-analysis-refresh")
	e.FetchAllLiveData(ctx, "")

	var failures int
	for _, entry := range hook.AllEntries() {
		if _, ok := entry.Data["source"]; !ok {
			continue
		}
		failures++
		if entry.Data["correlation_id"] != "cid-1" || entry.Data["trigger"] != "ceo-analysis-refresh" {
			t.Fatalf("fields = %v", entry.Data)
		}
	}
	if failures != 12 {
		t.Fatalf("source failure entries = %d, want 12", failures)
	}
}
