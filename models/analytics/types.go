package analytics

import (
	"encoding/json"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/models"
	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/shopspring/decimal"
)

// LiveSnapshot is the merged, in-memory view of every source at fetch time.
// Sequences are never nil; a failed source leaves its sequence empty.
type LiveSnapshot struct {
	Workers          []models.Worker       `json:"workers"`
	Projects         []models.Project      `json:"projects"`
	Materials        []models.Material     `json:"materials"`
	Suppliers        []models.Supplier     `json:"suppliers"`
	Clients          []models.Client       `json:"clients"`
	Attendance       []models.Attendance   `json:"attendance"`
	LeaveRequests    []models.LeaveRequest `json:"leaveRequests"`
	Incidents        []models.Incident     `json:"incidents"`
	DailyReports     []models.DailyReport  `json:"dailyReports"`
	Holidays         []models.Holiday      `json:"holidays"`
	Finance          FinanceSummary        `json:"finance"`
	AttendanceByDate AttendanceSummary     `json:"attendanceByDate"`
	Metadata         LiveMetadata          `json:"metadata"`
}

type FinanceSummary struct {
	CashBalance     decimal.Decimal `json:"cash_balance"`
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	Profit          decimal.Decimal `json:"profit"`
	Loss            decimal.Decimal `json:"loss"`
	NetFlow         decimal.Decimal `json:"net_flow"`
	PendingPayments decimal.Decimal `json:"pending_payments"`
}

type DayAttendance struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

// AttendanceSummary covers at most the seven most recent attendance dates.
// Present/Absent/NoRecord describe LatestDate only; Total counts every fetched record.
type AttendanceSummary struct {
	Total      int                      `json:"total"`
	Present    int                      `json:"present"`
	Absent     int                      `json:"absent"`
	NoRecord   int                      `json:"noRecord"`
	LatestDate string                   `json:"latestDate"`
	ByDate     map[string]DayAttendance `json:"byDate"`
}

// Dates returns the ByDate keys, most recent first.
func (s AttendanceSummary) Dates() []string {
	dates := make([]string, 0, len(s.ByDate))
	for d := range s.ByDate {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

type LiveStats struct {
	TotalWorkers    int `json:"totalWorkers"`
	TotalProjects   int `json:"totalProjects"`
	TotalMaterials  int `json:"totalMaterials"`
	TotalSuppliers  int `json:"totalSuppliers"`
	TotalClients    int `json:"totalClients"`
	TotalAttendance int `json:"totalAttendance"`
}

type LiveMetadata struct {
	FetchedAt time.Time `json:"fetchedAt"`
	Query     string    `json:"query"`
	Stats     LiveStats `json:"stats"`
}

// SnapshotData is the durable slice of a LiveSnapshot. The raw attendance log
// is left out; its per-date rollup is kept.
type SnapshotData struct {
	Workers          []models.Worker       `json:"workers"`
	Projects         []models.Project      `json:"projects"`
	Materials        []models.Material     `json:"materials"`
	Suppliers        []models.Supplier     `json:"suppliers"`
	Clients          []models.Client       `json:"clients"`
	LeaveRequests    []models.LeaveRequest `json:"leaveRequests"`
	Incidents        []models.Incident     `json:"incidents"`
	DailyReports     []models.DailyReport  `json:"dailyReports"`
	Holidays         []models.Holiday      `json:"holidays"`
	Finance          FinanceSummary        `json:"finance"`
	AttendanceByDate AttendanceSummary     `json:"attendanceByDate"`
}

func (s *LiveSnapshot) Trim() SnapshotData {
	return SnapshotData{
		Workers:          s.Workers,
		Projects:         s.Projects,
		Materials:        s.Materials,
		Suppliers:        s.Suppliers,
		Clients:          s.Clients,
		LeaveRequests:    s.LeaveRequests,
		Incidents:        s.Incidents,
		DailyReports:     s.DailyReports,
		Holidays:         s.Holidays,
		Finance:          s.Finance,
		AttendanceByDate: s.AttendanceByDate,
	}
}

type WorkerMetrics struct {
	Total          int `json:"total"`
	Present        int `json:"present"`
	Absent         int `json:"absent"`
	AttendanceRate int `json:"attendanceRate"`
}

type ProjectMetrics struct {
	Total    int `json:"total"`
	OnTrack  int `json:"onTrack"`
	Delayed  int `json:"delayed"`
	Critical int `json:"critical"`
}

type FinanceMetrics struct {
	CashBalance  decimal.Decimal `json:"cashBalance"`
	Profit       decimal.Decimal `json:"profit"`
	Income       decimal.Decimal `json:"income"`
	Expenses     decimal.Decimal `json:"expenses"`
	ProfitMargin int             `json:"profitMargin"`
}

type KeyMetrics struct {
	Workers  WorkerMetrics  `json:"workers"`
	Projects ProjectMetrics `json:"projects"`
	Finance  FinanceMetrics `json:"finance"`
}

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Trends leaves Attendance and Finance empty when there was no comparable prior value.
type Trends struct {
	Attendance Trend `json:"attendance,omitempty"`
	Finance    Trend `json:"finance,omitempty"`
	Projects   Trend `json:"projects"`
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

type Category string

const (
	CategoryAttendance Category = "attendance"
	CategoryFinance    Category = "finance"
	CategoryProjects   Category = "projects"
	CategoryHR         Category = "hr"
)

type Prediction struct {
	Type     Category `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

type ActionItem struct {
	Priority Severity `json:"priority"`
	Task     string   `json:"task"`
	Category Category `json:"category"`
}

type Alert struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// Analysis is a freshly generated analysis. Only the StoredAnalysis subset is persisted.
type Analysis struct {
	AnalysisDate string       `json:"analysis_date"`
	GeneratedAt  time.Time    `json:"generated_at"`
	SnapshotData SnapshotData `json:"snapshot_data"`
	KeyMetrics   KeyMetrics   `json:"key_metrics"`
	Trends       Trends       `json:"trends"`
	Predictions  []Prediction `json:"predictions"`
	Insights     []string     `json:"insights"`
	ActionItems  []ActionItem `json:"action_items"`
	Alerts       []Alert      `json:"alerts"`
}

// StoredAnalysis is what a persisted row carries: no trends, predictions,
// insights or action items.
type StoredAnalysis struct {
	AnalysisDate string       `json:"analysis_date"`
	GeneratedAt  time.Time    `json:"generated_at"`
	SnapshotData SnapshotData `json:"snapshot_data"`
	KeyMetrics   KeyMetrics   `json:"key_metrics"`
	Alerts       []Alert      `json:"alerts"`
}

// AnalysisPayload is the facade response. Its shape depends on the path that
// produced it: IsCached is nil and only LiveData is set when analytics were
// unavailable.
type AnalysisPayload struct {
	IsCached     *bool         `json:"isCached,omitempty"`
	AnalysisDate string        `json:"analysis_date,omitempty"`
	GeneratedAt  *time.Time    `json:"generated_at,omitempty"`
	SnapshotData *SnapshotData `json:"snapshot_data,omitempty"`
	KeyMetrics   *KeyMetrics   `json:"key_metrics,omitempty"`
	Trends       *Trends       `json:"trends,omitempty"`
	Predictions  []Prediction  `json:"predictions,omitempty"`
	Insights     []string      `json:"insights,omitempty"`
	ActionItems  []ActionItem  `json:"action_items,omitempty"`
	Alerts       []Alert       `json:"alerts,omitempty"`
	LiveData     *LiveSnapshot `json:"live_data,omitempty"`
}

func (p *AnalysisPayload) HasAnalytics() bool {
	return p != nil && p.KeyMetrics != nil
}

// MarshalJSON always emits alerts when analytics are present, so an empty
// list reads as "no alerts" rather than a fallback payload.
func (p AnalysisPayload) MarshalJSON() ([]byte, error) {
	type payload AnalysisPayload
	if !p.HasAnalytics() {
		return json.Marshal(payload(p))
	}
	return json.Marshal(struct {
		payload
		Alerts []Alert `json:"alerts"`
	}{payload(p), utils.OrEmpty(p.Alerts)})
}
