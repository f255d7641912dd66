package analytics

import (
	"fmt"

	"bitbucket.org/mmdatafocus/site_backend/models"
	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/shopspring/decimal"
)

const (
	strongAttendanceRate   = 90
	weakAttendanceRate     = 75
	actionAttendanceRate   = 80
	criticalAttendanceRate = 60

	delayedProjectsAlert = 3

	absenteeismWindow = 3
	absenteeismHits   = 2
	absenteeismRatio  = 0.2
)

var lowCashBalance = decimal.NewFromInt(500000)

type ruleInput struct {
	live     *LiveSnapshot
	metrics  KeyMetrics
	trends   Trends
	currency string
}

func (r ruleInput) money(d decimal.Decimal) string {
	return utils.FormatCurrency(d, r.currency)
}

// highAbsenteeism reports whether absences exceeded the ratio on enough of the
// most recent attendance dates.
func (r ruleInput) highAbsenteeism() bool {
	hits := 0
	dates := r.live.AttendanceByDate.Dates()
	if len(dates) > absenteeismWindow {
		dates = dates[:absenteeismWindow]
	}
	for _, d := range dates {
		day := r.live.AttendanceByDate.ByDate[d]
		if float64(day.Absent) > absenteeismRatio*float64(day.Present) {
			hits++
		}
	}
	return hits >= absenteeismHits
}

func (r ruleInput) pendingLeaveRequests() int {
	n := 0
	for _, l := range r.live.LeaveRequests {
		if l.Status == models.LeaveRequestStatusPending {
			n++
		}
	}
	return n
}

func (r ruleInput) predictions() []Prediction {
	out := []Prediction{}
	if r.highAbsenteeism() {
		out = append(out, Prediction{
			Type:     CategoryAttendance,
			Message:  "Absenteeism has been elevated on most of the last 3 working days; expect reduced site capacity this week",
			Severity: SeverityMedium,
		})
	}
	if r.metrics.Finance.Profit.IsNegative() {
		out = append(out, Prediction{
			Type:     CategoryFinance,
			Message:  fmt.Sprintf("Operating at a loss of %s; cash reserves will shrink if expenses are not reduced", r.money(r.metrics.Finance.Profit.Neg())),
			Severity: SeverityHigh,
		})
	}
	if delayed := r.metrics.Projects.Delayed; delayed > 0 {
		out = append(out, Prediction{
			Type:     CategoryProjects,
			Message:  fmt.Sprintf("%d project(s) are below 50%% progress and at risk of missing deadlines", delayed),
			Severity: SeverityMedium,
		})
	}
	return out
}

func (r ruleInput) insights() []string {
	out := []string{}
	rate := r.metrics.Workers.AttendanceRate
	switch {
	case rate >= strongAttendanceRate:
		out = append(out, fmt.Sprintf("Excellent attendance today at %d%%", rate))
	case rate < weakAttendanceRate:
		out = append(out, fmt.Sprintf("Attendance is low today at %d%%; follow up with site supervisors", rate))
	}

	profit := r.metrics.Finance.Profit
	if profit.IsPositive() {
		out = append(out, fmt.Sprintf("Business is profitable with %s net profit", r.money(profit)))
	} else {
		out = append(out, fmt.Sprintf("Expenses exceed income; net result is %s", r.money(profit)))
	}

	if delayed := r.metrics.Projects.Delayed; delayed == 0 {
		out = append(out, "All projects are progressing on schedule")
	} else {
		out = append(out, fmt.Sprintf("%d project(s) are behind schedule", delayed))
	}

	if r.trends.Attendance == TrendDeclining {
		out = append(out, "Attendance is declining compared to the previous analysis")
	}
	if r.trends.Finance == TrendImproving {
		out = append(out, "Profit has improved since the previous analysis")
	}
	return out
}

func (r ruleInput) actionItems() []ActionItem {
	out := []ActionItem{}
	if r.metrics.Workers.AttendanceRate < actionAttendanceRate {
		out = append(out, ActionItem{
			Priority: SeverityHigh,
			Task:     "Review absent workers and confirm crew allocation for today",
			Category: CategoryAttendance,
		})
	}
	if r.metrics.Finance.CashBalance.LessThan(lowCashBalance) {
		out = append(out, ActionItem{
			Priority: SeverityHigh,
			Task:     fmt.Sprintf("Cash balance is %s; prioritise collections from clients", r.money(r.metrics.Finance.CashBalance)),
			Category: CategoryFinance,
		})
	}
	if r.metrics.Finance.Profit.IsNegative() {
		out = append(out, ActionItem{
			Priority: SeverityHigh,
			Task:     "Review expenses and cut non-essential spending",
			Category: CategoryFinance,
		})
	}
	if delayed := r.metrics.Projects.Delayed; delayed > 0 {
		out = append(out, ActionItem{
			Priority: SeverityMedium,
			Task:     fmt.Sprintf("Meet project managers about %d delayed project(s)", delayed),
			Category: CategoryProjects,
		})
	}
	if pending := r.pendingLeaveRequests(); pending > 0 {
		out = append(out, ActionItem{
			Priority: SeverityMedium,
			Task:     fmt.Sprintf("Approve or reject %d pending leave request(s)", pending),
			Category: CategoryHR,
		})
	}
	return out
}

func (r ruleInput) alerts() []Alert {
	out := []Alert{}
	if rate := r.metrics.Workers.AttendanceRate; rate < criticalAttendanceRate {
		out = append(out, Alert{
			Severity: SeverityCritical,
			Category: CategoryAttendance,
			Title:    "Critical attendance",
			Message:  fmt.Sprintf("Only %d%% of workers are present today", rate),
		})
	}
	if cash := r.metrics.Finance.CashBalance; cash.IsNegative() {
		out = append(out, Alert{
			Severity: SeverityCritical,
			Category: CategoryFinance,
			Title:    "Negative cash balance",
			Message:  fmt.Sprintf("Cash balance is %s", r.money(cash)),
		})
	}
	if delayed := r.metrics.Projects.Delayed; delayed > delayedProjectsAlert {
		out = append(out, Alert{
			Severity: SeverityHigh,
			Category: CategoryProjects,
			Title:    "Multiple projects delayed",
			Message:  fmt.Sprintf("%d projects are below 50%% progress", delayed),
		})
	}
	return out
}
