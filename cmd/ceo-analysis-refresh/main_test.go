package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/models/analytics"
	"github.com/shopspring/decimal"
)

func TestPrintSummary(t *testing.T) {
	a := &analytics.Analysis{
		AnalysisDate: "2026-10-19",
		GeneratedAt:  time.Now().Add(-2 * time.Minute),
		KeyMetrics: analytics.KeyMetrics{
			Workers:  analytics.WorkerMetrics{Total: 20, Present: 15, Absent: 5, AttendanceRate: 75},
			Projects: analytics.ProjectMetrics{Total: 5, OnTrack: 1, Delayed: 4, Critical: 2},
			Finance: analytics.FinanceMetrics{
				CashBalance:  decimal.NewFromInt(-2500),
				Profit:       decimal.NewFromInt(-50000),
				ProfitMargin: -25,
			},
		},
		ActionItems: []analytics.ActionItem{
			{Priority: analytics.SeverityHigh, Task: "Collect receivables", Category: analytics.CategoryFinance},
		},
		Alerts: []analytics.Alert{
			{Severity: analytics.SeverityCritical, Category: analytics.CategoryFinance, Title: "Negative cash balance", Message: "Cash is -₹2,500"},
			{Severity: analytics.SeverityHigh, Category: analytics.CategoryProjects, Title: "Multiple projects delayed", Message: "4 projects delayed"},
		},
	}

	var buf bytes.Buffer
	printSummary(&buf, a, "₹", 1500*time.Millisecond)
	out := buf.String()

	for _, want := range []string{
		"analysis_date=2026-10-19",
		"2 minutes ago",
		"took=1.5s",
		"workers=20 present=15 attendance=75%",
		"projects=5 on_track=1 delayed=4 critical=2",
		"cash=-₹2,500 profit=-₹50,000 margin=-25%",
		"[critical/finance] Negative cash balance: Cash is -₹2,500",
		"0 predictions, 1 action item, 2 alerts",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummaryEmptyAnalysis(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &analytics.Analysis{AnalysisDate: "2026-10-19", GeneratedAt: time.Now()}, "$", 0)
	if !strings.Contains(buf.String(), "0 predictions, 0 action items, 0 alerts") {
		t.Fatalf("unexpected summary:\n%s", buf.String())
	}
}
