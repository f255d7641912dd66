package analytics

import (
	"bytes"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestExportAnalysisExcel(t *testing.T) {
	live := liveWith(10, 5)
	live.Finance.CashBalance = decimal.NewFromInt(-2500)
	payload := generatedPayload(compute(live, nil))

	var buf bytes.Buffer
	if err := ExportAnalysisExcel(&buf, payload, "₹"); err != nil {
		t.Fatalf("ExportAnalysisExcel: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	want := []string{sheetSummary, sheetAlerts, sheetActionItems, sheetPredictions, sheetInsights}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", got, want)
		}
	}

	date, err := f.GetCellValue(sheetSummary, "B2")
	if err != nil || date != "2026-10-19" {
		t.Fatalf("analysis date cell = %q (%v)", date, err)
	}
	cash, _ := f.GetCellValue(sheetSummary, "B13")
	if cash != "-₹2,500" {
		t.Fatalf("cash cell = %q", cash)
	}

	rows, err := f.GetRows(sheetAlerts)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// Header, critical attendance (50%) and critical finance.
	if len(rows) != 3 {
		t.Fatalf("alert rows = %d, want 3: %v", len(rows), rows)
	}
}

func TestExportAnalysisExcel_NoAnalytics(t *testing.T) {
	var buf bytes.Buffer
	err := ExportAnalysisExcel(&buf, &AnalysisPayload{LiveData: &LiveSnapshot{}}, "₹")
	if !errors.Is(err, utils.ErrorAnalysisUnavailable) {
		t.Fatalf("err = %v, want ErrorAnalysisUnavailable", err)
	}
}
