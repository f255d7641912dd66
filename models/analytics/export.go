package analytics

import (
	"fmt"
	"io"

	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary     = "Summary"
	sheetAlerts      = "Alerts"
	sheetActionItems = "Action Items"
	sheetPredictions = "Predictions"
	sheetInsights    = "Insights"
)

// ExportAnalysisExcel writes the payload as an xlsx workbook. A payload
// without analytics (the live-data fallback) yields ErrorAnalysisUnavailable.
func ExportAnalysisExcel(w io.Writer, p *AnalysisPayload, currencySymbol string) error {
	if !p.HasAnalytics() {
		return utils.ErrorAnalysisUnavailable
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	if err := writeRows(f, sheetSummary, summaryRows(p, currencySymbol)); err != nil {
		return err
	}

	alerts := [][]any{{"Severity", "Category", "Title", "Message"}}
	for _, a := range p.Alerts {
		alerts = append(alerts, []any{string(a.Severity), string(a.Category), a.Title, a.Message})
	}
	actions := [][]any{{"Priority", "Category", "Task"}}
	for _, a := range p.ActionItems {
		actions = append(actions, []any{string(a.Priority), string(a.Category), a.Task})
	}
	predictions := [][]any{{"Type", "Severity", "Message"}}
	for _, pr := range p.Predictions {
		predictions = append(predictions, []any{string(pr.Type), string(pr.Severity), pr.Message})
	}
	insights := [][]any{{"Insight"}}
	for _, in := range p.Insights {
		insights = append(insights, []any{in})
	}

	for _, sheet := range []struct {
		name string
		rows [][]any
	}{
		{sheetAlerts, alerts},
		{sheetActionItems, actions},
		{sheetPredictions, predictions},
		{sheetInsights, insights},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return err
		}
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func summaryRows(p *AnalysisPayload, currencySymbol string) [][]any {
	m := p.KeyMetrics
	cached := p.IsCached != nil && *p.IsCached
	generatedAt := ""
	if p.GeneratedAt != nil {
		generatedAt = p.GeneratedAt.Format("2006-01-02 15:04:05")
	}
	rows := [][]any{
		{"Metric", "Value"},
		{"Analysis Date", p.AnalysisDate},
		{"Generated At", generatedAt},
		{"Cached", cached},
		{"Total Workers", m.Workers.Total},
		{"Present", m.Workers.Present},
		{"Absent", m.Workers.Absent},
		{"Attendance Rate (%)", m.Workers.AttendanceRate},
		{"Total Projects", m.Projects.Total},
		{"On Track", m.Projects.OnTrack},
		{"Delayed", m.Projects.Delayed},
		{"Critical", m.Projects.Critical},
		{"Cash Balance", utils.FormatCurrency(m.Finance.CashBalance, currencySymbol)},
		{"Income", utils.FormatCurrency(m.Finance.Income, currencySymbol)},
		{"Expenses", utils.FormatCurrency(m.Finance.Expenses, currencySymbol)},
		{"Profit", utils.FormatCurrency(m.Finance.Profit, currencySymbol)},
		{"Profit Margin (%)", m.Finance.ProfitMargin},
	}
	if p.Trends != nil {
		rows = append(rows,
			[]any{"Attendance Trend", string(p.Trends.Attendance)},
			[]any{"Finance Trend", string(p.Trends.Finance)},
			[]any{"Projects Trend", string(p.Trends.Projects)},
		)
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
