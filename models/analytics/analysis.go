package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/config"
	"bitbucket.org/mmdatafocus/site_backend/models"
	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	attendanceTrendDelta = 2
)

var profitTrendDelta = decimal.NewFromInt(10000)

// PreviousAnalysis is the comparison baseline: the most recently persisted analysis.
type PreviousAnalysis struct {
	AnalysisDate string
	SnapshotData SnapshotData
	KeyMetrics   KeyMetrics
}

type ComputeInput struct {
	Live           *LiveSnapshot
	Previous       *PreviousAnalysis
	Now            time.Time
	Location       *time.Location
	CurrencySymbol string
}

// ComputeAnalysis derives metrics, trends and heuristics from a live snapshot.
// It performs no I/O.
func ComputeAnalysis(in ComputeInput) *Analysis {
	live := in.Live
	if live == nil {
		live = &LiveSnapshot{}
	}
	metrics := computeKeyMetrics(live)
	trends := computeTrends(metrics, in.Previous)
	r := ruleInput{
		live:     live,
		metrics:  metrics,
		trends:   trends,
		currency: in.CurrencySymbol,
	}
	return &Analysis{
		AnalysisDate: utils.DateKey(in.Now, in.Location),
		GeneratedAt:  in.Now,
		SnapshotData: live.Trim(),
		KeyMetrics:   metrics,
		Trends:       trends,
		Predictions:  r.predictions(),
		Insights:     r.insights(),
		ActionItems:  r.actionItems(),
		Alerts:       r.alerts(),
	}
}

func computeKeyMetrics(live *LiveSnapshot) KeyMetrics {
	var m KeyMetrics

	m.Workers.Total = len(live.Workers)
	m.Workers.Present = live.AttendanceByDate.Present
	m.Workers.Absent = live.AttendanceByDate.Absent
	m.Workers.AttendanceRate = utils.Percent(m.Workers.Present, m.Workers.Total)

	// Buckets are independent; a project may land in more than one.
	m.Projects.Total = len(live.Projects)
	for _, p := range live.Projects {
		if p.IsOnTrack() {
			m.Projects.OnTrack++
		}
		if p.IsDelayed() {
			m.Projects.Delayed++
		}
		if p.IsCritical() {
			m.Projects.Critical++
		}
	}

	f := live.Finance
	m.Finance = FinanceMetrics{
		CashBalance:  f.CashBalance,
		Profit:       f.Profit,
		Income:       f.TotalIncome,
		Expenses:     f.TotalExpenses,
		ProfitMargin: utils.DecimalPercent(f.Profit, f.TotalIncome),
	}
	return m
}

// computeTrends compares against the previous analysis. Attendance and finance
// trends need a non-zero prior value; the projects trend is always set.
func computeTrends(current KeyMetrics, previous *PreviousAnalysis) Trends {
	var prev KeyMetrics
	if previous != nil {
		prev = previous.KeyMetrics
	}

	var t Trends
	if prev.Workers.AttendanceRate != 0 {
		diff := current.Workers.Present - prev.Workers.Present
		switch {
		case diff > attendanceTrendDelta:
			t.Attendance = TrendImproving
		case diff < -attendanceTrendDelta:
			t.Attendance = TrendDeclining
		default:
			t.Attendance = TrendStable
		}
	}
	if !prev.Finance.Profit.IsZero() {
		diff := current.Finance.Profit.Sub(prev.Finance.Profit)
		switch {
		case diff.GreaterThan(profitTrendDelta):
			t.Finance = TrendImproving
		case diff.LessThan(profitTrendDelta.Neg()):
			t.Finance = TrendDeclining
		default:
			t.Finance = TrendStable
		}
	}
	if current.Projects.Total >= prev.Projects.Total {
		t.Projects = TrendStable
	} else {
		t.Projects = TrendDeclining
	}
	return t
}

// GenerateAnalysis fetches live data, compares it with the latest persisted
// analysis and saves the result. A failed save is logged and does not fail the
// call; any other failure aborts with no analysis.
func (e *Engine) GenerateAnalysis(ctx context.Context) (analysis *Analysis, err error) {
	ctx, span := tracer.Start(ctx, "analytics.GenerateAnalysis")
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			analysis = nil
			err = fmt.Errorf("generate analysis: panic: %v", r)
		}
		if err != nil {
			span.RecordError(err)
		}
	}()

	started := time.Now()
	analysis, err = e.buildAnalysis(ctx)
	if err != nil {
		return nil, err
	}

	if saveErr := e.SaveAnalysis(ctx, analysis); saveErr != nil {
		snapshotSaveFailures.Inc()
		e.logError("GenerateAnalysis", "save analysis", analysis.AnalysisDate, saveErr)
	}

	generationDuration.Observe(time.Since(started).Seconds())
	logSlowReport(ctx, e.logger, "ceo_analysis", started, map[string]any{"analysis_date": analysis.AnalysisDate})
	return analysis, nil
}

// PreviewAnalysis computes today's analysis without persisting it.
func (e *Engine) PreviewAnalysis(ctx context.Context) (*Analysis, error) {
	ctx, span := tracer.Start(ctx, "analytics.PreviewAnalysis")
	defer span.End()
	return e.buildAnalysis(ctx)
}

func (e *Engine) buildAnalysis(ctx context.Context) (analysis *Analysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			analysis = nil
			err = fmt.Errorf("generate analysis: panic: %v", r)
		}
	}()

	live := e.FetchAllLiveData(ctx, "")
	// Readers swallow cancellation; do not build an analysis from empty defaults.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("generate analysis: %w", ctxErr)
	}

	previous, err := e.loadPreviousAnalysis(ctx)
	if err != nil {
		return nil, err
	}

	return ComputeAnalysis(ComputeInput{
		Live:           live,
		Previous:       previous,
		Now:            e.now(),
		Location:       e.loc,
		CurrencySymbol: e.currencySymbol,
	}), nil
}

// loadPreviousAnalysis returns nil when nothing has been persisted yet. A row
// whose payload cannot be decoded is treated the same way.
func (e *Engine) loadPreviousAnalysis(ctx context.Context) (*PreviousAnalysis, error) {
	if e.db == nil {
		return nil, errors.New("load previous analysis: database is not connected")
	}
	row, err := models.GetLatestCEOAnalysisSnapshot(ctx, e.db)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load previous analysis: %w", err)
	}

	prev := &PreviousAnalysis{AnalysisDate: row.AnalysisDate}
	if err := decodeJSONColumn(row.KeyMetrics, &prev.KeyMetrics); err != nil {
		e.logger.WithFields(logrus.Fields{
			"module":        "analytics",
			"analysis_date": row.AnalysisDate,
		}).Warn("previous key_metrics unreadable; comparing without baseline: " + err.Error())
		return nil, nil
	}
	if err := decodeJSONColumn(row.SnapshotData, &prev.SnapshotData); err != nil {
		e.logger.WithFields(logrus.Fields{
			"module":        "analytics",
			"analysis_date": row.AnalysisDate,
		}).Warn("previous snapshot_data unreadable; comparing without baseline: " + err.Error())
		return nil, nil
	}
	return prev, nil
}

func decodeJSONColumn[T any](raw []byte, dest *T) error {
	return utils.UnmarshalFromJSON(raw, dest)
}

func (e *Engine) logError(funcName, context string, data any, err error) {
	config.LogError(e.logger, "analytics", funcName, context, data, err)
}
