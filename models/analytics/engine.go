package analytics

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/config"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("site_backend/analytics")

// Engine builds, caches and serves the executive analysis. It holds no mutable
// state beyond its handles, so one value can serve concurrent requests.
type Engine struct {
	db             *gorm.DB
	logger         *logrus.Logger
	now            func() time.Time
	loc            *time.Location
	currencySymbol string
	reportCache    bool
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the timezone that defines the analysis date.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

func WithCurrencySymbol(symbol string) Option {
	return func(e *Engine) { e.currencySymbol = symbol }
}

// WithReportCache toggles the Redis copy of today's analysis.
func WithReportCache(enabled bool) Option {
	return func(e *Engine) { e.reportCache = enabled }
}

func NewEngine(db *gorm.DB, logger *logrus.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = config.GetLogger()
	}
	e := &Engine{
		db:             db,
		logger:         logger,
		now:            time.Now,
		loc:            config.AppLocation(),
		currencySymbol: config.CurrencySymbol(),
		reportCache:    config.ReportCacheEnabled(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	return e
}

// GetCEOAnalysis serves today's analysis. Unless forceRefresh is set, a fresh
// persisted analysis is returned as is. Otherwise a new one is generated; if
// that fails the caller receives raw live data with no analytics fields.
func (e *Engine) GetCEOAnalysis(ctx context.Context, forceRefresh bool) *AnalysisPayload {
	ctx, span := tracer.Start(ctx, "analytics.GetCEOAnalysis",
		trace.WithAttributes(attribute.Bool("force_refresh", forceRefresh)))
	defer span.End()

	if !forceRefresh {
		if cached, ok := e.GetCachedAnalysis(ctx); ok {
			analysisRequests.WithLabelValues(outcomeCacheHit).Inc()
			span.SetAttributes(attribute.String("outcome", outcomeCacheHit))
			return cachedPayload(cached)
		}
	}

	analysis, err := e.GenerateAnalysis(ctx)
	if err == nil && analysis != nil {
		analysisRequests.WithLabelValues(outcomeGenerated).Inc()
		span.SetAttributes(attribute.String("outcome", outcomeGenerated))
		return generatedPayload(analysis)
	}

	e.logger.WithFields(logrus.Fields{
		"module":   "analytics",
		"funcName": "GetCEOAnalysis",
	}).Warn("analysis generation failed; serving live data only: " + errString(err))
	analysisRequests.WithLabelValues(outcomeFallback).Inc()
	span.SetAttributes(attribute.String("outcome", outcomeFallback))
	return &AnalysisPayload{LiveData: e.FetchAllLiveData(ctx, "")}
}

func cachedPayload(s *StoredAnalysis) *AnalysisPayload {
	cached := true
	generatedAt := s.GeneratedAt
	snapshot := s.SnapshotData
	metrics := s.KeyMetrics
	return &AnalysisPayload{
		IsCached:     &cached,
		AnalysisDate: s.AnalysisDate,
		GeneratedAt:  &generatedAt,
		SnapshotData: &snapshot,
		KeyMetrics:   &metrics,
		Alerts:       s.Alerts,
	}
}

func generatedPayload(a *Analysis) *AnalysisPayload {
	cached := false
	generatedAt := a.GeneratedAt
	snapshot := a.SnapshotData
	metrics := a.KeyMetrics
	trends := a.Trends
	return &AnalysisPayload{
		IsCached:     &cached,
		AnalysisDate: a.AnalysisDate,
		GeneratedAt:  &generatedAt,
		SnapshotData: &snapshot,
		KeyMetrics:   &metrics,
		Trends:       &trends,
		Predictions:  a.Predictions,
		Insights:     a.Insights,
		ActionItems:  a.ActionItems,
		Alerts:       a.Alerts,
	}
}

func errString(err error) string {
	if err == nil {
		return "no analysis produced"
	}
	return err.Error()
}
