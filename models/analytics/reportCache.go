package analytics

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/config"
	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/sirupsen/logrus"
)

const reportCacheKeyPrefix = "CEOAnalysis:"

func reportCacheKey(analysisDate string) string {
	return reportCacheKeyPrefix + analysisDate
}

func cacheGet[T any](key string, dest *T) (bool, error) {
	return config.GetRedisObject(key, dest)
}

func cacheSet(key string, obj any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return config.SetRedisObject(key, obj, ttl)
}

func logSlowReport(ctx context.Context, logger *logrus.Logger, name string, started time.Time, extra map[string]any) {
	d := time.Since(started)
	if d < config.ReportSlowThreshold() {
		return
	}
	logger.WithFields(requestFields(ctx, logrus.Fields{
		"module": "analytics",
		"report": name,
		"ms":     d.Milliseconds(),
		"extra":  extra,
	})).Warn("slow_report")
}

// requestFields adds the correlation id and, for scheduled runs, the trigger.
func requestFields(ctx context.Context, fields logrus.Fields) logrus.Fields {
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	fields["correlation_id"] = cid
	if trigger, ok := utils.GetTriggerFromContext(ctx); ok {
		fields["trigger"] = trigger
	}
	return fields
}
