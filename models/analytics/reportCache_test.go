package analytics

import (
	"context"
	"os"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/config"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// requireRedis connects the shared report cache client, skipping when no
// Redis is configured for the test run.
func requireRedis(t *testing.T) {
	t.Helper()
	if os.Getenv("REDIS_ADDRESS") == "" {
		t.Skip("REDIS_ADDRESS not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := config.ConnectRedis(ctx); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	clearReportCache(t)
	t.Cleanup(func() { clearReportCache(t) })
}

func clearReportCache(t *testing.T) {
	t.Helper()
	if err := config.GetRedisDB().Del(context.Background(), reportCacheKey("2026-10-19")).Err(); err != nil {
		t.Fatalf("del report cache key: %v", err)
	}
}

func newCachingEngine(db *gorm.DB, now time.Time) *Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewEngine(db, logger,
		WithClock(func() time.Time { return now }),
		WithLocation(time.UTC),
		WithCurrencySymbol("₹"),
		WithReportCache(true),
	)
}

func TestGetCachedAnalysis_RedisFreshness(t *testing.T) {
	requireRedis(t)
	// An empty database: any hit must come from Redis.
	db := newTestDB(t)
	ctx := context.Background()

	cases := []struct {
		name string
		age  time.Duration
		hit  bool
	}{
		{"59 minutes", 59 * time.Minute, true},
		{"61 minutes", 61 * time.Minute, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stored := StoredAnalysis{
				AnalysisDate: "2026-10-19",
				GeneratedAt:  testNow.Add(-tc.age),
				KeyMetrics:   KeyMetrics{Workers: WorkerMetrics{Total: 4, Present: 3, Absent: 1, AttendanceRate: 75}},
				Alerts:       []Alert{},
			}
			if err := config.SetRedisObject(reportCacheKey("2026-10-19"), stored, 10*time.Minute); err != nil {
				t.Fatalf("SetRedisObject: %v", err)
			}

			got, ok := newCachingEngine(db, testNow).GetCachedAnalysis(ctx)
			if ok != tc.hit {
				t.Fatalf("hit = %v, want %v", ok, tc.hit)
			}
			if ok && got.KeyMetrics.Workers.AttendanceRate != 75 {
				t.Fatalf("AttendanceRate = %d, want 75", got.KeyMetrics.Workers.AttendanceRate)
			}
		})
	}
}

func TestGetCachedAnalysis_BackfillsRedisWithRemainingWindow(t *testing.T) {
	requireRedis(t)
	db := newTestDB(t)
	ctx := context.Background()

	generatedAt := testNow.Add(-20 * time.Minute)
	if err := newTestEngine(db, generatedAt).SaveAnalysis(ctx, compute(liveWith(10, 9), nil)); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}

	if _, ok := newCachingEngine(db, testNow).GetCachedAnalysis(ctx); !ok {
		t.Fatalf("expected a database hit")
	}

	ttl, err := config.GetRedisDB().TTL(ctx, reportCacheKey("2026-10-19")).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > 40*time.Minute {
		t.Fatalf("ttl = %s, want within the remaining 40 minutes", ttl)
	}

	var cached StoredAnalysis
	found, err := config.GetRedisObject(reportCacheKey("2026-10-19"), &cached)
	if err != nil || !found {
		t.Fatalf("GetRedisObject found=%v err=%v", found, err)
	}
	if !cached.GeneratedAt.Equal(generatedAt) {
		t.Fatalf("cached GeneratedAt = %s, want %s", cached.GeneratedAt, generatedAt)
	}
}

func TestSaveAnalysis_WritesThroughToRedis(t *testing.T) {
	requireRedis(t)
	db := newTestDB(t)
	ctx := context.Background()

	if err := newCachingEngine(db, testNow).SaveAnalysis(ctx, compute(liveWith(10, 8), nil)); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}

	var cached StoredAnalysis
	found, err := config.GetRedisObject(reportCacheKey("2026-10-19"), &cached)
	if err != nil || !found {
		t.Fatalf("GetRedisObject found=%v err=%v", found, err)
	}
	if cached.KeyMetrics.Workers.AttendanceRate != 80 {
		t.Fatalf("cached AttendanceRate = %d, want 80", cached.KeyMetrics.Workers.AttendanceRate)
	}
}

func TestCacheSet_SkipsExpiredWindow(t *testing.T) {
	// A non-positive TTL never reaches Redis, connected or not.
	if err := cacheSet(reportCacheKey("2026-10-19"), StoredAnalysis{}, 0); err != nil {
		t.Fatalf("cacheSet: %v", err)
	}
}
