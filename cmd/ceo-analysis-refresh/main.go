package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/config"
	"bitbucket.org/mmdatafocus/site_backend/models"
	"bitbucket.org/mmdatafocus/site_backend/models/analytics"
	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/bsm/redislock"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const refreshLockKey = "lock:ceo-analysis-refresh"

var (
	dryRun        bool
	publishAlerts bool
	migrate       bool
	lockTTL       time.Duration
	timeout       time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "ceo-analysis-refresh",
	Short: "Regenerate today's executive analysis",
	Long: `Regenerate and persist today's executive analysis, bypassing the one hour cache.

Intended for a scheduler (Cloud Scheduler / cron) so dashboard requests find a
fresh analysis. Runs are serialized through a Redis lock when Redis is reachable.

Examples:
  ceo-analysis-refresh                   # regenerate and save
  ceo-analysis-refresh --dry-run         # compute and print, save nothing
  ceo-analysis-refresh --publish-alerts  # also publish critical alerts to ALERTS_PUBSUB_TOPIC`,
	SilenceUsage: true,
	RunE:         runRefresh,
}

func init() {
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the analysis without saving or publishing")
	rootCmd.Flags().BoolVar(&publishAlerts, "publish-alerts", false, "Publish critical alerts to ALERTS_PUBSUB_TOPIC")
	rootCmd.Flags().BoolVar(&migrate, "migrate", false, "Run AutoMigrate before refreshing")
	rootCmd.Flags().DurationVar(&lockTTL, "lock-ttl", 5*time.Minute, "Redis lock TTL")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall deadline for the refresh")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRefresh(cmd *cobra.Command, args []string) error {
	logger := config.GetLogger()
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())
	ctx = utils.SetTriggerInContext(ctx, "ceo-analysis-refresh")

	// Explicit DB connect (config no longer connects DB in init()).
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		return errors.New("database not initialized (config.GetDB returned nil)")
	}
	if migrate {
		if err := models.MigrateTables(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	if err := config.ConnectRedis(ctx); err != nil {
		logger.WithFields(logrus.Fields{"field": "redis"}).Warn("redis not reachable; refreshing without lock: " + err.Error())
	}
	if locker := config.GetRedisLock(); locker != nil && !dryRun {
		lock, err := locker.Obtain(ctx, refreshLockKey, lockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			fmt.Println("another refresh is in progress; skipping")
			return nil
		}
		if err != nil {
			return fmt.Errorf("obtain %s: %w", refreshLockKey, err)
		}
		defer func() { _ = lock.Release(context.Background()) }()
	}

	engine := analytics.NewEngine(db, logger)
	started := time.Now()
	var (
		analysis *analytics.Analysis
		err      error
	)
	if dryRun {
		analysis, err = engine.PreviewAnalysis(ctx)
	} else {
		analysis, err = engine.GenerateAnalysis(ctx)
	}
	if err != nil {
		return err
	}

	printSummary(os.Stdout, analysis, config.CurrencySymbol(), time.Since(started))

	if publishAlerts && !dryRun {
		return publishCriticalAlerts(ctx, analysis)
	}
	return nil
}

func printSummary(w io.Writer, a *analytics.Analysis, symbol string, took time.Duration) {
	m := a.KeyMetrics
	fmt.Fprintf(w, "analysis_date=%s generated_at=%s took=%s\n", a.AnalysisDate, humanize.Time(a.GeneratedAt), took.Round(time.Millisecond))
	fmt.Fprintf(w, "workers=%d present=%d attendance=%d%%\n", m.Workers.Total, m.Workers.Present, m.Workers.AttendanceRate)
	fmt.Fprintf(w, "projects=%d on_track=%d delayed=%d critical=%d\n", m.Projects.Total, m.Projects.OnTrack, m.Projects.Delayed, m.Projects.Critical)
	fmt.Fprintf(w, "cash=%s profit=%s margin=%d%%\n",
		utils.FormatCurrency(m.Finance.CashBalance, symbol), utils.FormatCurrency(m.Finance.Profit, symbol), m.Finance.ProfitMargin)
	for _, alert := range a.Alerts {
		fmt.Fprintf(w, "[%s/%s] %s: %s\n", alert.Severity, alert.Category, alert.Title, alert.Message)
	}
	fmt.Fprintf(w, "%s, %s, %s\n",
		english.Plural(len(a.Predictions), "prediction", ""),
		english.Plural(len(a.ActionItems), "action item", ""),
		english.Plural(len(a.Alerts), "alert", ""))
}

func publishCriticalAlerts(ctx context.Context, a *analytics.Analysis) error {
	topic := config.AlertsTopic()
	if topic == "" {
		fmt.Println("ALERTS_PUBSUB_TOPIC not set; skipping alert publishing")
		return nil
	}
	defer config.ClosePubSub()

	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	published := 0
	for _, alert := range a.Alerts {
		if alert.Severity != analytics.SeverityCritical {
			continue
		}
		id, err := config.PublishAlert(ctx, topic, config.AlertMessage{
			AnalysisDate:  a.AnalysisDate,
			GeneratedAt:   a.GeneratedAt,
			Severity:      string(alert.Severity),
			Category:      string(alert.Category),
			Title:         alert.Title,
			Message:       alert.Message,
			CorrelationId: cid,
		})
		if err != nil {
			return fmt.Errorf("publish %s alert: %w", alert.Category, err)
		}
		published++
		fmt.Printf("published %s alert message_id=%s\n", alert.Category, id)
	}
	fmt.Printf("published %s\n", english.Plural(published, "critical alert", ""))
	return nil
}
