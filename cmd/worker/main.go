package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"newswire/internal/handler/http/respond"
	pgRepo "newswire/internal/infra/adapter/persistence/postgres"
	"newswire/internal/infra/db"
	"newswire/internal/infra/fetcher"
	workerPkg "newswire/internal/infra/worker"
	"newswire/internal/observability/logging"
	obsmetrics "newswire/internal/observability/metrics"
	"newswire/internal/observability/slo"
	"newswire/internal/repository"
	pollUC "newswire/internal/usecase/poll"
)

func main() {
	logger := logging.NewLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// Shutdown signal cancels the context; metrics and health servers stop
	// with it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("poll_timeout", workerConfig.PollTimeout),
		slog.Int("max_concurrent", workerConfig.MaxConcurrent),
		slog.Int("health_port", workerConfig.HealthPort))

	startMetricsServer(ctx, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	svc, artRepo := setupPollService(logger, database, workerConfig)

	runCronWorker(ctx, logger, svc, artRepo, workerConfig, workerMetrics, healthServer)
}

// initDatabase opens the database connection and waits for migrations to complete.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

// waitForMigrations blocks until the API container has created the schema.
// The worker never migrates itself; two concurrent migrators would race.
func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM feeds LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

// setupPollService wires the poll orchestrator with its repositories and the
// feed fetcher.
func setupPollService(logger *slog.Logger, database *sql.DB, cfg *workerPkg.WorkerConfig) (*pollUC.Service, repository.ArticleRepository) {
	feedRepo := pgRepo.NewFeedRepo(database)
	artRepo := pgRepo.NewArticleRepo(database)

	fetchCfg, err := fetcher.LoadFetchConfigFromEnv()
	if err != nil {
		logger.Warn("invalid feed fetch configuration, using defaults", slog.Any("error", err))
		fetchCfg = fetcher.DefaultFetchConfig()
	}
	feedFetcher := fetcher.NewRSSFetcher(fetchCfg)

	return pollUC.NewService(feedRepo, artRepo, feedFetcher, cfg.MaxConcurrent), artRepo
}

// runCronWorker starts the cron scheduler and blocks until the context is
// cancelled, then waits for a running job to finish.
func runCronWorker(ctx context.Context, logger *slog.Logger, svc *pollUC.Service, artRepo repository.ArticleRepository, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runPollJob(logger, svc, artRepo, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	logger.Info("shutting down worker...")

	healthServer.SetReady(false)
	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info("worker stopped")
}

// runPollJob executes a single polling run with timeout and error handling.
func runPollJob(logger *slog.Logger, svc *pollUC.Service, artRepo repository.ArticleRepository, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	metrics.RecordRun("started")
	logger.Info("poll run started")

	// ポーリング処理のタイムアウト（設定から取得）
	ctx, cancel := context.WithTimeout(context.Background(), cfg.PollTimeout)
	defer cancel()

	result, err := svc.PollAll(ctx)
	if err != nil {
		// 機密情報をマスクしてログ出力
		logger.Error("poll run failed", slog.String("error", respond.SanitizeError(err)))
		metrics.RecordRun("failure")
		metrics.RecordRunDuration(time.Since(startTime).Seconds())
		return
	}

	status := "success"
	if result.Failed > 0 {
		status = "partial"
	}
	metrics.RecordRun(status)
	metrics.RecordRunDuration(time.Since(startTime).Seconds())
	metrics.RecordFeedsProcessed(result.Total)
	metrics.RecordArticlesInserted(result.Inserted)
	metrics.RecordLastSuccess()
	slo.RecordRun(result.Total, result.Successful, result.Duration)

	// 実行ごとに総数ゲージを更新する
	obsmetrics.UpdateFeedsTotal(result.Total)
	if count, err := artRepo.Count(ctx, repository.ArticleFilters{}); err == nil {
		obsmetrics.UpdateArticlesTotal(int(count))
	}

	logger.Info("poll run completed",
		slog.Int("total", result.Total),
		slog.Int("successful", result.Successful),
		slog.Int("failed", result.Failed),
		slog.Int64("inserted", result.Inserted),
		slog.Int64("duplicated", result.Duplicated),
		slog.Int64("item_errors", result.ItemErrors),
		slog.Duration("duration", result.Duration),
	)
}
