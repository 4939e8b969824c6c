package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"newswire/internal/common/pagination"
	appconfig "newswire/internal/config"
	pgRepo "newswire/internal/infra/adapter/persistence/postgres"
	"newswire/internal/infra/db"
	"newswire/internal/infra/fetcher"
	"newswire/internal/infra/summarizer"
	"newswire/internal/observability/logging"
	"newswire/internal/observability/tracing"

	artUC "newswire/internal/usecase/article"
	feedUC "newswire/internal/usecase/feed"
	pollUC "newswire/internal/usecase/poll"

	hhttp "newswire/internal/handler/http"
	harticle "newswire/internal/handler/http/article"
	hauth "newswire/internal/handler/http/auth"
	hfeed "newswire/internal/handler/http/feed"
	hpoll "newswire/internal/handler/http/poll"
	"newswire/internal/handler/http/requestid"
	"newswire/internal/handler/http/searchlimit"
	authservice "newswire/internal/service/auth"
)

func main() {
	logger := logging.NewLogger()
	validateAdminCredentials(logger)
	validateJWTSecret(logger)
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	components := setupServer(logger, database, version)

	runServer(logger, components, version)
}

// validateAdminCredentials validates the admin credentials at startup.
// This prevents the server from starting with empty or weak admin credentials.
func validateAdminCredentials(logger *slog.Logger) {
	if err := hauth.ValidateAdminCredentials(); err != nil {
		logger.Error("admin credentials validation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// validateJWTSecret validates the JWT_SECRET environment variable for security requirements.
func validateJWTSecret(logger *slog.Logger) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Error("JWT_SECRET must be set")
		os.Exit(1)
	}
	// セキュリティ: 最小32文字（256ビット）を強制
	if len(secret) < 32 {
		logger.Error("JWT_SECRET must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	// セキュリティ: よくある弱い秘密鍵を拒否
	weakSecrets := []string{"secret", "password", "test", "admin", "default"}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			logger.Error("JWT_SECRET must not be a common weak value", slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// newAuthService builds the auth service from the security configuration
// file. A missing or broken file falls back to the compiled-in defaults
// rather than refusing to start.
func newAuthService(logger *slog.Logger) *authservice.AuthService {
	path := os.Getenv("SECURITY_CONFIG_PATH")
	if path == "" {
		path = "configs/security.yaml"
	}

	minLength := hauth.MinPasswordLength()
	weakPasswords := hauth.WeakPasswordList()
	publicEndpoints := hauth.PublicEndpoints

	secCfg, err := appconfig.LoadSecurityConfig(path)
	if err != nil {
		logger.Warn("security config not loaded, using built-in defaults",
			slog.String("path", path),
			slog.Any("error", err))
	} else {
		minLength = secCfg.GetMinPasswordLength()
		weakPasswords = secCfg.GetWeakPasswords()
		publicEndpoints = secCfg.GetPublicEndpoints()
		logger.Info("security config loaded",
			slog.String("path", path),
			slog.String("provider", secCfg.GetAuthProvider()))
	}

	provider := hauth.NewBasicAuthProvider(minLength, weakPasswords)
	return authservice.NewAuthService(provider, publicEndpoints)
}

// createSummarizer creates a summarizer based on the SUMMARIZER_TYPE
// environment variable. The default is the no-op summarizer so the API runs
// without any AI credentials configured.
func createSummarizer(logger *slog.Logger) artUC.Summarizer {
	switch summarizerType := os.Getenv("SUMMARIZER_TYPE"); summarizerType {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when SUMMARIZER_TYPE=claude")
			os.Exit(1)
		}
		logger.Info("using Claude API for summarization")
		return summarizer.NewClaude(apiKey)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is required when SUMMARIZER_TYPE=openai")
			os.Exit(1)
		}
		cfg, err := summarizer.LoadOpenAIConfig()
		if err != nil {
			logger.Error("failed to load OpenAI configuration", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("using OpenAI API for summarization",
			slog.Int("character_limit", cfg.GetCharacterLimit()))
		return summarizer.NewOpenAI(apiKey, cfg)
	case "", "noop":
		logger.Info("summarization disabled, using no-op summarizer")
		return summarizer.NewNoOp()
	default:
		logger.Error("invalid SUMMARIZER_TYPE",
			slog.String("type", summarizerType),
			slog.String("expected", "claude, openai or noop"))
		os.Exit(1)
		return nil
	}
}

// pollMaxConcurrent reads POLL_MAX_CONCURRENT; zero lets the poll service
// apply its own default.
func pollMaxConcurrent(logger *slog.Logger) int {
	raw := os.Getenv("POLL_MAX_CONCURRENT")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		logger.Warn("invalid POLL_MAX_CONCURRENT, using default", slog.String("value", raw))
		return 0
	}
	return n
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler     http.Handler
	AuthLimiter *hhttp.RateLimiter
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, version string) *ServerComponents {
	feedRepo := pgRepo.NewFeedRepo(database)
	artRepo := pgRepo.NewArticleRepo(database)

	contentCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Warn("invalid content fetch configuration, content fetching disabled",
			slog.Any("error", err))
		contentCfg = fetcher.DefaultConfig()
		contentCfg.Enabled = false
	}
	var contentFetcher artUC.ContentFetcher
	if contentCfg.Enabled {
		contentFetcher = fetcher.NewReadabilityFetcher(contentCfg)
		logger.Info("content fetching enabled",
			slog.Int("threshold", contentCfg.Threshold),
			slog.Duration("timeout", contentCfg.Timeout))
	}

	artSvc := &artUC.Service{
		Repo:             artRepo,
		Summarizer:       createSummarizer(logger),
		ContentFetcher:   contentFetcher,
		ContentThreshold: contentCfg.Threshold,
	}
	feedSvc := &feedUC.Service{Repo: feedRepo}

	fetchCfg, err := fetcher.LoadFetchConfigFromEnv()
	if err != nil {
		logger.Warn("invalid feed fetch configuration, using defaults", slog.Any("error", err))
		fetchCfg = fetcher.DefaultFetchConfig()
	}
	pollSvc := pollUC.NewService(feedRepo, artRepo, fetcher.NewRSSFetcher(fetchCfg), pollMaxConcurrent(logger))

	authService := newAuthService(logger)

	// レート制限: 認証エンドポイントは1分間に5リクエストまで
	authRateLimiter := hhttp.NewRateLimiter(5, 1*time.Minute)

	// 検索クエリはトークンバケットで絞る
	searchLimiter := searchlimit.New(searchlimit.DefaultRate, searchlimit.DefaultBurst)

	mux := http.NewServeMux()

	// ヘルスチェックとメトリクス（認証不要）
	mux.Handle("/healthz", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("/readyz", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/livez", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())
	mux.Handle("/auth/token", authRateLimiter.Limit(hauth.TokenHandler(authService)))

	harticle.Register(mux, artSvc, pagination.LoadFromEnv(), searchLimiter, logger)
	hfeed.Register(mux, feedSvc)

	cronSecret := os.Getenv("CRON_SECRET")
	if cronSecret == "" {
		logger.Warn("CRON_SECRET not set, cron trigger endpoint disabled")
	}
	hpoll.Register(mux, pollSvc, cronSecret, hpoll.LoadRunTimeout(), logger)

	return &ServerComponents{
		Handler:     applyMiddleware(logger, mux),
		AuthLimiter: authRateLimiter,
	}
}

// applyMiddleware wraps the handler with the middleware chain.
// Order, outermost first: Request ID → Tracing → Logging → Recovery →
// Input Validation → Timeout → Body Limit → Metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	chain := handler

	// Apply in reverse order (innermost to outermost)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = withRequestTimeout(30*time.Second, chain)
	chain = hhttp.InputValidation()(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// withRequestTimeout applies the request timeout middleware everywhere except
// the cron trigger, whose poll run is bounded by its own POLL_TIMEOUT.
func withRequestTimeout(d time.Duration, next http.Handler) http.Handler {
	timed := hhttp.Timeout(d)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/internal/cron/") {
			next.ServeHTTP(w, r)
			return
		}
		timed.ServeHTTP(w, r)
	})
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, components *ServerComponents, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 期限切れのレート制限レコードをバックグラウンドで掃除する
	go hhttp.StartRateLimitCleanup(ctx, components.AuthLimiter, hhttp.LoadCleanupInterval(), "auth")

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Cancel background goroutines (rate limit cleanup)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
