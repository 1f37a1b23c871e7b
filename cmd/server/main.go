package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jobscout/jobscout/internal/ingest"
	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/internal/search"
	"github.com/jobscout/jobscout/internal/search/executor"
	"github.com/jobscout/jobscout/internal/server/cache"
	"github.com/jobscout/jobscout/internal/server/handler"
	"github.com/jobscout/jobscout/internal/store"
	"github.com/jobscout/jobscout/pkg/config"
	"github.com/jobscout/jobscout/pkg/health"
	"github.com/jobscout/jobscout/pkg/logger"
	"github.com/jobscout/jobscout/pkg/metrics"
	"github.com/jobscout/jobscout/pkg/middleware"
	"github.com/jobscout/jobscout/pkg/postgres"
	pkgredis "github.com/jobscout/jobscout/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search server", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	jobList, pgClient := loadCorpus(ctx, cfg)
	if pgClient != nil {
		defer pgClient.Close()
	}
	slog.Info("corpus loaded", "jobs", len(jobList))

	engine := search.NewEngine()
	report := engine.Rebuild(jobList)
	m.IndexRebuildsTotal.Inc()
	m.IndexedDocs.Set(float64(report.Accepted))
	m.DocsRejectedTotal.Add(float64(len(report.Rejected)))

	var queryCache *cache.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	if cfg.Kafka.Enabled {
		var invalidator ingest.Invalidator
		if queryCache != nil {
			invalidator = queryCache
		}
		consumer := ingest.NewConsumer(cfg.Kafka, engine, invalidator, m, jobList)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				slog.Error("ingest consumer stopped", "error", err)
			}
		}()
		slog.Info("ingest consumer started", "topic", cfg.Kafka.Topics.JobsScraped)
	}

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if n := engine.Current().DocCount(); n > 0 {
			return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d documents", n)}
		}
		return health.ComponentHealth{Status: health.StatusDegraded, Message: "empty index"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := handler.New(engine, executor.New(cfg.Search), queryCache, m)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", h.Root)
	mux.HandleFunc("GET /search", h.Search)
	mux.HandleFunc("GET /cache/stats", h.CacheStats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Metrics(m)(chain)
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("search server stopped")
}

// loadCorpus reads the job corpus from postgres when enabled, falling back
// to the JSON snapshot file otherwise. The returned client is non-nil only
// when postgres is in use.
func loadCorpus(ctx context.Context, cfg *config.Config) ([]jobs.Job, *postgres.Client) {
	if cfg.Postgres.Enabled {
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			slog.Error("connecting to postgres failed", "error", err)
			os.Exit(1)
		}
		jobStore := store.NewJobStore(client)
		if err := jobStore.Init(ctx); err != nil {
			slog.Error("initializing job store failed", "error", err)
			os.Exit(1)
		}
		jobList, err := jobStore.LoadAll(ctx)
		if err != nil {
			slog.Error("loading jobs from postgres failed", "error", err)
			os.Exit(1)
		}
		return jobList, client
	}

	jobList, err := store.NewFileStore(cfg.Scraper.OutputPath).Load()
	if err != nil {
		slog.Error("loading jobs snapshot failed", "path", cfg.Scraper.OutputPath, "error", err)
		os.Exit(1)
	}
	if jobList == nil {
		slog.Warn("no jobs snapshot found, starting with an empty index; run the scraper first",
			"path", cfg.Scraper.OutputPath)
	}
	return jobList, nil
}
