package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jobscout/jobscout/internal/ingest"
	"github.com/jobscout/jobscout/internal/scraper"
	"github.com/jobscout/jobscout/internal/store"
	"github.com/jobscout/jobscout/pkg/config"
	"github.com/jobscout/jobscout/pkg/kafka"
	"github.com/jobscout/jobscout/pkg/logger"
	"github.com/jobscout/jobscout/pkg/postgres"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting scraper", "pages", len(cfg.Scraper.URLs))
	jobList, err := scraper.New(cfg.Scraper).Scrape(ctx)
	if err != nil {
		slog.Error("scrape failed", "error", err)
		os.Exit(1)
	}

	withSalary := 0
	for _, j := range jobList {
		if j.SalaryMin != nil {
			withSalary++
		}
	}
	slog.Info("scrape finished", "jobs", len(jobList), "with_salary", withSalary)

	fileStore := store.NewFileStore(cfg.Scraper.OutputPath)
	if err := fileStore.Save(jobList); err != nil {
		slog.Error("saving snapshot failed", "path", cfg.Scraper.OutputPath, "error", err)
		os.Exit(1)
	}
	slog.Info("snapshot saved", "path", cfg.Scraper.OutputPath)

	if cfg.Postgres.Enabled {
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			slog.Error("connecting to postgres failed", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		jobStore := store.NewJobStore(client)
		if err := jobStore.Init(ctx); err != nil {
			slog.Error("initializing job store failed", "error", err)
			os.Exit(1)
		}
		if err := jobStore.Upsert(ctx, jobList); err != nil {
			slog.Error("upserting jobs failed", "error", err)
			os.Exit(1)
		}
		slog.Info("jobs upserted to postgres", "count", len(jobList))
	}

	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.JobsScraped)
		defer producer.Close()
		if err := ingest.NewPublisher(producer).PublishJobs(ctx, jobList); err != nil {
			slog.Error("publishing jobs failed", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("scraper done")
}
