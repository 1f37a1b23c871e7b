package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Search.DefaultLimit != 10 || cfg.Search.MaxResults != 100 {
		t.Errorf("Search limits = %d/%d, want 10/100", cfg.Search.DefaultLimit, cfg.Search.MaxResults)
	}
	if cfg.Search.K1 != 1.2 || cfg.Search.B != 0.75 {
		t.Errorf("BM25 params = %v/%v, want 1.2/0.75", cfg.Search.K1, cfg.Search.B)
	}
	if cfg.Postgres.Enabled || cfg.Kafka.Enabled {
		t.Error("postgres/kafka should default to disabled")
	}
	if len(cfg.Scraper.URLs) == 0 {
		t.Error("default scraper URLs empty")
	}
	if cfg.Scraper.OutputPath != "data/jobs.json" {
		t.Errorf("Scraper.OutputPath = %q", cfg.Scraper.OutputPath)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
search:
  defaultLimit: 25
  k1: 1.5
scraper:
  fetchTimeout: 10s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Search.DefaultLimit != 25 {
		t.Errorf("Search.DefaultLimit = %d, want 25", cfg.Search.DefaultLimit)
	}
	if cfg.Search.K1 != 1.5 {
		t.Errorf("Search.K1 = %v, want 1.5", cfg.Search.K1)
	}
	if cfg.Scraper.FetchTimeout != 10*time.Second {
		t.Errorf("Scraper.FetchTimeout = %v, want 10s", cfg.Scraper.FetchTimeout)
	}
	// Untouched sections keep their defaults.
	if cfg.Search.B != 0.75 {
		t.Errorf("Search.B = %v, want default 0.75", cfg.Search.B)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want default", cfg.Redis.Addr)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JS_SERVER_PORT", "8181")
	t.Setenv("JS_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("JS_SCRAPER_URLS", "https://a.example,https://b.example")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("Server.Port = %d, want 8181", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "redis.internal:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if len(cfg.Scraper.URLs) != 2 || cfg.Scraper.URLs[1] != "https://b.example" {
		t.Errorf("Scraper.URLs = %v", cfg.Scraper.URLs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of missing file returned nil error")
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "pw", Database: "jobs", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=pw dbname=jobs sslmode=disable"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
