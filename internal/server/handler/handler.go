// Package handler exposes the search API over HTTP.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jobscout/jobscout/internal/search"
	"github.com/jobscout/jobscout/internal/search/executor"
	"github.com/jobscout/jobscout/internal/server/cache"
	apperrors "github.com/jobscout/jobscout/pkg/errors"
	"github.com/jobscout/jobscout/pkg/logger"
	"github.com/jobscout/jobscout/pkg/metrics"
)

// Handler serves the search endpoints.
type Handler struct {
	engine   *search.Engine
	executor *executor.Executor
	cache    *cache.QueryCache // nil when caching is disabled
	metrics  *metrics.Metrics  // nil in tests
	logger   *slog.Logger
}

// New creates a Handler. cache and m may be nil.
func New(engine *search.Engine, exec *executor.Executor, queryCache *cache.QueryCache, m *metrics.Metrics) *Handler {
	return &Handler{
		engine:   engine,
		executor: exec,
		cache:    queryCache,
		metrics:  m,
		logger:   slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /search?q=&limit=&min_salary=. A missing or empty q is
// not an error: it returns the zero-result payload.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")

	var opts executor.Options
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.writeAppError(w, apperrors.Newf(apperrors.ErrInvalidInput,
				http.StatusBadRequest, "limit must be a positive integer, got %q", limitStr))
			return
		}
		opts.Limit = parsed
	}
	if salaryStr := r.URL.Query().Get("min_salary"); salaryStr != "" {
		parsed, err := strconv.ParseInt(salaryStr, 10, 64)
		if err != nil || parsed < 0 {
			h.writeAppError(w, apperrors.Newf(apperrors.ErrInvalidInput,
				http.StatusBadRequest, "min_salary must be a non-negative integer, got %q", salaryStr))
			return
		}
		opts.MinSalary = parsed
	}

	ix := h.engine.Current()

	var result *executor.Result
	var err error
	cacheHit := false
	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, query, opts, func() (*executor.Result, error) {
			return h.executor.Search(ctx, ix, query, opts), nil
		})
		if err != nil {
			log.Error("search execution failed", "query", query, "error", err)
			h.writeError(w, http.StatusInternalServerError, "search failed")
			return
		}
	} else {
		result = h.executor.Search(ctx, ix, query, opts)
	}

	latency := time.Since(start)
	log.Info("search completed",
		"query", query,
		"total_results", result.TotalResults,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)
	h.observeSearch(result, cacheHit, latency)
	h.writeJSON(w, http.StatusOK, result)
}

// Root handles GET / with a plain-text endpoint listing.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "JobScout Search API\n\nEndpoints:\n  GET /search?q=<keywords>&limit=<n>&min_salary=<n>\n\nExample:\n  curl 'http://localhost:8080/search?q=rust+developer'\n")
}

// CacheStats handles GET /cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

func (h *Handler) observeSearch(result *executor.Result, cacheHit bool, latency time.Duration) {
	if h.metrics == nil {
		return
	}
	resultType := "results"
	if result.TotalResults == 0 {
		resultType = "zero_results"
	}
	cacheStatus := "miss"
	if h.cache == nil {
		cacheStatus = "disabled"
	} else if cacheHit {
		cacheStatus = "hit"
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
	h.metrics.SearchResultsCount.Observe(float64(len(result.Results)))
	if h.cache != nil {
		if cacheHit {
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("writing response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeAppError(w http.ResponseWriter, err error) {
	h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
}
