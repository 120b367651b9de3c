package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jusunglee/thaiconv/internal/transliteration"
)

// Web server metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thai_http_requests_total",
		Help: "Total HTTP requests by route, method, and status code",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "thai_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route", "method"})

	RateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thai_rate_limit_hits_total",
		Help: "Total rate limit rejections",
	})

	FeedbackSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thai_feedback_submissions_total",
		Help: "Feedback submissions by source and result",
	}, []string{"source", "result"})
)

// Conversion metrics, shared by every surface.
var (
	WordsConverted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thai_words_converted_total",
		Help: "Converted words by best candidate source (dictionary, synthesized, no_match, invalid)",
	}, []string{"outcome"})

	SuggestionsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thai_suggestions_served_total",
		Help: "Suggestion lists returned",
	})

	DictionaryEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "thai_dictionary_entries",
		Help: "Entries in the loaded dictionary",
	})
)

// Bot metrics.
var (
	BotCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thai_bot_commands_total",
		Help: "Discord slash commands handled by command and result",
	}, []string{"command", "result"})
)

// Database pool metrics (gauges updated periodically).
var (
	DBPoolTotalConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "thai_db_pool_total_conns",
		Help: "Total number of connections in the pool",
	})

	DBPoolIdleConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "thai_db_pool_idle_conns",
		Help: "Number of idle connections in the pool",
	})

	DBPoolAcquiredConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "thai_db_pool_acquired_conns",
		Help: "Number of acquired connections in the pool",
	})
)

// ObserveResults counts each converted word by how it was resolved.
func ObserveResults(results []transliteration.Result) {
	for _, r := range results {
		WordsConverted.WithLabelValues(outcome(r)).Inc()
	}
}

func outcome(r transliteration.Result) string {
	switch {
	case r.Err != nil:
		return "invalid"
	case r.Best == nil:
		return "no_match"
	default:
		return r.Best.Source.String()
	}
}
