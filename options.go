package lenient

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Result.
type Option func(*resultConfig) error

// resultConfig holds all Result configuration.
type resultConfig struct {
	// logger is the structured logger for debug output.
	// If nil, logging is disabled (silent mode).
	logger *slog.Logger

	// registerer receives the query metrics. If nil, metrics are still
	// counted but not exported.
	registerer prometheus.Registerer

	// memoize keeps the first successfully loaded graph snapshot for the
	// lifetime of the Result.
	memoize bool
}

// WithLogger sets a structured logger for query diagnostics.
// If not set, logging is disabled (silent mode).
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "lenient")
//	res, err := lenient.New(cfg, in, lenient.WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *resultConfig) error {
		c.logger = l
		return nil
	}
}

// WithMetrics registers query metrics with reg. Results sharing a registerer
// share the metric families, labeled by configuration.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *resultConfig) error {
		if reg == nil {
			return errors.New("metrics registerer cannot be nil")
		}
		c.registerer = reg
		return nil
	}
}

// WithSnapshotMemoization controls whether the graph snapshot is loaded once
// per Result (the default) or again by every query that needs it.
func WithSnapshotMemoization(enabled bool) Option {
	return func(c *resultConfig) error {
		c.memoize = enabled
		return nil
	}
}

// log returns the configured logger, or a no-op logger if none was set.
func (c *resultConfig) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// newResultConfig applies opts over the defaults.
func newResultConfig(opts ...Option) (*resultConfig, error) {
	c := &resultConfig{memoize: true}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
