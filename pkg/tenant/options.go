package tenant

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// ErrorHandler turns tenant resolution failures into HTTP responses.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// config holds middleware configuration.
type config struct {
	cache        Cache
	cacheTTL     time.Duration
	errorHandler ErrorHandler
	skipPaths    []string
	logger       *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithCache sets a custom cache implementation.
func WithCache(cache Cache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// WithCacheTTL sets how long resolved tenants stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		c.errorHandler = handler
	}
}

// WithSkipPaths sets path prefixes that bypass tenant resolution,
// e.g. health checks and platform-level admin routes.
func WithSkipPaths(paths []string) Option {
	return func(c *config) {
		c.skipPaths = paths
	}
}

// WithLogger sets the logger used for resolution failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTenantNotFound):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	case errors.Is(err, ErrTenantSuspended):
		http.Error(w, "Tenant is suspended", http.StatusForbidden)
	case errors.Is(err, ErrInvalidIdentifier):
		http.Error(w, "Invalid tenant identifier", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
