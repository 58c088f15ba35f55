package httpserver

import (
	"log/slog"
	"time"
)

// Option configures a Server.
type Option func(*options)

// WithAddr sets the listen address. Default is ":8080".
func WithAddr(addr string) Option {
	return func(o *options) {
		if addr != "" {
			o.addr = addr
		}
	}
}

// WithReadTimeout sets the maximum duration for reading the entire request.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.readTimeout = d
		}
	}
}

// WithWriteTimeout sets the maximum duration before timing out response writes.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.writeTimeout = d
		}
	}
}

// WithIdleTimeout sets the keep-alive idle timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.idleTimeout = d
		}
	}
}

// WithShutdownTimeout bounds how long in-flight requests may run during
// graceful shutdown. Default is 5s.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}
