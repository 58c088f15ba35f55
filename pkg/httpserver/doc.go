// Package httpserver provides an http.Server wrapper with graceful
// shutdown, environment-driven configuration and a health check handler.
package httpserver
