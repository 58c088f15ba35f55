package httpserver

import "errors"

var (
	// ErrStart indicates the server failed to start or exited abnormally.
	ErrStart = errors.New("httpserver: start failed")
	// ErrShutdown indicates graceful shutdown did not complete in time.
	ErrShutdown = errors.New("httpserver: shutdown failed")
)
