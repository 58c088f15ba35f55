package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records which part of the platform emitted the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event names a security- or business-relevant event, e.g.
// "cross_tenant_access_denied" or "donation_succeeded".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
