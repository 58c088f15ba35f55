// Package logger builds the platform's slog-based structured logger.
//
// The context handler decorator injects request-scoped attributes at log
// time; wiring the tenant and request-id extractors means every record
// emitted within a request carries tenant_id and request_id without any
// handler passing them explicitly:
//
//	log := logger.New(
//		logger.WithAttr(slog.String("service", "platform")),
//		logger.WithContextExtractors(
//			tenant.LoggerExtractor(),
//			requestid.LoggerExtractor(),
//		),
//	)
package logger
