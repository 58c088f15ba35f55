package email

import (
	"context"
	"log/slog"
)

type logSender struct {
	log *slog.Logger
}

// NewLogSender returns a Sender that logs messages instead of delivering
// them. Used in development and tests.
func NewLogSender(log *slog.Logger) Sender {
	return &logSender{log: log}
}

func (s *logSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "email not sent (log sender)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("tag", msg.Tag))
	return nil
}
