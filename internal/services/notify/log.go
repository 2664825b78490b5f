package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of delivering them. Used when
// no mail transport is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger.Named("LogSender")}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("Email not delivered, no transport configured",
		zap.String("toEmail", msg.To.Email),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text))
	return nil
}
