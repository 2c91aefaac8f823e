package notifier

import (
	"context"

	"timeboss-backend/models"
	"timeboss-backend/utils/logger"
)

// LogSender writes messages to the log. It is used when no gateway is configured.
type LogSender struct {
	logger logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

func (s *LogSender) Send(ctx context.Context, msg models.Message) error {
	if msg.Channel == models.ChannelSMS {
		s.logger.Infof("SMS to %s: %s", msg.To, msg.Body)
		return nil
	}
	s.logger.Infof("Email to %s - %s: %s", msg.To, msg.Subject, msg.Body)
	return nil
}
