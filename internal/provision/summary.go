package provision

import "github.com/rs/zerolog"

// SummaryLogger is the echo_summary equivalent: user-facing progress
// lines emitted through the structured logger.
type SummaryLogger struct {
	logger zerolog.Logger
}

func NewSummaryLogger(logger zerolog.Logger) SummaryLogger {
	return SummaryLogger{logger: logger}
}

func (s SummaryLogger) Summary(msg string) {
	s.logger.Info().Msg(msg)
}
