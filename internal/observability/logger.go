// Package observability owns logging and metrics concerns.
//
// Ownership boundary:
// - console logger construction with env overrides
// - prometheus metric registration and recording
// - gin middleware for the NFP proxy
package observability

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "GBPCTL_LOG_LEVEL"
	EnvLogTimestamp = "GBPCTL_LOG_TIMESTAMP"
	EnvLogNoColor   = "GBPCTL_LOG_NOCOLOR"
)

// InitLogger builds the console logger for app and installs it as the
// global zerolog logger.
func InitLogger(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    envBool(EnvLogNoColor, false),
	}

	builder := zerolog.New(output).With().Str("app", app)
	if envBool(EnvLogTimestamp, true) {
		builder = builder.Timestamp()
	}
	logger := builder.Logger().Level(envLevel())

	log.Logger = logger
	return logger
}

func envLevel() zerolog.Level {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(EnvLogLevel)))
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
