package provision

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/danmuck/gbpctl/internal/tools"
)

// ApacheControl restarts the HTTP server after the GBP UI install so
// Horizon picks up the new panels.
type ApacheControl struct {
	service string
	runner  tools.CommandRunner
	logger  zerolog.Logger
}

func NewApacheControl(service string, runner tools.CommandRunner, logger zerolog.Logger) *ApacheControl {
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	return &ApacheControl{service: service, runner: runner, logger: logger}
}

func (a *ApacheControl) StopApache() error {
	return a.systemctl("stop")
}

func (a *ApacheControl) StartApache() error {
	return a.systemctl("start")
}

func (a *ApacheControl) systemctl(verb string) error {
	_, stderr, exitCode, err := a.runner.Run("sudo", "systemctl", verb, a.service)
	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		if detail != "" {
			return fmt.Errorf("systemctl %s %s: %s: %w", verb, a.service, detail, err)
		}
		return fmt.Errorf("systemctl %s %s: %w", verb, a.service, err)
	}
	a.logger.Info().
		Str("service", a.service).
		Str("verb", verb).
		Int32("exit_code", exitCode).
		Msg("service control")
	return nil
}
