package provision

import (
	"github.com/rs/zerolog"

	"github.com/danmuck/gbpctl/internal/config"
	"github.com/danmuck/gbpctl/internal/lifecycle"
	"github.com/danmuck/gbpctl/internal/tools"
)

// NewCollaborators wires the production collaborator set for cfg.
// Command execution follows the runner (local or ssh); config-file
// writes always happen on the host running gbpctl.
func NewCollaborators(cfg config.Config, runner tools.CommandRunner, logger zerolog.Logger) (lifecycle.Collaborators, error) {
	installer, err := NewInstaller(cfg, runner, logger)
	if err != nil {
		return lifecycle.Collaborators{}, err
	}

	return lifecycle.Collaborators{
		Summary:   NewSummaryLogger(logger),
		Config:    NewConfigWriters(cfg, logger),
		Packages:  installer,
		Services:  NewApacheControl(cfg.ApacheService, runner, logger),
		Bootstrap: NewBootstrap(cfg, runner, logger),
	}, nil
}
