package lifecycle

import (
	"errors"
	"fmt"
)

var ErrMissingCollaborator = errors.New("lifecycle: missing collaborator")

// Summarizer is the user-facing progress sink (echo_summary in DevStack).
type Summarizer interface {
	Summary(msg string)
}

// ConfigWriter applies the per-service configuration key writes.
type ConfigWriter interface {
	ConfigureNova() error
	ConfigureHeat() error
	ConfigureNeutronGBP() error
	ConfigureNeutronNFP() error
}

// PackageInstaller installs and initializes the GBP python packages.
type PackageInstaller interface {
	InstallGBPClient() error
	InstallGBPService() error
	InitGBPService() error
	InstallGBPHeat() error
	InstallGBPUI() error
	InstallNFPGBPService() error
	InitNFPGBPService() error
}

// ServiceControl stops and starts the HTTP server fronting Horizon/Keystone.
type ServiceControl interface {
	StopApache() error
	StartApache() error
}

// ResourceBootstrap creates the runtime resources NFP needs after config.
type ResourceBootstrap interface {
	AssignUserRoleCredential() error
	CreateNFPGBPResources() error
	RouterNamespace() (string, error)
	CopyNFPFilesAndStartProcess(namespace string) error
}

// Collaborators is the capability set the dispatcher executes against.
// Tests substitute recording fakes; production wiring lives in provision.
type Collaborators struct {
	Summary   Summarizer
	Config    ConfigWriter
	Packages  PackageInstaller
	Services  ServiceControl
	Bootstrap ResourceBootstrap
}

// Validate enforces that every capability is present.
func (c Collaborators) Validate() error {
	if c.Summary == nil {
		return fmt.Errorf("%w: summary", ErrMissingCollaborator)
	}
	if c.Config == nil {
		return fmt.Errorf("%w: config", ErrMissingCollaborator)
	}
	if c.Packages == nil {
		return fmt.Errorf("%w: packages", ErrMissingCollaborator)
	}
	if c.Services == nil {
		return fmt.Errorf("%w: services", ErrMissingCollaborator)
	}
	if c.Bootstrap == nil {
		return fmt.Errorf("%w: bootstrap", ErrMissingCollaborator)
	}
	return nil
}
