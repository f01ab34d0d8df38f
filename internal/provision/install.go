package provision

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/danmuck/gbpctl/internal/config"
	"github.com/danmuck/gbpctl/internal/tools"
)

var (
	ErrUnknownPackage   = errors.New("provision: unknown package")
	ErrInvalidStackRoot = errors.New("provision: invalid stack root")
	ErrSandboxViolation = errors.New("provision: destination outside stack root")
)

// Package names accepted by the installer. The map doubles as a
// whitelist: anything else is rejected before a command runs.
const (
	pkgGBPClient     = "gbpclient"
	pkgGBPService    = "gbpservice"
	pkgGBPHeat       = "gbpheat"
	pkgGBPUI         = "gbpui"
	pkgNFPGBPService = "nfpgbpservice"
)

type packageSpec struct {
	// Repo is the repository name under the configured git base.
	Repo string
	// Dir is the checkout directory under the stack root.
	Dir string
}

// nfpgbpservice ships inside the group-based-policy tree; its install
// re-syncs the same checkout and re-runs the editable install.
var packageSpecs = map[string]packageSpec{
	pkgGBPClient:     {Repo: "python-group-based-policy-client", Dir: "python-group-based-policy-client"},
	pkgGBPService:    {Repo: "group-based-policy", Dir: "group-based-policy"},
	pkgGBPHeat:       {Repo: "group-based-policy-automation", Dir: "group-based-policy-automation"},
	pkgGBPUI:         {Repo: "group-based-policy-ui", Dir: "group-based-policy-ui"},
	pkgNFPGBPService: {Repo: "group-based-policy", Dir: "group-based-policy"},
}

// Installer clones (or updates) each GBP repository under the stack
// root and pip-installs it in editable mode, all through the runner.
type Installer struct {
	stackRoot   string
	gitBase     string
	branch      string
	neutronConf string
	runner      tools.CommandRunner
	logger      zerolog.Logger
}

func NewInstaller(cfg config.Config, runner tools.CommandRunner, logger zerolog.Logger) (*Installer, error) {
	stackRoot := filepath.Clean(strings.TrimSpace(cfg.StackRoot))
	if stackRoot == "" || stackRoot == "." || !filepath.IsAbs(stackRoot) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStackRoot, cfg.StackRoot)
	}
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	return &Installer{
		stackRoot:   stackRoot,
		gitBase:     strings.TrimRight(strings.TrimSpace(cfg.GitBase), "/"),
		branch:      strings.TrimSpace(cfg.GitBranch),
		neutronConf: cfg.Conf.Neutron,
		runner:      runner,
		logger:      logger,
	}, nil
}

func (i *Installer) InstallGBPClient() error     { return i.install(pkgGBPClient) }
func (i *Installer) InstallGBPService() error    { return i.install(pkgGBPService) }
func (i *Installer) InstallGBPHeat() error       { return i.install(pkgGBPHeat) }
func (i *Installer) InstallGBPUI() error         { return i.install(pkgGBPUI) }
func (i *Installer) InstallNFPGBPService() error { return i.install(pkgNFPGBPService) }

// InitGBPService brings the GBP database schema up to head.
func (i *Installer) InitGBPService() error {
	return i.runCommand("sudo", "gbp-db-manage", "--config-file", i.neutronConf, "upgrade", "head")
}

// InitNFPGBPService re-runs the schema migration after the NFP tables
// are registered by the nfpgbpservice install.
func (i *Installer) InitNFPGBPService() error {
	return i.runCommand("sudo", "gbp-db-manage", "--config-file", i.neutronConf, "upgrade", "head")
}

func (i *Installer) install(name string) error {
	spec, ok := packageSpecs[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPackage, name)
	}

	dest := filepath.Clean(filepath.Join(i.stackRoot, spec.Dir))
	if !isWithin(dest, i.stackRoot) {
		return fmt.Errorf("%w: %q", ErrSandboxViolation, dest)
	}

	if err := i.syncRepo(spec.Repo, dest); err != nil {
		return fmt.Errorf("install %s: %w", name, err)
	}
	if err := i.runCommand("sudo", "pip", "install", "-e", dest); err != nil {
		return fmt.Errorf("install %s: %w", name, err)
	}

	i.logger.Info().Str("package", name).Str("dest", dest).Msg("package installed")
	return nil
}

// syncRepo clones dest when absent, otherwise fast-forwards the
// configured branch. Presence is probed through the runner so the same
// logic works against a remote host.
func (i *Installer) syncRepo(repo, dest string) error {
	repoURL := i.gitBase + "/" + repo

	_, _, exitCode, _ := i.runner.Run("test", "-d", filepath.Join(dest, ".git"))
	if exitCode != 0 {
		args := []string{"clone"}
		if i.branch != "" {
			args = append(args, "--branch", i.branch, "--single-branch")
		}
		args = append(args, repoURL, dest)
		return i.runCommand("git", args...)
	}

	if err := i.runCommand("git", "-C", dest, "fetch", "--all", "--prune"); err != nil {
		return err
	}
	if i.branch != "" {
		if err := i.runCommand("git", "-C", dest, "checkout", i.branch); err != nil {
			return err
		}
		return i.runCommand("git", "-C", dest, "pull", "--ff-only", "origin", i.branch)
	}
	return i.runCommand("git", "-C", dest, "pull", "--ff-only")
}

func (i *Installer) runCommand(name string, args ...string) error {
	stdout, stderr, exitCode, err := i.runner.Run(name, args...)
	i.logger.Debug().
		Str("cmd", name).
		Strs("args", args).
		Int32("exit_code", exitCode).
		Msg("command executed")
	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			detail = strings.TrimSpace(string(stdout))
		}
		if detail != "" {
			return fmt.Errorf("%s: %s: %w", name, detail, err)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func isWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}
