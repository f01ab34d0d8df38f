package provision

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/danmuck/gbpctl/internal/config"
	"github.com/danmuck/gbpctl/internal/tools"
)

var ErrRouterNotFound = errors.New("provision: router not found")

// Bootstrap creates the runtime resources NFP needs once the packages
// and config are in place.
type Bootstrap struct {
	cfg    config.Config
	runner tools.CommandRunner
	logger zerolog.Logger
}

func NewBootstrap(cfg config.Config, runner tools.CommandRunner, logger zerolog.Logger) *Bootstrap {
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	return &Bootstrap{cfg: cfg, runner: runner, logger: logger}
}

// AssignUserRoleCredential grants the service user the admin role on
// the service project so the NFP plumber can own chain resources.
func (b *Bootstrap) AssignUserRoleCredential() error {
	return b.run("openstack", "role", "add",
		"--user", b.cfg.ServiceUser,
		"--project", b.cfg.ServiceTenant,
		"admin")
}

// CreateNFPGBPResources creates the service-management group the NFP
// node driver expects (svc_management_ptg_name in neutron.conf).
func (b *Bootstrap) CreateNFPGBPResources() error {
	if err := b.run("gbp", "l3policy-create", "default-nfp",
		"--ip-pool", "172.16.0.0/16",
		"--subnet-prefix-length", "20"); err != nil {
		return err
	}
	return b.run("gbp", "group-create", "svc_management_ptg",
		"--service_management", "True")
}

// RouterNamespace resolves the network namespace hosting the default
// router; the NFP proxy must run inside it to reach service VMs.
func (b *Bootstrap) RouterNamespace() (string, error) {
	stdout, stderr, _, err := b.runner.Run("openstack", "router", "show",
		b.cfg.RouterName, "-f", "value", "-c", "id")
	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		if detail != "" {
			return "", fmt.Errorf("router show %s: %s: %w", b.cfg.RouterName, detail, err)
		}
		return "", fmt.Errorf("router show %s: %w", b.cfg.RouterName, err)
	}

	routerID := strings.TrimSpace(string(stdout))
	if routerID == "" {
		return "", fmt.Errorf("%w: %q", ErrRouterNotFound, b.cfg.RouterName)
	}

	namespace := "qrouter-" + routerID
	b.logger.Info().Str("router", b.cfg.RouterName).Str("namespace", namespace).Msg("router namespace resolved")
	return namespace, nil
}

// CopyNFPFilesAndStartProcess stages the NFP configurator files and
// launches the proxy inside the router namespace. The proxy is
// backgrounded by the shell so the invocation returns immediately.
func (b *Bootstrap) CopyNFPFilesAndStartProcess(namespace string) error {
	if strings.TrimSpace(namespace) == "" {
		return fmt.Errorf("%w: empty namespace", ErrRouterNotFound)
	}

	proxy := b.cfg.Proxy
	if err := b.run("sudo", "mkdir", "-p", proxy.ConfigDest); err != nil {
		return err
	}
	if err := b.run("sudo", "cp", "-r", proxy.ConfigSource, proxy.ConfigDest); err != nil {
		return err
	}

	launch := fmt.Sprintf("nohup %s -config %s -addr %s >> %s 2>&1 &",
		proxy.BinaryPath, config.DefaultPath, proxy.Addr, proxy.LogPath)
	if err := b.run("sudo", "ip", "netns", "exec", namespace, "bash", "-c", launch); err != nil {
		return err
	}

	b.logger.Info().Str("namespace", namespace).Str("addr", proxy.Addr).Msg("nfp proxy started")
	return nil
}

func (b *Bootstrap) run(name string, args ...string) error {
	stdout, stderr, exitCode, err := b.runner.Run(name, args...)
	b.logger.Debug().
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
