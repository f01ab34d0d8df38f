// Package config owns gbpctl tool configuration.
//
// Ownership boundary:
// - TOML config shape for both binaries
// - defaults, environment overrides, validation
// - config template generation
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where gbpctl looks for its config when -config is not given.
const DefaultPath = "/etc/gbpctl/gbpctl.toml"

// GroupPolicyService is the service name gating all dispatch behavior.
const GroupPolicyService = "group-policy"

// Environment overrides honored for DevStack compatibility.
const (
	EnvEnableNFP       = "ENABLE_NFP"
	EnvNovaConf        = "NOVA_CONF"
	EnvHeatConf        = "HEAT_CONF"
	EnvNeutronConf     = "NEUTRON_CONF"
	EnvAdminPassword   = "ADMIN_PASSWORD"
	EnvEnabledServices = "ENABLED_SERVICES"
)

var ErrConfigInvalid = errors.New("config: invalid configuration")

// ConfFiles holds paths to the service config files gbpctl writes.
type ConfFiles struct {
	Nova    string `toml:"nova"`
	Heat    string `toml:"heat"`
	Neutron string `toml:"neutron"`
}

// ProxyConfig configures the NFP proxy process and how it is launched.
type ProxyConfig struct {
	Addr         string   `toml:"addr"`
	CorsOrigins  []string `toml:"cors_origins"`
	BinaryPath   string   `toml:"binary_path"`
	ConfigSource string   `toml:"config_source"`
	ConfigDest   string   `toml:"config_dest"`
	LogPath      string   `toml:"log_path"`
}

// SSHConfig selects a remote runner for multi-node provisioning.
type SSHConfig struct {
	Host                        string `toml:"host"`
	Port                        string `toml:"port"`
	User                        string `toml:"user"`
	KeyPath                     string `toml:"key_path"`
	KnownHostsPath              string `toml:"known_hosts_path"`
	InsecureSkipHostKeyChecking bool   `toml:"insecure_skip_host_key_checking"`
}

// Config is the full gbpctl runtime configuration.
type Config struct {
	EnableNFP       bool     `toml:"enable_nfp"`
	EnabledServices []string `toml:"enabled_services"`

	StackRoot string `toml:"stack_root"`
	GitBase   string `toml:"git_base"`
	GitBranch string `toml:"git_branch"`

	AdminPassword string `toml:"admin_password"`
	ServiceTenant string `toml:"service_tenant"`
	ServiceUser   string `toml:"service_user"`

	ApacheService string `toml:"apache_service"`
	RouterName    string `toml:"router_name"`

	Conf  ConfFiles   `toml:"conf"`
	Proxy ProxyConfig `toml:"proxy"`
	SSH   *SSHConfig  `toml:"ssh"`
}

// Default returns the built-in single-host DevStack configuration.
func Default() Config {
	return Config{
		EnableNFP:       false,
		EnabledServices: []string{GroupPolicyService},
		StackRoot:       "/opt/stack",
		GitBase:         "https://opendev.org/x",
		GitBranch:       "master",
		ServiceTenant:   "service",
		ServiceUser:     "neutron",
		ApacheService:   "apache2",
		RouterName:      "router1",
		Conf: ConfFiles{
			Nova:    "/etc/nova/nova.conf",
			Heat:    "/etc/heat/heat.conf",
			Neutron: "/etc/neutron/neutron.conf",
		},
		Proxy: ProxyConfig{
			Addr:         ":12700",
			CorsOrigins:  []string{"http://localhost:3000"},
			BinaryPath:   "/usr/local/bin/nfpproxy",
			ConfigSource: "/opt/stack/group-based-policy/gbpservice/nfp",
			ConfigDest:   "/etc/nfp",
			LogPath:      "/var/log/nfp/proxy.log",
		},
	}
}

// Load reads the TOML config at path over the defaults, then applies
// environment overrides and validates. A missing file is not an error:
// the defaults plus environment are a complete configuration.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults + env only
	case err != nil:
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}

	ApplyEnvOverrides(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnvOverrides layers the DevStack environment variables over cfg.
// ENABLE_NFP keeps the upstream convention of comparing to literal "True".
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvEnableNFP); v != "" {
		cfg.EnableNFP = v == "True"
	}
	if v := strings.TrimSpace(os.Getenv(EnvNovaConf)); v != "" {
		cfg.Conf.Nova = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvHeatConf)); v != "" {
		cfg.Conf.Heat = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvNeutronConf)); v != "" {
		cfg.Conf.Neutron = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		cfg.AdminPassword = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEnabledServices)); v != "" {
		var services []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				services = append(services, name)
			}
		}
		cfg.EnabledServices = services
	}
}

// Validate enforces the fields every dispatch path depends on.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Conf.Nova) == "" {
		return fmt.Errorf("%w: missing conf.nova path", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.Conf.Heat) == "" {
		return fmt.Errorf("%w: missing conf.heat path", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.Conf.Neutron) == "" {
		return fmt.Errorf("%w: missing conf.neutron path", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.StackRoot) == "" {
		return fmt.Errorf("%w: missing stack_root", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.GitBase) == "" {
		return fmt.Errorf("%w: missing git_base", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ApacheService) == "" {
		return fmt.Errorf("%w: missing apache_service", ErrConfigInvalid)
	}
	if cfg.EnableNFP && strings.TrimSpace(cfg.AdminPassword) == "" {
		return fmt.Errorf("%w: admin_password required when enable_nfp is set", ErrConfigInvalid)
	}
	if cfg.SSH != nil {
		if strings.TrimSpace(cfg.SSH.Host) == "" {
			return fmt.Errorf("%w: ssh.host required when [ssh] is present", ErrConfigInvalid)
		}
		if strings.TrimSpace(cfg.SSH.User) == "" {
			return fmt.Errorf("%w: ssh.user required when [ssh] is present", ErrConfigInvalid)
		}
		if strings.TrimSpace(cfg.SSH.KeyPath) == "" {
			return fmt.Errorf("%w: ssh.key_path required when [ssh] is present", ErrConfigInvalid)
		}
	}
	return nil
}

// ServiceEnabled reports whether name is in the enabled services list.
func (c Config) ServiceEnabled(name string) bool {
	for _, service := range c.EnabledServices {
		if strings.EqualFold(strings.TrimSpace(service), name) {
			return true
		}
	}
	return false
}
