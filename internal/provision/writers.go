package provision

import (
	"github.com/rs/zerolog"

	"github.com/danmuck/gbpctl/internal/config"
	"github.com/danmuck/gbpctl/internal/iniconf"
)

// ConfigWriters applies the literal key writes for each config target.
// Values are fixed strings except the file paths and the NFP credentials,
// which come from the tool config.
type ConfigWriters struct {
	cfg    config.Config
	logger zerolog.Logger
}

func NewConfigWriters(cfg config.Config, logger zerolog.Logger) *ConfigWriters {
	return &ConfigWriters{cfg: cfg, logger: logger}
}

func (w *ConfigWriters) ConfigureNova() error {
	return w.apply(w.cfg.Conf.Nova, []iniconf.Entry{
		{Section: "neutron", Key: "allow_duplicate_networks", Value: "True"},
	})
}

func (w *ConfigWriters) ConfigureHeat() error {
	return w.apply(w.cfg.Conf.Heat, []iniconf.Entry{
		{Section: "DEFAULT", Key: "plugin_dirs", Value: "/opt/stack/gbpautomation/gbpautomation/heat"},
	})
}

func (w *ConfigWriters) ConfigureNeutronGBP() error {
	return w.apply(w.cfg.Conf.Neutron, []iniconf.Entry{
		{Section: "group_policy", Key: "policy_drivers", Value: "implicit_policy,resource_mapping"},
		{Section: "group_policy", Key: "extension_drivers", Value: "proxy_group"},
		{Section: "servicechain", Key: "servicechain_drivers", Value: "simplechain_driver"},
		{Section: "node_composition_plugin", Key: "node_plumber", Value: "stitching_plumber"},
		{Section: "node_composition_plugin", Key: "node_drivers", Value: "heat_node_driver"},
		{Section: "quotas", Key: "default_quota", Value: "-1"},
		{Section: "quotas", Key: "quota_network", Value: "-1"},
		{Section: "quotas", Key: "quota_subnet", Value: "-1"},
		{Section: "quotas", Key: "quota_port", Value: "-1"},
		{Section: "quotas", Key: "quota_security_group", Value: "-1"},
		{Section: "quotas", Key: "quota_security_group_rule", Value: "-1"},
	})
}

// ConfigureNeutronNFP runs after ConfigureNeutronGBP in the post-config
// plan; its policy_drivers and node_composition_plugin writes override
// the GBP values (last write wins).
func (w *ConfigWriters) ConfigureNeutronNFP() error {
	password := w.cfg.AdminPassword
	return w.apply(w.cfg.Conf.Neutron, []iniconf.Entry{
		{Section: "keystone_authtoken", Key: "admin_tenant_name", Value: w.cfg.ServiceTenant},
		{Section: "keystone_authtoken", Key: "admin_user", Value: w.cfg.ServiceUser},
		{Section: "keystone_authtoken", Key: "admin_password", Value: password},
		{Section: "group_policy", Key: "policy_drivers", Value: "implicit_policy,resource_mapping,chain_mapping"},
		{Section: "node_composition_plugin", Key: "node_plumber", Value: "admin_owned_resources_apic_plumber"},
		{Section: "node_composition_plugin", Key: "node_drivers", Value: "nfp_node_driver"},
		{Section: "admin_owned_resources_apic_tscp", Key: "plumbing_resource_owner_user", Value: w.cfg.ServiceUser},
		{Section: "admin_owned_resources_apic_tscp", Key: "plumbing_resource_owner_password", Value: password},
		{Section: "admin_owned_resources_apic_tscp", Key: "plumbing_resource_owner_tenant_name", Value: w.cfg.ServiceTenant},
		{Section: "group_policy_implicit_policy", Key: "default_ip_pool", Value: "11.0.0.0/8"},
		{Section: "group_policy_implicit_policy", Key: "default_proxy_ip_pool", Value: "192.169.0.0/16"},
		{Section: "group_policy_implicit_policy", Key: "default_external_segment_name", Value: "default"},
		{Section: "device_lifecycle_drivers", Key: "drivers", Value: "haproxy, vyos"},
		{Section: "nfp_node_driver", Key: "is_service_admin_owned", Value: "True"},
		{Section: "nfp_node_driver", Key: "svc_management_ptg_name", Value: "svc_management_ptg"},
	})
}

func (w *ConfigWriters) apply(path string, entries []iniconf.Entry) error {
	store, err := iniconf.Open(path)
	if err != nil {
		return err
	}
	store.SetAll(entries)
	if err := store.Save(); err != nil {
		return err
	}
	w.logger.Debug().
		Str("target", path).
		Int("keys", len(entries)).
		Msg("config target updated")
	return nil
}
