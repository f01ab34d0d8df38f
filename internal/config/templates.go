package config

import (
	"fmt"
	"os"
)

// WriteTemplate writes the annotated config template to path.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(configTemplate), 0o600)
}

const configTemplate = `enable_nfp = false
enabled_services = ["group-policy"]

stack_root = "/opt/stack"
git_base = "https://opendev.org/x"
git_branch = "master"

# Required when enable_nfp is true; also read from ADMIN_PASSWORD.
admin_password = ""
service_tenant = "service"
service_user = "neutron"

apache_service = "apache2"
router_name = "router1"

[conf]
nova = "/etc/nova/nova.conf"
heat = "/etc/heat/heat.conf"
neutron = "/etc/neutron/neutron.conf"

[proxy]
addr = ":12700"
cors_origins = ["http://localhost:3000"]
binary_path = "/usr/local/bin/nfpproxy"
config_source = "/opt/stack/group-based-policy/gbpservice/nfp"
config_dest = "/etc/nfp"
log_path = "/var/log/nfp/proxy.log"

# Uncomment to provision a remote host instead of the local one.
# [ssh]
# host = "stack-node-1"
# port = "22"
# user = "stack"
# key_path = "/home/stack/.ssh/id_ed25519"
# known_hosts_path = ""
# insecure_skip_host_key_checking = false
`
