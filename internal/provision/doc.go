// Package provision owns the concrete provisioning collaborators.
//
// Ownership boundary:
// - per-service configuration key writes (nova, heat, neutron)
// - GBP package install and init command sequences
// - apache stop/start
// - NFP resource bootstrap (roles, groups, router namespace, proxy launch)
//
// Every host side effect goes through tools.CommandRunner or
// iniconf.Store so tests substitute fakes and temp files.
package provision
