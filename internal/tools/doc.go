// Package tools owns command execution boundaries.
//
// Ownership boundary:
// - command runner contract shared by every provisioning collaborator
// - local exec-backed runner
// - ssh-backed runner for remote DevStack hosts
package tools
