// Package lifecycle owns phase dispatch for GBP/NFP provisioning.
//
// Ownership boundary:
// - verb and phase vocabulary
// - ordered action plans per (verb, phase)
// - the dispatcher executing a plan against injected collaborators
//
// Lifecycle does not execute host commands directly; every side effect
// goes through a collaborator.
package lifecycle
