package lifecycle

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher executes the plan for one (verb, phase) invocation.
// It is fail-fast: the first failing action aborts the invocation with
// no retry, rollback, or partial-success reporting.
type Dispatcher struct {
	opts   Options
	collab Collaborators
	logger zerolog.Logger
}

// NewDispatcher validates the collaborator set and returns a dispatcher.
func NewDispatcher(opts Options, collab Collaborators, logger zerolog.Logger) (*Dispatcher, error) {
	if err := collab.Validate(); err != nil {
		return nil, err
	}
	return &Dispatcher{opts: opts, collab: collab, logger: logger}, nil
}

// Plan returns the action sequence Dispatch would execute. The
// group-policy guard applies here too so dry runs match real runs.
func (d *Dispatcher) Plan(verb Verb, phase Phase) Plan {
	if !d.opts.GroupPolicyEnabled {
		return nil
	}
	return BuildPlan(verb, phase, d.opts, d.collab)
}

// Dispatch runs every action for (verb, phase) strictly in order.
// When group-policy is not an enabled service, nothing fires.
func (d *Dispatcher) Dispatch(verb Verb, phase Phase) error {
	if verb == VerbStack && phase == PhaseNone {
		return ErrPhaseMissing
	}
	if !d.opts.GroupPolicyEnabled {
		d.logger.Debug().
			Str("verb", string(verb)).
			Str("phase", string(phase)).
			Msg("group-policy not enabled, skipping dispatch")
		return nil
	}

	plan := BuildPlan(verb, phase, d.opts, d.collab)
	ctx := &Context{}
	for _, action := range plan {
		start := time.Now()
		if err := action.Run(ctx); err != nil {
			d.logger.Error().
				Str("verb", string(verb)).
				Str("phase", string(phase)).
				Str("action", action.Name).
				Dur("duration", time.Since(start)).
				Err(err).
				Msg("action failed")
			return fmt.Errorf("lifecycle: %s/%s action %s: %w", verb, phase, action.Name, err)
		}
		d.logger.Info().
			Str("verb", string(verb)).
			Str("phase", string(phase)).
			Str("action", action.Name).
			Dur("duration", time.Since(start)).
			Msg("action complete")
	}
	return nil
}
