package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownVerb  = errors.New("lifecycle: unknown verb")
	ErrUnknownPhase = errors.New("lifecycle: unknown phase")
	ErrPhaseMissing = errors.New("lifecycle: stack verb requires a phase")
)

// Verb is the top-level lifecycle operation the framework invokes.
type Verb string

const (
	VerbStack   Verb = "stack"
	VerbUnstack Verb = "unstack"
	VerbClean   Verb = "clean"
)

// Phase is the stack sub-phase. Only the stack verb carries one.
type Phase string

const (
	PhaseNone       Phase = ""
	PhasePreInstall Phase = "pre-install"
	PhaseInstall    Phase = "install"
	PhasePostConfig Phase = "post-config"
	PhaseExtra      Phase = "extra"
)

// ParseVerb maps a CLI argument onto a Verb.
func ParseVerb(raw string) (Verb, error) {
	switch Verb(strings.TrimSpace(raw)) {
	case VerbStack:
		return VerbStack, nil
	case VerbUnstack:
		return VerbUnstack, nil
	case VerbClean:
		return VerbClean, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVerb, raw)
	}
}

// ParsePhase maps a CLI argument onto a Phase. Empty input is PhaseNone.
func ParsePhase(raw string) (Phase, error) {
	switch Phase(strings.TrimSpace(raw)) {
	case PhaseNone:
		return PhaseNone, nil
	case PhasePreInstall:
		return PhasePreInstall, nil
	case PhaseInstall:
		return PhaseInstall, nil
	case PhasePostConfig:
		return PhasePostConfig, nil
	case PhaseExtra:
		return PhaseExtra, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPhase, raw)
	}
}
