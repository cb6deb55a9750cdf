package state

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/pagestate/pkg/domain"
)

// ContextPolicy decides the payload of the entered state when a transition
// does not pass one explicitly.
type ContextPolicy int

const (
	// CarryForward reuses the payload of the machine's current handle.
	CarryForward ContextPolicy = iota
	// Reset enters with an empty payload.
	Reset
)

func (p ContextPolicy) String() string {
	switch p {
	case CarryForward:
		return "carry"
	case Reset:
		return "reset"
	default:
		return fmt.Sprintf("ContextPolicy(%d)", int(p))
	}
}

// ParseContextPolicy maps "carry" / "reset" (case-insensitive) to a policy.
func ParseContextPolicy(s string) (ContextPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "carry", "carry-forward", "carry_forward":
		return CarryForward, nil
	case "reset":
		return Reset, nil
	default:
		return CarryForward, fmt.Errorf("unknown context policy %q", s)
	}
}

// MachineOption defines a functional option for configuring the Machine.
type MachineOption func(*Machine)

// WithLogger sets a custom structured logger for the machine.
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) MachineOption {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithContextPolicy sets the default payload policy for transitions.
func WithContextPolicy(p ContextPolicy) MachineOption {
	return func(m *Machine) {
		m.policy = p
	}
}

// WithMachineID overrides the generated machine identifier.
func WithMachineID(id string) MachineOption {
	return func(m *Machine) {
		if id != "" {
			m.id = id
		}
	}
}

// TransitionOption adjusts a single Transition call.
type TransitionOption func(*transitionConfig)

type transitionConfig struct {
	policy  ContextPolicy
	context domain.Context
	err     error
}

// Passing enters the target state with the given payload.
func Passing(c domain.Context) TransitionOption {
	return func(cfg *transitionConfig) {
		if c == nil {
			c = domain.Context{}
		}
		cfg.context = c
	}
}

// PassingPayload encodes a typed payload and enters the target state with it.
// If the payload cannot be encoded the transition is abandoned.
func PassingPayload(payload any) TransitionOption {
	return func(cfg *transitionConfig) {
		c, err := domain.Encode(payload)
		if err != nil {
			cfg.err = err
			return
		}
		cfg.context = c
	}
}

// CarryContext forces CarryForward for this call.
func CarryContext() TransitionOption {
	return func(cfg *transitionConfig) {
		cfg.policy = CarryForward
	}
}

// ResetContext forces Reset for this call.
func ResetContext() TransitionOption {
	return func(cfg *transitionConfig) {
		cfg.policy = Reset
	}
}
