package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mayank-pillai-99/bookconnect/internal/bus"
)

// State represents the client session runtime state.
type State string

const (
	Booting      State = "BOOTING"
	AuthRequired State = "AUTH_REQUIRED"
	Connecting   State = "CONNECTING"
	Ready        State = "READY"
	Error        State = "ERROR"
)

// validTransitions defines allowed state transitions. Login always passes
// through CONNECTING (the session probe / login call), logout from READY
// drops straight back to AUTH_REQUIRED, and ERROR recovers through
// CONNECTING when the user retries.
var validTransitions = map[State][]State{
	Booting:      {Connecting, AuthRequired, Error},
	AuthRequired: {Connecting, Error},
	Connecting:   {Ready, AuthRequired, Error},
	Ready:        {AuthRequired, Connecting, Error},
	Error:        {Connecting},
}

// Machine tracks and enforces session state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Booting state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Booting,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns an error if the
// transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish("session.status_changed", StatusChange{From: from, To: to})
	}
	return nil
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From State
	To   State
}
