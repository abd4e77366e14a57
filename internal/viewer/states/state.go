// Package states implements the viewer's phase management.
package states

import (
	"github.com/Faultbox/deskview/internal/engine/input"
)

// State is one phase of the viewer (idle, orbiting, zooming, departed).
type State interface {
	// Name identifies the phase in logs and tests.
	Name() string

	// Enter is called when entering this state.
	Enter() error

	// Exit is called when leaving this state.
	Exit() error

	// Update is called every frame.
	Update(dt float64) error

	// HandleInput processes input events.
	HandleInput(event input.Event) error
}

// Manager holds the active state and applies scheduled changes at the start
// of the next Update, so exactly one state is active at any time.
type Manager struct {
	current State
	next    State

	// OnChange, when set, observes every applied transition.
	OnChange func(from, to State)
}

// NewManager creates a manager that starts in initial.
func NewManager(initial State) *Manager {
	return &Manager{next: initial}
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Change schedules a state change. A later Change before the next Update
// replaces the earlier one.
func (m *Manager) Change(next State) {
	m.next = next
}

// Update processes state changes and updates current state.
func (m *Manager) Update(dt float64) error {
	if m.next != nil {
		prev := m.current
		if prev != nil {
			if err := prev.Exit(); err != nil {
				return err
			}
		}
		m.current = m.next
		m.next = nil
		if err := m.current.Enter(); err != nil {
			return err
		}
		if m.OnChange != nil {
			m.OnChange(prev, m.current)
		}
	}

	if m.current != nil {
		return m.current.Update(dt)
	}
	return nil
}

// HandleInput forwards an event to the current state.
func (m *Manager) HandleInput(event input.Event) error {
	if m.current != nil {
		return m.current.HandleInput(event)
	}
	return nil
}
