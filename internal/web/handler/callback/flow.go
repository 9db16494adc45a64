package callback

import "github.com/eventdeck/eventdeck/internal/session"

// State is the callback handler's position in the redirect decision.
type State int

const (
	// StateWaiting means the session store has not initialized yet; keep
	// rendering the processing indicator and decide nothing.
	StateWaiting State = iota
	// StateRedirectHome means the exchange succeeded; navigate to the
	// application root.
	StateRedirectHome
	// StateRedirectLogin means the session resolved unauthenticated;
	// navigate back to the login entry point.
	StateRedirectLogin
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateRedirectHome:
		return "redirect-home"
	case StateRedirectLogin:
		return "redirect-login"
	default:
		return "unknown"
	}
}

// Flow decides where to send the browser once the session store settles.
// The transition out of StateWaiting is terminal: later snapshots cannot
// change an already made redirect decision.
type Flow struct {
	state State
}

// NewFlow starts a flow in StateWaiting.
func NewFlow() *Flow {
	return &Flow{state: StateWaiting}
}

// Observe feeds a session snapshot into the flow and returns the resulting
// state. No decision is made before the store reports initialized, so an
// in-progress exchange never flashes a "not authenticated" redirect.
func (f *Flow) Observe(snap session.Snapshot) State {
	if f.state != StateWaiting {
		return f.state
	}

	if !snap.Initialized || snap.Loading {
		return StateWaiting
	}

	if snap.Authenticated {
		f.state = StateRedirectHome
	} else {
		f.state = StateRedirectLogin
	}

	return f.state
}

// State returns the flow's current state.
func (f *Flow) State() State {
	return f.state
}
