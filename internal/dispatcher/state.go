package dispatcher

import "fmt"

// State is a phase of the processing loop.
type State int

const (
	Idle       State = iota // no loop running
	Admitting               // checking the window before dequeuing
	Executing               // one operation in flight
	BackingOff              // sleeping before a rate-limited retry
	Draining                // between dequeues
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Admitting:
		return "admitting"
	case Executing:
		return "executing"
	case BackingOff:
		return "backing_off"
	case Draining:
		return "draining"
	default:
		return ""
	}
}

// Event drives a [State] change.
type Event int

const (
	Enqueue Event = iota
	WindowExpired
	QuotaExceeded
	Admitted
	Success
	RateLimited
	Unauthorized
	OtherFailure
	Requeued
	Resumed
	Drained
)

func (e Event) String() string {
	switch e {
	case Enqueue:
		return "enqueue"
	case WindowExpired:
		return "window_expired"
	case QuotaExceeded:
		return "quota_exceeded"
	case Admitted:
		return "admitted"
	case Success:
		return "success"
	case RateLimited:
		return "rate_limited"
	case Unauthorized:
		return "unauthorized"
	case OtherFailure:
		return "other_failure"
	case Requeued:
		return "requeued"
	case Resumed:
		return "resumed"
	case Drained:
		return "drained"
	default:
		return ""
	}
}

// transitions is the complete table; pairs not listed are invalid.
//
// Enqueue is accepted in every state because submissions arrive from other goroutines at any time.
var transitions = map[State]map[Event]State{
	Idle: {
		Enqueue: Admitting,
	},
	Admitting: {
		Enqueue:       Admitting,
		WindowExpired: Admitting,
		QuotaExceeded: Admitting,
		Admitted:      Executing,
		Drained:       Idle,
	},
	Executing: {
		Enqueue:      Executing,
		Success:      Draining,
		RateLimited:  BackingOff,
		Unauthorized: Draining,
		OtherFailure: Draining,
	},
	BackingOff: {
		Enqueue:  BackingOff,
		Requeued: Draining,
	},
	Draining: {
		Enqueue: Draining,
		Resumed: Admitting,
		Drained: Idle,
	},
}

// Transition returns the state reached from s on e.
func Transition(s State, e Event) (State, error) {
	if next, ok := transitions[s][e]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, s, e)
}
