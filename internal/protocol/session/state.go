package session

import "fmt"

type State int

const (
	StateAwaitingRequest State = iota
	StateReadingPayload
	StateAnalyzing
	StateEmitting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAwaitingRequest:
		return "awaiting_request"
	case StateReadingPayload:
		return "reading_payload"
	case StateAnalyzing:
		return "analyzing"
	case StateEmitting:
		return "emitting"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func isAllowedTransition(from, to State) bool {
	if from == StateClosed {
		return false
	}
	if to == StateClosed {
		return true
	}
	switch from {
	case StateAwaitingRequest:
		return to == StateReadingPayload || to == StateAnalyzing
	case StateReadingPayload:
		return to == StateAnalyzing
	case StateAnalyzing:
		return to == StateEmitting
	case StateEmitting:
		return to == StateAwaitingRequest
	default:
		return false
	}
}
