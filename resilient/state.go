package resilient

import "fmt"

// State is a step of the cold-start protocol.
//
//	Idle -> Calling -> Success
//	                -> Failed
//	                -> ColdStartDetected -> WarmingUp -> Retrying -> Success
//	                                                              -> Failed
type State int

const (
	Idle State = iota
	Calling
	ColdStartDetected
	WarmingUp
	Retrying
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Calling:
		return "calling"
	case ColdStartDetected:
		return "cold-start-detected"
	case WarmingUp:
		return "warming-up"
	case Retrying:
		return "retrying"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == Success || s == Failed
}

// Transition is one edge taken by the state machine. Err is the failure
// that triggered it, if any.
type Transition struct {
	From State
	To   State
	Err  error
}

// Observer receives every transition of a Do call, in order.
type Observer func(Transition)
