package pipeline

import "fmt"

// State is where a run is in its lifecycle
type State string

const (
	StateIdle         State = "idle"
	StateStaging      State = "staging"
	StateTranscribing State = "transcribing"
	StateDecoding     State = "decoding"
	StateSummarizing  State = "summarizing"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// next lists the forward transitions; Failed is reachable from any
// non-terminal state and is handled separately
var next = map[State][]State{
	StateIdle:         {StateStaging},
	StateStaging:      {StateTranscribing},
	StateTranscribing: {StateDecoding, StateSummarizing},
	StateDecoding:     {StateSummarizing},
	StateSummarizing:  {StateDone},
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransition reports whether a run may move from s to to
func (s State) CanTransition(to State) bool {
	if s.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	for _, allowed := range next[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// machine tracks one run's state and refuses out-of-order moves
type machine struct {
	state State
}

func (m *machine) advance(to State) error {
	if !m.state.CanTransition(to) {
		return fmt.Errorf("invalid transition %s -> %s", m.state, to)
	}
	m.state = to
	return nil
}
