package countdown

import "strconv"

// TypeLabel is shown once the count reaches zero.
const TypeLabel = "TYPE"

// Phase is the coarse state of a countdown.
type Phase int

const (
	// Counting shows the remaining count.
	Counting Phase = iota
	// Typing shows TypeLabel.
	Typing
	// Done is terminal: the label is hidden and ticks stop.
	Done
)

func (p Phase) String() string {
	switch p {
	case Counting:
		return "counting"
	case Typing:
		return "typing"
	case Done:
		return "done"
	default:
		return "phase(" + strconv.Itoa(int(p)) + ")"
	}
}

// State is a countdown state. N is only meaningful while Counting.
type State struct {
	Phase Phase
	N     int
}

// Begin returns the state for a countdown starting at n. Zero goes straight
// to Typing; a negative start is already Done, so nothing is ever displayed
// for it.
func Begin(n int) State {
	switch {
	case n > 0:
		return State{Phase: Counting, N: n}
	case n == 0:
		return State{Phase: Typing}
	default:
		return State{Phase: Done}
	}
}

// Next returns the state following s. Done is absorbing.
func (s State) Next() State {
	switch s.Phase {
	case Counting:
		if s.N-1 > 0 {
			return State{Phase: Counting, N: s.N - 1}
		}
		return State{Phase: Typing}
	default:
		return State{Phase: Done}
	}
}

// Label returns the text displayed in state s.
func (s State) Label() string {
	switch s.Phase {
	case Counting:
		return strconv.Itoa(s.N)
	case Typing:
		return TypeLabel
	default:
		return ""
	}
}

func (s State) String() string {
	if s.Phase == Counting {
		return s.Phase.String() + "(" + strconv.Itoa(s.N) + ")"
	}
	return s.Phase.String()
}
