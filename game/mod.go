package game

import "fmt"

// Action is one legal move. Implementations are immutable values or return a copy with identical
// execution semantics from Copy.
type Action interface {
	// Execute applies the action to the state. It returns false when the action is only partially
	// resolved and the decision point that issued it has to be re-entered.
	Execute(s *State) bool
	Copy() Action
	// Equal compares content, never identity.
	Equal(other Action) bool
	Hash() uint64
	fmt.Stringer
}

// Stochastic is implemented by actions whose outcome depends on the state's random source.
type Stochastic interface {
	IsStochastic() bool
}

// IsStochastic reports whether the action declares a random outcome.
func IsStochastic(a Action) bool {
	s, ok := a.(Stochastic)
	return ok && s.IsStochastic()
}

// IndexOf returns the position of the first action equal to a, or -1.
func IndexOf(actions []Action, a Action) int {
	if a == nil {
		return -1
	}
	for i, candidate := range actions {
		if candidate.Equal(a) {
			return i
		}
	}
	return -1
}

// Data is the game-specific part of a State.
type Data interface {
	Copy() Data
	Hash() uint64
}

// StateHash identifies a state for transposition and chance-outcome lookups.
type StateHash uint64

// NodeID addresses a node of a rule graph.
type NodeID int

// NoNode marks an unset rule-graph position.
const NoNode NodeID = -1

// Cursor is the per-state position of rule-graph execution.
type Cursor struct {
	Next   NodeID // Node where execution resumes
	Action Action // Attached action awaiting consumption by an action node
}

func (c Cursor) copy() Cursor {
	if c.Action != nil {
		c.Action = c.Action.Copy()
	}
	return c
}
