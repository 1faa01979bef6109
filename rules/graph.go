package rules

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"tagsim/game"
)

// Outcome reports why a walk stopped.
type Outcome int

const (
	// Halted means the walk reached an action node with no attached action.
	Halted Outcome = iota
	// Retry means the attached action was only partially resolved; its node is re-entered.
	Retry
	// Interrupted means a rule node asked the walk to stop after it.
	Interrupted
	// Looped means the walk came back to a non-action graph entry.
	Looped
	// GameOver means a game-over condition fired.
	GameOver
)

func (o Outcome) String() string {
	switch o {
	case Halted:
		return "halted"
	case Retry:
		return "retry"
	case Interrupted:
		return "interrupted"
	case Looped:
		return "looped"
	case GameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Graph is a game's frozen rule topology. It holds no per-game state and is shared by every
// state and goroutine playing that game.
type Graph struct {
	name     string
	nodes    []Node
	root     NodeID
	parents  map[NodeID]NodeID
	maxSteps int
}

func (g *Graph) Name() string { return g.name }

func (g *Graph) Root() NodeID { return g.root }

func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return &g.nodes[id]
}

// Parent returns the structural parent recorded for a node.
func (g *Graph) Parent(id NodeID) (NodeID, bool) {
	parent, ok := g.parents[id]
	return parent, ok
}

// Current returns the node where the state's walk resumes.
func (g *Graph) Current(s *game.State) *Node {
	return g.Node(s.Cursor.Next)
}

// Start points the state's cursor at the graph entry and drops any attached action.
func (g *Graph) Start(s *game.State) {
	s.Cursor = game.Cursor{Next: g.root}
}

func (g *Graph) mustNode(id NodeID) *Node {
	n := g.Node(id)
	if n == nil {
		panic(fmt.Errorf("%w: %d in graph %s", ErrUnknownNode, id, g.name))
	}
	return n
}

// Run attaches action (if any) to the state's cursor and walks the graph from the cursor until an
// action node waits for a decision, a rule interrupts, the walk returns to a non-action entry, or
// the game ends. All effects are applied to s only.
func (g *Graph) Run(s *game.State, action game.Action) Outcome {
	if action != nil {
		s.Cursor.Action = action
	}

	id := s.Cursor.Next
	for steps := 0; ; steps++ {
		if steps >= g.maxSteps {
			panic(fmt.Errorf("%w: %d nodes visited in graph %s", ErrStepLimit, steps, g.name))
		}
		n := g.mustNode(id)

		if steps > 0 && id == g.root && n.kind != ActionKind && s.Cursor.Action == nil {
			s.Cursor.Next = id
			return Looped
		}

		log.Trace().Str("graph", g.name).Int("node", int(id)).Str("name", n.name).Msg("visiting rule node")

		switch n.kind {
		case ActionKind:
			a := s.Cursor.Action
			if a == nil {
				s.Cursor.Next = id
				return Halted
			}
			s.Cursor.Action = nil
			done := a.Execute(s)
			if g.endGame(s, n) {
				return GameOver
			}
			if !done {
				s.Cursor.Next = id
				return Retry
			}
			id = n.next

		case RuleKind:
			proceed := n.run(s)
			if g.endGame(s, n) {
				return GameOver
			}
			if !proceed {
				s.Cursor.Next = n.next
				return Interrupted
			}
			id = n.next

		case ConditionKind:
			if n.test(s) {
				id = n.yes
			} else {
				id = n.no
			}
		}
	}
}

func (g *Graph) endGame(s *game.State, n *Node) bool {
	results := n.checkGameOver(s)
	if results == nil {
		return false
	}
	s.SetResults(results)
	s.Phase = game.GameOverPhase
	s.Cursor = game.Cursor{Next: n.next}
	log.Debug().Str("graph", g.name).Str("node", n.name).Interface("results", results).Msg("game over")
	return true
}
