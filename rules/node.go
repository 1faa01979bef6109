package rules

import "tagsim/game"

// NodeID addresses a node within one graph.
type NodeID = game.NodeID

// Kind tells the graph walk how to treat a node.
type Kind int

const (
	// RuleKind nodes apply an effect and continue to their successor.
	RuleKind Kind = iota
	// ConditionKind nodes branch on a test.
	ConditionKind
	// ActionKind nodes halt until an action is attached, then execute it.
	ActionKind
)

func (k Kind) String() string {
	switch k {
	case RuleKind:
		return "rule"
	case ConditionKind:
		return "condition"
	case ActionKind:
		return "action"
	default:
		return "unknown"
	}
}

// RuleFunc is a node effect. Returning false interrupts the walk after the node.
type RuleFunc func(s *game.State) bool

// ConditionFunc picks the yes branch when it returns true.
type ConditionFunc func(s *game.State) bool

// GameOverCondition returns the final results when the game has ended, nil otherwise.
type GameOverCondition func(s *game.State) []game.Result

// Node is one step of a game's turn structure. Nodes are immutable once the graph is built and are
// shared by every state of the game.
type Node struct {
	id                  NodeID
	name                string
	kind                Kind
	run                 RuleFunc
	test                ConditionFunc
	next                NodeID
	yes                 NodeID
	no                  NodeID
	changesActivePlayer bool
	gameOver            []GameOverCondition
}

func (n *Node) ID() NodeID { return n.id }

func (n *Node) Name() string { return n.name }

func (n *Node) Kind() Kind { return n.kind }

func (n *Node) IsActionNode() bool { return n.kind == ActionKind }

// ChangesActivePlayer is informational: action-space computation may use it to know the decision
// at this node belongs to someone other than the turn owner.
func (n *Node) ChangesActivePlayer() bool { return n.changesActivePlayer }

// Next returns the successor of rule and action nodes.
func (n *Node) Next() NodeID { return n.next }

// Branches returns the yes and no successors of a condition node.
func (n *Node) Branches() (yes, no NodeID) { return n.yes, n.no }

// Equal compares nodes by identity only; structurally identical nodes stay distinct.
func (n *Node) Equal(other *Node) bool {
	return other != nil && n.id == other.id
}

func (n *Node) checkGameOver(s *game.State) []game.Result {
	for _, condition := range n.gameOver {
		if results := condition(s); results != nil {
			return results
		}
	}
	return nil
}
