package rules

import (
	"errors"
	"fmt"

	"tagsim/game"
)

// DefaultMaxSteps bounds the number of nodes a single walk may visit.
const DefaultMaxSteps = 100_000

// NodeOption configures a node at creation.
type NodeOption func(n *Node)

// ChangesActivePlayer flags a node whose decision is taken by someone other than the turn owner.
func ChangesActivePlayer() NodeOption {
	return func(n *Node) {
		n.changesActivePlayer = true
	}
}

// WithGameOver attaches a condition that is checked every time the node has executed.
func WithGameOver(condition GameOverCondition) NodeOption {
	return func(n *Node) {
		if condition != nil {
			n.gameOver = append(n.gameOver, condition)
		}
	}
}

// Builder hands out sequential node ids while a game's rule graph is assembled. It is used once
// per game type; the built Graph is immutable.
type Builder struct {
	name     string
	nodes    []*Node
	root     NodeID
	parents  map[NodeID]NodeID
	maxSteps int
	errs     []error
}

func NewBuilder(name string) *Builder {
	return &Builder{
		name:     name,
		root:     game.NoNode,
		parents:  make(map[NodeID]NodeID),
		maxSteps: DefaultMaxSteps,
	}
}

func (b *Builder) add(name string, kind Kind, opts []NodeOption) *Node {
	n := &Node{
		id:   NodeID(len(b.nodes)),
		name: name,
		kind: kind,
		next: game.NoNode,
		yes:  game.NoNode,
		no:   game.NoNode,
	}
	for _, opt := range opts {
		opt(n)
	}
	b.nodes = append(b.nodes, n)
	return n
}

// Rule adds an effect node.
func (b *Builder) Rule(name string, run RuleFunc, opts ...NodeOption) NodeID {
	n := b.add(name, RuleKind, opts)
	n.run = run
	return n.id
}

// Condition adds a branching node; wire its successors with Branch.
func (b *Builder) Condition(name string, test ConditionFunc, opts ...NodeOption) NodeID {
	n := b.add(name, ConditionKind, opts)
	n.test = test
	return n.id
}

// Action adds a decision point that waits for an externally supplied action.
func (b *Builder) Action(name string, opts ...NodeOption) NodeID {
	return b.add(name, ActionKind, opts).id
}

func (b *Builder) lookup(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(b.nodes) {
		b.errs = append(b.errs, fmt.Errorf("unknown node %d", id))
		return nil, false
	}
	return b.nodes[id], true
}

// Then sets the successor of a rule or action node.
func (b *Builder) Then(from, to NodeID) *Builder {
	n, ok := b.lookup(from)
	if !ok {
		return b
	}
	if n.kind == ConditionKind {
		b.errs = append(b.errs, fmt.Errorf("node %d (%s) is a condition, use Branch", n.id, n.name))
		return b
	}
	if _, ok := b.lookup(to); ok {
		n.next = to
	}
	return b
}

// Chain links each node to the following one.
func (b *Builder) Chain(ids ...NodeID) *Builder {
	for i := 1; i < len(ids); i++ {
		b.Then(ids[i-1], ids[i])
	}
	return b
}

// Branch sets the successors of a condition node.
func (b *Builder) Branch(condition, yes, no NodeID) *Builder {
	n, ok := b.lookup(condition)
	if !ok {
		return b
	}
	if n.kind != ConditionKind {
		b.errs = append(b.errs, fmt.Errorf("node %d (%s) is not a condition", n.id, n.name))
		return b
	}
	_, okYes := b.lookup(yes)
	_, okNo := b.lookup(no)
	if okYes && okNo {
		n.yes, n.no = yes, no
	}
	return b
}

// SetParent records a structural parent used for parameter lookup.
func (b *Builder) SetParent(child, parent NodeID) *Builder {
	_, okChild := b.lookup(child)
	_, okParent := b.lookup(parent)
	if okChild && okParent {
		b.parents[child] = parent
	}
	return b
}

// AddGameOver attaches a game-over condition to an existing node.
func (b *Builder) AddGameOver(id NodeID, condition GameOverCondition) *Builder {
	if n, ok := b.lookup(id); ok {
		WithGameOver(condition)(n)
	}
	return b
}

// SetRoot sets the graph entry. Defaults to the first node added.
func (b *Builder) SetRoot(id NodeID) *Builder {
	if _, ok := b.lookup(id); ok {
		b.root = id
	}
	return b
}

// SetMaxSteps bounds node visits per walk.
func (b *Builder) SetMaxSteps(steps int) *Builder {
	if steps > 0 {
		b.maxSteps = steps
	}
	return b
}

// Build validates the topology and freezes it.
func (b *Builder) Build() (*Graph, error) {
	errs := append([]error(nil), b.errs...)
	if len(b.nodes) == 0 {
		errs = append(errs, errors.New("graph has no nodes"))
	}
	root := b.root
	if root == game.NoNode && len(b.nodes) > 0 {
		root = 0
	}

	for _, n := range b.nodes {
		switch n.kind {
		case RuleKind:
			if n.run == nil {
				errs = append(errs, fmt.Errorf("rule node %d (%s) has no effect", n.id, n.name))
			}
			if n.next == game.NoNode {
				errs = append(errs, fmt.Errorf("rule node %d (%s) has no successor", n.id, n.name))
			}
		case ActionKind:
			if n.next == game.NoNode {
				errs = append(errs, fmt.Errorf("action node %d (%s) has no successor", n.id, n.name))
			}
		case ConditionKind:
			if n.test == nil {
				errs = append(errs, fmt.Errorf("condition node %d (%s) has no test", n.id, n.name))
			}
			if n.yes == game.NoNode || n.no == game.NoNode {
				errs = append(errs, fmt.Errorf("condition node %d (%s) is missing a branch", n.id, n.name))
			}
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidGraph, b.name, errors.Join(errs...))
	}

	nodes := make([]Node, len(b.nodes))
	for i, n := range b.nodes {
		nodes[i] = *n
	}
	parents := make(map[NodeID]NodeID, len(b.parents))
	for child, parent := range b.parents {
		parents[child] = parent
	}

	return &Graph{
		name:     b.name,
		nodes:    nodes,
		root:     root,
		parents:  parents,
		maxSteps: b.maxSteps,
	}, nil
}

// MustBuild is Build for graphs assembled at package init, where a bad topology is a bug.
func (b *Builder) MustBuild() *Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
