package searcher

import (
	"math"
	"sync"

	"tagsim/engine"
	"tagsim/game"
)

type decision struct {
	sync.RWMutex
	parent   Node
	mover    int // Player whose action led here, -1 at the root
	player   int // Player to act
	hash     game.StateHash
	actions  []game.Action
	children []Node // children[i] follows actions[i]
	rewards  float64
	visits   float64
}

func newDecision(parent Node, mover int, fm *engine.ForwardModel, state *game.State) *decision {
	actions := fm.ComputeAvailableActions(state)
	return &decision{
		parent:   parent,
		mover:    mover,
		player:   state.CurrentPlayer(),
		hash:     state.Hash(),
		actions:  actions,
		children: make([]Node, 0, len(actions)),
	}
}

func (d *decision) SelectOrExpand(fm *engine.ForwardModel, state *game.State) (Node, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.actions) == 0 { // Terminal node
		return d, false
	}

	if len(d.actions) > len(d.children) { // Expandable node
		child, expanded := d.addChild(fm, state)
		child.applyLoss()
		return child, expanded
	}

	// Fully expanded node
	ith := d.pickChild()
	child := d.children[ith]
	play(fm, state, d.actions[ith])
	child.applyLoss()
	return child, false
}

// addChild expands the next untried action. A stochastic action gets a chance node, which resolves
// the sampled outcome on the next descent step.
func (d *decision) addChild(fm *engine.ForwardModel, state *game.State) (Node, bool) {
	action := d.actions[len(d.children)]
	play(fm, state, action)

	var child Node
	expanded := true
	if game.IsStochastic(action) {
		child = newChance(d)
		expanded = false
	} else {
		child = newDecision(d, d.player, fm, state)
	}
	d.children = append(d.children, child)
	return child, expanded
}

func (d *decision) pickChild() int {
	u := newUCT(CSquared, math.Max(d.visits, 1))

	maxIndex := -1
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		if score := child.score(u); score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

func (d *decision) score(u *uct) float64 {
	d.RLock()
	defer d.RUnlock()

	return u.evaluate(d.rewards, d.visits)
}

func (d *decision) Backup(rewards []float64) Node {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}
	if d.mover >= 0 {
		d.rewards += rewards[d.mover]
	}
	d.visits++

	return d.parent
}

func (d *decision) reverseLoss() {
	d.rewards -= Loss
	d.visits--
}

func (d *decision) Visits() float64 {
	d.RLock()
	defer d.RUnlock()

	return d.visits
}

// Policy returns the visit counts of the expanded root actions.
func (d *decision) Policy() Policy {
	d.RLock()
	defer d.RUnlock()

	policy := make(Policy, len(d.children))
	for i, child := range d.children {
		policy[i] = Visit{Action: d.actions[i], Visits: child.Visits()}
	}
	return policy
}
