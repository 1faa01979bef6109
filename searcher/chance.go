package searcher

import (
	"sync"

	"tagsim/engine"
	"tagsim/game"
)

// chance stands for a stochastic action. Its children are the sampled outcomes, told apart by
// state hash.
type chance struct {
	sync.RWMutex
	parent   *decision
	mover    int
	children []*decision
	rewards  float64
	visits   float64
}

func newChance(parent *decision) *chance {
	return &chance{
		parent: parent,
		mover:  parent.player,
	}
}

// SelectOrExpand expects the stochastic action to be applied to state already.
func (c *chance) SelectOrExpand(fm *engine.ForwardModel, state *game.State) (Node, bool) {
	c.Lock()
	defer c.Unlock()

	// Select if explored outcome
	if child := c.selects(state.Hash()); child != nil {
		child.applyLoss()
		return child, false
	}

	// Expand if unexplored outcome
	child := newDecision(c, c.mover, fm, state)
	c.children = append(c.children, child)
	child.applyLoss()
	return child, true
}

func (c *chance) selects(hash game.StateHash) *decision {
	for _, child := range c.children {
		if child.hash == hash {
			return child
		}
	}
	return nil
}

func (c *chance) applyLoss() {
	c.Lock()
	defer c.Unlock()

	c.rewards += Loss
	c.visits++
}

func (c *chance) score(u *uct) float64 {
	c.RLock()
	defer c.RUnlock()

	return u.evaluate(c.rewards, c.visits)
}

func (c *chance) Backup(rewards []float64) Node {
	c.Lock()
	defer c.Unlock()

	c.reverseLoss()
	c.rewards += rewards[c.mover]
	c.visits++

	return c.parent
}

func (c *chance) reverseLoss() {
	c.rewards -= Loss
	c.visits--
}

func (c *chance) Visits() float64 {
	c.RLock()
	defer c.RUnlock()

	return c.visits
}

func (c *chance) outcomes() int {
	c.RLock()
	defer c.RUnlock()

	return len(c.children)
}
