package agent

import (
	"sync"

	"golang.org/x/exp/rand"

	"tagsim/engine"
	"tagsim/experiments/metrics"
	"tagsim/game"
)

type randomAgent struct {
	model *engine.ForwardModel

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomAgent returns a baseline agent playing uniformly random legal actions.
func NewRandomAgent(model *engine.ForwardModel, seed uint64) engine.Agent {
	return &randomAgent{
		model: model,
		rnd:   rand.New(rand.NewSource(seed)),
	}
}

func (a *randomAgent) FindMove(state *game.State) (game.Action, metrics.SearchMetric) {
	actions := a.model.ComputeAvailableActions(state)

	a.mu.Lock()
	defer a.mu.Unlock()
	return actions[a.rnd.Intn(len(actions))], metrics.SearchMetric{}
}
