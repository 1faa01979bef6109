package agent

import (
	"math"
	"sync"

	"golang.org/x/exp/rand"

	"tagsim/engine"
	"tagsim/experiments/metrics"
	"tagsim/game"
	"tagsim/searcher"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. It samples actions in
// proportion to visits^(1/temperature); a temperature of 0 or less defaults to 1.
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, seed uint64) engine.Agent {
	if temperature <= 0 {
		temperature = 1.0
	}
	return &trainingAgent{
		mcts:        mcts,
		temperature: temperature,
		rnd:         rand.New(rand.NewSource(seed)),
	}
}

func (a *trainingAgent) FindMove(state *game.State) (game.Action, metrics.SearchMetric) {
	policy, metric := a.mcts.Simulate(state)
	probabilities := adjustTemperature(policy, a.temperature)

	a.mu.Lock()
	sampled := a.rnd.Float64()
	a.mu.Unlock()

	return sample(policy, probabilities, sampled), metric
}

func adjustTemperature(policy searcher.Policy, temperature float64) []float64 {
	// Compute temperature-adjusted action probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(policy))
	for i, visit := range policy {
		prob := math.Pow(visit.Visits, exponent)
		sum += prob
		adjusted[i] = prob
	}
	if sum == 0 {
		for i := range adjusted {
			adjusted[i] = 1.0 / float64(len(adjusted))
		}
		return adjusted
	}
	// Normalize
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(policy searcher.Policy, probabilities []float64, sampled float64) game.Action {
	cumulative := 0.0
	for i, prob := range probabilities {
		cumulative += prob
		if sampled < cumulative {
			return policy[i].Action
		}
	}
	return policy[len(policy)-1].Action // Fallback in case of rounding errors
}
