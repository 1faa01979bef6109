package agent

import (
	"tagsim/engine"
	"tagsim/experiments/metrics"
	"tagsim/game"
	"tagsim/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(mcts *searcher.MCTS) engine.Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(state *game.State) (game.Action, metrics.SearchMetric) {
	policy, metric := a.mcts.Simulate(state)
	return policy.Best(), metric
}
