package agent

import (
	"errors"
	"fmt"

	"tagsim/engine"
	"tagsim/experiments/metrics"
	"tagsim/searcher"
)

// Agent kinds accepted in agent configs.
const (
	Random   = "random"
	MCTS     = "mcts"
	Training = "training"
)

// Leaf evaluations for searches cut off before the game ends.
const (
	RankEvaluation      = "rank"
	HeuristicEvaluation = "heuristic"
)

var (
	ErrUnknownKind       = errors.New("unknown agent kind")
	ErrUnknownEvaluation = errors.New("unknown evaluation")
)

// New builds the agent described by config for games driven by model.
func New(model *engine.ForwardModel, config metrics.AgentConfig, seed uint64) (engine.Agent, error) {
	switch config.Kind {
	case Random:
		return NewRandomAgent(model, seed), nil
	case MCTS, Training:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, config.Kind)
	}

	mcts, err := createMCTS(model, config, seed)
	if err != nil {
		return nil, err
	}
	if config.Kind == Training {
		return NewTrainingAgent(mcts, config.Temperature, seed), nil
	}
	return NewEvaluationAgent(mcts), nil
}

func createMCTS(model *engine.ForwardModel, config metrics.AgentConfig, seed uint64) (*searcher.MCTS, error) {
	options := []searcher.Option{searcher.WithSeed(seed)}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}

	switch config.Evaluation {
	case "", RankEvaluation:
	case HeuristicEvaluation:
		options = append(options, searcher.WithEvaluationFn(searcher.HeuristicEvaluation(model)))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvaluation, config.Evaluation)
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(model, config.Goroutines, options...), nil
}
