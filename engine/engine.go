package engine

import (
	"tagsim/experiments/metrics"
	"tagsim/game"
	"tagsim/rules"
)

// DefaultMaxMoves bounds a locally run game when no limit is configured.
const DefaultMaxMoves = 10000

// Game supplies the rule content the forward model drives.
type Game interface {
	Name() string
	// Players returns the supported seat range, inclusive.
	Players() (min, max int)
	// NewTurnOrder returns a fresh turn order for one state.
	NewTurnOrder() game.TurnOrder
	// Setup fills in the game-specific part of a state after the generic fields are initialised.
	Setup(s *game.State)
	// Rules returns the shared rule graph.
	Rules() *rules.Graph
	// Actions lists the legal actions of the current player at the current decision point.
	Actions(s *game.State) []game.Action
}

// Ender is implemented by games with end conditions that are not attached to rule nodes.
type Ender interface {
	// GameOver returns final results, or nil while the game continues.
	GameOver(s *game.State) []game.Result
}

// Scorer is implemented by games that can rank players when the round limit ends the game.
type Scorer interface {
	Scores(s *game.State) []float64
}

// Evaluator is implemented by games with a heuristic estimate of unfinished states.
type Evaluator interface {
	// Evaluate returns a reward in [0, 1] per player.
	Evaluate(s *game.State) []float64
}

// Agent picks a move for the current player. It receives its own copy of the state.
type Agent interface {
	FindMove(s *game.State) (game.Action, metrics.SearchMetric)
}

type Engine interface {
	// Run plays a game till it is over or the move limit is reached
	Run() (metrics.GameMetric, []metrics.MoveMetric)
}
