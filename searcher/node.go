package searcher

import (
	"fmt"

	"tagsim/engine"
	"tagsim/game"
)

type Node interface {
	// SelectOrExpand descends one level, applying the chosen action to state. It reports whether a
	// new node was added, which ends the descent.
	SelectOrExpand(fm *engine.ForwardModel, state *game.State) (child Node, expanded bool)
	// Backup records per-player rewards and returns the parent.
	Backup(rewards []float64) Node
	Visits() float64
	applyLoss()
	score(u *uct) float64
}

func play(fm *engine.ForwardModel, state *game.State, action game.Action) {
	if err := fm.Next(state, action); err != nil {
		panic(fmt.Errorf("search applying %v: %w", action, err))
	}
}
