package searcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tagsim/engine"
	"tagsim/game"
	"tagsim/games/feast"
	"tagsim/games/nim"
)

func TestNewMCTS(t *testing.T) {
	fm := engine.New(nim.New(5))

	t.Run("panics without a budget", func(t *testing.T) {
		require.Panics(t, func() { NewMCTS(fm, 1) }, "Should need episodes or a duration")
	})

	t.Run("defaults", func(t *testing.T) {
		m := NewMCTS(fm, 0, WithEpisodes(10), WithCutoff(-1))
		require.Equal(t, 1, m.goroutines, "At least one goroutine should search")
		require.Equal(t, MaxCutoff, m.cutoff, "Invalid cutoffs should be ignored")
	})
}

func TestSimulate(t *testing.T) {
	t.Run("finds the winning take", func(t *testing.T) {
		for _, goroutines := range []int{1, 4} {
			fm, state := startNim(t, 5)
			m := NewMCTS(fm, goroutines, WithEpisodes(3000), WithSeed(7))

			policy, _ := m.Simulate(state)

			require.Len(t, policy, 3, "Every root action should be expanded")
			require.Equal(t, nim.Take{N: 1}, policy.Best(),
				"Leaving four tokens is the only winning move (%d goroutines)", goroutines)
			require.Equal(t, 5, tokens(state), "Search should not touch the given state")
		}
	})

	t.Run("takes an immediate win", func(t *testing.T) {
		fm, state := startNim(t, 3)
		m := NewMCTS(fm, 2, WithEpisodes(500))

		policy, _ := m.Simulate(state)
		require.Equal(t, nim.Take{N: 3}, policy.Best())
	})

	t.Run("collects metrics", func(t *testing.T) {
		fm, state := startNim(t, 15)
		m := NewMCTS(fm, 2, WithEpisodes(200), WithCutoff(2), WithMetrics())

		policy, metric := m.Simulate(state)

		require.Equal(t, 200, metric.Episodes)
		require.Equal(t, 2, metric.Goroutines)
		require.Equal(t, 2, metric.Cutoff)
		require.LessOrEqual(t, metric.FullPlayouts, metric.Episodes)
		require.Equal(t, 200.0, policy.Total(), "Each episode should end in one root child")
	})

	t.Run("searches for a duration", func(t *testing.T) {
		fm, state := startNim(t, 9)
		m := NewMCTS(fm, 2, WithDuration(20*time.Millisecond), WithMetrics())

		policy, metric := m.Simulate(state)

		require.Greater(t, metric.Episodes, 0)
		require.NotEmpty(t, policy)
	})

	t.Run("terminal states have no policy", func(t *testing.T) {
		fm, state := startNim(t, 2)
		require.NoError(t, fm.Next(state, nim.Take{N: 2}))
		m := NewMCTS(fm, 1, WithEpisodes(10))

		policy, _ := m.Simulate(state)
		require.Empty(t, policy)
	})

	t.Run("stochastic actions", func(t *testing.T) {
		fm := engine.New(feast.New(feast.WithRounds(3)))
		state, err := fm.Start(3, 5)
		require.NoError(t, err)
		m := NewMCTS(fm, 4, WithEpisodes(1000))

		root := newDecision(nil, -1, fm, state)
		m.search(root, state)

		var draw *chance
		for i, a := range root.actions {
			if game.IsStochastic(a) {
				draw = root.children[i].(*chance)
			}
		}
		require.NotNil(t, draw, "Drawing should be searched through a chance node")
		require.Greater(t, draw.outcomes(), 1, "Different episodes should sample different draws")
		require.Equal(t, 1000.0, root.Visits())
	})
}

func TestScoreEvaluation(t *testing.T) {
	t.Run("ranks by score", func(t *testing.T) {
		fm := engine.New(feast.New())
		state, err := fm.Start(3, 1)
		require.NoError(t, err)
		state.Data.(*feast.Table).Scores = []int{1, 5, 5}

		require.Equal(t, []float64{Loss, Draw, Draw}, ScoreEvaluation(fm)(state))
	})

	t.Run("even without scores", func(t *testing.T) {
		fm, state := startNim(t, 5)
		require.Equal(t, []float64{Draw, Draw}, ScoreEvaluation(fm)(state))
	})
}

func TestHeuristicEvaluation(t *testing.T) {
	t.Run("uses the game heuristic", func(t *testing.T) {
		fm, state := startFeast(t)
		g := fm.Game().(*feast.Game)

		require.Equal(t, g.Evaluate(state), HeuristicEvaluation(fm)(state))
	})

	t.Run("falls back to score ranking", func(t *testing.T) {
		fm, state := startNim(t, 5)
		require.Equal(t, ScoreEvaluation(fm)(state), HeuristicEvaluation(fm)(state))
	})
}
