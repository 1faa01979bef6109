package feast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tagsim/engine"
	"tagsim/game"
)

func start(t *testing.T, g *Game, players int, hands [][]int) (*engine.ForwardModel, *game.State) {
	t.Helper()
	fm := engine.New(g)
	s, err := fm.Start(players, 3)
	require.NoError(t, err)
	if hands != nil {
		table(s).Hands = hands
	}
	return fm, s
}

func next(t *testing.T, fm *engine.ForwardModel, s *game.State, actions ...game.Action) {
	t.Helper()
	for _, a := range actions {
		require.NoError(t, fm.Next(s, a), "Playing %v", a)
	}
}

func TestSetup(t *testing.T) {
	g := New(WithHandSize(5))
	_, s := start(t, g, 4, nil)

	tbl := table(s)
	require.Len(t, tbl.Hands, 4)
	for p, hand := range tbl.Hands {
		require.Len(t, hand, 5, "Player %d should be dealt a full hand", p)
		require.IsNonDecreasing(t, hand)
		for _, v := range hand {
			require.True(t, v >= Wild && v <= MaxValue)
		}
	}
	require.Equal(t, []int{0, 0, 0, 0}, tbl.Scores)

	t.Run("deals from the seed", func(t *testing.T) {
		_, other := start(t, g, 4, nil)
		require.Equal(t, tbl.Hands, table(other).Hands, "Equal seeds should deal equal hands")
	})
}

func TestActions(t *testing.T) {
	g := New()
	_, s := start(t, g, 3, [][]int{{0, 4, 4, 5}, {1}, {2}})

	require.Equal(t, []game.Action{Offer{Value: 0}, Offer{Value: 4}, Offer{Value: 5}, Draw{}}, g.Actions(s),
		"Duplicate tokens should be offered once")

	table(s).Hands[0] = []int{1, 1, 2, 2, 3, 3}
	require.NotContains(t, g.Actions(s), game.Action(Draw{}), "Full hands cannot draw")
}

func TestSmallOffer(t *testing.T) {
	fm, s := start(t, New(), 3, [][]int{{2, 3}, {1, 5}, {4}})

	next(t, fm, s, Offer{Value: 3})

	tbl := table(s)
	require.Equal(t, []int{2}, tbl.Hands[0])
	require.Equal(t, 3, tbl.Scores[0])
	require.Zero(t, tbl.Pot, "The pot is cleared at the end of the turn")
	require.Equal(t, 1, s.CurrentPlayer())
	require.Equal(t, game.MainPhase, s.Phase)
}

func TestBigOfferForcesReactions(t *testing.T) {
	fm, s := start(t, New(), 3, [][]int{{0, 4, 5}, {1, 2}, {3, 3}})

	next(t, fm, s, Offer{Value: 4})
	require.Equal(t, game.PlayerReactionPhase, s.Phase)
	require.Equal(t, []int{0, 1, 2}, s.TurnOrder.(*game.Reactive).Pending(), "Every seat reacts once from the offerer")
	require.Equal(t, 0, s.CurrentPlayer())
	require.Equal(t, []game.Action{Decline{}, Contribute{Value: 0}, Contribute{Value: 5}}, fm.ComputeAvailableActions(s))

	next(t, fm, s, Decline{})
	require.Equal(t, 1, s.CurrentPlayer())
	next(t, fm, s, Contribute{Value: 2})
	require.Equal(t, 2, s.CurrentPlayer())
	require.Equal(t, 0, s.TurnCounter, "Reactions do not end the turn")
	next(t, fm, s, Decline{})

	tbl := table(s)
	require.Equal(t, []int{4, 1, 0}, tbl.Scores)
	require.Equal(t, []int{1}, tbl.Hands[1])
	require.Equal(t, game.MainPhase, s.Phase)
	require.Equal(t, 1, s.CurrentPlayer(), "Rotation should resume after the offerer")
	require.Equal(t, 1, s.TurnCounter)
	require.Equal(t, 4, s.Tick)
}

func TestWildOffer(t *testing.T) {
	t.Run("small declaration", func(t *testing.T) {
		fm, s := start(t, New(), 2, [][]int{{0, 4}, {1, 2}})
		root := fm.Graph().Root()

		next(t, fm, s, Offer{Value: Wild})
		require.Equal(t, DeclarePhase, s.Phase, "A wild offer waits for its value")
		require.Equal(t, 0, s.CurrentPlayer())
		require.Equal(t, root, s.Cursor.Next, "The offer node should be re-entered")
		require.Len(t, fm.ComputeAvailableActions(s), MaxValue)
		require.ErrorIs(t, fm.Next(s, Offer{Value: 4}), engine.ErrIllegalAction)

		next(t, fm, s, Declare{Value: 2})
		require.Equal(t, 2, table(s).Scores[0])
		require.Equal(t, game.MainPhase, s.Phase)
		require.Equal(t, 1, s.CurrentPlayer())
	})

	t.Run("big declaration", func(t *testing.T) {
		fm, s := start(t, New(), 2, [][]int{{0, 4}, {1, 2}})

		next(t, fm, s, Offer{Value: Wild}, Declare{Value: 5})
		require.Equal(t, game.PlayerReactionPhase, s.Phase)
		require.Equal(t, 2, s.TurnOrder.(*game.Reactive).ReactionsRemaining())
	})
}

func TestGameEnd(t *testing.T) {
	t.Run("empty hand", func(t *testing.T) {
		fm, s := start(t, New(), 3, [][]int{{4}, {1}, {2}})

		next(t, fm, s, Offer{Value: 4}, Decline{}, Decline{})
		require.False(t, fm.IsTerminal(s), "Reactions still pending")
		next(t, fm, s, Decline{})

		require.True(t, fm.IsTerminal(s))
		require.Equal(t, []game.Result{game.Win, game.Lose, game.Lose}, s.Results)
		require.Equal(t, game.GameOverPhase, s.Phase)
	})

	t.Run("round limit", func(t *testing.T) {
		fm, s := start(t, New(WithRounds(1)), 2, [][]int{{1, 1}, {3, 3}})

		next(t, fm, s, Offer{Value: 1})
		require.False(t, fm.IsTerminal(s))
		next(t, fm, s, Offer{Value: 3})

		require.True(t, fm.IsTerminal(s))
		require.Equal(t, 1, s.RoundCounter)
		require.Equal(t, []game.Result{game.Lose, game.Win}, s.Results)
	})
}

func TestDraw(t *testing.T) {
	fm, s := start(t, New(), 2, [][]int{{2}, {1}})

	require.True(t, game.IsStochastic(Draw{}))
	require.False(t, game.IsStochastic(Offer{Value: 1}))

	next(t, fm, s, Draw{})
	require.Len(t, table(s).Hands[0], 2)
	require.IsNonDecreasing(t, table(s).Hands[0])
	require.Equal(t, 1, s.CurrentPlayer())
}

func TestTableCopy(t *testing.T) {
	tbl := &Table{Hands: [][]int{{1, 2}, {3}}, Scores: []int{4, 5}, Pot: 2}
	c := tbl.Copy().(*Table)

	require.Equal(t, tbl, c)
	require.Equal(t, tbl.Hash(), c.Hash())

	c.Hands[0][0] = 5
	c.Scores[1] = 0
	require.Equal(t, 1, tbl.Hands[0][0], "Hands should not be shared")
	require.Equal(t, 5, tbl.Scores[1], "Scores should not be shared")
	require.NotEqual(t, tbl.Hash(), c.Hash())
}

func TestEvaluate(t *testing.T) {
	g := New()

	t.Run("leader above even", func(t *testing.T) {
		_, s := start(t, g, 3, [][]int{{4}, {}, {2}})
		table(s).Scores = []int{2, 2, 0}

		rewards := g.Evaluate(s)

		require.Len(t, rewards, 3)
		require.InDelta(t, (2.0/6.0+1)/2, rewards[0], 1e-9, "4 resources against 2")
		require.InDelta(t, (-2.0/6.0+1)/2, rewards[1], 1e-9, "2 resources against 4")
		require.InDelta(t, (-3.0/5.0+1)/2, rewards[2], 1e-9, "1 resource against 4")
	})

	t.Run("empty table is even", func(t *testing.T) {
		_, s := start(t, g, 2, [][]int{{0}, {0}})
		require.Equal(t, []float64{0.5, 0.5}, g.Evaluate(s))
	})
}
