package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"tagsim/game"
)

type counter struct {
	n int
}

func (d *counter) Copy() game.Data { c := *d; return &c }

func (d *counter) Hash() uint64 { return uint64(d.n) }

type inc struct {
	by   int
	done bool
}

func (a inc) Execute(s *game.State) bool {
	s.Data.(*counter).n += a.by
	return a.done
}

func (a inc) Copy() game.Action { return a }

func (a inc) Equal(other game.Action) bool {
	o, ok := other.(inc)
	return ok && o == a
}

func (a inc) Hash() uint64 { return uint64(a.by) }

func (a inc) String() string { return "inc" }

func newState(players int) *game.State {
	s := game.NewState(players, 1)
	s.Phase = game.MainPhase
	s.TurnOrder = game.NewSimple(false)
	s.Results = make([]game.Result, players)
	s.Data = &counter{}
	return s
}

func count(s *game.State) int {
	return s.Data.(*counter).n
}

func requirePanicsWith(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "Expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "Expected to panic with an error, got %v", r)
		require.True(t, errors.Is(err, target), "Expected %v, got %v", target, err)
	}()
	f()
}

// turnGraph waits for one action per turn, then passes the turn on.
func turnGraph(t *testing.T, opts ...NodeOption) *Graph {
	b := NewBuilder("turns")
	move := b.Action("move", opts...)
	end := b.Rule("end turn", EndPlayerTurn())
	b.Then(move, end).Then(end, move)
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestBuilder(t *testing.T) {
	t.Run("sequential ids", func(t *testing.T) {
		b := NewBuilder("ids")
		a := b.Action("a")
		r := b.Rule("r", EndPlayerTurn())
		c := b.Condition("c", func(*game.State) bool { return true })
		b.Then(a, r).Then(r, c).Branch(c, a, r)

		require.Equal(t, NodeID(0), a)
		require.Equal(t, NodeID(1), r)
		require.Equal(t, NodeID(2), c)

		g := b.MustBuild()
		require.Equal(t, 3, g.Len())
		require.Equal(t, a, g.Root(), "Root should default to the first node")
		require.Equal(t, ConditionKind, g.Node(c).Kind())
		require.True(t, g.Node(a).IsActionNode())
		require.Nil(t, g.Node(3), "Out of range ids have no node")
	})

	t.Run("equality is by identity", func(t *testing.T) {
		b := NewBuilder("twins")
		first := b.Action("same")
		second := b.Action("same")
		b.Then(first, second).Then(second, first)
		g := b.MustBuild()

		require.True(t, g.Node(first).Equal(g.Node(first)))
		require.False(t, g.Node(first).Equal(g.Node(second)), "Identical nodes with distinct ids should differ")
		require.False(t, g.Node(first).Equal(nil))
	})

	t.Run("parent lookup", func(t *testing.T) {
		b := NewBuilder("parents")
		parent := b.Action("parent")
		child := b.Action("child")
		b.Chain(parent, child, parent).SetParent(child, parent)
		g := b.MustBuild()

		got, ok := g.Parent(child)
		require.True(t, ok)
		require.Equal(t, parent, got)
		_, ok = g.Parent(parent)
		require.False(t, ok, "Nodes without a recorded parent should report none")
	})

	t.Run("rejects incomplete graphs", func(t *testing.T) {
		tests := []struct {
			name  string
			build func(b *Builder)
		}{
			{"no nodes", func(b *Builder) {}},
			{"rule without successor", func(b *Builder) { b.Rule("r", EndPlayerTurn()) }},
			{"rule without effect", func(b *Builder) {
				r := b.Rule("r", nil)
				b.Then(r, r)
			}},
			{"action without successor", func(b *Builder) { b.Action("a") }},
			{"condition missing a branch", func(b *Builder) {
				a := b.Action("a")
				c := b.Condition("c", func(*game.State) bool { return true })
				b.Then(a, c)
			}},
			{"then on a condition", func(b *Builder) {
				a := b.Action("a")
				c := b.Condition("c", func(*game.State) bool { return true })
				b.Then(a, c).Branch(c, a, a).Then(c, a)
			}},
			{"branch on an action", func(b *Builder) {
				a := b.Action("a")
				b.Then(a, a).Branch(a, a, a)
			}},
			{"unknown successor", func(b *Builder) {
				a := b.Action("a")
				b.Then(a, a).Then(a, 7)
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				b := NewBuilder(tt.name)
				tt.build(b)
				g, err := b.Build()
				require.Nil(t, g)
				require.ErrorIs(t, err, ErrInvalidGraph)
				require.Panics(t, func() { b.MustBuild() })
			})
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("halts at action nodes", func(t *testing.T) {
		g := turnGraph(t)
		s := newState(2)
		g.Start(s)

		require.Equal(t, Halted, g.Run(s, nil))
		require.Equal(t, g.Root(), s.Cursor.Next, "Cursor should stay on the waiting node")

		require.Equal(t, Halted, g.Run(s, inc{by: 2, done: true}))
		require.Equal(t, 2, count(s))
		require.Equal(t, 1, s.CurrentPlayer(), "The rule after the action should pass the turn")
		require.Equal(t, g.Root(), s.Cursor.Next)
		require.Nil(t, s.Cursor.Action, "The action should be consumed")
	})

	t.Run("partial actions re-enter their node", func(t *testing.T) {
		g := turnGraph(t)
		s := newState(2)
		g.Start(s)

		require.Equal(t, Retry, g.Run(s, inc{by: 1}))
		require.Equal(t, 1, count(s))
		require.Equal(t, g.Root(), s.Cursor.Next)
		require.Equal(t, 0, s.CurrentPlayer(), "The turn should not pass on a partial action")

		require.Equal(t, Halted, g.Run(s, inc{by: 1, done: true}))
		require.Equal(t, 2, count(s))
		require.Equal(t, 1, s.CurrentPlayer())
	})

	t.Run("rules can interrupt", func(t *testing.T) {
		b := NewBuilder("interrupt")
		stop := b.Rule("stop", func(*game.State) bool { return false })
		move := b.Action("move")
		b.Chain(stop, move, stop)
		g := b.MustBuild()
		s := newState(2)
		g.Start(s)

		require.Equal(t, Interrupted, g.Run(s, nil))
		require.Equal(t, move, s.Cursor.Next, "Execution should resume after the interrupting rule")
		require.Equal(t, Halted, g.Run(s, nil))
	})

	t.Run("returning to a rule entry loops", func(t *testing.T) {
		b := NewBuilder("loop")
		end := b.Rule("end turn", EndPlayerTurn())
		never := b.Condition("never", func(*game.State) bool { return false })
		move := b.Action("move")
		b.Then(end, never).Branch(never, move, end).Then(move, end)
		g := b.MustBuild()
		s := newState(3)
		g.Start(s)

		require.Equal(t, Looped, g.Run(s, nil))
		require.Equal(t, end, s.Cursor.Next)
		require.Equal(t, 1, s.CurrentPlayer(), "The entry rule should have run exactly once")
	})

	t.Run("step limit", func(t *testing.T) {
		b := NewBuilder("spin")
		move := b.Action("move")
		left := b.Rule("left", func(*game.State) bool { return true })
		right := b.Rule("right", func(*game.State) bool { return true })
		b.Chain(move, left, right, left).SetMaxSteps(10)
		g := b.MustBuild()
		s := newState(1)
		g.Start(s)

		requirePanicsWith(t, ErrStepLimit, func() { g.Run(s, inc{by: 1, done: true}) })
	})

	t.Run("unknown cursor", func(t *testing.T) {
		g := turnGraph(t)
		s := newState(1)
		s.Cursor.Next = 42

		requirePanicsWith(t, ErrUnknownNode, func() { g.Run(s, nil) })
	})

	t.Run("game over conditions", func(t *testing.T) {
		reached := func(s *game.State) []game.Result {
			if count(s) < 3 {
				return nil
			}
			results := make([]game.Result, s.NPlayers)
			for p := range results {
				results[p] = game.Lose
			}
			results[s.CurrentPlayer()] = game.Win
			return results
		}
		g := turnGraph(t, WithGameOver(reached))
		s := newState(2)
		g.Start(s)

		require.Equal(t, Halted, g.Run(s, inc{by: 2, done: true}))
		require.False(t, s.IsTerminal())

		require.Equal(t, GameOver, g.Run(s, inc{by: 1, done: true}))
		require.True(t, s.IsTerminal())
		require.Equal(t, []game.Result{game.Lose, game.Win}, s.Results)
		require.Equal(t, game.GameOverPhase, s.Phase)
		require.Equal(t, 1, s.CurrentPlayer(), "Nothing after the deciding node should run")
	})

	t.Run("copies walk independently", func(t *testing.T) {
		g := turnGraph(t)
		s := newState(2)
		g.Start(s)
		g.Run(s, nil)

		c := s.Copy()
		g.Run(c, inc{by: 5, done: true})

		require.Equal(t, 0, count(s), "The original should be untouched")
		require.Equal(t, 0, s.CurrentPlayer())
		require.Equal(t, 5, count(c))
	})
}

func TestReactionRules(t *testing.T) {
	t.Run("drains the queue and returns to main", func(t *testing.T) {
		s := newState(3)
		s.TurnOrder = game.NewReactive(false)

		require.True(t, ForceAllPlayerReaction()(s))
		require.Equal(t, game.PlayerReactionPhase, s.Phase)
		require.True(t, ReactionsRemaining()(s))

		for i := 0; i < 3; i++ {
			EndReactionStep()(s)
		}
		require.False(t, ReactionsRemaining()(s))
		require.Equal(t, game.MainPhase, s.Phase)
		require.Equal(t, 0, s.TurnCounter, "Draining reactions should not end the turn")

		EndReactionStep()(s)
		require.Equal(t, 1, s.TurnCounter, "An empty queue should end the turn")
		require.Equal(t, 1, s.CurrentPlayer())
	})

	t.Run("current player reaction", func(t *testing.T) {
		s := newState(3)
		s.TurnOrder = game.NewReactive(false)
		s.SetTurnOwner(2)

		ForceCurrentPlayerReaction()(s)
		require.Equal(t, []int{2}, s.TurnOrder.(*game.Reactive).Pending())
	})

	t.Run("phase and round rules", func(t *testing.T) {
		s := newState(3)
		SetPhase(game.FirstGamePhase)(s)
		require.Equal(t, game.FirstGamePhase, s.Phase)

		EndRound(func(*game.State) int { return 2 })(s)
		require.Equal(t, 1, s.RoundCounter)
		require.Equal(t, 2, s.CurrentPlayer())
	})

	t.Run("needs a reactive turn order", func(t *testing.T) {
		s := newState(2)
		requirePanicsWith(t, ErrNoReactiveTurnOrder, func() { ForceAllPlayerReaction()(s) })
	})
}
