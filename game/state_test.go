package game

import (
	"encoding/binary"
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/require"
)

type tally struct {
	counts []int
}

func (d *tally) Copy() Data {
	counts := make([]int, len(d.counts))
	copy(counts, d.counts)
	return &tally{counts: counts}
}

func (d *tally) Hash() uint64 {
	hasher := fnv.New64a()
	for _, c := range d.counts {
		binary.Write(hasher, binary.LittleEndian, int64(c))
	}
	return hasher.Sum64()
}

type bump struct {
	seat int
}

func (a bump) Execute(s *State) bool {
	s.Data.(*tally).counts[a.seat]++
	return true
}

func (a bump) Copy() Action { return a }

func (a bump) Equal(other Action) bool {
	o, ok := other.(bump)
	return ok && o == a
}

func (a bump) Hash() uint64 { return uint64(a.seat) }

func (a bump) String() string { return "bump" }

func TestNewState(t *testing.T) {
	t.Run("starting un-setup", func(t *testing.T) {
		s := NewState(3, 42)

		require.False(t, s.IsSetup(), "New states should not be set up")
		require.Equal(t, NoNode, s.Cursor.Next, "Cursor should not point into a graph yet")
		require.Panics(t, func() { s.MustBeSetup() })
		require.Equal(t, uint64(42), s.Seed())
	})

	t.Run("panics without players", func(t *testing.T) {
		require.Panics(t, func() { NewState(0, 1) }, "A game needs at least one seat")
	})
}

func TestStateCopy(t *testing.T) {
	setup := func() *State {
		s := NewState(3, 7)
		s.Phase = MainPhase
		s.Results = make([]Result, 3)
		s.TurnOrder = NewReactive(true)
		s.Data = &tally{counts: []int{1, 2, 3}}
		s.Cursor = Cursor{Next: 4, Action: bump{seat: 1}}
		return s
	}

	t.Run("copy of a copy is observationally equal", func(t *testing.T) {
		s := setup()
		once := s.Copy()
		twice := once.Copy()

		require.Equal(t, once, twice, "Copying twice should not change anything")
		require.Equal(t, once.Hash(), twice.Hash())
		require.Equal(t, s.Hash(), once.Hash(), "Copies should hash like the original")
	})

	t.Run("mutating a copy leaves the original intact", func(t *testing.T) {
		s := setup()
		before := s.Copy()

		c := s.Copy()
		c.Cursor.Action.Execute(c)
		c.EndPlayerTurn()
		c.TurnOrder.(*Reactive).AddAllReactivePlayers(c)
		c.SetResult(2, Lose)
		c.Phase = PlayerReactionPhase

		require.Equal(t, before, s.Copy(), "Original should be unchanged")
		require.Equal(t, []int{1, 2, 3}, s.Data.(*tally).counts)
		require.Equal(t, []int{1, 3, 3}, c.Data.(*tally).counts)
		require.Equal(t, Ongoing, s.Results[2])
		require.Equal(t, 0, s.CurrentPlayer())
	})

	t.Run("copies continue the random sequence", func(t *testing.T) {
		s := setup()
		s.Rand().Uint64()
		c := s.Copy()

		require.Equal(t, s.Rand().Uint64(), c.Rand().Uint64(), "Copies should draw the same numbers")
		require.Equal(t, s.Rand().Intn(1000), c.Rand().Intn(1000))

		c.Reseed(99)
		require.Equal(t, uint64(99), c.Seed())
		require.Equal(t, uint64(7), s.Seed(), "Reseeding a copy should not touch the original")
	})
}

func TestStateResults(t *testing.T) {
	t.Run("terminal only when every result is decided", func(t *testing.T) {
		s := NewState(3, 1)
		require.False(t, s.IsTerminal(), "States without results are not terminal")

		s.Results = make([]Result, 3)
		s.SetResult(0, Win)
		s.SetResult(1, Lose)
		require.False(t, s.IsTerminal())
		require.True(t, s.IsOngoing(2))

		s.SetResult(2, Lose)
		require.True(t, s.IsTerminal())
	})

	t.Run("rejecting unknown players", func(t *testing.T) {
		s := NewState(2, 1)
		s.Results = make([]Result, 2)

		require.Panics(t, func() { s.SetResult(2, Win) })
		require.Panics(t, func() { s.SetResults([]Result{Win}) })
		require.Panics(t, func() { s.SetTurnOwner(-1) })
	})
}

func TestRankResults(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []Result
	}{
		{"unique winner", []float64{3, 5, 1}, []Result{Lose, Win, Lose}},
		{"tied winners", []float64{4, 4, 1}, []Result{Draw, Draw, Lose}},
		{"everyone tied", []float64{2, 2}, []Result{Draw, Draw}},
		{"no players", nil, []Result{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, RankResults(tt.scores))
		})
	}
}

func TestIndexOf(t *testing.T) {
	actions := []Action{bump{seat: 0}, bump{seat: 2}}

	require.Equal(t, 1, IndexOf(actions, bump{seat: 2}), "Structurally equal actions should match")
	require.Equal(t, -1, IndexOf(actions, bump{seat: 1}))
	require.Equal(t, -1, IndexOf(actions, nil))
	require.False(t, IsStochastic(bump{}))
}

func TestParseResult(t *testing.T) {
	for _, r := range []Result{Ongoing, Win, Lose, Draw} {
		parsed, err := ParseResult(r.String())
		require.NoError(t, err)
		require.Equal(t, r, parsed)
	}

	_, err := ParseResult("Forfeit")
	require.ErrorIs(t, err, ErrUnknownResult)
}
