package feast

import (
	"fmt"
	"slices"

	"tagsim/game"
)

const (
	offerKind uint64 = iota + 1
	declareKind
	drawKind
	contributeKind
	declineKind
)

// Offer puts a token from the current player's hand on the table and scores its value. A wild
// token (zero) only resolves once its value is declared.
type Offer struct {
	Value int
}

func (a Offer) Execute(s *game.State) bool {
	t := table(s)
	player := s.CurrentPlayer()
	t.take(player, a.Value)
	if a.Value == Wild {
		s.Phase = DeclarePhase
		return false
	}
	t.Pot = a.Value
	t.Scores[player] += a.Value
	return true
}

func (a Offer) Copy() game.Action { return a }

func (a Offer) Equal(other game.Action) bool {
	o, ok := other.(Offer)
	return ok && o == a
}

func (a Offer) Hash() uint64 { return offerKind<<8 | uint64(a.Value) }

func (a Offer) String() string { return fmt.Sprintf("offer %d", a.Value) }

// Declare fixes the value of a wild token just offered.
type Declare struct {
	Value int
}

func (a Declare) Execute(s *game.State) bool {
	t := table(s)
	t.Pot = a.Value
	t.Scores[s.CurrentPlayer()] += a.Value
	s.Phase = game.MainPhase
	return true
}

func (a Declare) Copy() game.Action { return a }

func (a Declare) Equal(other game.Action) bool {
	o, ok := other.(Declare)
	return ok && o == a
}

func (a Declare) Hash() uint64 { return declareKind<<8 | uint64(a.Value) }

func (a Declare) String() string { return fmt.Sprintf("declare %d", a.Value) }

// Draw adds a random token to the current player's hand instead of offering.
type Draw struct{}

func (a Draw) Execute(s *game.State) bool {
	t := table(s)
	player := s.CurrentPlayer()
	t.Hands[player] = append(t.Hands[player], s.Rand().Intn(MaxValue+1))
	slices.Sort(t.Hands[player])
	return true
}

func (a Draw) IsStochastic() bool { return true }

func (a Draw) Copy() game.Action { return a }

func (a Draw) Equal(other game.Action) bool {
	_, ok := other.(Draw)
	return ok
}

func (a Draw) Hash() uint64 { return drawKind << 8 }

func (a Draw) String() string { return "draw" }

// Contribute answers a big offer with a token from hand, worth one point.
type Contribute struct {
	Value int
}

func (a Contribute) Execute(s *game.State) bool {
	t := table(s)
	player := s.CurrentPlayer()
	t.take(player, a.Value)
	t.Scores[player]++
	return true
}

func (a Contribute) Copy() game.Action { return a }

func (a Contribute) Equal(other game.Action) bool {
	o, ok := other.(Contribute)
	return ok && o == a
}

func (a Contribute) Hash() uint64 { return contributeKind<<8 | uint64(a.Value) }

func (a Contribute) String() string { return fmt.Sprintf("contribute %d", a.Value) }

// Decline passes on a big offer.
type Decline struct{}

func (a Decline) Execute(s *game.State) bool { return true }

func (a Decline) Copy() game.Action { return a }

func (a Decline) Equal(other game.Action) bool {
	_, ok := other.(Decline)
	return ok
}

func (a Decline) Hash() uint64 { return declineKind << 8 }

func (a Decline) String() string { return "decline" }
