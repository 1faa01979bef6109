// Package nim is last-taker-wins Nim: players take one to three tokens from a shared pile in
// strict rotation.
package nim

import (
	"fmt"

	"tagsim/engine"
	"tagsim/game"
	"tagsim/rules"
)

const (
	DefaultTokens = 15
	MaxTake       = 3
)

// Pile is the game data of a Nim state.
type Pile struct {
	Tokens int
}

func (p *Pile) Copy() game.Data {
	c := *p
	return &c
}

func (p *Pile) Hash() uint64 {
	return uint64(p.Tokens)
}

// Take removes N tokens from the pile.
type Take struct {
	N int
}

func (a Take) Execute(s *game.State) bool {
	pile := s.Data.(*Pile)
	if a.N < 1 || a.N > pile.Tokens {
		panic(fmt.Sprintf("cannot take %d of %d tokens", a.N, pile.Tokens))
	}
	pile.Tokens -= a.N
	return true
}

func (a Take) Copy() game.Action { return a }

func (a Take) Equal(other game.Action) bool {
	o, ok := other.(Take)
	return ok && o == a
}

func (a Take) Hash() uint64 { return uint64(a.N) }

func (a Take) String() string { return fmt.Sprintf("take %d", a.N) }

type Game struct {
	tokens int
	graph  *rules.Graph
}

var _ engine.Game = (*Game)(nil)

// New returns Nim starting from a pile of tokens.
func New(tokens int) *Game {
	if tokens < 1 {
		tokens = DefaultTokens
	}
	g := &Game{tokens: tokens}

	b := rules.NewBuilder("nim")
	take := b.Action("take", rules.WithGameOver(lastTaker))
	end := b.Rule("end turn", rules.EndPlayerTurn())
	b.Then(take, end).Then(end, take)
	g.graph = b.MustBuild()
	return g
}

func (g *Game) Name() string { return "nim" }

func (g *Game) Players() (min, max int) { return 2, 6 }

func (g *Game) Tokens() int { return g.tokens }

func (g *Game) NewTurnOrder() game.TurnOrder { return game.NewSimple(false) }

func (g *Game) Setup(s *game.State) {
	s.Data = &Pile{Tokens: g.tokens}
}

func (g *Game) Rules() *rules.Graph { return g.graph }

func (g *Game) Actions(s *game.State) []game.Action {
	pile := s.Data.(*Pile)
	actions := []game.Action{}
	for n := 1; n <= MaxTake && n <= pile.Tokens; n++ {
		actions = append(actions, Take{N: n})
	}
	return actions
}

// lastTaker ends the game once the pile is empty. The turn has not passed yet, so the current
// player made the last take.
func lastTaker(s *game.State) []game.Result {
	if s.Data.(*Pile).Tokens > 0 {
		return nil
	}
	results := make([]game.Result, s.NPlayers)
	for p := range results {
		results[p] = game.Lose
	}
	results[s.CurrentPlayer()] = game.Win
	return results
}
