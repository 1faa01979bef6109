// Package feast is a small reactive card game. On their turn a player offers a token from hand
// (scoring its value) or draws a new one. A wild token is worth whatever its owner declares next.
// Offers of BigOffer or more make every player react, in seat order from the offerer, by
// contributing a token for a point or declining. The game ends when a hand runs empty or after
// the configured number of rounds, and the highest score wins.
package feast

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"slices"

	"tagsim/engine"
	"tagsim/game"
	"tagsim/rules"
)

const (
	Wild     = 0
	MaxValue = 5
	BigOffer = 4
	MaxHand  = 6

	DefaultHandSize = 4
	DefaultRounds   = 10
)

// DeclarePhase marks a wild offer waiting for its declared value.
const DeclarePhase = game.FirstGamePhase

// Table is the game data of a Feast state.
type Table struct {
	Hands  [][]int // Sorted token values per seat
	Scores []int
	Pot    int // Value of the offer currently on the table
}

func table(s *game.State) *Table {
	return s.Data.(*Table)
}

func (t *Table) Copy() game.Data {
	hands := make([][]int, len(t.Hands))
	for i, hand := range t.Hands {
		hands[i] = slices.Clone(hand)
	}
	return &Table{
		Hands:  hands,
		Scores: slices.Clone(t.Scores),
		Pot:    t.Pot,
	}
}

func (t *Table) Hash() uint64 {
	hasher := fnv.New64a()
	for _, hand := range t.Hands {
		for _, v := range hand {
			binary.Write(hasher, binary.LittleEndian, int64(v))
		}
		binary.Write(hasher, binary.LittleEndian, int64(-1))
	}
	for _, score := range t.Scores {
		binary.Write(hasher, binary.LittleEndian, int64(score))
	}
	binary.Write(hasher, binary.LittleEndian, int64(t.Pot))
	return hasher.Sum64()
}

func (t *Table) take(player, value int) {
	hand := t.Hands[player]
	i := slices.Index(hand, value)
	if i < 0 {
		panic(fmt.Sprintf("player %d holds no %d token in %v", player, value, hand))
	}
	t.Hands[player] = slices.Delete(hand, i, i+1)
}

// values returns the distinct token values of a hand, ascending.
func values(hand []int) []int {
	return slices.Compact(slices.Clone(hand))
}

type Option func(g *Game)

func WithHandSize(size int) Option {
	return func(g *Game) {
		if size > 0 && size <= MaxHand {
			g.handSize = size
		}
	}
}

func WithRounds(rounds int) Option {
	return func(g *Game) {
		if rounds > 0 {
			g.rounds = rounds
		}
	}
}

type Game struct {
	handSize int
	rounds   int
	graph    *rules.Graph
}

var (
	_ engine.Game      = (*Game)(nil)
	_ engine.Ender     = (*Game)(nil)
	_ engine.Scorer    = (*Game)(nil)
	_ engine.Evaluator = (*Game)(nil)
)

func New(options ...Option) *Game {
	g := &Game{
		handSize: DefaultHandSize,
		rounds:   DefaultRounds,
	}
	for _, option := range options {
		option(g)
	}
	g.graph = buildRules()
	return g
}

func buildRules() *rules.Graph {
	b := rules.NewBuilder("feast")
	offer := b.Action("offer")
	big := b.Condition("big offer", func(s *game.State) bool { return table(s).Pot >= BigOffer })
	force := b.Rule("force reactions", rules.ForceAllPlayerReaction())
	react := b.Action("react", rules.ChangesActivePlayer())
	step := b.Rule("end reaction", rules.EndReactionStep())
	more := b.Condition("reactions left", rules.ReactionsRemaining())
	settle := b.Rule("clear pot", func(s *game.State) bool {
		table(s).Pot = 0
		return true
	})
	end := b.Rule("end turn", rules.EndPlayerTurn(), rules.WithGameOver(emptyHand))

	b.Then(offer, big).
		Branch(big, force, settle).
		Chain(force, react, step, more).
		Branch(more, react, settle).
		Chain(settle, end, offer).
		SetParent(react, offer)
	return b.MustBuild()
}

func (g *Game) Name() string { return "feast" }

func (g *Game) Players() (min, max int) { return 2, 5 }

func (g *Game) Rounds() int { return g.rounds }

func (g *Game) NewTurnOrder() game.TurnOrder { return game.NewReactive(true) }

// Setup deals every player a hand from the state's random source.
func (g *Game) Setup(s *game.State) {
	t := &Table{
		Hands:  make([][]int, s.NPlayers),
		Scores: make([]int, s.NPlayers),
	}
	for p := range t.Hands {
		hand := make([]int, g.handSize)
		for i := range hand {
			hand[i] = s.Rand().Intn(MaxValue + 1)
		}
		slices.Sort(hand)
		t.Hands[p] = hand
	}
	s.Data = t
}

func (g *Game) Rules() *rules.Graph { return g.graph }

func (g *Game) Actions(s *game.State) []game.Action {
	t := table(s)
	hand := t.Hands[s.CurrentPlayer()]
	actions := []game.Action{}

	switch s.Phase {
	case DeclarePhase:
		for v := 1; v <= MaxValue; v++ {
			actions = append(actions, Declare{Value: v})
		}
	case game.PlayerReactionPhase:
		actions = append(actions, Decline{})
		for _, v := range values(hand) {
			actions = append(actions, Contribute{Value: v})
		}
	default:
		for _, v := range values(hand) {
			actions = append(actions, Offer{Value: v})
		}
		if len(hand) < MaxHand {
			actions = append(actions, Draw{})
		}
	}
	return actions
}

// GameOver ends the game once the round limit is reached.
func (g *Game) GameOver(s *game.State) []game.Result {
	if s.RoundCounter < g.rounds {
		return nil
	}
	return game.RankResults(g.Scores(s))
}

func (g *Game) Scores(s *game.State) []float64 {
	return table(s).scores()
}

func (t *Table) scores() []float64 {
	scores := make([]float64, len(t.Scores))
	for p, score := range t.Scores {
		scores[p] = float64(score)
	}
	return scores
}

func emptyHand(s *game.State) []game.Result {
	t := table(s)
	for _, hand := range t.Hands {
		if len(hand) == 0 {
			return game.RankResults(t.scores())
		}
	}
	return nil
}
