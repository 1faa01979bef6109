package game

import "fmt"

// TurnOrder decides whose turn it is and how turns and rounds advance. Every state owns its own
// instance, so implementations must copy all mutable bookkeeping in Copy.
type TurnOrder interface {
	CurrentPlayer(s *State) int
	EndPlayerTurn(s *State)
	EndRound(s *State, firstPlayer int)
	Copy() TurnOrder
	Hash() uint64
}

// Simple is strict clockwise rotation. A round ends once the turn would return to the round's
// first player; with Rotate set the next round starts one seat further clockwise.
type Simple struct {
	Rotate bool
}

func NewSimple(rotate bool) *Simple {
	return &Simple{Rotate: rotate}
}

func (t *Simple) CurrentPlayer(s *State) int {
	return s.turnOwner
}

// EndPlayerTurn counts the finished turn and hands it to the next player still in the game,
// closing the round when the rotation wraps.
func (t *Simple) EndPlayerTurn(s *State) {
	mustHavePlayers(s)
	if s.IsTerminal() {
		return
	}

	s.TurnCounter++
	s.turnInRound++

	next, wrapped := nextInRound(s)
	if wrapped {
		t.EndRound(s, t.nextFirstPlayer(s))
		return
	}
	s.turnOwner = next
}

// EndRound counts the round and starts the next one at firstPlayer, or at the first player after
// it still in the game.
func (t *Simple) EndRound(s *State, firstPlayer int) {
	mustHavePlayers(s)
	if s.IsTerminal() {
		return
	}
	s.mustBePlayer(firstPlayer)

	s.RoundCounter++
	s.turnInRound = 0
	s.FirstPlayer = firstPlayer
	s.turnOwner = firstOngoing(s, firstPlayer)
}

func (t *Simple) nextFirstPlayer(s *State) int {
	if t.Rotate {
		return (s.FirstPlayer + 1) % s.NPlayers
	}
	return s.FirstPlayer
}

func (t *Simple) Copy() TurnOrder {
	c := *t
	return &c
}

func (t *Simple) Hash() uint64 {
	if t.Rotate {
		return 1
	}
	return 0
}

// nextInRound walks clockwise from the turn owner. It reports wrapped once the walk reaches the
// round's first player, skipping players that are out of the game.
func nextInRound(s *State) (next int, wrapped bool) {
	for i := 1; i <= s.NPlayers; i++ {
		p := (s.turnOwner + i) % s.NPlayers
		if p == s.FirstPlayer {
			return p, true
		}
		if s.IsOngoing(p) {
			return p, false
		}
	}
	return s.FirstPlayer, true
}

func firstOngoing(s *State, from int) int {
	for i := 0; i < s.NPlayers; i++ {
		p := (from + i) % s.NPlayers
		if s.IsOngoing(p) {
			return p
		}
	}
	return from
}

func mustHavePlayers(s *State) {
	if s.NPlayers < 1 {
		panic(fmt.Errorf("%w: %d seats", ErrNoPlayers, s.NPlayers))
	}
}
