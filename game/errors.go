package game

import "errors"

var (
	// ErrNotSetup is raised by operations on a state that never went through setup.
	ErrNotSetup = errors.New("game state is not set up")
	// ErrNoTurnOrder is raised when turn bookkeeping is requested without a bound turn order.
	ErrNoTurnOrder = errors.New("no turn order bound to game state")
	// ErrNoPlayers is raised for states or turn orders without players.
	ErrNoPlayers = errors.New("turn order has no players")
	// ErrUnknownPlayer is raised for player ids outside [0, NPlayers).
	ErrUnknownPlayer = errors.New("unknown player")
	ErrUnknownResult = errors.New("unknown result")
)
