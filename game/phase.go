package game

import "fmt"

type Phase int

const (
	NoPhase Phase = iota
	MainPhase
	PlayerReactionPhase
	GameOverPhase
	// FirstGamePhase is the first value available for game-defined phases
	FirstGamePhase
)

func (p Phase) String() string {
	switch p {
	case NoPhase:
		return "None"
	case MainPhase:
		return "Main"
	case PlayerReactionPhase:
		return "PlayerReaction"
	case GameOverPhase:
		return "GameOver"
	default:
		return fmt.Sprintf("Game%d", int(p-FirstGamePhase))
	}
}
