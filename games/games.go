// Package games maps game names to their constructors.
package games

import (
	"errors"
	"fmt"
	"sort"

	"tagsim/engine"
	"tagsim/games/feast"
	"tagsim/games/nim"
)

var ErrUnknownGame = errors.New("unknown game")

var registry = map[string]func() engine.Game{
	"nim":   func() engine.Game { return nim.New(nim.DefaultTokens) },
	"feast": func() engine.Game { return feast.New() },
}

// Lookup returns a fresh instance of the named game.
func Lookup(name string) (engine.Game, error) {
	newGame, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownGame, name, Names())
	}
	return newGame(), nil
}

// Names lists the registered games alphabetically.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
