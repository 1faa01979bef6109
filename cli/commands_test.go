package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagsim/config"
	"tagsim/games"
	"tagsim/searcher/agent"
)

func TestGamesCommand(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "games")
		require.NoError(t, err)
		assert.Contains(t, out, "feast    2-5 players")
		assert.Contains(t, out, "nim      2-6 players")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "games", "--format", "json")
		require.NoError(t, err)

		var resp struct {
			Status string     `json:"status"`
			Data   []GameInfo `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "ok", resp.Status)
		require.Len(t, resp.Data, len(games.Names()))
		assert.Equal(t, GameInfo{Name: "feast", MinPlayers: 2, MaxPlayers: 5}, resp.Data[0])
	})
}

func TestGraphCommand(t *testing.T) {
	t.Run("prints dot", func(t *testing.T) {
		out, err := execute(t, "graph", "nim")
		require.NoError(t, err)
		assert.Contains(t, out, `digraph "nim" {`)
		assert.Contains(t, out, "shape=box")
	})

	t.Run("unknown game", func(t *testing.T) {
		_, err := execute(t, "graph", "chess")
		require.ErrorIs(t, err, games.ErrUnknownGame)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("needs a game", func(t *testing.T) {
		_, err := execute(t, "graph")
		require.Error(t, err)
	})
}

func TestPlayCommand(t *testing.T) {
	t.Run("default match", func(t *testing.T) {
		out, err := execute(t, "play", "--games", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "nim: 2 games")
		assert.Contains(t, out, "mcts")
		assert.Contains(t, out, "random")
	})

	t.Run("config file with overrides", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "match.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`game: nim
players: 2
games: 5
agents:
  - id: 7
    kind: random
  - id: 8
    kind: random
`), 0644))

		out, err := execute(t, "play", path, "--games", "3", "--players", "3", "--output", dir,
			"--db", filepath.Join(dir, "records.db"), "--format", "json")
		require.NoError(t, err)

		var resp struct {
			Status string `json:"status"`
			Data   struct {
				Games     int `json:"games"`
				Standings []struct {
					Agent int    `json:"agent"`
					Kind  string `json:"kind"`
					Games int    `json:"games"`
				} `json:"standings"`
				Dir        string `json:"dir"`
				Experiment string `json:"experiment"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, 3, resp.Data.Games, "Flags should override the file")
		require.Len(t, resp.Data.Standings, 3, "The extra seat should get an agent")
		assert.Equal(t, 9, resp.Data.Standings[2].Agent)
		assert.Equal(t, agent.Random, resp.Data.Standings[2].Kind)
		assert.NotEmpty(t, resp.Data.Dir)
		assert.NotEmpty(t, resp.Data.Experiment)
	})

	t.Run("bad config", func(t *testing.T) {
		_, err := execute(t, "play", filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("invalid override", func(t *testing.T) {
		_, err := execute(t, "play", "--games", "0")
		require.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestFitAgents(t *testing.T) {
	cfg := config.Default()
	cfg.Players = 1
	fitAgents(cfg)
	require.Len(t, cfg.Agents, 1)
	require.Equal(t, 1, cfg.Agents[0].ID)

	cfg.Players = 3
	fitAgents(cfg)
	require.Len(t, cfg.Agents, 3)
	require.Equal(t, []int{1, 2, 3}, []int{cfg.Agents[0].ID, cfg.Agents[1].ID, cfg.Agents[2].ID})
}

func TestBenchCommand(t *testing.T) {
	out, err := execute(t, "bench", "--duration", "5ms", "--goroutines", "1,2")
	require.NoError(t, err)
	assert.Contains(t, out, "goroutines")

	cmd := NewRootCommand()
	benchCmd, _, err := cmd.Find([]string{"bench"})
	require.NoError(t, err)
	assert.Equal(t, "[1,2,4,8,16]", benchCmd.Flags().Lookup("goroutines").DefValue)
}
