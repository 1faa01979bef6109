package metrics

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tagsim/game"
)

// Store keeps experiment records in a SQLite database so series from many runs can be queried
// together.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the database at path and migrates it.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; SQLite serializes writes anyway
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS experiments (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS agents (
			experiment_id TEXT NOT NULL,
			id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			goroutines INTEGER NOT NULL,
			episodes INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			cutoff INTEGER NOT NULL,
			temperature REAL NOT NULL,
			evaluation TEXT NOT NULL,
			PRIMARY KEY (experiment_id, id),
			FOREIGN KEY (experiment_id) REFERENCES experiments(id)
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			experiment_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			game TEXT NOT NULL,
			agents TEXT NOT NULL,
			players INTEGER NOT NULL,
			starting_player INTEGER NOT NULL,
			results TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			rounds INTEGER NOT NULL,
			fallbacks INTEGER NOT NULL,
			truncated INTEGER NOT NULL,
			FOREIGN KEY (experiment_id) REFERENCES experiments(id)
		)`,
		`CREATE TABLE IF NOT EXISTS moves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			player INTEGER NOT NULL,
			action TEXT NOT NULL,
			fallback INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			episodes INTEGER NOT NULL,
			full_playouts INTEGER NOT NULL,
			FOREIGN KEY (game_id) REFERENCES games(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_experiment ON games(experiment_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_moves_game ON moves(game_id, step)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveExperiment records a new experiment and its agents and returns its id.
func (s *Store) SaveExperiment(name string, configs []AgentConfig) (uuid.UUID, error) {
	id := uuid.New()

	tx, err := s.db.Begin()
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO experiments (id, name, created_at) VALUES (?, ?, ?)`,
		id.String(), name, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return uuid.Nil, fmt.Errorf("failed to save experiment: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO agents (
		experiment_id, id, kind, goroutines, episodes, duration_ns, cutoff, temperature, evaluation
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return uuid.Nil, err
	}
	defer stmt.Close()

	for _, c := range configs {
		if _, err := stmt.Exec(id.String(), c.ID, c.Kind, c.Goroutines, c.Episodes, int64(c.Duration),
			c.Cutoff, c.Temperature, c.Evaluation); err != nil {
			return uuid.Nil, fmt.Errorf("failed to save agent %d: %w", c.ID, err)
		}
	}

	return id, tx.Commit()
}

// SaveGames records the games of an experiment in play order.
func (s *Store) SaveGames(experiment uuid.UUID, records []GameRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO games (
		id, experiment_id, seq, game, agents, players, starting_player, results,
		start_time, end_time, duration_ns, moves, rounds, fallbacks, truncated
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for seq, r := range records {
		if _, err := stmt.Exec(r.ID.String(), experiment.String(), seq, r.Game, joinInts(r.Agents),
			r.Players, r.StartingPlayer, joinResults(r.Results),
			r.StartTime.UTC().Format(time.RFC3339Nano), r.EndTime.UTC().Format(time.RFC3339Nano),
			int64(r.Duration), r.TotalMoves, r.Rounds, r.Fallbacks, r.Truncated); err != nil {
			return fmt.Errorf("failed to save game %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// SaveMoves records moves of games already saved.
func (s *Store) SaveMoves(records []MoveRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO moves (
		game_id, step, player, action, fallback, duration_ns, episodes, full_playouts
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Game.String(), r.Step, r.Player, r.Action, r.Fallback,
			int64(r.Duration), r.Episodes, r.FullPlayouts); err != nil {
			return fmt.Errorf("failed to save move %d of game %s: %w", r.Step, r.Game, err)
		}
	}

	return tx.Commit()
}

// Games returns the games of an experiment in play order.
func (s *Store) Games(experiment uuid.UUID) ([]GameRecord, error) {
	rows, err := s.db.Query(`SELECT id, game, agents, players, starting_player, results,
		start_time, end_time, duration_ns, moves, rounds, fallbacks, truncated
		FROM games WHERE experiment_id = ? ORDER BY seq`, experiment.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []GameRecord{}
	for rows.Next() {
		var (
			r                   GameRecord
			id, agents, results string
			startTime, endTime  string
			duration            int64
		)
		if err := rows.Scan(&id, &r.Game, &agents, &r.Players, &r.StartingPlayer, &results,
			&startTime, &endTime, &duration, &r.TotalMoves, &r.Rounds, &r.Fallbacks, &r.Truncated); err != nil {
			return nil, err
		}

		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bad game id %q: %w", id, err)
		}
		if r.Agents, err = splitInts(agents); err != nil {
			return nil, fmt.Errorf("bad agents of game %s: %w", id, err)
		}
		if r.Results, err = splitResults(results); err != nil {
			return nil, fmt.Errorf("bad results of game %s: %w", id, err)
		}
		if r.StartTime, err = time.Parse(time.RFC3339Nano, startTime); err != nil {
			return nil, err
		}
		if r.EndTime, err = time.Parse(time.RFC3339Nano, endTime); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(duration)
		records = append(records, r)
	}
	return records, rows.Err()
}

// MoveCount returns the number of moves saved for a game.
func (s *Store) MoveCount(gameID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM moves WHERE game_id = ?`, gameID.String()).Scan(&count)
	return count, err
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ";")
}

func splitInts(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ";")
	values := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func joinResults(results []game.Result) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.String()
	}
	return strings.Join(parts, ";")
}

func splitResults(s string) ([]game.Result, error) {
	if s == "" {
		return []game.Result{}, nil
	}
	parts := strings.Split(s, ";")
	results := make([]game.Result, len(parts))
	for i, part := range parts {
		r, err := game.ParseResult(part)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}
	return results, nil
}
