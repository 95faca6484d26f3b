// Package journal keeps an append-only sqlite record of played games: who
// played, every applied action and every scoring message. It is never read
// back to restore a game.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"neolithic/gameerr"
	"neolithic/scoring"
	"neolithic/tile"
)

type Journal struct {
	conn *sqlx.DB
}

type Game struct {
	ID         string `db:"id"`
	Players    string `db:"players"` // Colors in turn order, space separated
	Seed       int64  `db:"seed"`
	Locale     string `db:"locale"`
	CreatedAt  int64  `db:"created_at"` // Unix milliseconds
	FinishedAt *int64 `db:"finished_at"`
	Winners    string `db:"winners"`
	Points     int    `db:"points"`
}

func (g Game) IsFinished() bool { return g.FinishedAt != nil }

type Action struct {
	GameID    string `db:"game_id"`
	Step      int    `db:"step"`
	Player    string `db:"player"`
	Action    string `db:"action"`
	Code      string `db:"code"` // Empty for the start tile
	Move      string `db:"move"`
	CreatedAt int64  `db:"created_at"`
}

type messageRow struct {
	Seq     int    `db:"seq"`
	Text    string `db:"text"`
	Points  int    `db:"points"`
	Scorers string `db:"scorers_json"`
	Tiles   string `db:"tiles_json"`
}

// Open opens or creates a sqlite journal at the given path.
func Open(path string) (*Journal, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// sqlite serialises writers
	conn.SetMaxOpenConns(1)

	j := &Journal{conn: conn}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Msgf("journal opened at %s", path)
	return j, nil
}

func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		players TEXT NOT NULL,
		seed INTEGER NOT NULL,
		locale TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		finished_at INTEGER,
		winners TEXT NOT NULL DEFAULT '',
		points INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL REFERENCES games(id),
		step INTEGER NOT NULL,
		player TEXT NOT NULL,
		action TEXT NOT NULL,
		code TEXT NOT NULL,
		move TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE (game_id, step)
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL REFERENCES games(id),
		seq INTEGER NOT NULL,
		text TEXT NOT NULL,
		points INTEGER NOT NULL,
		scorers_json TEXT NOT NULL,
		tiles_json TEXT NOT NULL,
		UNIQUE (game_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_actions_game ON actions(game_id);
	CREATE INDEX IF NOT EXISTS idx_messages_game ON messages(game_id);
	`
	_, err := j.conn.Exec(schema)
	return err
}

func now() int64 { return time.Now().UnixMilli() }

// CreateGame records a new game. CreatedAt is set if zero.
func (j *Journal) CreateGame(ctx context.Context, g Game) error {
	if g.CreatedAt == 0 {
		g.CreatedAt = now()
	}
	_, err := j.conn.NamedExecContext(ctx, `
		INSERT INTO games (id, players, seed, locale, created_at)
		VALUES (:id, :players, :seed, :locale, :created_at)`, g)
	if err != nil {
		return fmt.Errorf("create game %s: %w", g.ID, err)
	}
	return nil
}

// RecordAction appends an applied action and the messages it produced.
// firstSeq is the index of the first of them on the game's message board.
func (j *Journal) RecordAction(ctx context.Context, a Action, firstSeq int, messages []scoring.Message) error {
	if a.CreatedAt == 0 {
		a.CreatedAt = now()
	}
	tx, err := j.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO actions (game_id, step, player, action, code, move, created_at)
		VALUES (:game_id, :step, :player, :action, :code, :move, :created_at)`, a); err != nil {
		return fmt.Errorf("record action %d of game %s: %w", a.Step, a.GameID, err)
	}
	for i, m := range messages {
		scorers, err := json.Marshal(m.Scorers)
		if err != nil {
			return fmt.Errorf("encode scorers: %w", err)
		}
		tiles, err := json.Marshal(m.TileIDs)
		if err != nil {
			return fmt.Errorf("encode tiles: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO messages (game_id, seq, text, points, scorers_json, tiles_json)
			VALUES (?, ?, ?, ?, ?, ?)`, a.GameID, firstSeq+i, m.Text, m.Points, string(scorers), string(tiles)); err != nil {
			return fmt.Errorf("record message %d of game %s: %w", firstSeq+i, a.GameID, err)
		}
	}
	return tx.Commit()
}

// FinishGame records the winners of a game.
func (j *Journal) FinishGame(ctx context.Context, id string, winners []tile.Color, points int) error {
	names := make([]string, len(winners))
	for i, c := range winners {
		names[i] = c.String()
	}
	res, err := j.conn.ExecContext(ctx,
		"UPDATE games SET finished_at = ?, winners = ?, points = ? WHERE id = ?",
		now(), strings.Join(names, " "), points, id)
	if err != nil {
		return fmt.Errorf("finish game %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish game %s: %w", id, gameerr.ErrNotFound)
	}
	return nil
}

func (j *Journal) Game(ctx context.Context, id string) (Game, error) {
	var g Game
	err := j.conn.GetContext(ctx, &g, "SELECT * FROM games WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, fmt.Errorf("game %s: %w", id, gameerr.ErrNotFound)
	}
	if err != nil {
		return Game{}, fmt.Errorf("load game %s: %w", id, err)
	}
	return g, nil
}

// Games returns the most recently created games first.
func (j *Journal) Games(ctx context.Context, limit int) ([]Game, error) {
	var games []Game
	err := j.conn.SelectContext(ctx, &games, "SELECT * FROM games ORDER BY created_at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (j *Journal) Actions(ctx context.Context, gameID string) ([]Action, error) {
	var actions []Action
	err := j.conn.SelectContext(ctx, &actions, `
		SELECT game_id, step, player, action, code, move, created_at
		FROM actions WHERE game_id = ? ORDER BY step`, gameID)
	if err != nil {
		return nil, fmt.Errorf("load actions of game %s: %w", gameID, err)
	}
	return actions, nil
}

func (j *Journal) Messages(ctx context.Context, gameID string) ([]scoring.Message, error) {
	var rows []messageRow
	err := j.conn.SelectContext(ctx, &rows, `
		SELECT seq, text, points, scorers_json, tiles_json
		FROM messages WHERE game_id = ? ORDER BY seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("load messages of game %s: %w", gameID, err)
	}
	messages := make([]scoring.Message, len(rows))
	for i, r := range rows {
		messages[i] = scoring.Message{Text: r.Text, Points: r.Points}
		if err := json.Unmarshal([]byte(r.Scorers), &messages[i].Scorers); err != nil {
			return nil, fmt.Errorf("decode scorers of message %d: %w", r.Seq, err)
		}
		if err := json.Unmarshal([]byte(r.Tiles), &messages[i].TileIDs); err != nil {
			return nil, fmt.Errorf("decode tiles of message %d: %w", r.Seq, err)
		}
	}
	return messages, nil
}
