// Package cache is the lightweight relational cache behind the CLI: players,
// projections, and a small settings kv table in one SQLite file.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	position     TEXT NOT NULL,
	team         TEXT,
	status       TEXT,
	last_updated TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS projections (
	key          TEXT PRIMARY KEY,
	player_id    TEXT NOT NULL,
	week         INTEGER NOT NULL,
	proj_points  REAL NOT NULL,
	floor        REAL NOT NULL DEFAULT 0,
	ceiling      REAL NOT NULL DEFAULT 0,
	last_updated TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	k TEXT PRIMARY KEY,
	v TEXT NOT NULL
);
`

// Player is a cached player row.
type Player struct {
	ID          string
	Name        string
	Position    string
	Team        string
	Status      string
	LastUpdated time.Time
}

// Projection is a cached weekly projection, keyed player_id|week.
type Projection struct {
	PlayerID    string
	Week        int
	ProjPoints  float64
	Floor       float64
	Ceiling     float64
	LastUpdated time.Time
}

// Cache wraps the SQLite handle. Open creates the schema if needed.
type Cache struct {
	db *sql.DB
}

func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// UpsertPlayer inserts or replaces one player row.
func (c *Cache) UpsertPlayer(ctx context.Context, p Player) error {
	if p.LastUpdated.IsZero() {
		p.LastUpdated = time.Now().UTC()
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO players (id, name, position, team, status, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			position = excluded.position,
			team = excluded.team,
			status = excluded.status,
			last_updated = excluded.last_updated`,
		p.ID, p.Name, p.Position, p.Team, p.Status, p.LastUpdated)
	return err
}

// Player returns one cached player; sql.ErrNoRows when absent.
func (c *Cache) Player(ctx context.Context, id string) (Player, error) {
	var p Player
	err := c.db.QueryRowContext(ctx, `
		SELECT id, name, position, team, status, last_updated
		FROM players WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.Status, &p.LastUpdated)
	return p, err
}

// Players returns every cached player.
func (c *Cache) Players(ctx context.Context) ([]Player, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, position, team, status, last_updated
		FROM players ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.Status, &p.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func projectionKey(playerID string, week int) string {
	return fmt.Sprintf("%s|%d", playerID, week)
}

// UpsertProjection inserts or replaces one weekly projection.
func (c *Cache) UpsertProjection(ctx context.Context, p Projection) error {
	if p.LastUpdated.IsZero() {
		p.LastUpdated = time.Now().UTC()
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO projections (key, player_id, week, proj_points, floor, ceiling, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			proj_points = excluded.proj_points,
			floor = excluded.floor,
			ceiling = excluded.ceiling,
			last_updated = excluded.last_updated`,
		projectionKey(p.PlayerID, p.Week), p.PlayerID, p.Week,
		p.ProjPoints, p.Floor, p.Ceiling, p.LastUpdated)
	return err
}

// ProjectionsForWeek returns proj_points by player id for one week.
func (c *Cache) ProjectionsForWeek(ctx context.Context, week int) (map[string]float64, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT player_id, proj_points FROM projections WHERE week = ?`, week)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]float64)
	for rows.Next() {
		var id string
		var pts float64
		if err := rows.Scan(&id, &pts); err != nil {
			return nil, err
		}
		out[id] = pts
	}
	return out, rows.Err()
}

// SetSetting stores one kv pair.
func (c *Cache) SetSetting(ctx context.Context, k, v string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO settings (k, v) VALUES (?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v`, k, v)
	return err
}

// Setting returns one kv value; empty string when absent.
func (c *Cache) Setting(ctx context.Context, k string) (string, error) {
	var v string
	err := c.db.QueryRowContext(ctx, `SELECT v FROM settings WHERE k = ?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return v, err
}
