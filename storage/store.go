// Package storage persists finished match records in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Match is one finished game, recorded for later analysis of agent play.
type Match struct {
	ID        int64
	Seed      int64
	Agent     string
	Scenario  string
	Rounds    int
	Turns     int
	Win       bool
	Reason    string
	StateKey  string
	CreatedAt time.Time
}

// Store persists match records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS matches (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  seed       INTEGER NOT NULL,
  agent      TEXT NOT NULL,
  scenario   TEXT NOT NULL,
  rounds     INTEGER NOT NULL,
  turns      INTEGER NOT NULL,
  win        INTEGER NOT NULL,
  reason     TEXT NOT NULL,
  state_key  TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matches_agent ON matches(agent);
`

// Open opens a SQLite match store at path and creates the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveMatch inserts one match record and returns its id.
func (s *Store) SaveMatch(ctx context.Context, m Match) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(m.Agent) == "" {
		return 0, fmt.Errorf("agent is required")
	}
	createdAt := m.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO matches (seed, agent, scenario, rounds, turns, win, reason, state_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Seed, m.Agent, m.Scenario, m.Rounds, m.Turns, boolToInt(m.Win), m.Reason, m.StateKey,
		createdAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// ListMatches returns the most recent matches, newest first.
func (s *Store) ListMatches(ctx context.Context, limit int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, seed, agent, scenario, rounds, turns, win, reason, state_key, created_at
		 FROM matches ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		var win int
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.Seed, &m.Agent, &m.Scenario, &m.Rounds, &m.Turns,
			&win, &m.Reason, &m.StateKey, &createdAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.Win = win != 0
		m.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}

// AgentSummary aggregates results for one agent.
type AgentSummary struct {
	Agent   string
	Matches int
	Wins    int
}

// SummarizeByAgent returns per-agent win counts across all recorded matches.
func (s *Store) SummarizeByAgent(ctx context.Context) ([]AgentSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT agent, COUNT(*), COALESCE(SUM(win), 0)
		 FROM matches GROUP BY agent ORDER BY agent`,
	)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []AgentSummary
	for rows.Next() {
		var a AgentSummary
		if err := rows.Scan(&a.Agent, &a.Matches, &a.Wins); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
