// Package store persists session history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bohdon/deadlock-parry/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
	id INTEGER PRIMARY KEY,
	started_at TEXT NOT NULL,
	ended_at TEXT NOT NULL,
	delay_min INTEGER NOT NULL,
	delay_max INTEGER NOT NULL,
	parry_window_ms INTEGER NOT NULL,
	parry_key TEXT NOT NULL,
	attempts INTEGER NOT NULL,
	successes INTEGER NOT NULL,
	latency_sum_ms INTEGER NOT NULL,
	end_reason TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS session_rounds (
	session_id INTEGER NOT NULL,
	seq INTEGER NOT NULL,
	armed_at TEXT NOT NULL,
	success INTEGER NOT NULL,
	latency_ms INTEGER NOT NULL,
	PRIMARY KEY (session_id, seq)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
}

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open creates the database file if needed and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed practice session and its rounds.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, rounds []model.RoundRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	id, err := insertSessionTx(ctx, tx, rec, rounds)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func insertSessionTx(ctx context.Context, tx *sql.Tx, rec model.SessionRecord, rounds []model.RoundRecord) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, delay_min, delay_max, parry_window_ms, parry_key, attempts, successes, latency_sum_ms, end_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.Format(time.RFC3339Nano), rec.EndedAt.Format(time.RFC3339Nano),
		rec.DelayMin, rec.DelayMax, rec.ParryWindowMs, rec.ParryKey,
		rec.Attempts, rec.Successes, rec.LatencySumMs, rec.EndReason)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, r := range rounds {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO session_rounds (session_id, seq, armed_at, success, latency_ms)
			 VALUES (?, ?, ?, ?, ?)`,
			id, r.Seq, r.ArmedAt.Format(time.RFC3339Nano), r.Success, r.LatencyMs)
		if err != nil {
			return 0, err
		}
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config,
// oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	query := `SELECT id, ended_at, parry_window_ms, parry_key, attempts, successes, latency_sum_ms, end_reason
		FROM sessions`
	var args []any
	if cfg.Since != nil {
		query += ` WHERE ended_at >= ?`
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query += ` ORDER BY ended_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.ParryWindowMs, &agg.ParryKey, &agg.Attempts, &agg.Successes, &agg.LatencySumMs, &agg.EndReason); err != nil {
			return nil, err
		}
		if agg.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, agg)
	}
	return sessions, rows.Err()
}

// ListRoundsForSessions returns the rounds of the given sessions in
// chronological order.
func (s *Store) ListRoundsForSessions(ctx context.Context, sessionIDs []int64) ([]model.RoundAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	in := strings.TrimSuffix(strings.Repeat("?,", len(sessionIDs)), ",")
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT r.session_id, r.seq, r.success, r.latency_ms
		FROM session_rounds r
		JOIN sessions s ON s.id = r.session_id
		WHERE r.session_id IN (%s)
		ORDER BY s.ended_at ASC, r.seq ASC`, in)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var rounds []model.RoundAggregate
	for rows.Next() {
		var agg model.RoundAggregate
		if err := rows.Scan(&agg.SessionID, &agg.Seq, &agg.Success, &agg.LatencyMs); err != nil {
			return nil, err
		}
		rounds = append(rounds, agg)
	}
	return rounds, rows.Err()
}

// closeRows releases a result set, ignoring close errors.
func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}
