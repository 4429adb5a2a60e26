package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	dbconn "github.com/earlysvahn/unitsense/internal/db"
)

const sqliteTimeFormat = "2006-01-02 15:04:05.000000"

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates when missing) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := dbconn.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := initSQLiteSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSQLiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS relay_calls (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL DEFAULT '',
		prompt TEXT NOT NULL,
		reply TEXT NOT NULL,
		outcome TEXT NOT NULL,
		status INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_relay_calls_created_at ON relay_calls(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Record(ctx context.Context, rec AuditRecord) error {
	rec = prepare(rec)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO relay_calls (id, session_id, prompt, reply, outcome, status, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID.String(), rec.SessionID, rec.Prompt, rec.Reply, rec.Outcome, rec.Status,
		rec.Latency.Milliseconds(), rec.CreatedAt.Format(sqliteTimeFormat))
	if err != nil {
		return fmt.Errorf("insert relay call: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]AuditRecord, error) {
	if limit <= 0 {
		return []AuditRecord{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, prompt, reply, outcome, status, latency_ms, created_at
		FROM relay_calls
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query relay calls: %w", err)
	}
	defer rows.Close()

	records := []AuditRecord{}
	for rows.Next() {
		var rec AuditRecord
		var id, createdAt string
		var latencyMS int64
		if err := rows.Scan(&id, &rec.SessionID, &rec.Prompt, &rec.Reply, &rec.Outcome, &rec.Status, &latencyMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan relay call: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse id: %w", err)
		}
		if rec.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		rec.Latency = time.Duration(latencyMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relay calls: %w", err)
	}
	return records, nil
}

// parseTimestamp accepts our own format as well as SQLite's default and RFC3339.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{sqliteTimeFormat, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
