package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbconn "github.com/earlysvahn/unitsense/internal/db"
)

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects with dsn, pings, and ensures the schema exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := dbconn.OpenPostgres(dsn)
	if err != nil {
		return nil, err
	}

	if err := initPostgresSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func initPostgresSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS relay_calls (
		id UUID PRIMARY KEY,
		session_id TEXT NOT NULL DEFAULT '',
		prompt TEXT NOT NULL,
		reply TEXT NOT NULL,
		outcome TEXT NOT NULL,
		status INTEGER NOT NULL DEFAULT 0,
		latency_ms BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_relay_calls_created_at ON relay_calls(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Record(ctx context.Context, rec AuditRecord) error {
	rec = prepare(rec)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO relay_calls (id, session_id, prompt, reply, outcome, status, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID, rec.SessionID, rec.Prompt, rec.Reply, rec.Outcome, rec.Status,
		rec.Latency.Milliseconds(), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert relay call: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]AuditRecord, error) {
	if limit <= 0 {
		return []AuditRecord{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, prompt, reply, outcome, status, latency_ms, created_at
		FROM relay_calls
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query relay calls: %w", err)
	}
	defer rows.Close()

	records := []AuditRecord{}
	for rows.Next() {
		var rec AuditRecord
		var latencyMS int64
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Prompt, &rec.Reply, &rec.Outcome, &rec.Status, &latencyMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan relay call: %w", err)
		}
		rec.Latency = time.Duration(latencyMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relay calls: %w", err)
	}
	return records, nil
}
