// Package store keeps a developer-facing log of relay calls. It never holds
// session history; that lives in memory for the session's lifetime only.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	BackendNone     = "none"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// AuditRecord describes one relay call.
type AuditRecord struct {
	ID        uuid.UUID
	SessionID string
	Prompt    string
	Reply     string
	Outcome   string
	Status    int
	Latency   time.Duration
	CreatedAt time.Time
}

type AuditStore interface {
	Record(ctx context.Context, rec AuditRecord) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]AuditRecord, error)
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend     string
	SQLitePath  string
	PostgresDSN string
}

// Open instantiates the backend named in opts.
func Open(opts Options) (AuditStore, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NopStore{}, nil
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	case BackendPostgres:
		return NewPostgresStore(opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown audit backend: %s (must be 'none', 'sqlite', or 'postgres')", opts.Backend)
	}
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Record(context.Context, AuditRecord) error { return nil }

func (NopStore) Recent(context.Context, int) ([]AuditRecord, error) { return nil, nil }

func (NopStore) Close() error { return nil }

// prepare fills in the ID and timestamp when the caller left them empty.
func prepare(rec AuditRecord) AuditRecord {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec
}
