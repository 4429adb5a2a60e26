package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_RecordAndRecent(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, prompt := range []string{"first", "second", "third"} {
		require.NoError(t, s.Record(ctx, AuditRecord{
			SessionID: "sess",
			Prompt:    prompt,
			Reply:     "reply to " + prompt,
			Outcome:   "answer",
			Status:    200,
			Latency:   time.Duration(i+1) * 100 * time.Millisecond,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	recs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "third", recs[0].Prompt)
	assert.Equal(t, "second", recs[1].Prompt)
	assert.Equal(t, "reply to third", recs[0].Reply)
	assert.Equal(t, 200, recs[0].Status)
	assert.Equal(t, 300*time.Millisecond, recs[0].Latency)
	assert.Equal(t, base.Add(2*time.Second), recs[0].CreatedAt)
	assert.NotEqual(t, uuid.Nil, recs[0].ID)
}

func TestSQLiteStore_RecentWithZeroLimit(t *testing.T) {
	s := openTestSQLite(t)
	recs, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSQLiteStore_ReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), AuditRecord{Prompt: "p", Reply: "Error: rate limited", Outcome: "failed", Status: 429}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	recs, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "failed", recs[0].Outcome)
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{})
	require.NoError(t, err)
	assert.IsType(t, NopStore{}, s)

	s, err = Open(Options{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "a.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(Options{Backend: BackendPostgres})
	assert.Error(t, err)

	_, err = Open(Options{Backend: "redis"})
	assert.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2026-01-02 03:04:05.123456", "2026-01-02 03:04:05", "2026-01-02T03:04:05Z"} {
		_, err := parseTimestamp(s)
		assert.NoError(t, err, s)
	}
	_, err := parseTimestamp("yesterday")
	assert.Error(t, err)
}
