package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// ErrPostgresNotConfigured is returned when no DSN was given.
var ErrPostgresNotConfigured = errors.New("postgres DSN is not set (audit.postgres_dsn or UNITSENSE_POSTGRES_DSN)")

// OpenPostgres connects with dsn and pings the server.
func OpenPostgres(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrPostgresNotConfigured
	}
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return conn, nil
}
