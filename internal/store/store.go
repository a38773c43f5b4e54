package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// Store handles all persistence. It runs against a local sqlite file by
// default, or PostgreSQL when a DSN is supplied.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to PostgreSQL when dsn is non-empty, otherwise to the
// sqlite database at path.
func Open(dsn, path string) (*Store, error) {
	if dsn != "" {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return &Store{db: db, driver: "pgx"}, nil
	}

	source := path + "?_foreign_keys=on"
	if path == ":memory:" {
		source = "file::memory:?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", source)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return &Store{db: db, driver: "sqlite3"}, nil
}

func (s *Store) Close() error { return s.db.Close() }

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS todo_lists (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	user_id    INTEGER REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS todos (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	task     TEXT NOT NULL,
	done     BOOLEAN NOT NULL DEFAULT 0,
	due_date TEXT,
	position INTEGER NOT NULL,
	list_id  INTEGER NOT NULL REFERENCES todo_lists(id) ON DELETE CASCADE
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id       BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS todo_lists (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	user_id    BIGINT REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS todos (
	id       BIGSERIAL PRIMARY KEY,
	task     TEXT NOT NULL,
	done     BOOLEAN NOT NULL DEFAULT FALSE,
	due_date TEXT,
	position INTEGER NOT NULL,
	list_id  BIGINT NOT NULL REFERENCES todo_lists(id) ON DELETE CASCADE
);
`

// Migrate creates the tables if they don't exist.
func (s *Store) Migrate(ctx context.Context) error {
	ddl := sqliteSchema
	if s.driver == "pgx" {
		ddl = postgresSchema
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
