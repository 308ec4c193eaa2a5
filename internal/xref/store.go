package xref

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// 0 - initial schema
// 1 - units.types column
const currentSchemaVersion = 1

// Store is an open cross-reference database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and brings its schema up to
// date. Opening the same file repeatedly is safe.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open xref database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect xref database: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("xref pragma %q: %w", p, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("xref schema: %w", err)
	}
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("xref user_version: %w", err)
	}
	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("xref set user_version: %w", err)
	}
	return nil
}

// migrateToV1 adds units.types to databases created before it existed.
func migrateToV1(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(units)")
	if err != nil {
		return fmt.Errorf("migrate xref to v1: %w", err)
	}
	has := false
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return fmt.Errorf("migrate xref to v1: %w", err)
		}
		if name == "types" {
			has = true
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("migrate xref to v1: %w", err)
	}
	if has {
		return nil
	}
	if _, err := db.Exec("ALTER TABLE units ADD COLUMN types INTEGER NOT NULL DEFAULT 0"); err != nil {
		return fmt.Errorf("migrate xref to v1: %w", err)
	}
	return nil
}

// BeginRun records a new run and returns its id, a time-ordered UUID.
func (s *Store) BeginRun(ctx context.Context, toolVersion string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	if err := s.AddRun(ctx, id.String(), toolVersion); err != nil {
		return "", err
	}
	return id.String(), nil
}

// AddRun records a run with a caller-chosen id; an existing id is kept.
func (s *Store) AddRun(ctx context.Context, id, toolVersion string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, tool_version)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, time.Now().UTC().Format(time.RFC3339Nano), toolVersion)
	if err != nil {
		return fmt.Errorf("add run: %w", err)
	}
	return nil
}
