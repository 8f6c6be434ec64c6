package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"mnemo/pkg/schema"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS abbreviations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	abbr_key    TEXT NOT NULL UNIQUE,
	abbr        TEXT NOT NULL,
	full_form   TEXT NOT NULL,
	description TEXT NOT NULL,
	created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path. ":memory:" is accepted.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases
	// alive across calls.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, k string) (schema.Abbreviation, bool, error) {
	var e schema.Abbreviation
	err := s.db.QueryRowContext(ctx,
		"SELECT abbr, full_form, description FROM abbreviations WHERE abbr_key = ?", key(k),
	).Scan(&e.Abbr, &e.FullForm, &e.Description)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return schema.Abbreviation{}, false, nil
	case err != nil:
		return schema.Abbreviation{}, false, fmt.Errorf("get %s: %w", k, err)
	}
	return e, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, e schema.Abbreviation) (bool, error) {
	k := e.Key()
	if k == "" {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO abbreviations (abbr_key, abbr, full_form, description) VALUES (?, ?, ?, ?) ON CONFLICT (abbr_key) DO NOTHING",
		k, e.Abbr, e.FullForm, e.Description,
	)
	if err != nil {
		return false, fmt.Errorf("put %s: %w", k, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("put %s: %w", k, err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) All(ctx context.Context) ([]schema.Abbreviation, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT abbr, full_form, description FROM abbreviations ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list abbreviations: %w", err)
	}
	defer rows.Close()

	var out []schema.Abbreviation
	for rows.Next() {
		var e schema.Abbreviation
		if err := rows.Scan(&e.Abbr, &e.FullForm, &e.Description); err != nil {
			return nil, fmt.Errorf("scan abbreviation: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate abbreviations: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
