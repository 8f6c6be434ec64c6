package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mnemo/pkg/schema"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS abbreviations (
	id          BIGSERIAL PRIMARY KEY,
	abbr_key    TEXT NOT NULL UNIQUE,
	abbr        TEXT NOT NULL,
	full_form   TEXT NOT NULL,
	description TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres cache: empty DSN")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, k string) (schema.Abbreviation, bool, error) {
	var e schema.Abbreviation
	err := s.pool.QueryRow(ctx,
		"SELECT abbr, full_form, description FROM abbreviations WHERE abbr_key = $1", key(k),
	).Scan(&e.Abbr, &e.FullForm, &e.Description)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return schema.Abbreviation{}, false, nil
	case err != nil:
		return schema.Abbreviation{}, false, fmt.Errorf("get %s: %w", k, err)
	}
	return e, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, e schema.Abbreviation) (bool, error) {
	k := e.Key()
	if k == "" {
		return false, nil
	}
	tag, err := s.pool.Exec(ctx,
		"INSERT INTO abbreviations (abbr_key, abbr, full_form, description) VALUES ($1, $2, $3, $4) ON CONFLICT (abbr_key) DO NOTHING",
		k, e.Abbr, e.FullForm, e.Description,
	)
	if err != nil {
		return false, fmt.Errorf("put %s: %w", k, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) All(ctx context.Context) ([]schema.Abbreviation, error) {
	rows, err := s.pool.Query(ctx, "SELECT abbr, full_form, description FROM abbreviations ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list abbreviations: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (schema.Abbreviation, error) {
		var e schema.Abbreviation
		err := row.Scan(&e.Abbr, &e.FullForm, &e.Description)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan abbreviations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
