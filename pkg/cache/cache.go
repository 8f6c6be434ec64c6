// Package cache persists resolved abbreviations. Every backend keeps at most
// one entry per case-insensitive abbreviation; inserting an existing key is a
// silent no-op.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mnemo/pkg/schema"
)

// Backend names accepted by Open.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var ErrUnknownBackend = errors.New("unknown cache backend")

type Store interface {
	// Get returns the entry for key, ignoring case.
	Get(ctx context.Context, key string) (schema.Abbreviation, bool, error)
	// Put appends entry unless its key is already present. The check and the
	// append happen atomically; the result reports whether entry was stored.
	Put(ctx context.Context, entry schema.Abbreviation) (bool, error)
	// All lists the entries in insertion order.
	All(ctx context.Context) ([]schema.Abbreviation, error)
	Close() error
}

type Options struct {
	Backend string
	// Path is the JSON file or the SQLite database file.
	Path string
	// DSN is the Postgres connection string.
	DSN string
}

// Open returns the store selected by opts.Backend; an empty backend is JSON.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendJSON:
		return OpenJSON(opts.Path)
	case BackendSQLite:
		return OpenSQLite(ctx, opts.Path)
	case BackendPostgres:
		return OpenPostgres(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func key(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
