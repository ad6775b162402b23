// Package store provides access to the named record stores that transfers
// read from and write to. A Store exposes a small capability surface
// (existence checks, counts, paginated reads, batch inserts, table creation)
// over one backing database; the Manager holds the set of configured stores
// by name.
//
// Three backends are supported: SQLite and MySQL through database/sql, and
// PostgreSQL through pgx. The engine only ever sees the Store interface.
package store

import (
	"context"
	"sort"
)

// Row is a single record, keyed by column name.
type Row map[string]any

// ColumnType is the store-agnostic logical type of a column. Each backend
// maps these to its native DDL types when creating tables.
type ColumnType string

const (
	TypeInteger ColumnType = "INTEGER"
	TypeReal    ColumnType = "REAL"
	TypeText    ColumnType = "TEXT"
)

// Schema maps column names to their logical types.
type Schema map[string]ColumnType

// Store is the capability contract a backing database must provide.
// Implementations must be safe for concurrent use.
type Store interface {
	// Exists reports whether the named table exists.
	Exists(ctx context.Context, table string) (bool, error)

	// Count returns the number of rows in the table.
	Count(ctx context.Context, table string) (int64, error)

	// ReadPage returns up to limit rows starting at offset. Row order is
	// whatever the backing store yields for an unordered scan; pagination
	// stability is the store's concern, not the caller's.
	ReadPage(ctx context.Context, table string, limit, offset int64) ([]Row, error)

	// InsertBatch inserts rows as a single transaction and returns the
	// number of rows inserted. A returned error means the whole batch was
	// rolled back.
	InsertBatch(ctx context.Context, table string, rows []Row) (int64, error)

	// CreateTable creates the table from the schema. It is a no-op if the
	// table already exists.
	CreateTable(ctx context.Context, table string, schema Schema) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store's connections.
	Close() error
}

// columnOrder returns the row's column names in a deterministic order.
// Map iteration order is random, so SQL built from a Row must fix the
// column order up front.
func columnOrder(r Row) []string {
	cols := make([]string, 0, len(r))
	for name := range r {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}

// schemaOrder returns the schema's column names in a deterministic order.
func schemaOrder(s Schema) []string {
	cols := make([]string, 0, len(s))
	for name := range s {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}
