package store

// seed.go initializes the demo data set: a populated users table in the
// source store and an empty users_copy table in the destination store.
// Seeding is idempotent; existing rows are left alone.

import (
	"context"
	"log/slog"
)

// SourceStoreName and DestinationStoreName are the store names the default
// configuration declares and seeding targets.
const (
	SourceStoreName      = "source"
	DestinationStoreName = "destination"
)

var sampleUsersSchema = Schema{
	"id":     TypeInteger,
	"name":   TypeText,
	"email":  TypeText,
	"age":    TypeInteger,
	"salary": TypeReal,
}

var sampleUsers = []Row{
	{"id": int64(1), "name": "John Doe", "email": "john@example.com", "age": int64(30), "salary": 75000.0},
	{"id": int64(2), "name": "Jane Smith", "email": "jane@example.com", "age": int64(28), "salary": 82000.0},
	{"id": int64(3), "name": "Bob Johnson", "email": "bob@example.com", "age": int64(35), "salary": 95000.0},
	{"id": int64(4), "name": "Alice Williams", "email": "alice@example.com", "age": int64(32), "salary": 88000.0},
	{"id": int64(5), "name": "Charlie Brown", "email": "charlie@example.com", "age": int64(29), "salary": 71000.0},
}

// Seed creates the sample tables and inserts demo rows into the source
// store's users table if it is empty.
func Seed(ctx context.Context, m *Manager) error {
	source, err := m.Get(SourceStoreName)
	if err != nil {
		return err
	}
	dest, err := m.Get(DestinationStoreName)
	if err != nil {
		return err
	}

	if err := source.CreateTable(ctx, "users", sampleUsersSchema); err != nil {
		return err
	}

	count, err := source.Count(ctx, "users")
	if err != nil {
		return err
	}
	if count == 0 {
		inserted, err := source.InsertBatch(ctx, "users", sampleUsers)
		if err != nil {
			return err
		}
		slog.Info("seeded sample users", "store", SourceStoreName, "rows", inserted)
	} else {
		slog.Info("sample data already present", "store", SourceStoreName, "rows", count)
	}

	// Destination table is created empty so the first transfer has a
	// schema to land in; transfers to other table names will infer one.
	if err := dest.CreateTable(ctx, "users_copy", sampleUsersSchema); err != nil {
		return err
	}

	return nil
}
