package store

// sql.go implements Store over database/sql for the SQLite and MySQL
// backends. The two differ only in how table existence is probed, how
// logical column types map to DDL, and how identifiers are quoted, so both
// share one implementation parameterized by a dialect.

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/mattn/go-sqlite3"    // sqlite3 driver
)

// dialect captures the per-backend differences for sqlStore.
type dialect struct {
	name string

	// existsQuery probes for a table by name; it must take the table name
	// as its single query argument and return at least one row iff the
	// table exists.
	existsQuery string

	// typeMap translates logical column types to native DDL types.
	typeMap map[ColumnType]string

	// quote wraps an identifier in the backend's quoting characters.
	quote func(string) string
}

var sqliteDialect = dialect{
	name:        "sqlite",
	existsQuery: `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`,
	typeMap: map[ColumnType]string{
		TypeInteger: "INTEGER",
		TypeReal:    "REAL",
		TypeText:    "TEXT",
	},
	quote: quoteDouble,
}

var mysqlDialect = dialect{
	name:        "mysql",
	existsQuery: `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`,
	typeMap: map[ColumnType]string{
		TypeInteger: "BIGINT",
		TypeReal:    "DOUBLE",
		TypeText:    "TEXT",
	},
	quote: quoteBacktick,
}

// quoteDouble quotes an identifier with double quotes (SQLite, standard SQL).
func quoteDouble(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// quoteBacktick quotes an identifier with backticks (MySQL).
func quoteBacktick(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

// sqlStore is a Store backed by a database/sql connection.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLiteStore opens a SQLite-backed store at the given path.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent transfers.
	db.SetMaxOpenConns(1)
	return &sqlStore{db: db, dialect: sqliteDialect}, nil
}

// NewMySQLStore opens a MySQL-backed store from a driver DSN
// (user:pass@tcp(host:port)/dbname).
func NewMySQLStore(dsn string) (Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql store: %w", err)
	}
	return &sqlStore{db: db, dialect: mysqlDialect}, nil
}

func (s *sqlStore) Exists(ctx context.Context, table string) (bool, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.existsQuery, table)
	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table %q: %w", table, err)
	}
	return true, nil
}

func (s *sqlStore) Count(ctx context.Context, table string) (int64, error) {
	query := "SELECT COUNT(*) FROM " + s.dialect.quote(table)
	var count int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows in %q: %w", table, err)
	}
	return count, nil
}

func (s *sqlStore) ReadPage(ctx context.Context, table string, limit, offset int64) ([]Row, error) {
	query := fmt.Sprintf("SELECT * FROM %s LIMIT ? OFFSET ?", s.dialect.quote(table))
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("read page from %q: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read page from %q: %w", table, err)
	}

	var page []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row from %q: %w", table, err)
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(values[i])
		}
		page = append(page, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read page from %q: %w", table, err)
	}
	return page, nil
}

func (s *sqlStore) InsertBatch(ctx context.Context, table string, rows []Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	cols := columnOrder(rows[0])
	query := buildInsert(s.dialect, table, cols)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert into %q: %w", table, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("prepare insert into %q: %w", table, err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		args := make([]any, len(cols))
		for i, col := range cols {
			args[i] = row[col]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert into %q: %w", table, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert into %q: %w", table, err)
	}
	return inserted, nil
}

func (s *sqlStore) CreateTable(ctx context.Context, table string, schema Schema) error {
	query := buildCreateTable(s.dialect, table, schema)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %q: %w", table, err)
	}
	return nil
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// buildInsert renders a parameterized INSERT for the given column order.
func buildInsert(d dialect, table string, cols []string) string {
	quoted := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = d.quote(col)
		params[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.quote(table),
		strings.Join(quoted, ", "),
		strings.Join(params, ", "),
	)
}

// buildCreateTable renders a CREATE TABLE IF NOT EXISTS statement with
// columns in deterministic order. All columns are nullable; the logical
// schema carries no constraint information.
func buildCreateTable(d dialect, table string, schema Schema) string {
	defs := make([]string, 0, len(schema))
	for _, col := range schemaOrder(schema) {
		defs = append(defs, d.quote(col)+" "+d.typeMap[schema[col]])
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		d.quote(table),
		strings.Join(defs, ", "),
	)
}

// normalizeValue converts driver-specific scan results into plain Go values.
// MySQL in particular returns []byte for text columns; keeping raw byte
// slices would break schema inference and make rows awkward to re-insert.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
