// Package storage reads summary rows from a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fairdash/internal/core"
	"fairdash/internal/source"

	_ "modernc.org/sqlite"
)

var (
	_ source.SummaryReader = (*SQLiteRepository)(nil)
	_ source.Pinger        = (*SQLiteRepository)(nil)
)

type SQLiteRepository struct {
	db    *sql.DB
	query string
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath,
// applies migrations and prepares the latest-row query for table.
func NewSQLiteRepository(dbPath, table string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, query: latestQuery(table)}, nil
}

func latestQuery(table string) string {
	if table == "" {
		table = source.DefaultTable
	}
	return "SELECT * FROM " + quoteIdent(table) + " ORDER BY 1 DESC LIMIT 1"
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping implements source.Pinger
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Latest implements source.SummaryReader
func (r *SQLiteRepository) Latest(ctx context.Context) (core.RawRow, error) {
	rows, err := r.db.QueryContext(ctx, r.query)
	if err != nil {
		return nil, fmt.Errorf("query latest summary: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate latest summary: %w", err)
		}
		return nil, source.ErrNoRows
	}

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan latest summary: %w", err)
	}

	row := make(core.RawRow, len(cols))
	for i, name := range cols {
		v := vals[i]
		// TEXT columns may surface as []byte depending on declared type
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row[name] = v
	}
	return row, nil
}
