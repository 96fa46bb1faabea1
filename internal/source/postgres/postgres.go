// Package postgres reads the latest summary row from a PostgreSQL reporting table.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairdash/internal/core"
	"fairdash/internal/source"
)

var (
	_ source.SummaryReader = (*DB)(nil)
	_ source.Pinger        = (*DB)(nil)
)

// DB is a connection pool bound to one statistics table.
type DB struct {
	*pgxpool.Pool
	query string
}

// NewConnection opens the pool and checks it with a ping.
func NewConnection(ctx context.Context, databaseURL, table string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool, query: LatestQuery(table)}, nil
}

// LatestQuery builds the "most recent row" query for table. A dotted name is
// treated as schema.table; each part is quoted.
func LatestQuery(table string) string {
	if table == "" {
		table = source.DefaultTable
	}
	ident := pgx.Identifier(strings.Split(table, "."))
	return "SELECT * FROM " + ident.Sanitize() + " ORDER BY 1 DESC LIMIT 1"
}

// Latest returns the most recently inserted row with driver values converted
// to plain Go values.
func (db *DB) Latest(ctx context.Context) (core.RawRow, error) {
	rows, err := db.Query(ctx, db.query)
	if err != nil {
		return nil, fmt.Errorf("query latest summary: %w", err)
	}

	m, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, source.ErrNoRows
		}
		return nil, fmt.Errorf("scan latest summary: %w", err)
	}

	row := make(core.RawRow, len(m))
	for k, v := range m {
		row[k] = plainValue(v)
	}
	return row, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.Pool.Close()
}

// plainValue unwraps pgtype values that Normalize does not understand.
// NUMERIC columns keep their exact decimal text.
func plainValue(v any) any {
	switch n := v.(type) {
	case pgtype.Numeric:
		if !n.Valid {
			return nil
		}
		b, err := n.MarshalJSON()
		if err != nil {
			return nil
		}
		return json.Number(strings.Trim(string(b), `"`))
	case pgtype.Int8:
		if !n.Valid {
			return nil
		}
		return n.Int64
	case pgtype.Float8:
		if !n.Valid {
			return nil
		}
		return n.Float64
	}
	return v
}
