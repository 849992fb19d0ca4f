// Package preview executes rewritten provider-native queries against a
// SQLite database so count and sort rewrites can be checked against a real
// engine. It is a read-only tool: the connection refuses writes.
package preview

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB is a read-only handle on a SQLite database.
type DB struct {
	db *sql.DB
}

// Open opens the SQLite database at path for querying.
//
// The connection is configured with:
//   - query_only so rewritten text cannot mutate the database
//   - a 5-second busy timeout for lock contention
//   - a single connection (SQLite serializes anyway)
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA query_only = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// ResultSet is a fully materialized query result. Every value is rendered
// as text; NULL renders as the empty string.
type ResultSet struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Query runs the given query text and materializes all rows.
func (d *DB) Query(ctx context.Context, queryText string) (*ResultSet, error) {
	rows, err := d.db.QueryContext(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	rs := &ResultSet{Columns: cols}
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		scan := make([]any, len(cols))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = v.String
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rs, nil
}
