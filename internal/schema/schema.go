// Package schema provides catalog-introspection column resolvers for
// Postgres, MySQL, and SQLite. Each resolver answers the question
// inject.ColumnResolver and convert.ColumnResolver both ask -- "what
// columns does this table expose" -- by querying the engine's catalog
// over a caller-supplied connection. Nothing here executes a built
// query; it only ever reads catalog metadata.
package schema

import (
	"database/sql"
	"fmt"
)

// Resolver matches inject.ColumnResolver and convert.ColumnResolver's
// signature exactly (a type alias, not a new defined type), so a value
// returned here plugs directly into inject.WithColumnResolver or
// convert.ToSelectReturning without a wrapper or an import of either
// package from here.
type Resolver = func(table string) ([]string, error)

// NewPostgresResolver resolves columns via information_schema, scoped to
// the public schema.
func NewPostgresResolver(db *sql.DB) Resolver {
	return func(table string) ([]string, error) {
		return queryColumns(db, table,
			"SELECT column_name FROM information_schema.columns "+
				"WHERE table_schema = 'public' AND table_name = $1 "+
				"ORDER BY ordinal_position",
		)
	}
}

// NewMySQLResolver resolves columns via information_schema, scoped to the
// connection's current database.
func NewMySQLResolver(db *sql.DB) Resolver {
	return func(table string) ([]string, error) {
		return queryColumns(db, table,
			"SELECT column_name FROM information_schema.columns "+
				"WHERE table_schema = DATABASE() AND table_name = ? "+
				"ORDER BY ordinal_position",
		)
	}
}

// NewSQLiteResolver resolves columns via the pragma_table_info table-valued
// function.
func NewSQLiteResolver(db *sql.DB) Resolver {
	return func(table string) ([]string, error) {
		return queryColumns(db, table, "SELECT name FROM pragma_table_info(?)")
	}
}

func queryColumns(db *sql.DB, table, query string) ([]string, error) {
	rows, err := db.Query(query, table)
	if err != nil {
		return nil, fmt.Errorf("schema: query columns for %q: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("schema: scan column for %q: %w", table, err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schema: read columns for %q: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("schema: table %q not found or has no columns", table)
	}
	return cols, nil
}

// ListTables returns every user table the given engine's catalog reports.
func ListTables(db *sql.DB, engine string) ([]string, error) {
	var query string
	switch engine {
	case "postgres":
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name"
	case "mysql":
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name"
	case "sqlite":
		query = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	default:
		return nil, fmt.Errorf("schema: unsupported engine %q", engine)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("schema: list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("schema: scan table name: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// NewResolver dispatches to the engine-specific constructor by name, so
// callers holding just an engine string don't need their own switch.
func NewResolver(engine string, db *sql.DB) (Resolver, error) {
	switch engine {
	case "postgres":
		return NewPostgresResolver(db), nil
	case "mysql":
		return NewMySQLResolver(db), nil
	case "sqlite":
		return NewSQLiteResolver(db), nil
	default:
		return nil, fmt.Errorf("schema: unsupported engine %q", engine)
	}
}
