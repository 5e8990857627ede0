// Package backup snapshots the PostgreSQL database into a SQLite file and
// keeps a bounded history of snapshots in object storage.
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Exporter copies tables from the primary database into a SQLite file.
type Exporter struct {
	source *sql.DB
	tables []string
}

func NewExporter(source *sql.DB, tables []string) *Exporter {
	return &Exporter{source: source, tables: tables}
}

// Export writes every table into a new SQLite database at path. Columns are
// created untyped and values are stored with SQLite's dynamic typing.
func (e *Exporter) Export(ctx context.Context, path string) (int, error) {
	dst, err := sql.Open("sqlite3", path)
	if err != nil {
		return 0, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer dst.Close()

	total := 0
	for _, table := range e.tables {
		n, err := e.copyTable(ctx, dst, table)
		if err != nil {
			return total, fmt.Errorf("export table %s: %w", table, err)
		}
		total += n
	}
	return total, nil
}

func (e *Exporter) copyTable(ctx context.Context, dst *sql.DB, table string) (int, error) {
	rows, err := e.source.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		placeholders[i] = "?"
	}

	tx, err := dst.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	createQuery := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(quoted, ", "))
	if _, err := tx.ExecContext(ctx, createQuery); err != nil {
		return 0, err
	}

	insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		return 0, err
	}
	defer insert.Close()

	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return count, err
		}
		args := make([]interface{}, len(values))
		for i, v := range values {
			args[i] = sqliteValue(v)
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return count, err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, err
	}

	return count, tx.Commit()
}

func sqliteValue(v interface{}) interface{} {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
