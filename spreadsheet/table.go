// Package spreadsheet reads tabular uploads (CSV, XLSX, Google Sheets) into a
// header-indexed Table.
package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptySheet       = errors.New("sheet is empty")
	ErrUnsupportedFile  = errors.New("unsupported file type, expected .csv or .xlsx")
	ErrSheetNotFound    = errors.New("sheet not found")
	ErrSheetsNotEnabled = errors.New("google sheets import is not configured")
)

// Table is a sheet whose first row is the header.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
	index  map[string]int
}

func NewTable(name string, values [][]string) (*Table, error) {
	if len(values) == 0 {
		return nil, ErrEmptySheet
	}
	t := &Table{Name: name, index: make(map[string]int)}
	for i, h := range values[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Header = append(t.Header, h)
		if _, dup := t.index[h]; !dup && h != "" {
			t.index[h] = i
		}
	}
	t.Rows = values[1:]
	return t, nil
}

// Rename maps alternate header names onto canonical ones. A column that already
// exists under the canonical name is kept.
func (t *Table) Rename(aliases map[string]string) {
	for from, to := range aliases {
		i, ok := t.index[from]
		if !ok {
			continue
		}
		if _, exists := t.index[to]; exists {
			continue
		}
		delete(t.index, from)
		t.index[to] = i
		t.Header[i] = to
	}
}

// Missing returns the columns that are not in the header.
func (t *Table) Missing(columns ...string) []string {
	var missing []string
	for _, c := range columns {
		if _, ok := t.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Get returns the trimmed cell of a row under column, or "".
func (t *Table) Get(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *Table) RequireColumns(columns ...string) error {
	if missing := t.Missing(columns...); len(missing) > 0 {
		return fmt.Errorf("missing required columns in '%s': %s", t.Name, strings.Join(missing, ", "))
	}
	return nil
}
