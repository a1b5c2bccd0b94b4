package table

import (
	"fmt"
	"sort"
	"strings"
)

// Table is a view of one extension's columns.
type Table struct {
	file *File
	hdu  *HDU
}

// Name returns the table's EXTNAME.
func (t *Table) Name() string {
	return t.hdu.ExtName
}

// Rows returns the length of the table's longest column.
func (t *Table) Rows() int {
	n := 0
	for _, col := range t.hdu.Columns {
		if len(col) > n {
			n = len(col)
		}
	}
	return n
}

// HasColumn reports whether a column exists (case-insensitive).
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columnKey(name)
	return ok
}

// Column returns a copy of a column's values.
func (t *Table) Column(name string) ([]float64, error) {
	key, ok := t.columnKey(name)
	if !ok {
		return nil, fmt.Errorf("table %s has no column %s", t.hdu.ExtName, name)
	}
	col := t.hdu.Columns[key]
	out := make([]float64, len(col))
	copy(out, col)
	return out, nil
}

// SetColumns overwrites existing columns in place. Either every named
// column is updated or, when any is absent, none is and the error wraps
// ErrMissingOutputColumns.
func (t *Table) SetColumns(values map[string][]float64) error {
	keys := make(map[string]string, len(values))
	var missing []string
	for name, v := range values {
		key, ok := t.columnKey(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		if got := len(t.hdu.Columns[key]); got != len(v) {
			return fmt.Errorf("column %s has %d rows, got %d values", name, got, len(v))
		}
		keys[name] = key
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrMissingOutputColumns, strings.Join(missing, ", "))
	}

	for name, v := range values {
		dst := t.hdu.Columns[keys[name]]
		copy(dst, v)
	}
	t.file.dirty = true
	return nil
}

func (t *Table) columnKey(name string) (string, bool) {
	if _, ok := t.hdu.Columns[name]; ok {
		return name, true
	}
	for k := range t.hdu.Columns {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}
