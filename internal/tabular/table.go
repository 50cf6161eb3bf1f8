package tabular

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSchema marks inputs whose header cannot satisfy a required role.
var ErrSchema = errors.New("schema error")

// Table is a header row plus data rows. Every row has len(Header) cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Fallback selects what Find does when no alias matches.
type Fallback int

const (
	// NoFallback fails with a schema error.
	NoFallback Fallback = iota
	// FirstColumn picks column zero.
	FirstColumn
	// FirstNumericColumn picks the first non-excluded column whose non-empty
	// cells all satisfy the role's Numeric predicate.
	FirstNumericColumn
)

// Role describes one column a consumer needs.
type Role struct {
	Name     string
	Aliases  []string
	Fallback Fallback
	Numeric  func(string) bool
}

// SchemaError reports a role that could not be located.
type SchemaError struct {
	Table  string
	Role   string
	Tried  []string
	Header []string
}

func (e *SchemaError) Error() string {
	table := e.Table
	if table == "" {
		table = "table"
	}
	if len(e.Tried) == 0 {
		return fmt.Sprintf("%s: no %s", table, e.Role)
	}
	return fmt.Sprintf("%s: no %s column (tried %s; header %s)",
		table, e.Role, strings.Join(e.Tried, ", "), strings.Join(e.Header, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of the named column, matched case-insensitively
// after trimming, or -1.
func (t *Table) Index(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range t.Header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}

// Column returns a copy of the values in column idx.
func (t *Table) Column(idx int) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values
}

// Find locates the column for role. Aliases are tried in order; excluded
// indices are never returned.
func (t *Table) Find(role Role, exclude ...int) (int, error) {
	skip := make(map[int]bool, len(exclude))
	for _, idx := range exclude {
		skip[idx] = true
	}
	for _, alias := range role.Aliases {
		if idx := t.Index(alias); idx >= 0 && !skip[idx] {
			return idx, nil
		}
	}
	switch role.Fallback {
	case FirstColumn:
		if len(t.Header) > 0 && !skip[0] {
			return 0, nil
		}
	case FirstNumericColumn:
		numeric := role.Numeric
		if numeric == nil {
			numeric = isFloat
		}
		for idx := range t.Header {
			if skip[idx] {
				continue
			}
			if t.columnIs(idx, numeric) {
				return idx, nil
			}
		}
	}
	return -1, &SchemaError{Table: t.Name, Role: role.Name, Tried: role.Aliases, Header: t.Header}
}

// AddColumn appends a column. values must have one entry per row.
func (t *Table) AddColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.Rows))
	}
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{Name: t.Name, Header: append([]string(nil), t.Header...)}
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

func (t *Table) columnIs(idx int, pred func(string) bool) bool {
	seen := false
	for _, row := range t.Rows {
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		if !pred(cell) {
			return false
		}
		seen = true
	}
	return seen
}

func isFloat(value string) bool {
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

// SetColumn replaces the named column's values, or appends the column when
// the header lacks it.
func (t *Table) SetColumn(name string, values []string) error {
	idx := t.Index(name)
	if idx < 0 {
		return t.AddColumn(name, values)
	}
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.Rows))
	}
	for i := range t.Rows {
		t.Rows[i][idx] = values[i]
	}
	return nil
}
