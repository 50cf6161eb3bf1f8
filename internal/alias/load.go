package alias

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

// VariantSeparator joins several variants of one team in a single cell.
const VariantSeparator = "|"

var canonicalRole = tabular.Role{
	Name:    "standard_name",
	Aliases: []string{"standard_name", "canonical", "team"},
}

// Load reads the alias table at path. A missing file yields an empty table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open alias table: %w", err)
	}
	defer f.Close()
	return Parse(f, filepath.Base(path))
}

// Parse reads the persisted CSV form. Rows whose variant is already claimed
// by a different team are kept out of the table and reported by Conflicts.
func Parse(r io.Reader, name string) (*Table, error) {
	raw, err := tabular.Read(r, name)
	if err != nil {
		return nil, fmt.Errorf("parse alias table: %w", err)
	}
	canonIdx, err := raw.Find(canonicalRole)
	if err != nil {
		return nil, fmt.Errorf("parse alias table: %w", err)
	}

	table := New()
	type column struct {
		idx    int
		source string
	}
	var columns []column
	for idx, header := range raw.Header {
		if idx == canonIdx {
			continue
		}
		source := SourceTag(header)
		if source == "" {
			continue
		}
		table.AddSource(source)
		columns = append(columns, column{idx: idx, source: source})
	}

	for _, row := range raw.Rows {
		canonical := table.AddCanonical(row[canonIdx])
		if canonical == "" {
			continue
		}
		for _, col := range columns {
			for _, variant := range splitVariants(row[col.idx]) {
				err := table.Add(Entry{Canonical: canonical, Source: col.source, Variant: variant})
				var collision *CollisionError
				if errors.As(err, &collision) {
					table.conflicts = append(table.conflicts, *collision)
					continue
				}
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return table, nil
}

// SourceTag maps an alias-table header such as "KenPom_Name" to its source
// tag "kenpom".
func SourceTag(header string) string {
	tag := strings.ToLower(strings.TrimSpace(header))
	tag = strings.TrimSuffix(tag, "_name")
	return strings.TrimSpace(tag)
}

func splitVariants(cell string) []string {
	parts := strings.Split(cell, VariantSeparator)
	out := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
