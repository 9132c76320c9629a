// Package dataset holds the in-memory tabular snapshot of a workbook and the
// validated schema every later pipeline stage resolves its fields through.
// Raw string label lookups outside this package are a bug: a renamed or
// corrupted column must fail loudly here, not no-op silently downstream.
package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Table is a raw tabular snapshot: one label row plus data rows, all cells
// as strings exactly as the workbook delivered them.
type Table struct {
	Labels []string
	Rows   [][]string
}

// Normalization records what label repair did, for the diagnostic report.
type Normalization struct {
	// Mapping holds old label -> repaired label for every input label.
	Mapping map[string]string
	// Altered counts labels that changed during repair.
	Altered int
}

// SchemaConflictError is fatal: two distinct raw labels collapsed into the
// same repaired label. Dropping one silently would lose a column.
type SchemaConflictError struct {
	Normalized string
	Labels     []string
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("schema conflict: labels %q collide on %q after normalization",
		e.Labels, e.Normalized)
}

// trailingPunct covers the label artifacts observed in the source export:
// a stray trailing period, comma, colon or semicolon left by the exporter.
const trailingPunct = ".,:;"

// NormalizeLabel strips surrounding whitespace and trailing punctuation from
// a single column label. Interior punctuation is meaningful (the export uses
// dotted names like "System_id.Auftrag") and is kept.
func NormalizeLabel(label string) string {
	s := strings.TrimSpace(label)
	s = strings.TrimRight(s, trailingPunct)
	return strings.TrimSpace(s)
}

// NormalizeLabels repairs a full label row. It fails with a
// SchemaConflictError if two distinct raw labels repair to the same name.
func NormalizeLabels(labels []string) (Normalization, error) {
	norm := Normalization{Mapping: make(map[string]string, len(labels))}
	seen := make(map[string]string, len(labels))

	for _, label := range labels {
		repaired := NormalizeLabel(label)
		if prev, ok := seen[repaired]; ok && prev != label {
			collided := []string{prev, label}
			sort.Strings(collided)
			return Normalization{}, &SchemaConflictError{
				Normalized: repaired,
				Labels:     collided,
			}
		}
		seen[repaired] = label
		norm.Mapping[label] = repaired
		if repaired != label {
			norm.Altered++
		}
	}

	return norm, nil
}

// Schema is the validated column index of a table. It is built once, after
// label repair, and consulted by name everywhere else.
type Schema struct {
	index map[string]int
	norm  Normalization
}

// NewSchema repairs the table's labels and indexes them by repaired name.
func NewSchema(t Table) (*Schema, error) {
	norm, err := NormalizeLabels(t.Labels)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(t.Labels))
	for i, label := range t.Labels {
		index[norm.Mapping[label]] = i
	}

	return &Schema{index: index, norm: norm}, nil
}

// Normalization returns the label-repair diagnostics of this schema.
func (s *Schema) Normalization() Normalization {
	return s.norm
}

// Column returns the index of the named column.
func (s *Schema) Column(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Require returns the index of the named column or an error naming it,
// suitable for a fatal load failure.
func (s *Schema) Require(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("required column %q not found", name)
	}
	return i, nil
}

// Value reads the named column from a row, tolerating ragged short rows the
// way spreadsheet exports produce them.
func (s *Schema) Value(row []string, name string) string {
	i, ok := s.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
