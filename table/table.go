// Package table holds the ordered, column-unioned result set produced by
// both scrape phases, plus its CSV serialization.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
)

// Table is an ordered sequence of records whose columns are the union of
// keys observed across all records, in first-seen order. A key missing from
// a record's map is the explicit "absent" marker; the CSV writer emits an
// empty cell for it.
type Table struct {
	columns []string
	seen    map[string]bool
	rows    []map[string]string
}

// New creates an empty Table. Initial columns, if given, fix the leading
// column order even before any record mentions them.
func New(columns ...string) *Table {
	t := &Table{seen: make(map[string]bool, len(columns))}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

func (t *Table) addColumn(name string) {
	if !t.seen[name] {
		t.seen[name] = true
		t.columns = append(t.columns, name)
	}
}

// Append adds one record. Keys not seen before extend the column union;
// the record itself is stored as-is, so callers must not mutate it after
// appending.
func (t *Table) Append(record map[string]string) {
	for _, k := range sortedNewKeys(t, record) {
		t.addColumn(k)
	}
	t.rows = append(t.rows, record)
}

// sortedNewKeys returns the record's not-yet-seen keys in a deterministic
// order so repeated runs produce identical column layouts.
func sortedNewKeys(t *Table, record map[string]string) []string {
	var fresh []string
	for k := range record {
		if !t.seen[k] {
			fresh = append(fresh, k)
		}
	}
	slices.Sort(fresh)
	return fresh
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns the column union in first-seen order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Rows returns the records in insertion order. The returned slice and maps
// are the table's own storage; treat them as read-only.
func (t *Table) Rows() []map[string]string {
	return t.rows
}

// Write serializes the table as CSV: one header row with the column union,
// then one line per record with "" for absent keys.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	line := make([]string, len(t.columns))
	for _, row := range t.rows {
		for i, col := range t.columns {
			line[i] = row[col] // "" for absent
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table as CSV to path, creating or truncating it.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses a CSV stream produced by Write (or any header-first CSV) back
// into a Table. Every cell, including empty ones, maps under its header;
// round-tripping does not need to distinguish absent from empty because the
// consuming code treats an empty link cell as "no link".
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := New(header...)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", t.Len()+1, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		t.Append(row)
	}
	return t, nil
}

// ReadFile reads a CSV file into a Table.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
