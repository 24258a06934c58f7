// Package table holds the per-run sample tables: RunTable with the raw hex
// cells produced by Assemble and Normalized with the decoded metrics.
package table

import (
	"fmt"
	"sort"

	"github.com/roffe/memslog/pkg/frame"
	"github.com/roffe/memslog/pkg/rosco"
)

// ZeroSentinel fills cells of a frame that was not observed at an index.
const ZeroSentinel = "00"

// RunTable is row-per-sample, column-per-field. Cells are hex strings.
type RunTable struct {
	version rosco.SchemaVersion
	columns []string
	index   []int
	cells   map[string][]string
}

// New returns an empty table with the given row index.
func New(v rosco.SchemaVersion, index []int) *RunTable {
	idx := make([]int, len(index))
	copy(idx, index)
	return &RunTable{
		version: v,
		index:   idx,
		cells:   make(map[string][]string),
	}
}

// Assemble outer joins the primary and secondary frame streams on their
// sequence index. Every row gets the full union column set of both frame
// schemas, duplicate frames at one index overwrite per column.
func Assemble(v rosco.SchemaVersion, primary, secondary []*frame.RawFrame) (*RunTable, error) {
	t := &RunTable{
		version: v,
		cells:   make(map[string][]string),
	}
	seen := make(map[string]bool)
	addColumn := func(name string) {
		if !seen[name] {
			seen[name] = true
			t.columns = append(t.columns, name)
		}
	}
	for _, code := range []byte{rosco.Primary, rosco.Secondary} {
		fields, err := rosco.FieldsFor(code, v)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			addColumn(f)
		}
		if code == rosco.Primary {
			addColumn(rosco.FieldTimestamp)
		}
	}

	rows := make(map[int]map[string]string)
	for _, stream := range [][]*frame.RawFrame{primary, secondary} {
		for _, f := range stream {
			row, ok := rows[f.Index()]
			if !ok {
				row = make(map[string]string, len(t.columns))
				rows[f.Index()] = row
			}
			for i, name := range f.Fields() {
				addColumn(name)
				row[name] = f.Tokens()[i]
			}
		}
	}

	t.index = make([]int, 0, len(rows))
	for idx := range rows {
		t.index = append(t.index, idx)
	}
	sort.Ints(t.index)

	for _, col := range t.columns {
		vals := make([]string, len(t.index))
		for r, idx := range t.index {
			if cell, ok := rows[idx][col]; ok {
				vals[r] = cell
			} else {
				vals[r] = ZeroSentinel
			}
		}
		t.cells[col] = vals
	}
	ts := t.cells[rosco.FieldTimestamp]
	for r, idx := range t.index {
		ts[r] = fmt.Sprintf("%02x", idx)
	}
	return t, nil
}

func (t *RunTable) Version() rosco.SchemaVersion {
	return t.version
}

func (t *RunTable) Len() int {
	return len(t.index)
}

func (t *RunTable) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Index returns the sequence index of every row.
func (t *RunTable) Index() []int {
	out := make([]int, len(t.index))
	copy(out, t.index)
	return out
}

func (t *RunTable) Has(col string) bool {
	_, ok := t.cells[col]
	return ok
}

func (t *RunTable) Column(col string) ([]string, bool) {
	v, ok := t.cells[col]
	return v, ok
}

func (t *RunTable) Cell(row int, col string) (string, bool) {
	v, ok := t.cells[col]
	if !ok || row < 0 || row >= len(v) {
		return "", false
	}
	return v[row], true
}

// SetColumn replaces or appends a column, vals must have one entry per row.
func (t *RunTable) SetColumn(col string, vals []string) error {
	if len(vals) != len(t.index) {
		return fmt.Errorf("column %q has %d rows, table has %d", col, len(vals), len(t.index))
	}
	if _, ok := t.cells[col]; !ok {
		t.columns = append(t.columns, col)
	}
	t.cells[col] = vals
	return nil
}

func (t *RunTable) DropColumn(col string) {
	if _, ok := t.cells[col]; !ok {
		return
	}
	delete(t.cells, col)
	for i, c := range t.columns {
		if c == col {
			t.columns = append(t.columns[:i:i], t.columns[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy.
func (t *RunTable) Clone() *RunTable {
	c := &RunTable{
		version: t.version,
		columns: t.Columns(),
		index:   t.Index(),
		cells:   make(map[string][]string, len(t.cells)),
	}
	for k, v := range t.cells {
		vals := make([]string, len(v))
		copy(vals, v)
		c.cells[k] = vals
	}
	return c
}
