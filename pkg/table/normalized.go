package table

import (
	"fmt"
	"strings"

	"github.com/roffe/memslog/pkg/rosco"
	"github.com/roffe/memslog/pkg/stats"
)

// Normalized holds decoded metrics in physical units, one float64 column
// per field. Boolean fault columns are 0 or 1.
type Normalized struct {
	version rosco.SchemaVersion
	columns []string
	index   []int
	values  map[string][]float64
}

func NewNormalized(v rosco.SchemaVersion, index []int) *Normalized {
	idx := make([]int, len(index))
	copy(idx, index)
	return &Normalized{
		version: v,
		index:   idx,
		values:  make(map[string][]float64),
	}
}

func (n *Normalized) Version() rosco.SchemaVersion {
	return n.version
}

func (n *Normalized) Len() int {
	return len(n.index)
}

func (n *Normalized) Columns() []string {
	out := make([]string, len(n.columns))
	copy(out, n.columns)
	return out
}

func (n *Normalized) Index() []int {
	out := make([]int, len(n.index))
	copy(out, n.index)
	return out
}

func (n *Normalized) Has(col string) bool {
	_, ok := n.values[col]
	return ok
}

// Column returns the values of a column, the slice must not be modified.
func (n *Normalized) Column(col string) ([]float64, bool) {
	v, ok := n.values[col]
	return v, ok
}

// Set replaces or appends a column.
func (n *Normalized) Set(col string, vals []float64) error {
	if len(vals) != len(n.index) {
		return fmt.Errorf("column %q has %d rows, table has %d", col, len(vals), len(n.index))
	}
	if _, ok := n.values[col]; !ok {
		n.columns = append(n.columns, col)
	}
	n.values[col] = vals
	return nil
}

// Row returns all values of row i keyed by column.
func (n *Normalized) Row(i int) map[string]float64 {
	out := make(map[string]float64, len(n.columns))
	for _, c := range n.columns {
		out[c] = n.values[c][i]
	}
	return out
}

// Filter returns a new table with the rows where keep returns true.
func (n *Normalized) Filter(keep func(row int) bool) *Normalized {
	var rows []int
	for i := range n.index {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	out := &Normalized{
		version: n.version,
		columns: n.Columns(),
		index:   make([]int, len(rows)),
		values:  make(map[string][]float64, len(n.values)),
	}
	for j, i := range rows {
		out.index[j] = n.index[i]
	}
	for c, v := range n.values {
		vals := make([]float64, len(rows))
		for j, i := range rows {
			vals[j] = v[i]
		}
		out.values[c] = vals
	}
	return out
}

// IsFaulty reports if a column ever went above zero.
func (n *Normalized) IsFaulty(col string) (bool, error) {
	v, ok := n.values[col]
	if !ok {
		return false, fmt.Errorf("no column %q", col)
	}
	mx, err := stats.Max(v)
	if err != nil {
		return false, err
	}
	return mx > 0, nil
}

type Stat struct {
	Name   string
	Min    float64
	Median float64
	Max    float64
}

func (s Stat) String() string {
	return fmt.Sprintf("%-45s%10.2f%10.2f%10.2f", s.Name, s.Min, s.Median, s.Max)
}

// Stats returns min, median and max of every measured column. Frame sizes,
// the timestamp and reserved byte slots are left out.
func (n *Normalized) Stats() ([]Stat, error) {
	var out []Stat
	for _, c := range n.columns {
		if c == rosco.FieldTimestamp || strings.HasPrefix(c, "dataframe_size") || rosco.IsPlaceholder(c) {
			continue
		}
		v := n.values[c]
		mn, err := stats.Min(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		md, _ := stats.Median(v)
		mx, _ := stats.Max(v)
		out = append(out, Stat{Name: c, Min: mn, Median: md, Max: mx})
	}
	return out, nil
}
