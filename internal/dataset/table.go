// Package dataset holds the flat extraction table: one row per
// (architecture, dataset, metric) key, written to and loaded from CSV.
//
// The table is the only durable artifact of an extraction pass. Rows are
// appended once and never mutated; analysis reads them as an immutable
// projection.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// ErrDuplicateKey is returned by Append when a (arch, dataset, metric) key
// is already present.
var ErrDuplicateKey = errors.New("duplicate table key")

// Header is the fixed CSV header, in column order.
var Header = []string{"arch_index", "arch_str", "dataset", "metric", "value"}

// Row is one extracted measurement.
type Row struct {
	ArchIndex int
	ArchStr   string
	Dataset   string
	Metric    string
	Value     float64
}

// Key identifies a row. No two rows of a table share a key.
type Key struct {
	ArchIndex int
	Dataset   string
	Metric    string
}

// Key returns the row's identifying key.
func (r Row) Key() Key {
	return Key{ArchIndex: r.ArchIndex, Dataset: r.Dataset, Metric: r.Metric}
}

// Table is an append-only collection of rows with unique keys.
type Table struct {
	rows []Row
	keys map[Key]struct{}
}

// New returns an empty table.
func New() *Table {
	return &Table{keys: make(map[Key]struct{})}
}

// Append adds a row, rejecting duplicate keys.
func (t *Table) Append(r Row) error {
	k := r.Key()
	if _, ok := t.keys[k]; ok {
		return fmt.Errorf("%w: arch %d dataset %s metric %s", ErrDuplicateKey, k.ArchIndex, k.Dataset, k.Metric)
	}
	t.keys[k] = struct{}{}
	t.rows = append(t.rows, r)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the rows in append order. Callers must not mutate the slice.
func (t *Table) Rows() []Row { return t.rows }

// Datasets returns the distinct dataset names, sorted.
func (t *Table) Datasets() []string {
	return t.distinct(func(r Row) string { return r.Dataset })
}

// Metrics returns the distinct metric names, sorted.
func (t *Table) Metrics() []string {
	return t.distinct(func(r Row) string { return r.Metric })
}

func (t *Table) distinct(field func(Row) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range t.rows {
		if v := field(r); !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Fitness pivots the table into parallel (fitness, genotype) slices for one
// (dataset, metric) pair, ordered by architecture index. The slice must be
// dense: indices 0..n-1 with no gaps.
func (t *Table) Fitness(ds, metric string) (fits []float64, genotypes []string, err error) {
	byIndex := map[int]Row{}
	maxIndex := -1
	for _, r := range t.rows {
		if r.Dataset != ds || r.Metric != metric {
			continue
		}
		byIndex[r.ArchIndex] = r
		if r.ArchIndex > maxIndex {
			maxIndex = r.ArchIndex
		}
	}
	if len(byIndex) == 0 {
		return nil, nil, fmt.Errorf("dataset: no rows for dataset %q metric %q", ds, metric)
	}
	fits = make([]float64, maxIndex+1)
	genotypes = make([]string, maxIndex+1)
	for i := 0; i <= maxIndex; i++ {
		r, ok := byIndex[i]
		if !ok {
			return nil, nil, fmt.Errorf("dataset: missing architecture %d for dataset %q metric %q", i, ds, metric)
		}
		fits[i] = r.Value
		genotypes[i] = r.ArchStr
	}
	return fits, genotypes, nil
}

// WriteCSV writes the table with its header to w.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("dataset: write header: %w", err)
	}
	for _, r := range t.rows {
		rec := []string{
			strconv.Itoa(r.ArchIndex),
			r.ArchStr,
			r.Dataset,
			r.Metric,
			strconv.FormatFloat(r.Value, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("dataset: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to path, replacing any previous file.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", path, err)
	}
	if err := t.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV parses a table from r. A header-only stream yields an empty
// table. Duplicate keys and malformed fields are errors.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset: empty input, expected header %v", Header)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, fmt.Errorf("dataset: header column %d is %q, want %q", i, header[i], col)
		}
	}

	t := New()
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		idx, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: arch_index: %w", line, err)
		}
		val, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: value: %w", line, err)
		}
		row := Row{ArchIndex: idx, ArchStr: rec[1], Dataset: rec[2], Metric: rec[3], Value: val}
		if err := t.Append(row); err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
	}
}

// ReadFile loads a table from a CSV file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}
