// pkg/model/dataset.go
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrColumnNotFound is returned when a required column is absent from a dataset
var ErrColumnNotFound = errors.New("column not found")

// Kind identifies the logical type of the values held by a column
type Kind int

const (
	KindString Kind = iota
	KindFloat
	KindInt
	KindBool
	KindDate
	KindTimeOfDay
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindTimeOfDay:
		return "time_of_day"
	default:
		return "unknown"
	}
}

// Dataset is an in-memory, column-major table of uniformly-schemed records.
// Cell values are typed (string, float64, int64, bool, time.Time) with nil
// as the explicit missing marker, so "absent" is never conflated with a
// zero or empty value.
type Dataset struct {
	cols  []*Column
	index map[string]int
}

// New creates an empty dataset
func New() *Dataset {
	return &Dataset{
		index: make(map[string]int),
	}
}

// FromRecords builds a dataset of string columns from row-oriented
// records, with nil as the missing marker. Raw input arrives row by
// row; transformations retype columns afterwards. Every record must
// match the header width.
func FromRecords(names []string, records [][]any) (*Dataset, error) {
	columns := make([][]any, len(names))
	for i := range columns {
		columns[i] = make([]any, len(records))
	}
	for r, record := range records {
		if len(record) != len(names) {
			return nil, fmt.Errorf("record %d has %d fields, header has %d",
				r, len(record), len(names))
		}
		for c, v := range record {
			columns[c][r] = v
		}
	}

	ds := New()
	for i, name := range names {
		if err := ds.AddColumn(NewColumn(name, KindString, columns[i])); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Columns returns the ordered column names
func (ds *Dataset) Columns() []string {
	names := make([]string, len(ds.cols))
	for i, col := range ds.cols {
		names[i] = col.Name
	}
	return names
}

// NumColumns returns the number of columns
func (ds *Dataset) NumColumns() int {
	return len(ds.cols)
}

// NumRows returns the number of records
func (ds *Dataset) NumRows() int {
	if len(ds.cols) == 0 {
		return 0
	}
	return ds.cols[0].Len()
}

// HasColumn reports whether the dataset contains the named column
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.index[name]
	return ok
}

// Column returns the named column, or ErrColumnNotFound
func (ds *Dataset) Column(name string) (*Column, error) {
	i, ok := ds.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return ds.cols[i], nil
}

// AddColumn appends a new column to the dataset.
// Fails if a column with the same name already exists or the row count
// does not match the existing columns.
func (ds *Dataset) AddColumn(col *Column) error {
	if col == nil {
		return errors.New("column cannot be nil")
	}
	if _, exists := ds.index[col.Name]; exists {
		return fmt.Errorf("column already exists: %s", col.Name)
	}
	if len(ds.cols) > 0 && col.Len() != ds.NumRows() {
		return fmt.Errorf("column %s has %d rows, dataset has %d",
			col.Name, col.Len(), ds.NumRows())
	}
	ds.index[col.Name] = len(ds.cols)
	ds.cols = append(ds.cols, col)
	return nil
}

// SetColumn replaces an existing column in place, keeping its position.
// The replacement must carry the same name and row count.
func (ds *Dataset) SetColumn(col *Column) error {
	if col == nil {
		return errors.New("column cannot be nil")
	}
	i, ok := ds.index[col.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, col.Name)
	}
	if col.Len() != ds.NumRows() {
		return fmt.Errorf("column %s has %d rows, dataset has %d",
			col.Name, col.Len(), ds.NumRows())
	}
	ds.cols[i] = col
	return nil
}

// AppendConstant adds a string column where every record carries the same
// literal value. Used to tag a dataset with its origin label before loading.
func (ds *Dataset) AppendConstant(name, value string) error {
	values := make([]any, ds.NumRows())
	for i := range values {
		values[i] = value
	}
	return ds.AddColumn(NewColumn(name, KindString, values))
}

// Clone returns a deep copy of the dataset. Transformations operate on a
// clone so the raw dataset is never mutated.
func (ds *Dataset) Clone() *Dataset {
	out := New()
	for _, col := range ds.cols {
		// AddColumn cannot fail here: names are unique and lengths match
		_ = out.AddColumn(col.Clone())
	}
	return out
}

// Row returns the values of record i in column order
func (ds *Dataset) Row(i int) []any {
	row := make([]any, len(ds.cols))
	for j, col := range ds.cols {
		row[j] = col.Value(i)
	}
	return row
}

// DropDuplicateRows removes records that are byte-identical across every
// column, keeping the first occurrence. Equality is defined on the values
// as they currently are; it is the caller's job to run this before any
// canonicalization that could mask or unmask duplicates.
func (ds *Dataset) DropDuplicateRows() *Dataset {
	n := ds.NumRows()
	seen := make(map[string]bool, n)
	keep := make([]int, 0, n)

	for i := 0; i < n; i++ {
		key := ds.rowKey(i)
		if seen[key] {
			continue
		}
		seen[key] = true
		keep = append(keep, i)
	}

	out := New()
	for _, col := range ds.cols {
		values := make([]any, len(keep))
		for j, i := range keep {
			values[j] = col.Value(i)
		}
		_ = out.AddColumn(NewColumn(col.Name, col.Kind, values))
	}
	return out
}

// rowKey builds a collision-safe key for exact-duplicate detection.
// Missing values are marked distinctly from empty strings, and every
// cell is prefixed with its dynamic type so values that print alike,
// such as false and "false", never collide.
func (ds *Dataset) rowKey(i int) string {
	var b strings.Builder
	for _, col := range ds.cols {
		v := col.Value(i)
		if v == nil {
			b.WriteString("\x00")
		} else {
			switch val := v.(type) {
			case string:
				b.WriteString("s:")
				b.WriteString(val)
			case time.Time:
				b.WriteString("t:")
				b.WriteString(val.Format(time.RFC3339Nano))
			default:
				fmt.Fprintf(&b, "%T:%v", val, val)
			}
		}
		b.WriteByte('\x1f')
	}
	return b.String()
}

// RequireColumns verifies that every named column is present.
// An incomplete schema is a structural error: the pipeline must not
// proceed with it.
func (ds *Dataset) RequireColumns(names ...string) error {
	for _, name := range names {
		if !ds.HasColumn(name) {
			return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}
	}
	return nil
}
