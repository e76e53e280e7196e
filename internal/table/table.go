// Package table converts generic query results into a typed, column-oriented
// table. SQLite stores values per cell, not per column, so a result column
// may mix storage kinds across rows; each column's final type is inferred
// from the union of kinds actually observed.
package table

import (
	"fmt"
	"time"
)

// Kind is the raw storage category of a single value as read from the
// engine.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// cell is one tagged value read from a result row. No cross-kind coercion
// happens at this level.
type cell struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    []byte
}

// cellOf classifies a driver value into its storage kind.
func cellOf(v interface{}) (cell, error) {
	switch value := v.(type) {
	case nil:
		return cell{kind: KindNull}, nil
	case int64:
		return cell{kind: KindInteger, i: value}, nil
	case float64:
		return cell{kind: KindFloat, f: value}, nil
	case string:
		return cell{kind: KindText, s: value}, nil
	case []byte:
		// Copy: database/sql may reuse the buffer on the next scan.
		b := make([]byte, len(value))
		copy(b, value)
		return cell{kind: KindBlob, b: b}, nil
	case bool:
		// SQLite has no boolean storage class; drivers that surface one
		// are reporting an integer column.
		if value {
			return cell{kind: KindInteger, i: 1}, nil
		}
		return cell{kind: KindInteger, i: 0}, nil
	case time.Time:
		// Drivers may decode declared datetime columns eagerly. The
		// underlying storage is text; render it the way SQLite would.
		return cell{kind: KindText, s: value.UTC().Format("2006-01-02 15:04:05")}, nil
	default:
		return cell{}, fmt.Errorf("unsupported cell value of type %T", v)
	}
}

// Column is a named column whose cells have been unified to a single Kind.
// Exactly one backing slice is populated; valid marks per-row nullability.
type Column struct {
	Name string
	Kind Kind

	valid  []bool
	ints   []int64
	floats []float64
	texts  []string
	blobs  [][]byte
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return len(c.valid)
}

// IsNull reports whether the cell at row is absent.
func (c *Column) IsNull(row int) bool {
	return !c.valid[row]
}

// Int returns the integer value at row; ok is false for nulls or non-integer
// columns.
func (c *Column) Int(row int) (int64, bool) {
	if c.Kind != KindInteger || !c.valid[row] {
		return 0, false
	}
	return c.ints[row], true
}

// Float returns the floating-point value at row.
func (c *Column) Float(row int) (float64, bool) {
	if c.Kind != KindFloat || !c.valid[row] {
		return 0, false
	}
	return c.floats[row], true
}

// Text returns the text value at row.
func (c *Column) Text(row int) (string, bool) {
	if c.Kind != KindText || !c.valid[row] {
		return "", false
	}
	return c.texts[row], true
}

// Blob returns the binary value at row.
func (c *Column) Blob(row int) ([]byte, bool) {
	if c.Kind != KindBlob || !c.valid[row] {
		return nil, false
	}
	return c.blobs[row], true
}

// Value returns the cell at row as an untyped value (nil for nulls), for
// generic consumers such as JSON rendering.
func (c *Column) Value(row int) interface{} {
	if !c.valid[row] {
		return nil
	}
	switch c.Kind {
	case KindInteger:
		return c.ints[row]
	case KindFloat:
		return c.floats[row]
	case KindText:
		return c.texts[row]
	case KindBlob:
		return c.blobs[row]
	default:
		return nil
	}
}

// Table is the final tabular result: ordered named columns with row-aligned
// values. It is not mutated after construction.
type Table struct {
	columns []Column
	height  int
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.columns)
}

// Height returns the number of rows.
func (t *Table) Height() int {
	return t.height
}

// Columns returns the columns in result order.
func (t *Table) Columns() []Column {
	return t.columns
}

// ColumnNames returns the column names in result order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i := range t.columns {
		names[i] = t.columns[i].Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.columns {
		if t.columns[i].Name == name {
			return &t.columns[i], true
		}
	}
	return nil, false
}

// Rows renders the table row-major with untyped values, preserving row and
// column order.
func (t *Table) Rows() [][]interface{} {
	rows := make([][]interface{}, t.height)
	for r := 0; r < t.height; r++ {
		row := make([]interface{}, len(t.columns))
		for c := range t.columns {
			row[c] = t.columns[c].Value(r)
		}
		rows[r] = row
	}
	return rows
}
