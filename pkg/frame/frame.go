// Package frame holds the tabular result types produced by query helpers:
// a fully materialized Frame and a lazy Chunks iterator over row batches.
package frame

import (
	"database/sql"
	"fmt"
)

// Frame is an ordered tabular result: column names in query order, rows in
// cursor order. Cell values are whatever the driver produced, except that
// []byte is normalized to string so frames survive JSON encoding.
type Frame struct {
	Columns []string
	Rows    [][]interface{}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Column returns the index of the named column, or -1 when absent.
func (f *Frame) Column(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep-enough copy: the column and row slices are fresh, so
// callers may append or reorder without touching the original. Cell values
// are shared; they are treated as immutable everywhere in this module.
func (f *Frame) Clone() *Frame {
	c := &Frame{
		Columns: append([]string(nil), f.Columns...),
		Rows:    make([][]interface{}, len(f.Rows)),
	}
	for i, row := range f.Rows {
		c.Rows[i] = append([]interface{}(nil), row...)
	}
	return c
}

// Float reads a numeric cell as float64, accepting the integer and decimal
// shapes SQL Server drivers hand back.
func (f *Frame) Float(row int, col string) (float64, error) {
	i := f.Column(col)
	if i < 0 {
		return 0, fmt.Errorf("no column %q", col)
	}
	if row < 0 || row >= len(f.Rows) {
		return 0, fmt.Errorf("row %d out of range", row)
	}
	switch v := f.Rows[row][i].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("column %q is %T, not numeric", col, v)
	}
}

// Read drains rows into a Frame. The caller still owns rows and must close
// them; Read itself does not.
func Read(rows *sql.Rows) (*Frame, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	data, err := scanBatch(rows, len(cols), 0)
	if err != nil {
		return nil, err
	}
	return &Frame{Columns: cols, Rows: data}, nil
}

// scanBatch scans up to max rows (all of them when max <= 0).
func scanBatch(rows *sql.Rows, ncols, max int) ([][]interface{}, error) {
	var out [][]interface{}
	for (max <= 0 || len(out) < max) && rows.Next() {
		ptrs := make([]interface{}, ncols)
		for i := range ptrs {
			ptrs[i] = new(interface{})
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]interface{}, ncols)
		for i, p := range ptrs {
			row[i] = normalize(*(p.(*interface{})))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func normalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
