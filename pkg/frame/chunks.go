package frame

import (
	"database/sql"
	"fmt"
)

// Chunks streams a query result as fixed-size frames. It is finite and not
// restartable: once Next returns false the underlying cursor is spent.
// Every chunk has exactly the requested size except possibly the last.
//
// Usage mirrors sql.Rows:
//
//	for chunks.Next() {
//	    f := chunks.Frame()
//	    ...
//	}
//	if err := chunks.Err(); err != nil { ... }
type Chunks struct {
	rows *sql.Rows
	cols []string
	size int
	cur  *Frame
	err  error
	done bool
}

// NewChunks wraps a live cursor. size must be positive. Ownership of rows
// passes to the iterator; it is closed when iteration ends or on Close.
func NewChunks(rows *sql.Rows, size int) (*Chunks, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	return &Chunks{rows: rows, cols: cols, size: size}, nil
}

// Next advances to the next chunk. It returns false at the end of the result
// set or on error; check Err afterwards.
func (c *Chunks) Next() bool {
	if c.done {
		return false
	}
	batch, err := scanBatch(c.rows, len(c.cols), c.size)
	if err != nil {
		c.err = err
		c.finish()
		return false
	}
	if len(batch) == 0 {
		c.finish()
		return false
	}
	c.cur = &Frame{Columns: c.cols, Rows: batch}
	if len(batch) < c.size {
		// Short batch means the cursor is exhausted; release it now rather
		// than waiting for one more Next call.
		c.finish()
	}
	return true
}

// Frame returns the chunk read by the last successful Next.
func (c *Chunks) Frame() *Frame {
	return c.cur
}

// Err returns the first error hit during iteration.
func (c *Chunks) Err() error {
	return c.err
}

// Close releases the underlying cursor. Safe to call more than once.
func (c *Chunks) Close() error {
	if c.rows == nil {
		return nil
	}
	err := c.rows.Close()
	c.rows = nil
	c.done = true
	return err
}

func (c *Chunks) finish() {
	c.done = true
	if c.rows != nil {
		c.rows.Close()
		c.rows = nil
	}
}
