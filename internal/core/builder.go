package core

import (
	"fmt"
	"strings"
)

// SelectBuilder assembles SELECT statements in SQL Server dialect. Report
// code uses it so the canned queries stay readable; placeholders are the
// ODBC-style '?'.
type SelectBuilder struct {
	table      string
	selectCols []string
	top        int
	whereOps   []string
	args       []interface{}
	groupBy    string
	orderBy    string
}

func Select(cols ...string) *SelectBuilder {
	return &SelectBuilder{selectCols: cols}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

// Top caps the result with a TOP n clause (SQL Server has no LIMIT).
func (b *SelectBuilder) Top(n int) *SelectBuilder {
	b.top = n
	return b
}

func (b *SelectBuilder) Where(cond string, vals ...interface{}) *SelectBuilder {
	b.whereOps = append(b.whereOps, cond)
	b.args = append(b.args, vals...)
	return b
}

func (b *SelectBuilder) GroupBy(group string) *SelectBuilder {
	b.groupBy = group
	return b
}

func (b *SelectBuilder) OrderBy(order string) *SelectBuilder {
	b.orderBy = order
	return b
}

// Build assembles the SQL query string and returns it with args
func (b *SelectBuilder) Build() (string, []interface{}) {
	parts := []string{"SELECT"}
	if b.top > 0 {
		parts = append(parts, fmt.Sprintf("TOP %d", b.top))
	}
	if len(b.selectCols) > 0 {
		parts = append(parts, strings.Join(b.selectCols, ", "))
	} else {
		parts = append(parts, "*")
	}
	parts = append(parts, "FROM", b.table)
	if len(b.whereOps) > 0 {
		parts = append(parts, "WHERE", strings.Join(b.whereOps, " AND "))
	}
	if b.groupBy != "" {
		parts = append(parts, "GROUP BY", b.groupBy)
	}
	if b.orderBy != "" {
		parts = append(parts, "ORDER BY", b.orderBy)
	}
	return strings.Join(parts, " "), b.args
}
