package store

import (
	"fmt"
	"strings"
)

// Dialect selects the SQL placeholder style of a backend.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// Placeholder renders the n-th (1-based) statement parameter.
func (d Dialect) Placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// UpdateBuilder assembles a parameterized UPDATE from a set of optional
// fields, preserving the "only touch supplied fields" contract. Columns are
// added in call order; Build appends the WHERE id clause.
type UpdateBuilder struct {
	dialect     Dialect
	assignments []string
	args        []any
}

func NewUpdateBuilder(dialect Dialect) *UpdateBuilder {
	return &UpdateBuilder{dialect: dialect}
}

// Set adds one column assignment with a bound value.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.args = append(b.args, value)
	b.assignments = append(b.assignments, column+" = "+b.dialect.Placeholder(len(b.args)))
	return b
}

// SetExpr adds a raw right-hand expression with no bound value, for
// assignments like updated_at = CURRENT_TIMESTAMP.
func (b *UpdateBuilder) SetExpr(column, expr string) *UpdateBuilder {
	b.assignments = append(b.assignments, column+" = "+expr)
	return b
}

// Empty reports whether no assignments were added.
func (b *UpdateBuilder) Empty() bool {
	return len(b.assignments) == 0
}

// Build returns the full statement and its arguments.
func (b *UpdateBuilder) Build(table string, id int) (string, []any) {
	args := append(b.args, id)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = %s",
		table,
		strings.Join(b.assignments, ", "),
		b.dialect.Placeholder(len(args)),
	)
	return query, args
}
