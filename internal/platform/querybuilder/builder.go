package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrIncomplete = errors.New("incomplete query")

// statement accumulates SQL text and Postgres positional arguments.
type statement struct {
	sql  strings.Builder
	args []any
}

func (s *statement) write(parts ...string) {
	for _, part := range parts {
		s.sql.WriteString(part)
	}
}

func (s *statement) bind(value any) {
	s.args = append(s.args, value)
	s.sql.WriteString("$")
	s.sql.WriteString(strconv.Itoa(len(s.args)))
}

func (s *statement) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			s.write(" WHERE ")
		} else {
			s.write(" AND ")
		}
		c.appendTo(s)
	}
}

// Condition renders one predicate of a WHERE clause.
type Condition interface {
	appendTo(s *statement)
}

type compare struct {
	column string
	op     string
	value  any
}

func (c compare) appendTo(s *statement) {
	s.write(c.column, " ", c.op, " ")
	s.bind(c.value)
}

func Eq(column string, value any) Condition {
	return compare{column: column, op: "=", value: value}
}

func Lt(column string, value any) Condition {
	return compare{column: column, op: "<", value: value}
}

type expr struct {
	text string
	args []any
}

// Expr renders text verbatim, binding each ? to the next argument in order.
func Expr(text string, args ...any) Condition {
	return expr{text: text, args: args}
}

func (e expr) appendTo(s *statement) {
	next := 0
	for i := 0; i < len(e.text); i++ {
		if e.text[i] == '?' && next < len(e.args) {
			s.bind(e.args[next])
			next++
			continue
		}
		s.sql.WriteByte(e.text[i])
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

// Limit is ignored when <= 0.
func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("%w: select columns are required", ErrIncomplete)
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("%w: select table is required", ErrIncomplete)
	}

	var s statement
	s.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	s.where(b.where)
	if len(b.orderBy) > 0 {
		s.write(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.write(" LIMIT ", strconv.Itoa(b.limit))
	}

	return s.sql.String(), s.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix is appended verbatim, e.g. "ON CONFLICT DO NOTHING".
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("%w: insert table is required", ErrIncomplete)
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("%w: insert columns are required", ErrIncomplete)
	case len(b.rows) == 0:
		return "", nil, fmt.Errorf("%w: insert values are required", ErrIncomplete)
	}

	var s statement
	s.write("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("%w: insert row %d has %d values, expected %d", ErrIncomplete, i, len(row), len(b.columns))
		}
		if i > 0 {
			s.write(", ")
		}
		s.write("(")
		for j, value := range row {
			if j > 0 {
				s.write(", ")
			}
			s.bind(value)
		}
		s.write(")")
	}
	if b.suffix != "" {
		s.write(" ", b.suffix)
	}

	return s.sql.String(), s.args, nil
}
