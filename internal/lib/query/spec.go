package query

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Column is one projected expression and the name it is exposed under.
// Pagination, correlation and hydration all work on names, so every
// expression gets a stable one.
type Column struct {
	Expr string
	Name string
}

// Col projects a (possibly table-qualified) column under its bare name:
// Col("owners.last_name") is exposed as "last_name".
func Col(expr string) Column {
	name := expr
	if i := strings.LastIndex(expr, "."); i >= 0 {
		name = expr[i+1:]
	}
	return Column{Expr: expr, Name: name}
}

// As projects expr under an explicit name.
func As(expr, name string) Column {
	return Column{Expr: expr, Name: name}
}

func (c Column) sql() string {
	if c.Expr == c.Name {
		return c.Name
	}
	return c.Expr + " AS " + c.Name
}

type nestedColumn struct {
	name string
	expr sq.Sqlizer
}

// Spec is an immutable select specification: a projection plus the
// squirrel builder holding FROM, joins, predicates and ordering. Every
// method returns a new Spec and leaves the receiver untouched.
type Spec struct {
	table   string
	columns []Column
	nested  []nestedColumn
	tree    []Nested
	order   []string
	builder sq.SelectBuilder
}

// From starts a Spec selecting columns from table.
func From(table string, columns ...Column) Spec {
	return Spec{
		table:   table,
		columns: append([]Column(nil), columns...),
		builder: sq.Select().From(table),
	}
}

// Join adds an inner join, for example "types ON types.id = pets.type_id".
func (s Spec) Join(clause string, args ...any) Spec {
	s.builder = s.builder.Join(clause, args...)
	return s
}

// Where accepts anything squirrel's Where does: a string with placeholders,
// sq.Eq, sq.And, ...
func (s Spec) Where(pred any, args ...any) Spec {
	s.builder = s.builder.Where(pred, args...)
	return s
}

// OrderBy sets the order of the plain query. Paginate ignores it in favor
// of its sort keys; as a nested child it fixes the order of the collection.
func (s Spec) OrderBy(exprs ...string) Spec {
	s.builder = s.builder.OrderBy(exprs...)
	s.order = append(append([]string(nil), s.order...), exprs...)
	return s
}

// Names returns every output name in projection order, nested collections
// last.
func (s Spec) Names() []string {
	names := make([]string, 0, len(s.columns)+len(s.nested))
	for _, c := range s.columns {
		names = append(names, c.Name)
	}
	for _, n := range s.nested {
		names = append(names, n.name)
	}
	return names
}

// Nested returns the nested collections attached with WithNested.
func (s Spec) Nested() []Nested {
	return append([]Nested(nil), s.tree...)
}

// column resolves ref against the plain projection, by expression first and
// by output name second.
func (s Spec) column(ref string) (Column, bool) {
	for _, c := range s.columns {
		if c.Expr == ref {
			return c, true
		}
	}
	for _, c := range s.columns {
		if c.Name == ref {
			return c, true
		}
	}
	return Column{}, false
}

func (s Spec) hasName(name string) bool {
	for _, n := range s.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func (s Spec) selectBuilder() sq.SelectBuilder {
	b := s.builder
	for _, c := range s.columns {
		b = b.Column(c.sql())
	}
	for _, n := range s.nested {
		b = b.Column(n.expr)
	}
	return b
}

// ToSql renders the Spec with question-mark placeholders, which makes a Spec
// usable anywhere squirrel expects a Sqlizer.
func (s Spec) ToSql() (string, []any, error) {
	if len(s.columns) == 0 && len(s.nested) == 0 {
		return "", nil, newQueryError("select", "%s: empty projection", s.table)
	}
	return s.selectBuilder().ToSql()
}

// SQL renders the Spec the way it is sent to PostgreSQL.
func (s Spec) SQL() (string, []any, error) {
	return render(s)
}

func (s Spec) validateProjection(op string) error {
	if len(s.columns) == 0 {
		return newQueryError(op, "%s: empty projection", s.table)
	}

	seen := make(map[string]struct{}, len(s.columns)+len(s.nested))
	for _, name := range s.Names() {
		if name == "" {
			return newQueryError(op, "%s: column without a name", s.table)
		}
		if _, dup := seen[name]; dup {
			return newQueryError(op, "%s: column %q projected twice", s.table, name)
		}
		seen[name] = struct{}{}
	}

	return nil
}
