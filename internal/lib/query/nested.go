package query

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// positionColumn numbers the rows of an ordered child so json_agg can
// aggregate them in that order. It is stripped from the resulting objects.
const positionColumn = "nested_position"

// Nested describes a child collection fetched alongside each parent row.
//
// ChildKey is the child-side column compared with the parent's ParentKey.
// ParentKey must name a column of the parent projection, either by its
// expression ("owners.id") or its output name ("id"). Nested may hold
// further levels, correlated against Child.
type Nested struct {
	Name      string
	Child     Spec
	ChildKey  string
	ParentKey string
	Nested    []Nested
}

func (n Nested) validate(op string, parent Spec) (Column, error) {
	if n.Name == "" {
		return Column{}, newQueryError(op, "nested collection under %s has no name", parent.table)
	}
	if parent.hasName(n.Name) {
		return Column{}, newQueryError(op, "nested collection %q collides with a column of %s", n.Name, parent.table)
	}
	if n.ChildKey == "" {
		return Column{}, newQueryError(op, "nested collection %q has no child key", n.Name)
	}

	key, ok := parent.column(n.ParentKey)
	if !ok {
		return Column{}, newQueryError(op, "nested collection %q correlates on %q, which %s does not project",
			n.Name, n.ParentKey, parent.table)
	}

	return key, nil
}

// WithNested returns parent extended with one column per nested collection.
// Each column is a correlated sub-select aggregated into a JSON array, so the
// whole tree, at any depth, is read by a single statement:
//
//	(SELECT coalesce(json_agg(to_jsonb(n) - 'nested_position' ORDER BY n.nested_position), '[]'::json)
//	   FROM (SELECT ..., row_number() OVER (ORDER BY ...) AS nested_position
//	           FROM pets WHERE pets.owner_id = owners.id ORDER BY ...) AS n) AS pets
//
// Children keep the order declared on the child Spec. A child without an
// ORDER BY is aggregated in whatever order PostgreSQL reads it.
func WithNested(parent Spec, specs ...Nested) (Spec, error) {
	const op = "with nested"

	out := parent
	out.nested = append([]nestedColumn(nil), parent.nested...)
	out.tree = append([]Nested(nil), parent.tree...)

	for _, n := range specs {
		key, err := n.validate(op, out)
		if err != nil {
			return Spec{}, err
		}

		child := n.Child
		if len(n.Nested) > 0 {
			child, err = WithNested(child, n.Nested...)
			if err != nil {
				return Spec{}, err
			}
		}
		if err := child.validateProjection(op); err != nil {
			return Spec{}, err
		}

		if child.hasName(positionColumn) {
			return Spec{}, newQueryError(op, "nested collection %q projects reserved column %q", n.Name, positionColumn)
		}

		correlated := child.Where(fmt.Sprintf("%s = %s", n.ChildKey, key.Expr))
		agg := aggregate(correlated)

		out.nested = append(out.nested, nestedColumn{name: n.Name, expr: sq.Alias(agg, n.Name)})
		out.tree = append(out.tree, n)
	}

	return out, nil
}

func aggregate(child Spec) sq.SelectBuilder {
	if len(child.order) == 0 {
		return sq.Select("coalesce(json_agg(n), '[]'::json)").FromSelect(child.selectBuilder(), "n")
	}

	position := fmt.Sprintf("row_number() OVER (ORDER BY %s) AS %s", strings.Join(child.order, ", "), positionColumn)
	return sq.Select(fmt.Sprintf("coalesce(json_agg(to_jsonb(n) - '%s' ORDER BY n.%s), '[]'::json)", positionColumn, positionColumn)).
		FromSelect(child.selectBuilder().Column(position), "n")
}

// Fetch runs spec and hydrates every row, nested collections included.
func Fetch(ctx context.Context, db Querier, spec Spec) ([]Row, error) {
	sql, args, err := render(spec)
	if err != nil {
		if IsQueryError(err) {
			return nil, err
		}
		return nil, newQueryError("fetch", "%s: %v", spec.table, err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query: fetch %s: %w", spec.table, err)
	}

	return collect(rows, spec.tree)
}

// FetchAll runs spec and maps every row with fn.
func FetchAll[T any](ctx context.Context, db Querier, spec Spec, fn func(Row) (T, error)) ([]T, error) {
	rows, err := Fetch(ctx, db, spec)
	if err != nil {
		return nil, err
	}
	return MapRows(rows, fn)
}
