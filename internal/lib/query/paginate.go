package query

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Metadata columns appended to every paginated row.
const (
	ColTotalRows      = "total_rows"
	ColRowNumber      = "row_number"
	ColActualPageSize = "actual_page_size"
	ColLastPage       = "last_page"
	ColCurrentPage    = "current_page"
)

var metadataColumns = []string{ColTotalRows, ColRowNumber, ColActualPageSize, ColLastPage, ColCurrentPage}

// SortKey orders a paginated query by a column of the base projection,
// named by expression or output name.
type SortKey struct {
	Column string
	Desc   bool
}

// Asc and Desc build ascending and descending sort keys.
func Asc(column string) SortKey  { return SortKey{Column: column} }
func Desc(column string) SortKey { return SortKey{Column: column, Desc: true} }

func (k SortKey) qualified(alias string) string {
	expr := alias + "." + k.Column
	if k.Desc {
		return expr + " DESC"
	}
	return expr + " ASC"
}

// PageRows is one page of hydrated rows together with the number of rows the
// unpaginated query would have returned.
type PageRows struct {
	Rows      []Row
	TotalRows int64
}

// PaginateSQL wraps base into a single paginated statement.
//
// The base query becomes the CTE u. The page itself is the derived table t,
// which numbers and counts the whole result with window functions before
// LIMIT/OFFSET apply. The outer select then computes the page's actual size
// and whether it is the last one. t is left-joined to a one-row count of u so
// that an offset past the end still yields a row carrying the total; that
// row has a NULL row_number and is dropped by Paginate.
//
// Sort keys name columns of the base projection. pageSize is inlined as a
// literal since it is also the divisor of current_page.
func PaginateSQL(base Spec, sort []SortKey, pageSize int, offset int64) (string, []any, error) {
	const op = "paginate"

	if len(sort) == 0 {
		return "", nil, newQueryError(op, "%s: at least one sort key is required", base.table)
	}
	if pageSize <= 0 {
		return "", nil, newQueryError(op, "%s: page size must be positive, got %d", base.table, pageSize)
	}
	if offset < 0 {
		return "", nil, newQueryError(op, "%s: offset must not be negative, got %d", base.table, offset)
	}
	if err := base.validateProjection(op); err != nil {
		return "", nil, err
	}
	for _, name := range metadataColumns {
		if base.hasName(name) {
			return "", nil, newQueryError(op, "%s: column %q clashes with pagination metadata", base.table, name)
		}
	}

	order := make([]string, 0, len(sort))
	for _, k := range sort {
		c, ok := base.column(k.Column)
		if !ok {
			return "", nil, newQueryError(op, "%s: sort key %q is not in the projection", base.table, k.Column)
		}
		order = append(order, SortKey{Column: c.Name, Desc: k.Desc}.qualified("u"))
	}

	baseSQL, baseArgs, err := base.ToSql()
	if err != nil {
		return "", nil, newQueryError(op, "%s: %v", base.table, err)
	}

	window := strings.Join(order, ", ")
	page, _, err := sq.Select(
		"u.*",
		"count(*) OVER () AS "+ColTotalRows,
		fmt.Sprintf("row_number() OVER (ORDER BY %s) AS %s", window, ColRowNumber),
	).
		From("u").
		OrderBy(order...).
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return "", nil, newQueryError(op, "%s: %v", base.table, err)
	}

	names := base.Names()
	columns := make([]string, 0, len(names)+len(metadataColumns))
	for _, name := range names {
		columns = append(columns, "t."+name)
	}
	columns = append(columns,
		"count(t.row_number) OVER () AS "+ColActualPageSize,
		"coalesce(max(t.row_number) OVER () = t.total_rows, true) AS "+ColLastPage,
		"coalesce(t.total_rows, c.total_rows) AS "+ColTotalRows,
		"t."+ColRowNumber,
		fmt.Sprintf("(t.row_number - 1) / %d + 1 AS %s", pageSize, ColCurrentPage),
	)

	outer := sq.Select(columns...).
		Prefix("WITH u AS ("+baseSQL+")", baseArgs...).
		From("(SELECT count(*) AS total_rows FROM u) AS c").
		LeftJoin("(" + page + ") AS t ON true").
		OrderBy("t.row_number")

	return render(outer)
}

// Paginate runs PaginateSQL and hydrates the page. Every returned row keeps
// its metadata columns (see Row.PageMeta).
func Paginate(ctx context.Context, db Querier, base Spec, sort []SortKey, pageSize int, offset int64) (PageRows, error) {
	sql, args, err := PaginateSQL(base, sort, pageSize, offset)
	if err != nil {
		return PageRows{}, err
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return PageRows{}, fmt.Errorf("query: paginate %s: %w", base.table, err)
	}

	all, err := collect(rows, base.tree)
	if err != nil {
		return PageRows{}, err
	}

	out := PageRows{Rows: make([]Row, 0, len(all))}
	for _, row := range all {
		out.TotalRows = row.Int64(ColTotalRows)
		if row.IsNull(ColRowNumber) {
			continue
		}
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}

// FetchPage paginates base according to pageable and maps the rows into a
// Page.
func FetchPage[T any](
	ctx context.Context,
	db Querier,
	base Spec,
	sort []SortKey,
	pageable Pageable,
	fn func(Row) (T, error),
) (Page[T], error) {
	if err := pageable.Validate(); err != nil {
		return Page[T]{}, err
	}

	result, err := Paginate(ctx, db, base, sort, pageable.PageSize, pageable.Offset())
	if err != nil {
		return Page[T]{}, err
	}

	content, err := MapRows(result.Rows, fn)
	if err != nil {
		return Page[T]{}, err
	}

	return NewPage(content, pageable, result.TotalRows), nil
}
