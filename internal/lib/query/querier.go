package query

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// Querier is the slice of the pgx API the package needs. *pgxpool.Pool,
// *pgx.Conn and pgx.Tx all satisfy it, so callers decide the transaction
// boundary.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// render turns a builder into PostgreSQL text. Every builder in this package
// keeps the default question-mark format so nested builders can be embedded
// verbatim; the dollar rewrite happens exactly once, here.
func render(s sq.Sqlizer) (string, []any, error) {
	sql, args, err := s.ToSql()
	if err != nil {
		return "", nil, err
	}

	sql, err = sq.Dollar.ReplacePlaceholders(sql)
	if err != nil {
		return "", nil, err
	}

	return sql, args, nil
}
