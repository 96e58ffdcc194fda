// Package repository maps the clinic's tables onto the domain model. Reads
// go through the query package (nested fetch and pagination); writes are
// plain squirrel statements.
package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx. Whoever builds
// the repository decides whether it runs inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// notFound wraps pgx.ErrNoRows with the table name; sqlerr.HandleError
// reads it back to say which entity was missing.
func notFound(table string) error {
	return fmt.Errorf("table:%s: %w", table, pgx.ErrNoRows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix turns user input into a LIKE pattern matching values that start
// with it. Wildcards in the input match literally.
func likePrefix(s string) string {
	return likeEscaper.Replace(s) + "%"
}

func insertReturningID(ctx context.Context, db DBTX, b sq.InsertBuilder) (int, error) {
	sql, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}

	var id int
	if err := db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// execUpdate runs b and reports a not-found error when no row matched.
func execUpdate(ctx context.Context, db DBTX, table string, b sq.UpdateBuilder) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return err
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound(table)
	}
	return nil
}
