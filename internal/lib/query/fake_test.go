package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRows struct {
	fields []string
	data   [][]any
	pos    int
	closed bool
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) RawValues() [][]byte           { return nil }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.fields))
	for i, f := range r.fields {
		fds[i] = pgconn.FieldDescription{Name: f}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	if r.pos < len(r.data) {
		r.pos++
		return true
	}
	return false
}

func (r *fakeRows) Scan(...any) error {
	return errors.New("fakeRows: scan not supported")
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.pos-1], nil
}

// fakeTable answers any query selecting FROM name. When key >= 0 and the
// query has arguments, rows are filtered to those whose key column is one of
// the arguments, which is how the batch fetcher's IN queries behave.
type fakeTable struct {
	name   string
	fields []string
	key    int
	data   [][]any
}

func (t fakeTable) rows(args []any) *fakeRows {
	if t.key < 0 || len(args) == 0 {
		return &fakeRows{fields: t.fields, data: t.data}
	}

	wanted := make(map[string]struct{}, len(args))
	for _, a := range args {
		wanted[keyString(a)] = struct{}{}
	}

	var data [][]any
	for _, row := range t.data {
		if _, ok := wanted[keyString(row[t.key])]; ok {
			data = append(data, row)
		}
	}
	return &fakeRows{fields: t.fields, data: data}
}

type recordedQuery struct {
	sql  string
	args []any
}

type fakeQuerier struct {
	tables  []fakeTable
	err     error
	queries []recordedQuery
	last    *fakeRows
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, recordedQuery{sql: sql, args: args})
	if q.err != nil {
		return nil, q.err
	}

	for _, t := range q.tables {
		if strings.Contains(sql, "FROM "+t.name) {
			q.last = t.rows(args)
			return q.last, nil
		}
	}
	return nil, fmt.Errorf("fakeQuerier: no table for %q", sql)
}
