package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Row is one hydrated result row: scalar values by output name plus the
// nested collections attached with WithNested or a BatchFetcher.
//
// Nested rows come back from PostgreSQL as JSON, so numbers arrive as
// float64 or json.Number and dates as strings. The accessors smooth that
// over; a missing or unconvertible value yields the zero value.
type Row struct {
	values map[string]any
	nested map[string][]Row
}

// NewRow builds a Row by hand. Mostly useful in tests of row mappers.
func NewRow(values map[string]any, nested map[string][]Row) Row {
	r := Row{values: make(map[string]any, len(values)), nested: make(map[string][]Row, len(nested))}
	for k, v := range values {
		r.values[k] = v
	}
	for k, v := range nested {
		r.nested[k] = v
	}
	return r
}

// Value returns the raw value of a column and whether the row has it.
func (r Row) Value(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether name is a column or a nested collection of the row.
func (r Row) Has(name string) bool {
	if _, ok := r.values[name]; ok {
		return true
	}
	_, ok := r.nested[name]
	return ok
}

// IsNull reports whether name is absent or SQL NULL.
func (r Row) IsNull(name string) bool {
	return r.values[name] == nil
}

// Nested returns the child rows stored under name, in the child query's
// order. A parent without children gets an empty, non-nil slice.
func (r Row) Nested(name string) []Row {
	return r.nested[name]
}

// Int64 returns the column as an int64, or 0 when it is NULL or not numeric.
func (r Row) Int64(name string) int64 {
	n, _ := toInt64(r.values[name])
	return n
}

func (r Row) Int(name string) int {
	return int(r.Int64(name))
}

// Float64 returns the column as a float64, or 0.
func (r Row) Float64(name string) float64 {
	switch v := r.values[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	n, _ := toInt64(r.values[name])
	return float64(n)
}

// String returns the column as a string. NULL gives "".
func (r Row) String(name string) string {
	switch v := r.values[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the column as a bool. NULL gives false.
func (r Row) Bool(name string) bool {
	switch v := r.values[name].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

var timeLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

// Time returns a timestamp or date column. Nested rows carry these as
// JSON strings, which are parsed here.
func (r Row) Time(name string) time.Time {
	switch v := r.values[name].(type) {
	case time.Time:
		return v
	case pgtype.Date:
		if v.Valid {
			return v.Time
		}
	case pgtype.Timestamptz:
		if v.Valid {
			return v.Time
		}
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// PageMeta is the pagination metadata every paginated row carries.
type PageMeta struct {
	TotalRows      int64
	RowNumber      int64
	ActualPageSize int64
	CurrentPage    int64
	LastPage       bool
}

// PageMeta reads the metadata columns Paginate adds to every row.
func (r Row) PageMeta() PageMeta {
	return PageMeta{
		TotalRows:      r.Int64(ColTotalRows),
		RowNumber:      r.Int64(ColRowNumber),
		ActualPageSize: r.Int64(ColActualPageSize),
		CurrentPage:    r.Int64(ColCurrentPage),
		LastPage:       r.Bool(ColLastPage),
	}
}

// MapRows applies fn to every row, stopping at the first error.
func MapRows[T any](rows []Row, fn func(Row) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		v, err := fn(row)
		if err != nil {
			return nil, fmt.Errorf("map row %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case int:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		return int64(f), err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

// collect drains rows into hydrated Rows, decoding the columns named in tree
// as nested collections.
func collect(rows pgx.Rows, tree []Nested) ([]Row, error) {
	defer rows.Close()

	byName := make(map[string]Nested, len(tree))
	for _, n := range tree {
		byName[n.Name] = n
	}

	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("query: read row: %w", err)
		}

		row := Row{values: make(map[string]any, len(fields)), nested: make(map[string][]Row, len(tree))}
		for i, f := range fields {
			if n, ok := byName[f.Name]; ok {
				children, err := hydrate(vals[i], n)
				if err != nil {
					return nil, err
				}
				row.nested[f.Name] = children
				continue
			}
			row.values[f.Name] = vals[i]
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query: read rows: %w", err)
	}

	return out, nil
}

// hydrate turns the JSON array produced for a nested collection into Rows,
// recursing into the grandchildren n declares.
func hydrate(v any, n Nested) ([]Row, error) {
	items, err := jsonArray(v)
	if err != nil {
		return nil, fmt.Errorf("query: decode nested %q: %w", n.Name, err)
	}

	rows := make([]Row, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("query: decode nested %q: element is %T, not an object", n.Name, item)
		}

		row := Row{values: obj, nested: make(map[string][]Row, len(n.Nested))}
		for _, g := range n.Nested {
			children, err := hydrate(obj[g.Name], g)
			if err != nil {
				return nil, err
			}
			row.nested[g.Name] = children
			delete(row.values, g.Name)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func jsonArray(v any) ([]any, error) {
	var raw []byte
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return t, nil
	case []byte:
		raw = t
	case string:
		raw = []byte(t)
	default:
		return nil, fmt.Errorf("unexpected %T", v)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}
