package query

import (
	"context"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
)

const defaultBatchChunk = 1000

// BatchFetcher loads nested collections without correlated sub-selects: the
// parent query runs once, then each nesting level is one IN query over the
// distinct keys of the level above, grouped back onto its parents in memory.
// A tree of depth d costs d+1 statements regardless of row counts (plus one
// statement per extra chunk when a level has more than ChunkSize keys).
//
// Nesting and ordering match WithNested, except that ChildKey must also be
// projected by the child so rows can be grouped.
type BatchFetcher struct {
	db        Querier
	ChunkSize int
}

// NewBatchFetcher returns a BatchFetcher with the default chunk size.
func NewBatchFetcher(db Querier) *BatchFetcher {
	return &BatchFetcher{db: db, ChunkSize: defaultBatchChunk}
}

// Fetch runs parent and attaches every nested collection in specs.
func (f *BatchFetcher) Fetch(ctx context.Context, parent Spec, specs ...Nested) ([]Row, error) {
	if err := validateBatch(parent, specs); err != nil {
		return nil, err
	}

	parents, err := Fetch(ctx, f.db, parent)
	if err != nil {
		return nil, err
	}

	if err := f.attach(ctx, parents, parent, specs); err != nil {
		return nil, err
	}

	return parents, nil
}

func validateBatch(parent Spec, specs []Nested) error {
	const op = "batch fetch"

	for _, n := range specs {
		if _, err := n.validate(op, parent); err != nil {
			return err
		}
		if _, ok := n.Child.column(n.ChildKey); !ok {
			return newQueryError(op, "nested collection %q groups on %q, which %s does not project",
				n.Name, n.ChildKey, n.Child.table)
		}
		if err := validateBatch(n.Child, n.Nested); err != nil {
			return err
		}
	}

	return nil
}

func (f *BatchFetcher) attach(ctx context.Context, parents []Row, parentSpec Spec, specs []Nested) error {
	for _, n := range specs {
		parentKey, _ := parentSpec.column(n.ParentKey)
		childKey, _ := n.Child.column(n.ChildKey)

		var children []Row
		for _, chunk := range chunkValues(uniqueValues(parents, parentKey.Name), f.ChunkSize) {
			rows, err := Fetch(ctx, f.db, n.Child.Where(sq.Eq{childKey.Expr: chunk}))
			if err != nil {
				return err
			}
			children = append(children, rows...)
		}

		if len(children) > 0 && len(n.Nested) > 0 {
			if err := f.attach(ctx, children, n.Child, n.Nested); err != nil {
				return err
			}
		}

		grouped := groupByField(children, childKey.Name)
		for i := range parents {
			rows := grouped[keyString(parents[i].values[parentKey.Name])]
			if rows == nil {
				rows = []Row{}
			}
			parents[i].nested[n.Name] = rows
		}
	}

	return nil
}

// keyString normalises a key so an int32 parent id and an int64 child
// foreign key land in the same group.
func keyString(v any) string {
	if n, ok := toInt64(v); ok {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprint(v)
}

func uniqueValues(rows []Row, name string) []any {
	seen := make(map[string]struct{}, len(rows))
	values := make([]any, 0, len(rows))

	for _, row := range rows {
		raw := row.values[name]
		if raw == nil {
			continue
		}
		key := keyString(raw)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		values = append(values, raw)
	}

	return values
}

func groupByField(rows []Row, name string) map[string][]Row {
	grouped := make(map[string][]Row)
	for _, row := range rows {
		key := keyString(row.values[name])
		grouped[key] = append(grouped[key], row)
	}
	return grouped
}

func chunkValues(values []any, max int) [][]any {
	if len(values) == 0 {
		return nil
	}
	if max <= 0 || len(values) <= max {
		return [][]any{values}
	}

	chunks := make([][]any, 0, (len(values)+max-1)/max)
	for start := 0; start < len(values); start += max {
		end := min(start+max, len(values))
		chunks = append(chunks, values[start:end])
	}
	return chunks
}
