package query

import (
	"iter"
	"slices"

	"github.com/icdbms/icdbms/internal/tablestore"
	"github.com/icdbms/icdbms/schema"
	"github.com/icdbms/icdbms/value"
)

// Result is one query result row: the (possibly projected) column
// values plus any eager-loaded relation rows, keyed by the relation's
// local column name.
type Result struct {
	Row   schema.Row
	Eager map[string]schema.Row
}

// TableSource resolves a table name for eager-relation loading.
type TableSource interface {
	Table(name string) (*tablestore.Table, bool)
}

// Execute runs q against rows: filter, sort, window (offset/limit),
// project, then eager-load relations. Sorting and windowing happen
// before projection so OrderBy and a narrowed Columns set can name
// different columns (sorting by a column you don't select back is
// valid SQL-shaped behavior).
func Execute(rows iter.Seq2[schema.Row, error], q Query, source TableSource) ([]Result, error) {
	var matched []schema.Row
	for row, err := range rows {
		if err != nil {
			return nil, err
		}
		if q.Filter != nil {
			ok, err := q.Filter.Eval(row)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		matched = append(matched, row)
	}

	sortRows(matched, q.OrderBy)

	windowed := window(matched, q.Offset, q.Limit)

	results := make([]Result, 0, len(windowed))
	for _, row := range windowed {
		projected := q.Columns.apply(row)
		eager, err := loadEager(row, q.EagerRelations, source)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Row: projected, Eager: eager})
	}
	return results, nil
}

func (p Projection) apply(row schema.Row) schema.Row {
	if p.isAll() {
		return row
	}
	out := make(schema.Row, len(p.Columns))
	for _, c := range p.Columns {
		if v, ok := row[c]; ok {
			out[c] = v
		}
	}
	return out
}

// sortRows implements a reverse-order stable multi-key sort: instead
// of one composite comparator across every key, it runs a stable sort
// once per key, walking the key list from least to most significant
// (i.e. in reverse of OrderBy's priority order). Each pass only
// reorders rows the previous passes left tied, so the final pass (the
// first, highest-priority key) dominates while ties still fall back to
// the lower-priority ordering established before it — exactly the
// guarantee a single multi-key comparator would give, without writing
// one.
func sortRows(rows []schema.Row, orderBy []OrderKey) {
	for i := len(orderBy) - 1; i >= 0; i-- {
		key := orderBy[i]
		slices.SortStableFunc(rows, func(a, b schema.Row) int {
			cmp := compareColumn(a, b, key.Column)
			if key.Desc {
				cmp = -cmp
			}
			return cmp
		})
	}
}

// compareColumn orders a missing or Null value before any non-null
// value, so NULLs sort first ascending (last descending).
func compareColumn(a, b schema.Row, column string) int {
	av, aok := a[column]
	bv, bok := b[column]
	aNull := !aok || av.IsNull()
	bNull := !bok || bv.IsNull()
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return -1
	case bNull:
		return 1
	default:
		return value.Compare(av, bv)
	}
}

func window(rows []schema.Row, offset, limit int) []schema.Row {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func loadEager(row schema.Row, relations []EagerRelation, source TableSource) (map[string]schema.Row, error) {
	if len(relations) == 0 {
		return nil, nil
	}
	out := make(map[string]schema.Row, len(relations))
	for _, rel := range relations {
		v, ok := row[rel.Column]
		if !ok || v.IsNull() {
			continue
		}
		tbl, ok := source.Table(rel.ForeignTable)
		if !ok {
			continue
		}
		rec, found, err := tbl.FindByColumnValue(rel.ForeignColumn, v)
		if err != nil {
			return nil, err
		}
		if found {
			out[rel.Column] = rec.Row
		}
	}
	return out, nil
}
