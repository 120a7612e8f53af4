// Package query implements the query executor (C13): a builder over a
// filter, column projection, eager-relation loading, multi-key sort, and
// offset/limit, run against a row source (typically a transaction's
// overlay-composed view, txn.Transaction.Rows).
package query

import (
	"github.com/icdbms/icdbms/filter"
)

// Projection selects which columns survive into the result rows. All
// true keeps every column, and so does the zero value (no Columns).
type Projection struct {
	All     bool
	Columns []string
}

// AllColumns keeps every column of the row.
func AllColumns() Projection { return Projection{All: true} }

// SelectColumns keeps only the named columns, dropping the rest.
func SelectColumns(columns ...string) Projection { return Projection{Columns: columns} }

func (p Projection) isAll() bool { return p.All || len(p.Columns) == 0 }

// OrderKey names one column to sort by and its direction. Query.OrderBy
// is a priority list: the first key is the primary sort key.
type OrderKey struct {
	Column string
	Desc   bool
}

// EagerRelation resolves a local foreign-key-shaped column into the
// single row of ForeignTable whose ForeignColumn equals it, attaching
// the result under the same Column name in each Result's Eager map.
type EagerRelation struct {
	Column        string
	ForeignTable  string
	ForeignColumn string
}

// Query is the full description of one read: what to keep (Filter),
// which columns to keep (Columns), which relations to eager-load
// (EagerRelations), how to order the kept rows (OrderBy), and the
// offset/limit window over the ordered result.
type Query struct {
	Filter         filter.Filter
	Columns        Projection
	EagerRelations []EagerRelation
	OrderBy        []OrderKey
	Offset         int
	Limit          int // 0 means unlimited
}
