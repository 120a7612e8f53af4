package integrity

import "github.com/icdbms/icdbms/schema"

// Reference names one column of a referencing table that points at the
// target table via a foreign key.
type Reference struct {
	Table  string
	Column string
}

// ReferenceGraph precomputes, for every registered table, the list of
// other tables (and columns) whose foreign keys point at it, so cascade
// and restrict delete never has to scan the full schema list per row.
// Grounded on the reference referenced_tables.rs, including its
// self-reference behavior: a table with a foreign key onto itself
// (e.g. an "employees.manager" column referencing "employees.id")
// appears in its own reference list.
type ReferenceGraph struct {
	referencedBy map[string][]Reference
}

// BuildReferenceGraph computes the full graph from every registered
// table schema. It is built once and invalidated only when a new table
// registers (the caller is responsible for rebuilding then).
func BuildReferenceGraph(tables []schema.TableSchema) *ReferenceGraph {
	g := &ReferenceGraph{referencedBy: make(map[string][]Reference)}
	for _, t := range tables {
		for _, fk := range t.ForeignKeys() {
			g.referencedBy[fk.ForeignTable] = append(g.referencedBy[fk.ForeignTable], Reference{
				Table:  t.Name,
				Column: fk.LocalColumn,
			})
		}
	}
	return g
}

// ReferencingTables returns every (table, column) pair whose foreign key
// points at target, in schema-registration order. A table with multiple
// foreign keys onto target (e.g. "messages.sender" and
// "messages.recipient" both referencing "users.id") appears once per
// column, not once per table.
func (g *ReferenceGraph) ReferencingTables(target string) []Reference {
	return g.referencedBy[target]
}
