// Package tablestore binds a schema declaration (C7) to its table
// registry (C6), giving every layer above it (integrity, transactions,
// queries, the database façade) a single typed handle instead of having
// to pair a schema.TableSchema with a *catalog.TableRegistry and hand-roll
// encode/decode at every call site. It mirrors the role OPA's
// storage/interface.go Store plays over its backing implementations:
// one seam the rest of the module programs against.
package tablestore

import (
	"fmt"
	"iter"

	"github.com/icdbms/icdbms/internal/catalog"
	"github.com/icdbms/icdbms/schema"
	"github.com/icdbms/icdbms/value"
)

// DecodedRecord pairs a schema-typed row with the on-disk location its
// encoded bytes occupy, so a caller can Update/Delete it in place.
type DecodedRecord struct {
	Row      schema.Row
	Location catalog.RecordLocation
}

// Table is the typed read/write surface over one table's registry.
type Table struct {
	Schema   schema.TableSchema
	registry *catalog.TableRegistry
}

// Open binds schema to registry. The caller is responsible for having
// registered schema's fingerprint and obtained registry from it.
func Open(tableSchema schema.TableSchema, registry *catalog.TableRegistry) *Table {
	return &Table{Schema: tableSchema, registry: registry}
}

// PrimaryKey returns the table's single primary-key column.
func (t *Table) PrimaryKey() (schema.Column, bool) {
	for _, c := range t.Schema.Columns {
		if c.PrimaryKey {
			return c, true
		}
	}
	return schema.Column{}, false
}

// Scan decodes every live record in registration order.
func (t *Table) Scan() iter.Seq2[DecodedRecord, error] {
	return func(yield func(DecodedRecord, error) bool) {
		for rec, err := range t.registry.Scan() {
			if err != nil {
				yield(DecodedRecord{}, err)
				return
			}
			row, err := schema.DecodeRow(t.Schema, rec.Raw)
			if err != nil {
				yield(DecodedRecord{}, fmt.Errorf("tablestore: decoding %s record at page=%d offset=%d: %w", t.Schema.Name, rec.Location.Page, rec.Location.Offset, err))
				return
			}
			if !yield(DecodedRecord{Row: row, Location: rec.Location}, nil) {
				return
			}
		}
	}
}

// ReadAll collects every live, decoded record.
func (t *Table) ReadAll() ([]DecodedRecord, error) {
	var out []DecodedRecord
	for rec, err := range t.Scan() {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Insert encodes row per the table's schema and appends it to the
// registry.
func (t *Table) Insert(row schema.Row) (catalog.RecordLocation, error) {
	raw, err := schema.EncodeRow(t.Schema, row)
	if err != nil {
		return catalog.RecordLocation{}, err
	}
	return t.registry.Insert(raw)
}

// Update encodes row and overwrites the record at loc.
func (t *Table) Update(row schema.Row, loc catalog.RecordLocation) (catalog.RecordLocation, error) {
	raw, err := schema.EncodeRow(t.Schema, row)
	if err != nil {
		return catalog.RecordLocation{}, err
	}
	return t.registry.Update(raw, loc)
}

// Delete tombstones the record at loc.
func (t *Table) Delete(loc catalog.RecordLocation) error {
	return t.registry.Delete(loc)
}

// FindByColumnValue scans for the first row whose column equals v,
// returning its decoded record if found. Linear in table size: no
// secondary index backs column lookups (an explicit Non-goal).
func (t *Table) FindByColumnValue(column string, v value.Value) (DecodedRecord, bool, error) {
	for rec, err := range t.Scan() {
		if err != nil {
			return DecodedRecord{}, false, err
		}
		existing, ok := rec.Row[column]
		if ok && value.Compare(existing, v) == 0 {
			return rec, true, nil
		}
	}
	return DecodedRecord{}, false, nil
}

// ExistsByColumnValue reports whether any row has column equal to v.
func (t *Table) ExistsByColumnValue(column string, v value.Value) (bool, error) {
	_, ok, err := t.FindByColumnValue(column, v)
	return ok, err
}
