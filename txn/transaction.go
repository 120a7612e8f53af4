// Package txn implements the transaction overlay (C12): a per-transaction
// write set of inserts, tombstones, and patches layered over the base
// table registries, giving single-writer ACID-style commit/rollback
// without requiring every reader to block on a write in progress.
package txn

import (
	"fmt"
	"iter"

	"github.com/icdbms/icdbms/internal/tablestore"
	"github.com/icdbms/icdbms/schema"
	"github.com/icdbms/icdbms/value"
)

// ErrNoPrimaryKey is returned when an operation that identifies rows by
// primary key is attempted against a table with none (schema.Validate
// should have rejected such a table already, so this indicates a caller
// bug rather than a reachable runtime state).
type ErrNoPrimaryKey struct{ Table string }

func (e *ErrNoPrimaryKey) Error() string {
	return fmt.Sprintf("txn: table %q has no primary key", e.Table)
}

// ErrUnknownTable is returned when a table name has no backing table.
type ErrUnknownTable struct{ Table string }

func (e *ErrUnknownTable) Error() string {
	return fmt.Sprintf("txn: unknown table %q", e.Table)
}

// TableSource resolves a table name to its typed storage handle. The
// database façade implements this over the set of tables it opened.
type TableSource interface {
	Table(name string) (*tablestore.Table, bool)
}

// Transaction is a single-writer overlay over TableSource. It is not
// safe for concurrent use — the spec's concurrency model is one writer
// at a time, enforced by Session, not by this type.
type Transaction struct {
	ID     uint64
	Owner  string
	source TableSource
	tables map[string]*overlay
}

// New starts an empty transaction reading through source.
func New(id uint64, owner string, source TableSource) *Transaction {
	return &Transaction{ID: id, Owner: owner, source: source, tables: make(map[string]*overlay)}
}

func (tx *Transaction) overlayFor(table string) *overlay {
	ov, ok := tx.tables[table]
	if !ok {
		ov = newOverlay()
		tx.tables[table] = ov
	}
	return ov
}

func (tx *Transaction) resolve(table string) (*tablestore.Table, error) {
	tbl, ok := tx.source.Table(table)
	if !ok {
		return nil, &ErrUnknownTable{Table: table}
	}
	return tbl, nil
}

// Insert stages row as a new, not-yet-committed record in table.
func (tx *Transaction) Insert(table string, row schema.Row) error {
	if _, err := tx.resolve(table); err != nil {
		return err
	}
	ov := tx.overlayFor(table)
	ov.inserts = append(ov.inserts, row.Clone())
	return nil
}

// Update stages newRow as the replacement for the row currently keyed by
// oldPK (which may itself be a row this same transaction inserted and
// has not yet committed).
func (tx *Transaction) Update(table string, oldPK value.Value, newRow schema.Row) error {
	tbl, err := tx.resolve(table)
	if err != nil {
		return err
	}
	pkCol, ok := tbl.PrimaryKey()
	if !ok {
		return &ErrNoPrimaryKey{Table: table}
	}
	ov := tx.overlayFor(table)

	if i, found := ov.insertIndexByPK(pkCol.Name, oldPK); found {
		ov.inserts[i] = newRow.Clone()
		return nil
	}

	key := pkKey(oldPK)
	if existing, has := ov.patches[key]; has {
		ov.patches[key] = patch{oldPK: existing.oldPK, newRow: newRow.Clone()}
		return nil
	}
	ov.patches[key] = patch{oldPK: oldPK, newRow: newRow.Clone()}
	return nil
}

// Delete stages the row currently keyed by pk for removal.
func (tx *Transaction) Delete(table string, pk value.Value) error {
	tbl, err := tx.resolve(table)
	if err != nil {
		return err
	}
	pkCol, ok := tbl.PrimaryKey()
	if !ok {
		return &ErrNoPrimaryKey{Table: table}
	}
	ov := tx.overlayFor(table)

	if i, found := ov.insertIndexByPK(pkCol.Name, pk); found {
		ov.inserts = append(ov.inserts[:i], ov.inserts[i+1:]...)
		return nil
	}

	key := pkKey(pk)
	if p, has := ov.patches[key]; has {
		delete(ov.patches, key)
		ov.tombstones[key] = p.oldPK
		return nil
	}
	ov.tombstones[key] = pk
	return nil
}

// Rows composes table's base scan with this transaction's overlay:
// tombstoned rows are skipped, patched rows are replaced, and staged
// inserts are appended at the end.
func (tx *Transaction) Rows(table string) iter.Seq2[schema.Row, error] {
	return func(yield func(schema.Row, error) bool) {
		tbl, err := tx.resolve(table)
		if err != nil {
			yield(nil, err)
			return
		}
		ov := tx.overlayFor(table)
		pkCol, hasPK := tbl.PrimaryKey()

		for rec, err := range tbl.Scan() {
			if err != nil {
				yield(nil, err)
				return
			}
			if hasPK {
				if pkVal, ok := rec.Row[pkCol.Name]; ok {
					key := pkKey(pkVal)
					if _, tombstoned := ov.tombstones[key]; tombstoned {
						continue
					}
					if p, patched := ov.patches[key]; patched {
						if !yield(p.newRow, nil) {
							return
						}
						continue
					}
				}
			}
			if !yield(rec.Row, nil) {
				return
			}
		}

		for _, row := range ov.inserts {
			if !yield(row, nil) {
				return
			}
		}
	}
}

// RowExistsWithColumnValue implements internal/integrity.TableLookup
// against this transaction's overlay-composed view, so a pending insert
// or update in the same transaction is visible to the next write's
// integrity checks (read-your-writes within a transaction).
func (tx *Transaction) RowExistsWithColumnValue(table, column string, v value.Value) (bool, error) {
	for row, err := range tx.Rows(table) {
		if err != nil {
			return false, err
		}
		if existing, ok := row[column]; ok && value.Compare(existing, v) == 0 {
			return true, nil
		}
	}
	return false, nil
}

// Commit applies every staged insert, patch, and tombstone to the base
// table registries, in tombstone-then-patch-then-insert order per
// table. A failure partway through leaves some tables committed and
// others not — the caller (database façade) is responsible for the
// spec's "abort on mid-write failure" policy by validating everything
// up front via RowExistsWithColumnValue before ever calling Commit.
func (tx *Transaction) Commit() error {
	for table, ov := range tx.tables {
		tbl, err := tx.resolve(table)
		if err != nil {
			return err
		}
		pkCol, hasPK := tbl.PrimaryKey()

		for _, pk := range ov.tombstones {
			if !hasPK {
				return &ErrNoPrimaryKey{Table: table}
			}
			rec, found, err := tbl.FindByColumnValue(pkCol.Name, pk)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			if err := tbl.Delete(rec.Location); err != nil {
				return err
			}
		}

		for _, p := range ov.patches {
			if !hasPK {
				return &ErrNoPrimaryKey{Table: table}
			}
			rec, found, err := tbl.FindByColumnValue(pkCol.Name, p.oldPK)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("txn: update target %s.%s=%s vanished before commit", table, pkCol.Name, p.oldPK)
			}
			if _, err := tbl.Update(p.newRow, rec.Location); err != nil {
				return err
			}
		}

		for _, row := range ov.inserts {
			if _, err := tbl.Insert(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// Rollback discards every staged change. The transaction must not be
// used again afterward.
func (tx *Transaction) Rollback() {
	tx.tables = make(map[string]*overlay)
}
