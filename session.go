package icdbms

import (
	"github.com/icdbms/icdbms/internal/integrity"
	"github.com/icdbms/icdbms/query"
	"github.com/icdbms/icdbms/schema"
	"github.com/icdbms/icdbms/txn"
	"github.com/icdbms/icdbms/value"
)

// Transaction is the from_transaction(id) mode of the database façade: an
// explicit BEGIN that stages writes in an overlay (visible to reads on
// the same transaction) until Commit applies them or Rollback discards
// them. Only one Transaction may be open on a Database at a time.
type Transaction struct {
	db *Database
	tx *txn.Transaction
}

// Begin opens a new transaction owned by owner. It fails if the database
// already has one in progress.
func (db *Database) Begin(owner string) (*Transaction, error) {
	t, err := db.session.Begin(owner)
	if err != nil {
		return nil, transactionError("begin: %v", err)
	}
	return &Transaction{db: db, tx: t}, nil
}

// Active returns the database's open transaction, if any.
func (db *Database) Active() (*Transaction, bool) {
	t, ok := db.session.Active()
	if !ok {
		return nil, false
	}
	return &Transaction{db: db, tx: t}, true
}

// Insert sanitizes and validates row against this transaction's
// overlay-composed view (so it sees the transaction's own prior writes),
// then stages it for commit.
func (tx *Transaction) Insert(table string, row schema.Row) error {
	t, _, err := tx.db.lookup(table)
	if err != nil {
		return err
	}
	sanitized, err := integrity.CheckInsert(t, tx.db.rules[table], row, tx.tx)
	if err != nil {
		return wrapIntegrityError(err)
	}
	if err := tx.tx.Insert(table, sanitized); err != nil {
		return transactionError("insert into %q: %v", table, err)
	}
	return nil
}

// Update sanitizes and validates newRow (with old_pk set to oldPK)
// against this transaction's overlay-composed view, then stages the
// patch for commit.
func (tx *Transaction) Update(table string, oldPK value.Value, newRow schema.Row) error {
	t, _, err := tx.db.lookup(table)
	if err != nil {
		return err
	}
	sanitized, err := integrity.CheckUpdate(t, tx.db.rules[table], newRow, oldPK, tx.tx)
	if err != nil {
		return wrapIntegrityError(err)
	}
	if err := tx.tx.Update(table, oldPK, sanitized); err != nil {
		return transactionError("update %q: %v", table, err)
	}
	return nil
}

// Delete stages the row keyed by pk for removal on commit. Commit removes
// only that row: no cascade or restrict rule is applied to the rows that
// reference it.
func (tx *Transaction) Delete(table string, pk value.Value) error {
	if _, _, err := tx.db.lookup(table); err != nil {
		return err
	}
	if err := tx.tx.Delete(table, pk); err != nil {
		return transactionError("delete from %q: %v", table, err)
	}
	return nil
}

// Select runs q against this transaction's overlay-composed view of
// table: committed rows with tombstones/patches/inserts applied.
func (tx *Transaction) Select(table string, q query.Query) ([]query.Result, error) {
	if _, _, err := tx.db.lookup(table); err != nil {
		return nil, err
	}
	results, err := query.Execute(tx.tx.Rows(table), q, tx.db)
	if err != nil {
		return nil, queryError(err)
	}
	return results, nil
}

// Commit takes the transaction out of the database's session and applies
// every staged write to the base tables: per table, deletes first, then
// updates, then inserts. Tables are visited in no fixed order, and the
// order in which the writes were staged is not kept.
func (tx *Transaction) Commit() error {
	if err := tx.db.session.Commit(tx.tx.Owner); err != nil {
		return transactionError("commit: %v", err)
	}
	tx.db.log.WithField("owner", tx.tx.Owner).Debug("committed transaction")
	return nil
}

// Rollback discards the transaction's staged writes.
func (tx *Transaction) Rollback() error {
	if err := tx.db.session.Rollback(tx.tx.Owner); err != nil {
		return transactionError("rollback: %v", err)
	}
	return nil
}
