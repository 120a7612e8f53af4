// Package icdbms implements the database façade (C14): Options/Open wire
// the byte store, page allocator, schema and table registries, integrity
// rules, and transaction session together into one handle exposing
// oneshot INSERT/UPDATE/DELETE/SELECT plus explicit BEGIN/COMMIT/ROLLBACK.
package icdbms

import (
	"github.com/sirupsen/logrus"

	"github.com/icdbms/icdbms/filter"
	"github.com/icdbms/icdbms/internal/catalog"
	"github.com/icdbms/icdbms/internal/integrity"
	"github.com/icdbms/icdbms/internal/pagestore"
	"github.com/icdbms/icdbms/internal/tablestore"
	"github.com/icdbms/icdbms/query"
	"github.com/icdbms/icdbms/schema"
	"github.com/icdbms/icdbms/txn"
	"github.com/icdbms/icdbms/value"
)

// DeleteMode selects the foreign-key policy a Delete applies to rows
// referencing the deleted record.
type DeleteMode int

const (
	// Restrict fails the whole Delete if any referencing row exists.
	Restrict DeleteMode = iota
	// Cascade recursively removes every referencing row first.
	Cascade
)

// Options configures Open. The zero value is usable: it opens a fresh
// in-memory store at the default page size.
type Options struct {
	PageSize     uint32
	Store        pagestore.ByteStore
	RowAlignment uint16
	Logger       logrus.FieldLogger

	configErr error
}

// Option mutates Options; WithX helpers build one.
type Option func(*Options)

// WithPageSize overrides the backing store's page size.
func WithPageSize(n uint32) Option { return func(o *Options) { o.PageSize = n } }

// WithStore supplies a caller-owned ByteStore instead of an in-memory one.
func WithStore(s pagestore.ByteStore) Option { return func(o *Options) { o.Store = s } }

// WithRowAlignment overrides the per-table registry's row alignment.
func WithRowAlignment(n uint16) Option { return func(o *Options) { o.RowAlignment = n } }

// WithLogger redirects the database's structured logging.
func WithLogger(log logrus.FieldLogger) Option { return func(o *Options) { o.Logger = log } }

// Database is the open handle returned by Open: every table named at
// open time, its integrity rules, the precomputed reference graph, and
// the single-writer transaction session.
type Database struct {
	alloc          *pagestore.Allocator
	schemaRegistry *catalog.SchemaRegistry
	tables         map[string]*tablestore.Table
	schemas        map[string]schema.TableSchema
	rules          map[string]*integrity.Rules
	refs           *integrity.ReferenceGraph
	session        *txn.Session
	log            logrus.FieldLogger
}

// Open initializes (or reopens, if Options.Store already holds data) a
// database over exactly the given table schemas.
func Open(tables []schema.TableSchema, opts ...Option) (*Database, error) {
	o := Options{PageSize: pagestore.DefaultPageSize, RowAlignment: 2}
	for _, fn := range opts {
		fn(&o)
	}
	if o.configErr != nil {
		return nil, &Error{Code: CodeInternal, Message: "loading options from file", Cause: o.configErr}
	}
	store := o.Store
	if store == nil {
		store = pagestore.NewMemStore()
	}
	log := o.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	alloc, err := pagestore.NewAllocator(store, o.PageSize, log)
	if err != nil {
		return nil, memoryError("opening allocator: %v", err)
	}

	root, found, err := alloc.SchemaRegistryRoot()
	if err != nil {
		return nil, memoryError("reading schema registry root: %v", err)
	}
	if !found {
		page, err := alloc.AllocatePage()
		if err != nil {
			return nil, memoryError("allocating schema registry root: %v", err)
		}
		if err := alloc.SetSchemaRegistryRoot(page); err != nil {
			return nil, memoryError("setting schema registry root: %v", err)
		}
		root = page
	}

	schemaRegistry, err := catalog.OpenSchemaRegistry(alloc, root)
	if err != nil {
		return nil, memoryError("opening schema registry: %v", err)
	}

	db := &Database{
		alloc:          alloc,
		schemaRegistry: schemaRegistry,
		tables:         make(map[string]*tablestore.Table, len(tables)),
		schemas:        make(map[string]schema.TableSchema, len(tables)),
		rules:          make(map[string]*integrity.Rules, len(tables)),
		log:            log,
	}

	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return nil, &Error{Code: CodeValidation, Message: "invalid table schema", Cause: err}
		}
		registryPage, err := schemaRegistry.RegisterTable(t.Fingerprint(), t.Name)
		if err != nil {
			return nil, &Error{Code: CodeInternal, Message: "registering table schema", Cause: err}
		}
		tableRegistry, err := catalog.OpenTableRegistry(alloc, registryPage, o.RowAlignment)
		if err != nil {
			return nil, memoryError("opening table registry for %q: %v", t.Name, err)
		}
		db.tables[t.Name] = tablestore.Open(t, tableRegistry)
		db.schemas[t.Name] = t
		db.rules[t.Name] = integrity.NewRules()
	}

	db.refs = integrity.BuildReferenceGraph(tables)
	db.session = txn.NewSession(db)
	return db, nil
}

// Table implements txn.TableSource and query.TableSource, letting both
// packages resolve a table name against the tables this database opened.
func (db *Database) Table(name string) (*tablestore.Table, bool) {
	t, ok := db.tables[name]
	return t, ok
}

// Rules returns the mutable integrity rule set attached to table, so
// callers can register validators/sanitizers after Open.
func (db *Database) Rules(table string) (*integrity.Rules, bool) {
	r, ok := db.rules[table]
	return r, ok
}

// RowExistsWithColumnValue implements internal/integrity.TableLookup
// against committed state only (no transaction overlay) — the lookup a
// oneshot INSERT/UPDATE validates against.
func (db *Database) RowExistsWithColumnValue(table, column string, v value.Value) (bool, error) {
	_, ts, err := db.lookup(table)
	if err != nil {
		return false, err
	}
	return ts.ExistsByColumnValue(column, v)
}

func (db *Database) lookup(table string) (schema.TableSchema, *tablestore.Table, error) {
	t, ok := db.schemas[table]
	if !ok {
		return schema.TableSchema{}, nil, notFoundError("table %q not found", table)
	}
	return t, db.tables[table], nil
}

// Insert sanitizes and validates row, then writes it directly via the
// table registry (the oneshot path).
func (db *Database) Insert(table string, row schema.Row) error {
	t, ts, err := db.lookup(table)
	if err != nil {
		return err
	}
	sanitized, err := integrity.CheckInsert(t, db.rules[table], row, db)
	if err != nil {
		return wrapIntegrityError(err)
	}
	if _, err := ts.Insert(sanitized); err != nil {
		return memoryError("inserting into %q: %v", table, err)
	}
	db.log.WithField("table", table).Debug("inserted row")
	return nil
}

// Update applies patch to every row of table matching f (or every row, if
// f is nil): sanitizes and validates the merged row with old_pk set to
// the row's current primary key, writes it back through the table
// registry (in place, or relocated if it grew), and — if the
// primary key itself changed — propagates the change to every table
// referencing this one. Returns the number of rows updated.
func (db *Database) Update(table string, f filter.Filter, patch schema.Row) (int, error) {
	t, ts, err := db.lookup(table)
	if err != nil {
		return 0, err
	}
	pkCol, hasPK := ts.PrimaryKey()

	records, err := ts.ReadAll()
	if err != nil {
		return 0, memoryError("reading %q: %v", table, err)
	}

	count := 0
	for _, rec := range records {
		if f != nil {
			ok, err := f.Eval(rec.Row)
			if err != nil {
				return count, queryError(err)
			}
			if !ok {
				continue
			}
		}

		var oldPK value.Value = value.Null{}
		if hasPK {
			oldPK = rec.Row.Get(pkCol.Name)
		}
		newRow := rec.Row.Clone()
		for col, v := range patch {
			newRow[col] = v
		}

		sanitized, err := integrity.CheckUpdate(t, db.rules[table], newRow, oldPK, db)
		if err != nil {
			return count, wrapIntegrityError(err)
		}
		if _, err := ts.Update(sanitized, rec.Location); err != nil {
			return count, memoryError("updating %q: %v", table, err)
		}
		count++

		if hasPK {
			newPK := sanitized.Get(pkCol.Name)
			if value.Compare(newPK, oldPK) != 0 {
				if err := db.propagatePrimaryKeyUpdate(table, oldPK, newPK); err != nil {
					return count, err
				}
			}
		}
	}
	return count, nil
}

func (db *Database) propagatePrimaryKeyUpdate(table string, oldPK, newPK value.Value) error {
	for _, ref := range db.refs.ReferencingTables(table) {
		if _, err := db.Update(ref.Table, filter.Eq{Column: ref.Column, Value: oldPK}, schema.Row{ref.Column: newPK}); err != nil {
			return err
		}
		db.log.WithFields(logrus.Fields{"table": ref.Table, "column": ref.Column}).
			Debug("propagated primary key update")
	}
	return nil
}

// Delete removes every row of table matching f (or every row, if f is
// nil), applying mode to rows in tables that reference it. Returns the
// total number of rows removed across every affected table.
func (db *Database) Delete(table string, f filter.Filter, mode DeleteMode) (int, error) {
	_, ts, err := db.lookup(table)
	if err != nil {
		return 0, err
	}
	pkCol, hasPK := ts.PrimaryKey()

	records, err := ts.ReadAll()
	if err != nil {
		return 0, memoryError("reading %q: %v", table, err)
	}

	total := 0
	for _, rec := range records {
		if f != nil {
			ok, err := f.Eval(rec.Row)
			if err != nil {
				return total, queryError(err)
			}
			if !ok {
				continue
			}
		}

		var pk value.Value = value.Null{}
		if hasPK {
			pk = rec.Row.Get(pkCol.Name)
		}
		removed, err := db.cascadeDelete(table, pk, mode)
		if err != nil {
			return total, err
		}
		total += removed

		if err := ts.Delete(rec.Location); err != nil {
			return total, memoryError("deleting from %q: %v", table, err)
		}
		total++
	}
	db.log.WithFields(logrus.Fields{"table": table, "removed": total}).Debug("deleted rows")
	return total, nil
}

// cascadeDelete removes, recursively, every row in a table referencing
// (table, pk), returning how many rows it removed. Under Restrict it
// instead fails as soon as any referencing row is found, leaving the
// caller's Delete to abort the whole operation per the oneshot
// atomic-block policy.
func (db *Database) cascadeDelete(table string, pk value.Value, mode DeleteMode) (int, error) {
	count := 0
	for _, ref := range db.refs.ReferencingTables(table) {
		_, refTable, err := db.lookup(ref.Table)
		if err != nil {
			return count, err
		}
		refRecords, err := refTable.ReadAll()
		if err != nil {
			return count, memoryError("reading %q: %v", ref.Table, err)
		}
		refPKCol, refHasPK := refTable.PrimaryKey()

		for _, rec := range refRecords {
			v, ok := rec.Row[ref.Column]
			if !ok || v.IsNull() || value.Compare(v, pk) != 0 {
				continue
			}
			if mode == Restrict {
				return count, &Error{
					Code:    CodeConflict,
					Message: "restrict delete blocked by a referencing row",
					Cause:   &ForeignKeyConstraintViolation{Table: ref.Table, Field: ref.Column},
				}
			}

			var childPK value.Value = value.Null{}
			if refHasPK {
				childPK = rec.Row.Get(refPKCol.Name)
			}
			sub, err := db.cascadeDelete(ref.Table, childPK, mode)
			if err != nil {
				return count, err
			}
			count += sub

			if err := refTable.Delete(rec.Location); err != nil {
				return count, memoryError("cascading delete into %q: %v", ref.Table, err)
			}
			count++
		}
	}
	return count, nil
}

// Select runs q against table's committed rows (the oneshot read path —
// no transaction involved).
func (db *Database) Select(table string, q query.Query) ([]query.Result, error) {
	_, ts, err := db.lookup(table)
	if err != nil {
		return nil, err
	}
	rows := func(yield func(schema.Row, error) bool) {
		for rec, err := range ts.Scan() {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec.Row, nil) {
				return
			}
		}
	}
	results, err := query.Execute(rows, q, db)
	if err != nil {
		return nil, queryError(err)
	}
	return results, nil
}
