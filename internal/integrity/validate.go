package integrity

import (
	"go.uber.org/multierr"

	"github.com/icdbms/icdbms/schema"
	"github.com/icdbms/icdbms/value"
)

// Sanitize runs every sanitizer attached to a present column, in
// registration order, replacing the row's value with each sanitizer's
// output in turn. A sanitizer error aborts immediately: a failed clamp or
// normalization leaves the row in an indeterminate state, so there is
// nothing useful left to sanitize.
func Sanitize(t schema.TableSchema, rules *Rules, row schema.Row) (schema.Row, error) {
	out := row.Clone()
	for _, col := range t.Columns {
		v, ok := out[col.Name]
		if !ok {
			continue
		}
		for _, s := range rules.SanitizersFor(col.Name) {
			sanitized, err := s.Sanitize(v)
			if err != nil {
				return nil, &ValidationError{Column: col.Name, Err: err}
			}
			v = sanitized
		}
		out[col.Name] = v
	}
	return out, nil
}

// Validate runs every validator attached to each present column and
// aggregates every failure via multierr.Append, so a caller sees all
// rejected columns in one report instead of just the first.
func Validate(t schema.TableSchema, rules *Rules, row schema.Row) error {
	var errs error
	for _, col := range t.Columns {
		v, ok := row[col.Name]
		if !ok {
			continue
		}
		for _, validator := range rules.ValidatorsFor(col.Name) {
			if err := validator.Validate(v); err != nil {
				errs = multierr.Append(errs, &ValidationError{Column: col.Name, Err: err})
			}
		}
	}
	return errs
}

// CheckNotNull rejects any non-nullable column left absent or explicitly
// Null.
func CheckNotNull(t schema.TableSchema, row schema.Row) error {
	var errs error
	for _, col := range t.Columns {
		if col.Nullable {
			continue
		}
		v, ok := row[col.Name]
		if !ok || v.IsNull() {
			errs = multierr.Append(errs, &ErrNotNullViolation{Table: t.Name, Column: col.Name})
		}
	}
	return errs
}

// CheckForeignKeys resolves every foreign-key column present (and
// non-null) in row against the referenced table via lookup, reporting
// every column that fails to resolve.
func CheckForeignKeys(t schema.TableSchema, row schema.Row, lookup TableLookup) error {
	var errs error
	for _, fk := range t.ForeignKeys() {
		v, ok := row[fk.LocalColumn]
		if !ok || v.IsNull() {
			continue
		}
		exists, err := lookup.RowExistsWithColumnValue(fk.ForeignTable, fk.ForeignColumn, v)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !exists {
			errs = multierr.Append(errs, &ErrForeignKeyViolation{Table: t.Name, Column: fk.LocalColumn, Value: v})
		}
	}
	return errs
}

// CheckInsertPrimaryKey rejects an insert whose primary-key value already
// names an existing row. The primary key column is looked up by
// definition of unique, so any hit is a conflict.
func CheckInsertPrimaryKey(t schema.TableSchema, row schema.Row, lookup TableLookup) error {
	pkCol, ok := primaryKeyColumn(t)
	if !ok {
		return nil
	}
	v, ok := row[pkCol.Name]
	if !ok || v.IsNull() {
		return nil
	}
	exists, err := lookup.RowExistsWithColumnValue(t.Name, pkCol.Name, v)
	if err != nil {
		return err
	}
	if exists {
		return &ErrPrimaryKeyPresent{Table: t.Name, Column: pkCol.Name, Value: v}
	}
	return nil
}

// CheckUpdatePrimaryKey rejects an update that would move a row's primary
// key onto a value some other row already holds. Because a primary-key
// lookup is unique by construction, existence of the new value is only a
// conflict when it differs from the row's own previous value — finding
// one's own row under its old key is not a collision.
func CheckUpdatePrimaryKey(t schema.TableSchema, newRow schema.Row, oldPK value.Value, lookup TableLookup) error {
	pkCol, ok := primaryKeyColumn(t)
	if !ok {
		return nil
	}
	newPK, ok := newRow[pkCol.Name]
	if !ok || newPK.IsNull() {
		return nil
	}
	if value.Compare(newPK, oldPK) == 0 {
		return nil
	}
	exists, err := lookup.RowExistsWithColumnValue(t.Name, pkCol.Name, newPK)
	if err != nil {
		return err
	}
	if exists {
		return &ErrPrimaryKeyConflict{Table: t.Name, Column: pkCol.Name, Value: newPK}
	}
	return nil
}

func primaryKeyColumn(t schema.TableSchema) (schema.Column, bool) {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c, true
		}
	}
	return schema.Column{}, false
}

// CheckInsert runs the full write-path pipeline for a new row: sanitize,
// validate, not-null, foreign keys, then primary-key presence. It returns
// the sanitized row so the caller encodes exactly what was checked.
func CheckInsert(t schema.TableSchema, rules *Rules, row schema.Row, lookup TableLookup) (schema.Row, error) {
	sanitized, err := Sanitize(t, rules, row)
	if err != nil {
		return nil, err
	}
	var errs error
	errs = multierr.Append(errs, Validate(t, rules, sanitized))
	errs = multierr.Append(errs, CheckNotNull(t, sanitized))
	errs = multierr.Append(errs, CheckForeignKeys(t, sanitized, lookup))
	errs = multierr.Append(errs, CheckInsertPrimaryKey(t, sanitized, lookup))
	if errs != nil {
		return nil, errs
	}
	return sanitized, nil
}

// CheckUpdate runs the full write-path pipeline for a row replacing the
// row previously keyed by oldPK.
func CheckUpdate(t schema.TableSchema, rules *Rules, row schema.Row, oldPK value.Value, lookup TableLookup) (schema.Row, error) {
	sanitized, err := Sanitize(t, rules, row)
	if err != nil {
		return nil, err
	}
	var errs error
	errs = multierr.Append(errs, Validate(t, rules, sanitized))
	errs = multierr.Append(errs, CheckNotNull(t, sanitized))
	errs = multierr.Append(errs, CheckForeignKeys(t, sanitized, lookup))
	errs = multierr.Append(errs, CheckUpdatePrimaryKey(t, sanitized, oldPK, lookup))
	if errs != nil {
		return nil, errs
	}
	return sanitized, nil
}
