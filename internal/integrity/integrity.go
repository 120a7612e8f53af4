// Package integrity implements the schema-aware validation/sanitization
// pipeline (C11) that runs between a decoded row and the table registry:
// per-column sanitizers, per-column validators, foreign-key existence
// checks, and the primary-key presence/conflict checks for insert and
// update. It also builds the referenced-tables cache used by cascade and
// restrict delete.
package integrity

import (
	"fmt"

	"github.com/icdbms/icdbms/value"
)

// TableLookup is the narrow slice of the row store that integrity checks
// need: whether some other table already has a row whose column holds a
// given value. It is implemented by the transaction overlay
// (txn.Transaction) and the database façade (icdbms.Database); integrity
// depends only on this interface and imports neither.
type TableLookup interface {
	RowExistsWithColumnValue(table, column string, v value.Value) (bool, error)
}

// Validator rejects a column value outright.
type Validator interface {
	Validate(v value.Value) error
}

// Sanitizer normalizes a column value, optionally rejecting it if it
// cannot be brought into a valid shape (e.g. an out-of-range clamp).
type Sanitizer interface {
	Sanitize(v value.Value) (value.Value, error)
}

// ErrForeignKeyViolation reports a foreign key that does not resolve to
// any row in the referenced table.
type ErrForeignKeyViolation struct {
	Table  string
	Column string
	Value  value.Value
}

func (e *ErrForeignKeyViolation) Error() string {
	return fmt.Sprintf("integrity: %s.%s references a nonexistent row (value %s)", e.Table, e.Column, e.Value)
}

// ErrNotNullViolation reports a non-nullable column left absent or Null.
type ErrNotNullViolation struct {
	Table  string
	Column string
}

func (e *ErrNotNullViolation) Error() string {
	return fmt.Sprintf("integrity: %s.%s must not be null", e.Table, e.Column)
}

// ErrPrimaryKeyPresent reports an insert whose row already names a value
// for the primary key column that collides with an existing row.
type ErrPrimaryKeyPresent struct {
	Table  string
	Column string
	Value  value.Value
}

func (e *ErrPrimaryKeyPresent) Error() string {
	return fmt.Sprintf("integrity: %s.%s=%s already exists", e.Table, e.Column, e.Value)
}

// ErrPrimaryKeyConflict reports an update whose new primary key value
// collides with a different row's primary key.
type ErrPrimaryKeyConflict struct {
	Table  string
	Column string
	Value  value.Value
}

func (e *ErrPrimaryKeyConflict) Error() string {
	return fmt.Sprintf("integrity: %s.%s=%s conflicts with another row", e.Table, e.Column, e.Value)
}

// ValidationError wraps a column name around the Validator/Sanitizer
// error it produced, so a caller aggregating failures across columns can
// still tell which column failed.
type ValidationError struct {
	Column string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("integrity: column %q: %v", e.Column, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
