package icdbms

import "fmt"

// ErrCode is a flat error taxonomy, mirroring storage/errors.go's
// {Code, Message} shape: one enum plus typed constructor helpers and
// structured fields where a specific failure names more than a string
// (BrokenForeignKeyReference, ForeignKeyConstraintViolation), rather
// than a nested per-layer error hierarchy.
type ErrCode int

const (
	CodeInternal ErrCode = iota
	CodeMemory
	CodeQuery
	CodeTransaction
	CodeSanitize
	CodeValidation
	CodeNotFound
	CodeConflict
)

func (c ErrCode) String() string {
	switch c {
	case CodeInternal:
		return "internal"
	case CodeMemory:
		return "memory"
	case CodeQuery:
		return "query"
	case CodeTransaction:
		return "transaction"
	case CodeSanitize:
		return "sanitize"
	case CodeValidation:
		return "validation"
	case CodeNotFound:
		return "not_found"
	case CodeConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is the uniform error type every exported Database/Session method
// returns (wrapping a more specific cause where one exists).
type Error struct {
	Code    ErrCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("icdbms: %s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("icdbms: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func memoryError(format string, args ...any) error {
	return &Error{Code: CodeMemory, Message: fmt.Sprintf(format, args...)}
}

func queryError(cause error) error {
	return &Error{Code: CodeQuery, Message: "query failed", Cause: cause}
}

func transactionError(format string, args ...any) error {
	return &Error{Code: CodeTransaction, Message: fmt.Sprintf(format, args...)}
}

func wrapIntegrityError(cause error) error {
	return &Error{Code: CodeValidation, Message: "integrity check failed", Cause: cause}
}

func notFoundError(format string, args ...any) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is an Error with CodeNotFound, unwrapping
// through any wrapper.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsValidation reports whether err is an Error with CodeValidation.
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

// IsConflict reports whether err is an Error with CodeConflict.
func IsConflict(err error) bool { return hasCode(err, CodeConflict) }

func hasCode(err error, code ErrCode) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Code == code {
				return true
			}
			err = e.Cause
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// BrokenForeignKeyReference reports a write whose foreign key value Key
// does not resolve to any row in the referenced Table.
type BrokenForeignKeyReference struct {
	Table string
	Key   string
}

func (e *BrokenForeignKeyReference) Error() string {
	return fmt.Sprintf("icdbms: foreign key %s does not resolve to any row of %s", e.Key, e.Table)
}

// ForeignKeyConstraintViolation reports a restrict delete blocked because
// Table.Field still references the row being deleted.
type ForeignKeyConstraintViolation struct {
	Table string
	Field string
}

func (e *ForeignKeyConstraintViolation) Error() string {
	return fmt.Sprintf("icdbms: deleting this row would break a foreign key reference from %s.%s", e.Table, e.Field)
}
