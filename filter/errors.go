package filter

import "fmt"

// InvalidQueryError is returned when a filter is structurally
// well-formed but semantically nonsensical for the row it is evaluated
// against — e.g. a Like leaf naming a non-Text column.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("filter: invalid query: %s", e.Reason)
}

func invalidQueryf(format string, args ...any) error {
	return &InvalidQueryError{Reason: fmt.Sprintf(format, args...)}
}
