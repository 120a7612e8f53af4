package schema

import (
	"fmt"

	"github.com/icdbms/icdbms/value"
)

// Row is a decoded record: one value.Value per declared column, keyed by
// column name. A column absent from the map is treated the same as an
// explicit Null for encoding purposes.
type Row map[string]value.Value

// Get returns the row's value for name, or Null if absent.
func (r Row) Get(name string) value.Value {
	if v, ok := r[name]; ok {
		return v
	}
	return value.Null{}
}

// Clone returns a shallow copy of r — values are themselves immutable,
// so copying the map is enough to let callers patch a copy without
// mutating the original.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ErrColumnNullability is returned by EncodeRow when a non-nullable
// column is missing or explicitly Null.
type ErrColumnNullability struct {
	Table, Column string
}

func (e *ErrColumnNullability) Error() string {
	return fmt.Sprintf("schema: column %q.%q is not nullable but has no value", e.Table, e.Column)
}

// EncodeRow serializes row according to t's column order: one presence
// byte per column (0 = null, 1 = present) followed by the value's own
// Encode() bytes when present. This is the "encoded row bytes" payload
// the table registry's raw record wraps with its own [u16 length]
// prefix; the presence byte is this module's answer to representing a
// nullable column inside a schema that, unlike the runtime Value union,
// does not carry a Null variant of its own per declared kind.
func EncodeRow(t TableSchema, row Row) ([]byte, error) {
	var out []byte
	for _, c := range t.Columns {
		v := row.Get(c.Name)
		if v.IsNull() {
			if !c.Nullable {
				return nil, &ErrColumnNullability{Table: t.Name, Column: c.Name}
			}
			out = append(out, 0)
			continue
		}
		if !c.AcceptsKind(v.Kind()) {
			return nil, fmt.Errorf("schema: column %q.%q expects %s, got %s", t.Name, c.Name, c.Kind, v.Kind())
		}
		out = append(out, 1)
		out = append(out, value.Encode(v)...)
	}
	return out, nil
}

// DecodeRow is EncodeRow's inverse.
func DecodeRow(t TableSchema, data []byte) (Row, error) {
	row := make(Row, len(t.Columns))
	off := 0
	for _, c := range t.Columns {
		if off >= len(data) {
			return nil, fmt.Errorf("schema: row truncated before column %q", c.Name)
		}
		present := data[off]
		off++
		if present == 0 {
			row[c.Name] = value.Null{}
			continue
		}
		runtimeKind, ok := declaredRuntimeKind(c.Kind)
		if !ok {
			return nil, fmt.Errorf("schema: column %q has unknown declared kind %v", c.Name, c.Kind)
		}
		v, n, err := value.Decode(runtimeKind, data[off:])
		if err != nil {
			return nil, fmt.Errorf("schema: decoding column %q: %w", c.Name, err)
		}
		row[c.Name] = v
		off += n
	}
	return row, nil
}
