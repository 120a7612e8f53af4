// Package value implements the tagged union of typed values a row column
// can hold. Value is the common interface; each supported type is its own
// concrete Go type implementing it, following the same shape as OPA's
// ast.Value (one named type per JSON term kind) rather than a single
// struct with a discriminant field and a grab-bag of unused slots.
package value

import "fmt"

// Kind identifies which concrete type a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindDecimal
	KindDate
	KindDateTime
	KindText
	KindBlob
	KindJson
	KindPrincipal
	KindUuid
)

var kindNames = [...]string{
	KindNull:      "Null",
	KindBool:      "Bool",
	KindInt8:      "Int8",
	KindInt16:     "Int16",
	KindInt32:     "Int32",
	KindInt64:     "Int64",
	KindUint8:     "Uint8",
	KindUint16:    "Uint16",
	KindUint32:    "Uint32",
	KindUint64:    "Uint64",
	KindDecimal:   "Decimal",
	KindDate:      "Date",
	KindDateTime:  "DateTime",
	KindText:      "Text",
	KindBlob:      "Blob",
	KindJson:      "Json",
	KindPrincipal: "Principal",
	KindUuid:      "Uuid",
}

// String returns the variant's name, e.g. "Int32".
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is the interface every typed column value implements. Equality is
// variant-aware: two values of different Kind are never Equal, including
// Null, which equals only Null.
type Value interface {
	Kind() Kind
	IsNull() bool
	Equal(other Value) bool
	String() string
}

// TypeName returns v's variant name — the Go counterpart of the original
// value.rs's type_name().
func TypeName(v Value) string { return v.Kind().String() }

// Null is the sole inhabitant of the Null variant.
type Null struct{}

// Kind returns KindNull.
func (Null) Kind() Kind { return KindNull }

// IsNull always returns true.
func (Null) IsNull() bool { return true }

// Equal returns true only if other is also Null.
func (Null) Equal(other Value) bool {
	_, ok := other.(Null)
	return ok
}

func (Null) String() string { return "null" }

// Bool wraps a boolean column value.
type Bool bool

func (Bool) Kind() Kind     { return KindBool }
func (Bool) IsNull() bool   { return false }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Equal returns true iff other is a Bool with the same value.
func (b Bool) Equal(other Value) bool {
	o, ok := other.(Bool)
	return ok && b == o
}

// Compare orders false before true.
func (b Bool) Compare(other Bool) int {
	if b == other {
		return 0
	}
	if !b {
		return -1
	}
	return 1
}
