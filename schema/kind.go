// Package schema defines table and column declarations: the DataTypeKind
// a column is declared with, foreign-key references, and the fingerprint
// that binds a table's column layout to its catalog.SchemaRegistry entry.
package schema

// DataTypeKind names the declared type of a column. It is intentionally
// narrower than value.Kind: column declarations only ever name Int32,
// Int64, Uint32, or Uint64 for integers (never the 8/16-bit widths,
// which only ever appear as intermediate/computed runtime values), and
// there is no separate Null declaration since nullability is its own
// Column field. Grounded on the reference types.rs's DataTypeKind enum.
type DataTypeKind int

const (
	KindBoolean DataTypeKind = iota
	KindInt32
	KindInt64
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

var dataTypeKindNames = [...]string{
	"Boolean", "Int32", "Int64", "Uint32", "Uint64", "Decimal",
	"Date", "DateTime", "Text", "Blob", "Json", "Principal", "Uuid",
}

func (k DataTypeKind) String() string {
	if k < 0 || int(k) >= len(dataTypeKindNames) {
		return "Unknown"
	}
	return dataTypeKindNames[k]
}

// Valid reports whether k is one of the declared DataTypeKind variants.
func (k DataTypeKind) Valid() bool {
	return k >= KindBoolean && k <= KindUuid
}
