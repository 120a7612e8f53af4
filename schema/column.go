package schema

import (
	"fmt"

	"github.com/icdbms/icdbms/value"
)

// ForeignKey ties a column to a column on another table: local_column must
// equal some row's foreign_column in foreign_table for the reference to
// hold. Grounded on the reference column_def.rs's ForeignKeyDef.
type ForeignKey struct {
	LocalColumn   string
	ForeignTable  string
	ForeignColumn string
}

// Column declares one column of a table: its name, declared kind,
// nullability, primary-key membership, and optional foreign key.
// Grounded on the reference column_def.rs's ColumnDef.
type Column struct {
	Name       string
	Kind       DataTypeKind
	Nullable   bool
	PrimaryKey bool
	ForeignKey *ForeignKey
}

// AcceptsKind reports whether a runtime value.Kind is a legal value for
// this column: Null only if Nullable, otherwise the value.Kind that
// DataTypeKind widens to (e.g. KindInt32 accepts value.KindInt32, never
// value.KindInt8 — a computed Int8 must be widened before storage).
func (c Column) AcceptsKind(k value.Kind) bool {
	if k == value.KindNull {
		return c.Nullable
	}
	want, ok := declaredRuntimeKind(c.Kind)
	return ok && want == k
}

func declaredRuntimeKind(k DataTypeKind) (value.Kind, bool) {
	switch k {
	case KindBoolean:
		return value.KindBool, true
	case KindInt32:
		return value.KindInt32, true
	case KindInt64:
		return value.KindInt64, true
	case KindUint32:
		return value.KindUint32, true
	case KindUint64:
		return value.KindUint64, true
	case KindDecimal:
		return value.KindDecimal, true
	case KindDate:
		return value.KindDate, true
	case KindDateTime:
		return value.KindDateTime, true
	case KindText:
		return value.KindText, true
	case KindBlob:
		return value.KindBlob, true
	case KindJson:
		return value.KindJson, true
	case KindPrincipal:
		return value.KindPrincipal, true
	case KindUuid:
		return value.KindUuid, true
	default:
		return 0, false
	}
}

func (c Column) String() string {
	nullable := ""
	if c.Nullable {
		nullable = " nullable"
	}
	pk := ""
	if c.PrimaryKey {
		pk = " primary_key"
	}
	return fmt.Sprintf("%s %s%s%s", c.Name, c.Kind, nullable, pk)
}
