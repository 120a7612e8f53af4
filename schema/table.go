package schema

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// TableSchema is the full column layout of one table: its name and its
// ordered columns. This is the unit catalog.SchemaRegistry fingerprints
// and binds to a registry page.
type TableSchema struct {
	Name    string
	Columns []Column
}

// ErrDuplicateColumn is returned by Validate when two columns share a name.
type ErrDuplicateColumn struct {
	Table, Column string
}

func (e *ErrDuplicateColumn) Error() string {
	return fmt.Sprintf("schema: table %q declares column %q more than once", e.Table, e.Column)
}

// ErrNoPrimaryKey is returned by Validate when a table declares zero
// primary-key columns.
type ErrNoPrimaryKey struct {
	Table string
}

func (e *ErrNoPrimaryKey) Error() string {
	return fmt.Sprintf("schema: table %q declares no primary key column", e.Table)
}

// Validate checks internal consistency: no duplicate column names, and at
// least one primary-key column.
func (t TableSchema) Validate() error {
	seen := make(map[string]bool, len(t.Columns))
	hasPK := false
	for _, c := range t.Columns {
		if seen[c.Name] {
			return &ErrDuplicateColumn{Table: t.Name, Column: c.Name}
		}
		seen[c.Name] = true
		if c.PrimaryKey {
			hasPK = true
		}
	}
	if !hasPK {
		return &ErrNoPrimaryKey{Table: t.Name}
	}
	return nil
}

// Column looks up a column by name.
func (t TableSchema) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ForeignKeys returns every column's ForeignKey, in column order.
func (t TableSchema) ForeignKeys() []ForeignKey {
	var fks []ForeignKey
	for _, c := range t.Columns {
		if c.ForeignKey != nil {
			fks = append(fks, *c.ForeignKey)
		}
	}
	return fks
}

// Fingerprint hashes a table's column definitions into the uint64 key
// catalog.SchemaRegistry maps to a registry page. The table name is
// deliberately excluded: the registry tracks name and fingerprint as
// separate fields and compares them independently, so that registering
// the same name under a different column layout can be detected as a
// schema mismatch rather than silently hashing away the conflict. Built
// with xxhash, already part of this module's dependency set as a fast
// non-cryptographic hash for exactly this kind of structural
// fingerprinting.
func (t TableSchema) Fingerprint() uint64 {
	h := xxhash.New()
	for _, c := range t.Columns {
		writeString(h, c.Name)
		writeUint64(h, uint64(c.Kind))
		writeBool(h, c.Nullable)
		writeBool(h, c.PrimaryKey)
		if fk := c.ForeignKey; fk != nil {
			writeBool(h, true)
			writeString(h, fk.LocalColumn)
			writeString(h, fk.ForeignTable)
			writeString(h, fk.ForeignColumn)
		} else {
			writeBool(h, false)
		}
	}
	return h.Sum64()
}

func writeString(h *xxhash.Digest, s string) {
	writeUint64(h, uint64(len(s)))
	_, _ = h.WriteString(s)
}

func writeUint64(h *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

func writeBool(h *xxhash.Digest, b bool) {
	if b {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}
