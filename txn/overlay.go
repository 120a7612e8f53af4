package txn

import (
	"encoding/hex"

	"github.com/icdbms/icdbms/schema"
	"github.com/icdbms/icdbms/value"
)

// pkKey returns a comparable map key for a primary-key value. Value's
// concrete types are not all Go-comparable (Blob/Principal wrap []byte),
// so every key goes through its canonical encoded bytes instead of a
// direct map[value.Value] — the same reason schema.EncodeRow framing
// exists in the first place.
func pkKey(v value.Value) string {
	return string(v.Kind().String()[:1]) + hex.EncodeToString(value.Encode(v))
}

// patch is a pending UPDATE: the row's value at the time the
// transaction started (identified by its then-current primary key) and
// the fully sanitized replacement row.
type patch struct {
	oldPK  value.Value
	newRow schema.Row
}

// overlay is the uncommitted write set for one table within a single
// transaction: new rows not yet given a disk location, pending
// full-row replacements keyed by the row's original primary key, and
// pending deletes keyed the same way. Grounded on spec's description of
// the transaction overlay as inserts/tombstones/patches layered over a
// read of the base table.
type overlay struct {
	inserts    []schema.Row
	tombstones map[string]value.Value
	patches    map[string]patch
}

func newOverlay() *overlay {
	return &overlay{
		tombstones: make(map[string]value.Value),
		patches:    make(map[string]patch),
	}
}

// insertIndexByPK finds a pending insert whose primary key column equals
// pk, returning its index in o.inserts.
func (o *overlay) insertIndexByPK(pkColumn string, pk value.Value) (int, bool) {
	for i, row := range o.inserts {
		if v, ok := row[pkColumn]; ok && value.Compare(v, pk) == 0 {
			return i, true
		}
	}
	return 0, false
}
