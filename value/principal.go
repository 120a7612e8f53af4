package value

import (
	"encoding/hex"

	"github.com/icdbms/icdbms/internal/encoding"
)

// Principal is an opaque byte-string identity, grounded on the original
// value.rs's use of candid::Principal as the underlying type for this
// variant. The IC's textual (CRC32 + base32, dash-grouped) rendering is a
// host/canister-boundary concern this module has no stake in (host-
// environment bindings are explicitly out of scope here), so String
// renders the identity as plain hex rather than reimplementing that
// encoding.
type Principal []byte

func (Principal) Kind() Kind   { return KindPrincipal }
func (Principal) IsNull() bool { return false }
func (p Principal) String() string {
	return hex.EncodeToString(p)
}
func (p Principal) Equal(other Value) bool {
	o, ok := other.(Principal)
	return ok && string(p) == string(o)
}

// Compare orders byte-lexicographically.
func (p Principal) Compare(other Principal) int {
	switch {
	case string(p) < string(other):
		return -1
	case string(p) > string(other):
		return 1
	default:
		return 0
	}
}

func (p Principal) EncodedSize() uint16 { return encoding.DynamicEncodedSize(len(p)) }
func (p Principal) Encode() []byte      { return encoding.EncodeLengthPrefixed(p) }

func DecodePrincipal(data []byte) (Principal, error) {
	raw, err := encoding.DecodeLengthPrefixed(data)
	if err != nil {
		return nil, err
	}
	out := make(Principal, len(raw))
	copy(out, raw)
	return out, nil
}
