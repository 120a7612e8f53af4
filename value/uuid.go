package value

import (
	"github.com/google/uuid"

	"github.com/icdbms/icdbms/internal/encoding"
)

// Uuid wraps google/uuid.UUID, exactly as the original types::Uuid wraps
// uuid::Uuid.
type Uuid uuid.UUID

func (Uuid) Kind() Kind      { return KindUuid }
func (Uuid) IsNull() bool    { return false }
func (u Uuid) String() string { return uuid.UUID(u).String() }
func (u Uuid) Equal(other Value) bool {
	o, ok := other.(Uuid)
	return ok && u == o
}

// Compare orders byte-lexicographically over the 16-byte representation.
func (u Uuid) Compare(other Uuid) int {
	a, b := uuid.UUID(u), uuid.UUID(other)
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (Uuid) EncodedSize() uint16 { return 16 }
func (u Uuid) Encode() []byte {
	buf := make([]byte, 16)
	copy(buf, u[:])
	return buf
}

func DecodeUuid(data []byte) (Uuid, error) {
	if len(data) < 16 {
		return Uuid{}, encoding.ErrFixedTooShort
	}
	var u Uuid
	copy(u[:], data[:16])
	return u, nil
}
