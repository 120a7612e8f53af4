package value

import (
	"fmt"

	"github.com/icdbms/icdbms/internal/encoding"
)

// Decimal is an exact fixed-point number: Mantissa * 10^-Scale. Grounded on
// the reference value.rs's Decimal variant; this module's dependency set
// carries no arbitrary-precision decimal library, so rather than adding an
// unwired third-party dependency this is hand-rolled as an int64 mantissa
// + int32 scale pair (see DESIGN.md).
type Decimal struct {
	Mantissa int64
	Scale    int32
}

func (Decimal) Kind() Kind   { return KindDecimal }
func (Decimal) IsNull() bool { return false }

func (d Decimal) String() string {
	if d.Scale <= 0 {
		return fmt.Sprintf("%de%d", d.Mantissa, -d.Scale)
	}
	neg := d.Mantissa < 0
	m := d.Mantissa
	if neg {
		m = -m
	}
	s := fmt.Sprintf("%0*d", int(d.Scale)+1, m)
	intPart, fracPart := s[:len(s)-int(d.Scale)], s[len(s)-int(d.Scale):]
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%s.%s", sign, intPart, fracPart)
}

// Equal compares the (mantissa, scale) pair as stored, not the represented
// numeric value — 1.50 and 1.5 are distinct Decimal encodings, matching a
// derived PartialEq over the two fields rather than a normalized compare.
func (d Decimal) Equal(other Value) bool {
	o, ok := other.(Decimal)
	return ok && d == o
}

// Compare orders by represented numeric value, rescaling the narrower side
// to the wider scale first so 1.5 and 1.50 compare equal even though they
// are not Equal.
func (d Decimal) Compare(other Decimal) int {
	a, b := d.Mantissa, other.Mantissa
	switch {
	case d.Scale < other.Scale:
		a *= pow10(other.Scale - d.Scale)
	case other.Scale < d.Scale:
		b *= pow10(d.Scale - other.Scale)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func pow10(n int32) int64 {
	r := int64(1)
	for range n {
		r *= 10
	}
	return r
}

// EncodedSize returns Decimal's fixed on-disk footprint (8-byte mantissa + 4-byte scale).
func (Decimal) EncodedSize() uint16 { return 12 }

func (d Decimal) Encode() []byte {
	buf := make([]byte, 12)
	copy(buf[0:8], encoding.EncodeInt64(d.Mantissa))
	copy(buf[8:12], encoding.EncodeInt32(d.Scale))
	return buf
}

func DecodeDecimal(data []byte) (Decimal, error) {
	if len(data) < 12 {
		return Decimal{}, encoding.ErrFixedTooShort
	}
	mantissa, _ := encoding.DecodeInt64(data[0:8])
	scale, _ := encoding.DecodeInt32(data[8:12])
	return Decimal{Mantissa: mantissa, Scale: scale}, nil
}
