package value

import (
	"fmt"

	"github.com/icdbms/icdbms/internal/encoding"
)

// Date is a calendar date with no time-of-day component. Field widths
// mirror the original DateTime's calendar fields (year u16, month/day u8)
// since no standalone date type survived distillation into the reference
// sources — grounded on the sanitizer's DateTime shape, narrowed to the
// date-only fields.
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}

func (Date) Kind() Kind   { return KindDate }
func (Date) IsNull() bool { return false }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) Equal(other Value) bool {
	o, ok := other.(Date)
	return ok && d == o
}

// Compare orders dates chronologically (year, then month, then day).
func (d Date) Compare(other Date) int {
	if d.Year != other.Year {
		return cmpUint16(d.Year, other.Year)
	}
	if d.Month != other.Month {
		return cmpUint8(d.Month, other.Month)
	}
	return cmpUint8(d.Day, other.Day)
}

func (Date) EncodedSize() uint16 { return 4 }

func (d Date) Encode() []byte {
	buf := make([]byte, 4)
	copy(buf[0:2], encoding.EncodeUint16(d.Year))
	buf[2] = d.Month
	buf[3] = d.Day
	return buf
}

func DecodeDate(data []byte) (Date, error) {
	if len(data) < 4 {
		return Date{}, encoding.ErrFixedTooShort
	}
	year, _ := encoding.DecodeUint16(data[0:2])
	return Date{Year: year, Month: data[2], Day: data[3]}, nil
}

func cmpUint8(a, b uint8) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint16(a, b uint16) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
