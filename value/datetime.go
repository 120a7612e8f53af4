package value

import (
	"fmt"

	"github.com/icdbms/icdbms/internal/encoding"
)

// DateTime mirrors the original sanitize/timezone.rs DateTime struct field
// for field: calendar components down to microsecond resolution plus a
// signed timezone offset in minutes from UTC.
type DateTime struct {
	Year                  uint16
	Month                 uint8
	Day                   uint8
	Hour                  uint8
	Minute                uint8
	Second                uint8
	Microsecond           uint32
	TimezoneOffsetMinutes int16
}

func (DateTime) Kind() Kind   { return KindDateTime }
func (DateTime) IsNull() bool { return false }

func (dt DateTime) String() string {
	sign := "+"
	off := dt.TimezoneOffsetMinutes
	if off < 0 {
		sign = "-"
		off = -off
	}
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%06d%s%02d:%02d",
		dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second, dt.Microsecond,
		sign, off/60, off%60)
}

func (dt DateTime) Equal(other Value) bool {
	o, ok := other.(DateTime)
	return ok && dt == o
}

// Compare orders by absolute instant: the offset is folded into the
// comparison via the same microsecond-since-epoch math the original
// TimezoneSanitizer uses (a UTC day/month table, no external calendar
// library), so two DateTime values on opposite sides of a timezone
// boundary still compare correctly.
func (dt DateTime) Compare(other DateTime) int {
	a, b := dateTimeToMicros(dt), dateTimeToMicros(other)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func dateTimeToMicros(dt DateTime) int64 {
	var days int64
	for y := 1970; y < int(dt.Year); y++ {
		days += daysInYear(y)
	}
	for m := 1; m < int(dt.Month); m++ {
		days += int64(daysInMonth(int(dt.Year), m))
	}
	days += int64(dt.Day) - 1

	seconds := days*86400 + int64(dt.Hour)*3600 + int64(dt.Minute)*60 + int64(dt.Second)
	micros := seconds*1_000_000 + int64(dt.Microsecond)
	return micros - int64(dt.TimezoneOffsetMinutes)*60*1_000_000
}

func isLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

func daysInYear(y int) int64 {
	if isLeapYear(y) {
		return 366
	}
	return 365
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

func (DateTime) EncodedSize() uint16 { return 13 }

func (dt DateTime) Encode() []byte {
	buf := make([]byte, 13)
	copy(buf[0:2], encoding.EncodeUint16(dt.Year))
	buf[2] = dt.Month
	buf[3] = dt.Day
	buf[4] = dt.Hour
	buf[5] = dt.Minute
	buf[6] = dt.Second
	copy(buf[7:11], encoding.EncodeUint32(dt.Microsecond))
	copy(buf[11:13], encoding.EncodeInt16(dt.TimezoneOffsetMinutes))
	return buf
}

func DecodeDateTime(data []byte) (DateTime, error) {
	if len(data) < 13 {
		return DateTime{}, encoding.ErrFixedTooShort
	}
	year, _ := encoding.DecodeUint16(data[0:2])
	micro, _ := encoding.DecodeUint32(data[7:11])
	tz, _ := encoding.DecodeInt16(data[11:13])
	return DateTime{
		Year: year, Month: data[2], Day: data[3],
		Hour: data[4], Minute: data[5], Second: data[6],
		Microsecond: micro, TimezoneOffsetMinutes: tz,
	}, nil
}
