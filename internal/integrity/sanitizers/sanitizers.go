// Package sanitizers implements the reusable column-attached sanitizers
// named in the integrity pipeline's original_source supplement: integer
// range clamping and DateTime timezone normalization.
package sanitizers

import (
	"fmt"

	"github.com/icdbms/icdbms/value"
)

func clampInt64(v, min, max int64) int64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampUint64(v, min, max uint64) uint64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampSanitizer clamps Int32/Int64 values into [Min, Max]; every other
// kind passes through unchanged. Grounded on the reference
// dbms/sanitize/clamp.rs ClampSanitizer.
type ClampSanitizer struct {
	Min, Max int64
}

func (c ClampSanitizer) Sanitize(v value.Value) (value.Value, error) {
	switch n := v.(type) {
	case value.Int32:
		clamped := clampInt64(int64(n), c.Min, c.Max)
		if clamped < int64(int32MinConst) || clamped > int64(int32MaxConst) {
			return nil, fmt.Errorf("sanitizers: clamped value %d out of Int32 range", clamped)
		}
		return value.Int32(clamped), nil
	case value.Int64:
		return value.Int64(clampInt64(int64(n), c.Min, c.Max)), nil
	default:
		return v, nil
	}
}

const (
	int32MinConst = -2147483648
	int32MaxConst = 2147483647
)

// ClampUnsignedSanitizer clamps Uint32/Uint64 values into [Min, Max];
// every other kind passes through unchanged. Grounded on the reference
// dbms/sanitize/clamp.rs ClampUnsignedSanitizer.
type ClampUnsignedSanitizer struct {
	Min, Max uint64
}

func (c ClampUnsignedSanitizer) Sanitize(v value.Value) (value.Value, error) {
	switch n := v.(type) {
	case value.Uint32:
		clamped := clampUint64(uint64(n), c.Min, c.Max)
		if clamped > uint64(uint32MaxConst) {
			return nil, fmt.Errorf("sanitizers: clamped value %d out of Uint32 range", clamped)
		}
		return value.Uint32(clamped), nil
	case value.Uint64:
		return value.Uint64(clampUint64(uint64(n), c.Min, c.Max)), nil
	default:
		return v, nil
	}
}

const uint32MaxConst = 4294967295

// TimezoneSanitizer normalizes a DateTime value's wall-clock fields so
// that it represents the same instant under a new timezone offset
// (minutes from UTC); every other kind passes through unchanged.
// Grounded on the reference dbms/sanitize/timezone.rs TimezoneSanitizer,
// including its microsecond-since-epoch round-trip arithmetic.
type TimezoneSanitizer struct {
	OffsetMinutes int16
}

// UTCSanitizer is TimezoneSanitizer{OffsetMinutes: 0}, named separately
// because the reference crate exposes it as its own type (UtcSanitizer).
func UTCSanitizer() TimezoneSanitizer { return TimezoneSanitizer{OffsetMinutes: 0} }

func (s TimezoneSanitizer) Sanitize(v value.Value) (value.Value, error) {
	dt, ok := v.(value.DateTime)
	if !ok {
		return v, nil
	}
	deltaMinutes := int64(s.OffsetMinutes) - int64(dt.TimezoneOffsetMinutes)
	deltaMicros := deltaMinutes * 60 * 1_000_000

	ts := dateTimeToMicros(dt) + deltaMicros
	out := microsToDateTime(ts)
	out.TimezoneOffsetMinutes = s.OffsetMinutes
	return out, nil
}

func isLeapYear(y int64) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

func daysInMonth(year, month int64) int64 {
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

func dateTimeToMicros(dt value.DateTime) int64 {
	var days int64
	for y := int64(1970); y < int64(dt.Year); y++ {
		if isLeapYear(y) {
			days += 366
		} else {
			days += 365
		}
	}
	for m := int64(1); m < int64(dt.Month); m++ {
		days += daysInMonth(int64(dt.Year), m)
	}
	days += int64(dt.Day) - 1

	seconds := days*86400 + int64(dt.Hour)*3600 + int64(dt.Minute)*60 + int64(dt.Second)
	return seconds*1_000_000 + int64(dt.Microsecond)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

func microsToDateTime(ts int64) value.DateTime {
	microsecond := floorMod(ts, 1_000_000)
	ts = floorDiv(ts, 1_000_000)

	second := floorMod(ts, 60)
	ts = floorDiv(ts, 60)

	minute := floorMod(ts, 60)
	ts = floorDiv(ts, 60)

	hour := floorMod(ts, 24)
	days := floorDiv(ts, 24)

	year := int64(1970)
	for {
		yd := int64(365)
		if isLeapYear(year) {
			yd = 366
		}
		if days >= yd {
			days -= yd
			year++
		} else {
			break
		}
	}

	month := int64(1)
	for {
		dim := daysInMonth(year, month)
		if days >= dim {
			days -= dim
			month++
		} else {
			break
		}
	}

	return value.DateTime{
		Year:        uint16(year),
		Month:       uint8(month),
		Day:         uint8(days + 1),
		Hour:        uint8(hour),
		Minute:      uint8(minute),
		Second:      uint8(second),
		Microsecond: uint32(microsecond),
	}
}
