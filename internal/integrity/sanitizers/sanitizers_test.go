package sanitizers

import (
	"testing"

	"github.com/icdbms/icdbms/value"
)

func TestClampSanitizer(t *testing.T) {
	c := ClampSanitizer{Min: 0, Max: 100}
	cases := []struct {
		in   value.Value
		want value.Value
	}{
		{value.Int32(50), value.Int32(50)},
		{value.Int32(-10), value.Int32(0)},
		{value.Int32(150), value.Int32(100)},
		{value.Text("not an integer"), value.Text("not an integer")},
	}
	for _, tt := range cases {
		got, err := c.Sanitize(tt.in)
		if err != nil {
			t.Fatalf("Sanitize(%v): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Sanitize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClampUnsignedSanitizer(t *testing.T) {
	c := ClampUnsignedSanitizer{Min: 0, Max: 100}
	cases := []struct {
		in   value.Value
		want value.Value
	}{
		{value.Uint32(50), value.Uint32(50)},
		{value.Uint32(0), value.Uint32(0)},
		{value.Uint32(150), value.Uint32(100)},
	}
	for _, tt := range cases {
		got, err := c.Sanitize(tt.in)
		if err != nil {
			t.Fatalf("Sanitize(%v): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Sanitize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func dt(y uint16, mo, d, h, mi, s uint8, us uint32, tz int16) value.DateTime {
	return value.DateTime{Year: y, Month: mo, Day: d, Hour: h, Minute: mi, Second: s, Microsecond: us, TimezoneOffsetMinutes: tz}
}

func TestTimezoneSanitizerNoopSameOffset(t *testing.T) {
	s := TimezoneSanitizer{OffsetMinutes: 120}
	in := dt(2024, 3, 10, 12, 30, 0, 0, 120)
	out, err := s.Sanitize(in)
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("got %+v, want noop %+v", out, in)
	}
}

func TestTimezoneSanitizerShiftsForward(t *testing.T) {
	s := TimezoneSanitizer{OffsetMinutes: 120}
	in := dt(2024, 3, 10, 12, 0, 0, 0, 60)
	want := dt(2024, 3, 10, 13, 0, 0, 0, 120)
	out, err := s.Sanitize(in)
	if err != nil {
		t.Fatal(err)
	}
	if out != want {
		t.Errorf("got %+v, want %+v", out, want)
	}
}

func TestUTCSanitizerUnderflowsDayBoundary(t *testing.T) {
	s := UTCSanitizer()
	in := dt(2024, 3, 10, 0, 30, 0, 0, 60)
	want := dt(2024, 3, 9, 23, 30, 0, 0, 0)
	out, err := s.Sanitize(in)
	if err != nil {
		t.Fatal(err)
	}
	if out != want {
		t.Errorf("got %+v, want %+v", out, want)
	}
}

func TestTimezoneSanitizerUnderflowsYearBoundary(t *testing.T) {
	s := TimezoneSanitizer{OffsetMinutes: 0}
	in := dt(2024, 1, 1, 0, 0, 0, 0, 60)
	want := dt(2023, 12, 31, 23, 0, 0, 0, 0)
	out, err := s.Sanitize(in)
	if err != nil {
		t.Fatal(err)
	}
	if out != want {
		t.Errorf("got %+v, want %+v", out, want)
	}
}

func TestTimezoneSanitizerPreservesMicroseconds(t *testing.T) {
	s := TimezoneSanitizer{OffsetMinutes: 60}
	in := dt(2024, 5, 20, 10, 0, 0, 999999, 0)
	want := dt(2024, 5, 20, 11, 0, 0, 999999, 60)
	out, err := s.Sanitize(in)
	if err != nil {
		t.Fatal(err)
	}
	if out != want {
		t.Errorf("got %+v, want %+v", out, want)
	}
}

func TestTimezoneSanitizerRoundTrips(t *testing.T) {
	in := dt(2024, 6, 15, 18, 45, 12, 123456, 0)
	toPlus2 := TimezoneSanitizer{OffsetMinutes: 120}
	toUTC := UTCSanitizer()

	v1, err := toPlus2.Sanitize(in)
	if err != nil {
		t.Fatal(err)
	}
	v2, err := toUTC.Sanitize(v1)
	if err != nil {
		t.Fatal(err)
	}
	if v2 != in {
		t.Errorf("round trip got %+v, want %+v", v2, in)
	}
}

func TestTimezoneSanitizerNoopOnNonDateTime(t *testing.T) {
	s := TimezoneSanitizer{OffsetMinutes: 60}
	in := value.Int32(42)
	out, err := s.Sanitize(in)
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("got %v, want noop %v", out, in)
	}
}
