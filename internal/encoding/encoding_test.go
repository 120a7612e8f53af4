package encoding

import "testing"

func TestAlignUp(t *testing.T) {
	tests := []struct {
		note      string
		n         uint32
		alignment uint16
		expected  uint32
	}{
		{"already aligned", 16, 8, 16},
		{"rounds up", 17, 8, 24},
		{"zero", 0, 8, 0},
		{"alignment one", 5, 1, 5},
	}
	for _, tc := range tests {
		if got := AlignUp(tc.n, tc.alignment); got != tc.expected {
			t.Errorf("%s: AlignUp(%d, %d) = %d, want %d", tc.note, tc.n, tc.alignment, got, tc.expected)
		}
	}
}

func TestPrimitiveRoundTrip(t *testing.T) {
	if v, err := DecodeUint32(EncodeUint32(123456)); err != nil || v != 123456 {
		t.Fatalf("uint32 round trip failed: %v %v", v, err)
	}
	if v, err := DecodeInt64(EncodeInt64(-9876543210)); err != nil || v != -9876543210 {
		t.Fatalf("int64 round trip failed: %v %v", v, err)
	}
	if v, err := DecodeBool(EncodeBool(true)); err != nil || !v {
		t.Fatalf("bool round trip failed: %v %v", v, err)
	}
}

func TestFixedDecodeRejectsShortInput(t *testing.T) {
	if _, err := DecodeUint32([]byte{1, 2}); err != ErrFixedTooShort {
		t.Fatalf("expected ErrFixedTooShort, got %v", err)
	}
}

func TestDynamicRoundTrip(t *testing.T) {
	payload := []byte("hello world")
	encoded := EncodeLengthPrefixed(payload)
	if int(DynamicEncodedSize(len(payload))) != len(encoded) {
		t.Fatalf("size mismatch: %d vs %d", DynamicEncodedSize(len(payload)), len(encoded))
	}
	decoded, err := DecodeLengthPrefixed(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if string(decoded) != string(payload) {
		t.Fatalf("got %q, want %q", decoded, payload)
	}
}

func TestDynamicDecodeTruncated(t *testing.T) {
	encoded := EncodeLengthPrefixed([]byte("hello"))
	if _, err := DecodeLengthPrefixed(encoded[:3]); err != ErrTooShort {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
	if _, err := DecodeLengthPrefixed([]byte{1}); err != ErrTooShort {
		t.Fatalf("expected ErrTooShort for missing prefix, got %v", err)
	}
}
