package encoding

// Dynamic types (strings, blobs, JSON text) carry a 2-byte little-endian
// length prefix followed by the raw bytes.

// EncodeLengthPrefixed prepends a u16 LE length to raw bytes. It panics if
// the payload exceeds u16 range — callers are expected to have validated
// this earlier (e.g. via a string-length sanitizer/validator).
func EncodeLengthPrefixed(raw []byte) []byte {
	if len(raw) > 0xFFFF {
		panic("encoding: dynamic payload exceeds u16 length prefix")
	}
	out := make([]byte, 2+len(raw))
	out[0] = byte(len(raw))
	out[1] = byte(len(raw) >> 8)
	copy(out[2:], raw)
	return out
}

// DecodeLengthPrefixed reads a u16 LE length prefix and returns the payload
// bytes that follow it, rejecting truncated inputs with ErrTooShort.
func DecodeLengthPrefixed(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, ErrTooShort
	}
	n := int(data[0]) | int(data[1])<<8
	if len(data) < 2+n {
		return nil, ErrTooShort
	}
	return data[2 : 2+n], nil
}

// DynamicEncodedSize returns the total encoded footprint (prefix + payload)
// for a dynamic value of the given raw payload length.
func DynamicEncodedSize(rawLen int) uint16 {
	return uint16(2 + rawLen)
}
