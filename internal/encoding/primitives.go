package encoding

import "encoding/binary"

// Primitive sizes/alignments mirror native little-endian widths, matching
// the reference prototype's int_type! macro (size_of::<primitive>() both
// for SIZE and ALIGNMENT).

// BoolSize is the fixed on-disk size of a bool.
const BoolSize uint16 = 1

// EncodeBool encodes a bool as a single byte.
func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// DecodeBool decodes a single byte into a bool.
func DecodeBool(data []byte) (bool, error) {
	if len(data) < 1 {
		return false, ErrFixedTooShort
	}
	return data[0] != 0, nil
}

// Int8/Uint8

func EncodeUint8(v uint8) []byte { return []byte{v} }

func DecodeUint8(data []byte) (uint8, error) {
	if len(data) < 1 {
		return 0, ErrFixedTooShort
	}
	return data[0], nil
}

func EncodeInt8(v int8) []byte { return []byte{byte(v)} }

func DecodeInt8(data []byte) (int8, error) {
	if len(data) < 1 {
		return 0, ErrFixedTooShort
	}
	return int8(data[0]), nil
}

// Int16/Uint16

func EncodeUint16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func DecodeUint16(data []byte) (uint16, error) {
	if len(data) < 2 {
		return 0, ErrFixedTooShort
	}
	return binary.LittleEndian.Uint16(data), nil
}

func EncodeInt16(v int16) []byte { return EncodeUint16(uint16(v)) }

func DecodeInt16(data []byte) (int16, error) {
	v, err := DecodeUint16(data)
	return int16(v), err
}

// Int32/Uint32

func EncodeUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func DecodeUint32(data []byte) (uint32, error) {
	if len(data) < 4 {
		return 0, ErrFixedTooShort
	}
	return binary.LittleEndian.Uint32(data), nil
}

func EncodeInt32(v int32) []byte { return EncodeUint32(uint32(v)) }

func DecodeInt32(data []byte) (int32, error) {
	v, err := DecodeUint32(data)
	return int32(v), err
}

// Int64/Uint64

func EncodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func DecodeUint64(data []byte) (uint64, error) {
	if len(data) < 8 {
		return 0, ErrFixedTooShort
	}
	return binary.LittleEndian.Uint64(data), nil
}

func EncodeInt64(v int64) []byte { return EncodeUint64(uint64(v)) }

func DecodeInt64(data []byte) (int64, error) {
	v, err := DecodeUint64(data)
	return int64(v), err
}
