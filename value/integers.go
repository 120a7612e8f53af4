package value

import (
	"fmt"

	"github.com/icdbms/icdbms/internal/encoding"
)

// Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64 mirror the
// fixed-width integer variants of the reference value.rs / types/integers.rs
// (one Go named type per width, matching the named-type-over-primitive
// idiom ast.Value uses for Boolean/Number/String).

type Int8 int8

func (Int8) Kind() Kind     { return KindInt8 }
func (Int8) IsNull() bool   { return false }
func (v Int8) String() string { return fmt.Sprintf("%d", int8(v)) }
func (v Int8) Equal(other Value) bool {
	o, ok := other.(Int8)
	return ok && v == o
}
func (v Int8) Compare(other Int8) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}
func (v Int8) EncodedSize() uint16 { return 1 }
func (v Int8) Encode() []byte      { return encoding.EncodeInt8(int8(v)) }
func DecodeInt8(data []byte) (Int8, error) {
	n, err := encoding.DecodeInt8(data)
	return Int8(n), err
}

type Int16 int16

func (Int16) Kind() Kind      { return KindInt16 }
func (Int16) IsNull() bool    { return false }
func (v Int16) String() string { return fmt.Sprintf("%d", int16(v)) }
func (v Int16) Equal(other Value) bool {
	o, ok := other.(Int16)
	return ok && v == o
}
func (v Int16) Compare(other Int16) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}
func (v Int16) EncodedSize() uint16 { return 2 }
func (v Int16) Encode() []byte      { return encoding.EncodeInt16(int16(v)) }
func DecodeInt16(data []byte) (Int16, error) {
	n, err := encoding.DecodeInt16(data)
	return Int16(n), err
}

type Int32 int32

func (Int32) Kind() Kind      { return KindInt32 }
func (Int32) IsNull() bool    { return false }
func (v Int32) String() string { return fmt.Sprintf("%d", int32(v)) }
func (v Int32) Equal(other Value) bool {
	o, ok := other.(Int32)
	return ok && v == o
}
func (v Int32) Compare(other Int32) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}
func (v Int32) EncodedSize() uint16 { return 4 }
func (v Int32) Encode() []byte      { return encoding.EncodeInt32(int32(v)) }
func DecodeInt32(data []byte) (Int32, error) {
	n, err := encoding.DecodeInt32(data)
	return Int32(n), err
}

type Int64 int64

func (Int64) Kind() Kind      { return KindInt64 }
func (Int64) IsNull() bool    { return false }
func (v Int64) String() string { return fmt.Sprintf("%d", int64(v)) }
func (v Int64) Equal(other Value) bool {
	o, ok := other.(Int64)
	return ok && v == o
}
func (v Int64) Compare(other Int64) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}
func (v Int64) EncodedSize() uint16 { return 8 }
func (v Int64) Encode() []byte      { return encoding.EncodeInt64(int64(v)) }
func DecodeInt64(data []byte) (Int64, error) {
	n, err := encoding.DecodeInt64(data)
	return Int64(n), err
}

type Uint8 uint8

func (Uint8) Kind() Kind      { return KindUint8 }
func (Uint8) IsNull() bool    { return false }
func (v Uint8) String() string { return fmt.Sprintf("%d", uint8(v)) }
func (v Uint8) Equal(other Value) bool {
	o, ok := other.(Uint8)
	return ok && v == o
}
func (v Uint8) Compare(other Uint8) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}
func (v Uint8) EncodedSize() uint16 { return 1 }
func (v Uint8) Encode() []byte      { return encoding.EncodeUint8(uint8(v)) }
func DecodeUint8(data []byte) (Uint8, error) {
	n, err := encoding.DecodeUint8(data)
	return Uint8(n), err
}

type Uint16 uint16

func (Uint16) Kind() Kind      { return KindUint16 }
func (Uint16) IsNull() bool    { return false }
func (v Uint16) String() string { return fmt.Sprintf("%d", uint16(v)) }
func (v Uint16) Equal(other Value) bool {
	o, ok := other.(Uint16)
	return ok && v == o
}
func (v Uint16) Compare(other Uint16) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}
func (v Uint16) EncodedSize() uint16 { return 2 }
func (v Uint16) Encode() []byte      { return encoding.EncodeUint16(uint16(v)) }
func DecodeUint16(data []byte) (Uint16, error) {
	n, err := encoding.DecodeUint16(data)
	return Uint16(n), err
}

type Uint32 uint32

func (Uint32) Kind() Kind      { return KindUint32 }
func (Uint32) IsNull() bool    { return false }
func (v Uint32) String() string { return fmt.Sprintf("%d", uint32(v)) }
func (v Uint32) Equal(other Value) bool {
	o, ok := other.(Uint32)
	return ok && v == o
}
func (v Uint32) Compare(other Uint32) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}
func (v Uint32) EncodedSize() uint16 { return 4 }
func (v Uint32) Encode() []byte      { return encoding.EncodeUint32(uint32(v)) }
func DecodeUint32(data []byte) (Uint32, error) {
	n, err := encoding.DecodeUint32(data)
	return Uint32(n), err
}

type Uint64 uint64

func (Uint64) Kind() Kind      { return KindUint64 }
func (Uint64) IsNull() bool    { return false }
func (v Uint64) String() string { return fmt.Sprintf("%d", uint64(v)) }
func (v Uint64) Equal(other Value) bool {
	o, ok := other.(Uint64)
	return ok && v == o
}
func (v Uint64) Compare(other Uint64) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}
func (v Uint64) EncodedSize() uint16 { return 8 }
func (v Uint64) Encode() []byte      { return encoding.EncodeUint64(uint64(v)) }
func DecodeUint64(data []byte) (Uint64, error) {
	n, err := encoding.DecodeUint64(data)
	return Uint64(n), err
}
