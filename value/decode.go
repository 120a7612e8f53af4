package value

import "github.com/icdbms/icdbms/internal/encoding"

// EncodedSize returns the number of bytes Encode would produce for v,
// including the 2-byte length prefix for dynamic variants. Null has no
// payload.
func EncodedSize(v Value) uint16 {
	switch vv := v.(type) {
	case Null:
		return 0
	case Bool:
		return 1
	case Int8:
		return vv.EncodedSize()
	case Int16:
		return vv.EncodedSize()
	case Int32:
		return vv.EncodedSize()
	case Int64:
		return vv.EncodedSize()
	case Uint8:
		return vv.EncodedSize()
	case Uint16:
		return vv.EncodedSize()
	case Uint32:
		return vv.EncodedSize()
	case Uint64:
		return vv.EncodedSize()
	case Decimal:
		return vv.EncodedSize()
	case Date:
		return vv.EncodedSize()
	case DateTime:
		return vv.EncodedSize()
	case Text:
		return vv.EncodedSize()
	case Blob:
		return vv.EncodedSize()
	case Json:
		return vv.EncodedSize()
	case Principal:
		return vv.EncodedSize()
	case Uuid:
		return vv.EncodedSize()
	default:
		return 0
	}
}

// Encode serializes v exactly as its concrete type's Encode method would.
// Null encodes to zero bytes — its presence is carried entirely by the
// column's Kind/nullability metadata, not by any on-disk marker of its own.
func Encode(v Value) []byte {
	switch vv := v.(type) {
	case Null:
		return nil
	case Bool:
		return encoding.EncodeBool(bool(vv))
	case Int8:
		return vv.Encode()
	case Int16:
		return vv.Encode()
	case Int32:
		return vv.Encode()
	case Int64:
		return vv.Encode()
	case Uint8:
		return vv.Encode()
	case Uint16:
		return vv.Encode()
	case Uint32:
		return vv.Encode()
	case Uint64:
		return vv.Encode()
	case Decimal:
		return vv.Encode()
	case Date:
		return vv.Encode()
	case DateTime:
		return vv.Encode()
	case Text:
		return vv.Encode()
	case Blob:
		return vv.Encode()
	case Json:
		return vv.Encode()
	case Principal:
		return vv.Encode()
	case Uuid:
		return vv.Encode()
	default:
		return nil
	}
}

// Decode decodes data into a Value of the given kind, returning the number
// of bytes consumed: fixed types consume exactly their declared size,
// dynamic types consume 2+length_prefix bytes.
func Decode(kind Kind, data []byte) (Value, int, error) {
	switch kind {
	case KindNull:
		return Null{}, 0, nil
	case KindBool:
		b, err := encoding.DecodeBool(data)
		return Bool(b), 1, err
	case KindInt8:
		v, err := DecodeInt8(data)
		return v, 1, err
	case KindInt16:
		v, err := DecodeInt16(data)
		return v, 2, err
	case KindInt32:
		v, err := DecodeInt32(data)
		return v, 4, err
	case KindInt64:
		v, err := DecodeInt64(data)
		return v, 8, err
	case KindUint8:
		v, err := DecodeUint8(data)
		return v, 1, err
	case KindUint16:
		v, err := DecodeUint16(data)
		return v, 2, err
	case KindUint32:
		v, err := DecodeUint32(data)
		return v, 4, err
	case KindUint64:
		v, err := DecodeUint64(data)
		return v, 8, err
	case KindDecimal:
		v, err := DecodeDecimal(data)
		return v, 12, err
	case KindDate:
		v, err := DecodeDate(data)
		return v, 4, err
	case KindDateTime:
		v, err := DecodeDateTime(data)
		return v, 13, err
	case KindText:
		v, err := DecodeText(data)
		if err != nil {
			return nil, 0, err
		}
		return v, int(encoding.DynamicEncodedSize(len(v))), nil
	case KindBlob:
		v, err := DecodeBlob(data)
		if err != nil {
			return nil, 0, err
		}
		return v, int(encoding.DynamicEncodedSize(len(v))), nil
	case KindJson:
		v, err := DecodeJson(data)
		if err != nil {
			return nil, 0, err
		}
		return v, int(encoding.DynamicEncodedSize(len(v))), nil
	case KindPrincipal:
		v, err := DecodePrincipal(data)
		if err != nil {
			return nil, 0, err
		}
		return v, int(encoding.DynamicEncodedSize(len(v))), nil
	case KindUuid:
		v, err := DecodeUuid(data)
		return v, 16, err
	default:
		return nil, 0, &encoding.DecodeError{Kind: "unknown_value_kind"}
	}
}

// Alignment returns the ALIGNMENT a column of the given kind declares
// Fixed scalar kinds align to their widest encoded field
// (DateTime's widest field is its u32 microsecond component); dynamic
// kinds and the remaining fixed kinds (Uuid, Date, which have no field
// wider than their length prefix would already require) fall back to
// encoding.DefaultAlignment.
func Alignment(kind Kind) uint16 {
	switch kind {
	case KindBool, KindInt8, KindUint8:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindDateTime:
		return 4
	case KindInt64, KindUint64, KindDecimal:
		return 8
	default:
		return encoding.DefaultAlignment
	}
}
