package value

import (
	"strconv"
	"strings"

	"github.com/icdbms/icdbms/internal/encoding"
)

// Text is a UTF-8 string column value, length-prefixed on disk.
type Text string

func (Text) Kind() Kind   { return KindText }
func (Text) IsNull() bool { return false }
func (t Text) String() string {
	return strconv.Quote(string(t))
}
func (t Text) Equal(other Value) bool {
	o, ok := other.(Text)
	return ok && t == o
}

// Compare orders lexicographically by Unicode code point, matching Rust's
// derived Ord on String.
func (t Text) Compare(other Text) int { return strings.Compare(string(t), string(other)) }

func (t Text) EncodedSize() uint16 { return encoding.DynamicEncodedSize(len(t)) }
func (t Text) Encode() []byte      { return encoding.EncodeLengthPrefixed([]byte(t)) }

func DecodeText(data []byte) (Text, error) {
	raw, err := encoding.DecodeLengthPrefixed(data)
	if err != nil {
		return "", err
	}
	return Text(raw), nil
}

// Blob is an opaque byte-string column value.
type Blob []byte

func (Blob) Kind() Kind   { return KindBlob }
func (Blob) IsNull() bool { return false }
func (b Blob) String() string {
	return strconv.Quote(string(b))
}
func (b Blob) Equal(other Value) bool {
	o, ok := other.(Blob)
	return ok && string(b) == string(o)
}

// Compare orders byte-lexicographically.
func (b Blob) Compare(other Blob) int {
	switch {
	case string(b) < string(other):
		return -1
	case string(b) > string(other):
		return 1
	default:
		return 0
	}
}

func (b Blob) EncodedSize() uint16 { return encoding.DynamicEncodedSize(len(b)) }
func (b Blob) Encode() []byte      { return encoding.EncodeLengthPrefixed(b) }

func DecodeBlob(data []byte) (Blob, error) {
	raw, err := encoding.DecodeLengthPrefixed(data)
	if err != nil {
		return nil, err
	}
	out := make(Blob, len(raw))
	copy(out, raw)
	return out, nil
}
