package value

import (
	"github.com/icdbms/icdbms/internal/encoding"
)

// Json holds the canonical textual form of a JSON document; the parsed
// tree is rebuilt on decode. Parsing/containment/path extraction live in
// package jsonfilter, which depends on value — not the reverse — so Json
// itself carries only the encoded text.
type Json string

func (Json) Kind() Kind     { return KindJson }
func (Json) IsNull() bool   { return false }
func (j Json) String() string { return string(j) }
func (j Json) Equal(other Value) bool {
	o, ok := other.(Json)
	return ok && j == o
}

func (j Json) EncodedSize() uint16 { return encoding.DynamicEncodedSize(len(j)) }
func (j Json) Encode() []byte      { return encoding.EncodeLengthPrefixed([]byte(j)) }

func DecodeJson(data []byte) (Json, error) {
	raw, err := encoding.DecodeLengthPrefixed(data)
	if err != nil {
		return "", err
	}
	return Json(raw), nil
}
