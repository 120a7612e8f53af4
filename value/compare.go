package value

// Compare orders two values. Null sorts below every non-null value of any
// kind; two same-kind non-null values compare via that kind's own Compare
// method — ordering is defined within a variant only. Two different
// non-null kinds have no meaningful order, and this case is never required
// for correctness since filters never compare across variants — so the
// fallback here just needs to be a
// total, stable order, not a meaningful one.
func Compare(a, b Value) int {
	aNull, bNull := a.Kind() == KindNull, b.Kind() == KindNull
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return -1
	case bNull:
		return 1
	}

	if a.Kind() != b.Kind() {
		return cmpKind(a.Kind(), b.Kind())
	}

	switch av := a.(type) {
	case Bool:
		return av.Compare(b.(Bool))
	case Int8:
		return av.Compare(b.(Int8))
	case Int16:
		return av.Compare(b.(Int16))
	case Int32:
		return av.Compare(b.(Int32))
	case Int64:
		return av.Compare(b.(Int64))
	case Uint8:
		return av.Compare(b.(Uint8))
	case Uint16:
		return av.Compare(b.(Uint16))
	case Uint32:
		return av.Compare(b.(Uint32))
	case Uint64:
		return av.Compare(b.(Uint64))
	case Decimal:
		return av.Compare(b.(Decimal))
	case Date:
		return av.Compare(b.(Date))
	case DateTime:
		return av.Compare(b.(DateTime))
	case Text:
		return av.Compare(b.(Text))
	case Blob:
		return av.Compare(b.(Blob))
	case Principal:
		return av.Compare(b.(Principal))
	case Uuid:
		return av.Compare(b.(Uuid))
	case Json:
		return cmpJsonFallback(av, b.(Json))
	default:
		return 0
	}
}

func cmpKind(a, b Kind) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// cmpJsonFallback is a byte-wise ordering over the canonical text, used
// only by generic sorts that don't route through the structural JSON
// comparator in package jsonfilter (which implements the hierarchical
// Null<Bool<Number<String<Array<Object rule the JSON filter actually uses).
func cmpJsonFallback(a, b Json) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
