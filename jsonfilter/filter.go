package jsonfilter

import "github.com/icdbms/icdbms/value"

// CmpOp names the comparator an Extract filter applies to the value
// found at a path.
type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpGt
	CmpLt
	CmpGe
	CmpLe
	CmpIsNull
	CmpNotNull
)

// Filter is a JSON structural filter evaluated against one column's
// parsed JSON tree.
type Filter interface {
	Eval(root any) (bool, error)
}

// Containment is the `@>` operator: Eval is true iff root contains
// Pattern (see Contains).
type Containment struct {
	Pattern any
}

func (c Containment) Eval(root any) (bool, error) { return Contains(root, c.Pattern), nil }

// HasKey is true iff the path resolves to a present value (including an
// explicit JSON null), i.e. presence, not non-nullness.
type HasKey struct {
	Path Path
}

func (h HasKey) Eval(root any) (bool, error) {
	_, ok := Extract(root, h.Path)
	return ok, nil
}

// Extract runs Path against root, then applies Cmp. IsNull is true for
// both a missing path and a present JSON null; NotNull is true only for
// a present, non-null value. Every other comparator returns false when
// the path does not resolve.
type Extract struct {
	Path Path
	Cmp  CmpOp
	Want value.Value
}

func (e Extract) Eval(root any) (bool, error) {
	node, ok := Extract(root, e.Path)
	if e.Cmp == CmpIsNull {
		return !ok || node == nil, nil
	}
	if !ok {
		return false, nil
	}
	if e.Cmp == CmpNotNull {
		return node != nil, nil
	}
	got, err := ToValue(node)
	if err != nil {
		return false, err
	}
	if got.IsNull() || e.Want.IsNull() {
		return e.Cmp == CmpEq && got.IsNull() && e.Want.IsNull() ||
			e.Cmp == CmpNe && got.IsNull() != e.Want.IsNull(), nil
	}
	cmp := value.Compare(got, e.Want)
	switch e.Cmp {
	case CmpEq:
		return cmp == 0, nil
	case CmpNe:
		return cmp != 0, nil
	case CmpGt:
		return cmp > 0, nil
	case CmpLt:
		return cmp < 0, nil
	case CmpGe:
		return cmp >= 0, nil
	case CmpLe:
		return cmp <= 0, nil
	default:
		return false, &InvalidPathError{Reason: "unknown comparator"}
	}
}

// NewExtract parses pathStr and builds an Extract filter, mirroring the
// reference's extract_eq/extract_gt/... constructor family.
func NewExtract(pathStr string, cmp CmpOp, want value.Value) (Extract, error) {
	p, err := ParsePath(pathStr)
	if err != nil {
		return Extract{}, err
	}
	return Extract{Path: p, Cmp: cmp, Want: want}, nil
}

// NewHasKey parses pathStr and builds a HasKey filter.
func NewHasKey(pathStr string) (HasKey, error) {
	p, err := ParsePath(pathStr)
	if err != nil {
		return HasKey{}, err
	}
	return HasKey{Path: p}, nil
}

// And/Or/Not compose Filters, matching filter.Filter's own boolean
// composition so a Json leaf's nested filter tree isn't limited to a
// single comparison.
type And []Filter

func (fs And) Eval(root any) (bool, error) {
	for _, f := range fs {
		ok, err := f.Eval(root)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

type Or []Filter

func (fs Or) Eval(root any) (bool, error) {
	for _, f := range fs {
		ok, err := f.Eval(root)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

type Not struct{ Filter Filter }

func (n Not) Eval(root any) (bool, error) {
	ok, err := n.Filter.Eval(root)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// EvalText parses text as JSON and evaluates f against the result —
// the entry point filter.Json(col, jf) calls with a Json column's
// canonical stored text.
func EvalText(f Filter, text string) (bool, error) {
	root, err := Parse(text)
	if err != nil {
		return false, err
	}
	return f.Eval(root)
}
