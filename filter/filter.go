// Package filter implements the boolean filter tree (C9) and its LIKE
// sub-engine (C9′) evaluated against a decoded row's column values.
package filter

import (
	"github.com/icdbms/icdbms/jsonfilter"
	"github.com/icdbms/icdbms/schema"
	"github.com/icdbms/icdbms/value"
)

// Filter is a closed tree over comparison leaves and logical
// combinators, each evaluated against one decoded row.
type Filter interface {
	Eval(row schema.Row) (bool, error)
}

func lookup(row schema.Row, column string) (value.Value, bool) {
	v, ok := row[column]
	return v, ok
}

// Eq matches rows where Column's value equals Value under value
// ordering. A column absent from the row is never a match.
type Eq struct {
	Column string
	Value  value.Value
}

func (f Eq) Eval(row schema.Row) (bool, error) {
	v, ok := lookup(row, f.Column)
	return ok && value.Compare(v, f.Value) == 0, nil
}

// Ne matches rows where Column's value does not equal Value. A missing
// column is never a match (it is not "not equal").
type Ne struct {
	Column string
	Value  value.Value
}

func (f Ne) Eval(row schema.Row) (bool, error) {
	v, ok := lookup(row, f.Column)
	return ok && value.Compare(v, f.Value) != 0, nil
}

// Gt, Lt, Ge, Le mirror Eq's ordering comparisons.
type Gt struct {
	Column string
	Value  value.Value
}

func (f Gt) Eval(row schema.Row) (bool, error) {
	v, ok := lookup(row, f.Column)
	return ok && value.Compare(v, f.Value) > 0, nil
}

type Lt struct {
	Column string
	Value  value.Value
}

func (f Lt) Eval(row schema.Row) (bool, error) {
	v, ok := lookup(row, f.Column)
	return ok && value.Compare(v, f.Value) < 0, nil
}

type Ge struct {
	Column string
	Value  value.Value
}

func (f Ge) Eval(row schema.Row) (bool, error) {
	v, ok := lookup(row, f.Column)
	return ok && value.Compare(v, f.Value) >= 0, nil
}

type Le struct {
	Column string
	Value  value.Value
}

func (f Le) Eval(row schema.Row) (bool, error) {
	v, ok := lookup(row, f.Column)
	return ok && value.Compare(v, f.Value) <= 0, nil
}

// In matches rows where Column's value equals any of Values.
type In struct {
	Column string
	Values []value.Value
}

func (f In) Eval(row schema.Row) (bool, error) {
	v, ok := lookup(row, f.Column)
	if !ok {
		return false, nil
	}
	for _, want := range f.Values {
		if value.Compare(v, want) == 0 {
			return true, nil
		}
	}
	return false, nil
}

// Like matches a Text column against an SQL-style LIKE Pattern (C9′).
// A non-Text column is an InvalidQueryError, not a silent false.
type Like struct {
	Column  string
	Pattern string
}

func (f Like) Eval(row schema.Row) (bool, error) {
	v, ok := lookup(row, f.Column)
	if !ok {
		return false, nil
	}
	text, ok := v.(value.Text)
	if !ok {
		return false, invalidQueryf("Like requires column %q to be Text, got %s", f.Column, v.Kind())
	}
	tokens, err := CompileLike(f.Pattern)
	if err != nil {
		return false, err
	}
	return tokens.Match(string(text)), nil
}

// IsNull matches rows where Column is absent or explicitly Null.
type IsNull struct{ Column string }

func (f IsNull) Eval(row schema.Row) (bool, error) {
	v, ok := lookup(row, f.Column)
	return !ok || v.IsNull(), nil
}

// NotNull matches rows where Column is present and not Null.
type NotNull struct{ Column string }

func (f NotNull) Eval(row schema.Row) (bool, error) {
	v, ok := lookup(row, f.Column)
	return ok && !v.IsNull(), nil
}

// Json delegates to the JSON structural filter subsystem against a Json
// column's canonical text. A non-Json column is an InvalidQueryError.
type Json struct {
	Column string
	Filter jsonfilter.Filter
}

func (f Json) Eval(row schema.Row) (bool, error) {
	v, ok := lookup(row, f.Column)
	if !ok {
		return false, nil
	}
	text, ok := v.(value.Json)
	if !ok {
		return false, invalidQueryf("Json requires column %q to be Json, got %s", f.Column, v.Kind())
	}
	return jsonfilter.EvalText(f.Filter, string(text))
}

// And short-circuits left-to-right; an empty And is vacuously true.
type And []Filter

func (fs And) Eval(row schema.Row) (bool, error) {
	for _, f := range fs {
		ok, err := f.Eval(row)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Or short-circuits left-to-right; an empty Or is vacuously false.
type Or []Filter

func (fs Or) Eval(row schema.Row) (bool, error) {
	for _, f := range fs {
		ok, err := f.Eval(row)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Not negates its operand.
type Not struct{ Filter Filter }

func (n Not) Eval(row schema.Row) (bool, error) {
	ok, err := n.Filter.Eval(row)
	if err != nil {
		return false, err
	}
	return !ok, nil
}
