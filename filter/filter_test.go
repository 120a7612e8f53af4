package filter

import (
	"testing"

	"github.com/icdbms/icdbms/jsonfilter"
	"github.com/icdbms/icdbms/schema"
	"github.com/icdbms/icdbms/value"
)

func row() schema.Row {
	return schema.Row{
		"id":    value.Int32(1),
		"name":  value.Text("Alice"),
		"email": value.Null{},
	}
}

func TestEqMissingColumnIsFalse(t *testing.T) {
	ok, err := Eq{Column: "nope", Value: value.Int32(1)}.Eval(row())
	if err != nil || ok {
		t.Fatalf("Eq on missing column = %v, %v; want false, nil", ok, err)
	}
}

func TestComparisons(t *testing.T) {
	r := row()
	tests := []struct {
		note string
		f    Filter
		want bool
	}{
		{"eq match", Eq{Column: "id", Value: value.Int32(1)}, true},
		{"eq mismatch", Eq{Column: "id", Value: value.Int32(2)}, false},
		{"gt", Gt{Column: "id", Value: value.Int32(0)}, true},
		{"lt", Lt{Column: "id", Value: value.Int32(0)}, false},
		{"in hit", In{Column: "id", Values: []value.Value{value.Int32(5), value.Int32(1)}}, true},
		{"in miss", In{Column: "id", Values: []value.Value{value.Int32(5)}}, false},
		{"is null", IsNull{Column: "email"}, true},
		{"not null", NotNull{Column: "name"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.note, func(t *testing.T) {
			ok, err := tt.f.Eval(r)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.want {
				t.Fatalf("got %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestLikeRequiresTextColumn(t *testing.T) {
	r := row()
	if _, err := (Like{Column: "id", Pattern: "a%"}).Eval(r); err == nil {
		t.Fatal("expected InvalidQueryError for a non-Text column")
	}
	ok, err := (Like{Column: "name", Pattern: "Al%"}).Eval(r)
	if err != nil || !ok {
		t.Fatalf("Like on Text column = %v, %v; want true, nil", ok, err)
	}
}

func TestAndOrNot(t *testing.T) {
	r := row()
	and := And{Eq{Column: "id", Value: value.Int32(1)}, NotNull{Column: "name"}}
	ok, _ := and.Eval(r)
	if !ok {
		t.Fatal("expected And to be true")
	}

	or := Or{Eq{Column: "id", Value: value.Int32(9)}, Eq{Column: "id", Value: value.Int32(1)}}
	ok, _ = or.Eval(r)
	if !ok {
		t.Fatal("expected Or to be true")
	}

	not := Not{Filter: Eq{Column: "id", Value: value.Int32(9)}}
	ok, _ = not.Eval(r)
	if !ok {
		t.Fatal("expected Not to negate a false match")
	}
}

func TestJsonFilterRequiresJsonColumn(t *testing.T) {
	r := schema.Row{"data": value.Json(`{"user":{"name":"Alice","age":25}}`)}
	nameEq, _ := jsonfilter.NewExtract("user.name", jsonfilter.CmpEq, value.Text("Alice"))
	ageGt, _ := jsonfilter.NewExtract("user.age", jsonfilter.CmpGt, value.Int64(18))
	jf := Json{Column: "data", Filter: jsonfilter.And{nameEq, ageGt}}

	ok, err := jf.Eval(r)
	if err != nil || !ok {
		t.Fatalf("Json filter = %v, %v; want true, nil", ok, err)
	}

	if _, err := (Json{Column: "missing", Filter: jsonfilter.And{}}).Eval(schema.Row{}); err != nil {
		t.Fatalf("missing json column should be false-not-error: %v", err)
	}

	if _, err := (Json{Column: "data", Filter: jsonfilter.And{}}).Eval(schema.Row{"data": value.Text("x")}); err == nil {
		t.Fatal("expected InvalidQueryError for a non-Json column")
	}
}
