package integrity

import (
	"testing"

	"github.com/icdbms/icdbms/schema"
	"github.com/icdbms/icdbms/value"
)

type fakeLookup struct {
	rows map[string]map[string][]value.Value
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{rows: make(map[string]map[string][]value.Value)}
}

func (f *fakeLookup) seed(table, column string, v value.Value) {
	if f.rows[table] == nil {
		f.rows[table] = make(map[string][]value.Value)
	}
	f.rows[table][column] = append(f.rows[table][column], v)
}

func (f *fakeLookup) RowExistsWithColumnValue(table, column string, v value.Value) (bool, error) {
	for _, existing := range f.rows[table][column] {
		if value.Compare(existing, v) == 0 {
			return true, nil
		}
	}
	return false, nil
}

func usersSchema() schema.TableSchema {
	return schema.TableSchema{
		Name: "users",
		Columns: []schema.Column{
			{Name: "id", Kind: schema.KindUint32, PrimaryKey: true},
			{Name: "email", Kind: schema.KindText},
			{Name: "manager", Kind: schema.KindUint32, Nullable: true,
				ForeignKey: &schema.ForeignKey{LocalColumn: "manager", ForeignTable: "users", ForeignColumn: "id"}},
		},
	}
}

func TestCheckInsertRejectsDuplicatePrimaryKey(t *testing.T) {
	lookup := newFakeLookup()
	lookup.seed("users", "id", value.Uint32(1))

	row := schema.Row{"id": value.Uint32(1), "email": value.Text("a@b.co")}
	_, err := CheckInsert(usersSchema(), NewRules(), row, lookup)
	if err == nil {
		t.Fatal("expected a primary key conflict")
	}
}

func TestCheckInsertAllowsNewPrimaryKey(t *testing.T) {
	lookup := newFakeLookup()
	lookup.seed("users", "id", value.Uint32(1))

	row := schema.Row{"id": value.Uint32(2), "email": value.Text("a@b.co")}
	out, err := CheckInsert(usersSchema(), NewRules(), row, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["id"] != value.Uint32(2) {
		t.Fatalf("sanitized row lost data: %v", out)
	}
}

func TestCheckInsertRejectsBrokenForeignKey(t *testing.T) {
	lookup := newFakeLookup()
	row := schema.Row{"id": value.Uint32(1), "email": value.Text("a@b.co"), "manager": value.Uint32(99)}
	if _, err := CheckInsert(usersSchema(), NewRules(), row, lookup); err == nil {
		t.Fatal("expected a foreign key violation")
	}
}

func TestCheckInsertRejectsMissingNotNullColumn(t *testing.T) {
	lookup := newFakeLookup()
	row := schema.Row{"id": value.Uint32(1)}
	if _, err := CheckInsert(usersSchema(), NewRules(), row, lookup); err == nil {
		t.Fatal("expected a not-null violation for missing email")
	}
}

func TestCheckUpdateAllowsKeepingOwnPrimaryKey(t *testing.T) {
	lookup := newFakeLookup()
	lookup.seed("users", "id", value.Uint32(1))

	row := schema.Row{"id": value.Uint32(1), "email": value.Text("new@b.co")}
	if _, err := CheckUpdate(usersSchema(), NewRules(), row, value.Uint32(1), lookup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckUpdateRejectsMovingOntoAnotherPrimaryKey(t *testing.T) {
	lookup := newFakeLookup()
	lookup.seed("users", "id", value.Uint32(1))
	lookup.seed("users", "id", value.Uint32(2))

	row := schema.Row{"id": value.Uint32(2), "email": value.Text("new@b.co")}
	if _, err := CheckUpdate(usersSchema(), NewRules(), row, value.Uint32(1), lookup); err == nil {
		t.Fatal("expected a primary key conflict")
	}
}

func TestRulesMatchByExactNameAndGlobPattern(t *testing.T) {
	r := NewRules()
	r.AddValidator("email", validatorFunc(func(v value.Value) error { return nil }))
	if err := r.AddValidatorPattern("addr_*", validatorFunc(func(v value.Value) error { return nil })); err != nil {
		t.Fatal(err)
	}

	if len(r.ValidatorsFor("email")) != 1 {
		t.Fatalf("expected one exact-name validator, got %d", len(r.ValidatorsFor("email")))
	}
	if len(r.ValidatorsFor("addr_city")) != 1 {
		t.Fatalf("expected one pattern-matched validator, got %d", len(r.ValidatorsFor("addr_city")))
	}
	if len(r.ValidatorsFor("unrelated")) != 0 {
		t.Fatalf("expected no validators for an unrelated column")
	}
}

type validatorFunc func(value.Value) error

func (f validatorFunc) Validate(v value.Value) error { return f(v) }

func TestValidateAggregatesMultipleFailures(t *testing.T) {
	r := NewRules()
	r.AddValidator("name", validatorFunc(func(value.Value) error { return errAlways("too long") }))
	r.AddValidator("name", validatorFunc(func(value.Value) error { return errAlways("bad case") }))

	t1 := schema.TableSchema{Name: "t", Columns: []schema.Column{{Name: "name", Kind: schema.KindText, PrimaryKey: true}}}
	err := Validate(t1, r, schema.Row{"name": value.Text("x")})
	if err == nil {
		t.Fatal("expected aggregated validation error")
	}
}

type errAlways string

func (e errAlways) Error() string { return string(e) }

func TestReferenceGraphFindsReferencingColumns(t *testing.T) {
	users := schema.TableSchema{Name: "users", Columns: []schema.Column{{Name: "id", Kind: schema.KindUint32, PrimaryKey: true}}}
	posts := schema.TableSchema{Name: "posts", Columns: []schema.Column{
		{Name: "id", Kind: schema.KindUint32, PrimaryKey: true},
		{Name: "user", Kind: schema.KindUint32, ForeignKey: &schema.ForeignKey{LocalColumn: "user", ForeignTable: "users", ForeignColumn: "id"}},
	}}
	messages := schema.TableSchema{Name: "messages", Columns: []schema.Column{
		{Name: "id", Kind: schema.KindUint32, PrimaryKey: true},
		{Name: "sender", Kind: schema.KindUint32, ForeignKey: &schema.ForeignKey{LocalColumn: "sender", ForeignTable: "users", ForeignColumn: "id"}},
		{Name: "recipient", Kind: schema.KindUint32, ForeignKey: &schema.ForeignKey{LocalColumn: "recipient", ForeignTable: "users", ForeignColumn: "id"}},
	}}

	g := BuildReferenceGraph([]schema.TableSchema{users, posts, messages})
	refs := g.ReferencingTables("users")
	if len(refs) != 3 {
		t.Fatalf("expected 3 referencing columns, got %d: %+v", len(refs), refs)
	}
}

func TestReferenceGraphHandlesSelfReference(t *testing.T) {
	users := schema.TableSchema{Name: "users", Columns: []schema.Column{
		{Name: "id", Kind: schema.KindUint32, PrimaryKey: true},
		{Name: "manager", Kind: schema.KindUint32, Nullable: true, ForeignKey: &schema.ForeignKey{LocalColumn: "manager", ForeignTable: "users", ForeignColumn: "id"}},
	}}
	g := BuildReferenceGraph([]schema.TableSchema{users})
	refs := g.ReferencingTables("users")
	if len(refs) != 1 || refs[0].Table != "users" || refs[0].Column != "manager" {
		t.Fatalf("expected self-reference via manager, got %+v", refs)
	}
}
