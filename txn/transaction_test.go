package txn

import (
	"testing"

	"github.com/icdbms/icdbms/internal/catalog"
	"github.com/icdbms/icdbms/internal/pagestore"
	"github.com/icdbms/icdbms/internal/tablestore"
	"github.com/icdbms/icdbms/schema"
	"github.com/icdbms/icdbms/value"
)

type tableSet map[string]*tablestore.Table

func (s tableSet) Table(name string) (*tablestore.Table, bool) {
	t, ok := s[name]
	return t, ok
}

func newUsersTable(t *testing.T) *tablestore.Table {
	t.Helper()
	store := pagestore.NewMemStore()
	alloc, err := pagestore.NewAllocator(store, pagestore.DefaultPageSize, nil)
	if err != nil {
		t.Fatalf("NewAllocator: %v", err)
	}
	registryPage, err := alloc.AllocatePage()
	if err != nil {
		t.Fatalf("AllocatePage: %v", err)
	}
	reg, err := catalog.OpenTableRegistry(alloc, registryPage, 2)
	if err != nil {
		t.Fatalf("OpenTableRegistry: %v", err)
	}
	s := schema.TableSchema{
		Name: "users",
		Columns: []schema.Column{
			{Name: "id", Kind: schema.KindUint32, PrimaryKey: true},
			{Name: "name", Kind: schema.KindText},
		},
	}
	return tablestore.Open(s, reg)
}

func collectRows(t *testing.T, tx *Transaction, table string) []schema.Row {
	t.Helper()
	var out []schema.Row
	for row, err := range tx.Rows(table) {
		if err != nil {
			t.Fatalf("Rows: %v", err)
		}
		out = append(out, row)
	}
	return out
}

func TestInsertVisibleBeforeCommit(t *testing.T) {
	tbl := newUsersTable(t)
	source := tableSet{"users": tbl}
	tx := New(1, "writer", source)

	if err := tx.Insert("users", schema.Row{"id": value.Uint32(1), "name": value.Text("Alice")}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	rows := collectRows(t, tx, "users")
	if len(rows) != 1 {
		t.Fatalf("expected 1 row pre-commit, got %d", len(rows))
	}

	recs, _ := tbl.ReadAll()
	if len(recs) != 0 {
		t.Fatalf("expected base table untouched before commit, got %d records", len(recs))
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	recs, _ = tbl.ReadAll()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record after commit, got %d", len(recs))
	}
}

func TestUpdateAndDeleteOverlayComposition(t *testing.T) {
	tbl := newUsersTable(t)
	if _, err := tbl.Insert(schema.Row{"id": value.Uint32(1), "name": value.Text("Alice")}); err != nil {
		t.Fatalf("seed insert: %v", err)
	}
	if _, err := tbl.Insert(schema.Row{"id": value.Uint32(2), "name": value.Text("Bob")}); err != nil {
		t.Fatalf("seed insert: %v", err)
	}

	source := tableSet{"users": tbl}
	tx := New(1, "writer", source)

	if err := tx.Update("users", value.Uint32(1), schema.Row{"id": value.Uint32(1), "name": value.Text("Alicia")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := tx.Delete("users", value.Uint32(2)); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	rows := collectRows(t, tx, "users")
	if len(rows) != 1 || rows[0]["name"] != value.Text("Alicia") {
		t.Fatalf("unexpected overlay view: %+v", rows)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	recs, _ := tbl.ReadAll()
	if len(recs) != 1 || recs[0].Row["name"] != value.Text("Alicia") {
		t.Fatalf("unexpected post-commit state: %+v", recs)
	}
}

func TestDeleteOfPendingInsertNeverTouchesBase(t *testing.T) {
	tbl := newUsersTable(t)
	source := tableSet{"users": tbl}
	tx := New(1, "writer", source)

	if err := tx.Insert("users", schema.Row{"id": value.Uint32(1), "name": value.Text("Alice")}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tx.Delete("users", value.Uint32(1)); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	rows := collectRows(t, tx, "users")
	if len(rows) != 0 {
		t.Fatalf("expected insert-then-delete to vanish, got %+v", rows)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	recs, _ := tbl.ReadAll()
	if len(recs) != 0 {
		t.Fatalf("expected no committed rows, got %+v", recs)
	}
}

func TestRollbackDiscardsOverlay(t *testing.T) {
	tbl := newUsersTable(t)
	source := tableSet{"users": tbl}
	tx := New(1, "writer", source)

	if err := tx.Insert("users", schema.Row{"id": value.Uint32(1), "name": value.Text("Alice")}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	tx.Rollback()

	rows := collectRows(t, tx, "users")
	if len(rows) != 0 {
		t.Fatalf("expected empty overlay after rollback, got %+v", rows)
	}
}

func TestRowExistsWithColumnValueSeesOwnWrites(t *testing.T) {
	tbl := newUsersTable(t)
	source := tableSet{"users": tbl}
	tx := New(1, "writer", source)

	exists, err := tx.RowExistsWithColumnValue("users", "id", value.Uint32(1))
	if err != nil || exists {
		t.Fatalf("expected no match before insert, got %v, %v", exists, err)
	}

	if err := tx.Insert("users", schema.Row{"id": value.Uint32(1), "name": value.Text("Alice")}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	exists, err = tx.RowExistsWithColumnValue("users", "id", value.Uint32(1))
	if err != nil || !exists {
		t.Fatalf("expected match after insert, got %v, %v", exists, err)
	}
}

func TestSessionEnforcesSingleWriterAndOwnership(t *testing.T) {
	tbl := newUsersTable(t)
	source := tableSet{"users": tbl}
	session := NewSession(source)

	tx, err := session.Begin("writer-a")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := session.Begin("writer-b"); err == nil {
		t.Fatal("expected second Begin to fail while one is active")
	}

	if err := tx.Insert("users", schema.Row{"id": value.Uint32(1), "name": value.Text("Alice")}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := session.Commit("writer-b"); err == nil {
		t.Fatal("expected commit from a non-owner to fail")
	}
	if err := session.Commit("writer-a"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, ok := session.Active(); ok {
		t.Fatal("expected no active transaction after commit")
	}
}
