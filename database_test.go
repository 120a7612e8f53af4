package icdbms

import (
	"testing"

	"github.com/icdbms/icdbms/filter"
	"github.com/icdbms/icdbms/query"
	"github.com/icdbms/icdbms/schema"
	"github.com/icdbms/icdbms/value"
)

func blogSchemas() []schema.TableSchema {
	return []schema.TableSchema{
		{
			Name: "users",
			Columns: []schema.Column{
				{Name: "id", Kind: schema.KindUint32, PrimaryKey: true},
				{Name: "name", Kind: schema.KindText},
			},
		},
		{
			Name: "posts",
			Columns: []schema.Column{
				{Name: "id", Kind: schema.KindUint32, PrimaryKey: true},
				{Name: "user", Kind: schema.KindUint32, ForeignKey: &schema.ForeignKey{LocalColumn: "user", ForeignTable: "users", ForeignColumn: "id"}},
				{Name: "title", Kind: schema.KindText},
			},
		},
		{
			Name: "messages",
			Columns: []schema.Column{
				{Name: "id", Kind: schema.KindUint32, PrimaryKey: true},
				{Name: "sender", Kind: schema.KindUint32, ForeignKey: &schema.ForeignKey{LocalColumn: "sender", ForeignTable: "users", ForeignColumn: "id"}},
				{Name: "recipient", Kind: schema.KindUint32, ForeignKey: &schema.ForeignKey{LocalColumn: "recipient", ForeignTable: "users", ForeignColumn: "id"}},
			},
		},
	}
}

func seedBlog(t *testing.T, db *Database) {
	t.Helper()
	if err := db.Insert("users", schema.Row{"id": value.Uint32(0), "name": value.Text("alice")}); err != nil {
		t.Fatalf("insert user 0: %v", err)
	}
	if err := db.Insert("users", schema.Row{"id": value.Uint32(1), "name": value.Text("bob")}); err != nil {
		t.Fatalf("insert user 1: %v", err)
	}
	if err := db.Insert("posts", schema.Row{"id": value.Uint32(100), "user": value.Uint32(0), "title": value.Text("p0")}); err != nil {
		t.Fatalf("insert post 100: %v", err)
	}
	if err := db.Insert("posts", schema.Row{"id": value.Uint32(101), "user": value.Uint32(0), "title": value.Text("p1")}); err != nil {
		t.Fatalf("insert post 101: %v", err)
	}
	if err := db.Insert("posts", schema.Row{"id": value.Uint32(102), "user": value.Uint32(1), "title": value.Text("p2")}); err != nil {
		t.Fatalf("insert post 102: %v", err)
	}
	if err := db.Insert("messages", schema.Row{"id": value.Uint32(200), "sender": value.Uint32(0), "recipient": value.Uint32(1)}); err != nil {
		t.Fatalf("insert message: %v", err)
	}
}

func TestInsertAndSelect(t *testing.T) {
	db, err := Open(blogSchemas())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	seedBlog(t, db)

	results, err := db.Select("posts", query.Query{Filter: filter.Eq{Column: "user", Value: value.Uint32(0)}})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 posts for user 0, got %d: %+v", len(results), results)
	}
}

func TestInsertRejectsBrokenForeignKey(t *testing.T) {
	db, err := Open(blogSchemas())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	err = db.Insert("posts", schema.Row{"id": value.Uint32(1), "user": value.Uint32(99), "title": value.Text("orphan")})
	if err == nil || !IsValidation(err) {
		t.Fatalf("expected a validation error for a dangling foreign key, got %v", err)
	}
}

func TestCascadeDelete(t *testing.T) {
	db, err := Open(blogSchemas())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	seedBlog(t, db)

	removed, err := db.Delete("users", filter.Eq{Column: "id", Value: value.Uint32(0)}, Cascade)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed != 4 {
		t.Fatalf("expected 4 rows removed (1 user + 2 posts + 1 message), got %d", removed)
	}

	posts, err := db.Select("posts", query.Query{Filter: filter.Eq{Column: "user", Value: value.Uint32(0)}})
	if err != nil {
		t.Fatalf("Select posts: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected no posts left for user 0, got %d", len(posts))
	}
	messages, err := db.Select("messages", query.Query{Filter: filter.Eq{Column: "sender", Value: value.Uint32(0)}})
	if err != nil {
		t.Fatalf("Select messages: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected no messages left from user 0, got %d", len(messages))
	}
}

func TestRestrictDeleteBlocksWhenReferenced(t *testing.T) {
	db, err := Open(blogSchemas())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	seedBlog(t, db)

	_, err = db.Delete("users", filter.Eq{Column: "id", Value: value.Uint32(0)}, Restrict)
	if err == nil || !IsConflict(err) {
		t.Fatalf("expected a conflict error blocking the restrict delete, got %v", err)
	}

	users, err := db.Select("users", query.Query{Filter: filter.Eq{Column: "id", Value: value.Uint32(0)}})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected the restricted delete to leave the user in place, got %d rows", len(users))
	}
}

func TestPrimaryKeyUpdatePropagates(t *testing.T) {
	db, err := Open(blogSchemas())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	seedBlog(t, db)

	n, err := db.Update("users", filter.Eq{Column: "id", Value: value.Uint32(0)}, schema.Row{"id": value.Uint32(9)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row updated, got %d", n)
	}

	posts, err := db.Select("posts", query.Query{Filter: filter.Eq{Column: "user", Value: value.Uint32(9)}})
	if err != nil {
		t.Fatalf("Select posts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected the foreign key update to propagate to both posts, got %d", len(posts))
	}
	messages, err := db.Select("messages", query.Query{Filter: filter.Eq{Column: "sender", Value: value.Uint32(9)}})
	if err != nil {
		t.Fatalf("Select messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected the foreign key update to propagate to the message, got %d", len(messages))
	}
}

func TestTransactionalRollbackLeavesStoreUntouched(t *testing.T) {
	db, err := Open(blogSchemas())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	seedBlog(t, db)

	tx, err := db.Begin("writer")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.Insert("users", schema.Row{"id": value.Uint32(2), "name": value.Text("carol")}); err != nil {
		t.Fatalf("tx.Insert: %v", err)
	}

	before, err := db.Select("users", query.Query{})
	if err != nil {
		t.Fatalf("Select before rollback: %v", err)
	}
	if len(before) != 2 {
		t.Fatalf("expected committed state to still show 2 users before rollback, got %d", len(before))
	}

	results, err := tx.Select("users", query.Query{})
	if err != nil {
		t.Fatalf("tx.Select: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected the transaction's own view to include the pending insert, got %d", len(results))
	}

	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	after, err := db.Select("users", query.Query{})
	if err != nil {
		t.Fatalf("Select after rollback: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected rollback to discard the staged insert, got %d users", len(after))
	}
}

func TestTransactionCommitAppliesWrites(t *testing.T) {
	db, err := Open(blogSchemas())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	seedBlog(t, db)

	tx, err := db.Begin("writer")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.Insert("users", schema.Row{"id": value.Uint32(2), "name": value.Text("carol")}); err != nil {
		t.Fatalf("tx.Insert: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	after, err := db.Select("users", query.Query{})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(after) != 3 {
		t.Fatalf("expected the commit to persist the staged insert, got %d users", len(after))
	}

	if _, ok := db.Active(); ok {
		t.Fatal("expected no active transaction after commit")
	}
}
