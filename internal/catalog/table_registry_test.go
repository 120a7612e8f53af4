package catalog

import (
	"testing"

	"github.com/icdbms/icdbms/internal/pagestore"
)

func newTestRegistry(t *testing.T) (*pagestore.Allocator, *TableRegistry) {
	t.Helper()
	store := pagestore.NewMemStore()
	alloc, err := pagestore.NewAllocator(store, pagestore.DefaultPageSize, nil)
	if err != nil {
		t.Fatalf("NewAllocator failed: %v", err)
	}
	registryPage, err := alloc.AllocatePage()
	if err != nil {
		t.Fatalf("AllocatePage failed: %v", err)
	}
	tr, err := OpenTableRegistry(alloc, registryPage, 2)
	if err != nil {
		t.Fatalf("OpenTableRegistry failed: %v", err)
	}
	return alloc, tr
}

func mustReadAll(t *testing.T, tr *TableRegistry) []Record {
	t.Helper()
	recs, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	return recs
}

func TestInsertAndScanRoundTrip(t *testing.T) {
	_, tr := newTestRegistry(t)

	loc1, err := tr.Insert([]byte("alice"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	loc2, err := tr.Insert([]byte("bob"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if loc1.Page != loc2.Page {
		t.Fatalf("expected both records in the head page")
	}

	recs := mustReadAll(t, tr)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if string(recs[0].Raw) != "alice" || string(recs[1].Raw) != "bob" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestDeleteTombstonesAndIsSkippedOnScan(t *testing.T) {
	_, tr := newTestRegistry(t)

	loc1, err := tr.Insert([]byte("alice"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := tr.Insert([]byte("bob")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := tr.Delete(loc1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	recs := mustReadAll(t, tr)
	if len(recs) != 1 {
		t.Fatalf("expected 1 live record after delete, got %d", len(recs))
	}
	if string(recs[0].Raw) != "bob" {
		t.Fatalf("expected surviving record to be bob, got %q", recs[0].Raw)
	}
}

func TestInsertReusesDeletedSlot(t *testing.T) {
	_, tr := newTestRegistry(t)

	loc1, err := tr.Insert([]byte("xxxxxxxx"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := tr.Delete(loc1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	loc2, err := tr.Insert([]byte("yyyyyyyy"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if loc2.Page != loc1.Page || loc2.Offset != loc1.Offset {
		t.Fatalf("expected reuse of the freed slot, got %+v want %+v", loc2, loc1)
	}
}

func TestUpdateInPlaceWhenSmallerOrEqual(t *testing.T) {
	_, tr := newTestRegistry(t)

	loc, err := tr.Insert([]byte("hello world"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	newLoc, err := tr.Update([]byte("hi"), loc)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if newLoc.Page != loc.Page || newLoc.Offset != loc.Offset {
		t.Fatalf("expected in-place update, got %+v", newLoc)
	}

	recs := mustReadAll(t, tr)
	if len(recs) != 1 || string(recs[0].Raw) != "hi" {
		t.Fatalf("unexpected records after update: %+v", recs)
	}
}

func TestUpdateRelocatesWhenLarger(t *testing.T) {
	_, tr := newTestRegistry(t)

	loc, err := tr.Insert([]byte("hi"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	newLoc, err := tr.Update([]byte("a much longer replacement value"), loc)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if newLoc.Offset == loc.Offset && newLoc.Page == loc.Page {
		t.Fatalf("expected relocation for a larger record")
	}

	recs := mustReadAll(t, tr)
	if len(recs) != 1 || string(recs[0].Raw) != "a much longer replacement value" {
		t.Fatalf("unexpected records after relocating update: %+v", recs)
	}
}

func TestScanStopsEarlyWhenYieldReturnsFalse(t *testing.T) {
	_, tr := newTestRegistry(t)
	for _, s := range []string{"a", "b", "c"} {
		if _, err := tr.Insert([]byte(s)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	var seen []string
	for rec, err := range tr.Scan() {
		if err != nil {
			t.Fatalf("Scan yielded error: %v", err)
		}
		seen = append(seen, string(rec.Raw))
		if len(seen) == 2 {
			break
		}
	}
	if len(seen) != 2 {
		t.Fatalf("expected early stop after 2 records, got %d", len(seen))
	}
}

func TestInsertChainsNewPageWhenTailFull(t *testing.T) {
	alloc, tr := newTestRegistry(t)
	big := make([]byte, alloc.PageSize()-4)

	loc1, err := tr.Insert(big)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	loc2, err := tr.Insert([]byte("overflow"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if loc2.Page == loc1.Page {
		t.Fatalf("expected overflow record to land on a new page")
	}
}

func TestTableRegistryPersistsAcrossReopen(t *testing.T) {
	alloc, tr := newTestRegistry(t)
	registryPage := tr.registryPage

	if _, err := tr.Insert([]byte("persisted")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	reopened, err := OpenTableRegistry(alloc, registryPage, 2)
	if err != nil {
		t.Fatalf("OpenTableRegistry (reopen) failed: %v", err)
	}
	recs := mustReadAll(t, reopened)
	if len(recs) != 1 || string(recs[0].Raw) != "persisted" {
		t.Fatalf("expected persisted record after reopen, got %+v", recs)
	}
}
