package freelist

import (
	"testing"

	"github.com/icdbms/icdbms/internal/pagestore"
)

func newTestLedger(t *testing.T) (*pagestore.Allocator, *Ledger) {
	t.Helper()
	store := pagestore.NewMemStore()
	alloc, err := pagestore.NewAllocator(store, pagestore.DefaultPageSize, nil)
	if err != nil {
		t.Fatalf("NewAllocator failed: %v", err)
	}
	ledgerPage, err := alloc.AllocatePage()
	if err != nil {
		t.Fatalf("AllocatePage failed: %v", err)
	}
	l, err := OpenLedger(alloc, ledgerPage)
	if err != nil {
		t.Fatalf("OpenLedger failed: %v", err)
	}
	return alloc, l
}

func TestInsertThenFindReusableSegment(t *testing.T) {
	_, l := newTestLedger(t)
	dataPage := pagestore.Page(7)

	if err := l.InsertFreeSegment(dataPage, 100, 32); err != nil {
		t.Fatalf("InsertFreeSegment failed: %v", err)
	}
	ticket, ok := l.FindReusableSegment(16)
	if !ok {
		t.Fatalf("expected a reusable segment")
	}
	if ticket.Segment.Page != dataPage || ticket.Segment.Offset != 100 || ticket.Segment.Size != 32 {
		t.Fatalf("unexpected ticket segment: %+v", ticket.Segment)
	}
}

func TestFindReusableSegmentNoneFitsTooSmall(t *testing.T) {
	_, l := newTestLedger(t)
	if err := l.InsertFreeSegment(pagestore.Page(1), 0, 8); err != nil {
		t.Fatalf("InsertFreeSegment failed: %v", err)
	}
	if _, ok := l.FindReusableSegment(64); ok {
		t.Fatalf("expected no reusable segment large enough")
	}
}

func TestInsertMergesAdjacentSegments(t *testing.T) {
	_, l := newTestLedger(t)
	p := pagestore.Page(3)

	if err := l.InsertFreeSegment(p, 0, 16); err != nil {
		t.Fatalf("InsertFreeSegment failed: %v", err)
	}
	if err := l.InsertFreeSegment(p, 16, 16); err != nil {
		t.Fatalf("InsertFreeSegment failed: %v", err)
	}

	t2, ok := l.FindReusableSegment(32)
	if !ok {
		t.Fatalf("expected merged 32-byte segment to be reusable")
	}
	if t2.Segment.Offset != 0 || t2.Segment.Size != 32 {
		t.Fatalf("expected merge to produce offset=0 size=32, got %+v", t2.Segment)
	}
}

func TestCommitReusedSpaceSplitsTail(t *testing.T) {
	_, l := newTestLedger(t)
	p := pagestore.Page(9)

	if err := l.InsertFreeSegment(p, 0, 64); err != nil {
		t.Fatalf("InsertFreeSegment failed: %v", err)
	}
	ticket, ok := l.FindReusableSegment(16)
	if !ok {
		t.Fatalf("expected a reusable segment")
	}
	if err := l.CommitReusedSpace(ticket, 16); err != nil {
		t.Fatalf("CommitReusedSpace failed: %v", err)
	}

	tail, ok := l.FindReusableSegment(1)
	if !ok {
		t.Fatalf("expected the unused tail to remain catalogued")
	}
	if tail.Segment.Offset != 16 || tail.Segment.Size != 48 {
		t.Fatalf("expected tail offset=16 size=48, got %+v", tail.Segment)
	}
}

func TestLedgerPersistsAcrossReopen(t *testing.T) {
	alloc, l := newTestLedger(t)
	ledgerPage := l.ledgerPage
	p := pagestore.Page(5)

	if err := l.InsertFreeSegment(p, 40, 24); err != nil {
		t.Fatalf("InsertFreeSegment failed: %v", err)
	}

	reopened, err := OpenLedger(alloc, ledgerPage)
	if err != nil {
		t.Fatalf("OpenLedger (reopen) failed: %v", err)
	}
	ticket, ok := reopened.FindReusableSegment(24)
	if !ok {
		t.Fatalf("expected reopened ledger to retain the inserted segment")
	}
	if ticket.Segment.Page != p || ticket.Segment.Offset != 40 {
		t.Fatalf("unexpected ticket after reopen: %+v", ticket.Segment)
	}
}

func TestLedgerChainsNewTablePageWhenFull(t *testing.T) {
	alloc, l := newTestLedger(t)
	capacity := int(alloc.PageSize())/int(EncodedSize) - 1

	for i := 0; i < capacity; i++ {
		if err := l.InsertFreeSegment(pagestore.Page(10+i), 0, 8); err != nil {
			t.Fatalf("InsertFreeSegment(%d) failed: %v", i, err)
		}
	}
	if len(l.tablePages) != 1 {
		t.Fatalf("expected a single table page while under capacity, got %d", len(l.tablePages))
	}

	// One more, non-adjacent insert must overflow into a second table page.
	if err := l.InsertFreeSegment(pagestore.Page(2), 0, 8); err != nil {
		t.Fatalf("InsertFreeSegment (overflow) failed: %v", err)
	}
	if len(l.tablePages) != 2 {
		t.Fatalf("expected overflow to allocate a second table page, got %d", len(l.tablePages))
	}
}
