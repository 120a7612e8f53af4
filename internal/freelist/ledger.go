package freelist

import (
	"github.com/icdbms/icdbms/internal/encoding"
	"github.com/icdbms/icdbms/internal/pagestore"
)

// Ticket names the free-segments-table page a reusable segment was found
// in, so CommitReusedSpace can remove the right entry.
type Ticket struct {
	TablePage pagestore.Page
	Segment   Segment
}

// Ledger is the free-segment catalog for one table: a chain of
// free-segments-table pages, indexed by a length-prefixed list of page IDs
// stored in the ledger page itself.
type Ledger struct {
	alloc      *pagestore.Allocator
	ledgerPage pagestore.Page
	tablePages []pagestore.Page
	tables     map[pagestore.Page]*table
	capacity   int
}

// OpenLedger loads (or initializes, if the page is freshly allocated and
// all-zero) the ledger rooted at ledgerPage.
func OpenLedger(alloc *pagestore.Allocator, ledgerPage pagestore.Page) (*Ledger, error) {
	capacity := int(alloc.PageSize())/int(EncodedSize) - 1
	l := &Ledger{
		alloc:      alloc,
		ledgerPage: ledgerPage,
		tables:     map[pagestore.Page]*table{},
		capacity:   capacity,
	}

	raw, err := alloc.Store().Read(uint64(ledgerPage)*uint64(alloc.PageSize()), alloc.PageSize())
	if err != nil {
		return nil, err
	}
	pages, err := decodePageList(raw)
	if err != nil {
		return nil, err
	}
	l.tablePages = pages

	for _, tp := range pages {
		t, err := l.loadTable(tp)
		if err != nil {
			return nil, err
		}
		l.tables[tp] = t
	}
	return l, nil
}

func (l *Ledger) loadTable(page pagestore.Page) (*table, error) {
	raw, err := l.alloc.Store().Read(uint64(page)*uint64(l.alloc.PageSize()), l.alloc.PageSize())
	if err != nil {
		return nil, err
	}
	return decodeTable(raw)
}

func (l *Ledger) persistTable(page pagestore.Page, t *table) error {
	return l.alloc.Store().Write(uint64(page)*uint64(l.alloc.PageSize()), t.encode())
}

func (l *Ledger) persistPageList() error {
	return l.alloc.Store().Write(uint64(l.ledgerPage)*uint64(l.alloc.PageSize()), encodePageList(l.tablePages))
}

// allocateTablePage grows the chain with a new, empty free-segments-table
// page and persists the updated page list.
func (l *Ledger) allocateTablePage() (pagestore.Page, error) {
	p, err := l.alloc.AllocatePage()
	if err != nil {
		return 0, err
	}
	l.tablePages = append(l.tablePages, p)
	l.tables[p] = &table{}
	if err := l.persistPageList(); err != nil {
		return 0, err
	}
	return p, nil
}

// InsertFreeSegment catalogs (page, offset, physicalSize) as reusable
// space. It picks the first non-full free-segments-table page in chain
// order and delegates to it; that table merges with an adjacent hole of
// its own if one exists. Adjacency is therefore only
// detected within the table a hole happens to live in — the same
// limitation the ledger this is grounded on has. physicalSize must
// already be alignment-rounded by the caller (the table registry), since
// the ledger has no generic knowledge of the stored type's ALIGNMENT.
func (l *Ledger) InsertFreeSegment(page pagestore.Page, offset pagestore.PageOffset, physicalSize uint16) error {
	tablePage, t, err := l.writableTable()
	if err != nil {
		return err
	}
	t.insertFreeSegment(page, offset, physicalSize)
	return l.persistTable(tablePage, t)
}

// writableTable returns the first non-full table page in chain order,
// allocating a new one if every existing table is full.
func (l *Ledger) writableTable() (pagestore.Page, *table, error) {
	for _, tp := range l.tablePages {
		if t := l.tables[tp]; len(t.records) < l.capacity {
			return tp, t, nil
		}
	}
	p, err := l.allocateTablePage()
	if err != nil {
		return 0, nil, err
	}
	return p, l.tables[p], nil
}

// FindReusableSegment performs a first-fit scan, in table-page order then
// insertion order within a table, for a segment with Size >= neededSize.
func (l *Ledger) FindReusableSegment(neededSize uint16) (Ticket, bool) {
	for _, tp := range l.tablePages {
		t := l.tables[tp]
		if seg, ok := t.find(func(r Segment) bool { return r.Size >= neededSize }); ok {
			return Ticket{TablePage: tp, Segment: seg}, true
		}
	}
	return Ticket{}, false
}

// SegmentAt returns the free segment starting exactly at (page, offset), if
// one is catalogued. The table registry's iterator uses this to skip over
// a tombstoned slot by the segment's full size.
func (l *Ledger) SegmentAt(page pagestore.Page, offset pagestore.PageOffset) (Segment, bool) {
	for _, tp := range l.tablePages {
		t := l.tables[tp]
		if seg, ok := t.find(func(r Segment) bool { return r.Page == page && r.Offset == offset }); ok {
			return seg, true
		}
	}
	return Segment{}, false
}

// CommitReusedSpace removes the ticketed segment from its table. If the
// record written into it is smaller than the segment, the tail is
// re-catalogued as a new free segment by a plain append; it is not merged
// with neighbouring holes.
func (l *Ledger) CommitReusedSpace(ticket Ticket, usedSize uint16) error {
	t, ok := l.tables[ticket.TablePage]
	if !ok {
		return nil
	}
	t.remove(ticket.Segment.Page, ticket.Segment.Offset, ticket.Segment.Size, usedSize)
	return l.persistTable(ticket.TablePage, t)
}

func decodePageList(data []byte) ([]pagestore.Page, error) {
	if len(data) < 4 {
		return nil, encoding.ErrFixedTooShort
	}
	n, _ := encoding.DecodeUint32(data[0:4])
	pages := make([]pagestore.Page, 0, n)
	off := 4
	for range n {
		if off+4 > len(data) {
			return nil, encoding.ErrTooShort
		}
		v, _ := encoding.DecodeUint32(data[off : off+4])
		pages = append(pages, pagestore.Page(v))
		off += 4
	}
	return pages, nil
}

func encodePageList(pages []pagestore.Page) []byte {
	buf := make([]byte, 4+4*len(pages))
	copy(buf[0:4], encoding.EncodeUint32(uint32(len(pages))))
	off := 4
	for _, p := range pages {
		copy(buf[off:off+4], encoding.EncodeUint32(uint32(p)))
		off += 4
	}
	return buf
}
