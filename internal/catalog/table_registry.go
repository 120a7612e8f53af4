// Package catalog implements the table registry (C6) and schema registry
// (C7): per-table record placement/iteration/update/delete, and the
// process-wide table-fingerprint-to-registry-page map.
// It is grounded on the free-segment ledger's own chained-pages idiom
// (internal/freelist), since the original source's table registry
// implementation was not retained in original_source/ — only its
// free_segments_ledger subpackage was.
package catalog

import (
	"fmt"
	"iter"

	"github.com/icdbms/icdbms/internal/encoding"
	"github.com/icdbms/icdbms/internal/freelist"
	"github.com/icdbms/icdbms/internal/pagestore"
)

// RecordLocation names where a raw record physically lives: the page, the
// byte offset within it, and the tombstone-aware physical footprint
// (length prefix + payload + alignment padding).
type RecordLocation struct {
	Page         pagestore.Page
	Offset       pagestore.PageOffset
	PhysicalSize uint16
}

// Record pairs a decoded-row's raw encoded bytes with its on-disk location.
type Record struct {
	Raw      []byte
	Location RecordLocation
}

// ErrCorruptTombstone is returned when the iterator finds a zero-length
// slot that has no corresponding entry in the free-segment ledger — the
// persisted invariant that every tombstone corresponds to a ledger entry
// has been violated.
var ErrCorruptTombstone = fmt.Errorf("catalog: tombstone has no matching free segment")

// registryHeader is the per-table registry page content: the chain of
// record pages (in allocation order; pages[0] is the head), the
// free-segments ledger page, and the write cursor into the tail page.
type registryHeader struct {
	pages      []pagestore.Page
	ledgerPage pagestore.Page
	tailCursor pagestore.PageOffset
}

func (h registryHeader) encode() []byte {
	buf := make([]byte, 4+4*len(h.pages)+4+2)
	copy(buf[0:4], encoding.EncodeUint32(uint32(len(h.pages))))
	off := 4
	for _, p := range h.pages {
		copy(buf[off:off+4], encoding.EncodeUint32(uint32(p)))
		off += 4
	}
	copy(buf[off:off+4], encoding.EncodeUint32(uint32(h.ledgerPage)))
	off += 4
	copy(buf[off:off+2], encoding.EncodeUint16(uint16(h.tailCursor)))
	return buf
}

func decodeRegistryHeader(data []byte) (registryHeader, error) {
	if len(data) < 4 {
		return registryHeader{}, encoding.ErrFixedTooShort
	}
	n, _ := encoding.DecodeUint32(data[0:4])
	off := 4
	pages := make([]pagestore.Page, 0, n)
	for range n {
		if off+4 > len(data) {
			return registryHeader{}, encoding.ErrTooShort
		}
		v, _ := encoding.DecodeUint32(data[off : off+4])
		pages = append(pages, pagestore.Page(v))
		off += 4
	}
	if off+4+2 > len(data) {
		return registryHeader{}, encoding.ErrTooShort
	}
	ledgerPage, _ := encoding.DecodeUint32(data[off : off+4])
	off += 4
	tailCursor, _ := encoding.DecodeUint16(data[off : off+2])
	return registryHeader{pages: pages, ledgerPage: pagestore.Page(ledgerPage), tailCursor: pagestore.PageOffset(tailCursor)}, nil
}

// TableRegistry manages one user table's record storage: the page chain
// holding raw records, and the free-segment ledger tracking reusable
// holes in that chain.
type TableRegistry struct {
	alloc        *pagestore.Allocator
	registryPage pagestore.Page
	header       registryHeader
	ledger       *freelist.Ledger
	rowAlignment uint16
}

// OpenTableRegistry loads (or initializes, if registryPage is freshly
// allocated and all-zero) the table registry rooted at registryPage.
// rowAlignment is the row type's declared ALIGNMENT; callers
// without a stronger requirement should pass encoding.DefaultAlignment.
func OpenTableRegistry(alloc *pagestore.Allocator, registryPage pagestore.Page, rowAlignment uint16) (*TableRegistry, error) {
	raw, err := alloc.Store().Read(uint64(registryPage)*uint64(alloc.PageSize()), alloc.PageSize())
	if err != nil {
		return nil, err
	}
	header, err := decodeRegistryHeader(raw)
	if err != nil {
		return nil, err
	}

	tr := &TableRegistry{alloc: alloc, registryPage: registryPage, header: header, rowAlignment: rowAlignment}

	if header.ledgerPage == 0 {
		ledgerPage, err := alloc.AllocatePage()
		if err != nil {
			return nil, err
		}
		tr.header.ledgerPage = ledgerPage
	}
	ledger, err := freelist.OpenLedger(alloc, tr.header.ledgerPage)
	if err != nil {
		return nil, err
	}
	tr.ledger = ledger

	if header.ledgerPage == 0 {
		if err := tr.persistHeader(); err != nil {
			return nil, err
		}
	}
	return tr, nil
}

func (tr *TableRegistry) persistHeader() error {
	return tr.alloc.Store().Write(uint64(tr.registryPage)*uint64(tr.alloc.PageSize()), tr.header.encode())
}

func (tr *TableRegistry) physicalSize(recordLen int) uint16 {
	return uint16(encoding.AlignUp(uint32(2+recordLen), tr.rowAlignment))
}

func (tr *TableRegistry) pageAddr(p pagestore.Page) uint64 {
	return uint64(p) * uint64(tr.alloc.PageSize())
}

// writeRaw writes a length-prefixed record at (page, offset).
func (tr *TableRegistry) writeRaw(page pagestore.Page, offset pagestore.PageOffset, raw []byte) error {
	prefixed := make([]byte, 2+len(raw))
	copy(prefixed[0:2], encoding.EncodeUint16(uint16(len(raw))))
	copy(prefixed[2:], raw)
	return tr.alloc.Store().Write(tr.pageAddr(page)+uint64(offset), prefixed)
}

// Insert places raw, a fully-encoded row, into the table, reusing a
// free segment if one fits or else appending to the tail page, allocating
// a new one if the current tail is full.
func (tr *TableRegistry) Insert(raw []byte) (RecordLocation, error) {
	physical := tr.physicalSize(len(raw))

	if ticket, ok := tr.ledger.FindReusableSegment(uint16(2 + len(raw))); ok {
		if err := tr.writeRaw(ticket.Segment.Page, ticket.Segment.Offset, raw); err != nil {
			return RecordLocation{}, err
		}
		if physical < ticket.Segment.Size {
			tailOffset := pagestore.PageOffset(uint16(ticket.Segment.Offset) + physical)
			if err := tr.alloc.Store().Write(tr.pageAddr(ticket.Segment.Page)+uint64(tailOffset), []byte{0, 0}); err != nil {
				return RecordLocation{}, err
			}
		}
		if err := tr.ledger.CommitReusedSpace(ticket, physical); err != nil {
			return RecordLocation{}, err
		}
		return RecordLocation{Page: ticket.Segment.Page, Offset: ticket.Segment.Offset, PhysicalSize: physical}, nil
	}

	if len(tr.header.pages) == 0 || uint32(tr.header.tailCursor)+uint32(physical) > tr.alloc.PageSize() {
		if len(tr.header.pages) > 0 {
			// Catalog the old tail page's unused remainder as free so a
			// later scan recognizes it as a hole rather than never-written
			// bytes past the end of live data.
			oldTail := tr.header.pages[len(tr.header.pages)-1]
			if remaining32 := tr.alloc.PageSize() - uint32(tr.header.tailCursor); remaining32 > 0 {
				remaining := uint16(remaining32)
				if err := tr.alloc.Store().Write(tr.pageAddr(oldTail)+uint64(tr.header.tailCursor), []byte{0, 0}); err != nil {
					return RecordLocation{}, err
				}
				if err := tr.ledger.InsertFreeSegment(oldTail, tr.header.tailCursor, remaining); err != nil {
					return RecordLocation{}, err
				}
			}
		}
		newPage, err := tr.alloc.AllocatePage()
		if err != nil {
			return RecordLocation{}, err
		}
		tr.header.pages = append(tr.header.pages, newPage)
		tr.header.tailCursor = 0
	}

	tail := tr.header.pages[len(tr.header.pages)-1]
	loc := RecordLocation{Page: tail, Offset: tr.header.tailCursor, PhysicalSize: physical}
	if err := tr.writeRaw(tail, loc.Offset, raw); err != nil {
		return RecordLocation{}, err
	}
	tr.header.tailCursor += pagestore.PageOffset(physical)
	if err := tr.persistHeader(); err != nil {
		return RecordLocation{}, err
	}
	return loc, nil
}

// Update overwrites the record at old with new's bytes. If the new
// physical footprint fits within the old one, the write happens in
// place and any leftover tail is registered as free; otherwise the old
// slot is freed in full and the record is placed anew via Insert.
func (tr *TableRegistry) Update(newRaw []byte, old RecordLocation) (RecordLocation, error) {
	newPhys := tr.physicalSize(len(newRaw))
	if newPhys <= old.PhysicalSize {
		if err := tr.writeRaw(old.Page, old.Offset, newRaw); err != nil {
			return RecordLocation{}, err
		}
		if newPhys < old.PhysicalSize {
			tailOffset := pagestore.PageOffset(uint16(old.Offset) + newPhys)
			tailSize := old.PhysicalSize - newPhys
			// Mark the tail as a tombstone (zero length prefix) so a scan
			// stepping off the end of the shrunk record recognizes a hole
			// instead of decoding leftover bytes from the old payload.
			if err := tr.alloc.Store().Write(tr.pageAddr(old.Page)+uint64(tailOffset), []byte{0, 0}); err != nil {
				return RecordLocation{}, err
			}
			if err := tr.ledger.InsertFreeSegment(old.Page, tailOffset, tailSize); err != nil {
				return RecordLocation{}, err
			}
		}
		return RecordLocation{Page: old.Page, Offset: old.Offset, PhysicalSize: newPhys}, nil
	}

	if err := tr.alloc.Store().Write(tr.pageAddr(old.Page)+uint64(old.Offset), []byte{0, 0}); err != nil {
		return RecordLocation{}, err
	}
	if err := tr.ledger.InsertFreeSegment(old.Page, old.Offset, old.PhysicalSize); err != nil {
		return RecordLocation{}, err
	}
	return tr.Insert(newRaw)
}

// Delete tombstones the record at loc (writes a zero length prefix) and
// registers its footprint as a free segment. No physical erase of the
// payload bytes is required.
func (tr *TableRegistry) Delete(loc RecordLocation) error {
	zero := []byte{0, 0}
	if err := tr.alloc.Store().Write(tr.pageAddr(loc.Page)+uint64(loc.Offset), zero); err != nil {
		return err
	}
	return tr.ledger.InsertFreeSegment(loc.Page, loc.Offset, loc.PhysicalSize)
}

// Scan walks the page chain in order, yielding every live record. A
// zero-length slot is skipped by consulting the free-segment ledger for
// the hole starting at that address. A non-nil
// error is yielded at most once, as the final pair, and ends the scan.
func (tr *TableRegistry) Scan() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for i, page := range tr.header.pages {
			// Every page except the current tail has had its unused
			// remainder tombstoned and ledger-registered when the chain
			// advanced past it (see Insert); the tail's remainder beyond
			// tailCursor has never been written and must not be scanned.
			limit := tr.alloc.PageSize()
			if i == len(tr.header.pages)-1 {
				limit = uint32(tr.header.tailCursor)
			}
			cursor := uint32(0)
			for cursor+2 <= limit {
				prefix, err := tr.alloc.Store().Read(tr.pageAddr(page)+uint64(cursor), 2)
				if err != nil {
					yield(Record{}, err)
					return
				}
				length := uint16(prefix[0]) | uint16(prefix[1])<<8

				if length == 0 {
					seg, ok := tr.ledger.SegmentAt(page, pagestore.PageOffset(cursor))
					if !ok {
						yield(Record{}, ErrCorruptTombstone)
						return
					}
					cursor += uint32(seg.Size)
					continue
				}

				physical := tr.physicalSize(int(length))
				if cursor+uint32(physical) > tr.alloc.PageSize() {
					yield(Record{}, fmt.Errorf("catalog: record at page=%d offset=%d overruns page bounds", page, cursor))
					return
				}
				raw, err := tr.alloc.Store().Read(tr.pageAddr(page)+uint64(cursor)+2, uint32(length))
				if err != nil {
					yield(Record{}, err)
					return
				}
				rec := Record{Raw: raw, Location: RecordLocation{Page: page, Offset: pagestore.PageOffset(cursor), PhysicalSize: physical}}
				if !yield(rec, nil) {
					return
				}
				cursor += uint32(physical)
			}
		}
	}
}

// ReadAll collects every live record via Scan. Callers that need to
// mutate while iterating (UPDATE/DELETE) must use this instead of Scan
// directly, since mutating a record's physical footprint mid-scan would
// otherwise invalidate the cursor.
func (tr *TableRegistry) ReadAll() ([]Record, error) {
	var out []Record
	for rec, err := range tr.Scan() {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
