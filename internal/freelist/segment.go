// Package freelist implements the free-segment ledger: the catalog of
// reusable holes created by deletions/resizes. It is grounded directly on
// the reference prototype's free_segments_table.rs / free_segment.rs.
package freelist

import (
	"github.com/icdbms/icdbms/internal/encoding"
	"github.com/icdbms/icdbms/internal/pagestore"
)

// Segment describes a contiguous hole within a page available for reuse.
type Segment struct {
	Page   pagestore.Page
	Offset pagestore.PageOffset
	Size   uint16
}

// EncodedSize is the fixed on-disk footprint of a Segment: page (4) +
// offset (2) + size (2) = 8 bytes.
const EncodedSize uint16 = 8

// Encode serializes a Segment to its 8-byte little-endian layout.
func (s Segment) Encode() []byte {
	buf := make([]byte, EncodedSize)
	copy(buf[0:4], encoding.EncodeUint32(uint32(s.Page)))
	copy(buf[4:6], encoding.EncodeUint16(uint16(s.Offset)))
	copy(buf[6:8], encoding.EncodeUint16(s.Size))
	return buf
}

// DecodeSegment parses an 8-byte record produced by Encode.
func DecodeSegment(data []byte) (Segment, error) {
	if len(data) < int(EncodedSize) {
		return Segment{}, encoding.ErrFixedTooShort
	}
	page, _ := encoding.DecodeUint32(data[0:4])
	offset, _ := encoding.DecodeUint16(data[4:6])
	size, _ := encoding.DecodeUint16(data[6:8])
	return Segment{Page: pagestore.Page(page), Offset: pagestore.PageOffset(offset), Size: size}, nil
}

// table is the in-memory, length-prefixed list of free segments living on
// one free-segments-table page.
type table struct {
	records []Segment
}

type adjacentSide int

const (
	adjacentNone adjacentSide = iota
	adjacentBefore
	adjacentAfter
)

// insertFreeSegment inserts (page, offset, size), immediately merging with
// an adjacent segment in the same page if one exists. Merge is recursive:
// merging may in turn expose a further adjacency, so the result is
// re-inserted until no further merge applies.
func (t *table) insertFreeSegment(page pagestore.Page, offset pagestore.PageOffset, size uint16) {
	side, adj := t.findAdjacent(page, offset, size)
	switch side {
	case adjacentBefore:
		newSize := saturatingAddU16(adj.Size, size)
		t.remove(adj.Page, adj.Offset, adj.Size, adj.Size)
		t.insertFreeSegment(page, adj.Offset, newSize)
	case adjacentAfter:
		newSize := saturatingAddU16(size, adj.Size)
		t.remove(adj.Page, adj.Offset, adj.Size, adj.Size)
		t.insertFreeSegment(page, offset, newSize)
	default:
		t.records = append(t.records, Segment{Page: page, Offset: offset, Size: size})
	}
}

// find returns the first record satisfying predicate, in table order
// (first-fit / insertion-order tie-break).
func (t *table) find(predicate func(Segment) bool) (Segment, bool) {
	for _, r := range t.records {
		if predicate(r) {
			return r, true
		}
	}
	return Segment{}, false
}

// remove deletes the record matching (page, offset, size). If usedSize <
// size, the tail (offset+usedSize, size-usedSize) is re-inserted as a new
// free segment — note this is a plain append, not insertFreeSegment,
// matching the reference prototype's remove() which does not re-merge the
// tail (that merge, if any, happens on the next explicit insert).
func (t *table) remove(page pagestore.Page, offset pagestore.PageOffset, size uint16, usedSize uint16) {
	pos := -1
	for i, r := range t.records {
		if r.Page == page && r.Offset == offset && r.Size == size {
			pos = i
			break
		}
	}
	if pos < 0 {
		return
	}
	last := len(t.records) - 1
	t.records[pos] = t.records[last]
	t.records = t.records[:last]

	if usedSize < size {
		remaining := saturatingSubU16(size, usedSize)
		newOffset := pagestore.PageOffset(saturatingAddU16(uint16(offset), usedSize))
		t.records = append(t.records, Segment{Page: page, Offset: newOffset, Size: remaining})
	}
}

func (t *table) findAdjacent(page pagestore.Page, offset pagestore.PageOffset, size uint16) (adjacentSide, Segment) {
	if seg, ok := t.find(func(r Segment) bool {
		return r.Page == page && saturatingAddU16(uint16(r.Offset), r.Size) == uint16(offset)
	}); ok {
		return adjacentBefore, seg
	}
	target := saturatingAddU16(uint16(offset), size)
	if seg, ok := t.find(func(r Segment) bool {
		return r.Page == page && uint16(r.Offset) == target
	}); ok {
		return adjacentAfter, seg
	}
	return adjacentNone, Segment{}
}

func saturatingAddU16(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	if sum > 0xFFFF {
		return 0xFFFF
	}
	return uint16(sum)
}

func saturatingSubU16(a, b uint16) uint16 {
	if b > a {
		return 0
	}
	return a - b
}

// tableSize returns the encoded byte length of the table: a u16 length
// prefix followed by EncodedSize bytes per record.
func (t *table) tableSize() uint32 {
	return 2 + uint32(len(t.records))*uint32(EncodedSize)
}

func (t *table) encode() []byte {
	buf := make([]byte, t.tableSize())
	copy(buf[0:2], encoding.EncodeUint16(uint16(len(t.records))))
	off := 2
	for _, r := range t.records {
		copy(buf[off:off+int(EncodedSize)], r.Encode())
		off += int(EncodedSize)
	}
	return buf
}

func decodeTable(data []byte) (*table, error) {
	if len(data) < 2 {
		return nil, encoding.ErrFixedTooShort
	}
	n, _ := encoding.DecodeUint16(data[0:2])
	records := make([]Segment, 0, n)
	off := 2
	for range n {
		if off+int(EncodedSize) > len(data) {
			return nil, encoding.ErrTooShort
		}
		seg, err := DecodeSegment(data[off : off+int(EncodedSize)])
		if err != nil {
			return nil, err
		}
		records = append(records, seg)
		off += int(EncodedSize)
	}
	return &table{records: records}, nil
}
