// Package pageio provides aligned, bounds-checked typed reads/writes over a
// single page of a pagestore.ByteStore.
package pageio

import (
	"fmt"

	"github.com/icdbms/icdbms/internal/pagestore"
)

// SegmentationFault is returned when a read/write would spill past the end
// of a page.
type SegmentationFault struct {
	Page               pagestore.Page
	Offset             pagestore.PageOffset
	DataSize, PageSize uint32
}

func (e *SegmentationFault) Error() string {
	return fmt.Sprintf("pageio: segmentation fault at page=%d offset=%d data_size=%d page_size=%d",
		e.Page, e.Offset, e.DataSize, e.PageSize)
}

// OffsetNotAligned is returned when a write/read offset does not respect
// the target type's declared alignment.
type OffsetNotAligned struct {
	Offset    pagestore.PageOffset
	Alignment uint16
}

func (e *OffsetNotAligned) Error() string {
	return fmt.Sprintf("pageio: offset %d is not aligned to %d", e.Offset, e.Alignment)
}

func pageAddress(a *pagestore.Allocator, page pagestore.Page) uint64 {
	return uint64(page) * uint64(a.PageSize())
}

func checkAlignment(offset pagestore.PageOffset, alignment uint16) error {
	if alignment == 0 {
		return nil
	}
	if uint32(offset)%uint32(alignment) != 0 {
		return &OffsetNotAligned{Offset: offset, Alignment: alignment}
	}
	return nil
}

// ReadFixed reads exactly size bytes at (page, offset), enforcing alignment
// and page bounds.
func ReadFixed(a *pagestore.Allocator, page pagestore.Page, offset pagestore.PageOffset, alignment uint16, size uint16) ([]byte, error) {
	if err := checkAlignment(offset, alignment); err != nil {
		return nil, err
	}
	if uint32(offset)+uint32(size) > a.PageSize() {
		return nil, &SegmentationFault{Page: page, Offset: offset, DataSize: uint32(size), PageSize: a.PageSize()}
	}
	return a.Store().Read(pageAddress(a, page)+uint64(offset), uint32(size))
}

// WriteFixed writes exactly len(data) bytes at (page, offset), enforcing
// alignment and page bounds.
func WriteFixed(a *pagestore.Allocator, page pagestore.Page, offset pagestore.PageOffset, alignment uint16, data []byte) error {
	if err := checkAlignment(offset, alignment); err != nil {
		return err
	}
	if uint32(offset)+uint32(len(data)) > a.PageSize() {
		return &SegmentationFault{Page: page, Offset: offset, DataSize: uint32(len(data)), PageSize: a.PageSize()}
	}
	return a.Store().Write(pageAddress(a, page)+uint64(offset), data)
}

// ReadDynamicPrefix reads the 2-byte little-endian length prefix at
// (page, offset) and then the following `length` bytes, enforcing
// alignment (dynamic types declare encoding.DefaultAlignment; callers pass
// their declared alignment through uniformly) and page bounds. It returns
// the full record (prefix + payload) so callers can hand it to a dynamic
// decoder that expects the prefix included.
func ReadDynamicPrefix(a *pagestore.Allocator, page pagestore.Page, offset pagestore.PageOffset, alignment uint16) ([]byte, error) {
	if err := checkAlignment(offset, alignment); err != nil {
		return nil, err
	}
	if uint32(offset)+2 > a.PageSize() {
		return nil, &SegmentationFault{Page: page, Offset: offset, DataSize: 2, PageSize: a.PageSize()}
	}
	prefix, err := a.Store().Read(pageAddress(a, page)+uint64(offset), 2)
	if err != nil {
		return nil, err
	}
	length := uint32(prefix[0]) | uint32(prefix[1])<<8
	total := uint32(2) + length
	if uint32(offset)+total > a.PageSize() {
		return nil, &SegmentationFault{Page: page, Offset: offset, DataSize: total, PageSize: a.PageSize()}
	}
	return a.Store().Read(pageAddress(a, page)+uint64(offset), total)
}
