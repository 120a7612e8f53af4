// Package pagestore implements the linear byte-addressable backing store and
// the page allocator layered on top of it
// and C2). Production hosts plug in their own stable-memory-backed
// ByteStore; the in-memory implementation here is used by tests and by
// callers that do not need cross-process durability.
package pagestore

import "fmt"

// ByteStore is a contiguous, addressable-by-offset memory region that grows
// in whole pages on demand. It is the pluggable byte-store collaborator
// calls "host-environment bindings for stable memory growth" — this module
// treats it as an opaque byte-addressable block device.
type ByteStore interface {
	// Len returns the current size of the store in bytes.
	Len() uint64
	// Read returns a copy of length bytes starting at offset. Returns
	// ErrOutOfBounds if the requested range exceeds Len().
	Read(offset uint64, length uint32) ([]byte, error)
	// Write copies data into the store starting at offset. Returns
	// ErrOutOfBounds if the write would exceed Len().
	Write(offset uint64, data []byte) error
	// Grow extends the store by the given number of pages of pageSize
	// bytes each.
	Grow(pages uint32, pageSize uint32) error
}

// ErrOutOfBounds is returned by Read/Write when the access falls beyond the
// current extent of the store.
type ErrOutOfBounds struct {
	Offset, Length, StoreLen uint64
}

func (e *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("pagestore: out of bounds access at offset=%d length=%d store_len=%d",
		e.Offset, e.Length, e.StoreLen)
}

// memStore is a heap-backed ByteStore, the default used when no host
// stable-memory provider is wired in (tests, oneshot in-process use).
type memStore struct {
	buf []byte
}

// NewMemStore returns a ByteStore backed by an in-process byte slice.
func NewMemStore() ByteStore {
	return &memStore{}
}

func (m *memStore) Len() uint64 { return uint64(len(m.buf)) }

func (m *memStore) Read(offset uint64, length uint32) ([]byte, error) {
	end := offset + uint64(length)
	if end > m.Len() {
		return nil, &ErrOutOfBounds{Offset: offset, Length: uint64(length), StoreLen: m.Len()}
	}
	out := make([]byte, length)
	copy(out, m.buf[offset:end])
	return out, nil
}

func (m *memStore) Write(offset uint64, data []byte) error {
	end := offset + uint64(len(data))
	if end > m.Len() {
		return &ErrOutOfBounds{Offset: offset, Length: uint64(len(data)), StoreLen: m.Len()}
	}
	copy(m.buf[offset:end], data)
	return nil
}

func (m *memStore) Grow(pages uint32, pageSize uint32) error {
	grow := int(pages) * int(pageSize)
	m.buf = append(m.buf, make([]byte, grow)...)
	return nil
}
