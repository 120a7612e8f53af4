package pagestore

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Page identifies a fixed-size page by its 32-bit index.
type Page uint32

// PageOffset is a 16-bit byte offset within a page.
type PageOffset uint16

// HeaderPage is the reserved, always-allocated page 0. It stores the
// allocator cursor and the schema registry root pointer.
const HeaderPage Page = 0

// Header-page byte layout: page-size (u64) | next_free_page (u32) | schema
// registry root pointer (u32).
const (
	headerOffsetPageSize     = 0
	headerOffsetNextFreePage = 8
	headerOffsetSchemaRoot   = 12
	headerPayloadSize        = 16
)

// DefaultPageSize is the page size used by the reference implementation: a
// fixed power of two, 64 KiB.
const DefaultPageSize uint32 = 64 * 1024

// Allocator carves fixed-size pages out of a ByteStore and tracks the next
// free page via a cursor persisted in the header page.
// Pages are never reclaimed at this layer; reuse happens at the record
// layer through the free-segment ledger (internal/freelist).
type Allocator struct {
	mu       sync.Mutex
	store    ByteStore
	pageSize uint32
	log      logrus.FieldLogger
}

// NewAllocator initializes an Allocator over store. If the store is empty
// (Len() == 0) it is grown to hold the header page and the header fields
// are initialized; otherwise the existing header is trusted as-is.
func NewAllocator(store ByteStore, pageSize uint32, log logrus.FieldLogger) (*Allocator, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	a := &Allocator{store: store, pageSize: pageSize, log: log}
	if store.Len() == 0 {
		if err := store.Grow(1, pageSize); err != nil {
			return nil, err
		}
		if err := a.writeHeader(header{pageSize: uint64(pageSize), nextFreePage: 1, schemaRoot: 0}); err != nil {
			return nil, err
		}
		a.log.WithField("page_size", pageSize).Debug("pagestore: initialized header page")
	}
	return a, nil
}

// PageSize returns the fixed page size (bytes) used by this store.
func (a *Allocator) PageSize() uint32 { return a.pageSize }

// Store exposes the underlying ByteStore, e.g. for page I/O helpers.
func (a *Allocator) Store() ByteStore { return a.store }

type header struct {
	pageSize     uint64
	nextFreePage uint32
	schemaRoot   uint32
}

func (a *Allocator) readHeader() (header, error) {
	raw, err := a.store.Read(uint64(HeaderPage)*uint64(a.pageSize), headerPayloadSize)
	if err != nil {
		return header{}, err
	}
	return header{
		pageSize:     leUint64(raw[headerOffsetPageSize:]),
		nextFreePage: leUint32(raw[headerOffsetNextFreePage:]),
		schemaRoot:   leUint32(raw[headerOffsetSchemaRoot:]),
	}, nil
}

func (a *Allocator) writeHeader(h header) error {
	buf := make([]byte, headerPayloadSize)
	putLEUint64(buf[headerOffsetPageSize:], h.pageSize)
	putLEUint32(buf[headerOffsetNextFreePage:], h.nextFreePage)
	putLEUint32(buf[headerOffsetSchemaRoot:], h.schemaRoot)
	return a.store.Write(uint64(HeaderPage)*uint64(a.pageSize), buf)
}

// AllocatePage increments the persistent allocator cursor, grows the
// backing store if necessary, and returns the newly reserved page.
func (a *Allocator) AllocatePage() (Page, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	h, err := a.readHeader()
	if err != nil {
		return 0, err
	}

	p := Page(h.nextFreePage)
	needed := uint64(p+1) * uint64(a.pageSize)
	if needed > a.store.Len() {
		growPages := (needed - a.store.Len() + uint64(a.pageSize) - 1) / uint64(a.pageSize)
		if err := a.store.Grow(uint32(growPages), a.pageSize); err != nil {
			return 0, err
		}
	}

	h.nextFreePage = uint32(p) + 1
	if err := a.writeHeader(h); err != nil {
		return 0, err
	}
	a.log.WithField("page", p).Debug("pagestore: allocated page")
	return p, nil
}

// SchemaRegistryRoot returns the page pointer for the global schema
// registry, or 0 with found=false if it has not yet been created.
func (a *Allocator) SchemaRegistryRoot() (Page, bool, error) {
	h, err := a.readHeader()
	if err != nil {
		return 0, false, err
	}
	return Page(h.schemaRoot), h.schemaRoot != 0, nil
}

// SetSchemaRegistryRoot persists the schema registry's root page pointer.
func (a *Allocator) SetSchemaRegistryRoot(p Page) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	h, err := a.readHeader()
	if err != nil {
		return err
	}
	h.schemaRoot = uint32(p)
	return a.writeHeader(h)
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func putLEUint64(b []byte, v uint64) {
	for i := range 8 {
		b[i] = byte(v >> (8 * i))
	}
}

func leUint32(b []byte) uint32 {
	var v uint32
	for i := 3; i >= 0; i-- {
		v = v<<8 | uint32(b[i])
	}
	return v
}

func putLEUint32(b []byte, v uint32) {
	for i := range 4 {
		b[i] = byte(v >> (8 * i))
	}
}
