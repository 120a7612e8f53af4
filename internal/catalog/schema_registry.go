package catalog

import (
	"fmt"

	"github.com/icdbms/icdbms/internal/encoding"
	"github.com/icdbms/icdbms/internal/pagestore"
)

// ErrSchemaMismatch is returned when a table name is registered twice with
// two different fingerprints — a fatal schema mismatch.
type ErrSchemaMismatch struct {
	Table string
}

func (e *ErrSchemaMismatch) Error() string {
	return fmt.Sprintf("catalog: table %q already registered under a different schema fingerprint", e.Table)
}

// schemaEntry is one row of the schema registry: a table's fingerprint,
// name, and the page its per-table registry header lives on.
type schemaEntry struct {
	Fingerprint  uint64
	Name         string
	RegistryPage pagestore.Page
}

func (e schemaEntry) encodedSize() int {
	return 8 + 2 + len(e.Name) + 4
}

func (e schemaEntry) encode() []byte {
	buf := make([]byte, e.encodedSize())
	copy(buf[0:8], encoding.EncodeUint64(e.Fingerprint))
	copy(buf[8:10], encoding.EncodeUint16(uint16(len(e.Name))))
	copy(buf[10:10+len(e.Name)], e.Name)
	off := 10 + len(e.Name)
	copy(buf[off:off+4], encoding.EncodeUint32(uint32(e.RegistryPage)))
	return buf
}

func decodeSchemaEntry(data []byte) (schemaEntry, int, error) {
	if len(data) < 10 {
		return schemaEntry{}, 0, encoding.ErrTooShort
	}
	fp, _ := encoding.DecodeUint64(data[0:8])
	nameLen, _ := encoding.DecodeUint16(data[8:10])
	off := 10
	if off+int(nameLen)+4 > len(data) {
		return schemaEntry{}, 0, encoding.ErrTooShort
	}
	name := string(data[off : off+int(nameLen)])
	off += int(nameLen)
	page, _ := encoding.DecodeUint32(data[off : off+4])
	off += 4
	return schemaEntry{Fingerprint: fp, Name: name, RegistryPage: pagestore.Page(page)}, off, nil
}

// schemaPage is one page's worth of schema entries: a u16 count followed
// by each entry's variable-length encoding in sequence.
type schemaPage struct {
	entries []schemaEntry
}

func (p *schemaPage) byteSize() int {
	size := 2
	for _, e := range p.entries {
		size += e.encodedSize()
	}
	return size
}

func (p *schemaPage) encode() []byte {
	buf := make([]byte, p.byteSize())
	copy(buf[0:2], encoding.EncodeUint16(uint16(len(p.entries))))
	off := 2
	for _, e := range p.entries {
		enc := e.encode()
		copy(buf[off:off+len(enc)], enc)
		off += len(enc)
	}
	return buf
}

func decodeSchemaPage(data []byte) (*schemaPage, error) {
	if len(data) < 2 {
		return nil, encoding.ErrFixedTooShort
	}
	n, _ := encoding.DecodeUint16(data[0:2])
	entries := make([]schemaEntry, 0, n)
	off := 2
	for range n {
		e, consumed, err := decodeSchemaEntry(data[off:])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
		off += consumed
	}
	return &schemaPage{entries: entries}, nil
}

// SchemaRegistry is the process-wide map from a table's column fingerprint
// to the page holding that table's registry header. It is
// itself a small chain of pages, following the same "length-prefixed list
// of page IDs" idiom as the free-segment ledger (internal/freelist).
type SchemaRegistry struct {
	alloc    *pagestore.Allocator
	rootPage pagestore.Page
	pages    []pagestore.Page
	loaded   map[pagestore.Page]*schemaPage
}

// OpenSchemaRegistry loads (or initializes) the schema registry rooted at
// rootPage, which is normally the allocator's header-page schema-root
// pointer.
func OpenSchemaRegistry(alloc *pagestore.Allocator, rootPage pagestore.Page) (*SchemaRegistry, error) {
	raw, err := alloc.Store().Read(uint64(rootPage)*uint64(alloc.PageSize()), alloc.PageSize())
	if err != nil {
		return nil, err
	}
	pages, err := decodePageIDList(raw)
	if err != nil {
		return nil, err
	}
	r := &SchemaRegistry{alloc: alloc, rootPage: rootPage, pages: pages, loaded: map[pagestore.Page]*schemaPage{}}
	for _, p := range pages {
		sp, err := r.loadPage(p)
		if err != nil {
			return nil, err
		}
		r.loaded[p] = sp
	}
	return r, nil
}

func (r *SchemaRegistry) loadPage(page pagestore.Page) (*schemaPage, error) {
	raw, err := r.alloc.Store().Read(uint64(page)*uint64(r.alloc.PageSize()), r.alloc.PageSize())
	if err != nil {
		return nil, err
	}
	return decodeSchemaPage(raw)
}

func (r *SchemaRegistry) persistPage(page pagestore.Page, sp *schemaPage) error {
	return r.alloc.Store().Write(uint64(page)*uint64(r.alloc.PageSize()), sp.encode())
}

func (r *SchemaRegistry) persistRoot() error {
	return r.alloc.Store().Write(uint64(r.rootPage)*uint64(r.alloc.PageSize()), encodePageIDList(r.pages))
}

// SchemaEntry is one registered table's public identity: its name,
// column-layout fingerprint, and the page its per-table registry header
// lives on.
type SchemaEntry struct {
	Name         string
	Fingerprint  uint64
	RegistryPage pagestore.Page
}

// Entries returns every registered table, in registration order, for
// tooling that needs to enumerate a store's tables without already
// knowing their names (e.g. a debug CLI).
func (r *SchemaRegistry) Entries() []SchemaEntry {
	var out []SchemaEntry
	for _, p := range r.pages {
		for _, e := range r.loaded[p].entries {
			out = append(out, SchemaEntry{Name: e.Name, Fingerprint: e.Fingerprint, RegistryPage: e.RegistryPage})
		}
	}
	return out
}

// Lookup returns the registry page for fingerprint, if already registered.
func (r *SchemaRegistry) Lookup(fingerprint uint64) (pagestore.Page, bool) {
	for _, p := range r.pages {
		for _, e := range r.loaded[p].entries {
			if e.Fingerprint == fingerprint {
				return e.RegistryPage, true
			}
		}
	}
	return 0, false
}

// RegisterTable idempotently registers a table's (fingerprint, name). If
// fingerprint is already known, its existing registry page is returned.
// If name is already bound to a *different* fingerprint, registration
// fails fatally with ErrSchemaMismatch.
func (r *SchemaRegistry) RegisterTable(fingerprint uint64, name string) (pagestore.Page, error) {
	for _, p := range r.pages {
		for _, e := range r.loaded[p].entries {
			if e.Fingerprint == fingerprint {
				return e.RegistryPage, nil
			}
			if e.Name == name {
				return 0, &ErrSchemaMismatch{Table: name}
			}
		}
	}

	registryPage, err := r.alloc.AllocatePage()
	if err != nil {
		return 0, err
	}
	entry := schemaEntry{Fingerprint: fingerprint, Name: name, RegistryPage: registryPage}

	page, sp, err := r.writablePage(entry.encodedSize())
	if err != nil {
		return 0, err
	}
	sp.entries = append(sp.entries, entry)
	if err := r.persistPage(page, sp); err != nil {
		return 0, err
	}
	return registryPage, nil
}

func (r *SchemaRegistry) writablePage(needed int) (pagestore.Page, *schemaPage, error) {
	if len(r.pages) > 0 {
		last := r.pages[len(r.pages)-1]
		sp := r.loaded[last]
		if sp.byteSize()+needed <= int(r.alloc.PageSize()) {
			return last, sp, nil
		}
	}
	p, err := r.alloc.AllocatePage()
	if err != nil {
		return 0, nil, err
	}
	sp := &schemaPage{}
	r.pages = append(r.pages, p)
	r.loaded[p] = sp
	if err := r.persistRoot(); err != nil {
		return 0, nil, err
	}
	return p, sp, nil
}

func decodePageIDList(data []byte) ([]pagestore.Page, error) {
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

func encodePageIDList(pages []pagestore.Page) []byte {
	buf := make([]byte, 4+4*len(pages))
	copy(buf[0:4], encoding.EncodeUint32(uint32(len(pages))))
	off := 4
	for _, p := range pages {
		copy(buf[off:off+4], encoding.EncodeUint32(uint32(p)))
		off += 4
	}
	return buf
}
