// Package badgerstore maps the fixed-size page address space of
// internal/pagestore onto an embedded github.com/dgraph-io/badger/v4
// key-value store, so a host that does not have its own stable-memory
// provider gets a durable ByteStore for free instead of reimplementing one.
//
// This does not replace the engine's from-scratch paged record layout —
// bespoke pages/records/free-segment ledger stay exactly as designed, not
// an LSM tree — it only plays the role of the "host-environment bindings
// for stable memory growth" collaborator this module treats as external,
// grounded on OPA's own storage/disk package, which does the same
// badger-backed-Store trick for its document store.
package badgerstore

import (
	"encoding/binary"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/icdbms/icdbms/internal/pagestore"
)

// Store is a pagestore.ByteStore backed by badger. Each page is stored
// under its own key; Len() is tracked in a small metadata key so Grow can
// report the logical extent of the address space without having to list
// keys.
type Store struct {
	db       *badger.DB
	pageSize uint32
	numPages uint32
}

const metaKey = "icdbms:meta:num_pages"

// Open opens (or creates) a badger database at dir and wraps it as a
// pagestore.ByteStore addressed in pages of pageSize bytes.
func Open(dir string, pageSize uint32) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open: %w", err)
	}
	s := &Store{db: db, pageSize: pageSize}
	if err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			s.numPages = binary.LittleEndian.Uint32(val)
			return nil
		})
	}); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying badger database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Len() uint64 { return uint64(s.numPages) * uint64(s.pageSize) }

func pageKey(page uint32) []byte {
	k := make([]byte, len("icdbms:page:")+4)
	copy(k, "icdbms:page:")
	binary.BigEndian.PutUint32(k[len("icdbms:page:"):], page)
	return k
}

func (s *Store) Read(offset uint64, length uint32) ([]byte, error) {
	end := offset + uint64(length)
	if end > s.Len() {
		return nil, &pagestore.ErrOutOfBounds{Offset: offset, Length: uint64(length), StoreLen: s.Len()}
	}
	out := make([]byte, length)
	var filled uint32
	for filled < length {
		abs := offset + uint64(filled)
		page := uint32(abs / uint64(s.pageSize))
		inPage := uint32(abs % uint64(s.pageSize))
		chunk := s.pageSize - inPage
		if remain := length - filled; chunk > remain {
			chunk = remain
		}
		if err := s.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get(pageKey(page))
			if err == badger.ErrKeyNotFound {
				// never-written page reads as zeroes, matching a freshly
				// grown in-memory store.
				return nil
			}
			if err != nil {
				return err
			}
			return item.Value(func(val []byte) error {
				copy(out[filled:filled+chunk], val[inPage:inPage+chunk])
				return nil
			})
		}); err != nil {
			return nil, fmt.Errorf("badgerstore: read: %w", err)
		}
		filled += chunk
	}
	return out, nil
}

func (s *Store) Write(offset uint64, data []byte) error {
	end := offset + uint64(len(data))
	if end > s.Len() {
		return &pagestore.ErrOutOfBounds{Offset: offset, Length: uint64(len(data)), StoreLen: s.Len()}
	}
	var written uint32
	length := uint32(len(data))
	for written < length {
		abs := offset + uint64(written)
		page := uint32(abs / uint64(s.pageSize))
		inPage := uint32(abs % uint64(s.pageSize))
		chunk := s.pageSize - inPage
		if remain := length - written; chunk > remain {
			chunk = remain
		}
		if err := s.db.Update(func(txn *badger.Txn) error {
			var full []byte
			item, err := txn.Get(pageKey(page))
			if err == nil {
				full, err = item.ValueCopy(nil)
				if err != nil {
					return err
				}
			} else if err == badger.ErrKeyNotFound {
				full = make([]byte, s.pageSize)
			} else {
				return err
			}
			copy(full[inPage:inPage+chunk], data[written:written+chunk])
			return txn.Set(pageKey(page), full)
		}); err != nil {
			return fmt.Errorf("badgerstore: write: %w", err)
		}
		written += chunk
	}
	return nil
}

func (s *Store) Grow(pages uint32, pageSize uint32) error {
	if pageSize != s.pageSize {
		return fmt.Errorf("badgerstore: page size mismatch: store=%d requested=%d", s.pageSize, pageSize)
	}
	s.numPages += pages
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, s.numPages)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(metaKey), buf)
	})
}

var _ pagestore.ByteStore = (*Store)(nil)
