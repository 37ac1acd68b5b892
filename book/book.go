// Package book persists a warmed position cache between runs, so the
// opening precomputation pass does not start from scratch every game.
package book

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"

	"github.com/desdemona-ai/iago/ttable"
)

const openingsKey = "openings"

// Book wraps BadgerDB storage of opening-cache entries.
type Book struct {
	db *badger.DB
}

// Open opens (or creates) a book in the given directory.
func Open(dir string) (*Book, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Badger's own logging is noise here.

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Book{db: db}, nil
}

func (b *Book) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// Save snapshots the table's entries, oldest first, replacing any previous
// snapshot.
func (b *Book) Save(tt *ttable.TranspositionTable) error {
	data, err := json.Marshal(tt.Entries())
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(openingsKey), data)
	})
}

// Load inserts a previously saved snapshot into tt in its stored insertion
// order and reports how many entries it loaded. A missing snapshot loads
// zero entries and is not an error.
func (b *Book) Load(tt *ttable.TranspositionTable) (int, error) {
	var entries []ttable.Entry
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(openingsKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entries)
		})
	})
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		tt.Store(e.Key, e.Score)
	}
	return len(entries), nil
}
