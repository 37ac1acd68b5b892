// Package ttable implements the engine's position cache: a bounded map from
// a canonical position key to a previously computed heuristic score. When the
// table is full, inserting evicts the earliest-inserted entry; older entries
// belong to positions furthest from the current game phase and are the least
// likely to recur.
package ttable

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// DefaultMaxEntries mirrors the sizing the engine has always used.
const DefaultMaxEntries = 100000

// Rough per-entry footprint, including map overhead and the eviction queue
// slot. Only used to keep oversized capacity requests inside system memory.
const entrySize = 64

const memoryFraction = 0.25

// Entry is one stored (key, score) pair, exported for opening-book
// persistence.
type Entry struct {
	Key   uint64 `json:"k"`
	Score int16  `json:"s"`
}

// Key derives the canonical cache key from exactly two quantities: the bit
// pattern of the acting side's discs and the bit pattern of all occupied
// squares. Two positions with identical pairs always map to the same key no
// matter how they were reached.
func Key(own, occupied uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], own)
	binary.LittleEndian.PutUint64(buf[8:], occupied)
	return xxhash.Sum64(buf[:])
}

type TranspositionTable struct {
	entries  map[uint64]int16
	order    []uint64
	next     int
	capacity int

	lookups   atomic.Uint64
	hits      atomic.Uint64
	created   atomic.Uint64
	evictions atomic.Uint64
}

// New creates a table that holds at most capacity entries. Capacities that
// would not fit in a fraction of system memory are clamped.
func New(capacity int) *TranspositionTable {
	if capacity < 1 {
		capacity = 1
	}
	totalMem := memory.TotalMemory()
	maxElems := int(memoryFraction * (float64(totalMem) / float64(entrySize)))
	if maxElems > 0 && capacity > maxElems {
		log.Warn().Int("requested", capacity).Int("clamped", maxElems).
			Uint64("total-system-memory-bytes", totalMem).
			Msg("transposition-table-capacity-clamped")
		capacity = maxElems
	}
	log.Debug().Int("capacity", capacity).
		Int("estimated-total-memory-bytes", capacity*entrySize).
		Msg("transposition-table-size")
	return &TranspositionTable{
		entries:  make(map[uint64]int16),
		order:    make([]uint64, 0, capacity),
		capacity: capacity,
	}
}

// Lookup returns the stored score for key, exactly as it was inserted.
func (t *TranspositionTable) Lookup(key uint64) (int16, bool) {
	t.lookups.Add(1)
	score, ok := t.entries[key]
	if ok {
		t.hits.Add(1)
	}
	return score, ok
}

// Store inserts a score. On a full table it first evicts exactly one entry,
// the earliest-inserted one.
func (t *TranspositionTable) Store(key uint64, score int16) {
	if _, ok := t.entries[key]; ok {
		t.entries[key] = score
		return
	}
	if len(t.order) < t.capacity {
		t.entries[key] = score
		t.order = append(t.order, key)
		t.created.Add(1)
		return
	}
	delete(t.entries, t.order[t.next])
	t.evictions.Add(1)
	t.entries[key] = score
	t.order[t.next] = key
	t.next = (t.next + 1) % t.capacity
	t.created.Add(1)
}

func (t *TranspositionTable) Len() int {
	return len(t.entries)
}

func (t *TranspositionTable) Capacity() int {
	return t.capacity
}

func (t *TranspositionTable) Lookups() uint64 {
	return t.lookups.Load()
}

func (t *TranspositionTable) Hits() uint64 {
	return t.hits.Load()
}

func (t *TranspositionTable) Evictions() uint64 {
	return t.evictions.Load()
}

// Entries snapshots the live entries in insertion order, oldest first.
func (t *TranspositionTable) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	appendLive := func(keys []uint64) {
		for _, k := range keys {
			if score, ok := t.entries[k]; ok {
				out = append(out, Entry{Key: k, Score: score})
			}
		}
	}
	if len(t.order) < t.capacity {
		appendLive(t.order)
		return out
	}
	appendLive(t.order[t.next:])
	appendLive(t.order[:t.next])
	return out
}

// Reset discards all entries but keeps the configured capacity.
func (t *TranspositionTable) Reset() {
	t.entries = make(map[uint64]int16)
	t.order = t.order[:0]
	t.next = 0
	t.lookups.Store(0)
	t.hits.Store(0)
	t.created.Store(0)
	t.evictions.Store(0)
}
