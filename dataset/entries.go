// Package dataset holds labeled vector collections and cursors over them.
//
// Entries is an indexable arena of *Entry values sharing one dimension.
// Algorithms address records by integer offset; a Cursor provides the
// restartable forward-only scan used by the training loops.
package dataset

import (
	"errors"
	"fmt"
	"iter"
	"math/rand"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/lvqgo/hitlist"
)

// ErrEmpty is returned when an operation needs at least one entry.
var ErrEmpty = errors.New("dataset: no entries")

// DimensionError reports an entry whose length does not match the collection.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dataset: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Entries is an ordered collection of entries with a common dimension.
//
// A collection owns its entries. It is not safe for concurrent mutation;
// concurrent read-only scans through separate cursors are fine.
type Entries struct {
	dim        int
	entries    []*Entry
	totalKnown bool
	topology   string

	randomOrder bool
	seed        int64
	mu          sync.Mutex
	rng         *rand.Rand
}

// New creates an empty collection of the given dimension.
func New(dim int) *Entries {
	return &Entries{dim: dim, totalKnown: true}
}

// FromSlice creates a collection owning the given entries.
// The dimension is taken from the first entry.
func FromSlice(entries ...*Entry) (*Entries, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	es := New(entries[0].Dim())
	if err := es.Append(entries...); err != nil {
		return nil, err
	}
	return es, nil
}

// Dimension returns the vector dimension.
func (es *Entries) Dimension() int {
	return es.dim
}

// Len returns the number of entries.
func (es *Entries) Len() int {
	return len(es.entries)
}

// Loaded returns the number of entries currently held in memory.
func (es *Entries) Loaded() int {
	return len(es.entries)
}

// TotalKnown reports whether Len is the final size of the source.
func (es *Entries) TotalKnown() bool {
	return es.totalKnown
}

// SetTotalKnown records whether the source has been read completely.
func (es *Entries) SetTotalKnown(known bool) {
	es.totalKnown = known
}

// Topology returns the topology token of the source header ("lvq" for codebooks).
func (es *Entries) Topology() string {
	return es.topology
}

// SetTopology sets the topology token written with the collection.
func (es *Entries) SetTopology(t string) {
	es.topology = t
}

// At returns the entry at index i.
func (es *Entries) At(i int) *Entry {
	return es.entries[i]
}

// All iterates over index and entry pairs in collection order.
func (es *Entries) All() iter.Seq2[int, *Entry] {
	return func(yield func(int, *Entry) bool) {
		for i, e := range es.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Append adds entries to the collection, taking ownership of them.
func (es *Entries) Append(entries ...*Entry) error {
	for _, e := range entries {
		if e.Dim() != es.dim {
			return &DimensionError{Expected: es.dim, Actual: e.Dim()}
		}
	}
	es.entries = append(es.entries, entries...)
	return nil
}

// Copy returns an empty collection carrying the same metadata.
func (es *Entries) Copy() *Entries {
	c := New(es.dim)
	c.totalKnown = es.totalKnown
	c.topology = es.topology
	if es.randomOrder {
		c.SetRandomOrder(es.seed)
	}
	return c
}

// Clone returns a deep copy of the collection.
func (es *Entries) Clone() *Entries {
	c := es.Copy()
	c.entries = make([]*Entry, len(es.entries))
	for i, e := range es.entries {
		c.entries[i] = e.Clone()
	}
	return c
}

// Filter returns a new collection holding deep copies of the entries for
// which keep returns true. The receiver is not modified.
func (es *Entries) Filter(keep func(i int, e *Entry) bool) *Entries {
	c := es.Copy()
	for i, e := range es.entries {
		if keep(i, e) {
			c.entries = append(c.entries, e.Clone())
		}
	}
	return c
}

// SetRandomOrder makes cursors visit the entries in a fresh pseudo-random
// permutation after every rewind. The sequence is determined by seed.
func (es *Entries) SetRandomOrder(seed int64) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.randomOrder = true
	es.seed = seed
	es.rng = rand.New(rand.NewSource(seed))
}

// RandomOrder reports whether cursors use randomized order.
func (es *Entries) RandomOrder() bool {
	return es.randomOrder
}

func (es *Entries) permutation() []int {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.rng.Perm(len(es.entries))
}

// Labels counts the entries per class label in order of first appearance.
func (es *Entries) Labels() *hitlist.Hitlist {
	h := hitlist.New()
	for _, e := range es.entries {
		h.Add(e.Label)
	}
	return h
}

// ClassIndex maps every label to the set of entry indices carrying it.
func (es *Entries) ClassIndex() map[int]*roaring.Bitmap {
	idx := make(map[int]*roaring.Bitmap)
	for i, e := range es.entries {
		bm, ok := idx[e.Label]
		if !ok {
			bm = roaring.New()
			idx[e.Label] = bm
		}
		bm.Add(uint32(i))
	}
	return idx
}

// Cursor returns a new cursor over the collection.
func (es *Entries) Cursor() *Cursor {
	return &Cursor{es: es, pos: -1}
}
