// Package winner finds the codebook entries nearest to a query.
package winner

import (
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/distance"
	"github.com/hupe1980/lvqgo/internal/searcher"
)

// Winner is a reference entry found by a search.
type Winner struct {
	Entry    *dataset.Entry
	Distance float32
	Index    int
}

// Searcher returns the k reference entries nearest to query, ascending by
// distance with ties going to the lower collection index.
//
// Fewer than k winners (possibly none) are returned when the collection is
// smaller than k or the distance to some candidates is undefined. This is a
// result state callers must check, not an error.
type Searcher interface {
	Nearest(refs *dataset.Entries, query *dataset.Entry, k int) []Winner
}

// Linear is a Searcher scanning the whole reference collection per query.
type Linear struct {
	dist distance.Func
}

// NewLinear creates a linear searcher. A nil dist selects Euclidean distance.
func NewLinear(dist distance.Func) *Linear {
	if dist == nil {
		dist = distance.Euclidean
	}
	return &Linear{dist: dist}
}

// Distance returns the distance function used by the searcher.
func (s *Linear) Distance() distance.Func {
	return s.dist
}

// Nearest implements Searcher. k < 1 is treated as 1.
func (s *Linear) Nearest(refs *dataset.Entries, query *dataset.Entry, k int) []Winner {
	if k < 1 {
		k = 1
	}
	pq := searcher.NewPriorityQueue(k)
	for i, ref := range refs.All() {
		d, ok := s.dist(ref, query)
		if !ok {
			continue
		}
		pq.PushItemBounded(searcher.PriorityQueueItem{Index: i, Distance: d}, k)
	}

	items := pq.Drain()
	winners := make([]Winner, len(items))
	for i, it := range items {
		winners[i] = Winner{
			Entry:    refs.At(it.Index),
			Distance: it.Distance,
			Index:    it.Index,
		}
	}
	return winners
}

// Best returns the single nearest entry. ok is false when no winner exists.
func Best(s Searcher, refs *dataset.Entries, query *dataset.Entry) (Winner, bool) {
	w := s.Nearest(refs, query, 1)
	if len(w) == 0 {
		return Winner{}, false
	}
	return w[0], true
}
