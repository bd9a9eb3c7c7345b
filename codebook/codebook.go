// Package codebook builds and maintains codebooks from labeled data.
//
// Initialize picks initial codebook vectors from the training data, Balance
// redistributes them over the classes, Eliminate drops data entries that
// their own neighborhood misclassifies and SetLabels relabels codebook
// vectors by k-NN majority vote. Pick, PickKnown, Extract and ForcePick copy
// entries out of a collection.
//
// Every function returns new entries and leaves its inputs untouched, except
// SetLabels, which relabels in place.
package codebook

import (
	"errors"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/hitlist"
	"github.com/hupe1980/lvqgo/winner"
)

// ErrTooManyClasses is returned when a codebook smaller than the number of
// classes is requested.
var ErrTooManyClasses = errors.New("codebook: more classes than codebook vectors")

// DefaultKNN is the neighborhood size used when none is given.
const DefaultKNN = 5

// MaxEliminateKNN caps the neighborhood used by Eliminate.
const MaxEliminateKNN = 10

func searcherOrDefault(s winner.Searcher) winner.Searcher {
	if s == nil {
		return winner.NewLinear(nil)
	}
	return s
}

func knnOrDefault(k int) int {
	if k < 1 {
		return DefaultKNN
	}
	return k
}

// like returns an empty collection with the dimension and topology of es.
func like(es *dataset.Entries) *dataset.Entries {
	c := dataset.New(es.Dimension())
	c.SetTopology(es.Topology())
	c.SetTotalKnown(true)
	return c
}

// CorrectByKNN reports whether the majority label among the k entries of
// data nearest to e equals the label of e. e itself takes part in the vote
// when it belongs to data. Fewer than k comparable neighbors count as
// incorrect.
func CorrectByKNN(s winner.Searcher, data *dataset.Entries, e *dataset.Entry, k int) bool {
	if k < 1 {
		k = 1
	}
	ws := searcherOrDefault(s).Nearest(data, e, k)
	if len(ws) < k {
		return false
	}
	votes := hitlist.New()
	for _, w := range ws {
		votes.Add(w.Entry.Label)
	}
	top, ok := votes.Majority()
	return ok && top.Label == e.Label
}

// PickInside copies, in data order, entries that are correctly classified by
// their k nearest data neighbors until every class has received the number
// of entries quotas assigns to it. Classes absent from quotas are skipped.
// quotas is not modified.
func PickInside(s winner.Searcher, quotas *hitlist.Hitlist, data *dataset.Entries, k int) *dataset.Entries {
	remaining := hitlist.New()
	for _, h := range quotas.Hits() {
		remaining.Set(h.Label, h.Freq)
	}
	out := like(data)
	pickInside(searcherOrDefault(s), remaining, data, out, knnOrDefault(k), nil)
	return out
}

// pickInside consumes remaining and appends the picks to out. Indices in
// skip are never picked and every picked index is added to it.
func pickInside(s winner.Searcher, remaining *hitlist.Hitlist, data, out *dataset.Entries, k int, skip *roaring.Bitmap) {
	total := 0
	for _, h := range remaining.Hits() {
		if h.Freq > 0 {
			total += h.Freq
		}
	}
	for i, e := range data.All() {
		if total <= 0 {
			return
		}
		if skip != nil && skip.Contains(uint32(i)) {
			continue
		}
		q := remaining.Freq(e.Label)
		if q <= 0 || !CorrectByKNN(s, data, e, k) {
			continue
		}
		_ = out.Append(e.Clone())
		remaining.Set(e.Label, q-1)
		total--
		if skip != nil {
			skip.Add(uint32(i))
		}
	}
}

// ForcePick returns a copy of the first entry of data carrying label.
func ForcePick(data *dataset.Entries, label int) (*dataset.Entry, bool) {
	for _, e := range data.All() {
		if e.Label == label {
			return e.Clone(), true
		}
	}
	return nil, false
}

// Pick copies at most n entries from the beginning of data.
func Pick(data *dataset.Entries, n int) *dataset.Entries {
	return data.Filter(func(i int, _ *dataset.Entry) bool {
		return i < n
	})
}

// PickKnown copies at most n entries of class label in data order.
func PickKnown(data *dataset.Entries, label, n int) *dataset.Entries {
	picked := 0
	return data.Filter(func(_ int, e *dataset.Entry) bool {
		if e.Label != label || picked >= n {
			return false
		}
		picked++
		return true
	})
}

// Extract copies every entry of class label.
func Extract(data *dataset.Entries, label int) *dataset.Entries {
	return data.Filter(func(_ int, e *dataset.Entry) bool {
		return e.Label == label
	})
}
