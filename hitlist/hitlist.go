// Package hitlist provides a small insertion-ordered label histogram.
//
// A Hitlist counts occurrences of integer class labels. It is used to count
// samples per class, to rank k-NN votes and to key confusion-matrix cells.
// Lookups are linear in the number of distinct labels, which is fine for the
// handful of classes a codebook usually has.
package hitlist

import (
	"cmp"
	"slices"
)

// Hit is a single (label, frequency) pair.
type Hit struct {
	Label int
	Freq  int
}

// Hitlist is an insertion-ordered multiset of labels.
// The zero value is ready to use.
type Hitlist struct {
	hits []Hit
}

// New creates an empty Hitlist.
func New() *Hitlist {
	return &Hitlist{}
}

// FromLabels builds a Hitlist by adding every label in order.
func FromLabels(labels ...int) *Hitlist {
	h := New()
	for _, l := range labels {
		h.Add(l)
	}
	return h
}

// Add increments the frequency of label, creating the entry if needed.
// It returns the new frequency.
func (h *Hitlist) Add(label int) int {
	return h.AddN(label, 1)
}

// AddN adds n to the frequency of label.
func (h *Hitlist) AddN(label, n int) int {
	if i := h.find(label); i >= 0 {
		h.hits[i].Freq += n
		return h.hits[i].Freq
	}
	h.hits = append(h.hits, Hit{Label: label, Freq: n})
	return n
}

// Set overwrites the frequency of label, creating the entry if needed.
func (h *Hitlist) Set(label, freq int) {
	if i := h.find(label); i >= 0 {
		h.hits[i].Freq = freq
		return
	}
	h.hits = append(h.hits, Hit{Label: label, Freq: freq})
}

// Clear removes all entries but keeps the allocated storage.
func (h *Hitlist) Clear() {
	h.hits = h.hits[:0]
}

// Len returns the number of distinct labels.
func (h *Hitlist) Len() int {
	return len(h.hits)
}

// Total returns the sum of all frequencies.
func (h *Hitlist) Total() int {
	total := 0
	for _, hit := range h.hits {
		total += hit.Freq
	}
	return total
}

// Freq returns the frequency of label, zero if absent.
func (h *Hitlist) Freq(label int) int {
	if i := h.find(label); i >= 0 {
		return h.hits[i].Freq
	}
	return 0
}

// Contains reports whether label has an entry.
func (h *Hitlist) Contains(label int) bool {
	return h.find(label) >= 0
}

// Hits returns a copy of the entries in insertion order.
func (h *Hitlist) Hits() []Hit {
	return slices.Clone(h.hits)
}

// Labels returns the labels in insertion order.
func (h *Hitlist) Labels() []int {
	labels := make([]int, len(h.hits))
	for i, hit := range h.hits {
		labels[i] = hit.Label
	}
	return labels
}

// Majority returns the label with the highest frequency.
// Ties go to the lowest label index, independent of insertion order.
// ok is false for an empty Hitlist.
func (h *Hitlist) Majority() (hit Hit, ok bool) {
	if len(h.hits) == 0 {
		return Hit{}, false
	}
	best := h.hits[0]
	for _, cand := range h.hits[1:] {
		if cand.Freq > best.Freq || (cand.Freq == best.Freq && cand.Label < best.Label) {
			best = cand
		}
	}
	return best, true
}

// Sorted returns the entries ordered by descending frequency, then ascending label.
func (h *Hitlist) Sorted() []Hit {
	out := slices.Clone(h.hits)
	slices.SortStableFunc(out, func(a, b Hit) int {
		if c := cmp.Compare(b.Freq, a.Freq); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

func (h *Hitlist) find(label int) int {
	for i := range h.hits {
		if h.hits[i].Label == label {
			return i
		}
	}
	return -1
}

// PackPair encodes a (true, predicted) label pair into a single key. Each
// label keeps its low 32 bits, so every pair of labels in the int32 range,
// dataset.NoLabel included, maps to a distinct key.
func PackPair(trueLabel, predicted int) int {
	return int(uint64(uint32(trueLabel))<<32 | uint64(uint32(predicted)))
}

// UnpackPair reverses PackPair.
func UnpackPair(key int) (trueLabel, predicted int) {
	k := uint64(key)
	return int(int32(k >> 32)), int(int32(uint32(k)))
}
