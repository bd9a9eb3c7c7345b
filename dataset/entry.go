package dataset

import (
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// NoLabel marks an entry without a class label, and classification results
// for which no winner could be found.
const NoLabel = -1

// Entry is a labeled vector record.
//
// Mask marks missing components: a set bit i means Points[i] is unobserved and
// must be ignored by distance and averaging computations. A nil Mask means
// every component is present.
type Entry struct {
	Points []float32
	Label  int
	Mask   *bitset.BitSet
}

// NewEntry creates an entry without missing components.
func NewEntry(points []float32, label int) *Entry {
	return &Entry{Points: points, Label: label}
}

// Dim returns the number of components.
func (e *Entry) Dim() int {
	return len(e.Points)
}

// SetMissing marks component i as missing.
func (e *Entry) SetMissing(i int) {
	if e.Mask == nil {
		e.Mask = bitset.New(uint(len(e.Points)))
	}
	e.Mask.Set(uint(i))
}

// Missing reports whether component i is marked missing.
func (e *Entry) Missing(i int) bool {
	return e.Mask != nil && e.Mask.Test(uint(i))
}

// HasMissing reports whether any component is marked missing.
func (e *Entry) HasMissing() bool {
	return e.Mask != nil && e.Mask.Any()
}

// MissingCount returns the number of missing components.
func (e *Entry) MissingCount() int {
	if e.Mask == nil {
		return 0
	}
	return int(e.Mask.Count())
}

// Clone returns a deep copy of the entry, including its mask.
func (e *Entry) Clone() *Entry {
	c := &Entry{
		Points: slices.Clone(e.Points),
		Label:  e.Label,
	}
	if e.Mask != nil {
		c.Mask = e.Mask.Clone()
	}
	return c
}
