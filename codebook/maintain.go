package codebook

import (
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/hitlist"
	"github.com/hupe1980/lvqgo/winner"
)

// Eliminate returns copies of the data entries whose k nearest data
// neighbors, the entry itself included, carry the entry's label more often
// than any other. k is capped at MaxEliminateKNN and defaults to DefaultKNN.
// Entries with fewer than k comparable neighbors are dropped.
func Eliminate(s winner.Searcher, data *dataset.Entries, k int) *dataset.Entries {
	s = searcherOrDefault(s)
	k = min(knnOrDefault(k), MaxEliminateKNN)

	out := like(data)
	for _, e := range data.All() {
		ws := s.Nearest(data, e, k)
		if len(ws) < k {
			continue
		}
		correct := 0
		for _, w := range ws {
			if w.Entry.Label == e.Label {
				correct++
			}
		}
		if correct > k-correct {
			_ = out.Append(e.Clone())
		}
	}
	return out
}

// SetLabels relabels every codebook vector with the majority label of its k
// nearest data entries. Vectors without any comparable data entry keep their
// label. It returns the number of vectors whose label changed.
func SetLabels(s winner.Searcher, codes, data *dataset.Entries, k int) int {
	s = searcherOrDefault(s)
	k = knnOrDefault(k)

	changed := 0
	votes := hitlist.New()
	for _, c := range codes.All() {
		ws := s.Nearest(data, c, k)
		if len(ws) == 0 {
			continue
		}
		votes.Clear()
		for _, w := range ws {
			votes.Add(w.Entry.Label)
		}
		top, _ := votes.Majority()
		if top.Label != c.Label {
			c.Label = top.Label
			changed++
		}
	}
	return changed
}
