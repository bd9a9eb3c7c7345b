// Package eval measures how well codebooks classify labeled data.
//
// Accuracy and KNNAccuracy report per-class and total recognition rates
// together with a correctness flag per data entry. Flag files written by
// WriteFlags feed McNemar, which tests whether two classifiers differ
// significantly. ConfusionMatrix counts (true, predicted) label pairs and
// Compare evaluates several codebooks in parallel.
package eval

import (
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/hitlist"
	"github.com/hupe1980/lvqgo/winner"
)

// ClassAccuracy is the recognition result of one class.
type ClassAccuracy struct {
	Label   int
	Total   int
	Correct int
}

// Percent returns the share of correctly classified entries in percent.
func (c ClassAccuracy) Percent() float64 {
	return percent(c.Correct, c.Total)
}

// Report is the recognition result of a codebook on a data set.
type Report struct {
	// Classes in order of first appearance in the data.
	Classes []ClassAccuracy
	Total   int
	Correct int
	// Flags marks, per data entry, whether it was classified correctly.
	Flags []bool
	// Unclassified counts entries without any comparable codebook vector.
	// They are counted as misclassified.
	Unclassified int
}

// Percent returns the total accuracy in percent.
func (r *Report) Percent() float64 {
	return percent(r.Correct, r.Total)
}

// Class returns the result of label.
func (r *Report) Class(label int) (ClassAccuracy, bool) {
	for _, c := range r.Classes {
		if c.Label == label {
			return c, true
		}
	}
	return ClassAccuracy{}, false
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

func searcherOrDefault(s winner.Searcher) winner.Searcher {
	if s == nil {
		return winner.NewLinear(nil)
	}
	return s
}

func checkDims(codes, data *dataset.Entries) error {
	if codes.Dimension() != data.Dimension() {
		return &dataset.DimensionError{Expected: codes.Dimension(), Actual: data.Dimension()}
	}
	return nil
}

// Classify returns the label of the codebook vector nearest to every data
// entry, dataset.NoLabel for entries without a winner.
func Classify(s winner.Searcher, codes, data *dataset.Entries) ([]int, error) {
	if err := checkDims(codes, data); err != nil {
		return nil, err
	}
	s = searcherOrDefault(s)
	out := make([]int, data.Len())
	for i, e := range data.All() {
		out[i] = dataset.NoLabel
		if w, ok := winner.Best(s, codes, e); ok {
			out[i] = w.Entry.Label
		}
	}
	return out, nil
}

// Relabel classifies data like Classify and stores the predicted labels in
// the entries. Entries without a winner keep their label.
func Relabel(s winner.Searcher, codes, data *dataset.Entries) ([]int, error) {
	predicted, err := Classify(s, codes, data)
	if err != nil {
		return nil, err
	}
	for i, e := range data.All() {
		if predicted[i] != dataset.NoLabel {
			e.Label = predicted[i]
		}
	}
	return predicted, nil
}

// Accuracy classifies every data entry by its nearest codebook vector.
func Accuracy(s winner.Searcher, codes, data *dataset.Entries) (*Report, error) {
	predicted, err := Classify(s, codes, data)
	if err != nil {
		return nil, err
	}
	return report(data, predicted), nil
}

// KNNAccuracy classifies every data entry by the majority label among its k
// nearest codebook vectors. Ties go to the lowest label.
func KNNAccuracy(s winner.Searcher, codes, data *dataset.Entries, k int) (*Report, error) {
	if err := checkDims(codes, data); err != nil {
		return nil, err
	}
	s = searcherOrDefault(s)
	if k < 1 {
		k = 1
	}
	predicted := make([]int, data.Len())
	votes := hitlist.New()
	for i, e := range data.All() {
		votes.Clear()
		for _, w := range s.Nearest(codes, e, k) {
			votes.Add(w.Entry.Label)
		}
		predicted[i] = dataset.NoLabel
		if top, ok := votes.Majority(); ok {
			predicted[i] = top.Label
		}
	}
	return report(data, predicted), nil
}

func report(data *dataset.Entries, predicted []int) *Report {
	r := &Report{Flags: make([]bool, data.Len())}
	totals := hitlist.New()
	correct := hitlist.New()
	for i, e := range data.All() {
		totals.Add(e.Label)
		r.Total++
		switch {
		case predicted[i] == dataset.NoLabel:
			r.Unclassified++
		case predicted[i] == e.Label:
			correct.Add(e.Label)
			r.Correct++
			r.Flags[i] = true
		}
	}
	r.Classes = make([]ClassAccuracy, 0, totals.Len())
	for _, h := range totals.Hits() {
		r.Classes = append(r.Classes, ClassAccuracy{
			Label:   h.Label,
			Total:   h.Freq,
			Correct: correct.Freq(h.Label),
		})
	}
	return r
}
