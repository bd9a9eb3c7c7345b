package eval

import (
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/hitlist"
	"github.com/hupe1980/lvqgo/winner"
)

// Confusion counts how often entries of each true label were classified as
// each predicted label. Entries without a winner are left out of both the
// matrix and the embedded report totals; Flags still covers every entry.
type Confusion struct {
	Report
	// Labels are the true labels in order of first appearance in the data.
	// They index the rows and columns of Matrix.
	Labels []int
	cells  *hitlist.Hitlist
}

// Count returns the number of entries of trueLabel classified as predicted.
func (c *Confusion) Count(trueLabel, predicted int) int {
	return c.cells.Freq(hitlist.PackPair(trueLabel, predicted))
}

// Matrix returns the counts with rows for true and columns for predicted
// labels, both ordered like Labels. Predictions of labels that never occur
// in the data are not shown.
func (c *Confusion) Matrix() [][]int {
	m := make([][]int, len(c.Labels))
	for i, t := range c.Labels {
		m[i] = make([]int, len(c.Labels))
		for j, p := range c.Labels {
			m[i][j] = c.Count(t, p)
		}
	}
	return m
}

// ConfusionMatrix classifies every data entry by its nearest codebook vector
// and tabulates the outcomes.
func ConfusionMatrix(s winner.Searcher, codes, data *dataset.Entries) (*Confusion, error) {
	predicted, err := Classify(s, codes, data)
	if err != nil {
		return nil, err
	}

	kept := make([]int, 0, len(predicted))
	classified := data.Filter(func(i int, _ *dataset.Entry) bool {
		if predicted[i] == dataset.NoLabel {
			return false
		}
		kept = append(kept, predicted[i])
		return true
	})

	c := &Confusion{
		Report: *report(classified, kept),
		cells:  hitlist.New(),
	}
	c.Unclassified = data.Len() - classified.Len()
	c.Flags = report(data, predicted).Flags
	for i, e := range classified.All() {
		c.cells.Add(hitlist.PackPair(e.Label, kept[i]))
	}
	for _, cl := range c.Classes {
		c.Labels = append(c.Labels, cl.Label)
	}
	return c, nil
}
