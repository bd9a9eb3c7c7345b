// Package stats computes per-class distance statistics of a codebook.
//
// For every vector the distance to its nearest neighbor of the same class is
// taken; MeanDistances and MedianDistances aggregate those minima per class.
// The results size and balance codebooks and are never persisted.
package stats

import (
	"math"
	"slices"

	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/distance"
	"gonum.org/v1/gonum/stat"
)

// Aggregate selects how the per-vector minima of a class are combined.
type Aggregate int

const (
	Mean Aggregate = iota
	Median
)

func (a Aggregate) String() string {
	if a == Median {
		return "median"
	}
	return "mean"
}

// Class holds the statistics of one class label.
type Class struct {
	Label int
	// Count is the number of vectors of the class in the measured collection.
	Count int
	// Dist is the mean or median nearest same-class distance. Only meaningful
	// when Defined is true.
	Dist float64
	// Defined is false when no vector of the class has a same-class neighbor,
	// e.g. for a class with a single vector.
	Defined bool
	// Dev is the RMS distance of the class vectors from their centroid, set by
	// Deviations.
	Dev float64
}

// Distances holds per-class statistics in order of first label appearance.
type Distances struct {
	Aggregate Aggregate
	Classes   []Class
}

// MeanDistances computes the mean nearest same-class distance per class.
func MeanDistances(codes *dataset.Entries, dist distance.Func) *Distances {
	return compute(codes, dist, Mean)
}

// MedianDistances computes the median nearest same-class distance per class.
// For an even number of minima the upper of the two middle values is used.
func MedianDistances(codes *dataset.Entries, dist distance.Func) *Distances {
	return compute(codes, dist, Median)
}

func compute(codes *dataset.Entries, dist distance.Func, agg Aggregate) *Distances {
	if dist == nil {
		dist = distance.Euclidean
	}
	labels := codes.Labels()
	index := codes.ClassIndex()

	d := &Distances{Aggregate: agg, Classes: make([]Class, 0, labels.Len())}
	for _, hit := range labels.Hits() {
		members := index[hit.Label].ToArray()
		mins := nearestSameClass(codes, members, dist)

		c := Class{Label: hit.Label, Count: hit.Freq}
		if len(mins) > 0 {
			c.Defined = true
			if agg == Median {
				slices.Sort(mins)
				c.Dist = mins[len(mins)/2]
			} else {
				c.Dist = stat.Mean(mins, nil)
			}
		}
		d.Classes = append(d.Classes, c)
	}
	return d
}

// nearestSameClass returns, for every member that has at least one comparable
// same-class neighbor, the distance to the nearest one.
func nearestSameClass(codes *dataset.Entries, members []uint32, dist distance.Func) []float64 {
	n := len(members)
	if n < 2 {
		return nil
	}
	best := make([]float64, n)
	found := make([]bool, n)
	for i := range best {
		best[i] = math.Inf(1)
	}
	for i := 0; i < n; i++ {
		a := codes.At(int(members[i]))
		for j := i + 1; j < n; j++ {
			dd, ok := dist(a, codes.At(int(members[j])))
			if !ok {
				continue
			}
			v := float64(dd)
			if v < best[i] {
				best[i] = v
			}
			if v < best[j] {
				best[j] = v
			}
			found[i], found[j] = true, true
		}
	}
	mins := make([]float64, 0, n)
	for i, ok := range found {
		if ok {
			mins = append(mins, best[i])
		}
	}
	return mins
}

// Lookup returns the statistics of label.
func (d *Distances) Lookup(label int) (Class, bool) {
	for _, c := range d.Classes {
		if c.Label == label {
			return c, true
		}
	}
	return Class{}, false
}

// Average returns the mean of Dist over the defined classes.
// ok is false when no class is defined.
func (d *Distances) Average() (avg float64, ok bool) {
	vals := make([]float64, 0, len(d.Classes))
	for _, c := range d.Classes {
		if c.Defined {
			vals = append(vals, c.Dist)
		}
	}
	if len(vals) == 0 {
		return 0, false
	}
	return stat.Mean(vals, nil), true
}

// Missing returns the labels, in the given order, that have no vector in the
// measured collection.
func (d *Distances) Missing(labels []int) []int {
	var missing []int
	for _, l := range labels {
		if c, ok := d.Lookup(l); !ok || c.Count == 0 {
			missing = append(missing, l)
		}
	}
	return missing
}
