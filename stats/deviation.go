package stats

import (
	"math"

	"github.com/hupe1980/lvqgo/dataset"
)

// Deviations sets Dev for every class of d from the entries of that class in
// es: the root-mean-square distance of the vectors from their class centroid.
//
// The centroid averages each component over the vectors that do not miss it,
// and distances to the centroid skip missing components. Entries whose label
// is unknown to d are ignored; classes without entries keep Dev at zero.
func (d *Distances) Deviations(es *dataset.Entries) {
	dim := es.Dimension()
	pos := make(map[int]int, len(d.Classes))
	for i := range d.Classes {
		pos[d.Classes[i].Label] = i
		d.Classes[i].Dev = 0
	}

	sums := make([][]float64, len(d.Classes))
	counts := make([][]int, len(d.Classes))
	members := make([]int, len(d.Classes))
	for i := range sums {
		sums[i] = make([]float64, dim)
		counts[i] = make([]int, dim)
	}

	for _, e := range es.All() {
		i, ok := pos[e.Label]
		if !ok {
			continue
		}
		members[i]++
		for j, v := range e.Points {
			if e.Missing(j) {
				continue
			}
			sums[i][j] += float64(v)
			counts[i][j]++
		}
	}

	for i := range sums {
		for j := range sums[i] {
			if counts[i][j] > 0 {
				sums[i][j] /= float64(counts[i][j])
			}
		}
	}

	devs := make([]float64, len(d.Classes))
	for _, e := range es.All() {
		i, ok := pos[e.Label]
		if !ok {
			continue
		}
		centroid := sums[i]
		for j, v := range e.Points {
			if e.Missing(j) || counts[i][j] == 0 {
				continue
			}
			diff := float64(v) - centroid[j]
			devs[i] += diff * diff
		}
	}

	for i := range d.Classes {
		if members[i] > 0 {
			d.Classes[i].Dev = math.Sqrt(devs[i] / float64(members[i]))
		}
	}
}
