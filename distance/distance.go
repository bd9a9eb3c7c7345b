package distance

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/lvqgo/dataset"
	"github.com/viterin/vek/vek32"
)

// Func computes the dissimilarity of two entries of equal dimension.
//
// Components missing in either entry are skipped. ok is false when no
// component is present in both entries: the distance is undefined for that
// pair and callers must treat it as "no winner", not as zero.
type Func func(a, b *dataset.Entry) (d float32, ok bool)

// Euclidean returns the Euclidean distance over the components present in
// both entries.
func Euclidean(a, b *dataset.Entry) (float32, bool) {
	if a.Mask == nil && b.Mask == nil {
		if len(a.Points) == 0 {
			return 0, false
		}
		return vek32.Distance(a.Points, b.Points), true
	}
	sum, ok := maskedSquared(a, b)
	if !ok {
		return 0, false
	}
	return float32(math.Sqrt(float64(sum))), true
}

// SquaredEuclidean returns the squared Euclidean distance over the components
// present in both entries.
func SquaredEuclidean(a, b *dataset.Entry) (float32, bool) {
	if a.Mask == nil && b.Mask == nil {
		if len(a.Points) == 0 {
			return 0, false
		}
		return SquaredL2(a.Points, b.Points), true
	}
	return maskedSquared(a, b)
}

// SquaredL2 returns the squared L2 distance of two plain vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func maskedSquared(a, b *dataset.Entry) (float32, bool) {
	var sum float32
	used := 0
	for i := range a.Points {
		if a.Missing(i) || b.Missing(i) {
			continue
		}
		d := a.Points[i] - b.Points[i]
		sum += d * d
		used++
	}
	return sum, used > 0
}

// Metric names a built-in distance function.
type Metric int

const (
	MetricEuclidean Metric = iota
	MetricSquaredEuclidean
)

func (m Metric) String() string {
	switch m {
	case MetricEuclidean:
		return "euclidean"
	case MetricSquaredEuclidean:
		return "squared-euclidean"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric resolves a metric by its String name.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(name) {
	case "", "euclidean", "euc":
		return MetricEuclidean, nil
	case "squared-euclidean", "sqeuclidean", "l2sq":
		return MetricSquaredEuclidean, nil
	default:
		return 0, fmt.Errorf("unknown distance metric %q", name)
	}
}

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricEuclidean:
		return Euclidean, nil
	case MetricSquaredEuclidean:
		return SquaredEuclidean, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
