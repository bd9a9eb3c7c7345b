package stats

import (
	"math"
	"testing"

	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, items ...*dataset.Entry) *dataset.Entries {
	t.Helper()
	es, err := dataset.FromSlice(items...)
	require.NoError(t, err)
	return es
}

func e1(x float32, label int) *dataset.Entry {
	return dataset.NewEntry([]float32{x}, label)
}

func TestMeanDistances(t *testing.T) {
	codes := build(t,
		e1(0, 0), e1(1, 0), e1(3, 0),
		e1(10, 1), e1(14, 1),
	)

	d := MeanDistances(codes, distance.Euclidean)
	require.Len(t, d.Classes, 2)

	// class 0 minima: 1, 1, 2
	c0, ok := d.Lookup(0)
	require.True(t, ok)
	assert.Equal(t, 3, c0.Count)
	assert.True(t, c0.Defined)
	assert.InDelta(t, 4.0/3.0, c0.Dist, 1e-6)

	c1, _ := d.Lookup(1)
	assert.InDelta(t, 4, c1.Dist, 1e-6)

	avg, ok := d.Average()
	require.True(t, ok)
	assert.InDelta(t, (4.0/3.0+4)/2, avg, 1e-6)
}

func TestMedianDistances(t *testing.T) {
	codes := build(t,
		e1(0, 0), e1(1, 0), e1(3, 0), e1(10, 0),
	)

	// minima: 1, 1, 2, 7 -> sorted element n/2 = 2
	d := MedianDistances(codes, nil)
	c, ok := d.Lookup(0)
	require.True(t, ok)
	assert.Equal(t, Median, d.Aggregate)
	assert.InDelta(t, 2, c.Dist, 1e-6)
}

func TestSingletonAndIdenticalClasses(t *testing.T) {
	codes := build(t,
		e1(5, 0),
		e1(2, 1), e1(2, 1),
	)

	for _, d := range []*Distances{MeanDistances(codes, nil), MedianDistances(codes, nil)} {
		single, ok := d.Lookup(0)
		require.True(t, ok)
		assert.Equal(t, 1, single.Count)
		assert.False(t, single.Defined)

		twins, _ := d.Lookup(1)
		assert.True(t, twins.Defined)
		assert.Equal(t, 0.0, twins.Dist)

		avg, ok := d.Average()
		require.True(t, ok)
		assert.Equal(t, 0.0, avg, "singleton class excluded from the average")
	}
}

func TestAverageUndefined(t *testing.T) {
	d := MeanDistances(build(t, e1(1, 0), e1(2, 1)), nil)
	_, ok := d.Average()
	assert.False(t, ok)
}

func TestMissing(t *testing.T) {
	d := MeanDistances(build(t, e1(1, 0), e1(2, 2)), nil)
	assert.Equal(t, []int{1, 3}, d.Missing([]int{0, 1, 2, 3}))
}

func TestMedianIdempotent(t *testing.T) {
	codes := build(t,
		dataset.NewEntry([]float32{0.3, 1.7}, 0),
		dataset.NewEntry([]float32{2.1, 0.2}, 0),
		dataset.NewEntry([]float32{1.1, 1.9}, 1),
		dataset.NewEntry([]float32{0.4, 0.9}, 0),
		dataset.NewEntry([]float32{1.5, 1.2}, 1),
	)

	first := MedianDistances(codes, nil)
	second := MedianDistances(codes, nil)
	require.Equal(t, len(first.Classes), len(second.Classes))
	for i := range first.Classes {
		assert.Equal(t, math.Float64bits(first.Classes[i].Dist), math.Float64bits(second.Classes[i].Dist))
	}
}

func TestMaskedPairsSkipped(t *testing.T) {
	a := dataset.NewEntry([]float32{0, 0}, 0)
	a.SetMissing(0)
	b := dataset.NewEntry([]float32{5, 5}, 0)
	b.SetMissing(1)

	d := MeanDistances(build(t, a, b), nil)
	c, _ := d.Lookup(0)
	assert.False(t, c.Defined)
}

func TestDeviations(t *testing.T) {
	es := build(t,
		dataset.NewEntry([]float32{0, 0}, 0),
		dataset.NewEntry([]float32{2, 0}, 0),
		dataset.NewEntry([]float32{5, 5}, 1),
	)
	d := MeanDistances(es, nil)
	d.Deviations(es)

	c0, _ := d.Lookup(0)
	// centroid (1,0), squared distances 1 and 1
	assert.InDelta(t, 1, c0.Dev, 1e-9)

	c1, _ := d.Lookup(1)
	assert.Equal(t, 0.0, c1.Dev)
}

func TestDeviations_Masked(t *testing.T) {
	m := dataset.NewEntry([]float32{100, 4}, 0)
	m.SetMissing(0)
	es := build(t,
		dataset.NewEntry([]float32{0, 0}, 0),
		dataset.NewEntry([]float32{2, 2}, 0),
		m,
	)
	d := MeanDistances(es, nil)
	d.Deviations(es)

	// centroid (1, 2); squared distances 1+4, 1+0, 0+4
	c, _ := d.Lookup(0)
	assert.InDelta(t, math.Sqrt(10.0/3.0), c.Dev, 1e-9)
}
