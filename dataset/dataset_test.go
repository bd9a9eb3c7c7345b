package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntries(t *testing.T) *Entries {
	t.Helper()
	es, err := FromSlice(
		NewEntry([]float32{0, 0}, 0),
		NewEntry([]float32{1, 0}, 1),
		NewEntry([]float32{0, 1}, 0),
		NewEntry([]float32{1, 1}, 2),
	)
	require.NoError(t, err)
	return es
}

func TestEntry_Mask(t *testing.T) {
	e := NewEntry([]float32{1, 2, 3}, 4)
	assert.False(t, e.HasMissing())
	assert.Equal(t, 0, e.MissingCount())

	e.SetMissing(1)
	assert.True(t, e.HasMissing())
	assert.True(t, e.Missing(1))
	assert.False(t, e.Missing(0))
	assert.Equal(t, 1, e.MissingCount())
}

func TestEntry_CloneIsDeep(t *testing.T) {
	e := NewEntry([]float32{1, 2}, 3)
	e.SetMissing(0)

	c := e.Clone()
	c.Points[1] = 42
	c.SetMissing(1)

	assert.Equal(t, float32(2), e.Points[1])
	assert.False(t, e.Missing(1))
	assert.True(t, c.Missing(0))
	assert.Equal(t, 3, c.Label)
}

func TestEntries_Append(t *testing.T) {
	es := New(2)
	require.NoError(t, es.Append(NewEntry([]float32{1, 2}, 0)))

	err := es.Append(NewEntry([]float32{1, 2, 3}, 0))
	var dm *DimensionError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 3, dm.Actual)
	assert.Equal(t, 1, es.Len())
}

func TestFromSlice_Empty(t *testing.T) {
	_, err := FromSlice()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestEntries_CopyAndClone(t *testing.T) {
	es := newTestEntries(t)
	es.SetTopology("lvq")

	empty := es.Copy()
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 2, empty.Dimension())
	assert.Equal(t, "lvq", empty.Topology())

	deep := es.Clone()
	require.Equal(t, es.Len(), deep.Len())
	deep.At(0).Points[0] = 9
	assert.Equal(t, float32(0), es.At(0).Points[0])
}

func TestEntries_Filter(t *testing.T) {
	es := newTestEntries(t)
	zeros := es.Filter(func(_ int, e *Entry) bool { return e.Label == 0 })

	assert.Equal(t, 2, zeros.Len())
	assert.Equal(t, 4, es.Len())
	assert.NotSame(t, es.At(0), zeros.At(0))
}

func TestEntries_LabelsAndClassIndex(t *testing.T) {
	es := newTestEntries(t)

	labels := es.Labels()
	assert.Equal(t, []int{0, 1, 2}, labels.Labels())
	assert.Equal(t, 2, labels.Freq(0))

	idx := es.ClassIndex()
	require.Len(t, idx, 3)
	assert.Equal(t, []uint32{0, 2}, idx[0].ToArray())
	assert.Equal(t, []uint32{3}, idx[2].ToArray())
}

func TestCursor_Sequential(t *testing.T) {
	es := newTestEntries(t)
	c := es.Cursor()

	var seen []int
	for e := c.Rewind(); e != nil; e = c.Next() {
		seen = append(seen, c.Index())
	}
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
	assert.Nil(t, c.Next())
	assert.Equal(t, -1, c.Index())

	// restartable
	assert.Same(t, es.At(0), c.Rewind())
}

func TestCursor_Empty(t *testing.T) {
	c := New(3).Cursor()
	assert.Nil(t, c.Rewind())
	assert.Nil(t, c.Next())
}

func TestCursor_Independent(t *testing.T) {
	es := newTestEntries(t)
	a, b := es.Cursor(), es.Cursor()

	a.Rewind()
	a.Next()
	b.Rewind()

	assert.Equal(t, 1, a.Index())
	assert.Equal(t, 0, b.Index())
}

func TestCursor_RandomOrder(t *testing.T) {
	es := newTestEntries(t)
	es.SetRandomOrder(7)

	visit := func() []int {
		c := es.Cursor()
		var order []int
		for e := c.Rewind(); e != nil; e = c.Next() {
			order = append(order, c.Index())
		}
		return order
	}

	first := visit()
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, first)

	other := newTestEntries(t)
	other.SetRandomOrder(7)
	c := other.Cursor()
	var replay []int
	for e := c.Rewind(); e != nil; e = c.Next() {
		replay = append(replay, c.Index())
	}
	assert.Equal(t, first, replay, "same seed yields same order")
}
