package searcher

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueue_Bounded(t *testing.T) {
	pq := NewPriorityQueue(3)
	for i, d := range []float32{5, 1, 4, 2, 3} {
		pq.PushItemBounded(PriorityQueueItem{Index: i, Distance: d}, 3)
	}

	require.Equal(t, 3, pq.Len())
	top, ok := pq.TopItem()
	require.True(t, ok)
	assert.Equal(t, float32(3), top.Distance)

	got := pq.Drain()
	assert.Equal(t, []PriorityQueueItem{
		{Index: 1, Distance: 1},
		{Index: 3, Distance: 2},
		{Index: 4, Distance: 3},
	}, got)
	assert.Equal(t, 0, pq.Len())
}

func TestPriorityQueue_TiesKeepEarlierIndex(t *testing.T) {
	pq := NewPriorityQueue(2)
	for i := range 5 {
		pq.PushItemBounded(PriorityQueueItem{Index: i, Distance: 1}, 2)
	}

	assert.Equal(t, []PriorityQueueItem{
		{Index: 0, Distance: 1},
		{Index: 1, Distance: 1},
	}, pq.Drain())
}

func TestPriorityQueue_MatchesSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	items := make([]PriorityQueueItem, 200)
	for i := range items {
		items[i] = PriorityQueueItem{Index: i, Distance: float32(rng.Intn(50))}
	}

	const k = 17
	pq := NewPriorityQueue(k)
	for _, it := range items {
		pq.PushItemBounded(it, k)
	}

	want := append([]PriorityQueueItem(nil), items...)
	sort.SliceStable(want, func(i, j int) bool { return want[i].Distance < want[j].Distance })

	assert.Equal(t, want[:k], pq.Drain())
}

func TestPriorityQueue_ZeroCapacity(t *testing.T) {
	pq := NewPriorityQueue(0)
	pq.PushItemBounded(PriorityQueueItem{Index: 1, Distance: 1}, 0)
	assert.Equal(t, 0, pq.Len())

	_, ok := pq.PopItem()
	assert.False(t, ok)
}
