package hitlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHitlist_Add(t *testing.T) {
	h := New()
	assert.Equal(t, 1, h.Add(3))
	assert.Equal(t, 1, h.Add(1))
	assert.Equal(t, 2, h.Add(3))

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 3, h.Total())
	assert.Equal(t, 2, h.Freq(3))
	assert.Equal(t, 0, h.Freq(7))
	assert.Equal(t, []Hit{{Label: 3, Freq: 2}, {Label: 1, Freq: 1}}, h.Hits())
	assert.Equal(t, []int{3, 1}, h.Labels())
}

func TestHitlist_Clear(t *testing.T) {
	h := FromLabels(1, 2, 2)
	h.Clear()

	assert.Equal(t, 0, h.Len())
	assert.False(t, h.Contains(2))

	h.Add(5)
	assert.Equal(t, []Hit{{Label: 5, Freq: 1}}, h.Hits())
}

func TestHitlist_Majority(t *testing.T) {
	tests := []struct {
		name   string
		labels []int
		want   Hit
	}{
		{"single", []int{4}, Hit{Label: 4, Freq: 1}},
		{"clear winner", []int{2, 1, 1, 3}, Hit{Label: 1, Freq: 2}},
		{"tie goes to lowest label", []int{5, 2, 5, 2}, Hit{Label: 2, Freq: 2}},
		{"tie independent of order", []int{2, 5, 2, 5}, Hit{Label: 2, Freq: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromLabels(tt.labels...).Majority()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := New().Majority()
	assert.False(t, ok)
}

func TestHitlist_Sorted(t *testing.T) {
	h := FromLabels(3, 1, 2, 2, 1, 0)
	assert.Equal(t, []Hit{
		{Label: 1, Freq: 2},
		{Label: 2, Freq: 2},
		{Label: 0, Freq: 1},
		{Label: 3, Freq: 1},
	}, h.Sorted())

	// insertion order untouched
	assert.Equal(t, []int{3, 1, 2, 0}, h.Labels())
}

func TestHitlist_SetAndAddN(t *testing.T) {
	var h Hitlist
	h.Set(2, 5)
	h.AddN(2, -2)
	h.AddN(9, 4)

	assert.Equal(t, 3, h.Freq(2))
	assert.Equal(t, 4, h.Freq(9))
}

func TestPackPair(t *testing.T) {
	tests := []struct {
		name             string
		truth, predicted int
	}{
		{"small", 3, 7},
		{"zero", 0, 0},
		{"beyond 16 bits", 70000, 3},
		{"predicted beyond 16 bits", 0, 65536},
		{"negative predicted", 5, -1},
		{"negative truth", -1, 5},
		{"int32 bounds", 1<<31 - 1, -1 << 31},
	}
	seen := make(map[int]string)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := PackPair(tt.truth, tt.predicted)
			tr, pr := UnpackPair(key)
			assert.Equal(t, tt.truth, tr)
			assert.Equal(t, tt.predicted, pr)

			prev, dup := seen[key]
			assert.False(t, dup, "key shared with %s", prev)
			seen[key] = tt.name
		})
	}

	assert.NotEqual(t, PackPair(1, 0), PackPair(0, 65536))
	assert.NotEqual(t, PackPair(1, -1), PackPair(0, 65535))
}
