package labels

import (
	"sync"
	"testing"

	"github.com/hupe1980/lvqgo/dataset"
	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	tbl := New()
	assert.Equal(t, 0, tbl.ID("A"))
	assert.Equal(t, 1, tbl.ID("B"))
	assert.Equal(t, 0, tbl.ID("A"))

	id, ok := tbl.Lookup("B")
	assert.True(t, ok)
	assert.Equal(t, 1, id)
	_, ok = tbl.Lookup("C")
	assert.False(t, ok)

	assert.Equal(t, "B", tbl.Name(1))
	assert.Equal(t, EmptyName, tbl.Name(dataset.NoLabel))
	assert.Equal(t, "#7", tbl.Name(7))
	assert.Equal(t, []string{"A", "B"}, tbl.Names())
	assert.Equal(t, 2, tbl.Len())
}

func TestFromNames(t *testing.T) {
	tbl := FromNames([]string{"x", "y", "x"})
	assert.Equal(t, []string{"x", "y"}, tbl.Names())
	assert.Equal(t, 1, tbl.ID("y"))
}

func TestTable_Concurrent(t *testing.T) {
	tbl := New()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range []string{"a", "b", "c", "d"} {
				tbl.ID(n)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 4, tbl.Len())
}
