package datafile

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hupe1980/lvqgo/blobstore"
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/labels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# speech sample
3
1.5 2 -0.25 A
# comment in between

0 x 4 B extra tokens
7 8 9
`

func TestRead(t *testing.T) {
	tbl := labels.New()
	es, err := Read(strings.NewReader(sample), tbl)
	require.NoError(t, err)

	require.Equal(t, 3, es.Dimension())
	require.Equal(t, 3, es.Len())
	assert.Equal(t, "", es.Topology())
	assert.True(t, es.TotalKnown())

	assert.Equal(t, []float32{1.5, 2, -0.25}, es.At(0).Points)
	assert.Equal(t, "A", tbl.Name(es.At(0).Label))

	assert.True(t, es.At(1).Missing(1))
	assert.False(t, es.At(1).Missing(0))
	assert.Equal(t, "B", tbl.Name(es.At(1).Label))

	assert.Equal(t, dataset.NoLabel, es.At(2).Label)
}

func TestRead_Topology(t *testing.T) {
	es, err := Read(strings.NewReader("2 lvq\n1 2 A\n"), labels.New())
	require.NoError(t, err)
	assert.Equal(t, "lvq", es.Topology())
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"bad dimension", "abc\n", 1},
		{"zero dimension", "# c\n0\n", 2},
		{"short line", "3\n1 2\n", 2},
		{"bad number", "2\n1 y A\n", 2},
		{"all missing", "2\nx x A\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), labels.New())
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Line)
		})
	}

	_, err := Read(strings.NewReader("# only comments\n"), labels.New())
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestWriteRead(t *testing.T) {
	tbl := labels.New()
	es, err := Read(strings.NewReader("3 lvq\n1.5 2 -0.25 A\n0 x 4 B\n0.1 0.2 0.3\n"), tbl)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, es, tbl))
	assert.Equal(t, "3 lvq\n1.5 2 -0.25 A\n0 x 4 B\n0.1 0.2 0.3\n", buf.String())

	tbl2 := labels.New()
	back, err := Read(&buf, tbl2)
	require.NoError(t, err)
	for i := range es.Len() {
		assert.Equal(t, es.At(i).Points, back.At(i).Points)
		assert.Equal(t, es.At(i).HasMissing(), back.At(i).HasMissing())
	}
}

func TestLoadSave(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	tbl := labels.New()

	es, err := dataset.FromSlice(dataset.NewEntry([]float32{1, 2}, tbl.ID("yes")))
	require.NoError(t, err)
	require.NoError(t, Save(ctx, store, "ex.dat", es, tbl))

	back, err := Load(ctx, store, "ex.dat", tbl)
	require.NoError(t, err)
	assert.Equal(t, es.At(0).Points, back.At(0).Points)
	assert.Equal(t, es.At(0).Label, back.At(0).Label)

	_, err = Load(ctx, store, "missing.dat", tbl)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
