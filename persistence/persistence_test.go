package persistence

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/hupe1980/lvqgo/blobstore"
	"github.com/hupe1980/lvqgo/codec"
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/resource"
	"github.com/hupe1980/lvqgo/train"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codebook(t *testing.T) *dataset.Entries {
	t.Helper()
	masked := dataset.NewEntry([]float32{7, 8, 9}, 2)
	masked.SetMissing(1)

	es, err := dataset.FromSlice(
		dataset.NewEntry([]float32{1, 2, 3}, 0),
		dataset.NewEntry([]float32{-4.5, 0, 1e-7}, 1),
		masked,
	)
	require.NoError(t, err)
	es.SetTopology("hexa 4 4 bubble")
	return es
}

func assertSameCodebook(t *testing.T, want, got *dataset.Entries) {
	t.Helper()
	require.Equal(t, want.Dimension(), got.Dimension())
	require.Equal(t, want.Len(), got.Len())
	assert.Equal(t, want.Topology(), got.Topology())
	for i := range want.Len() {
		w, g := want.At(i), got.At(i)
		assert.Equal(t, w.Label, g.Label)
		assert.Equal(t, w.Points, g.Points)
		assert.Equal(t, w.HasMissing(), g.HasMissing())
		for j := range w.Points {
			assert.Equal(t, w.Missing(j), g.Missing(j))
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			codes := codebook(t)
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, &Snapshot{
				Codebook:  codes,
				Iteration: 1200,
				Algorithm: "olvq1",
				Labels:    []string{"A", "B", "C"},
			}, c))

			s, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, int64(1200), s.Iteration)
			assert.Equal(t, "olvq1", s.Algorithm)
			assert.Equal(t, []string{"A", "B", "C"}, s.Labels)
			assertSameCodebook(t, codes, s.Codebook)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &Snapshot{Codebook: codebook(t)}, CompressionNone))
	good := buf.Bytes()

	t.Run("magic", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[0] ^= 0xff
		_, err := Decode(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("version", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[4] = 9
		_, err := Decode(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})

	t.Run("compression", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[8] = 42
		_, err := Decode(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrInvalidCompression)
	})

	t.Run("corrupted body", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[52] ^= 0x01
		_, err := Decode(bytes.NewReader(bad))
		require.Error(t, err)
		assert.True(t, IsChecksumMismatch(err))
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Decode(bytes.NewReader(good[:len(good)-20]))
		assert.Error(t, err)
	})
}

func TestEncode_NilCodebook(t *testing.T) {
	assert.Error(t, Encode(&bytes.Buffer{}, &Snapshot{}, CompressionNone))
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrInvalidCompression)
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ex1.cod.bin")
	codes := codebook(t)

	require.NoError(t, WriteFile(path, &Snapshot{Codebook: codes, Iteration: 7}, CompressionZstd))
	s, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.Iteration)
	assertSameCodebook(t, codes, s.Codebook)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSaveToFile_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.cod")

	err := SaveToFile(path, func(io.Writer) error { return errors.New("boom") })
	require.Error(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRates(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	in := train.UniformRates(3, 0.3)
	in.Alphas[1] = 0.125

	for _, c := range []codec.Codec{nil, codec.JSON{}, codec.YAML{}} {
		require.NoError(t, SaveRates(ctx, store, "ex1.lra", in, c))
		out, err := LoadRates(ctx, store, "ex1.lra")
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}

	_, err := LoadRates(ctx, store, "missing.lra")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, "bad.lra", []byte("msgpack\n{}")))
	_, err = LoadRates(ctx, store, "bad.lra")
	assert.Error(t, err)

	require.NoError(t, store.Put(ctx, "old.lra", []byte(`json`+"\n"+`{"version":0,"size":0,"alphas":[]}`)))
	_, err = LoadRates(ctx, store, "old.lra")
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestCheckpointer(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrite", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		cp := NewCheckpointer(store, "ex1.cod")
		codes := codebook(t)

		for _, it := range []int64{100, 200} {
			require.NoError(t, cp.Checkpoint(ctx, train.Snapshot{Codebook: codes, Iteration: it, Algorithm: train.LVQ1}))
		}

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"ex1.cod"}, names)

		s, err := LoadLatest(ctx, store, "ex1.cod")
		require.NoError(t, err)
		assert.Equal(t, int64(200), s.Iteration)
		assert.Equal(t, "lvq1", s.Algorithm)
	})

	t.Run("versioned", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		cp := NewCheckpointer(store, "ex1.cod",
			WithCompression(CompressionLZ4),
			WithLabels([]string{"A", "B", "C"}),
		)
		codes := codebook(t)

		for _, it := range []int64{100, 200} {
			require.NoError(t, cp.Checkpoint(ctx, train.Snapshot{
				Codebook: codes, Iteration: it, Algorithm: train.OLVQ1, Kind: train.SnapshotVersioned,
			}))
		}

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{CurrentPointer, "ex1.cod.00000100", "ex1.cod.00000200"}, names)

		s, err := LoadLatest(ctx, store, "ex1.cod")
		require.NoError(t, err)
		assert.Equal(t, int64(200), s.Iteration)
		assert.Equal(t, []string{"A", "B", "C"}, s.Labels)
		assertSameCodebook(t, codes, s.Codebook)
	})

	t.Run("rate limited", func(t *testing.T) {
		store := blobstore.NewLocalStore(t.TempDir())
		rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
		cp := NewCheckpointer(store, "ex1.cod", WithResourceController(rc))

		codes := codebook(t)
		require.NoError(t, cp.Checkpoint(ctx, train.Snapshot{Codebook: codes, Iteration: 5}))
		s, err := Load(ctx, store, "ex1.cod")
		require.NoError(t, err)
		assert.Equal(t, int64(5), s.Iteration)

		for _, limit := range []*resource.Controller{rc, resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 10}), nil} {
			s, err := LoadThrottled(ctx, store, "ex1.cod", limit)
			require.NoError(t, err)
			assert.Equal(t, int64(5), s.Iteration)
			assertSameCodebook(t, codes, s.Codebook)
		}

		_, err = LoadThrottled(ctx, store, "missing.cod", rc)
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}

func TestCheckpointerDuringTraining(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	codes, err := dataset.FromSlice(dataset.NewEntry([]float32{0}, 0), dataset.NewEntry([]float32{5}, 1))
	require.NoError(t, err)
	data, err := dataset.FromSlice(dataset.NewEntry([]float32{1}, 0), dataset.NewEntry([]float32{4}, 1))
	require.NoError(t, err)

	_, err = train.RunLVQ1(ctx, train.Params{
		Codebook: codes,
		Data:     data,
		Length:   10,
		Alpha:    0.1,
		Checkpoint: &train.Checkpoint{
			Interval: 4,
			Kind:     train.SnapshotVersioned,
			Sink:     NewCheckpointer(store, "ex1.cod"),
		},
	})
	require.NoError(t, err)

	names, err := store.List(ctx, "ex1.cod.")
	require.NoError(t, err)
	assert.Equal(t, []string{"ex1.cod.00000004", "ex1.cod.00000008"}, names)

	s, err := LoadLatest(ctx, store, "ex1.cod")
	require.NoError(t, err)
	assert.Equal(t, int64(8), s.Iteration)
}
