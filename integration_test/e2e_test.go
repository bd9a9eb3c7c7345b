package integration_test

import (
	"context"
	"testing"

	"github.com/hupe1980/lvqgo"
	"github.com/hupe1980/lvqgo/blobstore"
	"github.com/hupe1980/lvqgo/codebook"
	"github.com/hupe1980/lvqgo/datafile"
	"github.com/hupe1980/lvqgo/labels"
	"github.com/hupe1980/lvqgo/persistence"
	"github.com/hupe1980/lvqgo/testutil"
	"github.com/hupe1980/lvqgo/train"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2E_TrainRestart(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())
	table := labels.FromNames([]string{"ah", "ee", "oo", "uh"})

	rng := testutil.NewRNG(99)
	require.NoError(t, datafile.Save(ctx, store, "train.dat", rng.SkewedBlobs(4, 400, 8, 0.15, 1.1), table))
	require.NoError(t, datafile.Save(ctx, store, "test.dat", rng.Blobs(4, 25, 8, 0.15), table))

	// 1. Load, initialize, balance and train
	data, err := datafile.Load(ctx, store, "train.dat", table)
	require.NoError(t, err)
	test, err := datafile.Load(ctx, store, "test.dat", table)
	require.NoError(t, err)

	eng, err := lvqgo.New(lvqgo.WithSeed(1), lvqgo.WithLogger(lvqgo.NoopLogger()))
	require.NoError(t, err)

	codes, err := eng.Initialize(ctx, data, 20, codebook.Proportional)
	require.NoError(t, err)
	bal, err := eng.Balance(ctx, codes, data)
	require.NoError(t, err)

	res, err := eng.Train(ctx, train.OLVQ1, lvqgo.TrainParams{
		Codebook: bal.Codebook,
		Data:     data,
		Length:   40 * int64(bal.Codebook.Len()),
		Rates:    bal.Rates,
	})
	require.NoError(t, err)
	require.NoError(t, eng.SaveRates(ctx, store, "ex.lra", res.Rates))

	res, err = eng.Train(ctx, train.LVQ1, lvqgo.TrainParams{
		Codebook: res.Codebook,
		Data:     data,
		Length:   5 * int64(data.Len()),
		Alpha:    0.03,
	})
	require.NoError(t, err)

	before, err := eng.Accuracy(ctx, res.Codebook, test)
	require.NoError(t, err)
	assert.Greater(t, before.Percent(), 95.0)

	require.NoError(t, eng.SaveCodebook(ctx, store, "ex.lvqs", &persistence.Snapshot{
		Codebook:  res.Codebook,
		Algorithm: train.LVQ1.String(),
		Labels:    table.Names(),
	}, persistence.CompressionZstd))

	// 2. Reload in a fresh engine and verify
	snap, err := persistence.Load(ctx, store, "ex.lvqs")
	require.NoError(t, err)
	assert.Equal(t, table.Names(), snap.Labels)
	assert.Equal(t, "lvq1", snap.Algorithm)

	eng2, err := lvqgo.New(lvqgo.WithLogger(lvqgo.NoopLogger()))
	require.NoError(t, err)
	after, err := eng2.Accuracy(ctx, snap.Codebook, test)
	require.NoError(t, err)
	assert.Equal(t, before.Flags, after.Flags)

	rates := eng2.LoadRates(ctx, store, "ex.lra")
	require.NotNil(t, rates)
	assert.True(t, rates.Compatible(snap.Codebook.Len()))
}

func TestE2E_DataCleanup(t *testing.T) {
	ctx := context.Background()
	data := testutil.NewRNG(5).Blobs(3, 30, 2, 0.05)

	// Mislabel one entry of each class.
	for _, i := range []int{0, 10, 20} {
		data.At(i).Label = (data.At(i).Label + 1) % 3
	}

	eng, err := lvqgo.New(lvqgo.WithLogger(lvqgo.NoopLogger()), lvqgo.WithKNN(5))
	require.NoError(t, err)

	clean, err := eng.Eliminate(data)
	require.NoError(t, err)
	assert.Equal(t, 87, clean.Len())

	codes, err := eng.Initialize(ctx, clean, 6, codebook.Even)
	require.NoError(t, err)
	rep, err := eng.Accuracy(ctx, codes, clean)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, rep.Percent(), 1e-9)
}
