// Package lvqgo trains and evaluates Learning Vector Quantization codebooks.
//
// A codebook is a small set of labeled prototype vectors. A vector is
// classified with the label of its nearest codebook vector. lvqgo picks an
// initial codebook from labeled training data, adapts it with one of the
// LVQ1, OLVQ1, LVQ2.1 or LVQ3 algorithms and measures its accuracy.
//
// # Quick Start
//
//	ctx := context.Background()
//	table := labels.New()
//	data, _ := datafile.Read(f, table)
//
//	eng, _ := lvqgo.New(lvqgo.WithLogger(lvqgo.NewTextLogger(slog.LevelInfo)))
//	codes, _ := eng.Initialize(ctx, data, 20)
//	res, _ := eng.Train(ctx, train.OLVQ1, lvqgo.TrainParams{
//	    Codebook: codes,
//	    Data:     data,
//	    Length:   800,
//	})
//	report, _ := eng.Accuracy(ctx, res.Codebook, test)
//	fmt.Printf("%.2f %%\n", report.Percent())
//
// # Missing Components
//
// Components marked "x" in the text format are missing. Distances are taken
// over the components both vectors know, and training never moves a
// codebook component toward a missing sample component.
//
// # Checkpoints
//
// Long runs can write periodic snapshots to any blob store:
//
//	store := blobstore.NewLocalStore("./runs")
//	cp := persistence.NewCheckpointer(store, "ex1.cod", persistence.WithCompression(persistence.CompressionZstd))
//	eng, _ := lvqgo.New(lvqgo.WithCheckpoint(10000, train.SnapshotVersioned, cp))
//
// Snapshots can be kept on local disk, in memory, in S3 (optionally with a
// DynamoDB commit pointer) or in MinIO.
//
// # Key Features
//
//   - LVQ1, OLVQ1, LVQ2.1 and LVQ3 with linear or inverse-time rate decay
//   - Persistent OLVQ1 learning rates to continue training
//   - Even or proportional initialization, balancing, elimination, relabeling
//   - Accuracy, k-NN accuracy, confusion matrix and McNemar's test
//   - Binary snapshots with CRC32 and optional zstd or lz4 compression
package lvqgo
