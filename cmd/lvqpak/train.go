package main

import (
	"fmt"

	"github.com/hupe1980/lvqgo"
	"github.com/hupe1980/lvqgo/codebook"
	"github.com/hupe1980/lvqgo/persistence"
	"github.com/hupe1980/lvqgo/train"
	"github.com/spf13/cobra"
)

// ============================================================================
// init
// ============================================================================

var initOpts struct {
	din, cout string
	noc, knn  int
	alloc     string
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Pick an initial codebook from the training data",
	Long: `Pick an initial codebook from the training data. Only entries that their
own k nearest neighbors classify correctly are picked. With --alloc even every
class gets the same number of vectors, with --alloc prop the number follows
the class frequency.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "din", "cout", "noc"); err != nil {
		return err
	}
	alloc, err := codebook.ParseAllocation(initOpts.alloc)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	data, err := s.load(ctx, initOpts.din)
	if err != nil {
		return err
	}
	eng, err := s.engine(lvqgo.WithKNN(initOpts.knn))
	if err != nil {
		return err
	}

	codes, err := eng.Initialize(ctx, data, initOpts.noc, alloc)
	if err != nil {
		return err
	}
	return s.save(ctx, initOpts.cout, codes)
}

// ============================================================================
// train
// ============================================================================

var trainOpts struct {
	algorithm        string
	din, cin, cout   string
	rlen             int64
	alpha            float32
	window, epsilon  float32
	schedule         string
	snapshotInterval int64
	snapshotKind     string
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a codebook with LVQ1, OLVQ1, LVQ2.1 or LVQ3",
	Long: `Train a codebook. LVQ1, LVQ2.1 and LVQ3 require --alpha. Without --alpha,
OLVQ1 continues from the learning rates stored next to the input codebook
(.lra) when they match it; --alpha restarts every rate at that value. OLVQ1
stores its final rates next to the output codebook.`,
	RunE: runTrain,
}

func runTrain(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "din", "cin", "cout", "rlen"); err != nil {
		return err
	}
	algo, err := train.ParseAlgorithm(trainOpts.algorithm)
	if err != nil {
		return err
	}
	if algo != train.OLVQ1 {
		if err := requireFlags(cmd, "alpha"); err != nil {
			return fmt.Errorf("%s: %w", algo, err)
		}
	}
	sched, err := train.ParseSchedule(trainOpts.schedule)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	data, err := s.load(ctx, trainOpts.din)
	if err != nil {
		return err
	}
	codes, err := s.load(ctx, trainOpts.cin)
	if err != nil {
		return err
	}

	opts := []lvqgo.Option{lvqgo.WithSchedule(sched)}
	if trainOpts.snapshotInterval > 0 {
		cp, err := snapshotOption(s, sidecar(trainOpts.cout, snapshotExt), trainOpts.snapshotInterval, trainOpts.snapshotKind)
		if err != nil {
			return err
		}
		opts = append(opts, cp)
	}
	eng, err := s.engine(opts...)
	if err != nil {
		return err
	}

	p := lvqgo.TrainParams{
		Codebook: codes,
		Data:     data,
		Length:   trainOpts.rlen,
		Alpha:    trainOpts.alpha,
		Window:   trainOpts.window,
		Epsilon:  trainOpts.epsilon,
	}
	if algo == train.OLVQ1 {
		p.Rates = eng.LoadRates(ctx, s.store, sidecar(trainOpts.cin, ".lra"))
	}
	res, err := eng.Train(ctx, algo, p)
	if err != nil {
		return err
	}
	if err := s.save(ctx, trainOpts.cout, res.Codebook); err != nil {
		return err
	}
	if res.Rates != nil {
		return eng.SaveRates(ctx, s.store, sidecar(trainOpts.cout, ".lra"), res.Rates)
	}
	return nil
}

// snapshotOption writes periodic snapshots of the codebook under training.
func snapshotOption(s *session, name string, interval int64, kind string) (lvqgo.Option, error) {
	k, err := train.ParseSnapshotKind(kind)
	if err != nil {
		return nil, err
	}
	c, err := persistence.ParseCompression(compress)
	if err != nil {
		return nil, err
	}
	cp := persistence.NewCheckpointer(s.store, name,
		persistence.WithCompression(c),
		persistence.WithLabels(s.table.Names()),
		persistence.WithLogger(s.logger.Logger),
		persistence.WithResourceController(s.rc),
	)
	return lvqgo.WithCheckpoint(interval, k, cp), nil
}

// ============================================================================
// balance
// ============================================================================

var balanceOpts struct {
	din, cin, cout string
	knn            int
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Balance the codebook vectors over the classes and retrain with OLVQ1",
	Long: `Balance compares the median nearest same-class distance of every class with
the average. Classes with too few vectors receive new ones picked from the
data, crowded classes lose vectors, and classes missing from the codebook get
one vector each. The result is retrained with OLVQ1 for one pass over the data.`,
	RunE: runBalance,
}

func runBalance(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "din", "cin", "cout"); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	data, err := s.load(ctx, balanceOpts.din)
	if err != nil {
		return err
	}
	codes, err := s.load(ctx, balanceOpts.cin)
	if err != nil {
		return err
	}
	eng, err := s.engine(lvqgo.WithKNN(balanceOpts.knn))
	if err != nil {
		return err
	}

	res, err := eng.Balance(ctx, codes, data)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "forced %d, removed %d, added %d codebook vectors\n", res.Forced, res.Removed, res.Added)
	if err := s.save(ctx, balanceOpts.cout, res.Codebook); err != nil {
		return err
	}
	return eng.SaveRates(ctx, s.store, sidecar(balanceOpts.cout, ".lra"), res.Rates)
}

func init() {
	initCmd.Flags().StringVar(&initOpts.din, "din", "", "training data file")
	initCmd.Flags().StringVar(&initOpts.cout, "cout", "", "output codebook file")
	initCmd.Flags().IntVar(&initOpts.noc, "noc", 0, "number of codebook vectors")
	initCmd.Flags().IntVar(&initOpts.knn, "knn", codebook.DefaultKNN, "neighbors used to accept a picked entry")
	initCmd.Flags().StringVar(&initOpts.alloc, "alloc", "even", "class allocation (even, prop)")

	trainCmd.Flags().StringVarP(&trainOpts.algorithm, "algorithm", "a", "olvq1", "training algorithm (lvq1, olvq1, lvq2, lvq3)")
	trainCmd.Flags().StringVar(&trainOpts.din, "din", "", "training data file")
	trainCmd.Flags().StringVar(&trainOpts.cin, "cin", "", "input codebook file")
	trainCmd.Flags().StringVar(&trainOpts.cout, "cout", "", "output codebook file")
	trainCmd.Flags().Int64Var(&trainOpts.rlen, "rlen", 0, "number of training iterations")
	trainCmd.Flags().Float32Var(&trainOpts.alpha, "alpha", 0, "initial learning rate (required except for olvq1, which continues stored rates or starts at 0.3)")
	trainCmd.Flags().Float32Var(&trainOpts.window, "win", train.DefaultWindow, "window width of lvq2 and lvq3")
	trainCmd.Flags().Float32Var(&trainOpts.epsilon, "epsilon", train.DefaultEpsilon, "lvq3 rate factor for two correct winners")
	trainCmd.Flags().StringVar(&trainOpts.schedule, "schedule", "linear", "learning rate decay (linear, inverse)")
	trainCmd.Flags().Int64Var(&trainOpts.snapshotInterval, "snapinterval", 0, "write a snapshot every n iterations (0 disables)")
	trainCmd.Flags().StringVar(&trainOpts.snapshotKind, "snapkind", "overwrite", "snapshot naming (overwrite, versioned)")

	balanceCmd.Flags().StringVar(&balanceOpts.din, "din", "", "training data file")
	balanceCmd.Flags().StringVar(&balanceOpts.cin, "cin", "", "input codebook file")
	balanceCmd.Flags().StringVar(&balanceOpts.cout, "cout", "", "output codebook file")
	balanceCmd.Flags().IntVar(&balanceOpts.knn, "knn", codebook.DefaultKNN, "neighbors used to accept added entries")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(balanceCmd)
}
