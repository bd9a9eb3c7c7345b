package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hupe1980/lvqgo"
	"github.com/hupe1980/lvqgo/blobstore"
	"github.com/hupe1980/lvqgo/codebook"
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/eval"
	"github.com/hupe1980/lvqgo/labels"
	"github.com/hupe1980/lvqgo/resource"
	"github.com/spf13/cobra"
)

// ============================================================================
// classify
// ============================================================================

var classifyOpts struct {
	din, cin, dout, cfout string
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Label data entries with their nearest codebook vector",
	RunE:  runClassify,
}

func runClassify(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "din", "cin"); err != nil {
		return err
	}
	if classifyOpts.dout == "" && classifyOpts.cfout == "" {
		return fmt.Errorf("at least one of --dout and --cfout is required")
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	codes, data, err := s.loadPair(ctx, classifyOpts.cin, classifyOpts.din)
	if err != nil {
		return err
	}
	eng, err := s.engine()
	if err != nil {
		return err
	}

	predicted, err := eng.Classify(ctx, codes, data)
	if err != nil {
		return err
	}
	if classifyOpts.cfout != "" {
		var buf bytes.Buffer
		writePredictions(&buf, predicted, s.table)
		if err := s.store.Put(ctx, classifyOpts.cfout, buf.Bytes()); err != nil {
			return err
		}
	}
	if classifyOpts.dout != "" {
		for i, e := range data.All() {
			e.Label = predicted[i]
		}
		return s.save(ctx, classifyOpts.dout, data)
	}
	return nil
}

// writePredictions writes one label per line.
func writePredictions(w io.Writer, predicted []int, table *labels.Table) {
	for _, l := range predicted {
		if l == dataset.NoLabel {
			fmt.Fprintln(w, labels.EmptyName)
			continue
		}
		fmt.Fprintln(w, table.Name(l))
	}
}

// ============================================================================
// accuracy, knntest, cmatr
// ============================================================================

var accuracyOpts struct {
	din, cin, cfout string
}

var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Report the recognition accuracy of a codebook per class",
	Long: `Report the recognition accuracy of a codebook per class and in total. With
--cfout one line per data entry is written, 1 when it was classified correctly
and 0 otherwise, for use with mcnemar.`,
	RunE: runAccuracy,
}

func runAccuracy(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "din", "cin"); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	codes, data, err := s.loadPair(ctx, accuracyOpts.cin, accuracyOpts.din)
	if err != nil {
		return err
	}
	eng, err := s.engine()
	if err != nil {
		return err
	}

	rep, err := eng.Accuracy(ctx, codes, data)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), rep, s.table)
	if accuracyOpts.cfout == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := eval.WriteFlags(&buf, rep.Flags); err != nil {
		return err
	}
	return s.store.Put(ctx, accuracyOpts.cfout, buf.Bytes())
}

var knnOpts struct {
	din, cin string
	knn      int
}

var knnCmd = &cobra.Command{
	Use:   "knntest",
	Short: "Report the k-nearest-neighbor accuracy of a codebook",
	RunE:  runKNN,
}

func runKNN(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "din", "cin", "knn"); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	codes, data, err := s.loadPair(ctx, knnOpts.cin, knnOpts.din)
	if err != nil {
		return err
	}
	eng, err := s.engine()
	if err != nil {
		return err
	}

	rep, err := eng.KNNAccuracy(ctx, codes, data, knnOpts.knn)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), rep, s.table)
	return nil
}

var cmatrOpts struct {
	din, cin string
}

var cmatrCmd = &cobra.Command{
	Use:   "cmatr",
	Short: "Print the confusion matrix of a codebook",
	RunE:  runCmatr,
}

func runCmatr(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "din", "cin"); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	codes, data, err := s.loadPair(ctx, cmatrOpts.cin, cmatrOpts.din)
	if err != nil {
		return err
	}
	eng, err := s.engine()
	if err != nil {
		return err
	}

	cm, err := eng.ConfusionMatrix(ctx, codes, data)
	if err != nil {
		return err
	}
	printConfusion(cmd.OutOrStdout(), cm, s.table)
	return nil
}

// ============================================================================
// mcnemar
// ============================================================================

var mcnemarCmd = &cobra.Command{
	Use:   "mcnemar <flags1> <flags2>",
	Short: "Test whether two classifiers differ significantly",
	Long: `Compare two correctness flag files written by accuracy --cfout with
McNemar's test.`,
	Args: cobra.ExactArgs(2),
	RunE: runMcNemar,
}

func runMcNemar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx, storeURL)
	if err != nil {
		return err
	}

	var flags [2][]bool
	for i, name := range args {
		raw, err := blobstore.ReadAll(ctx, store, name)
		if err != nil {
			return err
		}
		if flags[i], err = eval.ReadFlags(bytes.NewReader(raw)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	r, err := eval.McNemar(flags[0], flags[1])
	if err != nil {
		return err
	}
	printMcNemar(cmd.OutOrStdout(), r)
	return nil
}

// ============================================================================
// compare
// ============================================================================

var compareOpts struct {
	din         string
	maxParallel int64
}

var compareCmd = &cobra.Command{
	Use:   "compare <codebook>...",
	Short: "Measure the accuracy of several codebooks on the same data",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	if err := requireFlags(cmd, "din"); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	data, err := s.load(ctx, compareOpts.din)
	if err != nil {
		return err
	}
	candidates := make([]eval.Candidate, 0, len(args))
	for _, name := range args {
		codes, err := s.load(ctx, name)
		if err != nil {
			return err
		}
		candidates = append(candidates, eval.Candidate{Name: name, Codebook: codes})
	}

	var opts []lvqgo.Option
	if compareOpts.maxParallel > 0 {
		opts = append(opts, lvqgo.WithResourceController(resource.NewController(resource.Config{
			MaxConcurrentEvaluations: compareOpts.maxParallel,
		})))
	}
	eng, err := s.engine(opts...)
	if err != nil {
		return err
	}

	results, err := eng.Compare(ctx, data, candidates...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	width := 0
	for _, r := range results {
		width = max(width, len(r.Name))
	}
	for _, r := range results {
		fmt.Fprintf(out, "%-*s %6.2f %%  (%d/%d)\n", width, r.Name, r.Report.Percent(), r.Report.Correct, r.Report.Total)
	}
	return nil
}

func init() {
	classifyCmd.Flags().StringVar(&classifyOpts.din, "din", "", "data file")
	classifyCmd.Flags().StringVar(&classifyOpts.cin, "cin", "", "codebook file")
	classifyCmd.Flags().StringVar(&classifyOpts.dout, "dout", "", "output data file with predicted labels")
	classifyCmd.Flags().StringVar(&classifyOpts.cfout, "cfout", "", "output file with one predicted label per line")

	accuracyCmd.Flags().StringVar(&accuracyOpts.din, "din", "", "data file")
	accuracyCmd.Flags().StringVar(&accuracyOpts.cin, "cin", "", "codebook file")
	accuracyCmd.Flags().StringVar(&accuracyOpts.cfout, "cfout", "", "output file with per-entry correctness flags")

	knnCmd.Flags().StringVar(&knnOpts.din, "din", "", "data file")
	knnCmd.Flags().StringVar(&knnOpts.cin, "cin", "", "reference file")
	knnCmd.Flags().IntVar(&knnOpts.knn, "knn", codebook.DefaultKNN, "number of neighbors")

	cmatrCmd.Flags().StringVar(&cmatrOpts.din, "din", "", "data file")
	cmatrCmd.Flags().StringVar(&cmatrOpts.cin, "cin", "", "codebook file")

	compareCmd.Flags().StringVar(&compareOpts.din, "din", "", "data file")
	compareCmd.Flags().Int64Var(&compareOpts.maxParallel, "max-parallel", 0, "codebooks evaluated at once (0 runs all at once)")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(accuracyCmd)
	rootCmd.AddCommand(knnCmd)
	rootCmd.AddCommand(cmatrCmd)
	rootCmd.AddCommand(mcnemarCmd)
	rootCmd.AddCommand(compareCmd)
}
