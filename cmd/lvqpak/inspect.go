package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/hupe1980/lvqgo"
	"github.com/hupe1980/lvqgo/codebook"
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/spf13/cobra"
)

// ============================================================================
// mindist, stddev, showlabs
// ============================================================================

var mindistOpts struct {
	cin, din string
}

var mindistCmd = &cobra.Command{
	Use:   "mindist",
	Short: "Show the median nearest same-class distance of every codebook class",
	Long: `Show the median distance from every codebook vector to its nearest vector
of the same class, per class. With --din the class deviations of the data are
shown as well.`,
	RunE: runMindist,
}

func runMindist(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "cin"); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	codes, err := s.load(ctx, mindistOpts.cin)
	if err != nil {
		return err
	}
	var data *dataset.Entries
	if mindistOpts.din != "" {
		if data, err = s.load(ctx, mindistOpts.din); err != nil {
			return err
		}
	}
	eng, err := s.engine()
	if err != nil {
		return err
	}

	printDistances(cmd.OutOrStdout(), eng.Statistics(codes, data), s.table)
	return nil
}

var stddevOpts struct {
	din string
}

var stddevCmd = &cobra.Command{
	Use:   "stddev",
	Short: "Show the per-class spread of a data file",
	RunE:  runStddev,
}

func runStddev(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "din"); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	data, err := s.load(ctx, stddevOpts.din)
	if err != nil {
		return err
	}
	eng, err := s.engine()
	if err != nil {
		return err
	}

	printDistances(cmd.OutOrStdout(), eng.Statistics(data, data), s.table)
	return nil
}

var showlabsCmd = &cobra.Command{
	Use:   "showlabs <file>",
	Short: "List the labels of a file with their frequencies",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowlabs,
}

func runShowlabs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	es, err := s.load(ctx, args[0])
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "label\tentries")
	for _, h := range es.Labels().Sorted() {
		fmt.Fprintf(tw, "%s\t%d\n", s.table.Name(h.Label), h.Freq)
	}
	fmt.Fprintf(tw, "total\t%d\n", es.Len())
	return tw.Flush()
}

// ============================================================================
// pick, extract
// ============================================================================

var pickOpts struct {
	din, cout, label string
	noc              int
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Copy the first entries of a file",
	Long: `Copy the first --noc entries of a file. With --label only entries of that
class without missing components are copied.`,
	RunE: runPick,
}

func runPick(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "din", "cout", "noc"); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	data, err := s.load(ctx, pickOpts.din)
	if err != nil {
		return err
	}

	var out *dataset.Entries
	if pickOpts.label == "" {
		out = codebook.Pick(data, pickOpts.noc)
	} else {
		label, ok := s.table.Lookup(pickOpts.label)
		if !ok {
			return fmt.Errorf("label %q does not occur in %s", pickOpts.label, pickOpts.din)
		}
		out = codebook.PickKnown(data, label, pickOpts.noc)
	}
	return s.save(ctx, pickOpts.cout, out)
}

var extractOpts struct {
	din, dout, label string
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Copy the entries of one class",
	RunE:  runExtract,
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "din", "dout", "label"); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	data, err := s.load(ctx, extractOpts.din)
	if err != nil {
		return err
	}
	label, ok := s.table.Lookup(extractOpts.label)
	if !ok {
		label = dataset.NoLabel
	}
	return s.save(ctx, extractOpts.dout, codebook.Extract(data, label))
}

// ============================================================================
// elimin, setlabel
// ============================================================================

var eliminOpts struct {
	din, dout string
	knn       int
}

var eliminCmd = &cobra.Command{
	Use:   "elimin",
	Short: "Drop data entries that their neighborhood misclassifies",
	RunE:  runElimin,
}

func runElimin(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "din", "dout"); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	data, err := s.load(ctx, eliminOpts.din)
	if err != nil {
		return err
	}
	eng, err := s.engine(lvqgo.WithKNN(eliminOpts.knn))
	if err != nil {
		return err
	}

	kept, err := eng.Eliminate(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "kept %d of %d entries\n", kept.Len(), data.Len())
	return s.save(ctx, eliminOpts.dout, kept)
}

var setlabelOpts struct {
	din, cin, cout string
	knn            int
}

var setlabelCmd = &cobra.Command{
	Use:   "setlabel",
	Short: "Relabel codebook vectors by majority vote of their nearest data entries",
	RunE:  runSetlabel,
}

func runSetlabel(cmd *cobra.Command, _ []string) error {
	if err := requireFlags(cmd, "din", "cin", "cout"); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	codes, data, err := s.loadPair(ctx, setlabelOpts.cin, setlabelOpts.din)
	if err != nil {
		return err
	}
	eng, err := s.engine(lvqgo.WithKNN(setlabelOpts.knn))
	if err != nil {
		return err
	}

	changed, err := eng.SetLabels(codes, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "changed %d of %d labels\n", changed, codes.Len())
	return s.save(ctx, setlabelOpts.cout, codes)
}

func init() {
	mindistCmd.Flags().StringVar(&mindistOpts.cin, "cin", "", "codebook file")
	mindistCmd.Flags().StringVar(&mindistOpts.din, "din", "", "optional data file for class deviations")

	stddevCmd.Flags().StringVar(&stddevOpts.din, "din", "", "data file")

	pickCmd.Flags().StringVar(&pickOpts.din, "din", "", "input file")
	pickCmd.Flags().StringVar(&pickOpts.cout, "cout", "", "output file")
	pickCmd.Flags().IntVar(&pickOpts.noc, "noc", 0, "number of entries")
	pickCmd.Flags().StringVar(&pickOpts.label, "label", "", "only pick complete entries of this class")

	extractCmd.Flags().StringVar(&extractOpts.din, "din", "", "input file")
	extractCmd.Flags().StringVar(&extractOpts.dout, "dout", "", "output file")
	extractCmd.Flags().StringVar(&extractOpts.label, "label", "", "class to extract")

	eliminCmd.Flags().StringVar(&eliminOpts.din, "din", "", "input data file")
	eliminCmd.Flags().StringVar(&eliminOpts.dout, "dout", "", "output data file")
	eliminCmd.Flags().IntVar(&eliminOpts.knn, "knn", codebook.DefaultKNN, "number of neighbors, at most 10")

	setlabelCmd.Flags().StringVar(&setlabelOpts.din, "din", "", "data file")
	setlabelCmd.Flags().StringVar(&setlabelOpts.cin, "cin", "", "input codebook file")
	setlabelCmd.Flags().StringVar(&setlabelOpts.cout, "cout", "", "output codebook file")
	setlabelCmd.Flags().IntVar(&setlabelOpts.knn, "knn", codebook.DefaultKNN, "number of neighbors")

	rootCmd.AddCommand(mindistCmd)
	rootCmd.AddCommand(stddevCmd)
	rootCmd.AddCommand(showlabsCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(eliminCmd)
	rootCmd.AddCommand(setlabelCmd)
}
