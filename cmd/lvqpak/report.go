package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hupe1980/lvqgo/eval"
	"github.com/hupe1980/lvqgo/labels"
	"github.com/hupe1980/lvqgo/stats"
)

func printReport(w io.Writer, rep *eval.Report, table *labels.Table) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Recognition accuracy:")
	for _, c := range rep.Classes {
		fmt.Fprintf(tw, "%s:\t%d entries\t%6.2f %%\t\n", table.Name(c.Label), c.Total, c.Percent())
	}
	tw.Flush()
	fmt.Fprintf(w, "\nTotal accuracy: %d entries %6.2f %%\n", rep.Total, rep.Percent())
	if rep.Unclassified > 0 {
		fmt.Fprintf(w, "%d entries could not be classified\n", rep.Unclassified)
	}
}

func printConfusion(w io.Writer, cm *eval.Confusion, table *labels.Table) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	header := make([]string, 0, len(cm.Labels)+1)
	header = append(header, "")
	for _, l := range cm.Labels {
		header = append(header, table.Name(l))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for i, row := range cm.Matrix() {
		fmt.Fprintf(tw, "%s", table.Name(cm.Labels[i]))
		for _, n := range row {
			fmt.Fprintf(tw, "\t%d", n)
		}
		fmt.Fprintln(tw, "\t")
	}
	tw.Flush()
	fmt.Fprintf(w, "\nTotal accuracy: %d entries %6.2f %%\n", cm.Total, cm.Percent())
}

func printMcNemar(w io.Writer, r eval.McNemarResult) {
	fmt.Fprintf(w, "both correct %d, first only %d, second only %d, both wrong %d\n",
		r.BothCorrect, r.FirstOnly, r.SecondOnly, r.BothWrong)
	switch {
	case r.Equal():
		fmt.Fprintln(w, "The classifiers are equal")
	case r.Significant():
		fmt.Fprintf(w, "McNemar statistic %.2f: difference significant at risk level %g\n", r.Statistic, r.Risk)
	default:
		fmt.Fprintf(w, "McNemar statistic %.2f: difference not significant\n", r.Statistic)
	}
}

func printDistances(w io.Writer, d *stats.Distances, table *labels.Table) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "class\tvectors\t%s dist\tdeviation\n", d.Aggregate)
	for _, c := range d.Classes {
		dist := "-"
		if c.Defined {
			dist = fmt.Sprintf("%.4f", c.Dist)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.4f\n", table.Name(c.Label), c.Count, dist, c.Dev)
	}
	tw.Flush()
	if avg, ok := d.Average(); ok {
		fmt.Fprintf(w, "average %s distance %.4f\n", d.Aggregate, avg)
	}
}
