package eval

import (
	"context"

	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/resource"
	"github.com/hupe1980/lvqgo/winner"
	"golang.org/x/sync/errgroup"
)

// Candidate is a named codebook taking part in Compare.
type Candidate struct {
	Name     string
	Codebook *dataset.Entries
}

// Result is the accuracy of one candidate.
type Result struct {
	Name   string
	Report *Report
}

// Compare measures the accuracy of every candidate on data concurrently.
// rc bounds the number of concurrent evaluations and the memory reserved
// for their flags; a nil rc runs all candidates at once. Results keep the
// order of candidates. The first error cancels the remaining evaluations.
func Compare(ctx context.Context, rc *resource.Controller, s winner.Searcher, data *dataset.Entries, candidates ...Candidate) ([]Result, error) {
	results := make([]Result, len(candidates))
	g, ctx := errgroup.WithContext(ctx)

	for i, c := range candidates {
		g.Go(func() error {
			if err := rc.AcquireWorker(ctx); err != nil {
				return err
			}
			defer rc.ReleaseWorker()

			mem := int64(data.Len())
			if err := rc.AcquireMemory(ctx, mem); err != nil {
				return err
			}
			defer rc.ReleaseMemory(mem)

			rep, err := Accuracy(s, c.Codebook, data)
			if err != nil {
				return err
			}
			results[i] = Result{Name: c.Name, Report: rep}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
