package train

import (
	"context"
	"fmt"

	"github.com/hupe1980/lvqgo/dataset"
)

// Result is the outcome of a training run. Rates is only set by OLVQ1.
type Result struct {
	Codebook *dataset.Entries
	Rates    *Rates
}

// Run dispatches to the given algorithm. prior is only used by OLVQ1.
func Run(ctx context.Context, algo Algorithm, params Params, prior *Rates) (Result, error) {
	var (
		codes *dataset.Entries
		rates *Rates
		err   error
	)
	switch algo {
	case LVQ1:
		codes, err = RunLVQ1(ctx, params)
	case OLVQ1:
		codes, rates, err = RunOLVQ1(ctx, params, prior)
	case LVQ2:
		codes, err = RunLVQ2(ctx, params)
	case LVQ3:
		codes, err = RunLVQ3(ctx, params)
	default:
		return Result{}, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, algo)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Codebook: codes, Rates: rates}, nil
}
