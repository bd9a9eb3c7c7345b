package train

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/lvqgo/dataset"
	"golang.org/x/time/rate"
)

// step adapts the codebook for iteration t using sample.
type step func(t int64, sample *dataset.Entry)

// run drives the common iteration loop: cyclic sampling, per-iteration step,
// checkpoints and throttled progress logging.
func run(ctx context.Context, p *Params, algo Algorithm, fn step) error {
	log := p.Logger
	cur := p.Data.Cursor()
	sample := cur.Rewind()
	if sample == nil {
		return ErrNoData
	}

	progress := rate.Sometimes{Interval: time.Second}
	start := time.Now()
	for t := int64(0); t < p.Length; t++ {
		if sample == nil {
			sample = cur.Rewind()
			if sample == nil {
				return fmt.Errorf("%w: can't rewind data (%d/%d iterations)", ErrNoData, t, p.Length)
			}
		}

		fn(t, sample)

		if p.Checkpoint.due(t) {
			snap := Snapshot{Codebook: p.Codebook, Iteration: t, Algorithm: algo, Kind: p.Checkpoint.Kind}
			if err := p.Checkpoint.Sink.Checkpoint(ctx, snap); err != nil {
				log.ErrorContext(ctx, "snapshot failed", "algorithm", algo.String(), "iteration", t, "error", err)
			} else {
				log.DebugContext(ctx, "snapshot saved", "algorithm", algo.String(), "iteration", t)
			}
		}

		progress.Do(func() {
			log.DebugContext(ctx, "training progress",
				"algorithm", algo.String(),
				"iteration", t,
				"remaining", p.Length-t,
			)
		})

		sample = cur.Next()
	}

	log.DebugContext(ctx, "training finished",
		"algorithm", algo.String(),
		"iterations", p.Length,
		"elapsed", time.Since(start),
	)
	return nil
}
