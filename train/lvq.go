package train

import (
	"context"

	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/winner"
)

// RunLVQ1 moves the nearest codebook vector toward a correctly classified
// sample and away from a misclassified one, with a globally scheduled rate.
func RunLVQ1(ctx context.Context, params Params) (*dataset.Entries, error) {
	if err := params.ValidateFor(LVQ1); err != nil {
		return nil, err
	}
	p := params.withDefaults()

	err := run(ctx, &p, LVQ1, func(t int64, sample *dataset.Entry) {
		w, ok := winner.Best(p.Searcher, p.Codebook, sample)
		if !ok {
			return
		}
		alpha := p.Schedule.Alpha(t, p.Length, p.Alpha)
		if w.Entry.Label == sample.Label {
			Move(w.Entry, sample, alpha)
		} else {
			Move(w.Entry, sample, -alpha)
		}
	})
	if err != nil {
		return nil, err
	}
	return p.Codebook, nil
}

// RunLVQ2 runs LVQ2.1: when the two nearest codebook vectors carry different
// labels, exactly one of them correct, and the sample lies inside the window,
// the correct one moves toward the sample and the other away.
func RunLVQ2(ctx context.Context, params Params) (*dataset.Entries, error) {
	return windowed(ctx, params, LVQ2)
}

// RunLVQ3 extends LVQ2.1: when both nearest vectors carry the sample's label,
// both move toward it at rate alpha*epsilon.
func RunLVQ3(ctx context.Context, params Params) (*dataset.Entries, error) {
	return windowed(ctx, params, LVQ3)
}

func windowed(ctx context.Context, params Params, algo Algorithm) (*dataset.Entries, error) {
	if err := params.ValidateFor(algo); err != nil {
		return nil, err
	}
	p := params.withDefaults()
	threshold := (1 - p.Window) / (1 + p.Window)

	err := run(ctx, &p, algo, func(t int64, sample *dataset.Entry) {
		ws := p.Searcher.Nearest(p.Codebook, sample, 2)
		if len(ws) < 2 {
			return
		}
		alpha := p.Schedule.Alpha(t, p.Length, p.Alpha)
		best, next := ws[0], ws[1]

		if best.Entry.Label != next.Entry.Label {
			if best.Entry.Label != sample.Label && next.Entry.Label != sample.Label {
				return
			}
			if !inWindow(best.Distance, next.Distance, threshold) {
				return
			}
			if next.Entry.Label == sample.Label {
				best, next = next, best
			}
			Move(best.Entry, sample, alpha)
			Move(next.Entry, sample, -alpha)
			return
		}

		if algo == LVQ3 && best.Entry.Label == sample.Label {
			Move(best.Entry, sample, alpha*p.Epsilon)
			Move(next.Entry, sample, alpha*p.Epsilon)
		}
	})
	if err != nil {
		return nil, err
	}
	return p.Codebook, nil
}

// inWindow reports whether d1/d2 exceeds threshold. A zero d2 means both
// winners coincide with the sample and never qualifies.
func inWindow(d1, d2, threshold float32) bool {
	if d2 <= 0 {
		return false
	}
	return d1/d2 > threshold
}
