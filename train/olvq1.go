package train

import (
	"context"

	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/winner"
)

// RatesVersion is the current version of the Rates side-car.
const RatesVersion = 1

// Rates holds the individual OLVQ1 learning rate of every codebook vector,
// indexed by codebook position. It is carried between runs so training can
// be continued.
type Rates struct {
	Version int       `json:"version"`
	Size    int       `json:"size"`
	Alphas  []float32 `json:"alphas"`
}

// UniformRates seeds n rates with alpha.
func UniformRates(n int, alpha float32) *Rates {
	r := &Rates{Version: RatesVersion, Size: n, Alphas: make([]float32, n)}
	for i := range r.Alphas {
		r.Alphas[i] = alpha
	}
	return r
}

// Compatible reports whether r can seed a codebook of n vectors.
func (r *Rates) Compatible(n int) bool {
	return r != nil && r.Version == RatesVersion && r.Size == n && len(r.Alphas) == n
}

// RunOLVQ1 trains with an individual, self-adjusting rate per codebook vector.
//
// After a correct classification the winner's rate becomes r/(1+r); after a
// misclassification r/(1-r), clamped to the base rate. A positive
// params.Alpha seeds every rate uniformly and prior is ignored. With a zero
// Alpha, rates continue from prior when it is compatible with the codebook
// size and start uniformly at DefaultOLVQ1Alpha otherwise; continued rates
// above the base rate are clamped. The final rates are returned with the
// codebook.
func RunOLVQ1(ctx context.Context, params Params, prior *Rates) (*dataset.Entries, *Rates, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}
	p := params.withDefaults()

	base := p.Alpha
	explicit := base > 0
	if !explicit {
		base = DefaultOLVQ1Alpha
	}
	n := p.Codebook.Len()

	rates := UniformRates(n, base)
	switch {
	case prior == nil:
	case explicit:
		p.Logger.DebugContext(ctx, "explicit learning rate overrides stored rates", "alpha", base)
	case prior.Compatible(n):
		for i, r := range prior.Alphas {
			rates.Alphas[i] = min(r, base)
		}
	default:
		p.Logger.DebugContext(ctx, "ignoring incompatible learning rates",
			"size", prior.Size,
			"codebook", n,
		)
	}
	alphas := rates.Alphas

	err := run(ctx, &p, OLVQ1, func(_ int64, sample *dataset.Entry) {
		w, ok := winner.Best(p.Searcher, p.Codebook, sample)
		if !ok {
			return
		}
		i := w.Index
		r := alphas[i]
		if w.Entry.Label == sample.Label {
			Move(w.Entry, sample, r)
			alphas[i] = r / (1 + r)
			return
		}
		Move(w.Entry, sample, -r)
		next := r / (1 - r)
		if r >= 1 || next > base {
			next = base
		}
		alphas[i] = next
	})
	if err != nil {
		return nil, nil, err
	}
	return p.Codebook, rates, nil
}
