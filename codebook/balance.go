package codebook

import (
	"context"
	"log/slog"

	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/distance"
	"github.com/hupe1980/lvqgo/hitlist"
	"github.com/hupe1980/lvqgo/stats"
	"github.com/hupe1980/lvqgo/train"
	"github.com/hupe1980/lvqgo/winner"
)

// BalanceRatio is the factor by which the median nearest distance of a class
// must deviate from the average before vectors are moved.
const BalanceRatio = 1.3

// BalanceAlpha is the base rate of the OLVQ1 run that follows rebalancing.
const BalanceAlpha = 0.3

// BalanceParams configures Balance.
type BalanceParams struct {
	Codebook *dataset.Entries
	Data     *dataset.Entries
	// KNN is the neighborhood that must confirm an added entry. Defaults to
	// DefaultKNN.
	KNN      int
	Searcher winner.Searcher
	// Distance is used for the class statistics. Defaults to the distance of
	// a linear searcher, Euclidean otherwise.
	Distance   distance.Func
	Checkpoint *train.Checkpoint
	Logger     *slog.Logger
}

// BalanceResult is the outcome of Balance.
type BalanceResult struct {
	Codebook *dataset.Entries
	Rates    *train.Rates
	// Before and After are the median nearest distances per class.
	Before *stats.Distances
	After  *stats.Distances
	// Forced counts vectors added for classes missing from the codebook.
	Forced  int
	Removed int
	Added   int
}

// Balance redistributes codebook vectors over the classes.
//
// A class whose median nearest same-class distance is below the average by
// more than BalanceRatio loses a vector, one above it gains a vector. Net
// changes are evened out between dense and sparse classes. Classes present
// in the data but missing from the codebook get their first data entry.
// Added vectors are picked like in Initialize. The rebalanced codebook is
// then trained with OLVQ1 for one pass over the data at BalanceAlpha.
func Balance(ctx context.Context, p BalanceParams) (BalanceResult, error) {
	if p.Codebook == nil || p.Codebook.Len() == 0 {
		return BalanceResult{}, train.ErrNoCodebook
	}
	if p.Data == nil || p.Data.Len() == 0 {
		return BalanceResult{}, train.ErrNoData
	}
	if p.Codebook.Dimension() != p.Data.Dimension() {
		return BalanceResult{}, &dataset.DimensionError{Expected: p.Codebook.Dimension(), Actual: p.Data.Dimension()}
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := searcherOrDefault(p.Searcher)
	dist := p.Distance
	if dist == nil {
		if d, ok := s.(interface{ Distance() distance.Func }); ok {
			dist = d.Distance()
		}
	}

	before := stats.MedianDistances(p.Codebook, dist)
	diff := make(map[int]int, len(before.Classes))
	note := 0

	avg, ok := before.Average()
	if ok {
		for _, c := range before.Classes {
			if !c.Defined {
				continue
			}
			if avg > BalanceRatio*c.Dist && c.Count > 1 {
				diff[c.Label]--
				note++
			}
			if BalanceRatio*avg < c.Dist {
				diff[c.Label]++
				note--
			}
		}
	}

	var forced []*dataset.Entry
	for _, label := range before.Missing(p.Data.Labels().Labels()) {
		if e, found := ForcePick(p.Data, label); found {
			forced = append(forced, e)
			note--
		}
	}

	if ok {
		for _, c := range before.Classes {
			if !c.Defined {
				continue
			}
			if avg > BalanceRatio*c.Dist && c.Count+diff[c.Label] > 1 && note < 0 {
				diff[c.Label]--
				note++
			}
			if BalanceRatio*avg < c.Dist && note > 0 {
				diff[c.Label]++
				note--
			}
		}
	}

	res := BalanceResult{Before: before, Forced: len(forced)}

	remove := make(map[int]int, len(diff))
	more := hitlist.New()
	for _, c := range before.Classes {
		switch d := diff[c.Label]; {
		case d < 0:
			remove[c.Label] = -d
		case d > 0:
			more.Set(c.Label, d)
		}
	}

	codes := p.Codebook.Filter(func(_ int, e *dataset.Entry) bool {
		if remove[e.Label] > 0 {
			remove[e.Label]--
			res.Removed++
			return false
		}
		return true
	})
	if err := codes.Append(forced...); err != nil {
		return BalanceResult{}, err
	}
	added := PickInside(s, more, p.Data, p.KNN)
	for _, e := range added.All() {
		if err := codes.Append(e); err != nil {
			return BalanceResult{}, err
		}
	}
	res.Added = added.Len()

	logger.DebugContext(ctx, "codebook rebalanced",
		"forced", res.Forced,
		"removed", res.Removed,
		"added", res.Added,
		"size", codes.Len(),
	)

	trained, rates, err := train.RunOLVQ1(ctx, train.Params{
		Codebook:   codes,
		Data:       p.Data,
		Length:     int64(p.Data.Len()),
		Alpha:      BalanceAlpha,
		Searcher:   s,
		Checkpoint: p.Checkpoint,
		Logger:     logger,
	}, nil)
	if err != nil {
		return BalanceResult{}, err
	}

	res.Codebook = trained
	res.Rates = rates
	res.After = stats.MedianDistances(trained, dist)
	return res, nil
}
