package codebook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/hitlist"
	"github.com/hupe1980/lvqgo/train"
	"github.com/hupe1980/lvqgo/winner"
)

// Allocation decides how many codebook vectors each class initially gets.
type Allocation int

const (
	// Even assigns noc/classes vectors to every class.
	Even Allocation = iota
	// Proportional assigns freq*noc/total vectors, at least one, to a class
	// of freq entries out of total.
	Proportional
)

func (a Allocation) String() string {
	if a == Proportional {
		return "proportional"
	}
	return "even"
}

// ParseAllocation resolves an allocation by name.
func ParseAllocation(name string) (Allocation, error) {
	switch strings.ToLower(name) {
	case "", "even":
		return Even, nil
	case "prop", "proportional":
		return Proportional, nil
	default:
		return 0, fmt.Errorf("unknown allocation %q", name)
	}
}

// InitParams configures Initialize.
type InitParams struct {
	Data *dataset.Entries
	// Size is the requested number of codebook vectors.
	Size       int
	Allocation Allocation
	// KNN is the neighborhood that must confirm a picked entry. Defaults to
	// DefaultKNN.
	KNN      int
	Searcher winner.Searcher
	Logger   *slog.Logger
}

// Initialize picks initial codebook vectors from the data.
//
// Every class gets a quota according to the allocation. Entries confirmed by
// their k nearest data neighbors fill the quotas in data order. When some
// classes cannot fill their quota, the shortfall is spread over the classes
// that did, and a second pass picks further entries not picked before. The
// result may hold fewer than Size vectors when the data does not contain
// enough confirmed entries.
func Initialize(ctx context.Context, p InitParams) (*dataset.Entries, error) {
	if p.Data == nil || p.Data.Len() == 0 {
		return nil, train.ErrNoData
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := searcherOrDefault(p.Searcher)
	k := knnOrDefault(p.KNN)

	classes := p.Data.Labels()
	nol := classes.Len()
	if nol > p.Size {
		return nil, fmt.Errorf("%w: %d classes, %d vectors requested", ErrTooManyClasses, nol, p.Size)
	}

	remaining := hitlist.New()
	total := classes.Total()
	for _, h := range classes.Hits() {
		n := p.Size / nol
		if p.Allocation == Proportional {
			n = max(h.Freq*p.Size/total, 1)
		}
		remaining.Set(h.Label, n)
	}

	codes := like(p.Data)
	picked := roaring.New()
	pickInside(s, remaining, p.Data, codes, k, picked)

	if short := p.Size - codes.Len(); short > 0 {
		redistribute(remaining, short)
		pickInside(s, remaining, p.Data, codes, k, picked)
	}

	if codes.Len() < p.Size {
		logger.WarnContext(ctx, "fewer codebook vectors than requested",
			"requested", p.Size,
			"picked", codes.Len(),
		)
	}
	logger.DebugContext(ctx, "codebook initialized",
		"allocation", p.Allocation.String(),
		"classes", nol,
		"size", codes.Len(),
	)
	return codes, nil
}

// redistribute spreads short vectors over the classes whose quota was filled
// and clears the quota of the others. Fractions are carried over so the new
// quotas sum to short.
func redistribute(remaining *hitlist.Hitlist, short int) {
	served := 0
	for _, h := range remaining.Hits() {
		if h.Freq == 0 {
			served++
		}
	}
	if served == 0 {
		return
	}
	frac := float64(short) / float64(served)
	carry := 0.0
	for _, h := range remaining.Hits() {
		if h.Freq != 0 {
			remaining.Set(h.Label, 0)
			continue
		}
		n := int(frac + carry)
		carry = frac + carry - float64(n)
		remaining.Set(h.Label, n)
	}
}
