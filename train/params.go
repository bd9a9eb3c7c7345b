// Package train implements the LVQ1, OLVQ1, LVQ2.1 and LVQ3 training algorithms.
//
// All algorithms run a fixed number of iterations. The training data is read
// through one cursor and rewound whenever it is exhausted, so short data sets
// are presented cyclically. The codebook is adapted in place and returned.
// Training is single threaded; a codebook must not be trained concurrently.
package train

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/winner"
)

var (
	// ErrNoData is returned when the training data yields no entries.
	ErrNoData = errors.New("train: no training data")
	// ErrNoCodebook is returned when the codebook is nil or empty.
	ErrNoCodebook = errors.New("train: empty codebook")
	// ErrInvalidLength is returned for a negative run length.
	ErrInvalidLength = errors.New("train: negative run length")
	// ErrUnknownAlgorithm is returned for an unsupported algorithm.
	ErrUnknownAlgorithm = errors.New("train: unknown algorithm")
	// ErrInvalidAlpha is returned when LVQ1, LVQ2.1 or LVQ3 get a non-positive
	// learning rate.
	ErrInvalidAlpha = errors.New("train: learning rate must be positive")
	// ErrInvalidWindow is returned when the window width is outside (0,1).
	ErrInvalidWindow = errors.New("train: window width must be in (0,1)")
	// ErrInvalidEpsilon is returned for a negative LVQ3 epsilon.
	ErrInvalidEpsilon = errors.New("train: epsilon must not be negative")
)

// Algorithm identifies a training algorithm.
type Algorithm int

const (
	LVQ1 Algorithm = iota
	OLVQ1
	LVQ2
	LVQ3
)

func (a Algorithm) String() string {
	switch a {
	case LVQ1:
		return "lvq1"
	case OLVQ1:
		return "olvq1"
	case LVQ2:
		return "lvq2"
	case LVQ3:
		return "lvq3"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// ParseAlgorithm resolves an algorithm by name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(name) {
	case "lvq1":
		return LVQ1, nil
	case "olvq1":
		return OLVQ1, nil
	case "lvq2", "lvq2.1":
		return LVQ2, nil
	case "lvq3":
		return LVQ3, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Default parameters.
const (
	DefaultOLVQ1Alpha = 0.3
	DefaultWindow     = 0.3
	DefaultEpsilon    = 0.1
)

// Params configures a training run.
type Params struct {
	Codebook *dataset.Entries
	Data     *dataset.Entries

	// Length is the number of iterations.
	Length int64
	// Alpha is the base learning rate.
	Alpha float32
	// Schedule decays Alpha over the run (LVQ1, LVQ2, LVQ3). Defaults to Linear.
	Schedule Schedule
	// Searcher finds winners. Defaults to a Euclidean linear scan.
	Searcher winner.Searcher

	// Window is the relative window width w of LVQ2.1 and LVQ3.
	Window float32
	// Epsilon scales the rate of LVQ3 updates when both winners are correct.
	Epsilon float32

	Checkpoint *Checkpoint
	Logger     *slog.Logger
}

// Validate checks the preconditions of a training run.
func (p *Params) Validate() error {
	if p.Codebook == nil || p.Codebook.Len() == 0 {
		return ErrNoCodebook
	}
	if p.Data == nil || p.Data.Len() == 0 {
		return ErrNoData
	}
	if p.Codebook.Dimension() != p.Data.Dimension() {
		return &dataset.DimensionError{Expected: p.Codebook.Dimension(), Actual: p.Data.Dimension()}
	}
	if p.Length < 0 {
		return ErrInvalidLength
	}
	return nil
}

// ValidateFor checks Validate plus the parameters algo depends on. OLVQ1
// falls back to DefaultOLVQ1Alpha, so only the scheduled algorithms require
// a positive Alpha.
func (p *Params) ValidateFor(algo Algorithm) error {
	if err := p.Validate(); err != nil {
		return err
	}
	switch algo {
	case LVQ1:
	case OLVQ1:
		return nil
	case LVQ2, LVQ3:
		if !(p.Window > 0 && p.Window < 1) {
			return fmt.Errorf("%w: %v", ErrInvalidWindow, p.Window)
		}
		if algo == LVQ3 && p.Epsilon < 0 {
			return fmt.Errorf("%w: %v", ErrInvalidEpsilon, p.Epsilon)
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnknownAlgorithm, algo)
	}
	if p.Alpha <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAlpha, p.Alpha)
	}
	return nil
}

func (p *Params) withDefaults() Params {
	c := *p
	if c.Schedule == nil {
		c.Schedule = Linear{}
	}
	if c.Searcher == nil {
		c.Searcher = winner.NewLinear(nil)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}
