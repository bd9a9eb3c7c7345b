package lvqgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/lvqgo/codebook"
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/train"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrNoData is returned when the data set is empty.
	ErrNoData = errors.New("no data")

	// ErrEmptyCodebook is returned when the codebook is empty.
	ErrEmptyCodebook = errors.New("empty codebook")

	// ErrTooManyClasses is returned when fewer codebook vectors than classes
	// are requested.
	ErrTooManyClasses = errors.New("more classes than codebook vectors")
)

// ErrDimensionMismatch indicates that codebook and data dimensions differ.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var de *dataset.DimensionError
	if errors.As(err, &de) {
		return &ErrDimensionMismatch{Expected: de.Expected, Actual: de.Actual, cause: err}
	}
	if errors.Is(err, train.ErrNoData) {
		return fmt.Errorf("%w: %w", ErrNoData, err)
	}
	if errors.Is(err, train.ErrNoCodebook) {
		return fmt.Errorf("%w: %w", ErrEmptyCodebook, err)
	}
	if errors.Is(err, codebook.ErrTooManyClasses) {
		return fmt.Errorf("%w: %w", ErrTooManyClasses, err)
	}

	return err
}

// checkPair validates a codebook and data pair before any work is done.
func checkPair(codes, data *dataset.Entries) error {
	if codes == nil || codes.Len() == 0 {
		return ErrEmptyCodebook
	}
	if data == nil || data.Len() == 0 {
		return ErrNoData
	}
	if codes.Dimension() != data.Dimension() {
		return &ErrDimensionMismatch{Expected: codes.Dimension(), Actual: data.Dimension()}
	}
	return nil
}
