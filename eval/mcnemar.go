package eval

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrLengthMismatch is returned when two classification results cover a
	// different number of entries.
	ErrLengthMismatch = errors.New("eval: unequal numbers of classifications")
	// ErrInvalidFlag is returned for flag tokens other than 0 and 1.
	ErrInvalidFlag = errors.New("eval: classification flag must be 0 or 1")
)

// Chi-square critical values with one degree of freedom and the risk levels
// they belong to, from the least to the most significant.
var (
	riskLevels    = [...]float64{0.05, 0.025, 0.01, 0.005}
	chiSquareCrit = [...]float64{3.84, 5.02, 6.63, 7.88}
)

// McNemarResult compares two classifiers on the same entries.
type McNemarResult struct {
	BothCorrect int
	FirstOnly   int // first correct, second wrong
	SecondOnly  int // second correct, first wrong
	BothWrong   int
	// Statistic is (FirstOnly-SecondOnly)^2 / (FirstOnly+SecondOnly).
	Statistic float64
	// Risk is the smallest tabulated risk level at which the difference is
	// significant, zero when it is not.
	Risk float64
}

// Equal reports whether both classifiers got exactly the same entries right.
func (r McNemarResult) Equal() bool {
	return r.FirstOnly+r.SecondOnly == 0
}

// Significant reports whether the classifiers differ at the 0.05 level.
func (r McNemarResult) Significant() bool {
	return r.Risk > 0
}

// McNemar runs McNemar's test on the correctness flags of two classifiers.
func McNemar(first, second []bool) (McNemarResult, error) {
	if len(first) != len(second) {
		return McNemarResult{}, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(first), len(second))
	}
	var r McNemarResult
	for i := range first {
		switch {
		case first[i] && second[i]:
			r.BothCorrect++
		case first[i]:
			r.FirstOnly++
		case second[i]:
			r.SecondOnly++
		default:
			r.BothWrong++
		}
	}
	n := r.FirstOnly + r.SecondOnly
	if n == 0 {
		return r, nil
	}
	d := float64(r.FirstOnly - r.SecondOnly)
	r.Statistic = d * d / float64(n)
	for i := len(chiSquareCrit) - 1; i >= 0; i-- {
		if r.Statistic > chiSquareCrit[i] {
			r.Risk = riskLevels[i]
			break
		}
	}
	return r, nil
}

// WriteFlags writes one 1 or 0 per line.
func WriteFlags(w io.Writer, flags []bool) error {
	bw := bufio.NewWriter(w)
	for _, f := range flags {
		b := byte('0')
		if f {
			b = '1'
		}
		if err := bw.WriteByte(b); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadFlags reads whitespace separated 0 and 1 tokens.
func ReadFlags(r io.Reader) ([]bool, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	var flags []bool
	for sc.Scan() {
		switch tok := strings.TrimSpace(sc.Text()); tok {
		case "1":
			flags = append(flags, true)
		case "0":
			flags = append(flags, false)
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidFlag, tok)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return flags, nil
}
