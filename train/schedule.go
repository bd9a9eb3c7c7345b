package train

import (
	"fmt"
	"strings"
)

// Schedule returns the learning rate for iteration t of a run of length
// iterations started at base rate alpha. Implementations must be
// non-increasing in t over [0, length).
type Schedule interface {
	Alpha(t, length int64, alpha float32) float32
}

// ScheduleFunc adapts a function to the Schedule interface.
type ScheduleFunc func(t, length int64, alpha float32) float32

// Alpha implements Schedule.
func (f ScheduleFunc) Alpha(t, length int64, alpha float32) float32 {
	return f(t, length, alpha)
}

// Linear decays the rate linearly to zero over the run.
type Linear struct{}

// Alpha implements Schedule.
func (Linear) Alpha(t, length int64, alpha float32) float32 {
	if length <= 0 {
		return alpha
	}
	return alpha * float32(length-t) / float32(length)
}

// InverseTime decays the rate as alpha*C/(C+t) with C = length/100.
type InverseTime struct{}

// Alpha implements Schedule.
func (InverseTime) Alpha(t, length int64, alpha float32) float32 {
	c := float32(length) / 100
	if c <= 0 {
		return alpha
	}
	return alpha * c / (c + float32(t))
}

// ParseSchedule resolves "linear" or "inverse_t".
func ParseSchedule(name string) (Schedule, error) {
	switch strings.ToLower(name) {
	case "", "linear":
		return Linear{}, nil
	case "inverse_t", "inverse-t", "inverse":
		return InverseTime{}, nil
	default:
		return nil, fmt.Errorf("unknown alpha schedule %q", name)
	}
}
