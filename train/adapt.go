package train

import (
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/viterin/vek/vek32"
)

// Move shifts target toward sample by rate: t[i] += rate*(s[i]-t[i]).
// A negative rate moves target away. Components missing in either entry are
// left untouched.
func Move(target, sample *dataset.Entry, rate float32) {
	if target.Mask == nil && sample.Mask == nil {
		vek32.MulNumber_Inplace(target.Points, 1-rate)
		vek32.Add_Inplace(target.Points, vek32.MulNumber(sample.Points, rate))
		return
	}
	for i := range target.Points {
		if target.Missing(i) || sample.Missing(i) {
			continue
		}
		target.Points[i] += rate * (sample.Points[i] - target.Points[i])
	}
}
