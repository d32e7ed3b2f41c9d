package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"
)

// Distribution describes the finite part of a sample of ratios.
type Distribution struct {
	Median    float64
	Mean      float64
	P90       float64
	Max       float64
	Finite    int
	NonFinite int
}

// Describe summarises values, skipping NaN and infinities.
func Describe(values []float64) Distribution {
	finite := make(mstats.Float64Data, 0, len(values))
	var d Distribution
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			d.NonFinite++
			continue
		}
		finite = append(finite, v)
	}
	d.Finite = len(finite)
	if d.Finite == 0 {
		return d
	}

	d.Median, _ = finite.Median()
	d.Mean, _ = finite.Mean()
	d.P90, _ = finite.Percentile(90)
	d.Max, _ = finite.Max()
	return d
}
