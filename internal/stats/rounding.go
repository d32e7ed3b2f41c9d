package stats

import (
	"math"
	"strconv"
)

// FreqDecimals is the precision every frequency and ratio is rounded to.
const FreqDecimals = 5

// RoundHalfEven rounds x to the given decimals, correctly rounded on the exact
// binary value with ties to even.
func RoundHalfEven(x float64, decimals int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', decimals, 64), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// RoundScaled rounds by scaling, rint, and unscaling. It can differ from
// RoundHalfEven in the last place because x*10^n is itself rounded.
func RoundScaled(x float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.RoundToEven(x*scale) / scale
}
