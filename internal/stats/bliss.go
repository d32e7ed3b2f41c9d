package stats

import (
	"pvsynergy/domain/synergy"
)

// RelativeFrequency returns round(count/total, 5). The caller guarantees total > 0.
func RelativeFrequency(count, total int) float64 {
	return RoundHalfEven(float64(count)/float64(total), FreqDecimals)
}

// BlissPrediction returns the expected combination frequency under Bliss
// independence. Sum and product are rounded before the subtraction.
func BlissPrediction(f1, f2 float64) float64 {
	sum := RoundScaled(f1+f2, FreqDecimals)
	mult := RoundScaled(f1*f2, FreqDecimals)
	return RoundScaled(sum-mult, FreqDecimals)
}

// Bliss computes y_pred and bliss_ratio = y_obs / y_pred. A zero prediction
// yields +Inf or NaN, which is passed through.
func Bliss(f1, f2, yObs float64) synergy.Bliss {
	pred := BlissPrediction(f1, f2)
	return synergy.Bliss{
		Predicted: pred,
		Ratio:     RoundScaled(yObs/pred, FreqDecimals),
	}
}
