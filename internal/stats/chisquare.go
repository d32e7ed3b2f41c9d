package stats

import (
	"math"

	"pvsynergy/domain/synergy"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquareResult is a Pearson test of independence on a 2x2 table.
type ChiSquareResult struct {
	Statistic float64
	PValue    float64
	DOF       int
	Expected  synergy.Table2x2
}

// ChiSquare2x2 runs Pearson's chi-square test of independence. With
// correction, Yates' continuity correction moves each observed cell up to 0.5
// toward its expected value. A zero marginal leaves zeros in the expected table;
// the statistic and p-value are then NaN.
func ChiSquare2x2(observed synergy.Table2x2, correction bool) ChiSquareResult {
	var rows, cols [2]float64
	total := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			rows[i] += observed[i][j]
			cols[j] += observed[i][j]
			total += observed[i][j]
		}
	}

	res := ChiSquareResult{DOF: 1}
	degenerate := total == 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if total > 0 {
				res.Expected[i][j] = rows[i] * cols[j] / total
			}
			if res.Expected[i][j] == 0 {
				degenerate = true
			}
		}
	}
	if degenerate {
		res.Statistic = math.NaN()
		res.PValue = math.NaN()
		return res
	}

	obs := make([]float64, 0, 4)
	exp := make([]float64, 0, 4)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			o, e := observed[i][j], res.Expected[i][j]
			if correction {
				diff := e - o
				o += math.Copysign(math.Min(0.5, math.Abs(diff)), diff)
			}
			obs = append(obs, o)
			exp = append(exp, e)
		}
	}

	res.Statistic = stat.ChiSquare(obs, exp)
	res.PValue = distuv.ChiSquared{K: float64(res.DOF)}.Survival(res.Statistic)
	return res
}

// NewContingency builds the pooled 2x2 comparison of a combination against its
// two monotherapies and tests it.
func NewContingency(md synergy.CombinationCell, sd1, sd2 synergy.SingleCell, correction bool) synergy.Contingency {
	c := synergy.Contingency{
		MDWith:     md.Count,
		MDWithout:  md.Total - md.Count,
		SDWith:     sd1.Count + sd2.Count,
		SDTotal:    sd1.Total + sd2.Total,
		Correction: correction,
	}
	c.SDWithout = c.SDTotal - c.SDWith

	c.ObsOdds = float64(c.MDWith) / float64(c.MDWithout)
	c.ExpOdds = float64(c.SDWith) / float64(c.SDWithout)
	c.OddsRatio = c.ObsOdds / c.ExpOdds

	c.Observed = synergy.Table2x2{
		{float64(c.MDWith), float64(c.MDWithout)},
		{float64(c.SDWith), float64(c.SDWithout)},
	}
	res := ChiSquare2x2(c.Observed, correction)
	c.Expected = res.Expected
	c.Statistic = res.Statistic
	c.PValue = res.PValue
	c.DOF = res.DOF
	return c
}
