package aggregate

import (
	"cmp"
	"fmt"
	"slices"

	"pvsynergy/domain/core"
	"pvsynergy/domain/faers"
	"pvsynergy/domain/synergy"
	"pvsynergy/internal/stats"
)

// group is one (exposure key, reaction) bucket with case ids in source order.
type group[K comparable] struct {
	key      K
	reaction faers.ReactionID
	caseIDs  []string
}

type groupKey[K comparable] struct {
	key      K
	reaction faers.ReactionID
}

// grouped holds buckets in first-seen order plus per-exposure totals.
type grouped[K comparable] struct {
	groups []*group[K]
	totals map[K]int
}

func collect[K comparable](n int, at func(i int) (K, faers.ReactionID, string)) grouped[K] {
	index := make(map[groupKey[K]]*group[K])
	out := grouped[K]{totals: make(map[K]int)}
	for i := 0; i < n; i++ {
		key, reaction, caseID := at(i)
		gk := groupKey[K]{key: key, reaction: reaction}
		g, ok := index[gk]
		if !ok {
			g = &group[K]{key: key, reaction: reaction}
			index[gk] = g
			out.groups = append(out.groups, g)
		}
		g.caseIDs = append(g.caseIDs, caseID)
		out.totals[key]++
	}
	return out
}

func frequency(kind string, key fmt.Stringer, count, total int) (float64, error) {
	if total <= 0 {
		return 0, core.NewDataIntegrityError("%s exposure %s has total %d", kind, key, total)
	}
	f := stats.RelativeFrequency(count, total)
	if f < 0 || f > 1 {
		return 0, core.NewDataIntegrityError("%s exposure %s relative frequency %v out of range", kind, key, f)
	}
	return f, nil
}

// Singles groups single-drug cases by (drug, reaction). Cells are sorted by
// drug id, then reaction id.
func Singles(cases []faers.SingleCase) ([]synergy.SingleCell, error) {
	g := collect(len(cases), func(i int) (faers.DrugID, faers.ReactionID, string) {
		c := cases[i]
		return c.Drug, c.Reaction, c.CaseID
	})

	cells := make([]synergy.SingleCell, 0, len(g.groups))
	for _, grp := range g.groups {
		total := g.totals[grp.key]
		f, err := frequency("single-drug", grp.key, len(grp.caseIDs), total)
		if err != nil {
			return nil, err
		}
		cells = append(cells, synergy.SingleCell{
			Drug:     grp.key,
			Reaction: grp.reaction,
			CaseIDs:  grp.caseIDs,
			Count:    len(grp.caseIDs),
			Total:    total,
			RelFreq:  f,
		})
	}

	slices.SortStableFunc(cells, func(a, b synergy.SingleCell) int {
		return cmp.Or(cmp.Compare(a.Drug, b.Drug), cmp.Compare(a.Reaction, b.Reaction))
	})
	return cells, nil
}

// Combinations groups multi-drug cases by (pair, reaction). Cells are sorted by
// pair, then reaction id. RelFreq is y_obs.
func Combinations(cases []faers.CombinationCase) ([]synergy.CombinationCell, error) {
	g := collect(len(cases), func(i int) (faers.DrugPair, faers.ReactionID, string) {
		c := cases[i]
		return c.Pair, c.Reaction, c.CaseID
	})

	cells := make([]synergy.CombinationCell, 0, len(g.groups))
	for _, grp := range g.groups {
		total := g.totals[grp.key]
		f, err := frequency("multi-drug", grp.key, len(grp.caseIDs), total)
		if err != nil {
			return nil, err
		}
		cells = append(cells, synergy.CombinationCell{
			Pair:     grp.key,
			Reaction: grp.reaction,
			CaseIDs:  grp.caseIDs,
			Count:    len(grp.caseIDs),
			Total:    total,
			RelFreq:  f,
		})
	}

	slices.SortStableFunc(cells, func(a, b synergy.CombinationCell) int {
		return cmp.Or(
			cmp.Compare(a.Pair.First, b.Pair.First),
			cmp.Compare(a.Pair.Second, b.Pair.Second),
			cmp.Compare(a.Reaction, b.Reaction),
		)
	})
	return cells, nil
}
