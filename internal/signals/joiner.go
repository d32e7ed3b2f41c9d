package signals

import (
	"pvsynergy/domain/faers"
	"pvsynergy/domain/synergy"
	"pvsynergy/internal/stats"
)

type singleKey struct {
	drug     faers.DrugID
	reaction faers.ReactionID
}

// JoinResult is the joined record set plus how many combination cells had no
// matching monotherapy data for the same reaction.
type JoinResult struct {
	Records []*synergy.Record
	Dropped int
}

// Joiner attaches both monotherapy cells to every combination cell and derives
// the Bliss and chi-square statistics of the resulting record.
type Joiner struct {
	drugs      faers.DrugIndex
	reactions  faers.ReactionIndex
	correction bool
}

func NewJoiner(drugs faers.DrugIndex, reactions faers.ReactionIndex, correction bool) *Joiner {
	return &Joiner{drugs: drugs, reactions: reactions, correction: correction}
}

// Join inner-joins combos against singles on (drug, reaction) for both drugs of
// the pair. Records follow the order of combos and are indexed from 0.
func (j *Joiner) Join(singles []synergy.SingleCell, combos []synergy.CombinationCell) JoinResult {
	bySingle := make(map[singleKey]synergy.SingleCell, len(singles))
	for _, s := range singles {
		bySingle[singleKey{drug: s.Drug, reaction: s.Reaction}] = s
	}

	res := JoinResult{Records: make([]*synergy.Record, 0, len(combos))}
	for _, md := range combos {
		sd1, ok1 := bySingle[singleKey{drug: md.Pair.First, reaction: md.Reaction}]
		sd2, ok2 := bySingle[singleKey{drug: md.Pair.Second, reaction: md.Reaction}]
		if !ok1 || !ok2 {
			res.Dropped++
			continue
		}

		rec := &synergy.Record{
			Index:       len(res.Records),
			Combination: md,
			First:       sd1,
			Second:      sd2,
			Bliss:       stats.Bliss(sd1.RelFreq, sd2.RelFreq, md.RelFreq),
			Contingency: stats.NewContingency(md, sd1, sd2, j.correction),
		}
		j.attachNames(rec)
		j.attachTerms(rec)
		res.Records = append(res.Records, rec)
	}
	return res
}

func (j *Joiner) attachNames(rec *synergy.Record) {
	if name, ok := j.drugs.Name(rec.Combination.Pair.First); ok {
		rec.DrugName1 = synergy.SomeString(name)
	}
	if name, ok := j.drugs.Name(rec.Combination.Pair.Second); ok {
		rec.DrugName2 = synergy.SomeString(name)
	}
	// a missing name on either side leaves the combination unnamed
	if rec.DrugName1.Valid && rec.DrugName2.Valid {
		rec.CombinationName = synergy.SomeString(rec.DrugName1.String + faers.CombinationSeparator + rec.DrugName2.String)
	}
}

func (j *Joiner) attachTerms(rec *synergy.Record) {
	r, ok := j.reactions.Lookup(rec.Reaction())
	if !ok {
		return
	}
	rec.PreferredTermName = synergy.SomeString(r.PreferredTermName)
	rec.HighLevelTerm = synergy.SomeString(r.HighLevelTerm)
	rec.HighLevelTermName = synergy.SomeString(r.HighLevelTermName)
}
