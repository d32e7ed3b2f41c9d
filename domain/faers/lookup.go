package faers

// DrugIndex resolves drug ids to names. The first occurrence of an id wins.
type DrugIndex struct {
	names map[DrugID]string
}

func NewDrugIndex(drugs []Drug) DrugIndex {
	idx := DrugIndex{names: make(map[DrugID]string, len(drugs))}
	for _, d := range drugs {
		if _, seen := idx.names[d.ID]; !seen {
			idx.names[d.ID] = d.Name
		}
	}
	return idx
}

func (i DrugIndex) Name(id DrugID) (string, bool) {
	name, ok := i.names[id]
	return name, ok
}

func (i DrugIndex) Len() int { return len(i.names) }

// ReactionIndex resolves SNOMED codes to MedDRA terms. The first occurrence wins.
type ReactionIndex struct {
	terms map[ReactionID]Reaction
}

func NewReactionIndex(reactions []Reaction) ReactionIndex {
	idx := ReactionIndex{terms: make(map[ReactionID]Reaction, len(reactions))}
	for _, r := range reactions {
		if _, seen := idx.terms[r.ID]; !seen {
			idx.terms[r.ID] = r
		}
	}
	return idx
}

func (i ReactionIndex) Lookup(id ReactionID) (Reaction, bool) {
	r, ok := i.terms[id]
	return r, ok
}

func (i ReactionIndex) Len() int { return len(i.terms) }

type benchmarkKey struct {
	combination string
	reaction    ReactionID
}

// BenchmarkConflict records a duplicate benchmark key whose frequency differs
// from the one kept.
type BenchmarkConflict struct {
	Combination string
	Reaction    ReactionID
	Kept        float64
	Dropped     float64
}

// BenchmarkIndex matches (combination name, reaction) to a reference frequency.
// Combination names match regardless of drug order.
type BenchmarkIndex struct {
	freq      map[benchmarkKey]float64
	conflicts []BenchmarkConflict
}

func NewBenchmarkIndex(entries []BenchmarkEntry) BenchmarkIndex {
	idx := BenchmarkIndex{freq: make(map[benchmarkKey]float64, len(entries))}
	for _, e := range entries {
		key := benchmarkKey{combination: CombinationKey(e.Combination), reaction: e.Reaction}
		if kept, seen := idx.freq[key]; seen {
			if kept != e.Frequency {
				idx.conflicts = append(idx.conflicts, BenchmarkConflict{
					Combination: e.Combination,
					Reaction:    e.Reaction,
					Kept:        kept,
					Dropped:     e.Frequency,
				})
			}
			continue
		}
		idx.freq[key] = e.Frequency
	}
	return idx
}

func (i BenchmarkIndex) Lookup(combination string, reaction ReactionID) (float64, bool) {
	f, ok := i.freq[benchmarkKey{combination: CombinationKey(combination), reaction: reaction}]
	return f, ok
}

func (i BenchmarkIndex) Len() int { return len(i.freq) }

// Conflicts lists duplicate keys that disagreed with the kept frequency.
func (i BenchmarkIndex) Conflicts() []BenchmarkConflict { return i.conflicts }
