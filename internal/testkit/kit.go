package testkit

import (
	"pvsynergy/domain/faers"
)

// Fixture drug and reaction ids used by SmallSet.
const (
	Aspirin   faers.DrugID = 1
	Warfarin  faers.DrugID = 2
	Ibuprofen faers.DrugID = 3
	Unnamed   faers.DrugID = 4 // has single-drug cases but no name
	NoSingles faers.DrugID = 5 // appears only in combinations

	Haemorrhage faers.ReactionID = 100
	Nausea      faers.ReactionID = 200
)

// SmallSet returns a hand-built input set small enough to check by hand.
//
// Joined records, in order:
//
//	0: 1&2 haemorrhage  y_obs 0.42, f1 0.1, f2 0.2 -> y_pred 0.28, bliss 1.5, min cases, benchmark 0.3
//	1: 1&2 nausea       y_obs 0.58, f1 0.9, f2 0.8 -> y_pred 0.98, bliss 0.59184, min cases
//	2: 1&3 haemorrhage  y_obs 0.4,  f1 0.1, f2 0.2 -> bliss 1.42857, below min cases, benchmark 0.07
//	3: 1&3 nausea       y_obs 0.6,  f1 0.9, f2 0.8 -> bliss 0.61224, min cases, benchmark 0.05
//	4: 2&4 haemorrhage  y_obs 1.0,  f1 0.2, f2 1.0 -> bliss 1.0, no combination name
//
// The 1&5 combination has no single-drug data and is dropped by the join.
func SmallSet() *GeneratedSet {
	s := &GeneratedSet{
		Drugs: []faers.Drug{
			{ID: Aspirin, Name: "aspirin"},
			{ID: Warfarin, Name: "warfarin"},
			{ID: Ibuprofen, Name: "ibuprofen"},
			{ID: Aspirin, Name: "acetylsalicylic acid"},
		},
		Reactions: []faers.Reaction{
			{ID: Haemorrhage, PreferredTermName: "Haemorrhage", HighLevelTerm: "10055245", HighLevelTermName: "Haemorrhages NEC"},
			{ID: Nausea, PreferredTermName: "Nausea", HighLevelTerm: "10028817", HighLevelTermName: "Nausea and vomiting symptoms"},
		},
		Benchmark: []faers.BenchmarkEntry{
			{Combination: "warfarin & aspirin", Reaction: Haemorrhage, Frequency: 0.3},
			{Combination: "aspirin & ibuprofen", Reaction: Nausea, Frequency: 0.05},
			{Combination: "ibuprofen & aspirin", Reaction: Haemorrhage, Frequency: 0.07},
		},
	}

	s.addSingles(Aspirin, Haemorrhage, 6)
	s.addSingles(Aspirin, Nausea, 54)
	s.addSingles(Warfarin, Haemorrhage, 6)
	s.addSingles(Warfarin, Nausea, 24)
	s.addSingles(Ibuprofen, Haemorrhage, 2)
	s.addSingles(Ibuprofen, Nausea, 8)
	s.addSingles(Unnamed, Haemorrhage, 5)

	s.addCombinations(faers.NewDrugPair(Aspirin, Warfarin), Haemorrhage, 21)
	s.addCombinations(faers.NewDrugPair(Aspirin, Warfarin), Nausea, 29)
	s.addCombinations(faers.NewDrugPair(Ibuprofen, Aspirin), Haemorrhage, 4)
	s.addCombinations(faers.NewDrugPair(Ibuprofen, Aspirin), Nausea, 6)
	s.addCombinations(faers.NewDrugPair(Warfarin, Unnamed), Haemorrhage, 3)
	s.addCombinations(faers.NewDrugPair(Aspirin, NoSingles), Haemorrhage, 2)
	return s
}

func (s *GeneratedSet) addSingles(drug faers.DrugID, reaction faers.ReactionID, n int) {
	for i := 0; i < n; i++ {
		s.SingleCases = append(s.SingleCases, faers.SingleCase{
			CaseID:   s.nextCaseID("sd"),
			Drug:     drug,
			Reaction: reaction,
		})
	}
}

func (s *GeneratedSet) addCombinations(pair faers.DrugPair, reaction faers.ReactionID, n int) {
	for i := 0; i < n; i++ {
		s.CombinationCases = append(s.CombinationCases, faers.CombinationCase{
			CaseID:   s.nextCaseID("md"),
			Pair:     pair,
			Reaction: reaction,
		})
	}
}
