package faers

import (
	"fmt"
	"strconv"
	"strings"

	"pvsynergy/domain/core"
)

// DrugID is the integer tox drug identifier used by both case files.
type DrugID int64

// ReactionID is the SNOMED code of an adverse reaction.
type ReactionID int64

func (d DrugID) String() string     { return strconv.FormatInt(int64(d), 10) }
func (r ReactionID) String() string { return strconv.FormatInt(int64(r), 10) }

// DrugPair is an unordered pair of drugs stored smallest id first.
type DrugPair struct {
	First  DrugID
	Second DrugID
}

// NewDrugPair returns the canonical pair for a and b.
func NewDrugPair(a, b DrugID) DrugPair {
	if b < a {
		a, b = b, a
	}
	return DrugPair{First: a, Second: b}
}

// ParseDrugPair parses "<int>&<int>" into a canonical pair.
func ParseDrugPair(s string) (DrugPair, error) {
	parts := strings.Split(strings.TrimSpace(s), "&")
	if len(parts) != 2 {
		return DrugPair{}, core.NewMalformedKeyError(s)
	}
	a, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return DrugPair{}, core.NewMalformedKeyError(s)
	}
	b, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return DrugPair{}, core.NewMalformedKeyError(s)
	}
	return NewDrugPair(DrugID(a), DrugID(b)), nil
}

// String renders the pair in its source form, e.g. "3&7".
func (p DrugPair) String() string {
	return fmt.Sprintf("%d&%d", p.First, p.Second)
}

// Less orders pairs by first id, then second id.
func (p DrugPair) Less(o DrugPair) bool {
	if p.First != o.First {
		return p.First < o.First
	}
	return p.Second < o.Second
}

// SingleCase is one monotherapy adverse-event report.
type SingleCase struct {
	CaseID   string
	Drug     DrugID
	Reaction ReactionID
}

// CombinationCase is one adverse-event report for a two-drug exposure.
type CombinationCase struct {
	CaseID   string
	Pair     DrugPair
	Reaction ReactionID
}

// Drug maps an id to its display name.
type Drug struct {
	ID   DrugID
	Name string
}

// Reaction carries the MedDRA terms for a SNOMED reaction code.
type Reaction struct {
	ID                ReactionID
	PreferredTermName string
	HighLevelTerm     string
	HighLevelTermName string
}

// BenchmarkEntry is one known reference frequency for a combination and reaction.
type BenchmarkEntry struct {
	Combination string
	Reaction    ReactionID
	Frequency   float64
}

// CombinationSeparator joins drug names into a combination name.
const CombinationSeparator = " & "

// CombinationKey builds a lookup key for a combination name that ignores the
// order of the two drug names.
func CombinationKey(name string) string {
	parts := strings.Split(name, CombinationSeparator)
	if len(parts) != 2 {
		return strings.TrimSpace(name)
	}
	a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if b < a {
		a, b = b, a
	}
	return a + CombinationSeparator + b
}

// Inputs is the complete, immutable input snapshot of one run.
type Inputs struct {
	SingleCases      []SingleCase
	CombinationCases []CombinationCase
	Drugs            DrugIndex
	Reactions        ReactionIndex
	Benchmark        BenchmarkIndex
}
