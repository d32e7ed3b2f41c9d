package signals

import (
	"pvsynergy/domain/faers"
	"pvsynergy/domain/stage"
	"pvsynergy/domain/synergy"
)

// Views are the filtered and annotated record sets persisted by a run. They
// share the underlying records; nothing is copied or mutated.
type Views struct {
	All       []synergy.AnnotatedRecord
	MinCases  []synergy.AnnotatedRecord
	Benchmark []synergy.AnnotatedRecord
	Final     []synergy.AnnotatedRecord
}

// BuildViews derives every stage view from the joined records.
//
// The benchmark view inner-joins the min-cases subset (or every record with
// BenchmarkBaseAll) against the benchmark table on combination name and
// reaction. The final view keeps every record with its min-cases flag and the
// benchmark frequency when one exists.
func BuildViews(records []*synergy.Record, bench faers.BenchmarkIndex, params synergy.Params) Views {
	var v Views
	v.All = make([]synergy.AnnotatedRecord, 0, len(records))
	v.Final = make([]synergy.AnnotatedRecord, 0, len(records))

	for _, rec := range records {
		meets := rec.MeetsMinCases(params.MinCases)
		freq := lookupBenchmark(bench, rec)

		v.All = append(v.All, synergy.AnnotatedRecord{Record: rec, MinCases: meets})
		v.Final = append(v.Final, synergy.AnnotatedRecord{Record: rec, MinCases: meets, Benchmark: freq})

		if meets {
			v.MinCases = append(v.MinCases, synergy.AnnotatedRecord{Record: rec, MinCases: true})
		}
		if freq.Valid && (meets || params.BenchmarkBase == synergy.BenchmarkBaseAll) {
			v.Benchmark = append(v.Benchmark, synergy.AnnotatedRecord{Record: rec, MinCases: meets, Benchmark: freq})
		}
	}
	return v
}

func lookupBenchmark(bench faers.BenchmarkIndex, rec *synergy.Record) synergy.NullFloat {
	if !rec.CombinationName.Valid {
		return synergy.NullFloat{}
	}
	f, ok := bench.Lookup(rec.CombinationName.String, rec.Reaction())
	if !ok {
		return synergy.NullFloat{}
	}
	return synergy.SomeFloat(f)
}

// Stage returns the view persisted by the named stage.
func (v Views) Stage(name stage.StageName) ([]synergy.AnnotatedRecord, bool) {
	switch name {
	case stage.StageInitial:
		return v.All, true
	case stage.StageMinCases:
		return v.MinCases, true
	case stage.StageBenchmark:
		return v.Benchmark, true
	case stage.StageFinal:
		return v.Final, true
	}
	return nil, false
}
