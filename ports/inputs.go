package ports

import (
	"context"

	"pvsynergy/domain/faers"
	"pvsynergy/domain/stage"
	"pvsynergy/domain/synergy"
)

// InputLoader reads the five input tables of a run. Implementations choose
// the file format from the path.
type InputLoader interface {
	ReadSingleCases(ctx context.Context, path string) ([]faers.SingleCase, error)
	ReadCombinationCases(ctx context.Context, path string) ([]faers.CombinationCase, error)
	ReadDrugs(ctx context.Context, path string) ([]faers.Drug, error)
	ReadReactions(ctx context.Context, path string) ([]faers.Reaction, error)
	ReadBenchmark(ctx context.Context, path string) ([]faers.BenchmarkEntry, error)
}

// StageSink persists one stage view and returns where it went.
type StageSink interface {
	WriteStage(ctx context.Context, spec stage.StageSpec, rows []synergy.AnnotatedRecord) (string, error)
}
