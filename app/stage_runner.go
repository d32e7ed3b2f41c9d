package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"pvsynergy/domain/core"
	"pvsynergy/domain/stage"
	"pvsynergy/internal/logging"
	"pvsynergy/internal/signals"
	"pvsynergy/ports"
)

// StageRunner writes the stage views of a run in plan order and prints their
// console summaries
type StageRunner struct {
	out io.Writer
}

// NewStageRunner creates a new stage runner. out receives the plain-text
// summaries; nil discards them.
func NewStageRunner(out io.Writer) *StageRunner {
	if out == nil {
		out = io.Discard
	}
	return &StageRunner{out: out}
}

// ExecutePlan persists every stage of plan through sink. A stage failure
// aborts the plan; files of earlier stages stay on disk.
func (r *StageRunner) ExecutePlan(ctx context.Context, sink ports.StageSink, plan *stage.StagePlan, views signals.Views, alpha float64) ([]stage.Result, error) {
	results := make([]stage.Result, 0, len(plan.Stages))
	for _, spec := range plan.Stages {
		res, err := r.executeStage(ctx, sink, spec, views, alpha)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *StageRunner) executeStage(ctx context.Context, sink ports.StageSink, spec stage.StageSpec, views signals.Views, alpha float64) (stage.Result, error) {
	start := time.Now()

	rows, ok := views.Stage(spec.Name)
	if !ok {
		return stage.Result{}, fmt.Errorf("%w: %s", core.ErrStageNotFound, spec.Name)
	}

	path, err := sink.WriteStage(ctx, spec, rows)
	if err != nil {
		return stage.Result{}, err
	}
	hash, err := core.HashFile(path)
	if err != nil {
		return stage.Result{}, fmt.Errorf("hash %s: %w", path, err)
	}

	summary := signals.Summarize(spec.Name, rows, alpha)
	signals.PrintSummary(r.out, summary, alpha)

	res := stage.Result{
		Spec:       spec,
		Summary:    summary,
		OutputPath: path,
		OutputHash: hash,
		DurationMs: time.Since(start).Milliseconds(),
	}
	logging.Component("stage_runner").WithFields(map[string]interface{}{
		"stage":   spec.Name,
		"records": summary.TotalRecords,
		"hash":    hash.Short(),
	}).Debug("stage complete")
	return res, nil
}
