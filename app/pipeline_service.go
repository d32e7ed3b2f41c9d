package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pvsynergy/adapters/excel"
	"pvsynergy/domain/core"
	"pvsynergy/domain/faers"
	"pvsynergy/domain/run"
	"pvsynergy/domain/stage"
	"pvsynergy/domain/synergy"
	"pvsynergy/internal/aggregate"
	"pvsynergy/internal/config"
	apperrors "pvsynergy/internal/errors"
	"pvsynergy/internal/logging"
	"pvsynergy/internal/report"
	"pvsynergy/internal/signals"
	"pvsynergy/models"
	"pvsynergy/ports"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Version is recorded in every run fingerprint. Overridden at build time with
// -ldflags "-X pvsynergy/app.Version=...".
var Version = "1.0.0"

// PipelineService runs the synergy pipeline end to end
type PipelineService struct {
	loader ports.InputLoader
	runner *StageRunner
	store  ports.RunRepository

	// sinkFor opens the stage sink of one output directory
	sinkFor func(dir string) ports.StageSink
}

// RunRequest describes one run
type RunRequest struct {
	Inputs    config.InputConfig
	OutputDir string
	Params    synergy.Params
	XLSX      bool
	Report    bool

	// RunID reuses an id when re-running a recorded run; empty creates one
	RunID core.RunID

	// ExpectFingerprint fails the run when the computed fingerprint differs
	ExpectFingerprint core.Hash
}

// RunResult is a finished run
type RunResult struct {
	Manifest     *run.Manifest
	ManifestPath string
	Views        signals.Views
	Duration     time.Duration
}

// NewPipelineService creates a pipeline service. store may be nil.
func NewPipelineService(loader ports.InputLoader, runner *StageRunner, store ports.RunRepository) *PipelineService {
	return &PipelineService{
		loader: loader,
		runner: runner,
		store:  store,
		sinkFor: func(dir string) ports.StageSink {
			return excel.NewStageWriter(dir)
		},
	}
}

// Run loads the inputs, derives every stage view, writes the outputs and the
// manifest, and stores the run when a store is configured.
func (s *PipelineService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	start := time.Now()
	if err := req.Params.Validate(); err != nil {
		return nil, apperrors.ConfigInvalid(err.Error())
	}

	runID := req.RunID
	if runID == "" {
		runID = core.NewRunID()
	}
	log := logging.Component("pipeline").WithField("run_id", runID.String())
	log.WithField("output_dir", req.OutputDir).Info("run started")

	c, err := s.compute(ctx, req.Inputs, req.Params, log)
	if err != nil {
		return nil, err
	}
	views := c.views

	plan := stage.DefaultPlan()
	m := run.NewManifest(runID, c.files, req.Params, plan, Version)
	if err := checkFingerprint(m, req.ExpectFingerprint); err != nil {
		return nil, err
	}
	m.Counts = c.counts

	results, err := s.runner.ExecutePlan(ctx, s.sinkFor(req.OutputDir), plan, views, req.Params.Alpha)
	if err != nil {
		return nil, err
	}
	m.Stages = results

	if req.XLSX {
		path := filepath.Join(req.OutputDir, excel.WorkbookFile)
		sheets := make([]excel.StageSheet, 0, len(plan.Stages))
		for _, spec := range plan.Stages {
			rows, _ := views.Stage(spec.Name)
			sheets = append(sheets, excel.StageSheet{Spec: spec, Rows: rows})
		}
		if err := excel.WriteWorkbook(path, sheets); err != nil {
			return nil, err
		}
		m.Extras = append(m.Extras, path)
	}

	if req.Report {
		paths, err := report.Write(req.OutputDir, report.Build(m, views.Final, report.Options{}))
		if err != nil {
			return nil, err
		}
		m.Extras = append(m.Extras, paths...)
	}

	manifestPath := filepath.Join(req.OutputDir, run.ManifestFile)
	if err := m.Save(manifestPath); err != nil {
		return nil, apperrors.OutputError(manifestPath, err)
	}

	if s.store != nil {
		if err := s.persist(ctx, m, req.OutputDir, views.Final); err != nil {
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"fingerprint": m.Fingerprint.Fingerprint.Short(),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("run finished")

	return &RunResult{
		Manifest:     m,
		ManifestPath: manifestPath,
		Views:        views,
		Duration:     time.Since(start),
	}, nil
}

// Rerun repeats a recorded run from its manifest into outputDir under the same
// run id. Inputs whose content changed since the recorded run fail the rerun.
func (s *PipelineService) Rerun(ctx context.Context, m *run.Manifest, outputDir string) (*RunResult, error) {
	paths, err := manifestInputs(m)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, RunRequest{
		Inputs:            paths,
		OutputDir:         outputDir,
		Params:            m.Params,
		XLSX:              hasExtra(m.Extras, excel.WorkbookFile),
		Report:            hasExtra(m.Extras, report.HTMLFile),
		RunID:             m.RunID,
		ExpectFingerprint: m.Fingerprint.Fingerprint,
	})
}

// WriteReport recomputes the final view of a recorded run and writes its
// report into outputDir. Stage files are left untouched.
func (s *PipelineService) WriteReport(ctx context.Context, m *run.Manifest, outputDir string, opts report.Options) ([]string, error) {
	paths, err := manifestInputs(m)
	if err != nil {
		return nil, err
	}
	log := logging.Component("pipeline").WithField("run_id", m.RunID.String())

	c, err := s.compute(ctx, paths, m.Params, log)
	if err != nil {
		return nil, err
	}
	plan := m.Plan
	if plan == nil {
		plan = stage.DefaultPlan()
	}
	recomputed := run.NewManifest(m.RunID, c.files, m.Params, plan, m.Fingerprint.CodeVersion)
	if err := checkFingerprint(recomputed, m.Fingerprint.Fingerprint); err != nil {
		return nil, err
	}
	return report.Write(outputDir, report.Build(m, c.views.Final, opts))
}

// computed is the in-memory result of one pass over the inputs
type computed struct {
	files  map[string]run.InputFile
	counts run.Counts
	views  signals.Views
}

// compute loads the inputs and derives every stage view.
func (s *PipelineService) compute(ctx context.Context, paths config.InputConfig, params synergy.Params, log *logrus.Entry) (*computed, error) {
	in, files, err := s.load(ctx, paths)
	if err != nil {
		return nil, err
	}
	for _, c := range in.Benchmark.Conflicts() {
		log.WithFields(logrus.Fields{
			"combination": c.Combination,
			"reaction":    c.Reaction,
			"kept":        c.Kept,
			"dropped":     c.Dropped,
		}).Warn("conflicting duplicate benchmark entry")
	}

	singles, err := aggregate.Singles(in.SingleCases)
	if err != nil {
		return nil, apperrors.DataIntegrity("aggregate single-drug cases", err)
	}
	combos, err := aggregate.Combinations(in.CombinationCases)
	if err != nil {
		return nil, apperrors.DataIntegrity("aggregate combination cases", err)
	}

	joined := signals.NewJoiner(in.Drugs, in.Reactions, params.YatesCorrection).Join(singles, combos)
	log.WithFields(logrus.Fields{
		"single_cells":      len(singles),
		"combination_cells": len(combos),
		"records":           len(joined.Records),
		"dropped":           joined.Dropped,
	}).Info("records joined")

	return &computed{
		files: files,
		counts: run.Counts{
			SingleCells:      len(singles),
			CombinationCells: len(combos),
			JoinedRecords:    len(joined.Records),
			DroppedByJoin:    joined.Dropped,
		},
		views: signals.BuildViews(joined.Records, in.Benchmark, params),
	}, nil
}

func checkFingerprint(m *run.Manifest, want core.Hash) error {
	if want == "" || m.Fingerprint.Fingerprint == want {
		return nil
	}
	return apperrors.DataIntegrity(fmt.Sprintf("fingerprint %s does not match recorded %s",
		m.Fingerprint.Fingerprint.Short(), want.Short()), core.ErrDataIntegrity)
}

// manifestInputs recovers the input paths recorded in a manifest
func manifestInputs(m *run.Manifest) (config.InputConfig, error) {
	paths := config.InputConfig{}
	for kind, target := range map[excel.InputKind]*string{
		excel.InputMultiDrug:  &paths.MultiDrug,
		excel.InputSingleDrug: &paths.SingleDrug,
		excel.InputDrugs:      &paths.Drugs,
		excel.InputReactions:  &paths.Reactions,
		excel.InputBenchmark:  &paths.Benchmark,
	} {
		in, ok := m.Inputs[string(kind)]
		if !ok {
			return paths, apperrors.ConfigInvalid(fmt.Sprintf("manifest of run %s has no %s input", m.RunID, kind))
		}
		*target = in.Path
	}
	return paths, nil
}

func (s *PipelineService) persist(ctx context.Context, m *run.Manifest, outputDir string, final []synergy.AnnotatedRecord) error {
	rec, err := models.NewRunRecord(m, outputDir)
	if err != nil {
		return err
	}
	if err := s.store.SaveRun(ctx, rec, models.NewSignalRecords(rec.ID, final)); err != nil {
		return apperrors.DatabaseError("save run", err)
	}
	logging.Component("pipeline").WithFields(map[string]interface{}{
		"run_id":  rec.ID,
		"signals": len(final),
	}).Info("run stored")
	return nil
}

// load reads the five inputs concurrently and hashes each file.
func (s *PipelineService) load(ctx context.Context, paths config.InputConfig) (faers.Inputs, map[string]run.InputFile, error) {
	var (
		single   []faers.SingleCase
		combos   []faers.CombinationCase
		drugs    []faers.Drug
		terms    []faers.Reaction
		bench    []faers.BenchmarkEntry
		kindList = excel.InputKinds
		inputs   = make(map[excel.InputKind]string, len(kindList))
		hashes   = make([]core.Hash, len(kindList))
	)
	inputs[excel.InputMultiDrug] = paths.MultiDrug
	inputs[excel.InputSingleDrug] = paths.SingleDrug
	inputs[excel.InputDrugs] = paths.Drugs
	inputs[excel.InputReactions] = paths.Reactions
	inputs[excel.InputBenchmark] = paths.Benchmark

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		combos, err = s.loader.ReadCombinationCases(gctx, paths.MultiDrug)
		return err
	})
	g.Go(func() (err error) {
		single, err = s.loader.ReadSingleCases(gctx, paths.SingleDrug)
		return err
	})
	g.Go(func() (err error) {
		drugs, err = s.loader.ReadDrugs(gctx, paths.Drugs)
		return err
	})
	g.Go(func() (err error) {
		terms, err = s.loader.ReadReactions(gctx, paths.Reactions)
		return err
	})
	g.Go(func() (err error) {
		bench, err = s.loader.ReadBenchmark(gctx, paths.Benchmark)
		return err
	})
	for i, kind := range kindList {
		g.Go(func() error {
			h, err := core.HashFile(inputs[kind])
			if err != nil {
				if os.IsNotExist(err) {
					return apperrors.InputShape(inputs[kind], fmt.Errorf("%w: %s", core.ErrNotFound, inputs[kind]))
				}
				return apperrors.InputShape(inputs[kind], err)
			}
			hashes[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return faers.Inputs{}, nil, err
	}

	rows := map[excel.InputKind]int{
		excel.InputMultiDrug:  len(combos),
		excel.InputSingleDrug: len(single),
		excel.InputDrugs:      len(drugs),
		excel.InputReactions:  len(terms),
		excel.InputBenchmark:  len(bench),
	}
	files := make(map[string]run.InputFile, len(kindList))
	for i, kind := range kindList {
		files[string(kind)] = run.InputFile{Path: inputs[kind], Hash: hashes[i], Rows: rows[kind]}
	}

	return faers.Inputs{
		SingleCases:      single,
		CombinationCases: combos,
		Drugs:            faers.NewDrugIndex(drugs),
		Reactions:        faers.NewReactionIndex(terms),
		Benchmark:        faers.NewBenchmarkIndex(bench),
	}, files, nil
}

func hasExtra(extras []string, name string) bool {
	for _, e := range extras {
		if filepath.Base(e) == name {
			return true
		}
	}
	return false
}
