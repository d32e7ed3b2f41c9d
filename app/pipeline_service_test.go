package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pvsynergy/adapters/excel"
	"pvsynergy/adapters/sqlite"
	"pvsynergy/domain/run"
	"pvsynergy/domain/stage"
	"pvsynergy/domain/synergy"
	"pvsynergy/internal/config"
	apperrors "pvsynergy/internal/errors"
	"pvsynergy/internal/report"
	"pvsynergy/internal/testkit"
	"pvsynergy/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSmallSet(t *testing.T) config.InputConfig {
	t.Helper()
	files, err := testkit.SmallSet().WriteCSV(t.TempDir())
	require.NoError(t, err)
	return config.InputConfig{
		MultiDrug:  files.MultiDrug,
		SingleDrug: files.SingleDrug,
		Drugs:      files.Drugs,
		Reactions:  files.Reactions,
		Benchmark:  files.Benchmark,
	}
}

func newService(out io.Writer, store ports.RunRepository) *PipelineService {
	return NewPipelineService(excel.NewLoader(), NewStageRunner(out), store)
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestPipeline_Run(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()

	res, err := newService(&out, nil).Run(context.Background(), RunRequest{
		Inputs:    writeSmallSet(t),
		OutputDir: dir,
		Params:    synergy.DefaultParams(),
	})
	require.NoError(t, err)

	m := res.Manifest
	require.NoError(t, m.Validate())
	assert.Equal(t, run.Counts{SingleCells: 7, CombinationCells: 6, JoinedRecords: 5, DroppedByJoin: 1}, m.Counts)
	assert.Equal(t, 105, m.Inputs["single_drug"].Rows)
	assert.Equal(t, 65, m.Inputs["multi_drug"].Rows)
	assert.Equal(t, 3, m.Inputs["benchmark"].Rows)

	require.Len(t, m.Stages, 4)
	records := []int{}
	for _, s := range m.Stages {
		records = append(records, s.Summary.TotalRecords)
		assert.FileExists(t, s.OutputPath)
		assert.False(t, s.OutputHash.IsEmpty())
	}
	assert.Equal(t, []int{5, 3, 2, 5}, records)

	min6 := readLines(t, filepath.Join(dir, "03_data_init_bliss_chi_min6.csv"))
	require.Len(t, min6, 4)
	assert.True(t, strings.HasPrefix(min6[0], ",combination_name,"))
	assert.True(t, strings.HasPrefix(min6[3], "3,"), "min-cases rows keep their initial index")

	bench := readLines(t, filepath.Join(dir, "04_data_init_bliss_chi_bench.csv"))
	require.Len(t, bench, 3)
	assert.True(t, strings.HasPrefix(bench[2], "1,"), "benchmark rows are renumbered")
	assert.True(t, strings.HasSuffix(bench[0], ",Frequency in Pharmacotherapeutic compass"))

	console := out.String()
	for _, title := range []string{"---Initial data---", "---Benchmark dataset---", "---Final dataset---"} {
		assert.Contains(t, console, title)
	}
	assert.Contains(t, console, "Number of records in Pharmacotherapeutic compass: 3")

	loaded, err := run.LoadManifest(res.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, m.Fingerprint, loaded.Fingerprint)
	assert.Empty(t, loaded.Extras)
}

func TestPipeline_ExtrasAndStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := sqlite.Open(ctx, "file:"+filepath.Join(t.TempDir(), "runs.db"), false)
	require.NoError(t, err)
	defer store.Close()

	res, err := newService(nil, store).Run(ctx, RunRequest{
		Inputs:    writeSmallSet(t),
		OutputDir: dir,
		Params:    synergy.DefaultParams(),
		XLSX:      true,
		Report:    true,
	})
	require.NoError(t, err)

	assert.Len(t, res.Manifest.Extras, 3)
	assert.FileExists(t, filepath.Join(dir, excel.WorkbookFile))
	assert.FileExists(t, filepath.Join(dir, report.HTMLFile))

	stored, err := store.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Manifest.RunID.String(), stored.ID)

	sigs, err := store.ListSignals(ctx, stored.ID, ports.SignalFilter{MinCasesOnly: true})
	require.NoError(t, err)
	assert.Len(t, sigs, 3)
}

func TestPipeline_RerunReproducesOutputs(t *testing.T) {
	ctx := context.Background()
	inputs := writeSmallSet(t)
	svc := newService(nil, nil)

	first, err := svc.Run(ctx, RunRequest{Inputs: inputs, OutputDir: t.TempDir(), Params: synergy.DefaultParams()})
	require.NoError(t, err)

	again, err := svc.Rerun(ctx, first.Manifest, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, first.Manifest.RunID, again.Manifest.RunID)
	assert.Equal(t, first.Manifest.Fingerprint.Fingerprint, again.Manifest.Fingerprint.Fingerprint)
	for i := range first.Manifest.Stages {
		assert.Equal(t, first.Manifest.Stages[i].OutputHash, again.Manifest.Stages[i].OutputHash)
	}

	f, err := os.OpenFile(inputs.Benchmark, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("aspirin & warfarin,200,0.9\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = svc.Rerun(ctx, first.Manifest, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDataIntegrity, apperrors.GetCode(err))
}

func TestPipeline_WriteReport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := newService(nil, nil)

	res, err := svc.Run(ctx, RunRequest{Inputs: writeSmallSet(t), OutputDir: dir, Params: synergy.DefaultParams()})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, report.HTMLFile))

	paths, err := svc.WriteReport(ctx, res.Manifest, dir, report.Options{TopN: 2})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	md, err := os.ReadFile(filepath.Join(dir, report.MarkdownFile))
	require.NoError(t, err)
	assert.Contains(t, string(md), "aspirin & warfarin")
	assert.Contains(t, string(md), res.Manifest.RunID.String())

	m := *res.Manifest
	m.Fingerprint.Fingerprint = "0000"
	_, err = svc.WriteReport(ctx, &m, t.TempDir(), report.Options{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDataIntegrity, apperrors.GetCode(err))
}

func TestPipeline_Errors(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil, nil)

	inputs := writeSmallSet(t)
	inputs.Drugs = filepath.Join(t.TempDir(), "absent.csv")
	_, err := svc.Run(ctx, RunRequest{Inputs: inputs, OutputDir: t.TempDir(), Params: synergy.DefaultParams()})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInputShape, apperrors.GetCode(err))

	bad := synergy.DefaultParams()
	bad.Alpha = 0
	_, err = svc.Run(ctx, RunRequest{Inputs: writeSmallSet(t), OutputDir: t.TempDir(), Params: bad})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}

func TestResultsReader(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	res, err := newService(nil, nil).Run(ctx, RunRequest{
		Inputs:    writeSmallSet(t),
		OutputDir: dir,
		Params:    synergy.DefaultParams(),
	})
	require.NoError(t, err)

	reader := NewResultsReader(dir)
	m, err := reader.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Manifest.RunID, m.RunID)

	page, err := reader.StageRecords(ctx, stage.StageMinCases, ports.RecordQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "index", page.Columns[0])
	require.Len(t, page.Rows, 3)
	assert.Equal(t, "3", *page.Rows[2]["index"])

	nausea, err := reader.StageRecords(ctx, stage.StageInitial, ports.RecordQuery{Reaction: int64(testkit.Nausea)})
	require.NoError(t, err)
	assert.Equal(t, 2, nausea.Total)

	final, err := reader.StageRecords(ctx, stage.StageFinal, ports.RecordQuery{Offset: 4, Limit: 10})
	require.NoError(t, err)
	require.Len(t, final.Rows, 1)
	assert.Nil(t, final.Rows[0]["combination_name"])
	assert.Equal(t, "N", *final.Rows[0]["Minim six cases"])

	page2, err := reader.StageRecords(ctx, stage.StageFinal, ports.RecordQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page2.Rows, 2)
	assert.Equal(t, 5, page2.Total)

	html, err := reader.Report(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(html), res.Manifest.RunID.String())
	assert.NotContains(t, string(html), "Top signals")

	_, err = NewResultsReader(t.TempDir()).LatestRun(ctx)
	assert.Error(t, err)
}
