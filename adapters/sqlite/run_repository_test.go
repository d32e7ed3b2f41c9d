package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pvsynergy/domain/core"
	"pvsynergy/domain/run"
	"pvsynergy/domain/stage"
	"pvsynergy/domain/synergy"
	"pvsynergy/internal/aggregate"
	"pvsynergy/internal/signals"
	"pvsynergy/internal/testkit"
	"pvsynergy/models"
	"pvsynergy/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *RunRepository {
	t.Helper()
	repo, err := Open(context.Background(), "file:"+filepath.Join(t.TempDir(), "runs.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func finalRows(t *testing.T) []synergy.AnnotatedRecord {
	t.Helper()
	in := testkit.SmallSet().Inputs()
	singles, err := aggregate.Singles(in.SingleCases)
	require.NoError(t, err)
	combos, err := aggregate.Combinations(in.CombinationCases)
	require.NoError(t, err)
	res := signals.NewJoiner(in.Drugs, in.Reactions, false).Join(singles, combos)
	return signals.BuildViews(res.Records, in.Benchmark, synergy.DefaultParams()).Final
}

func newRun(t *testing.T, created time.Time) *models.RunRecord {
	t.Helper()
	m := run.NewManifest(core.NewRunID(), map[string]run.InputFile{}, synergy.DefaultParams(), stage.DefaultPlan(), "test")
	m.CreatedAt = core.NewTimestamp(created)
	rec, err := models.NewRunRecord(m, t.TempDir())
	require.NoError(t, err)
	return rec
}

func TestRunRepository_SaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	rec := newRun(t, time.Now().UTC())
	rows := finalRows(t)
	require.NoError(t, repo.SaveRun(ctx, rec, models.NewSignalRecords(rec.ID, rows)))

	got, err := repo.GetRun(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Fingerprint, got.Fingerprint)
	assert.Equal(t, 6, got.MinCases)

	m, err := got.DecodeManifest()
	require.NoError(t, err)
	assert.Equal(t, rec.ID, m.RunID.String())

	all, err := repo.ListSignals(ctx, rec.ID, ports.SignalFilter{})
	require.NoError(t, err)
	require.Len(t, all, len(rows))
	for i, s := range all {
		assert.Equal(t, i, s.Position)
		assert.Equal(t, rows[i].Index, s.SourceIndex)
	}

	// record 4 has a zero predicted frequency, so its ratios are NULL
	assert.False(t, all[4].CombinationName.Valid)
	assert.False(t, all[4].Chi2Obs.Valid)

	minCases, err := repo.ListSignals(ctx, rec.ID, ports.SignalFilter{MinCasesOnly: true})
	require.NoError(t, err)
	assert.Len(t, minCases, 3)

	bench, err := repo.ListSignals(ctx, rec.ID, ports.SignalFilter{BenchmarkOnly: true})
	require.NoError(t, err)
	assert.Len(t, bench, 3)

	page, err := repo.ListSignals(ctx, rec.ID, ports.SignalFilter{Offset: 3})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 3, page[0].Position)
}

func TestRunRepository_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	rec := newRun(t, time.Now().UTC())
	rows := finalRows(t)
	require.NoError(t, repo.SaveRun(ctx, rec, models.NewSignalRecords(rec.ID, rows)))
	require.NoError(t, repo.SaveRun(ctx, rec, models.NewSignalRecords(rec.ID, rows[:2])))

	all, err := repo.ListSignals(ctx, rec.ID, ports.SignalFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRunRepository_Latest(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	_, err := repo.LatestRun(ctx)
	assert.ErrorIs(t, err, core.ErrRunNotFound)

	older := newRun(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := newRun(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.SaveRun(ctx, older, nil))
	require.NoError(t, repo.SaveRun(ctx, newer, nil))

	latest, err := repo.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	runs, err := repo.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, older.ID, runs[1].ID)

	_, err = repo.GetRun(ctx, core.NewRunID().String())
	assert.ErrorIs(t, err, core.ErrRunNotFound)
	assert.True(t, core.IsNotFoundError(err))
}
