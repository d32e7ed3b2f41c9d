package run

import (
	"errors"
	"path/filepath"
	"testing"

	"pvsynergy/domain/core"
	"pvsynergy/domain/stage"
	"pvsynergy/domain/synergy"
)

func testInputs() map[string]InputFile {
	return map[string]InputFile{
		"md":    {Path: "md.csv", Hash: core.NewHash([]byte("md")), Rows: 10},
		"sd":    {Path: "sd.csv", Hash: core.NewHash([]byte("sd")), Rows: 20},
		"drugs": {Path: "drugs.csv", Hash: core.NewHash([]byte("drugs")), Rows: 3},
	}
}

func TestRunFingerprint_Deterministic(t *testing.T) {
	plan := stage.DefaultPlan()
	m1 := NewManifest(core.NewRunID(), testInputs(), synergy.DefaultParams(), plan, "1.0.0")
	m2 := NewManifest(core.NewRunID(), testInputs(), synergy.DefaultParams(), plan, "1.0.0")

	// Run ids differ, fingerprints must not
	if m1.Fingerprint.Fingerprint != m2.Fingerprint.Fingerprint {
		t.Errorf("Fingerprints not identical: %s vs %s", m1.Fingerprint.Fingerprint, m2.Fingerprint.Fingerprint)
	}
}

func TestRunFingerprint_Unique(t *testing.T) {
	plan := stage.DefaultPlan()
	base := NewManifest(core.NewRunID(), testInputs(), synergy.DefaultParams(), plan, "1.0.0").Fingerprint

	yates := synergy.DefaultParams()
	yates.YatesCorrection = true

	changedInputs := testInputs()
	changedInputs["md"] = InputFile{Path: "md.csv", Hash: core.NewHash([]byte("md2"))}

	testCases := []struct {
		name string
		fp   RunFingerprint
	}{
		{"different params", NewManifest(core.NewRunID(), testInputs(), yates, plan, "1.0.0").Fingerprint},
		{"different inputs", NewManifest(core.NewRunID(), changedInputs, synergy.DefaultParams(), plan, "1.0.0").Fingerprint},
		{"different code", NewManifest(core.NewRunID(), testInputs(), synergy.DefaultParams(), plan, "1.0.1").Fingerprint},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.fp.Fingerprint == base.Fingerprint {
				t.Errorf("fingerprint did not change")
			}
		})
	}
}

func TestManifest_SaveLoadRoundTrip(t *testing.T) {
	m := NewManifest(core.NewRunID(), testInputs(), synergy.DefaultParams(), stage.DefaultPlan(), "1.0.0")
	m.Stages = append(m.Stages, stage.Result{
		Spec:    stage.DefaultPlan().Stages[0],
		Summary: stage.Summary{Stage: stage.StageInitial, TotalRecords: 12, BlissAboveOne: 4},
	})
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	path := filepath.Join(t.TempDir(), ManifestFile)
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if loaded.RunID != m.RunID {
		t.Errorf("run id mismatch: %s vs %s", loaded.RunID, m.RunID)
	}
	if loaded.Fingerprint.Fingerprint != m.Fingerprint.Fingerprint {
		t.Errorf("fingerprint mismatch")
	}
	res, ok := loaded.Stage(stage.StageInitial)
	if !ok || res.Summary.TotalRecords != 12 {
		t.Errorf("stage summary not restored: %+v", res)
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}
