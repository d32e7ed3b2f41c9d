package stage

import (
	"errors"
	"testing"

	"pvsynergy/domain/core"
)

func TestDefaultPlan_Valid(t *testing.T) {
	plan := DefaultPlan()
	if err := plan.Validate(); err != nil {
		t.Fatalf("default plan invalid: %v", err)
	}
	if len(plan.Stages) != 4 {
		t.Fatalf("expected 4 stages, got %d", len(plan.Stages))
	}
	if plan.Stages[0].OutputFile != "02_data_init_bliss_chi.csv" {
		t.Errorf("unexpected first output %s", plan.Stages[0].OutputFile)
	}
}

func TestStagePlan_HashDeterministicAndOrderSensitive(t *testing.T) {
	a := DefaultPlan()
	b := DefaultPlan()
	if a.Hash() != b.Hash() {
		t.Error("same plan produced different hashes")
	}

	b.Stages[0], b.Stages[1] = b.Stages[1], b.Stages[0]
	if a.Hash() == b.Hash() {
		t.Error("reordered plan produced the same hash")
	}
}

func TestStagePlan_ValidateDuplicates(t *testing.T) {
	plan := &StagePlan{Stages: []StageSpec{
		{Name: StageInitial, OutputFile: "a.csv"},
		{Name: StageInitial, OutputFile: "b.csv"},
	}}
	if err := plan.Validate(); err == nil {
		t.Error("expected duplicate name error")
	}

	plan = &StagePlan{Stages: []StageSpec{
		{Name: StageInitial, OutputFile: "a.csv"},
		{Name: StageFinal, OutputFile: "a.csv"},
	}}
	if err := plan.Validate(); err == nil {
		t.Error("expected duplicate output error")
	}
}

func TestParseStageName(t *testing.T) {
	cases := map[string]StageName{
		"initial":   StageInitial,
		"03":        StageMinCases,
		"benchmark": StageBenchmark,
		"05":        StageFinal,
	}
	for in, want := range cases {
		got, err := ParseStageName(in)
		if err != nil {
			t.Errorf("ParseStageName(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseStageName(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseStageName("99"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}
