package run

import (
	"fmt"
	"os"

	"pvsynergy/domain/core"
	"pvsynergy/domain/stage"
	"pvsynergy/domain/synergy"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the name of the manifest written next to the stage outputs.
const ManifestFile = "manifest.yaml"

// InputFile records one input table of a run.
type InputFile struct {
	Path string    `json:"path" yaml:"path"`
	Hash core.Hash `json:"hash" yaml:"hash"`
	Rows int       `json:"rows" yaml:"rows"`
}

// Counts records the sizes of the intermediate tables.
type Counts struct {
	SingleCells      int `json:"single_cells" yaml:"single_cells"`
	CombinationCells int `json:"combination_cells" yaml:"combination_cells"`
	JoinedRecords    int `json:"joined_records" yaml:"joined_records"`
	DroppedByJoin    int `json:"dropped_by_join" yaml:"dropped_by_join"`
}

// Manifest is the replay record of a finished run.
type Manifest struct {
	RunID       core.RunID           `json:"run_id" yaml:"run_id"`
	CreatedAt   core.Timestamp       `json:"created_at" yaml:"created_at"`
	Inputs      map[string]InputFile `json:"inputs" yaml:"inputs"`
	Params      synergy.Params       `json:"params" yaml:"params"`
	Plan        *stage.StagePlan     `json:"plan" yaml:"plan"`
	Fingerprint RunFingerprint       `json:"fingerprint" yaml:"fingerprint"`
	Counts      Counts               `json:"counts" yaml:"counts"`
	Stages      []stage.Result       `json:"stages" yaml:"stages"`
	Extras      []string             `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// NewManifest creates a manifest and computes its fingerprint.
func NewManifest(runID core.RunID, inputs map[string]InputFile, params synergy.Params,
	plan *stage.StagePlan, codeVersion string) *Manifest {

	hashes := make(map[string]core.Hash, len(inputs))
	for name, in := range inputs {
		hashes[name] = in.Hash
	}
	fp := NewRunFingerprint(core.ComputeInputSetHash(hashes), core.ComputeParamsHash(params.AsMap()),
		plan.Hash(), codeVersion)

	return &Manifest{
		RunID:       runID,
		CreatedAt:   core.Now(),
		Inputs:      inputs,
		Params:      params,
		Plan:        plan,
		Fingerprint: fp,
	}
}

// Stage returns the recorded result for name.
func (m *Manifest) Stage(name stage.StageName) (stage.Result, bool) {
	for _, r := range m.Stages {
		if r.Spec.Name == name {
			return r, true
		}
	}
	return stage.Result{}, false
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if m.RunID.IsEmpty() {
		return fmt.Errorf("run_manifest: run_id cannot be empty")
	}
	if m.Plan == nil {
		return fmt.Errorf("run_manifest: plan cannot be empty")
	}
	if m.Fingerprint.Fingerprint.IsEmpty() {
		return fmt.Errorf("run_manifest: fingerprint cannot be empty")
	}
	if m.Fingerprint.CodeVersion == "" {
		return fmt.Errorf("run_manifest: code_version cannot be empty")
	}
	return nil
}

// Save writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, path)
		}
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest %s: %w", path, err)
	}
	return &m, nil
}
