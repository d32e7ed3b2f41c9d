package models

import (
	"encoding/json"
	"fmt"
	"time"

	"pvsynergy/domain/run"

	"github.com/uptrace/bun"
)

// RunRecord is the stored header of one pipeline run. Manifest holds the full
// run manifest as JSON so a stored run can be inspected without its output dir.
type RunRecord struct {
	bun.BaseModel `bun:"table:synergy_runs,alias:r"`

	ID              string    `json:"id" db:"id" bun:"id,pk"`
	CreatedAt       time.Time `json:"created_at" db:"created_at" bun:"created_at,notnull"`
	Fingerprint     string    `json:"fingerprint" db:"fingerprint" bun:"fingerprint,notnull"`
	InputSetHash    string    `json:"input_set_hash" db:"input_set_hash" bun:"input_set_hash,notnull"`
	ParamsHash      string    `json:"params_hash" db:"params_hash" bun:"params_hash,notnull"`
	CodeVersion     string    `json:"code_version" db:"code_version" bun:"code_version,notnull"`
	MinCases        int       `json:"min_cases" db:"min_cases" bun:"min_cases,notnull"`
	YatesCorrection bool      `json:"yates_correction" db:"yates_correction" bun:"yates_correction,notnull"`
	Alpha           float64   `json:"alpha" db:"alpha" bun:"alpha,notnull"`
	BenchmarkBase   string    `json:"benchmark_base" db:"benchmark_base" bun:"benchmark_base,notnull"`
	JoinedRecords   int       `json:"joined_records" db:"joined_records" bun:"joined_records,notnull"`
	DroppedByJoin   int       `json:"dropped_by_join" db:"dropped_by_join" bun:"dropped_by_join,notnull"`
	OutputDir       string    `json:"output_dir" db:"output_dir" bun:"output_dir,notnull"`
	Manifest        string    `json:"-" db:"manifest" bun:"manifest,notnull"`

	Signals []*SignalRecord `json:"signals,omitempty" db:"-" bun:"rel:has-many,join:id=run_id"`
}

// NewRunRecord flattens a manifest into its stored header.
func NewRunRecord(m *run.Manifest, outputDir string) (*RunRecord, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return &RunRecord{
		ID:              m.RunID.String(),
		CreatedAt:       m.CreatedAt.Time(),
		Fingerprint:     m.Fingerprint.Fingerprint.String(),
		InputSetHash:    m.Fingerprint.InputSetHash.String(),
		ParamsHash:      m.Fingerprint.ParamsHash.String(),
		CodeVersion:     m.Fingerprint.CodeVersion,
		MinCases:        m.Params.MinCases,
		YatesCorrection: m.Params.YatesCorrection,
		Alpha:           m.Params.Alpha,
		BenchmarkBase:   string(m.Params.BenchmarkBase),
		JoinedRecords:   m.Counts.JoinedRecords,
		DroppedByJoin:   m.Counts.DroppedByJoin,
		OutputDir:       outputDir,
		Manifest:        string(raw),
	}, nil
}

// DecodeManifest restores the manifest stored with the run.
func (r *RunRecord) DecodeManifest() (*run.Manifest, error) {
	var m run.Manifest
	if err := json.Unmarshal([]byte(r.Manifest), &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest of run %s: %w", r.ID, err)
	}
	return &m, nil
}
