package run

import (
	"crypto/sha256"
	"fmt"

	"pvsynergy/domain/core"
)

// RunFingerprint identifies a run by everything that determines its outputs.
// Two runs with the same fingerprint produce byte-identical stage files.
type RunFingerprint struct {
	InputSetHash  core.InputSetHash  `json:"input_set_hash" yaml:"input_set_hash"`
	ParamsHash    core.ParamsHash    `json:"params_hash" yaml:"params_hash"`
	StagePlanHash core.StageListHash `json:"stage_plan_hash" yaml:"stage_plan_hash"`
	CodeVersion   string             `json:"code_version" yaml:"code_version"`
	Fingerprint   core.Hash          `json:"fingerprint" yaml:"fingerprint"`
}

// NewRunFingerprint creates a fingerprint from determinism parameters
func NewRunFingerprint(inputs core.InputSetHash, params core.ParamsHash,
	stagePlanHash core.StageListHash, codeVersion string) RunFingerprint {

	data := fmt.Sprintf("inputs:%s|params:%s|stage_plan:%s|code:%s",
		inputs, params, stagePlanHash, codeVersion)
	hash := sha256.Sum256([]byte(data))

	return RunFingerprint{
		InputSetHash:  inputs,
		ParamsHash:    params,
		StagePlanHash: stagePlanHash,
		CodeVersion:   codeVersion,
		Fingerprint:   core.Hash(fmt.Sprintf("%x", hash)),
	}
}
