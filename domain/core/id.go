package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RunID identifies one execution of the synergy pipeline. Ids are UUIDv7, so
// they sort by creation time.
type RunID string

// NewRunID returns a fresh time-ordered run id.
func NewRunID() RunID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return RunID(id.String())
}

func (id RunID) String() string { return string(id) }

func (id RunID) IsEmpty() bool { return id == "" }

// ParseRunID accepts any UUID, surrounding space trimmed.
func ParseRunID(s string) (RunID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("run ID %q is not a UUID: %w", s, err)
	}
	return RunID(s), nil
}
