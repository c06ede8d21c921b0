// Package state persists workflow progress across process lifetimes. The
// state file is the single durable record of a run: an ordered set of
// completed-stage markers, the artifacts each stage committed, and per-item
// outcomes for the collection stages.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rakshit/resume-workflow/internal/pipeline/stages"
	"github.com/rakshit/resume-workflow/internal/types"
)

// Artifacts is the free-form mapping a stage commits into state.
type Artifacts = map[string]any

// ItemRecord is the outcome of one work item within a collection stage.
type ItemRecord struct {
	Status      types.ItemStatus `json:"status"`
	Error       string           `json:"error,omitempty"`
	CompletedAt time.Time        `json:"completed_at"`
}

// State is the durable, resumable record of one workflow run.
type State struct {
	RunID           string                                 `json:"run_id"`
	ConfigName      string                                 `json:"config"`
	CreatedAt       time.Time                              `json:"created_at"`
	UpdatedAt       time.Time                              `json:"updated_at"`
	CompletedStages []stages.Stage                         `json:"completed_stages"`
	Artifacts       map[stages.Stage]Artifacts             `json:"artifacts"`
	Items           map[stages.Stage]map[string]ItemRecord `json:"items,omitempty"`
}

// New creates an empty state for a named configuration.
func New(configName string) *State {
	now := time.Now().UTC()
	return &State{
		RunID:           uuid.NewString(),
		ConfigName:      configName,
		CreatedAt:       now,
		UpdatedAt:       now,
		CompletedStages: []stages.Stage{},
		Artifacts:       map[stages.Stage]Artifacts{},
		Items:           map[stages.Stage]map[string]ItemRecord{},
	}
}

// StageCompleted reports whether the stage has a completion marker.
func (s *State) StageCompleted(stage stages.Stage) bool {
	for _, done := range s.CompletedStages {
		if done == stage {
			return true
		}
	}
	return false
}

// MarkStageComplete appends the stage's completion marker if absent and
// merges its artifacts. Markers only ever append; re-marking a completed
// stage leaves the marker list unchanged.
func (s *State) MarkStageComplete(stage stages.Stage, artifacts Artifacts) {
	if !s.StageCompleted(stage) {
		s.CompletedStages = append(s.CompletedStages, stage)
	}
	s.MergeArtifacts(stage, artifacts)
	s.UpdatedAt = time.Now().UTC()
}

// MergeArtifacts merges key/value pairs into the stage's artifact mapping,
// overwriting values for keys that already exist. The completion markers are
// not touched.
func (s *State) MergeArtifacts(stage stages.Stage, artifacts Artifacts) {
	if len(artifacts) == 0 {
		return
	}
	if s.Artifacts == nil {
		s.Artifacts = map[stages.Stage]Artifacts{}
	}
	existing, ok := s.Artifacts[stage]
	if !ok {
		existing = Artifacts{}
		s.Artifacts[stage] = existing
	}
	for k, v := range artifacts {
		existing[k] = v
	}
	s.UpdatedAt = time.Now().UTC()
}

// StageArtifacts returns the artifact mapping a stage committed, or nil when
// the stage has recorded nothing.
func (s *State) StageArtifacts(stage stages.Stage) Artifacts {
	return s.Artifacts[stage]
}

// RecordItem stores the outcome of one work item within a stage, replacing
// any earlier record for the same key.
func (s *State) RecordItem(stage stages.Stage, key string, status types.ItemStatus, errMsg string) {
	if s.Items == nil {
		s.Items = map[stages.Stage]map[string]ItemRecord{}
	}
	if s.Items[stage] == nil {
		s.Items[stage] = map[string]ItemRecord{}
	}
	s.Items[stage][key] = ItemRecord{
		Status:      status,
		Error:       errMsg,
		CompletedAt: time.Now().UTC(),
	}
	s.UpdatedAt = time.Now().UTC()
}

// ItemCompleted reports whether the item already has a successful record, in
// which case a resumed run must not replay it.
func (s *State) ItemCompleted(stage stages.Stage, key string) bool {
	record, ok := s.Items[stage][key]
	return ok && record.Status == types.ItemStatusCompleted
}

// ItemCounts returns how many items a stage recorded and how many of those
// failed.
func (s *State) ItemCounts(stage stages.Stage) (total, failed int) {
	for _, record := range s.Items[stage] {
		total++
		if record.Status == types.ItemStatusFailed {
			failed++
		}
	}
	return total, failed
}

// FailedItems returns the keys of items recorded as failed for a stage.
func (s *State) FailedItems(stage stages.Stage) []string {
	var keys []string
	for key, record := range s.Items[stage] {
		if record.Status == types.ItemStatusFailed {
			keys = append(keys, key)
		}
	}
	return keys
}

// Load reads a state file. A missing file returns (nil, nil): the caller
// decides whether to start fresh or fail. An unreadable, unparseable, or
// internally inconsistent file returns a *CorruptionError naming the path;
// a corrupt state file is never repaired or partially trusted.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &CorruptionError{Path: path, Message: "failed to read state file", Cause: err}
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, &CorruptionError{Path: path, Message: "failed to parse state file", Cause: err}
	}
	if err := st.validate(); err != nil {
		return nil, &CorruptionError{Path: path, Message: err.Error()}
	}
	return &st, nil
}

// Save atomically replaces the state file: the document is written to a
// temporary file in the same directory and renamed over the target, so an
// interrupted save never leaves a partially written state behind.
func Save(path string, s *State) error {
	s.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary state file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace state file %s: %w", path, err)
	}
	return nil
}

// validate rejects states that reference stages outside the fixed
// enumeration or repeat a completion marker.
func (s *State) validate() error {
	seen := make(map[stages.Stage]bool, len(s.CompletedStages))
	for _, stage := range s.CompletedStages {
		if !stages.Valid(stage) {
			return fmt.Errorf("unknown stage %q in completed stages", stage)
		}
		if seen[stage] {
			return fmt.Errorf("duplicate completion marker for stage %q", stage)
		}
		seen[stage] = true
	}
	for stage := range s.Artifacts {
		if !stages.Valid(stage) {
			return fmt.Errorf("unknown stage %q in artifacts", stage)
		}
	}
	for stage := range s.Items {
		if !stages.Valid(stage) {
			return fmt.Errorf("unknown stage %q in item records", stage)
		}
	}
	return nil
}
