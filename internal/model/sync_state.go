package model

import (
	"sort"
	"time"
)

// DriftKind classifies a divergence between tracked and actual state.
type DriftKind string

const (
	// DriftMissing means the target path no longer exists.
	DriftMissing DriftKind = "missing"
	// DriftVersionMismatch means the target holds a different version.
	DriftVersionMismatch DriftKind = "version_mismatch"
	// DriftContentModified means the target content was edited in place.
	DriftContentModified DriftKind = "content_modified"
	// DriftBrokenLink means the target symlink points at nothing.
	DriftBrokenLink DriftKind = "broken_link"
	// DriftWrongTarget means the target symlink points away from the hub.
	DriftWrongTarget DriftKind = "wrong_target"
)

// Label returns a lowercase human-readable label.
func (k DriftKind) Label() string {
	switch k {
	case DriftMissing:
		return "missing"
	case DriftVersionMismatch:
		return "version mismatch"
	case DriftContentModified:
		return "content modified"
	case DriftBrokenLink:
		return "broken link"
	case DriftWrongTarget:
		return "wrong target"
	default:
		return string(k)
	}
}

// Drift records a detected divergence.
type Drift struct {
	Kind        DriftKind `json:"kind" toml:"kind"`
	Description string    `json:"description" toml:"description"`
	DetectedAt  time.Time `json:"detected_at" toml:"detected_at"`
}

// SkillStatus is the tracked projection of one skill into one tool.
type SkillStatus struct {
	SkillID    string       `json:"skill_id" toml:"skill_id"`
	Version    SkillVersion `json:"version" toml:"version"`
	Strategy   Strategy     `json:"strategy" toml:"strategy"`
	TargetPath string       `json:"target_path" toml:"target_path"`
	Drift      *Drift       `json:"drift,omitempty" toml:"drift,omitempty"`
}

// ToolState holds every tracked skill for one tool.
type ToolState struct {
	Tool     Tool                    `json:"tool" toml:"tool"`
	Skills   map[string]*SkillStatus `json:"skills" toml:"skills"`
	LastSync *time.Time              `json:"last_sync,omitempty" toml:"last_sync,omitempty"`
}

// State is the full sync state keyed by tool identifier.
type State struct {
	Tools    map[string]*ToolState `json:"tools" toml:"tools"`
	LastSync *time.Time            `json:"last_sync,omitempty" toml:"last_sync,omitempty"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{Tools: make(map[string]*ToolState)}
}

// Status returns the tracked status for (tool, skill), or nil.
func (s *State) Status(tool Tool, skillID string) *SkillStatus {
	ts, ok := s.Tools[string(tool)]
	if !ok {
		return nil
	}
	return ts.Skills[skillID]
}

// Put records a status and bumps the sync timestamps.
func (s *State) Put(tool Tool, status *SkillStatus, now time.Time) {
	if s.Tools == nil {
		s.Tools = make(map[string]*ToolState)
	}
	ts, ok := s.Tools[string(tool)]
	if !ok {
		ts = &ToolState{Tool: tool, Skills: make(map[string]*SkillStatus)}
		s.Tools[string(tool)] = ts
	}
	if ts.Skills == nil {
		ts.Skills = make(map[string]*SkillStatus)
	}
	ts.Skills[status.SkillID] = status
	ts.LastSync = &now
	s.LastSync = &now
}

// Delete drops the tracked status for (tool, skill). It reports whether
// anything was removed.
func (s *State) Delete(tool Tool, skillID string) bool {
	ts, ok := s.Tools[string(tool)]
	if !ok {
		return false
	}
	if _, ok := ts.Skills[skillID]; !ok {
		return false
	}
	delete(ts.Skills, skillID)
	return true
}

// TrackedTools returns the tools with state, sorted by identifier.
func (s *State) TrackedTools() []Tool {
	tools := make([]Tool, 0, len(s.Tools))
	for key, ts := range s.Tools {
		if ts.Tool == "" {
			ts.Tool = Tool(key)
		}
		tools = append(tools, ts.Tool)
	}
	SortTools(tools)
	return tools
}

// SkillIDs returns the tracked skill ids for a tool, sorted.
func (s *State) SkillIDs(tool Tool) []string {
	ts, ok := s.Tools[string(tool)]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(ts.Skills))
	for id := range ts.Skills {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ScannedSkill is a skill directory found in a tool's candidate directory.
type ScannedSkill struct {
	ID     string `json:"id"`
	Path   string `json:"path"`
	Tool   Tool   `json:"tool"`
	InHub  bool   `json:"in_hub"`
	IsLink bool   `json:"is_link"`
}

// HubStatus reports which tools hold a hub skill and which are missing it.
type HubStatus struct {
	SkillID   string `json:"skill_id"`
	HubPath   string `json:"hub_path"`
	SyncedTo  []Tool `json:"synced_to"`
	MissingIn []Tool `json:"missing_in"`
}

// ToolProfile is the detection snapshot for one registered tool.
type ToolProfile struct {
	Tool      Tool     `json:"tool"`
	Detected  bool     `json:"detected"`
	SkillsDir string   `json:"skills_dir,omitempty"`
	Dirs      []string `json:"dirs,omitempty"`
}
