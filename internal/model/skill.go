package model

import (
	"fmt"
	"time"
)

// SkillVersion describes one version of a skill's content.
type SkillVersion struct {
	// Version is the user-facing label (semver, tag, or branch).
	Version string `json:"version" toml:"version"`
	// Commit is the source-control revision, if any.
	Commit string `json:"commit,omitempty" toml:"commit,omitempty"`
	// ContentHash is computed over the skill directory's file bytes.
	ContentHash string `json:"content_hash" toml:"content_hash"`
	// Timestamp records when this version was produced.
	Timestamp *time.Time `json:"timestamp,omitempty" toml:"timestamp,omitempty"`
}

// NewSkillVersion creates a version from a label and content hash.
func NewSkillVersion(version, contentHash string) SkillVersion {
	return SkillVersion{Version: version, ContentHash: contentHash}
}

// Equal reports whether two versions describe the same content.
// The content hash is authoritative; the label only breaks ties when
// neither side carries a hash.
func (v SkillVersion) Equal(other SkillVersion) bool {
	if v.ContentHash != "" || other.ContentHash != "" {
		return v.ContentHash == other.ContentHash
	}
	return v.Version == other.Version && v.Commit == other.Commit
}

// ShortHash returns the first 12 characters of the content hash.
func (v SkillVersion) ShortHash() string {
	if len(v.ContentHash) > 12 {
		return v.ContentHash[:12]
	}
	return v.ContentHash
}

// SourceKind identifies where a skill came from.
type SourceKind string

const (
	SourceGit      SourceKind = "git"
	SourceRegistry SourceKind = "registry"
	SourceHTTP     SourceKind = "http"
	SourceLocal    SourceKind = "local"
)

// SkillSource describes the origin of an installed skill.
type SkillSource struct {
	Kind     SourceKind `json:"kind"`
	Location string     `json:"location"`
	Branch   string     `json:"branch,omitempty"`
	Path     string     `json:"path,omitempty"`
}

// Display returns a compact "<kind>:<location>" form.
func (s SkillSource) Display() string {
	if s.Kind == "" {
		return s.Location
	}
	return fmt.Sprintf("%s:%s", s.Kind, s.Location)
}

// InstallRecord is the durable hub-side record of an installed skill.
// It is stored as metadata/<id>.json under the hub root.
type InstallRecord struct {
	SkillID        string       `json:"skill_id"`
	Version        SkillVersion `json:"version"`
	InstalledAt    time.Time    `json:"installed_at"`
	Source         SkillSource  `json:"source"`
	ProjectedTools []string     `json:"projected_tools"`
	ScanPassed     bool         `json:"scan_passed"`
}
