package adapter

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/klauern/skillhub/internal/model"
)

// Profile describes a tool in data: where its skills live and how to tell
// that it is installed.
type Profile struct {
	Tool model.Tool
	// PrimaryDir is where skills are written. Empty means the tool has no
	// global location.
	PrimaryDir string
	// ExtraDirs are further read-only candidate directories.
	ExtraDirs []string
	// DetectPaths mark the tool as installed when any of them exists.
	// When empty, the parent of PrimaryDir is used.
	DetectPaths []string
	// DetectBinary marks the tool as installed when found on PATH.
	DetectBinary string
	// InstallSkillsDir is a path relative to the binary's install prefix
	// (two levels above the executable) that holds bundled skills.
	InstallSkillsDir string
}

// DirAdapter is an Adapter driven by a Profile.
type DirAdapter struct {
	profile  Profile
	lookPath func(string) (string, error)
}

// New creates an adapter from a profile.
func New(p Profile) *DirAdapter {
	return &DirAdapter{profile: p, lookPath: exec.LookPath}
}

// Profile returns the adapter's profile.
func (a *DirAdapter) Profile() Profile { return a.profile }

// PrimaryDir returns the configured primary directory without creating it.
func (a *DirAdapter) PrimaryDir() string { return a.profile.PrimaryDir }

// Tool returns the tool identity.
func (a *DirAdapter) Tool() model.Tool { return a.profile.Tool }

// Detect reports whether any detection marker is present.
func (a *DirAdapter) Detect() bool {
	paths := a.profile.DetectPaths
	if len(paths) == 0 && a.profile.PrimaryDir != "" {
		paths = []string{filepath.Dir(a.profile.PrimaryDir)}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	if a.profile.DetectBinary != "" {
		if _, err := a.lookPath(a.profile.DetectBinary); err == nil {
			return true
		}
	}
	return false
}

// SkillsDir returns the primary directory, creating it if needed.
func (a *DirAdapter) SkillsDir() (string, error) {
	dir := a.profile.PrimaryDir
	if dir == "" {
		return "", fmt.Errorf("%s: %w", a.profile.Tool, ErrNoSkillsDir)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("%s: failed to create %q: %w", a.profile.Tool, dir, err)
	}
	return dir, nil
}

// SkillsDirs returns the existing candidate directories, primary first,
// without duplicates.
func (a *DirAdapter) SkillsDirs() []string {
	candidates := make([]string, 0, 2+len(a.profile.ExtraDirs))
	if a.profile.PrimaryDir != "" {
		candidates = append(candidates, a.profile.PrimaryDir)
	}
	candidates = append(candidates, a.profile.ExtraDirs...)
	if dir := a.installSkillsDir(); dir != "" {
		candidates = append(candidates, dir)
	}

	seen := make(map[string]bool, len(candidates))
	dirs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = filepath.Clean(c)
		if seen[c] {
			continue
		}
		seen[c] = true
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			dirs = append(dirs, c)
		}
	}
	return dirs
}

func (a *DirAdapter) installSkillsDir() string {
	if a.profile.DetectBinary == "" || a.profile.InstallSkillsDir == "" {
		return ""
	}
	bin, err := a.lookPath(a.profile.DetectBinary)
	if err != nil {
		return ""
	}
	prefix := filepath.Dir(filepath.Dir(bin))
	return filepath.Join(prefix, filepath.FromSlash(a.profile.InstallSkillsDir))
}
