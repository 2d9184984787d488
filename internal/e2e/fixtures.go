package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/skillhub/internal/model"
)

// Fixture provides helpers for creating test fixtures in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}

	return fullPath
}

// WriteSkill writes a skill directory <id>/SKILL.md with frontmatter and
// returns the directory.
func (f *Fixture) WriteSkill(id, description, content string) string {
	f.t.Helper()

	skillContent := "---\n"
	skillContent += "name: " + id + "\n"
	if description != "" {
		skillContent += "description: " + description + "\n"
	}
	skillContent += "---\n\n"
	skillContent += content

	f.WriteFile(filepath.Join(id, "SKILL.md"), skillContent)
	return f.Path(id)
}

// Symlink creates a symlink at relPath pointing at target.
func (f *Fixture) Symlink(target, relPath string) string {
	f.t.Helper()
	fullPath := f.Path(relPath)
	if err := os.Symlink(target, fullPath); err != nil {
		f.t.Fatalf("failed to symlink %s -> %s: %v", fullPath, target, err)
	}
	return fullPath
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, relPath)
}

// Exists returns true if the entry exists, without following symlinks.
func (f *Fixture) Exists(relPath string) bool {
	f.t.Helper()
	_, err := os.Lstat(f.Path(relPath))
	return err == nil
}

// ReadFile reads and returns the content of a file.
func (f *Fixture) ReadFile(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	// #nosec G304 - fullPath is constructed from trusted test fixture base and test-provided path
	data, err := os.ReadFile(fullPath)
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}

	return string(data)
}

// ToolFixture returns a fixture rooted at a harness tool's skills
// directory.
func (h *Harness) ToolFixture(tool model.Tool) *Fixture {
	h.t.Helper()
	return NewFixture(h.t, h.ToolDir(tool))
}

// HubFixture returns a fixture rooted at the hub's skills directory.
func (h *Harness) HubFixture() *Fixture {
	h.t.Helper()
	return NewFixture(h.t, h.HubSkillsDir())
}

// TempFixture creates a fixture helper for a new temporary directory.
func (h *Harness) TempFixture() *Fixture {
	h.t.Helper()
	return NewFixture(h.t, h.t.TempDir())
}

// InstallSkill writes a skill into a temp directory and installs it.
func (h *Harness) InstallSkill(id, content string) {
	h.t.Helper()
	src := h.TempFixture().WriteSkill(id, "", content)
	AssertSuccess(h.t, h.Run("install", src))
}
