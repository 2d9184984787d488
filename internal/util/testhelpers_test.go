//nolint:revive // var-naming - package name is meaningful
package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateTempDir(t *testing.T) {
	dir := CreateTempDir(t)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("CreateTempDir() did not create directory: %s", dir)
	}
}

func TestWriteSkillAndReadTree(t *testing.T) {
	parent := CreateTempDir(t)

	dir := WriteSkill(t, parent, "pdf-tools", map[string]string{
		"SKILL.md":         "# pdf",
		"scripts/split.sh": "echo split",
	})
	AssertEqual(t, dir, filepath.Join(parent, "pdf-tools"))

	tree := ReadTree(t, dir)
	AssertEqual(t, len(tree), 2)
	AssertEqual(t, tree["SKILL.md"], "# pdf")
	AssertEqual(t, tree["scripts/split.sh"], "echo split")
}

func TestWriteSkillDefault(t *testing.T) {
	parent := CreateTempDir(t)
	dir := WriteSkill(t, parent, "helper", nil)

	tree := ReadTree(t, dir)
	AssertEqual(t, tree["SKILL.md"], "# helper\n")
}

func TestSymlinkAndListDir(t *testing.T) {
	parent := CreateTempDir(t)
	target := WriteSkill(t, parent, "b", nil)
	Symlink(t, target, filepath.Join(parent, "links", "a"))

	names := ListDir(t, filepath.Join(parent, "links"))
	if len(names) != 1 || names[0] != "a" {
		t.Fatalf("ListDir() = %v", names)
	}
	if ListDir(t, filepath.Join(parent, "missing")) != nil {
		t.Error("ListDir() on missing dir should be nil")
	}

	dest, err := os.Readlink(filepath.Join(parent, "links", "a"))
	AssertNoError(t, err)
	AssertEqual(t, dest, target)
}
