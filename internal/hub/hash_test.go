package hub

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/skillhub/internal/util"
)

func TestComputeHash(t *testing.T) {
	dir := util.WriteSkill(t, t.TempDir(), "s", map[string]string{
		"b.md":     "bbb",
		"a.md":     "aaa",
		"sub/c.md": "ccc",
	})

	got, err := ComputeHash(dir)
	require.NoError(t, err)

	// Files are fed in sorted relative-path order: a.md, b.md, sub/c.md.
	sum := sha256.Sum256([]byte("aaabbbccc"))
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}

func TestComputeHashIgnoresNoise(t *testing.T) {
	parent := t.TempDir()
	clean := util.WriteSkill(t, parent, "clean", map[string]string{"SKILL.md": "x"})
	noisy := util.WriteSkill(t, parent, "noisy", map[string]string{
		"SKILL.md":          "x",
		".DS_Store":         "finder",
		"docs/Thumbs.db":    "thumbs",
		".git/HEAD":         "ref: refs/heads/main",
		".git/objects/ab/c": "blob",
	})

	want, err := ComputeHash(clean)
	require.NoError(t, err)
	got, err := ComputeHash(noisy)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestComputeHashChangesWithContent(t *testing.T) {
	dir := util.WriteSkill(t, t.TempDir(), "s", map[string]string{"SKILL.md": "one"})
	h1, err := ComputeHash(dir)
	require.NoError(t, err)

	util.WriteFile(t, filepath.Join(dir, "SKILL.md"), "two")
	h2, err := ComputeHash(dir)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestComputeHashMissingDir(t *testing.T) {
	_, err := ComputeHash(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestComputeHashFollowsLinkedRoot(t *testing.T) {
	dir := util.WriteSkill(t, t.TempDir(), "real", map[string]string{
		"SKILL.md": "# real",
		"lib/a.py": "a",
	})
	link := filepath.Join(t.TempDir(), "linked")
	util.Symlink(t, dir, link)

	want, err := ComputeHash(dir)
	require.NoError(t, err)
	got, err := ComputeHash(link)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	util.WriteFile(t, filepath.Join(dir, "lib/a.py"), "changed")
	changed, err := ComputeHash(link)
	require.NoError(t, err)
	assert.NotEqual(t, want, changed, "edits behind the link change the hash")
}
