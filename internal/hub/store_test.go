package hub

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/skillhub/internal/model"
	"github.com/klauern/skillhub/internal/util"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "hub"))
	require.NoError(t, err)
	return s
}

func TestNewCreatesLayout(t *testing.T) {
	s := newTestStore(t)

	for _, dir := range []string{"skills", "metadata"} {
		info, err := os.Stat(filepath.Join(s.Root(), dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.Empty(t, s.ListInstalled())
	assert.Equal(t, filepath.Join(s.Root(), "skills", "pdf-tools"), s.SkillPath("pdf-tools"))
}

func TestImportWritesRecord(t *testing.T) {
	s := newTestStore(t)
	src := util.WriteSkill(t, t.TempDir(), "pdf-tools", map[string]string{
		"SKILL.md":         "# pdf",
		"scripts/split.sh": "split",
	})

	rec, err := s.Import("pdf-tools", src, "1.0.0", model.SkillSource{Kind: model.SourceLocal, Location: src})
	require.NoError(t, err)

	assert.True(t, s.IsInstalled("pdf-tools"))
	assert.Equal(t, "1.0.0", rec.Version.Version)
	assert.NotEmpty(t, rec.Version.ContentHash)
	assert.Equal(t, []string{}, rec.ProjectedTools)
	assert.True(t, rec.ScanPassed)
	assert.Equal(t, util.ReadTree(t, src), util.ReadTree(t, s.SkillPath("pdf-tools")))

	data, err := os.ReadFile(filepath.Join(s.Root(), "metadata", "pdf-tools.json"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  \"skill_id\": \"pdf-tools\""), "record is pretty-printed")

	var onDisk model.InstallRecord
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "pdf-tools", onDisk.SkillID)
}

func TestImportReplacesExisting(t *testing.T) {
	s := newTestStore(t)
	v1 := util.WriteSkill(t, t.TempDir(), "a", map[string]string{"old.md": "old"})
	v2 := util.WriteSkill(t, t.TempDir(), "a", map[string]string{"new.md": "new"})

	_, err := s.Import("a", v1, "1", model.SkillSource{})
	require.NoError(t, err)
	_, err = s.Import("a", v2, "2", model.SkillSource{})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"new.md": "new"}, util.ReadTree(t, s.SkillPath("a")))
	rec, ok := s.Record("a")
	require.True(t, ok)
	assert.Equal(t, "2", rec.Version.Version)
}

func TestImportRejectsBadIDs(t *testing.T) {
	s := newTestStore(t)
	src := util.WriteSkill(t, t.TempDir(), "x", nil)
	for _, id := range []string{"", ".", "..", "a/b"} {
		_, err := s.Import(id, src, "1", model.SkillSource{})
		assert.Error(t, err, "id %q", id)
	}
}

func TestReopenLoadsRecords(t *testing.T) {
	s := newTestStore(t)
	src := util.WriteSkill(t, t.TempDir(), "helper", nil)
	_, err := s.Import("helper", src, "0.1.0", model.SkillSource{Kind: model.SourceGit, Location: "https://example.com/r.git"})
	require.NoError(t, err)
	require.NoError(t, s.RecordProjection("helper", model.Cursor))

	util.WriteFile(t, filepath.Join(s.Root(), "metadata", "broken.json"), "{not json")
	util.WriteFile(t, filepath.Join(s.Root(), "metadata", "notes.txt"), "ignored")

	reopened, err := New(s.Root())
	require.NoError(t, err)

	ids := make([]string, 0)
	for _, r := range reopened.ListInstalled() {
		ids = append(ids, r.SkillID)
	}
	assert.Equal(t, []string{"helper"}, ids)

	rec, _ := reopened.Record("helper")
	assert.Equal(t, []string{"cursor"}, rec.ProjectedTools)
	assert.Equal(t, "git:https://example.com/r.git", rec.Source.Display())
}

func TestRecordProjection(t *testing.T) {
	s := newTestStore(t)
	src := util.WriteSkill(t, t.TempDir(), "a", nil)
	_, err := s.Import("a", src, "1", model.SkillSource{})
	require.NoError(t, err)

	require.NoError(t, s.RecordProjection("a", model.Tool("Zed")))
	require.NoError(t, s.RecordProjection("a", model.Claude))
	require.NoError(t, s.RecordProjection("a", model.Claude))
	require.NoError(t, s.RecordProjection("unknown", model.Claude))

	rec, _ := s.Record("a")
	assert.Equal(t, []string{"claude", "zed"}, rec.ProjectedTools)
}

func TestSkillIDsIncludesUnrecordedDirs(t *testing.T) {
	s := newTestStore(t)
	util.WriteSkill(t, s.SkillsDir(), "collected", nil)
	util.WriteSkill(t, s.SkillsDir(), ".staging", nil)
	util.WriteFile(t, filepath.Join(s.SkillsDir(), "README"), "x")
	linked := util.WriteSkill(t, t.TempDir(), "linked", nil)
	util.Symlink(t, linked, filepath.Join(s.SkillsDir(), "linked"))
	util.Symlink(t, filepath.Join(linked, "SKILL.md"), filepath.Join(s.SkillsDir(), "file-link"))

	ids, err := s.SkillIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"collected", "linked"}, ids)
	assert.True(t, s.HasSkill("collected"))
	assert.False(t, s.IsInstalled("collected"))

	rec, err := s.RegisterLocal("collected", "/tools/cursor/collected")
	require.NoError(t, err)
	assert.Equal(t, model.SourceLocal, rec.Source.Kind)
	assert.True(t, s.IsInstalled("collected"))

	_, err = s.RegisterLocal("absent", "/x")
	assert.Error(t, err)
}

func TestCurrentVersionTracksEdits(t *testing.T) {
	s := newTestStore(t)
	src := util.WriteSkill(t, t.TempDir(), "pdf-tools", map[string]string{"SKILL.md": "v1"})
	rec, err := s.Import("pdf-tools", src, "1.0.0", model.SkillSource{})
	require.NoError(t, err)

	v, err := s.CurrentVersion("pdf-tools")
	require.NoError(t, err)
	assert.True(t, v.Equal(rec.Version))

	util.WriteFile(t, filepath.Join(s.SkillPath("pdf-tools"), "SKILL.md"), "v2")
	v2, err := s.CurrentVersion("pdf-tools")
	require.NoError(t, err)
	assert.False(t, v2.Equal(rec.Version))
	assert.Equal(t, "1.0.0", v2.Version)

	_, err = s.CurrentVersion("missing")
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	src := util.WriteSkill(t, t.TempDir(), "a", nil)
	_, err := s.Import("a", src, "1", model.SkillSource{})
	require.NoError(t, err)

	require.NoError(t, s.Remove("a"))
	assert.False(t, s.IsInstalled("a"))
	assert.False(t, s.HasSkill("a"))
	_, err = os.Stat(filepath.Join(s.Root(), "metadata", "a.json"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove("a"), "removing twice is fine")
}
