package adapter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/skillhub/internal/config"
	"github.com/klauern/skillhub/internal/model"
	"github.com/klauern/skillhub/internal/util"
)

func TestDirAdapterSkillsDirCreates(t *testing.T) {
	home := t.TempDir()
	a := New(Profile{Tool: model.Cursor, PrimaryDir: filepath.Join(home, ".cursor", "skills")})

	assert.False(t, a.Detect(), "nothing exists yet")
	assert.Empty(t, a.SkillsDirs())

	dir, err := a.SkillsDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cursor", "skills"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.True(t, a.Detect(), "parent of the primary dir now exists")
	assert.Equal(t, []string{dir}, a.SkillsDirs())
}

func TestDirAdapterWithoutPrimary(t *testing.T) {
	a := New(Profile{Tool: model.Trae})

	_, err := a.SkillsDir()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSkillsDir))
	assert.Empty(t, a.SkillsDirs())
	assert.False(t, a.Detect())
}

func TestDirAdapterDetectPaths(t *testing.T) {
	home := t.TempDir()
	a := New(Profile{
		Tool:        model.Claude,
		PrimaryDir:  filepath.Join(home, ".claude", "skills"),
		DetectPaths: []string{filepath.Join(home, ".claude")},
	})
	assert.False(t, a.Detect())

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o750))
	assert.True(t, a.Detect())
}

func TestDirAdapterBinaryAndInstallDir(t *testing.T) {
	prefix := t.TempDir()
	bin := filepath.Join(prefix, "bin", "openclaw")
	util.WriteFile(t, bin, "#!/bin/sh\n")
	bundled := filepath.Join(prefix, "lib", "node_modules", "openclaw", "skills")
	require.NoError(t, os.MkdirAll(bundled, 0o750))

	workspace := filepath.Join(t.TempDir(), "workspace", "skills")
	require.NoError(t, os.MkdirAll(workspace, 0o750))

	a := New(Profile{
		Tool:             model.OpenClaw,
		PrimaryDir:       workspace,
		DetectPaths:      []string{filepath.Join(prefix, "nowhere")},
		DetectBinary:     "openclaw",
		InstallSkillsDir: "lib/node_modules/openclaw/skills",
	})
	a.lookPath = func(name string) (string, error) {
		if name == "openclaw" {
			return bin, nil
		}
		return "", errors.New("not found")
	}

	assert.True(t, a.Detect())
	assert.Equal(t, []string{workspace, bundled}, a.SkillsDirs())

	a.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	assert.False(t, a.Detect())
	assert.Equal(t, []string{workspace}, a.SkillsDirs())
}

func TestDirAdapterDedupesCandidates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "skills")
	require.NoError(t, os.MkdirAll(dir, 0o750))

	a := New(Profile{Tool: "custom", PrimaryDir: dir, ExtraDirs: []string{dir + "/", filepath.Join(dir, "missing")}})
	assert.Equal(t, []string{dir}, a.SkillsDirs())
}

func TestRegistrySortedAndReplace(t *testing.T) {
	r := NewRegistry(
		New(Profile{Tool: model.Gemini}),
		New(Profile{Tool: model.Claude}),
		New(Profile{Tool: model.Cursor}),
	)
	assert.Equal(t, []model.Tool{model.Claude, model.Cursor, model.Gemini}, r.Tools())
	assert.Equal(t, 3, r.Len())

	replacement := New(Profile{Tool: model.Cursor, PrimaryDir: "/x"})
	r.Register(replacement)
	got, ok := r.Get(model.Cursor)
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Equal(t, 3, r.Len())

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, model.Claude, all[0].Tool())

	_, ok = r.Get(model.Codex)
	assert.False(t, ok)
}

func TestBuiltinProfiles(t *testing.T) {
	home := "/home/user"
	profiles := BuiltinProfiles(home, "/work")
	require.Len(t, profiles, len(model.BuiltinTools()))

	byTool := make(map[model.Tool]Profile)
	for _, p := range profiles {
		byTool[p.Tool] = p
	}

	assert.Equal(t, "/home/user/.claude/skills", byTool[model.Claude].PrimaryDir)
	assert.Equal(t, []string{"/home/user/.claude"}, byTool[model.Claude].DetectPaths)
	assert.Equal(t, "/home/user/.config/agents/skills", byTool[model.Amp].PrimaryDir)
	assert.Equal(t, "/home/user/.codeium/windsurf/skills", byTool[model.Windsurf].PrimaryDir)
	assert.Equal(t, "openclaw", byTool[model.OpenClaw].DetectBinary)
	assert.Empty(t, byTool[model.Trae].PrimaryDir)
	assert.Equal(t, []string{"/work/.trae"}, byTool[model.Trae].DetectPaths)
}

func TestFromConfig(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	disabled := false

	cfg := config.Default()
	cfg.Tools["codex"] = config.ToolConfig{Enabled: &disabled}
	cfg.Tools["cursor"] = config.ToolConfig{SkillsPaths: []string{"cursor-skills", "~/extra"}}
	cfg.Tools["trae"] = config.ToolConfig{SkillsPaths: []string{".trae/skills"}}
	cfg.Tools["zed"] = config.ToolConfig{SkillsPaths: []string{"/opt/zed/skills"}}
	cfg.Tools["ghost"] = config.ToolConfig{Strategy: "copy"}

	reg := FromConfig(cfg, home, work)

	_, ok := reg.Get(model.Codex)
	assert.False(t, ok, "disabled tool is not registered")
	_, ok = reg.Get("ghost")
	assert.False(t, ok, "custom tool without paths is not registered")

	zed, ok := reg.Get("zed")
	require.True(t, ok)
	assert.Equal(t, "/opt/zed/skills", zed.(*DirAdapter).Profile().PrimaryDir)

	cursor, _ := reg.Get(model.Cursor)
	p := cursor.(*DirAdapter).Profile()
	assert.Equal(t, filepath.Join(work, "cursor-skills"), p.PrimaryDir)
	assert.Equal(t, []string{filepath.Join(util.HomeDir(), "extra")}, p.ExtraDirs)

	trae, _ := reg.Get(model.Trae)
	dir, err := trae.SkillsDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, ".trae", "skills"), dir)
	assert.True(t, trae.Detect())

	assert.Equal(t, len(model.BuiltinTools()), reg.Len(), "17 builtin + zed")
}
