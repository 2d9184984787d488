package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/skillhub/internal/adapter"
	"github.com/klauern/skillhub/internal/model"
	"github.com/klauern/skillhub/internal/util"
)

func TestLoadStateMissingFile(t *testing.T) {
	state, err := loadState(filepath.Join(t.TempDir(), "sync-state.toml"))
	require.NoError(t, err)
	assert.Empty(t, state.Tools)
	assert.NotNil(t, state.Tools)
}

func TestLoadStateMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync-state.toml")
	util.WriteFile(t, path, "tools = [not toml")

	_, err := loadState(path)
	require.Error(t, err)
}

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "sync-state.toml")
	state := model.NewState()
	state.Put(model.Claude, &model.SkillStatus{
		SkillID:    "pdf-tools",
		Version:    model.NewSkillVersion("1.0.0", "abc123"),
		Strategy:   model.StrategyLink,
		TargetPath: "/home/u/.claude/skills/pdf-tools",
		Drift: &model.Drift{
			Kind:        model.DriftMissing,
			Description: "gone",
			DetectedAt:  fixedNow,
		},
	}, fixedNow)

	require.NoError(t, saveState(path, state))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left behind")

	loaded, err := loadState(path)
	require.NoError(t, err)
	status := loaded.Status(model.Claude, "pdf-tools")
	require.NotNil(t, status)
	assert.Equal(t, "abc123", status.Version.ContentHash)
	assert.Equal(t, model.StrategyLink, status.Strategy)
	require.NotNil(t, status.Drift)
	assert.Equal(t, model.DriftMissing, status.Drift.Kind)
	assert.True(t, fixedNow.Equal(status.Drift.DetectedAt))
	require.NotNil(t, loaded.LastSync)
	assert.True(t, fixedNow.Equal(*loaded.LastSync))
	assert.Equal(t, []model.Tool{model.Claude}, loaded.TrackedTools())
}

func TestEngineStateFilePersists(t *testing.T) {
	f := newFixture(t, model.Claude)
	f.install(t, "pdf-tools", nil)
	path := filepath.Join(f.root, "sync-state.toml")
	require.NoError(t, WithStateFile(path)(f.engine))

	require.NoError(t, f.engine.SyncSkill("pdf-tools", model.Claude, model.StrategyAuto))
	require.FileExists(t, path)

	// a new engine over the same files sees the tracked status
	reopened, err := New(f.store,
		WithAdapters(adapter.New(adapter.Profile{Tool: model.Claude, PrimaryDir: f.toolDir(model.Claude)})),
		WithStateFile(path),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	plan, err := reopened.PlanSync("pdf-tools", []model.Tool{model.Claude}, model.StrategyAuto)
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())

	require.NoError(t, reopened.UnsyncSkill("pdf-tools", model.Claude))
	loaded, err := loadState(path)
	require.NoError(t, err)
	assert.Nil(t, loaded.Status(model.Claude, "pdf-tools"))
}

func TestWithStateFileRejectsCorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync-state.toml")
	util.WriteFile(t, path, "= broken")

	store := newFixture(t).store
	_, err := New(store, WithStateFile(path))
	require.Error(t, err)
}
