package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/skillhub/internal/adapter"
	"github.com/klauern/skillhub/internal/fsutil"
	"github.com/klauern/skillhub/internal/hub"
	"github.com/klauern/skillhub/internal/model"
	"github.com/klauern/skillhub/internal/sync"
	"github.com/klauern/skillhub/internal/util"
)

func TestDebounceCoalescesBursts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := make(chan Event)
	output := make(chan Event, 4)
	go debounceEvents(ctx, input, output, 30*time.Millisecond)

	for _, p := range []string{"a", "b", "c"} {
		input <- Event{Path: p, Op: fsnotify.Create}
	}

	select {
	case ev := <-output:
		assert.Equal(t, "c", ev.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("no debounced event")
	}

	select {
	case ev := <-output:
		t.Fatalf("unexpected second event %v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"create", fsnotify.Event{Name: "/x/pdf-tools", Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: "/x/pdf-tools", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/x/pdf-tools", Op: fsnotify.Chmod}, false},
		{"staging", fsnotify.Event{Name: "/x/.pdf-tools.staging-123", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.ev))
		})
	}
}

func TestRunNothingToWatch(t *testing.T) {
	w := New(fakeEngine{dirs: []string{filepath.Join(t.TempDir(), "absent")}}, Config{}, nil)
	err := w.Run(context.Background())
	assert.ErrorIs(t, err, ErrNothingToWatch)
}

func TestRunReportsAndRepairsDrift(t *testing.T) {
	root := t.TempDir()
	store, err := hub.New(filepath.Join(root, "hub"))
	require.NoError(t, err)
	src := util.WriteSkill(t, filepath.Join(root, "src"), "pdf-tools", nil)
	_, err = store.Import("pdf-tools", src, "1.0.0", model.SkillSource{Kind: model.SourceLocal, Location: src})
	require.NoError(t, err)

	toolDir := filepath.Join(root, "claude", "skills")
	engine, err := sync.New(store, sync.WithAdapters(adapter.New(adapter.Profile{
		Tool:       model.Claude,
		PrimaryDir: toolDir,
	})))
	require.NoError(t, err)
	require.NoError(t, engine.SyncSkill("pdf-tools", model.Claude, model.StrategyLink))

	target := filepath.Join(toolDir, "pdf-tools")
	require.NoError(t, os.Remove(target))

	reports := make(chan Report, 4)
	w := New(engine, Config{Debounce: 20 * time.Millisecond, Repair: true}, func(r Report) {
		reports <- r
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// touch the directory until the watcher is registered and has reacted
	var r Report
	require.Eventually(t, func() bool {
		select {
		case r = <-reports:
			return true
		default:
			util.WriteFile(t, filepath.Join(toolDir, "nudge"), time.Now().String())
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	require.NotEmpty(t, r.Drift)
	assert.Equal(t, model.DriftMissing, r.Drift[0].Drift.Kind)
	require.NotNil(t, r.Repaired)
	assert.True(t, r.Repaired.Success())

	cancel()
	require.NoError(t, <-done)
	assert.True(t, fsutil.IsSymlink(target))
}

type fakeEngine struct {
	dirs []string
}

func (f fakeEngine) WatchDirs() []string             { return f.dirs }
func (f fakeEngine) CheckDrift() []sync.DriftReport { return nil }
func (f fakeEngine) Repair([]sync.DriftReport, sync.StrategyResolver) *sync.Result {
	return &sync.Result{}
}
