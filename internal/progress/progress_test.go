package progress

import (
	"bytes"
	"testing"

	"github.com/klauern/skillhub/internal/model"
	"github.com/klauern/skillhub/internal/sync"
)

func TestNewDisabledForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	b := New(Options{Max: 3, Description: "collect", Writer: &buf})
	if b.Enabled() {
		t.Fatal("expected bar to be disabled for a buffer")
	}
	if err := b.Add(1); err != nil {
		t.Fatal(err)
	}
	if err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("disabled bar wrote %q", buf.String())
	}
}

func TestTrackerRendersForcedBar(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker(Options{Writer: &buf, Force: true})
	fn := tracker.Func()

	fn(sync.ProgressEvent{Type: sync.ProgressEventStart, Operation: "distribute", Total: 2})
	if tracker.bar == nil || !tracker.bar.Enabled() {
		t.Fatal("expected an enabled bar after start")
	}
	fn(sync.ProgressEvent{Type: sync.ProgressEventItem, SkillID: "pdf-tools", Tool: model.Claude, Current: 1, Total: 2})
	fn(sync.ProgressEvent{Type: sync.ProgressEventItem, SkillID: "pdf-tools", Tool: model.Cursor, Current: 2, Total: 2})
	fn(sync.ProgressEvent{Type: sync.ProgressEventComplete, Current: 2, Total: 2})

	if tracker.bar != nil {
		t.Error("expected bar to be released after completion")
	}
	if buf.Len() == 0 {
		t.Error("expected forced bar output")
	}
}

func TestTrackerIgnoresItemsWithoutStart(t *testing.T) {
	tracker := NewTracker(Options{Writer: &bytes.Buffer{}})
	tracker.Func()(sync.ProgressEvent{Type: sync.ProgressEventItem, Current: 1})
	tracker.Func()(sync.ProgressEvent{Type: sync.ProgressEventComplete})
}
