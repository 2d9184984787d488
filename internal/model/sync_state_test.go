package model

import (
	"testing"
	"time"
)

func TestStatePutStatusDelete(t *testing.T) {
	s := NewState()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s.Put(Cursor, &SkillStatus{SkillID: "b", Strategy: StrategyLink}, now)
	s.Put(Cursor, &SkillStatus{SkillID: "a", Strategy: StrategyCopy}, now)
	s.Put(Claude, &SkillStatus{SkillID: "a", Strategy: StrategyLink}, now)

	if got := s.Status(Cursor, "a"); got == nil || got.Strategy != StrategyCopy {
		t.Fatalf("Status(cursor, a) = %+v", got)
	}
	if s.Status(Gemini, "a") != nil {
		t.Error("Status for untracked tool should be nil")
	}
	if s.LastSync == nil || !s.LastSync.Equal(now) {
		t.Errorf("LastSync = %v, want %v", s.LastSync, now)
	}

	tools := s.TrackedTools()
	if len(tools) != 2 || tools[0] != Claude || tools[1] != Cursor {
		t.Errorf("TrackedTools() = %v", tools)
	}
	ids := s.SkillIDs(Cursor)
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("SkillIDs(cursor) = %v", ids)
	}

	if !s.Delete(Cursor, "a") {
		t.Error("Delete(cursor, a) = false, want true")
	}
	if s.Delete(Cursor, "a") {
		t.Error("second Delete(cursor, a) = true, want false")
	}
	if s.Delete(Gemini, "a") {
		t.Error("Delete on untracked tool = true, want false")
	}
}

func TestDriftKindLabel(t *testing.T) {
	if got := DriftWrongTarget.Label(); got != "wrong target" {
		t.Errorf("Label() = %q", got)
	}
	if got := DriftKind("other").Label(); got != "other" {
		t.Errorf("Label() fallback = %q", got)
	}
}
