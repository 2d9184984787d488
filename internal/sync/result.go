package sync

import (
	"fmt"
	"strings"

	"github.com/klauern/skillhub/internal/model"
)

// ItemResult is the outcome of one plan entry.
type ItemResult struct {
	SkillID string
	Tool    model.Tool
	Action  ActionType
	Err     error
}

// Success returns true if the entry completed.
func (r ItemResult) Success() bool {
	return r.Err == nil
}

// Result collects the outcome of every plan entry.
type Result struct {
	Items []ItemResult
}

// Succeeded returns entries that completed.
func (r *Result) Succeeded() []ItemResult {
	return r.filter(func(i ItemResult) bool { return i.Success() })
}

// Failed returns entries that failed.
func (r *Result) Failed() []ItemResult {
	return r.filter(func(i ItemResult) bool { return !i.Success() })
}

// ByAction returns entries of one action type.
func (r *Result) ByAction(action ActionType) []ItemResult {
	return r.filter(func(i ItemResult) bool { return i.Action == action })
}

func (r *Result) filter(keep func(ItemResult) bool) []ItemResult {
	var filtered []ItemResult
	for _, item := range r.Items {
		if keep(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Success returns true if every entry completed.
func (r *Result) Success() bool {
	return len(r.Failed()) == 0
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	var sb strings.Builder

	if len(r.Items) == 0 {
		sb.WriteString("Nothing to do - everything is in sync\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Executed %d action(s)\n", len(r.Items)))
	for _, action := range []ActionType{ActionAdd, ActionUpdate, ActionRepair, ActionRemove} {
		n := len(r.ByAction(action))
		if n == 0 {
			continue
		}
		label := string(action)
		sb.WriteString(fmt.Sprintf("  %-8s %d\n", label+":", n))
	}
	sb.WriteString(fmt.Sprintf("  %-8s %d\n", "failed:", len(r.Failed())))

	if !r.Success() {
		sb.WriteString("\nErrors:\n")
		for _, f := range r.Failed() {
			sb.WriteString(fmt.Sprintf("  - %s -> %s: %v\n", f.SkillID, f.Tool, f.Err))
		}
	}
	return sb.String()
}

// Distribution is one (skill, tool) outcome of DistributeFromHub.
type Distribution struct {
	SkillID string     `json:"skill_id"`
	Tool    model.Tool `json:"tool"`
	Success bool       `json:"success"`
}

// FullSyncResult aggregates a collect-then-distribute run.
type FullSyncResult struct {
	Collected   []string       `json:"collected"`
	Distributed []Distribution `json:"distributed"`
}

// CollectedCount returns the number of skills collected into the hub.
func (r *FullSyncResult) CollectedCount() int { return len(r.Collected) }

// DistributedCount returns the number of successful distributions.
func (r *FullSyncResult) DistributedCount() int { return countSucceeded(r.Distributed) }

// FailedCount returns the number of failed distributions.
func (r *FullSyncResult) FailedCount() int {
	return len(r.Distributed) - countSucceeded(r.Distributed)
}

func countSucceeded(ds []Distribution) int {
	n := 0
	for _, d := range ds {
		if d.Success {
			n++
		}
	}
	return n
}
