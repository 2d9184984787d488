package sync

import (
	"fmt"
	"time"

	"github.com/klauern/skillhub/internal/fsutil"
	"github.com/klauern/skillhub/internal/logging"
	"github.com/klauern/skillhub/internal/model"
)

// DriftReport is one drifted (skill, tool) pair.
type DriftReport struct {
	SkillID    string      `json:"skill_id"`
	Tool       model.Tool  `json:"tool"`
	TargetPath string      `json:"target_path"`
	Drift      model.Drift `json:"drift"`
}

// CheckDrift evaluates every tracked status against the filesystem, in
// tool then skill order:
//
//  1. target absent: Missing
//  2. target is a symlink resolving away from the hub path: WrongTarget
//  3. target is a symlink whose destination is absent: BrokenLink
//
// Copied targets are only checked for existence. Detected drift is stored
// on the tracked status so a later PlanSync yields Repair; drift on a
// healthy target is cleared.
func (e *Engine) CheckDrift() []DriftReport {
	var reports []DriftReport
	changed := false
	now := e.now()

	for _, tool := range e.state.TrackedTools() {
		for _, id := range e.state.SkillIDs(tool) {
			status := e.state.Status(tool, id)
			drift := e.evaluate(id, status, now)
			if drift == nil {
				if status.Drift != nil {
					status.Drift = nil
					changed = true
				}
				continue
			}

			if status.Drift == nil || status.Drift.Kind != drift.Kind {
				status.Drift = drift
				changed = true
			}
			reports = append(reports, DriftReport{
				SkillID:    id,
				Tool:       tool,
				TargetPath: status.TargetPath,
				Drift:      *status.Drift,
			})
			logging.Debug("drift detected",
				logging.Skill(id),
				logging.Tool(tool.String()),
				logging.Operation(string(drift.Kind)),
			)
		}
	}

	if changed {
		e.persist()
	}
	return reports
}

func (e *Engine) evaluate(id string, status *model.SkillStatus, now time.Time) *model.Drift {
	target := status.TargetPath
	if !fsutil.Exists(target) {
		return &model.Drift{
			Kind:        model.DriftMissing,
			Description: fmt.Sprintf("%s no longer exists", target),
			DetectedAt:  now,
		}
	}
	if !fsutil.IsSymlink(target) {
		return nil
	}

	expected := e.hubPath(id)
	dest, err := fsutil.ResolveLink(target)
	if err != nil || dest != expected {
		return &model.Drift{
			Kind:        model.DriftWrongTarget,
			Description: fmt.Sprintf("%s points to %s, expected %s", target, dest, expected),
			DetectedAt:  now,
		}
	}
	if !fsutil.TargetExists(target) {
		return &model.Drift{
			Kind:        model.DriftBrokenLink,
			Description: fmt.Sprintf("%s points to missing %s", target, dest),
			DetectedAt:  now,
		}
	}
	return nil
}

// Repair re-projects every reported pair by unsyncing then syncing it.
// strategyFor picks the strategy per tool; nil means StrategyAuto.
func (e *Engine) Repair(reports []DriftReport, strategyFor StrategyResolver) *Result {
	plan := &Plan{}
	for _, r := range reports {
		strategy := model.StrategyAuto
		if strategyFor != nil {
			strategy = strategyFor(r.Tool)
		}
		plan.push(PlannedAction{SkillID: r.SkillID, Tool: r.Tool, Type: ActionRepair, Strategy: strategy})
	}
	return e.ExecutePlan(plan)
}
