package sync

import (
	"fmt"

	"github.com/klauern/skillhub/internal/logging"
	"github.com/klauern/skillhub/internal/model"
)

// ActionType is the kind of work a plan entry performs.
type ActionType string

const (
	// ActionAdd projects a skill that is not tracked for the tool.
	ActionAdd ActionType = "add"
	// ActionUpdate re-projects a skill whose hub version changed.
	ActionUpdate ActionType = "update"
	// ActionRepair removes and re-projects a drifted skill.
	ActionRepair ActionType = "repair"
	// ActionRemove removes a skill from the tool.
	ActionRemove ActionType = "remove"
)

// PlannedAction is one entry of a Plan.
type PlannedAction struct {
	SkillID  string         `json:"skill_id"`
	Tool     model.Tool     `json:"tool"`
	Type     ActionType     `json:"action"`
	Strategy model.Strategy `json:"strategy"`
}

// Plan groups planned actions by type.
type Plan struct {
	Add    []PlannedAction `json:"add"`
	Update []PlannedAction `json:"update"`
	Repair []PlannedAction `json:"repair"`
	Remove []PlannedAction `json:"remove"`
}

// Actions returns every entry in execution order: add, update, repair,
// remove.
func (p *Plan) Actions() []PlannedAction {
	out := make([]PlannedAction, 0, p.Len())
	out = append(out, p.Add...)
	out = append(out, p.Update...)
	out = append(out, p.Repair...)
	out = append(out, p.Remove...)
	return out
}

// Len returns the number of entries.
func (p *Plan) Len() int {
	return len(p.Add) + len(p.Update) + len(p.Repair) + len(p.Remove)
}

// IsEmpty reports whether the plan has no work.
func (p *Plan) IsEmpty() bool { return p.Len() == 0 }

func (p *Plan) push(a PlannedAction) {
	switch a.Type {
	case ActionAdd:
		p.Add = append(p.Add, a)
	case ActionUpdate:
		p.Update = append(p.Update, a)
	case ActionRepair:
		p.Repair = append(p.Repair, a)
	case ActionRemove:
		p.Remove = append(p.Remove, a)
	}
}

// PlanSync classifies, per tool, what syncing a skill requires:
//
//  1. no tracked status: Add
//  2. tracked status carries drift: Repair
//  3. recorded version differs from the hub's current version: Update
//  4. otherwise nothing
//
// Tools without a registered adapter fail the whole plan with
// ErrToolNotFound. Tools that are not detected are skipped.
func (e *Engine) PlanSync(id string, tools []model.Tool, strategy model.Strategy) (*Plan, error) {
	if !e.store.IsInstalled(id) {
		return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, id)
	}
	if !strategy.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}
	current, err := e.store.CurrentVersion(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read version of %s: %w", id, err)
	}

	plan := &Plan{}
	for _, tool := range tools {
		a, err := e.Adapter(tool)
		if err != nil {
			return nil, err
		}
		if !a.Detect() {
			logging.Debug("skipping undetected tool", logging.Tool(tool.String()))
			continue
		}

		action := PlannedAction{SkillID: id, Tool: tool, Strategy: strategy}
		status := e.state.Status(tool, id)
		switch {
		case status == nil:
			action.Type = ActionAdd
		case status.Drift != nil:
			action.Type = ActionRepair
		case !status.Version.Equal(current):
			action.Type = ActionUpdate
		default:
			continue
		}
		plan.push(action)
	}
	return plan, nil
}

// PlanRemoval plans Remove entries for every tool that tracks the skill.
// An empty tools list means every tracked tool.
func (e *Engine) PlanRemoval(id string, tools []model.Tool) *Plan {
	if len(tools) == 0 {
		tools = e.state.TrackedTools()
	}
	plan := &Plan{}
	for _, tool := range tools {
		if e.state.Status(tool, id) == nil {
			continue
		}
		plan.push(PlannedAction{SkillID: id, Tool: tool, Type: ActionRemove})
	}
	return plan
}

// ExecutePlan runs every entry and captures each outcome independently.
// Add and Update sync, Repair unsyncs then syncs, Remove unsyncs.
func (e *Engine) ExecutePlan(plan *Plan) *Result {
	defer logging.Timer("execute-plan")()

	actions := plan.Actions()
	result := &Result{Items: make([]ItemResult, 0, len(actions))}
	e.emit(ProgressEvent{Type: ProgressEventStart, Operation: "execute", Total: len(actions)})

	for i, a := range actions {
		err := e.execute(a)
		if err != nil {
			logging.Warn("plan entry failed",
				logging.Operation(string(a.Type)),
				logging.Skill(a.SkillID),
				logging.Tool(a.Tool.String()),
				logging.Err(err),
			)
		}
		result.Items = append(result.Items, ItemResult{
			SkillID: a.SkillID,
			Tool:    a.Tool,
			Action:  a.Type,
			Err:     err,
		})
		e.emit(ProgressEvent{
			Type:      ProgressEventItem,
			Operation: "execute",
			SkillID:   a.SkillID,
			Tool:      a.Tool,
			Current:   i + 1,
			Total:     len(actions),
			Err:       err,
		})
	}

	e.emit(ProgressEvent{Type: ProgressEventComplete, Operation: "execute", Current: len(actions), Total: len(actions)})
	return result
}

func (e *Engine) execute(a PlannedAction) error {
	strategy := a.Strategy
	if strategy == "" {
		strategy = model.StrategyAuto
	}
	switch a.Type {
	case ActionAdd, ActionUpdate:
		return e.SyncSkill(a.SkillID, a.Tool, strategy)
	case ActionRepair:
		if err := e.UnsyncSkill(a.SkillID, a.Tool); err != nil {
			return err
		}
		return e.SyncSkill(a.SkillID, a.Tool, strategy)
	case ActionRemove:
		return e.UnsyncSkill(a.SkillID, a.Tool)
	default:
		return fmt.Errorf("unknown action %q", a.Type)
	}
}
