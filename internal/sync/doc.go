// Package sync projects hub skills into agent tool directories and keeps
// them reconciled.
//
// # Projection
//
// SyncSkill places one hub skill into one tool's primary skills directory
// as either a symlink to the hub copy or a full recursive copy:
//
//	err := engine.SyncSkill("pdf-tools", model.Cursor, model.StrategyAuto)
//
// StrategyAuto links first and falls back to a copy; StrategyLink and
// StrategyCopy never fall back. Whatever already sits at the target is
// removed first. Copies are staged beside the target and renamed into
// place, so a target is never left half written.
//
// # Planning
//
// PlanSync classifies each tool as Add, Repair or Update (or nothing when
// already in sync) from the tracked sync state. ExecutePlan runs every
// entry independently; one failure never stops the batch:
//
//	plan, err := engine.PlanSync("pdf-tools", []model.Tool{model.Claude, model.Cursor}, model.StrategyAuto)
//	if err != nil {
//	    return err
//	}
//	result := engine.ExecutePlan(plan)
//	fmt.Print(result.Summary())
//
// # Drift
//
// CheckDrift compares tracked state with the filesystem and reports
// Missing, WrongTarget and BrokenLink targets. Copied targets are only
// checked for existence.
//
// # Reconciliation
//
// ScanAllTools, CollectToHub, DistributeFromHub, FullSync and HubStatus
// always derive their view from the filesystem rather than tracked state.
// Collection never overwrites a hub skill and distribution never
// overwrites a tool-side skill.
//
// # Concurrency
//
// An Engine is not safe for concurrent use, and two engines must not
// operate on the same hub or tool directories at once.
package sync
