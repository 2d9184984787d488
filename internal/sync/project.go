package sync

import (
	"fmt"
	"path/filepath"

	"github.com/klauern/skillhub/internal/fsutil"
	"github.com/klauern/skillhub/internal/logging"
	"github.com/klauern/skillhub/internal/model"
)

// SyncSkill projects a hub skill into a tool's primary skills directory
// and records the resulting sync status.
//
// The existing entry at <skills_dir>/<id> is removed first, whatever it
// is. StrategyAuto links and falls back to a copy on any link failure;
// StrategyLink and StrategyCopy perform exactly one action.
func (e *Engine) SyncSkill(id string, tool model.Tool, strategy model.Strategy) error {
	if !strategy.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}
	source := e.hubPath(id)
	if !e.store.IsInstalled(id) || !fsutil.Exists(source) {
		return fmt.Errorf("%w: %s", ErrSkillNotFound, id)
	}
	target, err := e.targetPath(id, tool)
	if err != nil {
		return err
	}
	version, err := e.store.CurrentVersion(id)
	if err != nil {
		return fmt.Errorf("failed to read version of %s: %w", id, err)
	}

	used, err := project(source, target, strategy)
	if err != nil {
		return fmt.Errorf("failed to sync %s to %s: %w", id, tool, err)
	}

	e.state.Put(tool, &model.SkillStatus{
		SkillID:    id,
		Version:    version,
		Strategy:   used,
		TargetPath: target,
	}, e.now())
	e.persist()

	if rec, ok := e.store.(ProjectionRecorder); ok {
		if err := rec.RecordProjection(id, tool); err != nil {
			logging.Warn("failed to record projection",
				logging.Skill(id), logging.Tool(tool.String()), logging.Err(err))
		}
	}

	logging.Info("synced skill",
		logging.Skill(id),
		logging.Tool(tool.String()),
		logging.Strategy(used.String()),
		logging.Target(target),
	)
	return nil
}

// UnsyncSkill removes a skill from a tool and drops its tracked status. A
// missing target is not an error.
func (e *Engine) UnsyncSkill(id string, tool model.Tool) error {
	target, err := e.targetPath(id, tool)
	if err != nil {
		return err
	}

	paths := []string{target}
	if status := e.state.Status(tool, id); status != nil && filepath.Clean(status.TargetPath) != target {
		paths = append(paths, status.TargetPath)
	}
	for _, p := range paths {
		if err := fsutil.RemoveExisting(p); err != nil {
			return fmt.Errorf("failed to unsync %s from %s: %w", id, tool, err)
		}
	}

	if e.state.Delete(tool, id) {
		e.persist()
	}
	logging.Info("unsynced skill", logging.Skill(id), logging.Tool(tool.String()))
	return nil
}

// targetPath resolves <skills_dir>/<id> for a tool, creating the skills
// directory if needed.
func (e *Engine) targetPath(id string, tool model.Tool) (string, error) {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id {
		return "", fmt.Errorf("%w: invalid id %q", ErrSkillNotFound, id)
	}
	a, err := e.Adapter(tool)
	if err != nil {
		return "", err
	}
	dir, err := a.SkillsDir()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrToolNotFound, tool, err)
	}
	return filepath.Join(filepath.Clean(dir), id), nil
}

// project replaces whatever is at target with a link to or copy of source
// and returns the concrete strategy used.
func project(source, target string, strategy model.Strategy) (model.Strategy, error) {
	if err := fsutil.RemoveExisting(target); err != nil {
		return "", err
	}

	switch strategy {
	case model.StrategyLink:
		if err := fsutil.Link(source, target); err != nil {
			return "", err
		}
		return model.StrategyLink, nil

	case model.StrategyCopy:
		if err := fsutil.CopyDirStaged(source, target); err != nil {
			return "", err
		}
		return model.StrategyCopy, nil

	default:
		linkErr := fsutil.Link(source, target)
		if linkErr == nil {
			return model.StrategyLink, nil
		}
		logging.Debug("link failed, falling back to copy",
			logging.Target(target), logging.Err(linkErr))
		if err := fsutil.RemoveExisting(target); err != nil {
			return "", err
		}
		if err := fsutil.CopyDirStaged(source, target); err != nil {
			return "", fmt.Errorf("link failed (%v), copy failed: %w", linkErr, err)
		}
		return model.StrategyCopy, nil
	}
}
