package sync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/klauern/skillhub/internal/fsutil"
	"github.com/klauern/skillhub/internal/logging"
	"github.com/klauern/skillhub/internal/model"
)

// StrategyResolver maps a tool to its effective strategy. It keeps
// per-tool policy outside the engine.
type StrategyResolver func(model.Tool) model.Strategy

// Uniform returns a resolver that answers s for every tool.
func Uniform(s model.Strategy) StrategyResolver {
	return func(model.Tool) model.Strategy { return s }
}

// ScanAllTools lists the skills every adapter currently holds across all of
// its candidate directories. Directories and symlinks count whatever the
// link points at, dot-prefixed names are skipped, and each (id, tool) pair
// is reported once with the first directory winning. A dangling link still
// occupies the name, which is also how distribution treats it.
func (e *Engine) ScanAllTools() []model.ScannedSkill {
	type key struct {
		id   string
		tool model.Tool
	}
	seen := make(map[key]bool)
	var scanned []model.ScannedSkill

	for _, a := range e.registry.All() {
		tool := a.Tool()
		for _, dir := range a.SkillsDirs() {
			entries, err := os.ReadDir(dir)
			if err != nil {
				logging.Warn("skipping unreadable skills directory",
					logging.Tool(tool.String()), logging.Path(dir), logging.Err(err))
				continue
			}
			for _, entry := range entries {
				id := entry.Name()
				if strings.HasPrefix(id, ".") {
					continue
				}
				isLink := entry.Type()&os.ModeSymlink != 0
				if !entry.IsDir() && !isLink {
					continue
				}
				k := key{id: id, tool: tool}
				if seen[k] {
					continue
				}
				seen[k] = true
				scanned = append(scanned, model.ScannedSkill{
					ID:     id,
					Path:   filepath.Join(dir, id),
					Tool:   tool,
					InHub:  fsutil.Exists(e.store.SkillPath(id)),
					IsLink: isLink,
				})
			}
		}
	}
	return scanned
}

// CollectToHub copies every scanned skill the hub lacks into the hub.
// Symlinked entries are resolved and the destination's content is copied,
// with nested links dereferenced; links whose destination is gone are
// skipped. Existing hub skills are never
// overwritten, so when several tools hold the same id the first tool in
// identifier order wins. Per-skill failures do not stop collection; they
// are returned together with the ids that were collected.
func (e *Engine) CollectToHub() ([]string, error) {
	defer logging.Timer("collect")()

	var (
		collected []string
		errs      *multierror.Error
	)
	for _, s := range e.ScanAllTools() {
		if s.InHub {
			continue
		}
		dst := e.store.SkillPath(s.ID)
		if fsutil.Exists(dst) {
			// collected from an earlier tool in this run
			continue
		}

		src := s.Path
		if s.IsLink {
			if _, err := os.Stat(s.Path); errors.Is(err, os.ErrNotExist) {
				logging.Debug("skipping dangling skill link",
					logging.Skill(s.ID), logging.Tool(s.Tool.String()), logging.Path(s.Path))
				continue
			}
			resolved, err := fsutil.ResolveLink(s.Path)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			src = resolved
		}

		if err := fsutil.CopyDirStaged(src, dst); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("collect %s from %s: %w", s.ID, s.Tool, err))
			continue
		}
		collected = append(collected, s.ID)
		logging.Info("collected skill", logging.Skill(s.ID), logging.Tool(s.Tool.String()), logging.Path(src))

		if e.collectRecords {
			if reg, ok := e.store.(LocalRegistrar); ok {
				if _, err := reg.RegisterLocal(s.ID, src); err != nil {
					errs = multierror.Append(errs, fmt.Errorf("register %s: %w", s.ID, err))
				}
			}
		}
	}
	return collected, errs.ErrorOrNil()
}

// DistributeFromHub projects every hub skill into every registered
// adapter's primary directory, skipping targets that already exist. Link
// failures under StrategyLink are reported as unsuccessful without a
// fallback. Distributed skills are not tracked in sync state.
func (e *Engine) DistributeFromHub(resolve StrategyResolver) ([]Distribution, error) {
	defer logging.Timer("distribute")()

	if resolve == nil {
		resolve = Uniform(model.StrategyAuto)
	}
	ids, err := e.hubSkillIDs()
	if err != nil {
		return nil, err
	}

	type destination struct {
		tool     model.Tool
		dir      string
		strategy model.Strategy
	}
	var dests []destination
	for _, a := range e.registry.All() {
		dir, err := a.SkillsDir()
		if err != nil {
			logging.Warn("skipping tool without skills directory",
				logging.Tool(a.Tool().String()), logging.Err(err))
			continue
		}
		dests = append(dests, destination{tool: a.Tool(), dir: dir, strategy: resolve(a.Tool())})
	}

	total := len(ids) * len(dests)
	e.emit(ProgressEvent{Type: ProgressEventStart, Operation: "distribute", Total: total})

	var results []Distribution
	n := 0
	for _, id := range ids {
		source := e.hubPath(id)
		for _, d := range dests {
			n++
			target := filepath.Join(d.dir, id)
			if fsutil.Exists(target) {
				e.emit(ProgressEvent{Type: ProgressEventItem, Operation: "distribute", SkillID: id, Tool: d.tool, Current: n, Total: total})
				continue
			}

			_, perr := project(source, target, d.strategy)
			if perr != nil {
				logging.Warn("distribution failed",
					logging.Skill(id), logging.Tool(d.tool.String()), logging.Err(perr))
			}
			results = append(results, Distribution{SkillID: id, Tool: d.tool, Success: perr == nil})
			e.emit(ProgressEvent{Type: ProgressEventItem, Operation: "distribute", SkillID: id, Tool: d.tool, Current: n, Total: total, Err: perr})
		}
	}

	e.emit(ProgressEvent{Type: ProgressEventComplete, Operation: "distribute", Current: total, Total: total})
	return results, nil
}

// FullSync collects into the hub and then distributes back out. There is
// no rollback: distribution runs over whatever was collected even when
// collection partly failed, and the collection error is returned alongside
// the result.
func (e *Engine) FullSync(resolve StrategyResolver) (*FullSyncResult, error) {
	defer logging.Timer("full-sync")()

	collected, collectErr := e.CollectToHub()
	distributed, err := e.DistributeFromHub(resolve)
	result := &FullSyncResult{Collected: collected, Distributed: distributed}
	if err != nil {
		if collectErr != nil {
			return result, multierror.Append(collectErr, err)
		}
		return result, err
	}
	return result, collectErr
}

// HubStatus reports, for every hub skill, which registered tools hold it
// and which are missing it. It always derives the answer from a fresh
// scan and never consults tracked state.
func (e *Engine) HubStatus() ([]model.HubStatus, error) {
	ids, err := e.hubSkillIDs()
	if err != nil {
		return nil, err
	}

	holders := make(map[string]map[model.Tool]bool)
	for _, s := range e.ScanAllTools() {
		if holders[s.ID] == nil {
			holders[s.ID] = make(map[model.Tool]bool)
		}
		holders[s.ID][s.Tool] = true
	}

	tools := e.registry.Tools()
	statuses := make([]model.HubStatus, 0, len(ids))
	for _, id := range ids {
		st := model.HubStatus{
			SkillID:   id,
			HubPath:   e.store.SkillPath(id),
			SyncedTo:  []model.Tool{},
			MissingIn: []model.Tool{},
		}
		for _, tool := range tools {
			if holders[id][tool] {
				st.SyncedTo = append(st.SyncedTo, tool)
			} else {
				st.MissingIn = append(st.MissingIn, tool)
			}
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
