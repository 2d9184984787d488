package sync

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/klauern/skillhub/internal/adapter"
	"github.com/klauern/skillhub/internal/fsutil"
	"github.com/klauern/skillhub/internal/logging"
	"github.com/klauern/skillhub/internal/model"
)

// HubStore is the hub surface the engine consumes.
type HubStore interface {
	// IsInstalled reports whether the skill has an install record.
	IsInstalled(id string) bool
	// SkillPath returns the canonical path of a skill.
	SkillPath(id string) string
	// SkillsDir returns the directory holding every hub skill.
	SkillsDir() string
	// CurrentVersion returns the version snapshot recorded on sync.
	CurrentVersion(id string) (model.SkillVersion, error)
}

// ProjectionRecorder is implemented by stores that track which tools a
// skill has been projected to.
type ProjectionRecorder interface {
	RecordProjection(id string, tool model.Tool) error
}

// LocalRegistrar is implemented by stores that can write an install
// record for a skill directory already present in the hub.
type LocalRegistrar interface {
	RegisterLocal(id, origin string) (*model.InstallRecord, error)
}

// Engine orchestrates projection, planning, drift detection and
// reconciliation between a hub and registered tool adapters.
type Engine struct {
	store          HubStore
	registry       *adapter.Registry
	state          *model.State
	statePath      string
	progress       ProgressFunc
	collectRecords bool
	now            func() time.Time
}

// Option configures an Engine.
type Option func(*Engine) error

// WithRegistry registers every adapter in reg.
func WithRegistry(reg *adapter.Registry) Option {
	return func(e *Engine) error {
		for _, a := range reg.All() {
			e.registry.Register(a)
		}
		return nil
	}
}

// WithAdapters registers the given adapters.
func WithAdapters(adapters ...adapter.Adapter) Option {
	return func(e *Engine) error {
		for _, a := range adapters {
			e.registry.Register(a)
		}
		return nil
	}
}

// WithStateFile loads sync state from path, if present, and rewrites it
// after every mutating operation.
func WithStateFile(path string) Option {
	return func(e *Engine) error {
		state, err := loadState(path)
		if err != nil {
			return err
		}
		e.state = state
		e.statePath = path
		return nil
	}
}

// WithProgress sets a callback for batch progress.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) error {
		e.progress = fn
		return nil
	}
}

// WithCollectRecords makes CollectToHub write an install record for every
// collected skill when the store supports it.
func WithCollectRecords(enabled bool) Option {
	return func(e *Engine) error {
		e.collectRecords = enabled
		return nil
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) error {
		e.now = now
		return nil
	}
}

// New creates an engine over store. Sync state starts empty unless
// WithStateFile is given.
func New(store HubStore, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("hub store is required")
	}
	e := &Engine{
		store:    store,
		registry: adapter.NewRegistry(),
		state:    model.NewState(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Register adds an adapter, replacing any adapter for the same tool.
func (e *Engine) Register(a adapter.Adapter) {
	e.registry.Register(a)
}

// Adapters returns the registered adapters sorted by tool identifier.
func (e *Engine) Adapters() []adapter.Adapter {
	return e.registry.All()
}

// Adapter returns the adapter for a tool.
func (e *Engine) Adapter(tool model.Tool) (adapter.Adapter, error) {
	a, ok := e.registry.Get(tool)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}
	return a, nil
}

// State returns the tracked sync state. Callers must treat it as read-only.
func (e *Engine) State() *model.State {
	return e.state
}

// DetectTools reports detection and directories for every adapter.
func (e *Engine) DetectTools() []model.ToolProfile {
	adapters := e.registry.All()
	profiles := make([]model.ToolProfile, 0, len(adapters))
	for _, a := range adapters {
		p := model.ToolProfile{
			Tool:     a.Tool(),
			Detected: a.Detect(),
			Dirs:     a.SkillsDirs(),
		}
		if d, ok := a.(interface{ PrimaryDir() string }); ok {
			p.SkillsDir = d.PrimaryDir()
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// WatchDirs returns the hub skills directory followed by every existing
// tool candidate directory, without duplicates.
func (e *Engine) WatchDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(d string) {
		d = filepath.Clean(d)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	add(e.store.SkillsDir())
	for _, a := range e.registry.All() {
		for _, d := range a.SkillsDirs() {
			add(d)
		}
	}
	return dirs
}

// persist writes the state file when one is configured. Failures are
// logged; the filesystem operation that preceded them already happened.
func (e *Engine) persist() {
	if e.statePath == "" {
		return
	}
	if err := saveState(e.statePath, e.state); err != nil {
		logging.Warn("failed to save sync state", logging.Path(e.statePath), logging.Err(err))
	}
}

// hubPath returns the absolute canonical path of a hub skill, which is
// what links point at.
func (e *Engine) hubPath(id string) string {
	p := e.store.SkillPath(id)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// hubSkillIDs lists the skill directories physically present in the hub,
// sorted, skipping dot-prefixed names.
func (e *Engine) hubSkillIDs() ([]string, error) {
	ids, err := fsutil.SkillDirs(e.store.SkillsDir())
	if err != nil {
		return nil, fmt.Errorf("failed to read hub skills: %w", err)
	}
	return ids, nil
}
