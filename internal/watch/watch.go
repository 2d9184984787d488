// Package watch re-checks drift whenever a watched skills directory
// changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/klauern/skillhub/internal/logging"
	"github.com/klauern/skillhub/internal/sync"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// ErrNothingToWatch is returned when none of the directories can be watched.
var ErrNothingToWatch = errors.New("no directories to watch")

// Engine is the part of the sync engine the watcher drives.
type Engine interface {
	WatchDirs() []string
	CheckDrift() []sync.DriftReport
	Repair(reports []sync.DriftReport, strategyFor sync.StrategyResolver) *sync.Result
}

// Config controls a Watcher.
type Config struct {
	// Debounce is how long the directories must stay quiet before a check.
	Debounce time.Duration
	// Repair re-projects drifted skills after each check.
	Repair bool
	// Strategy picks the repair strategy per tool. Nil means auto.
	Strategy sync.StrategyResolver
}

// Event is a filesystem change that may have caused drift.
type Event struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

// Report is delivered to the handler after a check finds drift.
type Report struct {
	Trigger  Event
	Drift    []sync.DriftReport
	Repaired *sync.Result
}

// Handler receives drift reports. It runs on the watcher goroutine.
type Handler func(Report)

// Watcher watches the hub and tool directories of an engine.
type Watcher struct {
	engine  Engine
	cfg     Config
	handler Handler
}

// New creates a watcher. A nil handler discards reports.
func New(engine Engine, cfg Config, handler Handler) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if handler == nil {
		handler = func(Report) {}
	}
	return &Watcher{engine: engine, cfg: cfg, handler: handler}
}

// Run watches until ctx is cancelled. Every debounced burst of changes
// triggers one drift check.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	watched := 0
	for _, dir := range w.engine.WatchDirs() {
		if err := fw.Add(dir); err != nil {
			logging.Warn("cannot watch directory", logging.Path(dir), logging.Err(err))
			continue
		}
		logging.Debug("watching directory", logging.Path(dir))
		watched++
	}
	if watched == 0 {
		return ErrNothingToWatch
	}
	logging.Info("watcher started", logging.Count(watched))

	events := make(chan Event)
	triggers := make(chan Event)
	go debounceEvents(ctx, events, triggers, w.cfg.Debounce)
	go forwardEvents(ctx, fw, events)

	for {
		select {
		case ev := <-triggers:
			w.check(ev)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) check(trigger Event) {
	defer logging.Timer("watch-check")()

	reports := w.engine.CheckDrift()
	if len(reports) == 0 {
		logging.Debug("no drift after change", logging.Path(trigger.Path))
		return
	}

	report := Report{Trigger: trigger, Drift: reports}
	if w.cfg.Repair {
		report.Repaired = w.engine.Repair(reports, w.cfg.Strategy)
	}
	w.handler(report)
}

// forwardEvents filters raw fsnotify events and passes the relevant ones on.
func forwardEvents(ctx context.Context, fw *fsnotify.Watcher, out chan<- Event) {
	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			select {
			case out <- Event{Path: ev.Name, Op: ev.Op, Time: time.Now()}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logging.Error("file watcher error", logging.Err(err))
		case <-ctx.Done():
			return
		}
	}
}

// relevant drops attribute-only changes and hidden entries such as staging
// directories.
func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return !strings.HasPrefix(filepath.Base(ev.Name), ".")
}

// debounceEvents emits the last event of each burst once input has been
// quiet for delay.
func debounceEvents(ctx context.Context, input <-chan Event, output chan<- Event, delay time.Duration) {
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	var (
		last    Event
		pending bool
	)
	for {
		select {
		case ev, ok := <-input:
			if !ok {
				return
			}
			last = ev
			pending = true
			timer.Reset(delay)
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			select {
			case output <- last:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
