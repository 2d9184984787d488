// Package progress renders progress bars for long-running sync operations.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/klauern/skillhub/internal/logging"
	"github.com/klauern/skillhub/internal/sync"
	"github.com/klauern/skillhub/internal/ui"
)

// Bar wraps a progressbar and degrades to debug logging when output is not
// an interactive terminal.
type Bar struct {
	bar     *progressbar.ProgressBar
	enabled bool
	desc    string
}

// Options configures a Bar.
type Options struct {
	// Max is the total number of steps.
	Max int64
	// Description is shown before the bar.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
	// Force renders the bar even when Writer is not a terminal.
	Force bool
}

// New creates a progress bar. It is only drawn when colors are enabled,
// the writer is a terminal (or Force is set) and debug logging is off.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	b := &Bar{
		enabled: opts.Force || shouldShowProgress(opts.Writer),
		desc:    opts.Description,
	}
	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s started", opts.Description), logging.Count(int(opts.Max)))
		return b
	}

	b.bar = progressbar.NewOptions64(
		opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprint(opts.Writer, "\n")
		}),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)
	return b
}

// Enabled reports whether the bar is drawn.
func (b *Bar) Enabled() bool { return b.enabled }

// Add increments the bar by n steps.
func (b *Bar) Add(n int) error {
	if !b.enabled {
		return nil
	}
	return b.bar.Add(n)
}

// Set moves the bar to n.
func (b *Bar) Set(n int) error {
	if !b.enabled {
		return nil
	}
	return b.bar.Set(n)
}

// Describe updates the description.
func (b *Bar) Describe(desc string) {
	b.desc = desc
	if !b.enabled {
		return
	}
	b.bar.Describe(desc)
}

// Finish completes the bar.
func (b *Bar) Finish() error {
	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s completed", b.desc))
		return nil
	}
	return b.bar.Finish()
}

// Tracker turns engine progress events into a bar that is created on the
// first start event of each batch.
type Tracker struct {
	opts Options
	bar  *Bar
}

// NewTracker creates a tracker whose bars use opts. Max is taken from each
// batch's start event.
func NewTracker(opts Options) *Tracker {
	return &Tracker{opts: opts}
}

// Func returns the callback to pass to sync.WithProgress.
func (t *Tracker) Func() sync.ProgressFunc {
	return t.handle
}

func (t *Tracker) handle(ev sync.ProgressEvent) {
	switch ev.Type {
	case sync.ProgressEventStart:
		opts := t.opts
		opts.Max = int64(ev.Total)
		if opts.Description == "" {
			opts.Description = ui.Title(ev.Operation)
		}
		t.bar = New(opts)
	case sync.ProgressEventItem:
		if t.bar == nil {
			return
		}
		if ev.SkillID != "" {
			t.bar.Describe(fmt.Sprintf("%s %s", ev.SkillID, ev.Tool))
		}
		_ = t.bar.Set(ev.Current)
	case sync.ProgressEventComplete:
		if t.bar == nil {
			return
		}
		_ = t.bar.Finish()
		t.bar = nil
	}
}

// shouldShowProgress reports whether a bar should be drawn on w. Progress
// stays off for non-terminals, with colors disabled, and at debug level so
// it does not interleave with log output.
func shouldShowProgress(w io.Writer) bool {
	if !ui.IsColorEnabled() || !ui.IsTerminal(w) {
		return false
	}
	return !logging.Default().Enabled(context.Background(), logging.LevelDebug)
}
