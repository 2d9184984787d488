package sync

import "github.com/klauern/skillhub/internal/model"

// ProgressEventType identifies a progress event.
type ProgressEventType string

const (
	// ProgressEventStart is emitted once before a batch with its total.
	ProgressEventStart ProgressEventType = "start"
	// ProgressEventItem is emitted after each item of a batch.
	ProgressEventItem ProgressEventType = "item"
	// ProgressEventComplete is emitted once after a batch.
	ProgressEventComplete ProgressEventType = "complete"
)

// ProgressEvent reports progress of a batch operation.
type ProgressEvent struct {
	Type      ProgressEventType
	Operation string
	SkillID   string
	Tool      model.Tool
	Current   int
	Total     int
	Err       error
}

// ProgressFunc receives progress events. It must not call back into the
// engine.
type ProgressFunc func(ProgressEvent)

func (e *Engine) emit(ev ProgressEvent) {
	if e.progress != nil {
		e.progress(ev)
	}
}
