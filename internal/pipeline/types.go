// Package pipeline describes progress events emitted while documents are processed.
package pipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageLoad reads the document from disk.
	StageLoad Stage = "load"
	// StageAnalyze scans placeholders and collects fields.
	StageAnalyze Stage = "analyze"
	// StageGenerate renders the target code.
	StageGenerate Stage = "generate"
	// StageWrite writes the updated document back.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusDone: документ обработан, Changed говорит, изменился ли он
	StatusDone  Status = "done"
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Changed bool
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: workers emit events from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Emit sends evt to sink when sink is not nil.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
