package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// maxInFlightShown bounds the file list in Status.
const maxInFlightShown = 3

// Counter tallies progress events of a run. Status is read by the trace
// heartbeat, so a file that stays in flight across heartbeats is visible.
type Counter struct {
	mu       sync.Mutex
	total    int
	done     int
	failed   int
	inFlight map[string]Stage
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{inFlight: make(map[string]Stage)}
}

func (c *Counter) OnEvent(evt Event) {
	if evt.File == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight == nil {
		c.inFlight = make(map[string]Stage)
	}
	switch evt.Status {
	case StatusQueued:
		c.total++
	case StatusWorking:
		c.inFlight[evt.File] = evt.Stage
	case StatusDone:
		c.done++
		delete(c.inFlight, evt.File)
	case StatusError:
		c.failed++
		delete(c.inFlight, evt.File)
	}
}

// Status renders "done/total files[, N failed][, in flight: f (stage), ...]".
// It is empty until the first file is queued.
func (c *Counter) Status() string {
	if c == nil {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.total == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d/%d files", c.done+c.failed, c.total)
	if c.failed > 0 {
		fmt.Fprintf(&sb, ", %d failed", c.failed)
	}
	if len(c.inFlight) == 0 {
		return sb.String()
	}
	files := make([]string, 0, len(c.inFlight))
	for f := range c.inFlight {
		files = append(files, f)
	}
	sort.Strings(files)
	sb.WriteString(", in flight: ")
	for i, f := range files {
		if i == maxInFlightShown {
			fmt.Fprintf(&sb, ", +%d more", len(files)-maxInFlightShown)
			break
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s (%s)", f, c.inFlight[f])
	}
	return sb.String()
}
