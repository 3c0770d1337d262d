package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat emits a driver-scope event every interval while a command runs.
// The event detail is "#seq" followed by the status line of the run, e.g.
// "#4 2/5 files, in flight: big.tc (generate)": a file that stays in flight
// across several beats belongs to a stuck worker.
type Heartbeat struct {
	tracer Tracer
	status func() string
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// StartHeartbeat starts beating. status may be nil. It returns nil when
// tracing is off or interval is not positive.
func StartHeartbeat(tracer Tracer, interval time.Duration, status func() string) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer: tracer,
		status: status,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go h.loop(time.NewTicker(interval))
	return h
}

func (h *Heartbeat) loop(ticker *time.Ticker) {
	defer close(h.done)
	defer ticker.Stop()
	for seq := uint64(1); ; seq++ {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			h.beat(seq)
		}
	}
}

func (h *Heartbeat) beat(seq uint64) {
	detail := fmt.Sprintf("#%d", seq)
	if h.status != nil {
		if s := h.status(); s != "" {
			detail += " " + s
		}
	}
	h.tracer.Emit(&Event{
		Time:   time.Now(),
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		GID:    getGoroutineID(),
		Name:   "heartbeat",
		Detail: detail,
	})
}

// Stop ends the beat and waits for the goroutine. Safe on nil and when repeated.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
