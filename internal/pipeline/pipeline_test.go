package pipeline

import (
	"strings"
	"sync"
	"testing"
)

func TestRecorderConcurrent(t *testing.T) {
	var rec Recorder
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Emit(&rec, Event{File: "a.tc", Stage: StageAnalyze, Status: StatusWorking})
		}()
	}
	wg.Wait()
	if got := len(rec.Events()); got != 8 {
		t.Fatalf("got %d events, want 8", got)
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "x", Status: StatusDone, Changed: true})
	ev := <-ch
	if ev.File != "x" || !ev.Changed {
		t.Fatalf("unexpected event %+v", ev)
	}
	// nil channel and nil sink are no-ops
	ChannelSink{}.OnEvent(Event{})
	Emit(nil, Event{})
}

func TestCounterStatus(t *testing.T) {
	c := NewCounter()
	if got := c.Status(); got != "" {
		t.Fatalf("empty counter status = %q", got)
	}
	for _, f := range []string{"a.tc", "b.tc", "c.tc", "d.tc", "e.tc"} {
		c.OnEvent(Event{File: f, Stage: StageLoad, Status: StatusQueued})
	}
	c.OnEvent(Event{File: "a.tc", Stage: StageAnalyze, Status: StatusWorking})
	c.OnEvent(Event{File: "a.tc", Stage: StageWrite, Status: StatusDone})
	c.OnEvent(Event{File: "b.tc", Stage: StageLoad, Status: StatusError})
	c.OnEvent(Event{File: "e.tc", Stage: StageGenerate, Status: StatusWorking})
	c.OnEvent(Event{File: "c.tc", Stage: StageAnalyze, Status: StatusWorking})
	c.OnEvent(Event{File: "d.tc", Stage: StageAnalyze, Status: StatusWorking})
	c.OnEvent(Event{Status: StatusDone}) // run-level events are ignored

	want := "2/5 files, 1 failed, in flight: c.tc (analyze), d.tc (analyze), e.tc (generate)"
	if got := c.Status(); got != want {
		t.Fatalf("Status() = %q, want %q", got, want)
	}

	c.OnEvent(Event{File: "f.tc", Stage: StageLoad, Status: StatusQueued})
	c.OnEvent(Event{File: "f.tc", Stage: StageWrite, Status: StatusWorking})
	if got := c.Status(); !strings.HasSuffix(got, "e.tc (generate), +1 more") {
		t.Fatalf("Status() = %q, want a +1 more suffix", got)
	}

	var nilCounter *Counter
	if nilCounter.Status() != "" {
		t.Fatal("nil counter must report an empty status")
	}
}

func TestTee(t *testing.T) {
	var a, b Recorder
	Tee{&a, nil, &b}.OnEvent(Event{File: "x", Status: StatusQueued})
	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Fatalf("tee delivered %d and %d events, want 1 and 1", len(a.Events()), len(b.Events()))
	}
}
