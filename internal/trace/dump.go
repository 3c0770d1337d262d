package trace

import (
	"errors"
	"fmt"
	"io"
)

// RingOf returns the ring buffer behind t: t itself or the ring inside a MultiTracer.
func RingOf(t Tracer) (*RingTracer, bool) {
	switch tr := t.(type) {
	case *RingTracer:
		return tr, true
	case *MultiTracer:
		return tr.Ring()
	}
	return nil, false
}

// Finish flushes and closes t, which was built by New(cfg). When failed is set
// and cfg.Mode is ModeRing, the buffered events are first written to cfg's
// output: in ring mode that is the only time the output is opened. In
// ModeBoth the stream has already written every event, so nothing is dumped.
func Finish(t Tracer, cfg Config, failed bool) error {
	if t == nil {
		return nil
	}
	var errs []error
	if failed && cfg.Mode == ModeRing {
		if ring, ok := RingOf(t); ok {
			errs = append(errs, dumpRing(ring, cfg))
		}
	}
	errs = append(errs, t.Flush(), t.Close())
	return errors.Join(errs...)
}

func dumpRing(ring *RingTracer, cfg Config) (err error) {
	w, err := openOutput(cfg)
	if err != nil {
		return err
	}
	if c, ok := w.(io.Closer); ok {
		defer func() {
			if closeErr := c.Close(); err == nil {
				err = closeErr
			}
		}()
	}
	if err := ring.Dump(w, cfg.format()); err != nil {
		return fmt.Errorf("trace dump: %w", err)
	}
	return nil
}
