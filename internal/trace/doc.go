// Package trace provides the operational log of textconf: a levelled tracer
// that records driver, file and pass boundaries.
//
// # Usage
//
//	textconf gen --trace=- --trace-level=phase templates/
//
// # Implementations
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (stderr or a file)
//   - RingTracer: keeps the last N events for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits driver and file events, LevelDetail adds passes
// (scan, collect, generate), LevelDebug emits everything including
// per-placeholder events. LevelError only fills the ring for crash dumps.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file", 0)
//	defer span.End("")
package trace
