// Package trace records evaluation spans for lumen.
//
// Tracing is the tool's logging channel: suite runs, per-file sessions,
// individual cases and (at debug level) every operator or builtin dispatch
// inside the evaluator emit begin/end events.
//
// # Usage
//
//	lumen eval --trace=- --trace-level=case suites/
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write (text or NDJSON) to a file or stderr
//   - RingTracer: last N events in memory, dumped when a run fails
//   - MultiTracer: fan-out
//
// # Levels and scopes
//
// Scopes from coarse to fine are run, suite, case and node. Level phase
// emits run and suite, detail adds case, debug adds node. Level error keeps
// the ring silent until a failure dump.
//
// # Context
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeSuite, "suite", 0)
//	defer span.End("")
package trace
