// Package trace records what the symbol providers do: cache fills, hits,
// invalidations and binder failures.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	declsym symbols --trace=- --trace-level=detail workspace.toml src/Shapes.fs
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory for dumps and tests
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level admits every scope at or above its granularity:
//
//   - LevelPhase: ScopeSession and ScopeProvider events
//   - LevelDetail: adds ScopeFile events
//   - LevelDebug: adds ScopeQuery events
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeProvider, "warm", 0)
//	defer span.End("")
package trace
