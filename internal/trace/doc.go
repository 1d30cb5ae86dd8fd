// Package trace records analysis phases so slow files and stuck runs can be
// diagnosed.
//
// # Usage
//
//	hone check --trace=- --trace-level=phase ./src
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only rule failures
//   - LevelPhase: Driver and pass boundaries
//   - LevelDetail: Per-file events
//   - LevelDebug: Everything including per-rule spans
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+path)
//	defer span.End("")
package trace
