// Package trace records where time goes while units are decoded and lowered.
//
// Tracers receive Events: span begin/end pairs plus instant points and
// heartbeats. StreamTracer writes them as they arrive, RingTracer keeps the
// most recent ones in memory for post-mortem dumps and Tee fans out to both.
//
// Verbosity is a Level; each Event carries a Scope and a tracer drops events
// whose Scope is finer than its Level allows:
//
//	LevelPhase  -> ScopeDriver, ScopePass   (run, decode, lower, xref)
//	LevelDetail -> + ScopeModule            (one translation unit)
//	LevelDebug  -> + ScopeNode              (individual foreign nodes)
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lower", 0)
//	defer span.End("")
package trace
