// Package profiler is a low-overhead hierarchical frame timer.
//
// Callers mark the start and end of named frames; the profiler records each
// frame's nesting depth and duration in an append-only buffer, plus an
// auxiliary free-text log:
//
//	p := profiler.New()
//	p.Start()
//
//	p.Begin("load", 10)
//	p.Begin("parse", 11)
//	_ = p.End("parse")
//	_ = p.Partition("index", 13) // "load" continues as load/index
//	_ = p.End("load")
//
//	p.Stop()
//
//	for _, r := range p.Records() {
//		fmt.Println(r.Depth, r.Label(), r.Duration())
//	}
//
// # Sessions
//
// Frames are only recorded between Start and Stop. While stopped, Begin, End
// and Partition return immediately, so instrumentation can stay in place.
// Stop abandons open frames: their records keep the Unfinalized duration.
//
// # Nesting
//
// End must name the innermost open frame. A mismatch is a caller bug and is
// reported as an error wrapping [ErrFrameMismatch]; records already written
// are left untouched.
//
// # Auxiliary log
//
// [Log.Write] appends regardless of session state and may be called from any
// goroutine. [Lazy] arguments are evaluated only when an [Entry] is rendered.
package profiler
