package profiler

import (
	"runtime"
	"strings"
)

// BeginCaller opens a frame named after the calling function, using the
// call site line as locator.
func (p *Profiler) BeginCaller() {
	if p.state != StateRunning {
		return
	}

	name, line := caller(1)
	p.Begin(name, line)
}

// EndCaller closes the frame opened by BeginCaller in the same function.
func (p *Profiler) EndCaller() error {
	if p.state != StateRunning {
		return nil
	}

	name, _ := caller(1)

	return p.End(name)
}

// PartitionCaller partitions the innermost frame as id, using the call site line.
func (p *Profiler) PartitionCaller(id string) error {
	if p.state != StateRunning {
		return nil
	}

	_, line := caller(1)

	return p.Partition(id, line)
}

// Frame opens a frame and returns the function that ends it:
//
//	defer p.Frame("load", 42)()
func (p *Profiler) Frame(name string, line int) func() error {
	p.Begin(name, line)

	return func() error {
		return p.End(name)
	}
}

// caller returns the short function name and line skip frames above its caller.
func caller(skip int) (string, int) {
	pc, _, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "", 0
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "", line
	}

	return shortFuncName(fn.Name()), line
}

// shortFuncName strips the import path, the package name and any closure
// suffixes, so "example.com/app/pkg.(*T).Run.func1.2" becomes "(*T).Run".
// A deferred closure therefore resolves to the function that declared it.
func shortFuncName(full string) string {
	if i := strings.LastIndexByte(full, '/'); i >= 0 {
		full = full[i+1:]
	}

	if i := strings.IndexByte(full, '.'); i >= 0 {
		full = full[i+1:]
	}

	for {
		i := strings.LastIndexByte(full, '.')
		if i < 0 || !isClosureSegment(full[i+1:]) {
			return full
		}

		full = full[:i]
	}
}

// isClosureSegment matches the "funcN" and bare "N" parts the compiler
// appends to closure names.
func isClosureSegment(seg string) bool {
	seg = strings.TrimPrefix(seg, "func")
	if seg == "" {
		return false
	}

	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
