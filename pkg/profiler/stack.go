package profiler

// frame is an open unit of work. It owns the record in slot until it is
// ended, partitioned away, or abandoned by Stop.
type frame struct {
	name  string
	start int64
	slot  int
}

// stack holds open frames innermost last.
type stack struct {
	frames []frame
}

func newStack(capacity int) *stack {
	return &stack{frames: make([]frame, 0, capacity)}
}

func (s *stack) push(f frame) {
	s.frames = append(s.frames, f)
}

// pop removes the innermost frame. ok is false when the stack is empty.
func (s *stack) pop() (f frame, ok bool) {
	n := len(s.frames)
	if n == 0 {
		return frame{}, false
	}

	f = s.frames[n-1]
	s.frames = s.frames[:n-1]

	return f, true
}

func (s *stack) len() int {
	return len(s.frames)
}

// names returns open frame names outermost first.
func (s *stack) names() []string {
	out := make([]string, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.name
	}

	return out
}

// drain discards every frame and returns how many there were.
func (s *stack) drain() int {
	n := len(s.frames)
	s.frames = s.frames[:0]

	return n
}
