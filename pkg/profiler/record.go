package profiler

import (
	"fmt"
	"time"
)

const (
	// Unfinalized is the Ticks value of a record whose frame is still open or was abandoned.
	Unfinalized int64 = -1

	// DefaultCapacity is the number of records the buffer is pre-sized for.
	DefaultCapacity = 1000
)

// Record is the timing entry written for one frame.
type Record struct {
	// Name is the frame name.
	Name string

	// ID is the partition label. Only meaningful when Partitioned is true.
	ID string

	// Partitioned reports whether the record was created by Partition.
	Partitioned bool

	// Depth is the nesting level when the frame began.
	Depth int

	// Line is the caller-supplied source locator.
	Line int

	// Ticks is the frame duration, or Unfinalized.
	Ticks int64
}

// Finalized reports whether the record's frame has been ended or partitioned away.
func (r Record) Finalized() bool {
	return r.Ticks >= 0
}

// Duration returns the frame duration, or 0 for unfinalized records.
func (r Record) Duration() time.Duration {
	if !r.Finalized() {
		return 0
	}

	return time.Duration(r.Ticks)
}

// Label returns "name/id" for partitioned records and the bare name otherwise.
func (r Record) Label() string {
	if r.Partitioned {
		return r.Name + "/" + r.ID
	}

	return r.Name
}

// String returns "name id ticks".
func (r Record) String() string {
	return fmt.Sprintf("%s %s %d", r.Name, r.ID, r.Ticks)
}

// buffer is the append-only record store. Slots are stable until reset.
type buffer struct {
	records []Record
}

func newBuffer(capacity int) *buffer {
	return &buffer{records: make([]Record, 0, capacity)}
}

// append stores r and returns its slot.
func (b *buffer) append(r Record) int {
	b.records = append(b.records, r)

	return len(b.records) - 1
}

// finalize writes the duration of the record in slot.
func (b *buffer) finalize(slot int, ticks int64) {
	b.records[slot].Ticks = ticks
}

func (b *buffer) len() int {
	return len(b.records)
}

// snapshot returns a copy of all records in append order.
func (b *buffer) snapshot() []Record {
	out := make([]Record, len(b.records))
	copy(out, b.records)

	return out
}

func (b *buffer) reset() {
	clear(b.records)
	b.records = b.records[:0]
}
