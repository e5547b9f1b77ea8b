package profiler

//go:generate enumer -type=State -trimprefix=State -transform=lower -text
//go:generate go run github.com/smykla-skalski/frametrace/tools/enumerfix state_enumer.go

// State is the session state of a Profiler.
type State int

const (
	// StateStopped means Begin, End and Partition are no-ops.
	StateStopped State = iota

	// StateRunning means frames are being recorded.
	StateRunning
)
