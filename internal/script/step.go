// Package script runs YAML-described workloads against a profiler.
//
// A script lists steps executed in order:
//
//	name: render-loop
//	steps:
//	  - start
//	  - begin: render
//	  - sleep: 2ms
//	  - partition: second-pass
//	  - log: "rendered {0} items"
//	    args: [42]
//	  - end: render
//	  - repeat:
//	      times: 3
//	      steps:
//	        - begin: tick
//	        - end: tick
//	  - stop
//
// Each step's line number is passed to the profiler as the frame's line.
package script

import (
	"time"
)

// Op is a step operation.
type Op string

// Step operations.
const (
	OpStart     Op = "start"
	OpStop      Op = "stop"
	OpReset     Op = "reset"
	OpBegin     Op = "begin"
	OpEnd       Op = "end"
	OpPartition Op = "partition"
	OpLog       Op = "log"
	OpSleep     Op = "sleep"
	OpRepeat    Op = "repeat"
)

// bareOps take no argument and may be written as a plain scalar.
var bareOps = map[Op]bool{
	OpStart: true,
	OpStop:  true,
	OpReset: true,
}

// scalarOps take a single scalar argument.
var scalarOps = map[Op]bool{
	OpBegin:     true,
	OpEnd:       true,
	OpPartition: true,
	OpLog:       true,
	OpSleep:     true,
}

// Step is a single scripted operation.
type Step struct {
	Op Op

	// Arg is the frame name for begin/end, the partition id, or the log format.
	Arg string

	// Args are the log arguments.
	Args []any

	// Sleep is the pause for sleep steps.
	Sleep time.Duration

	// Times and Steps describe a repeat block.
	Times int
	Steps []Step

	// Line is the 1-based line of the step in the script source.
	Line int
}

// Script is a parsed workload.
type Script struct {
	Name  string
	Steps []Step
}

// Count returns the number of steps executed by the script, expanding repeats.
func (s *Script) Count() int {
	return countSteps(s.Steps)
}

func countSteps(steps []Step) int {
	n := 0

	for _, st := range steps {
		if st.Op == OpRepeat {
			n += st.Times * countSteps(st.Steps)

			continue
		}

		n++
	}

	return n
}
