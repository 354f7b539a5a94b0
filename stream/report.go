package stream

import (
	"fmt"
	"io"
)

// Reporter receives the loop's diagnostics. Calls are made from the loop
// itself and must not block for long.
type Reporter interface {
	PossibleUnderrun(iteration uint64, polls int)
	Throughput(samplesPerSec, transfersPerSec uint64)
	CommitFailed(err error)
}

// TextReporter writes one line per event.
type TextReporter struct {
	W io.Writer
}

func (r TextReporter) PossibleUnderrun(iteration uint64, polls int) {
	fmt.Fprintf(r.W, "Underrun? iteration %d, %d polls\r\n", iteration, polls)
}

func (r TextReporter) Throughput(samplesPerSec, transfersPerSec uint64) {
	fmt.Fprintf(r.W, "%d s/s, %d t/s\r\n", samplesPerSec, transfersPerSec)
}

func (r TextReporter) CommitFailed(err error) {
	fmt.Fprintf(r.W, "commit failed: %v\r\n", err)
}

// Discard drops every event.
type Discard struct{}

func (Discard) PossibleUnderrun(uint64, int) {}
func (Discard) Throughput(uint64, uint64) {}
func (Discard) CommitFailed(error) {}
