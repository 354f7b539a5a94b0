// Package stream keeps a transfer engine fed from a small fixed set of
// buffers. Software fills one buffer while the engine drains another; the
// only synchronization is the engine's Ready predicate.
package stream

import (
	"time"

	"github.com/pkg/errors"
)

// TransferEngine drains sample buffers concurrently with the caller.
//
// Ready reports, without blocking, whether Commit can take another buffer.
// A committed buffer belongs to the engine until the following Commit has
// been accepted and Ready has reported true again; the caller must not
// write it before then.
type TransferEngine interface {
	Ready() bool
	Commit(buf []uint16) error
}

type Config struct {
	// At least 2. With 2 the fill waits for Ready, so filling no longer
	// overlaps the engine's wait.
	Buffers   int
	BufferLen int // samples per buffer

	// A commit preceded by fewer failed Ready polls than this is reported
	// as a possible underrun.
	UnderrunThreshold int

	// Throughput is reported once every StatsWindow ticks; 0 disables it.
	StatsWindow    uint64
	TicksPerSecond uint64

	// PollBackoff sleeps between failed Ready polls. 0 spins.
	PollBackoff time.Duration
}

// DefaultConfig rotates three buffers and reports once a second on a 10 ms
// tick.
var DefaultConfig = Config{
	Buffers:           3,
	BufferLen:         1024,
	UnderrunThreshold: 1,
	StatsWindow:       1000 / TickPeriodMillis,
	TicksPerSecond:    1000 / TickPeriodMillis,
}

// Stats are running totals since New.
type Stats struct {
	Iterations        uint64
	Samples           uint64
	Transfers         uint64
	PossibleUnderruns uint64
	CommitFailures    uint64

	// last reported window
	SamplesPerSec   uint64
	TransfersPerSec uint64
}

type Scheduler struct {
	cfg    Config
	engine TransferEngine
	fill   Filler
	clock  TickSource
	report Reporter

	bufs  [][]uint16
	owned int // last committed slot, -1 before the first commit
	next  int

	stats        Stats
	winStart     uint64
	winSamples   uint64
	winTransfers uint64
}

// New allocates the buffers up front; Step does not allocate. A nil
// reporter discards diagnostics.
func New(engine TransferEngine, fill Filler, clock TickSource, report Reporter, cfg Config) (*Scheduler, error) {
	if cfg.Buffers < 2 {
		return nil, errors.Errorf("stream: %d buffers, need at least 2", cfg.Buffers)
	}
	if cfg.BufferLen < 1 {
		return nil, errors.Errorf("stream: buffer length %d", cfg.BufferLen)
	}
	if report == nil {
		report = Discard{}
	}
	s := &Scheduler{
		cfg:    cfg,
		engine: engine,
		fill:   fill,
		clock:  clock,
		report: report,
		bufs:   make([][]uint16, cfg.Buffers),
		owned:  -1,
	}
	backing := make([]uint16, cfg.Buffers*cfg.BufferLen)
	for i := range s.bufs {
		s.bufs[i] = backing[i*cfg.BufferLen : (i+1)*cfg.BufferLen : (i+1)*cfg.BufferLen]
	}
	s.winStart = clock.Ticks()
	return s, nil
}

// HardwareOwned is the slot last handed to the engine, or -1.
func (s *Scheduler) HardwareOwned() int { return s.owned }

func (s *Scheduler) Stats() Stats { return s.stats }

// Step runs one iteration: fill the next slot, wait for the engine, commit.
// With two buffers the next slot is the one committed two steps ago, so the
// wait comes before the fill. On a commit error the slot stays software
// owned and is refilled by the next Step.
func (s *Scheduler) Step() error {
	slot := s.next
	buf := s.bufs[slot]
	var polls int
	if len(s.bufs) == 2 {
		polls = s.wait()
		s.fill.Fill(buf)
	} else {
		s.fill.Fill(buf)
		polls = s.wait()
	}

	s.stats.Iterations++
	if err := s.engine.Commit(buf); err != nil {
		s.stats.CommitFailures++
		return errors.WithMessage(err, "commit")
	}
	s.owned = slot
	s.next = (slot + 1) % len(s.bufs)

	// Ready with no wait at all. Kept as observed on hardware: it fires on
	// a fast producer, not on a drained engine.
	if polls < s.cfg.UnderrunThreshold {
		s.stats.PossibleUnderruns++
		s.report.PossibleUnderrun(s.stats.Iterations, polls)
	}

	s.stats.Samples += uint64(len(buf))
	s.stats.Transfers++
	s.throughput()
	return nil
}

// wait polls Ready until it reports true and returns the failed polls.
func (s *Scheduler) wait() int {
	polls := 0
	for !s.engine.Ready() {
		polls++
		if s.cfg.PollBackoff > 0 {
			time.Sleep(s.cfg.PollBackoff)
		}
	}
	return polls
}

func (s *Scheduler) throughput() {
	if s.cfg.StatsWindow == 0 {
		return
	}
	now := s.clock.Ticks()
	elapsed := now - s.winStart
	if elapsed < s.cfg.StatsWindow {
		return
	}
	s.stats.SamplesPerSec = (s.stats.Samples - s.winSamples) * s.cfg.TicksPerSecond / elapsed
	s.stats.TransfersPerSec = (s.stats.Transfers - s.winTransfers) * s.cfg.TicksPerSecond / elapsed
	s.report.Throughput(s.stats.SamplesPerSec, s.stats.TransfersPerSec)
	s.winStart = now
	s.winSamples = s.stats.Samples
	s.winTransfers = s.stats.Transfers
}

// Run steps forever. Commit failures go to the reporter and the loop
// carries on.
func (s *Scheduler) Run() {
	for {
		if err := s.Step(); err != nil {
			s.report.CommitFailed(err)
		}
	}
}
