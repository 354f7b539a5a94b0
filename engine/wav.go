package engine

import (
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

// Immediate drains each block as soon as it is committed.
const Immediate time.Duration = 0

// WAV captures committed blocks and writes them as a 16-bit mono WAV file
// on Close. With a non-zero period it drains one block per period, so a
// slow producer leaves silence in the capture the way it would on the
// speaker.
type WAV struct {
	w      io.WriteSeeker
	format beep.Format
	period time.Duration
	block  int

	q       queue
	mu      sync.Mutex
	capture []uint16

	stop chan struct{}
	done chan struct{}
}

// NewWAV starts a capture to w. blockLen is only used with a non-zero
// period and should match the scheduler's buffer length.
func NewWAV(w io.WriteSeeker, sampleRate, blockLen int, period time.Duration) *WAV {
	e := &WAV{
		w: w,
		format: beep.Format{
			SampleRate:  beep.SampleRate(sampleRate),
			NumChannels: 1,
			Precision:   2,
		},
		period: period,
		block:  blockLen,
	}
	if period != Immediate {
		e.stop = make(chan struct{})
		e.done = make(chan struct{})
		go e.drain()
	}
	return e
}

func (e *WAV) drain() {
	defer close(e.done)
	t := time.NewTicker(e.period)
	defer t.Stop()
	buf := make([]uint16, e.block)
	for {
		select {
		case <-e.stop:
			return
		case <-t.C:
			e.q.read(buf)
			e.mu.Lock()
			e.capture = append(e.capture, buf...)
			e.mu.Unlock()
		}
	}
}

func (e *WAV) Ready() bool { return e.q.ready() }

func (e *WAV) Commit(buf []uint16) error {
	if err := e.q.commit(buf); err != nil {
		return err
	}
	if e.period == Immediate {
		e.mu.Lock()
		e.capture = e.q.flush(e.capture)
		e.mu.Unlock()
	}
	return nil
}

// Starved counts drain periods that found no block.
func (e *WAV) Starved() uint64 { return e.q.starvedCount() }

// Samples is the number of samples captured so far.
func (e *WAV) Samples() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.capture)
}

// Close stops draining, appends whatever is still queued and encodes the
// file. It does not close w.
func (e *WAV) Close() error {
	if e.stop != nil {
		close(e.stop)
		<-e.done
		e.stop = nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.capture = e.q.flush(e.capture)
	if len(e.capture) == 0 {
		return errors.New("wav: nothing captured")
	}
	return errors.Wrap(wav.Encode(e.w, &captureStreamer{data: e.capture}, e.format), "wav")
}

// captureStreamer replays the capture as a beep.Streamer.
type captureStreamer struct {
	data []uint16
	pos  int
}

func (s *captureStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) && s.pos < len(s.data) {
		v := float64(int16(s.data[s.pos])) / (1<<15 - 1)
		samples[n][0], samples[n][1] = v, v
		n++
		s.pos++
	}
	return n, n > 0
}

func (s *captureStreamer) Err() error { return nil }
