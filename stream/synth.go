package stream

import "github.com/pkg/errors"

// Filler synthesizes one buffer of signed 16-bit samples stored as uint16.
type Filler interface {
	Fill(buf []uint16)
}

type Waveform uint8

const (
	Square Waveform = iota
	Saw
	Triangle
)

func (w Waveform) String() string {
	switch w {
	case Square:
		return "square"
	case Saw:
		return "saw"
	case Triangle:
		return "triangle"
	}
	return "unknown"
}

// ParseWaveform accepts the names String returns.
func ParseWaveform(s string) (Waveform, error) {
	for _, w := range []Waveform{Square, Saw, Triangle} {
		if s == w.String() {
			return w, nil
		}
	}
	return 0, errors.Errorf("unknown waveform %q", s)
}

// Default sweep, in Hz.
const (
	SweepFrom = 50
	SweepTo   = 440
	SweepStep = 1
)

// Synth is a 32-bit phase accumulator oscillator. Each Fill plays one buffer
// at the current frequency, then steps the frequency by SweepStep, wrapping
// from SweepTo back to SweepFrom. SweepStep 0 holds the frequency.
type Synth struct {
	Waveform   Waveform
	SampleRate uint32
	Amplitude  int16

	SweepFrom uint32
	SweepTo   uint32
	SweepStep uint32

	freq  uint32
	phase uint32
}

func NewSynth(w Waveform, sampleRate uint32) *Synth {
	s := &Synth{
		Waveform:   w,
		SampleRate: sampleRate,
		Amplitude:  0x7FFF,
		SweepFrom:  SweepFrom,
		SweepTo:    SweepTo,
		SweepStep:  SweepStep,
	}
	s.Reset()
	return s
}

// Reset restarts the sweep at SweepFrom with zero phase.
func (s *Synth) Reset() {
	s.freq = s.SweepFrom
	s.phase = 0
}

// Frequency is the frequency the next Fill plays, in Hz.
func (s *Synth) Frequency() uint32 { return s.freq }

func (s *Synth) Fill(buf []uint16) {
	var inc uint32
	if s.SampleRate != 0 {
		inc = uint32(uint64(s.freq) << 32 / uint64(s.SampleRate))
	}
	a := int32(s.Amplitude)
	ph := s.phase
	for i := range buf {
		buf[i] = uint16(int16(sample(s.Waveform, ph) * a >> 15))
		ph += inc
	}
	s.phase = ph

	if s.SweepStep != 0 {
		s.freq += s.SweepStep
		if s.freq > s.SweepTo {
			s.freq = s.SweepFrom
		}
	}
}

// sample is the full scale value in [-32768, 32767] at phase ph.
func sample(w Waveform, ph uint32) int32 {
	switch w {
	case Saw:
		return int32(ph>>16) - 0x8000
	case Triangle:
		t := int32(ph >> 15) // 0 .. 0x1FFFF
		if t < 0x10000 {
			return t - 0x8000
		}
		return 0x17FFF - t
	}
	if ph < 1<<31 {
		return 0x7FFF
	}
	return -0x8000
}
