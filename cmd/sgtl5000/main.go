//go:build linux && !tinygo

// sgtl5000 brings up an SGTL5000 on a Linux i2c adapter and streams a test
// sweep to the speaker or a WAV file through the buffer rotation the
// firmware uses.
package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/elehobica/pico_tinygo_sgtl5000/engine"
	"github.com/elehobica/pico_tinygo_sgtl5000/linuxi2c"
	"github.com/elehobica/pico_tinygo_sgtl5000/sgtl5000"
	"github.com/elehobica/pico_tinygo_sgtl5000/stream"
	"github.com/pkg/errors"
)

func main() {
	opt, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "usage:", Usage)
		os.Exit(2)
	}
	l := &logger{syslog: opt.syslog}
	if err := run(opt, l); err != nil {
		l.Error(err)
		os.Exit(1)
	}
}

type drainer interface {
	stream.TransferEngine
	Starved() uint64
	Close() error
}

func run(opt *options, l *logger) error {
	var dev *sgtl5000.Device
	if opt.bus >= 0 {
		bus, err := linuxi2c.Open(opt.bus, sgtl5000.Address)
		if err != nil {
			return err
		}
		defer bus.Close()
		dev, err = bringUp(bus, opt, l)
		if err != nil {
			return err
		}
		if opt.dump {
			return dev.Dump(os.Stdout, sgtl5000.REG_CHIP_ID, sgtl5000.REG_SHORT_CTRL)
		}
	} else {
		l.Warn("no -bus: streaming without a codec")
	}

	if opt.out == "none" {
		return nil
	}
	rate := opt.config.SampleRate()
	var eng drainer
	if opt.out == "speaker" {
		o, err := engine.NewOto(rate, 0)
		if err != nil {
			return err
		}
		eng = o
	} else {
		f, err := os.Create(opt.out)
		if err != nil {
			return err
		}
		defer f.Close()
		period := time.Duration(opt.sched.BufferLen) * time.Second / time.Duration(rate)
		eng = engine.NewWAV(f, rate, opt.sched.BufferLen, period)
	}

	var clock stream.Clock
	ticker := time.NewTicker(stream.TickPeriodMillis * time.Millisecond)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			clock.Tick()
		}
	}()

	cfg := opt.sched
	cfg.PollBackoff = 250 * time.Microsecond
	rep := &reporter{l: l}
	s, err := stream.New(eng, stream.NewSynth(opt.wave, uint32(rate)), &clock, rep, cfg)
	if err != nil {
		eng.Close()
		return err
	}

	var stop atomic.Bool
	if opt.keys {
		if err := keyboard.Open(); err != nil {
			eng.Close()
			return errors.Wrap(err, "keyboard")
		}
		defer keyboard.Close()
		go keys(dev, opt, l, &stop)
	}

	l.Info(fmt.Sprintf("streaming %v at %d Hz to %s, %d x %d samples",
		opt.wave, rate, opt.out, cfg.Buffers, cfg.BufferLen))
	deadline := uint64(opt.seconds) * 1000 / stream.TickPeriodMillis
	for !stop.Load() && (deadline == 0 || clock.Ticks() < deadline) {
		if err := s.Step(); err != nil {
			rep.CommitFailed(err)
		}
	}

	st := s.Stats()
	l.Info(fmt.Sprintf("%d transfers, %d samples, %d possible underruns, %d starved reads",
		st.Transfers, st.Samples, st.PossibleUnderruns, eng.Starved()))
	return eng.Close()
}

func bringUp(bus *linuxi2c.Bus, opt *options, l *logger) (*sgtl5000.Device, error) {
	dev := sgtl5000.New(bus)
	if err := dev.Configure(opt.config); err != nil {
		var ie *sgtl5000.IdentificationError
		if errors.As(err, &ie) {
			return nil, errors.Errorf("no SGTL5000 on i2c-%d: part %02x rev %02x",
				opt.bus, ie.PartID, ie.RevID)
		}
		return nil, errors.WithMessage(err, "codec configure")
	}
	id := dev.ChipID()
	l.Info(fmt.Sprintf("SGTL5000 rev %x on i2c-%d, %v route, VAG code %x",
		sgtl5000.ChipIDRevID.Get(id), opt.bus, opt.config.Route,
		sgtl5000.ReferenceCode(opt.config.SupplyMillivolts)))
	if opt.volume >= 0 {
		if err := dev.SetDACVolume(sgtl5000.Uniform(uint8(opt.volume))); err != nil {
			return nil, err
		}
	}
	return dev, nil
}

// keys is the serial volume loop of the firmware on a terminal: + and -
// step the DAC volume, m toggles mute, q or Esc stops.
func keys(dev *sgtl5000.Device, opt *options, l *logger, stop *atomic.Bool) {
	volume := 0xFF
	if opt.volume >= 0 {
		volume = opt.volume
	}
	muted := false
	for {
		char, key, err := keyboard.GetKey()
		if err != nil {
			l.Error(errors.Wrap(err, "keyboard"))
			return
		}
		if char == 'q' || key == keyboard.KeyEsc || key == keyboard.KeyCtrlC {
			stop.Store(true)
			return
		}
		if dev == nil {
			l.Warn("no codec for volume keys")
			continue
		}
		switch char {
		case '+':
			volume = min(volume+16, 0xFF)
			err = dev.SetDACVolume(sgtl5000.Uniform(uint8(volume)))
		case '-':
			volume = max(volume-16, 0)
			err = dev.SetDACVolume(sgtl5000.Uniform(uint8(volume)))
		case 'm':
			muted = !muted
			err = dev.MuteDAC(muted)
		default:
			continue
		}
		if err != nil {
			l.Error(err)
			continue
		}
		l.Info(fmt.Sprintf("volume %d muted %v", volume, muted))
	}
}
