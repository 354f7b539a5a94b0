//go:build tinygo

package main

import (
	"fmt"
	"machine"
	"time"

	"github.com/elehobica/pico_tinygo_sgtl5000/sgtl5000"
	"github.com/elehobica/pico_tinygo_sgtl5000/stream"
	"github.com/pkg/errors"
)

var (
	i2c       *machine.I2C
	sclPin    machine.Pin
	sdaPin    machine.Pin
	i2s       *machine.I2S
	i2sConfig machine.I2SConfig
	ledPin    machine.Pin
	serial    = machine.Serial

	codecConfig = sgtl5000.Config32kDirect
)

type Pin struct {
	*machine.Pin
}

func (pin Pin) Toggle() {
	pin.Set(!pin.Get())
}

func (pin Pin) ErrorBlinkFor(count int) {
	for {
		for i := 0; i < count; i++ {
			pin.High()
			time.Sleep(250 * time.Millisecond)
			pin.Low()
			time.Sleep(250 * time.Millisecond)
		}
		pin.Low()
		time.Sleep(500 * time.Millisecond)
	}
}

type TestError struct {
	error
	Code int
}

var errBusy = errors.New("i2s: buffer pending")

// i2sEngine writes committed buffers from its own goroutine. The channel
// is the pending slot; the goroutine holds the buffer being written.
type i2sEngine struct {
	i2s *machine.I2S
	ch  chan []uint16
}

func newI2SEngine(i2s *machine.I2S) *i2sEngine {
	e := &i2sEngine{i2s: i2s, ch: make(chan []uint16, 1)}
	go func() {
		for buf := range e.ch {
			e.i2s.WriteMono(buf)
		}
	}()
	return e
}

func (e *i2sEngine) Ready() bool {
	return len(e.ch) < cap(e.ch)
}

func (e *i2sEngine) Commit(buf []uint16) error {
	select {
	case e.ch <- buf:
		return nil
	default:
		return errBusy
	}
}

func main() {
	led := &Pin{&ledPin}
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.High()

	i2c.Configure(machine.I2CConfig{
		SCL:       sclPin,
		SDA:       sdaPin,
		Frequency: 100 * machine.KHz,
	})
	codec := sgtl5000.New(i2c)

	// Start Test; streams until reset
	err := sgtl5000_test(led, codec)
	if err != nil {
		fmt.Printf("ERROR[%d]: %s\r\n", err.Code, err.Error())
		led.ErrorBlinkFor(err.Code)
	}
}

func sgtl5000_test(led *Pin, codec *sgtl5000.Device) (testError *TestError) {
	println()
	println()
	println("==========================")
	println("== pico_tinygo_sgtl5000 ==")
	println("==========================")

	err := codec.Configure(codecConfig)
	if errors.Is(err, sgtl5000.ErrIdentification) {
		return &TestError{error: fmt.Errorf("codec identification error: %s", err.Error()), Code: 1}
	}
	if err != nil {
		return &TestError{error: fmt.Errorf("codec configure error: %s", err.Error()), Code: 2}
	}
	fmt.Printf("SGTL5000 rev %x ready, VAG code %x\r\n",
		sgtl5000.ChipIDRevID.Get(codec.ChipID()), sgtl5000.ReferenceCode(codecConfig.SupplyMillivolts))

	rate := codecConfig.SampleRate()
	i2sConfig.AudioFrequency = uint32(rate)
	i2s.Configure(i2sConfig)

	var clock stream.Clock
	go func() {
		for {
			time.Sleep(stream.TickPeriodMillis * time.Millisecond)
			clock.Tick()
		}
	}()

	cfg := stream.DefaultConfig
	// the scheduler is cooperative: waiting must yield to the I2S goroutine
	cfg.PollBackoff = 50 * time.Microsecond
	sched, err := stream.New(newI2SEngine(i2s), stream.NewSynth(stream.Square, uint32(rate)),
		&clock, stream.TextReporter{W: serial}, cfg)
	if err != nil {
		return &TestError{error: fmt.Errorf("stream error: %s", err.Error()), Code: 3}
	}

	go volumeKeys(led, codec)
	sched.Run()
	return nil
}

// volumeKeys steps the DAC volume from the serial console.
func volumeKeys(led *Pin, codec *sgtl5000.Device) {
	var volume uint8 = 0xC0
	muted := false
	for loop := 0; ; loop++ {
		if serial.Buffered() > 0 {
			data, _ := serial.ReadByte()
			var err error
			switch data {
			case '=':
				fallthrough
			case '+':
				if volume < 0xFF {
					volume++
					err = codec.SetDACVolume(sgtl5000.Uniform(volume))
				}
			case '-':
				if volume > 0 {
					volume--
					err = codec.SetDACVolume(sgtl5000.Uniform(volume))
				}
			case 'm':
				muted = !muted
				err = codec.MuteDAC(muted)
				fmt.Printf("Muted %v\r\n", muted)
			case 'd':
				err = codec.Dump(serial, sgtl5000.REG_CHIP_ID, sgtl5000.REG_SHORT_CTRL)
			default:
			}
			if err != nil {
				fmt.Printf("codec error: %s\r\n", err.Error())
			}
		}
		if loop%10 == 0 {
			led.Toggle()
		}
		time.Sleep(10 * time.Millisecond)
	}
}
