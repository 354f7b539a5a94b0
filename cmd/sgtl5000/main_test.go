//go:build linux && !tinygo

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/elehobica/pico_tinygo_sgtl5000/sgtl5000"
	"github.com/elehobica/pico_tinygo_sgtl5000/stream"
	"github.com/fatih/color"
)

func TestParseDefaults(t *testing.T) {
	opt, err := parseOptions(nil)
	if err != nil {
		t.Fatal(err)
	}
	if opt.bus != -1 || opt.volume != -1 || opt.out != "speaker" || opt.seconds != 0 {
		t.Errorf("defaults %+v", opt)
	}
	if opt.config != sgtl5000.Config48kDAP || opt.sched != stream.DefaultConfig || opt.wave != stream.Square {
		t.Errorf("defaults %+v", opt)
	}
}

func TestParseOptions(t *testing.T) {
	opt, err := parseOptions(strings.Fields(
		"-bus 1 -preset 32k-direct -supply 1800 -volume 200 -out /tmp/x.wav " +
			"-seconds 5 -buffers 4 -len 256 -wave saw -dump -keys"))
	if err != nil {
		t.Fatal(err)
	}
	want := sgtl5000.Config32kDirect
	want.SupplyMillivolts = 1800
	if opt.config != want {
		t.Errorf("config %+v", opt.config)
	}
	if opt.bus != 1 || opt.volume != 200 || opt.out != "/tmp/x.wav" || opt.seconds != 5 {
		t.Errorf("options %+v", opt)
	}
	if opt.sched.Buffers != 4 || opt.sched.BufferLen != 256 || opt.wave != stream.Saw {
		t.Errorf("stream options %+v %v", opt.sched, opt.wave)
	}
	if !opt.dump || !opt.keys || opt.syslog {
		t.Errorf("flags %+v", opt)
	}
}

func TestParseErrors(t *testing.T) {
	for _, args := range []string{
		"-preset 44k",
		"-volume 256",
		"-buffers 1",
		"-bus x",
		"-out song.mp3",
		"-wave sine",
		"-dump",
		"stray",
	} {
		if _, err := parseOptions(strings.Fields(args)); err == nil {
			t.Errorf("%q accepted", args)
		}
	}
}

func TestReporterSummarizesUnderruns(t *testing.T) {
	color.NoColor = true
	var b bytes.Buffer
	r := &reporter{l: &logger{w: &b}}
	r.PossibleUnderrun(3, 0)
	r.PossibleUnderrun(4, 0)
	r.Throughput(48000, 47)
	r.Throughput(48000, 47)
	want := "48000 s/s, 47 t/s\r\n" +
		"Underrun? 2 times from iteration 3\r\n" +
		"48000 s/s, 47 t/s\r\n"
	if b.String() != want {
		t.Errorf("got %q", b.String())
	}
}
