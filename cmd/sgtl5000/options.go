//go:build linux && !tinygo

package main

import (
	"strconv"
	"strings"

	"github.com/elehobica/pico_tinygo_sgtl5000/sgtl5000"
	"github.com/elehobica/pico_tinygo_sgtl5000/stream"
	"github.com/pkg/errors"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
)

const Usage = `sgtl5000 [-bus N] [-preset 48k-dap|32k-direct] [-supply MV]
	[-volume 0-255] [-out speaker|FILE.wav|none] [-seconds S]
	[-buffers N] [-len N] [-wave square|saw|triangle]
	[-dump] [-syslog] [-keys]`

var presets = map[string]sgtl5000.Config{
	"48k-dap":    sgtl5000.Config48kDAP,
	"32k-direct": sgtl5000.Config32kDirect,
}

type options struct {
	bus     int // -1: no codec
	config  sgtl5000.Config
	volume  int // -1: keep the preset
	out     string
	seconds int // 0: forever
	sched   stream.Config
	wave    stream.Waveform
	dump    bool
	syslog  bool
	keys    bool
}

func parseOptions(args []string) (*options, error) {
	flag, args := flags.New(args, "-dump", "-syslog", "-keys")
	parm, args := parms.New(args, "-bus", "-preset", "-supply", "-volume",
		"-out", "-seconds", "-buffers", "-len", "-wave")
	if len(args) > 0 {
		return nil, errors.Errorf("unexpected %q", strings.Join(args, " "))
	}

	opt := &options{
		bus:    -1,
		volume: -1,
		out:    "speaker",
		sched:  stream.DefaultConfig,
		dump:   flag.ByName["-dump"],
		syslog: flag.ByName["-syslog"],
		keys:   flag.ByName["-keys"],
	}

	preset := "48k-dap"
	if s := parm.ByName["-preset"]; len(s) > 0 {
		preset = s
	}
	cfg, found := presets[preset]
	if !found {
		return nil, errors.Errorf("-preset %s: unknown", preset)
	}
	opt.config = cfg

	ints := []struct {
		name string
		dst  *int
		min  int
		max  int
	}{
		{"-bus", &opt.bus, 0, 1 << 16},
		{"-supply", &opt.config.SupplyMillivolts, 0, 5000},
		{"-volume", &opt.volume, 0, 255},
		{"-seconds", &opt.seconds, 0, 1 << 30},
		{"-buffers", &opt.sched.Buffers, 2, 64},
		{"-len", &opt.sched.BufferLen, 1, 1 << 20},
	}
	for _, p := range ints {
		s := parm.ByName[p.name]
		if len(s) == 0 {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.Wrap(err, p.name)
		}
		if v < p.min || v > p.max {
			return nil, errors.Errorf("%s %d: out of range [%d, %d]", p.name, v, p.min, p.max)
		}
		*p.dst = v
	}

	if s := parm.ByName["-out"]; len(s) > 0 {
		if s != "speaker" && s != "none" && !strings.HasSuffix(s, ".wav") {
			return nil, errors.Errorf("-out %s: want speaker, none or a .wav file", s)
		}
		opt.out = s
	}
	if s := parm.ByName["-wave"]; len(s) > 0 {
		w, err := stream.ParseWaveform(s)
		if err != nil {
			return nil, errors.Wrap(err, "-wave")
		}
		opt.wave = w
	}
	if opt.dump && opt.bus < 0 {
		return nil, errors.New("-dump needs -bus")
	}
	return opt, nil
}
