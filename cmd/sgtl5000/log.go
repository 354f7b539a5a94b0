//go:build linux && !tinygo

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/platinasystems/log"
)

// logger prints to the terminal in color, or to syslog with -syslog.
type logger struct {
	syslog bool
	w      io.Writer // nil: color.Output and color.Error
}

func (l *logger) out() io.Writer {
	if l.w != nil {
		return l.w
	}
	return color.Output
}

func (l *logger) Info(msg string) {
	if l.syslog {
		log.Print("daemon", "info", msg)
		return
	}
	fmt.Fprintf(l.out(), "%s\r\n", msg)
}

func (l *logger) Warn(msg string) {
	if l.syslog {
		log.Print("daemon", "warn", msg)
		return
	}
	color.New(color.FgYellow).Fprintf(l.out(), "%s\r\n", msg)
}

func (l *logger) Error(err error) {
	if l.syslog {
		log.Print("daemon", "err", err)
		return
	}
	w := l.w
	if w == nil {
		w = color.Error
	}
	color.New(color.FgRed).Fprintf(w, "ERROR: %v\r\n", err)
}

// reporter passes scheduler diagnostics to the logger. Possible underruns
// are summarized once per throughput window.
type reporter struct {
	l         *logger
	underruns uint64
	first     uint64
}

func (r *reporter) PossibleUnderrun(iteration uint64, polls int) {
	if r.underruns == 0 {
		r.first = iteration
	}
	r.underruns++
}

func (r *reporter) Throughput(samplesPerSec, transfersPerSec uint64) {
	r.l.Info(fmt.Sprintf("%d s/s, %d t/s", samplesPerSec, transfersPerSec))
	if r.underruns > 0 {
		r.l.Warn(fmt.Sprintf("Underrun? %d times from iteration %d", r.underruns, r.first))
		r.underruns = 0
	}
}

func (r *reporter) CommitFailed(err error) {
	r.l.Error(err)
}
