package stream

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

func TestTextReporter(t *testing.T) {
	var b bytes.Buffer
	r := TextReporter{W: &b}
	r.PossibleUnderrun(7, 0)
	r.Throughput(48000, 47)
	r.CommitFailed(errors.New("dma stalled"))
	want := "Underrun? iteration 7, 0 polls\r\n" +
		"48000 s/s, 47 t/s\r\n" +
		"commit failed: dma stalled\r\n"
	if b.String() != want {
		t.Errorf("got %q", b.String())
	}
}
