//go:build !tinygo

package engine

import (
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"
)

// Oto plays committed blocks on the default audio device. The device pulls
// samples on its own schedule and plays silence when the scheduler falls
// behind.
type Oto struct {
	q      queue
	ctx    *oto.Context
	player *oto.Player
}

// NewOto opens the audio device for mono 16-bit output at sampleRate.
// bufferSize is the device side latency; 0 lets oto choose.
func NewOto(sampleRate int, bufferSize time.Duration) (*Oto, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "oto")
	}
	<-ready

	o := &Oto{ctx: ctx}
	o.player = ctx.NewPlayer(&pcmReader{q: &o.q})
	o.player.Play()
	return o, nil
}

func (o *Oto) Ready() bool { return o.q.ready() }

func (o *Oto) Commit(buf []uint16) error { return o.q.commit(buf) }

// Starved counts device reads that had to be padded with silence.
func (o *Oto) Starved() uint64 { return o.q.starvedCount() }

func (o *Oto) Close() error {
	return o.player.Close()
}
