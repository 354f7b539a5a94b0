// Package engine has host transfer engines for the stream scheduler: the
// speaker through oto and a WAV file through beep. Both copy on Commit and
// drain on their own goroutine, like DMA draining a buffer on the board.
package engine

import (
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
)

// ErrBusy is returned by Commit while the previous block is still pending.
var ErrBusy = errors.New("engine: block pending")

// queue is one pending block plus the block being drained.
type queue struct {
	mu       sync.Mutex
	pending  []uint16
	full     bool
	draining []uint16
	pos      int
	starved  uint64
}

func (q *queue) ready() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.full
}

// commit copies buf into the pending slot.
func (q *queue) commit(buf []uint16) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.full {
		return ErrBusy
	}
	q.pending = append(q.pending[:0], buf...)
	q.full = true
	return nil
}

// read fills out from the draining block, moving on to the pending block
// when it runs out. What cannot be filled is zeroed and counted as
// starved. It returns the number of real samples.
func (q *queue) read(out []uint16) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for n < len(out) {
		if q.pos >= len(q.draining) {
			if !q.full {
				break
			}
			q.draining, q.pending = q.pending, q.draining[:0]
			q.full = false
			q.pos = 0
			continue
		}
		k := copy(out[n:], q.draining[q.pos:])
		q.pos += k
		n += k
	}
	if n < len(out) {
		q.starved++
		for i := n; i < len(out); i++ {
			out[i] = 0
		}
	}
	return n
}

// flush drains everything left into out without padding.
func (q *queue) flush(out []uint16) []uint16 {
	q.mu.Lock()
	defer q.mu.Unlock()
	out = append(out, q.draining[q.pos:]...)
	q.pos = len(q.draining)
	if q.full {
		out = append(out, q.pending...)
		q.pending = q.pending[:0]
		q.full = false
	}
	return out
}

func (q *queue) starvedCount() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.starved
}

// pcmReader serves the queue as signed 16-bit little endian mono.
type pcmReader struct {
	q   *queue
	buf []uint16
}

func (r *pcmReader) Read(p []byte) (int, error) {
	n := len(p) / 2
	if cap(r.buf) < n {
		r.buf = make([]uint16, n)
	}
	s := r.buf[:n]
	r.q.read(s)
	for i, v := range s {
		binary.LittleEndian.PutUint16(p[2*i:], v)
	}
	return 2 * n, nil
}
