package sgtl5000

import (
	"errors"
	"fmt"
)

// tx is one recorded bus transaction.
type tx struct {
	addr  uint16
	write []byte
	read  int
}

func (t tx) String() string {
	if t.write != nil {
		return fmt.Sprintf("W %02x % x", t.addr, t.write)
	}
	return fmt.Sprintf("R %02x %d", t.addr, t.read)
}

var errBus = errors.New("nack")

// fakeBus is a register file behind the SGTL5000 wire format.
type fakeBus struct {
	regs   map[uint16]uint16
	ptr    uint16
	log    []tx
	failAt int // fail the transaction with this index; -1 never
}

func newFakeBus(chipID uint16) *fakeBus {
	return &fakeBus{
		regs:   map[uint16]uint16{REG_CHIP_ID: chipID, REG_ANA_POWER: 0x7060},
		failAt: -1,
	}
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	t := tx{addr: addr, read: len(r)}
	if w != nil {
		t.write = append([]byte{}, w...)
	}
	b.log = append(b.log, t)
	if len(b.log)-1 == b.failAt {
		return errBus
	}
	switch {
	case len(w) == 2 && r == nil:
		b.ptr = uint16(w[0])<<8 | uint16(w[1])
	case len(w) == 4 && r == nil:
		b.regs[uint16(w[0])<<8|uint16(w[1])] = uint16(w[2])<<8 | uint16(w[3])
	case w == nil && len(r) == 2:
		v := b.regs[b.ptr]
		r[0], r[1] = uint8(v>>8), uint8(v)
	default:
		return fmt.Errorf("unexpected transaction %v", t)
	}
	return nil
}

// writes returns the register writes in order as (address, value).
func (b *fakeBus) writes() [][2]uint16 {
	var out [][2]uint16
	for _, t := range b.log {
		if len(t.write) == 4 {
			out = append(out, [2]uint16{
				uint16(t.write[0])<<8 | uint16(t.write[1]),
				uint16(t.write[2])<<8 | uint16(t.write[3]),
			})
		}
	}
	return out
}
