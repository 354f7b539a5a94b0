//go:build linux && !tinygo

// Package linuxi2c puts a Linux /dev/i2c-N adapter behind the
// tinygo.org/x/drivers I2C interface, so the codec driver can run from a
// host with the codec on an i2c header.
package linuxi2c

import (
	"github.com/pkg/errors"
	"github.com/platinasystems/i2c"
	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*Bus)(nil)

type Bus struct {
	index int
	bus   *i2c.Bus
}

// Open opens /dev/i2c-index. address selects the default slave; each Tx
// carries its own address regardless.
func Open(index int, address uint16) (*Bus, error) {
	bus := new(i2c.Bus)
	if err := attach(bus, index, address); err != nil {
		return nil, err
	}
	return &Bus{index: index, bus: bus}, nil
}

// adapter is the part of *i2c.Bus that Open uses.
type adapter interface {
	Open(index int) error
	ForceSlaveAddress(address int) error
	Close() error
}

// attach opens the adapter and selects the slave. A failed Open has
// already released the descriptor; a failed slave select closes it.
func attach(a adapter, index int, address uint16) error {
	if err := a.Open(index); err != nil {
		return errors.Wrapf(err, "i2c-%d", index)
	}
	if err := a.ForceSlaveAddress(int(address)); err != nil {
		a.Close()
		return errors.Wrapf(err, "i2c-%d slave %02x", index, address)
	}
	return nil
}

func (b *Bus) Close() error {
	return b.bus.Close()
}

// Tx writes w then reads r as one combined transfer. Either may be empty.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	msgs := messages(addr, w, r)
	if len(msgs) == 0 {
		return nil
	}
	if err := b.bus.Send(msgs); err != nil {
		return errors.Wrapf(err, "i2c-%d addr %02x", b.index, addr)
	}
	return nil
}

func messages(addr uint16, w, r []byte) []i2c.Message {
	var msgs []i2c.Message
	if len(w) > 0 {
		msgs = append(msgs, i2c.Message{Address: addr, Data: w})
	}
	if len(r) > 0 {
		msgs = append(msgs, i2c.Message{Address: addr, Flags: i2c.ReadData, Data: r})
	}
	return msgs
}
