//go:build linux && !tinygo

package linuxi2c

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/platinasystems/i2c"
)

func TestMessages(t *testing.T) {
	w := []byte{0x00, 0x00}
	r := make([]byte, 2)

	m := messages(0x0A, w, nil)
	if len(m) != 1 || m[0].Address != 0x0A || m[0].Flags != 0 || len(m[0].Data) != 2 {
		t.Errorf("write = %+v", m)
	}
	m = messages(0x0A, nil, r)
	if len(m) != 1 || m[0].Flags != i2c.ReadData || &m[0].Data[0] != &r[0] {
		t.Errorf("read = %+v", m)
	}
	m = messages(0x0A, w, r)
	if len(m) != 2 || m[0].Flags != 0 || m[1].Flags != i2c.ReadData {
		t.Errorf("combined = %+v", m)
	}
	if m := messages(0x0A, nil, nil); len(m) != 0 {
		t.Errorf("empty = %+v", m)
	}
}

func TestOpenMissingAdapter(t *testing.T) {
	if _, err := Open(9999, 0x0A); err == nil {
		t.Error("opened /dev/i2c-9999")
	}
}

// fakeAdapter records the calls attach makes.
type fakeAdapter struct {
	openErr, slaveErr error
	opened, closed    bool
	slave             int
}

func (a *fakeAdapter) Open(index int) error {
	a.opened = a.openErr == nil
	return a.openErr
}

func (a *fakeAdapter) ForceSlaveAddress(address int) error {
	a.slave = address
	return a.slaveErr
}

func (a *fakeAdapter) Close() error {
	a.closed = true
	return nil
}

func TestAttach(t *testing.T) {
	a := &fakeAdapter{}
	if err := attach(a, 1, 0x0A); err != nil {
		t.Fatal(err)
	}
	if !a.opened || a.slave != 0x0A || a.closed {
		t.Errorf("clean attach: %+v", a)
	}

	// slave select fails on an open descriptor, which must be closed
	busy := errors.New("device or resource busy")
	a = &fakeAdapter{slaveErr: busy}
	if err := attach(a, 1, 0x0A); errors.Cause(err) != busy {
		t.Errorf("err = %v", err)
	}
	if !a.closed {
		t.Error("descriptor leaked after failed slave select")
	}

	// a failed open has nothing to close
	a = &fakeAdapter{openErr: errors.New("no such file")}
	if err := attach(a, 9, 0x0A); err == nil {
		t.Error("attach succeeded without an adapter")
	}
	if a.closed || a.slave != 0 {
		t.Errorf("failed open: %+v", a)
	}
}
