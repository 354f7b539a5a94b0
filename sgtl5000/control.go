package sgtl5000

// readRaw writes the register address as its own transaction, then reads the
// 16-bit value. Both phases are big-endian.
func (d *Device) readRaw(addr uint16) (uint16, error) {
	d.buf[0] = uint8(addr >> 8)
	d.buf[1] = uint8(addr)
	if err := d.bus.Tx(Address, d.buf[:2], nil); err != nil {
		return 0, &BusError{Op: "address", Reg: addr, Err: err}
	}
	d.buf[2], d.buf[3] = 0, 0
	if err := d.bus.Tx(Address, nil, d.buf[2:4]); err != nil {
		return 0, &BusError{Op: "read", Reg: addr, Err: err}
	}
	return uint16(d.buf[2])<<8 | uint16(d.buf[3]), nil
}

// writeRaw sends address and value in one 4-byte write.
func (d *Device) writeRaw(addr, value uint16) error {
	d.buf[0] = uint8(addr >> 8)
	d.buf[1] = uint8(addr)
	d.buf[2] = uint8(value >> 8)
	d.buf[3] = uint8(value)
	if err := d.bus.Tx(Address, d.buf[:4], nil); err != nil {
		return &BusError{Op: "write", Reg: addr, Err: err}
	}
	return nil
}

func readRegister[R Register](d *Device) (R, error) {
	var r R
	raw, err := d.readRaw(r.Addr())
	return R(raw), err
}

func writeRegister[R Register](d *Device, r R) error {
	return d.writeRaw(r.Addr(), uint16(r))
}

// modifyRegister reads R, applies f and writes the result back. It is not
// atomic; the Device is the only user of the bus.
func modifyRegister[R Register](d *Device, f func(R) R) error {
	r, err := readRegister[R](d)
	if err != nil {
		return err
	}
	return writeRegister(d, f(r))
}
