package sgtl5000

// Volume is a stereo level, 0 quiet to 255 full.
type Volume struct {
	Left  uint8
	Right uint8
}

func Uniform(level uint8) Volume { return Volume{Left: level, Right: level} }

func Stereo(left, right uint8) Volume { return Volume{Left: left, Right: right} }

// Range maps both channels onto the register codes [quiet, full]. full may
// be below quiet for attenuation-style registers.
func (v Volume) Range(quiet, full uint8) (left, right uint8) {
	return rescale(v.Left, quiet, full), rescale(v.Right, quiet, full)
}

func rescale(level, quiet, full uint8) uint8 {
	q, f := int(quiet), int(full)
	n := int(level) * (f - q)
	// round half away from zero; 255 is odd so n/255 is never exactly .5
	if n >= 0 {
		n = (n + 127) / 255
	} else {
		n = -((-n + 127) / 255)
	}
	r := q + n
	lo, hi := q, f
	if lo > hi {
		lo, hi = hi, lo
	}
	if r < lo {
		r = lo
	} else if r > hi {
		r = hi
	}
	return uint8(r)
}

// Register code ranges, quiet then full.
const (
	DACVolQuiet     = 0xFC //!< -90 dB, muted beyond
	DACVolFull      = 0x3C //!< 0 dB
	LineOutVolQuiet = 0x00
	LineOutVolFull  = 0x1F
	HPVolQuiet      = 0x7F //!< -51.5 dB
	HPVolFull       = 0x00 //!< +12 dB
)

// SetDACVolume sets the DAC digital gain.
func (d *Device) SetDACVolume(v Volume) error {
	left, right := v.Range(DACVolQuiet, DACVolFull)
	var r ChipDACVol
	r = DACVolLeft.Set(r, uint16(left))
	r = DACVolRight.Set(r, uint16(right))
	return writeRegister(d, r)
}

// SetLineOutVolume sets the line out analog gain.
func (d *Device) SetLineOutVolume(v Volume) error {
	left, right := v.Range(LineOutVolQuiet, LineOutVolFull)
	var r ChipLineOutVol
	r = LineOutVolLeft.Set(r, uint16(left))
	r = LineOutVolRight.Set(r, uint16(right))
	return writeRegister(d, r)
}

// SetHeadphoneVolume sets the headphone amplifier gain.
func (d *Device) SetHeadphoneVolume(v Volume) error {
	left, right := v.Range(HPVolQuiet, HPVolFull)
	var r ChipAnaHPCtrl
	r = AnaHPCtrlVolLeft.Set(r, uint16(left))
	r = AnaHPCtrlVolRight.Set(r, uint16(right))
	return writeRegister(d, r)
}

func (d *Device) MuteDAC(on bool) error {
	return modifyRegister(d, func(r ChipADCDACCtrl) ChipADCDACCtrl {
		r = ADCDACCtrlDACMuteLeft.SetBool(r, on)
		return ADCDACCtrlDACMuteRight.SetBool(r, on)
	})
}

func (d *Device) MuteLineOut(on bool) error {
	return modifyRegister(d, func(r ChipAnaCtrl) ChipAnaCtrl {
		return AnaCtrlMuteLO.SetBool(r, on)
	})
}

func (d *Device) MuteHeadphone(on bool) error {
	return modifyRegister(d, func(r ChipAnaCtrl) ChipAnaCtrl {
		return AnaCtrlMuteHP.SetBool(r, on)
	})
}
