// Package sgtl5000 drives the NXP SGTL5000 audio codec over its i2c control
// port.
//
// https://www.nxp.com/docs/en/data-sheet/SGTL5000.pdf
package sgtl5000

import (
	"fmt"
	"io"

	"tinygo.org/x/drivers"
)

type State uint8

const (
	StateReset State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReset:
		return "reset"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

type Device struct {
	bus   drivers.I2C
	state State
	id    ChipID
	buf   [4]byte
}

// New returns a Device on bus. Nothing is sent until Configure.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus}
}

func (d *Device) State() State { return d.state }

// ChipID is the identification register read by the last Configure.
func (d *Device) ChipID() ChipID { return d.id }

// Configure brings the codec from reset to a running configuration. It
// stops at the first failure and leaves the device half configured. A bus
// failure comes back as the *BusError itself, naming the step.
func (d *Device) Configure(cfg Config) error {
	d.state = StateReset
	for _, s := range bringUp {
		if err := s.run(d, &cfg); err != nil {
			d.state = StateFailed
			if _, ok := err.(*IdentificationError); ok {
				return err
			}
			return atStep(err, s.name)
		}
	}
	d.state = StateReady
	return nil
}

type step struct {
	name string
	run  func(d *Device, c *Config) error
}

// bringUp is in hardware order. VAG must be programmed before the analog
// blocks power up, and the clock before the I2S port.
var bringUp = []step{
	{"identify", identify},
	{"linear regulator", func(d *Device, c *Config) error {
		return modifyRegister(d, func(r ChipLinregCtrl) ChipLinregCtrl {
			r = LinregCtrlVDDCAssnOvrd.SetBool(r, c.VDDCAssnOverride)
			r = LinregCtrlVDDCManAssn.SetBool(r, c.VDDCManualAssn)
			return LinregCtrlDProgramming.Set(r, c.DProgramming)
		})
	}},
	{"reference", func(d *Device, c *Config) error {
		code := ReferenceCode(c.SupplyMillivolts)
		return modifyRegister(d, func(r ChipRefCtrl) ChipRefCtrl {
			r = RefCtrlVAGVal.Set(r, code)
			r = RefCtrlBiasCtrl.Set(r, c.BiasCtrl)
			return RefCtrlSmallPop.SetBool(r, c.SmallPop)
		})
	}},
	{"line out reference", func(d *Device, c *Config) error {
		code := ReferenceCode(c.SupplyMillivolts)
		return modifyRegister(d, func(r ChipLineOutCtrl) ChipLineOutCtrl {
			r = LineOutCtrlVAGCntrl.Set(r, code)
			return LineOutCtrlOutCurrent.Set(r, c.LineOutCurrent)
		})
	}},
	{"short detect", func(d *Device, c *Config) error {
		return modifyRegister(d, func(r ChipShortCtrl) ChipShortCtrl {
			r = ShortCtrlLvlAdjR.Set(r, c.ShortLevel)
			r = ShortCtrlLvlAdjL.Set(r, c.ShortLevel)
			r = ShortCtrlLvlAdjC.Set(r, c.ShortLevel)
			r = ShortCtrlModeLR.Set(r, c.ShortModeLR)
			return ShortCtrlModeCM.Set(r, c.ShortModeCM)
		})
	}},
	{"analog power", powerUp},
	{"clock", func(d *Device, c *Config) error {
		var r ChipClkCtrl
		r = ClkCtrlRateMode.Set(r, c.RateMode)
		r = ClkCtrlSysFs.Set(r, c.SysFs)
		r = ClkCtrlMCLKFreq.Set(r, c.MCLKFreq)
		return writeRegister(d, r)
	}},
	{"i2s", func(d *Device, c *Config) error {
		return modifyRegister(d, func(r ChipI2SCtrl) ChipI2SCtrl {
			r = I2SCtrlMS.SetBool(r, c.Master)
			r = I2SCtrlSCLKFreq.SetBool(r, c.SCLK32Fs)
			r = I2SCtrlSCLKInv.SetBool(r, c.SCLKInvert)
			r = I2SCtrlDLen.Set(r, c.DataLength)
			r = I2SCtrlMode.Set(r, c.Mode)
			r = I2SCtrlLRAlign.SetBool(r, c.LRAlign)
			return I2SCtrlLRPol.SetBool(r, c.LRPolarity)
		})
	}},
	{"routing", route},
	{"digital power", func(d *Device, c *Config) error {
		return modifyRegister(d, func(r ChipDigPower) ChipDigPower {
			r = DigPowerI2SIn.SetBool(r, true)
			r = DigPowerDAC.SetBool(r, true)
			r = DigPowerDAP.SetBool(r, c.Route == RouteDAP)
			return DigPowerADC.SetBool(r, c.PowerADC)
		})
	}},
	{"volume", func(d *Device, c *Config) error {
		var hp ChipAnaHPCtrl
		hp = AnaHPCtrlVolRight.Set(hp, c.HeadphoneVol)
		hp = AnaHPCtrlVolLeft.Set(hp, c.HeadphoneVol)
		if err := writeRegister(d, hp); err != nil {
			return err
		}
		var lo ChipLineOutVol
		lo = LineOutVolRight.Set(lo, c.LineOutVol)
		lo = LineOutVolLeft.Set(lo, c.LineOutVol)
		if err := writeRegister(d, lo); err != nil {
			return err
		}
		var dac ChipDACVol
		dac = DACVolRight.Set(dac, c.DACVol)
		dac = DACVolLeft.Set(dac, c.DACVol)
		return writeRegister(d, dac)
	}},
	{"unmute", func(d *Device, c *Config) error {
		err := modifyRegister(d, func(r ChipADCDACCtrl) ChipADCDACCtrl {
			r = ADCDACCtrlVolRampEn.SetBool(r, true)
			r = ADCDACCtrlVolExpoRamp.SetBool(r, false)
			r = ADCDACCtrlDACMuteRight.SetBool(r, false)
			return ADCDACCtrlDACMuteLeft.SetBool(r, false)
		})
		if err != nil {
			return err
		}
		return modifyRegister(d, func(r ChipAnaCtrl) ChipAnaCtrl {
			r = AnaCtrlMuteHP.SetBool(r, false)
			r = AnaCtrlMuteLO.SetBool(r, false)
			return AnaCtrlEnZCDHP.SetBool(r, true)
		})
	}},
}

func identify(d *Device, c *Config) error {
	id, err := readRegister[ChipID](d)
	if err != nil {
		return err
	}
	d.id = id
	if p := ChipIDPartID.Get(id); p != PART_ID_SGTL5000 {
		return &IdentificationError{PartID: p, RevID: ChipIDRevID.Get(id)}
	}
	return nil
}

type powerBlock struct {
	name   string
	fields []Field[ChipAnaPower]
	off    []Field[ChipAnaPower]
	skip   func(c *Config) bool
}

// powerOrder is the rail order from the datasheet power-up sequence; each
// block is its own read-modify-write so a rail is up before the next.
var powerOrder = []powerBlock{
	{name: "stereo", fields: []Field[ChipAnaPower]{AnaPowerDACMono}},
	{name: "regulator", fields: []Field[ChipAnaPower]{AnaPowerLinregSimple}, off: []Field[ChipAnaPower]{AnaPowerStartup, AnaPowerLinregD}},
	{name: "charge pump", fields: []Field[ChipAnaPower]{AnaPowerVDDCChrgPmp}},
	{name: "vag", fields: []Field[ChipAnaPower]{AnaPowerVAG}},
	{name: "line out", fields: []Field[ChipAnaPower]{AnaPowerLineOut}},
	{name: "adc", fields: []Field[ChipAnaPower]{AnaPowerADC}, skip: func(c *Config) bool { return !c.PowerADC }},
	{name: "dac", fields: []Field[ChipAnaPower]{AnaPowerDAC}},
	{name: "headphone", fields: []Field[ChipAnaPower]{AnaPowerHeadphone, AnaPowerCaplessHeadphone}},
	{name: "reftop", fields: []Field[ChipAnaPower]{AnaPowerRefTop}},
}

func powerUp(d *Device, c *Config) error {
	for _, b := range powerOrder {
		if b.skip != nil && b.skip(c) {
			continue
		}
		err := modifyRegister(d, func(r ChipAnaPower) ChipAnaPower {
			for _, f := range b.off {
				r = f.SetBool(r, false)
			}
			for _, f := range b.fields {
				r = f.SetBool(r, true)
			}
			return r
		})
		if err != nil {
			return atStep(err, b.name)
		}
	}
	return nil
}

func route(d *Device, c *Config) error {
	err := modifyRegister(d, func(r ChipSSSCtrl) ChipSSSCtrl {
		if c.Route == RouteDAP {
			r = SSSCtrlDAPSelect.Set(r, SEL_I2S_IN)
			return SSSCtrlDACSelect.Set(r, SEL_DAP)
		}
		return SSSCtrlDACSelect.Set(r, SEL_I2S_IN)
	})
	if err != nil {
		return err
	}
	err = modifyRegister(d, func(r DAPControl) DAPControl {
		return DAPControlDAPEn.SetBool(r, c.Route == RouteDAP)
	})
	if err != nil {
		return err
	}
	// headphone fed from the DAC
	return modifyRegister(d, func(r ChipAnaCtrl) ChipAnaCtrl {
		return AnaCtrlSelectHP.SetBool(r, false)
	})
}

// Dump writes one line per register address in [from, to], stepping by 2.
func (d *Device) Dump(w io.Writer, from, to uint16) error {
	for addr := from &^ 1; addr <= to; addr += 2 {
		v, err := d.readRaw(addr)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "R %04X = %04X %s\r\n", addr, v, Describe(addr, v))
		if addr == 0xFFFE {
			break
		}
	}
	return nil
}
