package sgtl5000

import "strconv"

// Address is the 7-bit i2c address with CTRL_ADR0_CS tied low.
const Address = 0x0A

// Register is implemented by every register type in the map. The value of a
// Register is one raw 16-bit snapshot; the address belongs to the type.
type Register interface {
	~uint16
	Addr() uint16
}

// Field is a bit range [lo, lo+width) inside register R.
type Field[R Register] struct {
	name  string
	lo    uint8
	width uint8
}

func field[R Register](name string, hi, lo uint8) Field[R] {
	if hi > 15 || lo > hi {
		panic("sgtl5000: bad bit range for " + name)
	}
	return Field[R]{name: name, lo: lo, width: hi - lo + 1}
}

func bit[R Register](name string, n uint8) Field[R] {
	return field[R](name, n, n)
}

func (f Field[R]) Name() string { return f.name }

// Mask returns the field mask in register position.
func (f Field[R]) Mask() uint16 {
	return uint16((uint32(1)<<f.width)-1) << f.lo
}

func (f Field[R]) Get(r R) uint16 {
	return (uint16(r) >> f.lo) & uint16((uint32(1)<<f.width)-1)
}

// Set returns r with the field replaced by v. Bits of v above the field
// width are dropped.
func (f Field[R]) Set(r R, v uint16) R {
	m := f.Mask()
	return R((uint16(r) &^ m) | ((v << f.lo) & m))
}

func (f Field[R]) IsSet(r R) bool { return f.Get(r) != 0 }

func (f Field[R]) SetBool(r R, on bool) R {
	if on {
		return f.Set(r, 1)
	}
	return f.Set(r, 0)
}

// Registers
const (
	REG_CHIP_ID       = 0x0000 //!< Part and revision ID
	REG_DIG_POWER     = 0x0002 //!< Digital block power
	REG_CLK_CTRL      = 0x0004 //!< Sample rate and MCLK ratio
	REG_I2S_CTRL      = 0x0006 //!< I2S framing
	REG_SSS_CTRL      = 0x000A //!< Source select (digital routing)
	REG_ADCDAC_CTRL   = 0x000E //!< DAC mute and volume ramp
	REG_DAC_VOL       = 0x0010 //!< DAC digital volume
	REG_ANA_HP_CTRL   = 0x0022 //!< Headphone volume
	REG_ANA_CTRL      = 0x0024 //!< Analog mute and input select
	REG_LINREG_CTRL   = 0x0026 //!< Linear regulator
	REG_REF_CTRL      = 0x0028 //!< Reference voltage and bias
	REG_LINE_OUT_CTRL = 0x002C //!< Line out ground and bias current
	REG_LINE_OUT_VOL  = 0x002E //!< Line out volume
	REG_ANA_POWER     = 0x0030 //!< Analog block power
	REG_SHORT_CTRL    = 0x003C //!< Headphone short detect
	REG_DAP_CONTROL   = 0x0100 //!< Digital audio processor enable
)

// PART_ID of CHIP_ID[15:8]
const PART_ID_SGTL5000 = 0xA0

type ChipID uint16

func (ChipID) Addr() uint16 { return REG_CHIP_ID }

var (
	ChipIDPartID = field[ChipID]("PARTID", 15, 8)
	ChipIDRevID  = field[ChipID]("REVID", 7, 0)
)

type ChipDigPower uint16

func (ChipDigPower) Addr() uint16 { return REG_DIG_POWER }

var (
	DigPowerADC    = bit[ChipDigPower]("ADC_POWERUP", 6)
	DigPowerDAC    = bit[ChipDigPower]("DAC_POWERUP", 5)
	DigPowerDAP    = bit[ChipDigPower]("DAP_POWERUP", 4)
	DigPowerI2SOut = bit[ChipDigPower]("I2S_OUT_POWERUP", 1)
	DigPowerI2SIn  = bit[ChipDigPower]("I2S_IN_POWERUP", 0)
)

type ChipClkCtrl uint16

func (ChipClkCtrl) Addr() uint16 { return REG_CLK_CTRL }

var (
	ClkCtrlRateMode = field[ChipClkCtrl]("RATE_MODE", 5, 4)
	ClkCtrlSysFs    = field[ChipClkCtrl]("SYS_FS", 3, 2)
	ClkCtrlMCLKFreq = field[ChipClkCtrl]("MCLK_FREQ", 1, 0)
)

// SYS_FS values
const (
	SYS_FS_32K   = 0
	SYS_FS_44K1  = 1
	SYS_FS_48K   = 2
	SYS_FS_96K   = 3
	MCLK_256FS   = 0
	MCLK_384FS   = 1
	MCLK_512FS   = 2
	MCLK_USE_PLL = 3
)

type ChipI2SCtrl uint16

func (ChipI2SCtrl) Addr() uint16 { return REG_I2S_CTRL }

var (
	I2SCtrlSCLKFreq = bit[ChipI2SCtrl]("SCLKFREQ", 8)
	I2SCtrlMS       = bit[ChipI2SCtrl]("MS", 7)
	I2SCtrlSCLKInv  = bit[ChipI2SCtrl]("SCLK_INV", 6)
	I2SCtrlDLen     = field[ChipI2SCtrl]("DLEN", 5, 4)
	I2SCtrlMode     = field[ChipI2SCtrl]("I2S_MODE", 3, 2)
	I2SCtrlLRAlign  = bit[ChipI2SCtrl]("LRALIGN", 1)
	I2SCtrlLRPol    = bit[ChipI2SCtrl]("LRPOL", 0)
)

// DLEN and I2S_MODE values
const (
	DLEN_32  = 0
	DLEN_24  = 1
	DLEN_20  = 2
	DLEN_16  = 3
	MODE_I2S = 0 //!< I2S or left justified, see LRALIGN
	MODE_RJ  = 1 //!< Right justified
	MODE_PCM = 2 //!< PCM format A/B
)

type ChipSSSCtrl uint16

func (ChipSSSCtrl) Addr() uint16 { return REG_SSS_CTRL }

var (
	SSSCtrlDAPMixLRSwap = bit[ChipSSSCtrl]("DAP_MIX_LRSWAP", 14)
	SSSCtrlDAPLRSwap    = bit[ChipSSSCtrl]("DAP_LRSWAP", 13)
	SSSCtrlDACLRSwap    = bit[ChipSSSCtrl]("DAC_LRSWAP", 12)
	SSSCtrlI2SLRSwap    = bit[ChipSSSCtrl]("I2S_LRSWAP", 10)
	SSSCtrlDAPMixSelect = field[ChipSSSCtrl]("DAP_MIX_SELECT", 9, 8)
	SSSCtrlDAPSelect    = field[ChipSSSCtrl]("DAP_SELECT", 7, 6)
	SSSCtrlDACSelect    = field[ChipSSSCtrl]("DAC_SELECT", 5, 4)
	SSSCtrlI2SSelect    = field[ChipSSSCtrl]("I2S_SELECT", 1, 0)
)

// Source select values
const (
	SEL_ADC    = 0
	SEL_I2S_IN = 1
	SEL_DAP    = 3
)

type ChipADCDACCtrl uint16

func (ChipADCDACCtrl) Addr() uint16 { return REG_ADCDAC_CTRL }

var (
	ADCDACCtrlVolRampEn    = bit[ChipADCDACCtrl]("VOL_RAMP_EN", 9)
	ADCDACCtrlVolExpoRamp  = bit[ChipADCDACCtrl]("VOL_EXPO_RAMP", 8)
	ADCDACCtrlDACMuteRight = bit[ChipADCDACCtrl]("DAC_MUTE_RIGHT", 3)
	ADCDACCtrlDACMuteLeft  = bit[ChipADCDACCtrl]("DAC_MUTE_LEFT", 2)
	ADCDACCtrlHPFFreeze    = bit[ChipADCDACCtrl]("ADC_HPF_FREEZE", 1)
	ADCDACCtrlHPFBypass    = bit[ChipADCDACCtrl]("ADC_HPF_BYPASS", 0)
)

type ChipDACVol uint16

func (ChipDACVol) Addr() uint16 { return REG_DAC_VOL }

var (
	DACVolRight = field[ChipDACVol]("DAC_VOL_RIGHT", 15, 8)
	DACVolLeft  = field[ChipDACVol]("DAC_VOL_LEFT", 7, 0)
)

type ChipAnaHPCtrl uint16

func (ChipAnaHPCtrl) Addr() uint16 { return REG_ANA_HP_CTRL }

var (
	AnaHPCtrlVolRight = field[ChipAnaHPCtrl]("HP_VOL_RIGHT", 14, 8)
	AnaHPCtrlVolLeft  = field[ChipAnaHPCtrl]("HP_VOL_LEFT", 6, 0)
)

type ChipAnaCtrl uint16

func (ChipAnaCtrl) Addr() uint16 { return REG_ANA_CTRL }

var (
	AnaCtrlMuteLO    = bit[ChipAnaCtrl]("MUTE_LO", 8)
	AnaCtrlSelectHP  = bit[ChipAnaCtrl]("SELECT_HP", 6) //!< 0: DAC, 1: LINEIN
	AnaCtrlEnZCDHP   = bit[ChipAnaCtrl]("EN_ZCD_HP", 5)
	AnaCtrlMuteHP    = bit[ChipAnaCtrl]("MUTE_HP", 4)
	AnaCtrlSelectADC = bit[ChipAnaCtrl]("SELECT_ADC", 2)
	AnaCtrlEnZCDADC  = bit[ChipAnaCtrl]("EN_ZCD_ADC", 1)
	AnaCtrlMuteADC   = bit[ChipAnaCtrl]("MUTE_ADC", 0)
)

type ChipLinregCtrl uint16

func (ChipLinregCtrl) Addr() uint16 { return REG_LINREG_CTRL }

var (
	LinregCtrlVDDCManAssn  = bit[ChipLinregCtrl]("VDDC_MAN_ASSN", 6)
	LinregCtrlVDDCAssnOvrd = bit[ChipLinregCtrl]("VDDC_ASSN_OVRD", 5)
	LinregCtrlDProgramming = field[ChipLinregCtrl]("D_PROGRAMMING", 3, 0)
)

type ChipRefCtrl uint16

func (ChipRefCtrl) Addr() uint16 { return REG_REF_CTRL }

var (
	RefCtrlVAGVal   = field[ChipRefCtrl]("VAG_VAL", 8, 4)
	RefCtrlBiasCtrl = field[ChipRefCtrl]("BIAS_CTRL", 3, 1)
	RefCtrlSmallPop = bit[ChipRefCtrl]("SMALL_POP", 0)
)

type ChipLineOutCtrl uint16

func (ChipLineOutCtrl) Addr() uint16 { return REG_LINE_OUT_CTRL }

var (
	LineOutCtrlOutCurrent = field[ChipLineOutCtrl]("OUT_CURRENT", 11, 8)
	LineOutCtrlVAGCntrl   = field[ChipLineOutCtrl]("LO_VAGCNTRL", 5, 0)
)

type ChipLineOutVol uint16

func (ChipLineOutVol) Addr() uint16 { return REG_LINE_OUT_VOL }

var (
	LineOutVolRight = field[ChipLineOutVol]("LO_VOL_RIGHT", 12, 8)
	LineOutVolLeft  = field[ChipLineOutVol]("LO_VOL_LEFT", 4, 0)
)

type ChipAnaPower uint16

func (ChipAnaPower) Addr() uint16 { return REG_ANA_POWER }

var (
	AnaPowerDACMono          = bit[ChipAnaPower]("DAC_MONO", 14) //!< 0: mono, 1: stereo
	AnaPowerLinregSimple     = bit[ChipAnaPower]("LINREG_SIMPLE_POWERUP", 13)
	AnaPowerStartup          = bit[ChipAnaPower]("STARTUP_POWERUP", 12)
	AnaPowerVDDCChrgPmp      = bit[ChipAnaPower]("VDDC_CHRGPMP_POWERUP", 11)
	AnaPowerPLL              = bit[ChipAnaPower]("PLL_POWERUP", 10)
	AnaPowerLinregD          = bit[ChipAnaPower]("LINREG_D_POWERUP", 9)
	AnaPowerVCOAmp           = bit[ChipAnaPower]("VCOAMP_POWERUP", 8)
	AnaPowerVAG              = bit[ChipAnaPower]("VAG_POWERUP", 7)
	AnaPowerADCMono          = bit[ChipAnaPower]("ADC_MONO", 6)
	AnaPowerRefTop           = bit[ChipAnaPower]("REFTOP_POWERUP", 5)
	AnaPowerHeadphone        = bit[ChipAnaPower]("HEADPHONE_POWERUP", 4)
	AnaPowerDAC              = bit[ChipAnaPower]("DAC_POWERUP", 3)
	AnaPowerCaplessHeadphone = bit[ChipAnaPower]("CAPLESS_HEADPHONE_POWERUP", 2)
	AnaPowerADC              = bit[ChipAnaPower]("ADC_POWERUP", 1)
	AnaPowerLineOut          = bit[ChipAnaPower]("LINEOUT_POWERUP", 0)
)

type ChipShortCtrl uint16

func (ChipShortCtrl) Addr() uint16 { return REG_SHORT_CTRL }

var (
	ShortCtrlLvlAdjR = field[ChipShortCtrl]("LVLADJR", 14, 12)
	ShortCtrlLvlAdjL = field[ChipShortCtrl]("LVLADJL", 10, 8)
	ShortCtrlLvlAdjC = field[ChipShortCtrl]("LVLADJC", 6, 4)
	ShortCtrlModeLR  = field[ChipShortCtrl]("MODE_LR", 3, 2)
	ShortCtrlModeCM  = field[ChipShortCtrl]("MODE_CM", 1, 0)
)

type DAPControl uint16

func (DAPControl) Addr() uint16 { return REG_DAP_CONTROL }

var (
	DAPControlMixEn = bit[DAPControl]("MIX_EN", 4)
	DAPControlDAPEn = bit[DAPControl]("DAP_EN", 0)
)

type fieldInfo interface {
	Name() string
	Mask() uint16
}

type registerInfo struct {
	name   string
	fields []fieldInfo
}

var registerMap = map[uint16]registerInfo{
	REG_CHIP_ID:       {"CHIP_ID", []fieldInfo{ChipIDPartID, ChipIDRevID}},
	REG_DIG_POWER:     {"CHIP_DIG_POWER", []fieldInfo{DigPowerADC, DigPowerDAC, DigPowerDAP, DigPowerI2SOut, DigPowerI2SIn}},
	REG_CLK_CTRL:      {"CHIP_CLK_CTRL", []fieldInfo{ClkCtrlRateMode, ClkCtrlSysFs, ClkCtrlMCLKFreq}},
	REG_I2S_CTRL:      {"CHIP_I2S_CTRL", []fieldInfo{I2SCtrlSCLKFreq, I2SCtrlMS, I2SCtrlSCLKInv, I2SCtrlDLen, I2SCtrlMode, I2SCtrlLRAlign, I2SCtrlLRPol}},
	REG_SSS_CTRL:      {"CHIP_SSS_CTRL", []fieldInfo{SSSCtrlDAPMixLRSwap, SSSCtrlDAPLRSwap, SSSCtrlDACLRSwap, SSSCtrlI2SLRSwap, SSSCtrlDAPMixSelect, SSSCtrlDAPSelect, SSSCtrlDACSelect, SSSCtrlI2SSelect}},
	REG_ADCDAC_CTRL:   {"CHIP_ADCDAC_CTRL", []fieldInfo{ADCDACCtrlVolRampEn, ADCDACCtrlVolExpoRamp, ADCDACCtrlDACMuteRight, ADCDACCtrlDACMuteLeft, ADCDACCtrlHPFFreeze, ADCDACCtrlHPFBypass}},
	REG_DAC_VOL:       {"CHIP_DAC_VOL", []fieldInfo{DACVolRight, DACVolLeft}},
	REG_ANA_HP_CTRL:   {"CHIP_ANA_HP_CTRL", []fieldInfo{AnaHPCtrlVolRight, AnaHPCtrlVolLeft}},
	REG_ANA_CTRL:      {"CHIP_ANA_CTRL", []fieldInfo{AnaCtrlMuteLO, AnaCtrlSelectHP, AnaCtrlEnZCDHP, AnaCtrlMuteHP, AnaCtrlSelectADC, AnaCtrlEnZCDADC, AnaCtrlMuteADC}},
	REG_LINREG_CTRL:   {"CHIP_LINREG_CTRL", []fieldInfo{LinregCtrlVDDCManAssn, LinregCtrlVDDCAssnOvrd, LinregCtrlDProgramming}},
	REG_REF_CTRL:      {"CHIP_REF_CTRL", []fieldInfo{RefCtrlVAGVal, RefCtrlBiasCtrl, RefCtrlSmallPop}},
	REG_LINE_OUT_CTRL: {"CHIP_LINE_OUT_CTRL", []fieldInfo{LineOutCtrlOutCurrent, LineOutCtrlVAGCntrl}},
	REG_LINE_OUT_VOL:  {"CHIP_LINE_OUT_VOL", []fieldInfo{LineOutVolRight, LineOutVolLeft}},
	REG_ANA_POWER: {"CHIP_ANA_POWER", []fieldInfo{AnaPowerDACMono, AnaPowerLinregSimple, AnaPowerStartup, AnaPowerVDDCChrgPmp,
		AnaPowerPLL, AnaPowerLinregD, AnaPowerVCOAmp, AnaPowerVAG, AnaPowerADCMono, AnaPowerRefTop, AnaPowerHeadphone,
		AnaPowerDAC, AnaPowerCaplessHeadphone, AnaPowerADC, AnaPowerLineOut}},
	REG_SHORT_CTRL:  {"CHIP_SHORT_CTRL", []fieldInfo{ShortCtrlLvlAdjR, ShortCtrlLvlAdjL, ShortCtrlLvlAdjC, ShortCtrlModeLR, ShortCtrlModeCM}},
	REG_DAP_CONTROL: {"DAP_CONTROL", []fieldInfo{DAPControlMixEn, DAPControlDAPEn}},
}

// Describe renders raw as "NAME FIELD=v ..." for a known address, or ""
// when the address is not in the map.
func Describe(addr, raw uint16) string {
	info, ok := registerMap[addr]
	if !ok {
		return ""
	}
	s := info.name
	for _, f := range info.fields {
		m := f.Mask()
		v := raw & m
		for m&1 == 0 {
			m >>= 1
			v >>= 1
		}
		s += " " + f.Name() + "=" + strconv.FormatUint(uint64(v), 16)
	}
	return s
}
