package sgtl5000

// Route selects what feeds the DAC.
type Route uint8

const (
	RouteDAP    Route = iota // I2S_IN -> DAP -> DAC
	RouteDirect              // I2S_IN -> DAC
)

func (r Route) String() string {
	switch r {
	case RouteDAP:
		return "dap"
	case RouteDirect:
		return "direct"
	}
	return "unknown"
}

// Reference voltage constants, VAG = supply/2 in 25 mV steps above 0.8 V.
const (
	AnaGndBaseMillivolts = 800
	AnaGndStepMillivolts = 25
	AnaGndMaxCode        = 0x1F
)

// Config holds every value written during bring-up. The I2S framing must
// match the MCU side exactly; nothing here can check that.
type Config struct {
	// Supply
	SupplyMillivolts int  // VDDA
	VDDCAssnOverride bool // LINREG_CTRL VDDC_ASSN_OVRD
	VDDCManualAssn   bool // LINREG_CTRL VDDC_MAN_ASSN
	DProgramming     uint16
	BiasCtrl         uint16 // REF_CTRL BIAS_CTRL
	SmallPop         bool
	LineOutCurrent   uint16 // LINE_OUT_CTRL OUT_CURRENT
	ShortLevel       uint16 // SHORT_CTRL LVLADJ{R,L,C}
	ShortModeLR      uint16
	ShortModeCM      uint16

	// Clock
	RateMode uint16
	SysFs    uint16
	MCLKFreq uint16

	// I2S framing
	Master     bool
	SCLK32Fs   bool // SCLKFREQ 1: 32*Fs, 0: 64*Fs
	SCLKInvert bool
	DataLength uint16
	Mode       uint16
	LRAlign    bool
	LRPolarity bool

	// Routing
	Route    Route
	PowerADC bool

	// Default volumes as raw register codes
	HeadphoneVol uint16
	LineOutVol   uint16
	DACVol       uint16
}

// Config48kDAP: SGTL5000 as I2S master, 48 kHz, MCLK = 256*Fs, PCM, DAP in
// the path.
var Config48kDAP = Config{
	SupplyMillivolts: 3300,
	BiasCtrl:         1,
	LineOutCurrent:   0xF, // 0.54 mA
	ShortLevel:       4,
	ShortModeLR:      1,
	ShortModeCM:      2,

	RateMode: 0,
	SysFs:    SYS_FS_48K,
	MCLKFreq: MCLK_256FS,

	Master:     true,
	SCLK32Fs:   true,
	DataLength: DLEN_16,
	Mode:       MODE_PCM,

	Route:    RouteDAP,
	PowerADC: true,

	HeadphoneVol: 0x18,
	LineOutVol:   0x19,
	DACVol:       0x3C,
}

// Config32kDirect: SGTL5000 as slave, 32 kHz, left justified (MSB first,
// LRALIGN set), I2S straight into the DAC.
var Config32kDirect = Config{
	SupplyMillivolts: 3300,
	BiasCtrl:         1,
	LineOutCurrent:   0xF,
	ShortLevel:       4,
	ShortModeLR:      1,
	ShortModeCM:      2,

	RateMode: 0,
	SysFs:    SYS_FS_32K,
	MCLKFreq: MCLK_256FS,

	Master:     false,
	SCLK32Fs:   true,
	DataLength: DLEN_16,
	Mode:       MODE_I2S,
	LRAlign:    true,

	Route: RouteDirect,

	HeadphoneVol: 0x18,
	LineOutVol:   0x19,
	DACVol:       0x3C,
}

// SampleRate returns the rate SysFs selects, in Hz.
func (c *Config) SampleRate() int {
	switch c.SysFs {
	case SYS_FS_32K:
		return 32000
	case SYS_FS_44K1:
		return 44100
	case SYS_FS_96K:
		return 96000
	}
	return 48000
}

// ReferenceCode is the VAG_VAL/LO_VAGCNTRL code for a supply voltage:
// clamp((mV/2 - 800) / 25, 0, 0x1F).
func ReferenceCode(supplyMillivolts int) uint16 {
	v := (supplyMillivolts/2 - AnaGndBaseMillivolts) / AnaGndStepMillivolts
	if v < 0 {
		return 0
	}
	if v > AnaGndMaxCode {
		return AnaGndMaxCode
	}
	return uint16(v)
}
