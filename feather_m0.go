//go:build feather_m0
// +build feather_m0

package main

import (
	"machine"
)

func init() {
	i2c = machine.I2C0
	sclPin = machine.SCL_PIN
	sdaPin = machine.SDA_PIN

	// SCK0 PA10 (D1), FS0 PA11 (D0), SD0 PA07 (D9), MCK0 PA09 (D3)
	i2s = &machine.I2S0
	i2sConfig = machine.I2SConfig{
		SCK:             machine.PA10,
		WS:              machine.PA11,
		SDO:             machine.PA07,
		Mode:            machine.I2SModeSource,
		Standard:        machine.I2SStandardMSB,
		ClockSource:     machine.I2SClockSourceInternal,
		DataFormat:      machine.I2SDataFormat16bit,
		MainClockOutput: true,
	}

	ledPin = machine.LED
}
