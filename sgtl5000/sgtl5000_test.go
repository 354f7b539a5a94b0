package sgtl5000

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func firstWrite(ws [][2]uint16, addr uint16, pred func(v uint16) bool) int {
	for i, w := range ws {
		if w[0] == addr && (pred == nil || pred(w[1])) {
			return i
		}
	}
	return -1
}

func TestConfigureReady(t *testing.T) {
	b := newFakeBus(0xA011)
	d := New(b)
	if d.State() != StateReset {
		t.Fatalf("state = %v", d.State())
	}
	if err := d.Configure(Config48kDAP); err != nil {
		t.Fatal(err)
	}
	if d.State() != StateReady {
		t.Errorf("state = %v", d.State())
	}
	if ChipIDRevID.Get(d.ChipID()) != 0x11 {
		t.Errorf("chip id = %04x", uint16(d.ChipID()))
	}
	for _, tr := range b.log {
		if tr.addr != Address {
			t.Fatalf("transaction to %02x", tr.addr)
		}
	}

	r := b.regs
	code := ReferenceCode(3300)
	if got := RefCtrlVAGVal.Get(ChipRefCtrl(r[REG_REF_CTRL])); got != code {
		t.Errorf("VAG_VAL = %x, want %x", got, code)
	}
	if got := LineOutCtrlVAGCntrl.Get(ChipLineOutCtrl(r[REG_LINE_OUT_CTRL])); got != code {
		t.Errorf("LO_VAGCNTRL = %x, want %x", got, code)
	}
	if got := LineOutCtrlOutCurrent.Get(ChipLineOutCtrl(r[REG_LINE_OUT_CTRL])); got != 0xF {
		t.Errorf("OUT_CURRENT = %x", got)
	}

	p := ChipAnaPower(r[REG_ANA_POWER])
	for _, f := range []Field[ChipAnaPower]{AnaPowerDACMono, AnaPowerLinregSimple, AnaPowerVDDCChrgPmp,
		AnaPowerVAG, AnaPowerLineOut, AnaPowerADC, AnaPowerDAC, AnaPowerHeadphone,
		AnaPowerCaplessHeadphone, AnaPowerRefTop} {
		if !f.IsSet(p) {
			t.Errorf("ANA_POWER %04x: %s clear", uint16(p), f.Name())
		}
	}
	if AnaPowerStartup.IsSet(p) {
		t.Errorf("ANA_POWER %04x: STARTUP_POWERUP still set", uint16(p))
	}

	if got := r[REG_CLK_CTRL]; got != SYS_FS_48K<<2|MCLK_256FS {
		t.Errorf("CLK_CTRL = %04x", got)
	}
	i2s := ChipI2SCtrl(r[REG_I2S_CTRL])
	if !I2SCtrlMS.IsSet(i2s) || I2SCtrlDLen.Get(i2s) != DLEN_16 || I2SCtrlMode.Get(i2s) != MODE_PCM || !I2SCtrlSCLKFreq.IsSet(i2s) {
		t.Errorf("I2S_CTRL = %04x", uint16(i2s))
	}
	sss := ChipSSSCtrl(r[REG_SSS_CTRL])
	if SSSCtrlDAPSelect.Get(sss) != SEL_I2S_IN || SSSCtrlDACSelect.Get(sss) != SEL_DAP {
		t.Errorf("SSS_CTRL = %04x", uint16(sss))
	}
	if !DAPControlDAPEn.IsSet(DAPControl(r[REG_DAP_CONTROL])) {
		t.Errorf("DAP_CONTROL = %04x", r[REG_DAP_CONTROL])
	}
	dig := ChipDigPower(r[REG_DIG_POWER])
	if !DigPowerI2SIn.IsSet(dig) || !DigPowerDAC.IsSet(dig) || !DigPowerDAP.IsSet(dig) {
		t.Errorf("DIG_POWER = %04x", uint16(dig))
	}
	if got := r[REG_DAC_VOL]; got != 0x3C3C {
		t.Errorf("DAC_VOL = %04x", got)
	}
	if got := r[REG_ANA_HP_CTRL]; got != 0x1818 {
		t.Errorf("ANA_HP_CTRL = %04x", got)
	}
	if got := r[REG_LINE_OUT_VOL]; got != 0x1919 {
		t.Errorf("LINE_OUT_VOL = %04x", got)
	}
	ana := ChipAnaCtrl(r[REG_ANA_CTRL])
	if AnaCtrlMuteHP.IsSet(ana) || AnaCtrlMuteLO.IsSet(ana) || AnaCtrlSelectHP.IsSet(ana) || !AnaCtrlEnZCDHP.IsSet(ana) {
		t.Errorf("ANA_CTRL = %04x", uint16(ana))
	}
	adcdac := ChipADCDACCtrl(r[REG_ADCDAC_CTRL])
	if ADCDACCtrlDACMuteLeft.IsSet(adcdac) || ADCDACCtrlDACMuteRight.IsSet(adcdac) || !ADCDACCtrlVolRampEn.IsSet(adcdac) {
		t.Errorf("ADCDAC_CTRL = %04x", uint16(adcdac))
	}
}

func TestConfigureDirectRoute(t *testing.T) {
	b := newFakeBus(0xA011)
	b.regs[REG_SSS_CTRL] = SEL_DAP << 4
	b.regs[REG_DAP_CONTROL] = 0x0001
	d := New(b)
	if err := d.Configure(Config32kDirect); err != nil {
		t.Fatal(err)
	}
	r := b.regs
	if got := ClkCtrlSysFs.Get(ChipClkCtrl(r[REG_CLK_CTRL])); got != SYS_FS_32K {
		t.Errorf("SYS_FS = %x", got)
	}
	i2s := ChipI2SCtrl(r[REG_I2S_CTRL])
	if I2SCtrlMS.IsSet(i2s) || !I2SCtrlLRAlign.IsSet(i2s) || I2SCtrlMode.Get(i2s) != MODE_I2S {
		t.Errorf("I2S_CTRL = %04x", uint16(i2s))
	}
	if got := SSSCtrlDACSelect.Get(ChipSSSCtrl(r[REG_SSS_CTRL])); got != SEL_I2S_IN {
		t.Errorf("DAC_SELECT = %x", got)
	}
	if DAPControlDAPEn.IsSet(DAPControl(r[REG_DAP_CONTROL])) {
		t.Errorf("DAP still enabled")
	}
	dig := ChipDigPower(r[REG_DIG_POWER])
	if DigPowerDAP.IsSet(dig) || DigPowerADC.IsSet(dig) {
		t.Errorf("DIG_POWER = %04x", uint16(dig))
	}
	if AnaPowerADC.IsSet(ChipAnaPower(r[REG_ANA_POWER])) {
		t.Errorf("ADC powered without PowerADC")
	}
	if Config32kDirect.SampleRate() != 32000 || Config48kDAP.SampleRate() != 48000 {
		t.Errorf("preset sample rates")
	}
}

func TestBringUpOrder(t *testing.T) {
	b := newFakeBus(0xA011)
	b.regs[REG_ANA_POWER] = 0 // every rail starts off so the first write that sets it is the power-up
	if err := New(b).Configure(Config48kDAP); err != nil {
		t.Fatal(err)
	}
	ws := b.writes()
	code := ReferenceCode(Config48kDAP.SupplyMillivolts)

	ref := firstWrite(ws, REG_REF_CTRL, func(v uint16) bool { return RefCtrlVAGVal.Get(ChipRefCtrl(v)) == code })
	lo := firstWrite(ws, REG_LINE_OUT_CTRL, func(v uint16) bool { return LineOutCtrlVAGCntrl.Get(ChipLineOutCtrl(v)) == code })
	if ref < 0 || lo < 0 {
		t.Fatalf("reference not written: %v", ws)
	}
	powered := func(f Field[ChipAnaPower]) int {
		return firstWrite(ws, REG_ANA_POWER, func(v uint16) bool { return f.IsSet(ChipAnaPower(v)) })
	}
	vag, lineout, reftop := powered(AnaPowerVAG), powered(AnaPowerLineOut), powered(AnaPowerRefTop)
	for name, i := range map[string]int{"VAG": vag, "LINEOUT": lineout, "REFTOP": reftop} {
		if i < 0 {
			t.Errorf("%s never powered", name)
		}
		if i < ref || i < lo {
			t.Errorf("%s powered at write %d before reference (%d, %d)", name, i, ref, lo)
		}
	}

	order := []Field[ChipAnaPower]{AnaPowerLinregSimple, AnaPowerVDDCChrgPmp, AnaPowerVAG,
		AnaPowerLineOut, AnaPowerADC, AnaPowerDAC, AnaPowerHeadphone, AnaPowerRefTop}
	last := -1
	for _, f := range order {
		i := powered(f)
		if i <= last {
			t.Errorf("%s powered at write %d, not after %d", f.Name(), i, last)
		}
		last = i
	}

	clk := firstWrite(ws, REG_CLK_CTRL, nil)
	i2s := firstWrite(ws, REG_I2S_CTRL, nil)
	if clk < 0 || i2s < 0 || clk > i2s {
		t.Errorf("clock write %d not before i2s write %d", clk, i2s)
	}
	if sss, dig := firstWrite(ws, REG_SSS_CTRL, nil), firstWrite(ws, REG_DIG_POWER, nil); sss < i2s || dig < sss {
		t.Errorf("routing %d / digital power %d out of order after i2s %d", sss, dig, i2s)
	}
	if vol := firstWrite(ws, REG_DAC_VOL, nil); vol < firstWrite(ws, REG_DIG_POWER, nil) {
		t.Errorf("volume set before digital power")
	}

	// each power block is a separate read-modify-write
	n := 0
	for _, w := range ws {
		if w[0] == REG_ANA_POWER {
			n++
		}
	}
	if n != len(powerOrder) {
		t.Errorf("ANA_POWER written %d times, want %d", n, len(powerOrder))
	}
}

func TestIdentificationMismatch(t *testing.T) {
	for _, id := range []uint16{0x0000, 0xA100, 0x9F11, 0xFFFF} {
		b := newFakeBus(id)
		d := New(b)
		err := d.Configure(Config48kDAP)
		if !errors.Is(err, ErrIdentification) {
			t.Fatalf("id %04x: err = %v", id, err)
		}
		var ie *IdentificationError
		if !errors.As(err, &ie) || ie.PartID != id>>8 {
			t.Errorf("id %04x: %v", id, err)
		}
		if d.State() != StateFailed {
			t.Errorf("id %04x: state = %v", id, d.State())
		}
		if len(b.log) != 2 || len(b.writes()) != 0 {
			t.Errorf("id %04x: transactions after identity read: %v", id, b.log)
		}
	}
}

func TestConfigureBusFailure(t *testing.T) {
	// count the transactions of a clean run, then fail each one in turn
	clean := newFakeBus(0xA011)
	if err := New(clean).Configure(Config48kDAP); err != nil {
		t.Fatal(err)
	}
	steps := map[string]bool{}
	for i := range clean.log {
		b := newFakeBus(0xA011)
		b.failAt = i
		d := New(b)
		err := d.Configure(Config48kDAP)
		be, ok := err.(*BusError)
		if !ok || be.Err != errBus || be.Step == "" {
			t.Fatalf("fail at %d: err = %v", i, err)
		}
		steps[be.Step] = true
		if errors.Is(err, ErrIdentification) {
			t.Errorf("fail at %d: bus failure reported as identification", i)
		}
		if d.State() != StateFailed {
			t.Errorf("fail at %d: state = %v", i, d.State())
		}
		if len(b.log) != i+1 {
			t.Errorf("fail at %d: %d transactions", i, len(b.log))
		}
	}
	for _, step := range []string{"identify", "linear regulator", "analog power: vag", "analog power: reftop", "unmute"} {
		if !steps[step] {
			t.Errorf("no failure reported in step %q, saw %v", step, steps)
		}
	}
}

func TestConfigureStepName(t *testing.T) {
	b := newFakeBus(0xA011)
	b.failAt = 2 // first transaction after identify
	err := New(b).Configure(Config48kDAP)
	be, ok := err.(*BusError)
	if !ok || be.Step != "linear regulator" || be.Op != "address" || be.Reg != REG_LINREG_CTRL {
		t.Fatalf("err = %v", err)
	}
	if !strings.HasPrefix(err.Error(), "sgtl5000: linear regulator: address 0026: ") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestReferenceCode(t *testing.T) {
	for _, c := range []struct {
		mv   int
		code uint16
	}{
		{0, 0},
		{1600, 0},
		{1650, 1},
		{1700, 2},
		{1800, 4},
		{2500, 18},
		{3000, 28},
		{3300, 0x1F},
		{5000, 0x1F},
	} {
		if got := ReferenceCode(c.mv); got != c.code {
			t.Errorf("ReferenceCode(%d) = %d, want %d", c.mv, got, c.code)
		}
	}
}

func TestDump(t *testing.T) {
	b := newFakeBus(0xA011)
	b.regs[REG_DIG_POWER] = 0x0073
	var w bytes.Buffer
	if err := New(b).Dump(&w, 0x0000, 0x0004); err != nil {
		t.Fatal(err)
	}
	want := "R 0000 = A011 CHIP_ID PARTID=a0 REVID=11\r\n" +
		"R 0002 = 0073 CHIP_DIG_POWER ADC_POWERUP=1 DAC_POWERUP=1 DAP_POWERUP=1 I2S_OUT_POWERUP=1 I2S_IN_POWERUP=1\r\n" +
		"R 0004 = 0000 CHIP_CLK_CTRL RATE_MODE=0 SYS_FS=0 MCLK_FREQ=0\r\n"
	if w.String() != want {
		t.Errorf("dump:\n%q\nwant\n%q", w.String(), want)
	}
	if len(b.writes()) != 0 {
		t.Errorf("dump wrote registers")
	}
}
