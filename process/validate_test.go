// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

import (
	"encoding/xml"
	"testing"

	"github.com/embeddedgo/svd"
)

func processErrKind(t *testing.T, dev *svd.Device) DiagKind {
	t.Helper()
	_, _, err := Process(dev, nil)
	if err == nil {
		t.Fatal("want a fatal diagnostic, got success")
	}
	d, ok := err.(*Diag)
	if !ok {
		t.Fatalf("error is not a *Diag: %v", err)
	}
	return d.Kind
}

func TestDuplicateRegisterName(t *testing.T) {
	dev := parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register><name>R</name><addressOffset>0x0</addressOffset></register>
    <register><name>R</name><addressOffset>0x4</addressOffset></register>
  </registers>
</peripheral>`)
	if k := processErrKind(t, dev); k != DuplicateName {
		t.Errorf("got %v, want DuplicateName", k)
	}
}

func TestRegisterOverlap(t *testing.T) {
	dev := parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register><name>A</name><addressOffset>0x0</addressOffset></register>
    <register><name>B</name><addressOffset>0x2</addressOffset></register>
  </registers>
</peripheral>`)
	if k := processErrKind(t, dev); k != AddressOverlap {
		t.Errorf("got %v, want AddressOverlap", k)
	}
}

func TestAlternateRegisterOverlayAllowed(t *testing.T) {
	out := mustProcess(t, parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register><name>A</name><addressOffset>0x0</addressOffset></register>
    <register>
      <name>B</name>
      <addressOffset>0x0</addressOffset>
      <alternateRegister>A</alternateRegister>
    </register>
  </registers>
</peripheral>`))
	p := out.Peripheral("P")
	a, b := p.Register("A"), p.Register("B")
	if a == nil || b == nil {
		t.Fatal("register dropped")
	}
	if a.Address != b.Address {
		t.Errorf("alternate registers at %#x and %#x", a.Address, b.Address)
	}
}

func TestConflictingAlternate(t *testing.T) {
	dev := parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register>
      <name>A</name>
      <addressOffset>0x0</addressOffset>
      <alternateGroup>G</alternateGroup>
      <alternateRegister>B</alternateRegister>
    </register>
    <register><name>B</name><addressOffset>0x4</addressOffset></register>
  </registers>
</peripheral>`)
	if k := processErrKind(t, dev); k != ConflictingAlternate {
		t.Errorf("got %v, want ConflictingAlternate", k)
	}
}

func TestAddressBlockContainment(t *testing.T) {
	dev := parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <addressBlock>
    <offset>0</offset>
    <size>0x10</size>
    <usage>registers</usage>
  </addressBlock>
  <registers>
    <register><name>IN</name><addressOffset>0xC</addressOffset></register>
    <register><name>OUT</name><addressOffset>0x20</addressOffset></register>
  </registers>
</peripheral>`)
	if k := processErrKind(t, dev); k != AddressBlockViolation {
		t.Errorf("got %v, want AddressBlockViolation", k)
	}
}

func TestReservedBlockWarning(t *testing.T) {
	dev := parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <addressBlock>
    <offset>0</offset>
    <size>0x10</size>
    <usage>reserved</usage>
  </addressBlock>
  <registers>
    <register><name>R</name><addressOffset>0x0</addressOffset></register>
  </registers>
</peripheral>`)
	_, diags, err := Process(dev, nil)
	if err != nil {
		t.Fatalf("reserved block with registers must only warn, got %v", err)
	}
	var warned bool
	for _, d := range diags {
		if d.Kind == AddressBlockViolation && d.Warning {
			warned = true
		}
	}
	if !warned {
		t.Errorf("missing reserved-block warning: %v", diags)
	}
}

func TestPeripheralBlockOverlap(t *testing.T) {
	dev := parseDev(t, `
<peripheral>
  <name>A</name>
  <baseAddress>0x40000000</baseAddress>
  <addressBlock><offset>0</offset><size>0x1000</size><usage>registers</usage></addressBlock>
</peripheral>
<peripheral>
  <name>B</name>
  <baseAddress>0x40000800</baseAddress>
  <addressBlock><offset>0</offset><size>0x1000</size><usage>registers</usage></addressBlock>
</peripheral>`)
	if k := processErrKind(t, dev); k != AddressOverlap {
		t.Errorf("got %v, want AddressOverlap", k)
	}
}

func TestAlternatePeripheralOverlayAllowed(t *testing.T) {
	mustProcess(t, parseDev(t, `
<peripheral>
  <name>A</name>
  <baseAddress>0x40000000</baseAddress>
  <addressBlock><offset>0</offset><size>0x1000</size><usage>registers</usage></addressBlock>
</peripheral>
<peripheral>
  <name>B</name>
  <baseAddress>0x40000000</baseAddress>
  <alternatePeripheral>A</alternatePeripheral>
  <addressBlock><offset>0</offset><size>0x1000</size><usage>registers</usage></addressBlock>
</peripheral>`))
}

func TestFieldOverlap(t *testing.T) {
	dev := parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register>
      <name>R</name>
      <addressOffset>0x0</addressOffset>
      <fields>
        <field><name>A</name><bitOffset>0</bitOffset><bitWidth>4</bitWidth></field>
        <field><name>B</name><bitOffset>3</bitOffset><bitWidth>2</bitWidth></field>
      </fields>
    </register>
  </registers>
</peripheral>`)
	if k := processErrKind(t, dev); k != FieldOutOfRange {
		t.Errorf("got %v, want FieldOutOfRange", k)
	}
}

func TestFieldOutsideRegister(t *testing.T) {
	dev := parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register>
      <name>R</name>
      <addressOffset>0x0</addressOffset>
      <size>8</size>
      <fields>
        <field><name>A</name><lsb>6</lsb><msb>9</msb></field>
      </fields>
    </register>
  </registers>
</peripheral>`)
	if k := processErrKind(t, dev); k != FieldOutOfRange {
		t.Errorf("got %v, want FieldOutOfRange", k)
	}
}

func TestInvalidBitRangeForms(t *testing.T) {
	dev := parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register>
      <name>R</name>
      <addressOffset>0x0</addressOffset>
      <fields>
        <field><name>A</name><lsb>5</lsb><msb>2</msb></field>
      </fields>
    </register>
  </registers>
</peripheral>`)
	if k := processErrKind(t, dev); k != InvalidBitRange {
		t.Errorf("got %v, want InvalidBitRange", k)
	}
}

func TestBitRangePattern(t *testing.T) {
	out := mustProcess(t, parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register>
      <name>R</name>
      <addressOffset>0x0</addressOffset>
      <fields>
        <field><name>A</name><bitRange>[7:4]</bitRange></field>
      </fields>
    </register>
  </registers>
</peripheral>`))
	f := out.Peripheral("P").Register("R").Field("A")
	if f.LSB != 4 || f.MSB != 7 || f.Width() != 4 {
		t.Errorf("bitRange pattern: got [%d:%d]", f.MSB, f.LSB)
	}
}

func cpuDev(t *testing.T, cpu string) *svd.Device {
	t.Helper()
	src := `<device schemaVersion="1.3">
  <name>TESTDEV</name>
  <version>1.0</version>
  <description>test device</description>
  ` + cpu + `
  <addressUnitBits>8</addressUnitBits>
  <width>32</width>
  <peripherals>
    <peripheral><name>P</name><baseAddress>0x40000000</baseAddress></peripheral>
  </peripherals>
</device>`
	dev := new(svd.Device)
	if err := xml.Unmarshal([]byte(src), dev); err != nil {
		t.Fatal(err)
	}
	return dev
}

func TestCPUValidation(t *testing.T) {
	tests := []struct {
		name string
		cpu  string
		want DiagKind
	}{
		{
			"bad prio bits",
			`<cpu><name>CM4</name><revision>r1p0</revision><endian>little</endian><nvicPrioBits>9</nvicPrioBits><vendorSystickConfig>false</vendorSystickConfig></cpu>`,
			CPUFieldOutOfRange,
		},
		{
			"bad revision",
			`<cpu><name>CM4</name><revision>1.0</revision><endian>little</endian><nvicPrioBits>4</nvicPrioBits><vendorSystickConfig>false</vendorSystickConfig></cpu>`,
			CPUFieldOutOfRange,
		},
		{
			"bad name",
			`<cpu><name>Z80</name><revision>r1p0</revision><endian>little</endian><nvicPrioBits>4</nvicPrioBits><vendorSystickConfig>false</vendorSystickConfig></cpu>`,
			CPUFieldOutOfRange,
		},
		{
			"sau base above limit",
			`<cpu><name>CM33</name><revision>r0p4</revision><endian>little</endian><nvicPrioBits>3</nvicPrioBits><vendorSystickConfig>false</vendorSystickConfig>
			 <sauRegionsConfig><region><base>0x2000</base><limit>0x1000</limit><access>n</access></region></sauRegionsConfig></cpu>`,
			SAURegionInvalid,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if k := processErrKind(t, cpuDev(t, tc.cpu)); k != tc.want {
				t.Errorf("got %v, want %v", k, tc.want)
			}
		})
	}
	// A valid CPU goes through.
	mustProcess(t, cpuDev(t, `<cpu><name>CM33</name><revision>r0p4</revision><endian>little</endian><nvicPrioBits>3</nvicPrioBits><vendorSystickConfig>false</vendorSystickConfig></cpu>`))
}

func TestCollectDiagnostics(t *testing.T) {
	dev := parseDev(t, `
<peripheral>
  <name>Good</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register><name>R</name><addressOffset>0x0</addressOffset></register>
  </registers>
</peripheral>
<peripheral derivedFrom="Nonexistent"><name>Bad</name><baseAddress>0x40001000</baseAddress></peripheral>`)
	out, diags, err := Process(dev, &Options{CollectDiagnostics: true})
	if err != nil {
		t.Fatalf("collect mode must not fail: %v", err)
	}
	if out == nil || !out.Partial {
		t.Fatal("result must be marked partial")
	}
	if out.Peripheral("Good") == nil {
		t.Errorf("healthy subtree dropped")
	}
	if out.Peripheral("Bad") != nil {
		t.Errorf("broken subtree kept")
	}
	var found bool
	for _, d := range diags {
		if d.Kind == UnresolvedReference && !d.Warning {
			found = true
		}
	}
	if !found {
		t.Errorf("missing UnresolvedReference diagnostic: %v", diags)
	}
}
