// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

import (
	"testing"

	"github.com/embeddedgo/svd"
)

func reg(name string, off svd.Uint64) *svd.Register {
	return &svd.Register{Name: name, AddressOffset: off}
}

func TestSplitRef(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		n    int
		tmpl bool
	}{
		{in: "Timer", ok: true, n: 1},
		{in: "Timer[0]", ok: true, n: 1},
		{in: "Timer[%s]", ok: true, n: 1, tmpl: true},
		{in: "Timer%s", ok: true, n: 1, tmpl: true},
		{in: "Periph.Cluster.Reg.Field", ok: true, n: 4},
		{in: "Periph.Timer[3].CR", ok: true, n: 3},
		{in: "_x9", ok: true, n: 1},
		{in: "", ok: false},
		{in: "a..b", ok: false},
		{in: "9bad", ok: false},
		{in: "Timer[x]", ok: false},
		{in: "Timer[", ok: false},
		{in: "Ti mer", ok: false},
	}
	for _, tc := range tests {
		segs, ok := splitRef(tc.in)
		if ok != tc.ok {
			t.Errorf("splitRef(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if len(segs) != tc.n {
			t.Errorf("splitRef(%q) yields %d segments, want %d", tc.in, len(segs), tc.n)
		}
		if segs[0].template != tc.tmpl {
			t.Errorf("splitRef(%q) template = %v, want %v", tc.in, segs[0].template, tc.tmpl)
		}
	}
}

func TestTemplateMatching(t *testing.T) {
	tmpl := &node{kind: kindRegister, r: reg("Timer[%s]", 0)}
	subst := &node{kind: kindRegister, r: reg("Timer%s", 0)}
	plain := &node{kind: kindRegister, r: reg("Timer", 0)}
	for _, tc := range []struct {
		n    *node
		ref  string
		want bool
	}{
		{tmpl, "Timer[0]", true},
		{tmpl, "Timer[%s]", true},
		{tmpl, "Timer", true},
		{tmpl, "Timer0", false},
		{subst, "Timer", true},
		{subst, "Timer%s", true},
		{subst, "TimerA", false},
		{plain, "Timer", true},
		{plain, "Timer[0]", false},
	} {
		segs, ok := splitRef(tc.ref)
		if !ok {
			t.Fatalf("splitRef(%q) failed", tc.ref)
		}
		if got := segMatches(tc.n, segs[0]); got != tc.want {
			t.Errorf("segMatches(%q, %q) = %v, want %v", tc.n.name(), tc.ref, got, tc.want)
		}
	}
}

func TestDottedAbsoluteReference(t *testing.T) {
	out := mustProcess(t, parseDev(t, `
<peripheral>
  <name>TimerA</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register>
      <name>CR</name>
      <addressOffset>0x0</addressOffset>
      <fields><field><name>EN</name><bitOffset>0</bitOffset><bitWidth>1</bitWidth></field></fields>
    </register>
  </registers>
</peripheral>
<peripheral>
  <name>TimerB</name>
  <baseAddress>0x40001000</baseAddress>
  <registers>
    <register derivedFrom="TimerA.CR"><name>CR</name><addressOffset>0x0</addressOffset></register>
  </registers>
</peripheral>`))
	cr := out.Peripheral("TimerB").Register("CR")
	if cr == nil || cr.Field("EN") == nil {
		t.Fatal("dotted reference across peripherals not resolved")
	}
	if cr.Address != 0x40001000 {
		t.Errorf("address = %#x", cr.Address)
	}
}

func TestUnresolvedReference(t *testing.T) {
	dev := parseDev(t, `
<peripheral derivedFrom="Nonexistent"><name>P</name><baseAddress>0x40000000</baseAddress></peripheral>`)
	_, _, err := Process(dev, nil)
	d, ok := err.(*Diag)
	if !ok || d.Kind != UnresolvedReference {
		t.Fatalf("got %v, want UnresolvedReference", err)
	}
	if d.Path != "P" {
		t.Errorf("path = %q, want P", d.Path)
	}
}

func TestWrongKindReference(t *testing.T) {
	// A register deriving from a cluster is a kind mismatch.
	dev := parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <cluster>
      <name>ClusterA</name>
      <addressOffset>0x0</addressOffset>
      <register><name>R</name><addressOffset>0x0</addressOffset></register>
    </cluster>
    <register derivedFrom="ClusterA"><name>R2</name><addressOffset>0x10</addressOffset></register>
  </registers>
</peripheral>`)
	_, _, err := Process(dev, nil)
	d, ok := err.(*Diag)
	if !ok || d.Kind != WrongKindReference {
		t.Fatalf("got %v, want WrongKindReference", err)
	}
}

func TestSelfDerivationRejected(t *testing.T) {
	dev := parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <cluster>
      <name>ClusterA</name>
      <addressOffset>0x0</addressOffset>
      <cluster derivedFrom="P.ClusterA"><name>Inner</name><addressOffset>0x0</addressOffset></cluster>
    </cluster>
  </registers>
</peripheral>`)
	_, _, err := Process(dev, nil)
	d, ok := err.(*Diag)
	if !ok || d.Kind != CircularInheritance {
		t.Fatalf("got %v, want CircularInheritance for subtree self-derivation", err)
	}
}
