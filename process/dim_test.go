// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDimIndexTokens(t *testing.T) {
	s := func(v string) *string { return &v }
	tests := []struct {
		dim  uint
		idx  *string
		want []string
		bad  bool
	}{
		{dim: 3, idx: nil, want: []string{"0", "1", "2"}},
		{dim: 4, idx: s("3-6"), want: []string{"3", "4", "5", "6"}},
		{dim: 1, idx: s("7-7"), want: []string{"7"}},
		{dim: 3, idx: s("A-C"), want: []string{"A", "B", "C"}},
		{dim: 3, idx: s("x-z"), want: []string{"x", "y", "z"}},
		{dim: 3, idx: s("IN, OUT, ERR"), want: []string{"IN", "OUT", "ERR"}},
		{dim: 1, idx: s("QSPI"), want: []string{"QSPI"}},
		{dim: 2, idx: s("A-C"), bad: true},   // three names, dim 2
		{dim: 2, idx: s("5-3"), bad: true},   // decreasing
		{dim: 2, idx: s("a,b c"), bad: true}, // bad token
	}
	for _, tc := range tests {
		got, diag := dimIndexTokens(tc.dim, tc.idx, "P.R")
		if tc.bad {
			if diag == nil {
				t.Errorf("dimIndexTokens(%d, %v) = %v, want diagnostic", tc.dim, tc.idx, got)
			} else if diag.Kind != DimIndexMismatch {
				t.Errorf("diagnostic kind = %v, want DimIndexMismatch", diag.Kind)
			}
			continue
		}
		if diag != nil {
			t.Errorf("dimIndexTokens(%d, %v): %v", tc.dim, tc.idx, diag)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("dimIndexTokens(%d, %v) mismatch:\n%s", tc.dim, tc.idx, diff)
		}
	}
}

func TestSubstitutionListExpansion(t *testing.T) {
	out := mustProcess(t, parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register>
      <name>DATA%s</name>
      <dim>3</dim>
      <dimIncrement>4</dimIncrement>
      <dimIndex>A-C</dimIndex>
      <addressOffset>0x0</addressOffset>
    </register>
    <register><name>CTRL</name><addressOffset>0x10</addressOffset></register>
  </registers>
</peripheral>`))
	p := out.Peripheral("P")
	var names []string
	var addrs []uint64
	for _, it := range p.Items {
		r := it.(*Register)
		names = append(names, r.Name)
		addrs = append(addrs, r.Address)
	}
	// Expanded elements sit at the template's position, in ascending
	// index order, before the later siblings.
	wantNames := []string{"DATAA", "DATAB", "DATAC", "CTRL"}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Fatalf("sibling order:\n%s", diff)
	}
	wantAddrs := []uint64{0x40000000, 0x40000004, 0x40000008, 0x40000010}
	if diff := cmp.Diff(wantAddrs, addrs); diff != "" {
		t.Errorf("addresses:\n%s", diff)
	}
	for _, it := range p.Items[:3] {
		if r := it.(*Register); r.Array {
			t.Errorf("%s: substitution form must not be an array", r.Name)
		}
	}
}

func TestFieldDimExpansion(t *testing.T) {
	out := mustProcess(t, parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register>
      <name>R</name>
      <addressOffset>0x0</addressOffset>
      <fields>
        <field>
          <name>CH%s_EN</name>
          <dim>4</dim>
          <dimIncrement>2</dimIncrement>
          <bitOffset>0</bitOffset>
          <bitWidth>1</bitWidth>
        </field>
      </fields>
    </register>
  </registers>
</peripheral>`))
	r := out.Peripheral("P").Register("R")
	if len(r.Fields) != 4 {
		t.Fatalf("got %d fields, want 4", len(r.Fields))
	}
	for i, f := range r.Fields {
		wantLSB := uint(i * 2)
		if f.LSB != wantLSB || f.MSB != wantLSB {
			t.Errorf("%s at [%d:%d], want bit %d", f.Name, f.MSB, f.LSB, wantLSB)
		}
	}
	if r.Fields[2].Name != "CH2_EN" {
		t.Errorf("field name %q", r.Fields[2].Name)
	}
}

func TestDimArrayIndexEnum(t *testing.T) {
	out := mustProcess(t, parseDev(t, `
<peripheral>
  <name>P</name>
  <baseAddress>0x40000000</baseAddress>
  <registers>
    <register>
      <name>CH[%s]</name>
      <dim>2</dim>
      <dimIncrement>4</dimIncrement>
      <addressOffset>0x0</addressOffset>
      <dimArrayIndex>
        <headerEnumName>CHIdx</headerEnumName>
        <enumeratedValue><name>CH_A</name><value>0</value></enumeratedValue>
        <enumeratedValue><name>CH_B</name><value>1</value></enumeratedValue>
      </dimArrayIndex>
    </register>
  </registers>
</peripheral>`))
	p := out.Peripheral("P")
	r0 := p.Register("CH[0]")
	if r0 == nil {
		t.Fatal("CH[0] missing")
	}
	if !r0.Array || r0.Index != "0" {
		t.Errorf("CH[0] array/index = %v/%q", r0.Array, r0.Index)
	}
	if r0.IndexEnum == nil || r0.IndexEnum.HeaderEnumName != "CHIdx" || len(r0.IndexEnum.Values) != 2 {
		t.Fatalf("index enumeration not attached: %+v", r0.IndexEnum)
	}
	r1 := p.Register("CH[1]")
	if r1 == nil || r1.IndexEnum == nil {
		t.Fatal("CH[1] or its index enumeration missing")
	}
	if r0.IndexEnum == r1.IndexEnum {
		t.Errorf("instances share one index enumeration")
	}
}

func TestDimErrors(t *testing.T) {
	tests := []struct {
		name string
		reg  string
	}{
		{
			"no placeholder",
			`<register><name>DATA</name><dim>2</dim><dimIncrement>4</dimIncrement><addressOffset>0</addressOffset></register>`,
		},
		{
			"dimIndex length mismatch",
			`<register><name>DATA%s</name><dim>3</dim><dimIncrement>4</dimIncrement><dimIndex>A-B</dimIndex><addressOffset>0</addressOffset></register>`,
		},
		{
			"zero dim",
			`<register><name>DATA%s</name><dim>0</dim><dimIncrement>4</dimIncrement><addressOffset>0</addressOffset></register>`,
		},
		{
			"missing increment",
			`<register><name>DATA%s</name><dim>2</dim><addressOffset>0</addressOffset></register>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dev := parseDev(t, `<peripheral><name>P</name><baseAddress>0x40000000</baseAddress><registers>`+tc.reg+`</registers></peripheral>`)
			_, _, err := Process(dev, nil)
			d, ok := err.(*Diag)
			if !ok || d.Kind != DimIndexMismatch {
				t.Fatalf("got %v, want DimIndexMismatch", err)
			}
		})
	}
}
