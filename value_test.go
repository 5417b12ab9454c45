// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import "testing"

func TestParseScaled(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
		bad  bool
	}{
		{in: "0", want: 0},
		{in: "42", want: 42},
		{in: "+42", want: 42},
		{in: "0x1000", want: 0x1000},
		{in: "0X1000", want: 0x1000},
		{in: "#1000", want: 0x1000},
		{in: "0xDeadBeef", want: 0xdeadbeef},
		{in: "4k", want: 4 << 10},
		{in: "4K", want: 4 << 10},
		{in: "2m", want: 2 << 20},
		{in: "1g", want: 1 << 30},
		{in: "1t", want: 1 << 40},
		{in: "0x10k", want: 0x10 << 10},
		{in: "0b1010", want: 10},
		{in: "0xFFFFFFFFFFFFFFFF", want: ^uint64(0)},
		{in: "", bad: true},
		{in: "+", bad: true},
		{in: "0x", bad: true},
		{in: "#", bad: true},
		{in: "12ab", bad: true},
		{in: "0b12", bad: true},
		{in: "0b1x01", bad: true}, // don't-care bits are not scaled integers
		{in: "k", bad: true},
		{in: "-1", bad: true},
		{in: "0x1FFFFFFFFFFFFFFFF", bad: true}, // overflow
		{in: "0xFFFFFFFFFFFFFFFFk", bad: true}, // overflow via suffix
	}
	for _, tc := range tests {
		got, err := ParseScaled(tc.in)
		if tc.bad {
			if err == nil {
				t.Errorf("ParseScaled(%q) = %#x, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseScaled(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseScaled(%q) = %#x, want %#x", tc.in, got, tc.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in       string
		val, dcm uint64
		bad      bool
	}{
		{in: "0b1010", val: 10},
		{in: "0b1x", val: 2, dcm: 1},
		{in: "0b1xxx", val: 8, dcm: 7},
		{in: "0bxX", val: 0, dcm: 3},
		{in: "0x1F", val: 0x1f},
		{in: "7", val: 7},
		{in: "0b", bad: true},
		{in: "0b2", bad: true},
	}
	for _, tc := range tests {
		val, dcm, err := ParseValue(tc.in)
		if tc.bad {
			if err == nil {
				t.Errorf("ParseValue(%q) = %#x/%#x, want error", tc.in, val, dcm)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseValue(%q): %v", tc.in, err)
			continue
		}
		if val != tc.val || dcm != tc.dcm {
			t.Errorf("ParseValue(%q) = %#x/%#x, want %#x/%#x", tc.in, val, dcm, tc.val, tc.dcm)
		}
	}
}
