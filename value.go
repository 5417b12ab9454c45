// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"errors"
	"strings"
)

// ErrMalformedNumber is returned for strings that do not match the SVD
// scaledNonNegativeInteger grammar.
var ErrMalformedNumber = errors.New("malformed number")

// ParseScaled parses an SVD scaled non-negative integer:
//
//	[+]?(0x|0X|#)?[0-9a-fA-F]+[kmgtKMGT]?
//	[+]?0b[01]+
//
// or a plain decimal. The k/m/g/t suffix multiplies the value by 2^10,
// 2^20, 2^30 and 2^40 respectively, # is an alternate hex sigil.
// Don't-care bits are not allowed here; see ParseValue.
func ParseScaled(s string) (uint64, error) {
	v, mask, err := ParseValue(s)
	if err != nil {
		return 0, err
	}
	if mask != 0 {
		return 0, ErrMalformedNumber
	}
	return v, nil
}

// ParseValue parses the SVD numeric literal grammar used by enumerated
// values. In addition to the ParseScaled forms it accepts binary
// literals with x/X digits that denote don't-care bits. The returned
// mask has a bit set for every don't-care position; val has zeros
// there.
func ParseValue(s string) (val, mask uint64, err error) {
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if s == "" {
		return 0, 0, ErrMalformedNumber
	}
	if strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B") {
		return parseBinary(s[2:])
	}
	base := uint64(10)
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		s = s[2:]
		base = 16
	case strings.HasPrefix(s, "#"):
		s = s[1:]
		base = 16
	}
	mul := uint64(1)
	if n := len(s); n > 0 {
		switch s[n-1] {
		case 'k', 'K':
			mul = 1 << 10
		case 'm', 'M':
			mul = 1 << 20
		case 'g', 'G':
			mul = 1 << 30
		case 't', 'T':
			mul = 1 << 40
		}
		if mul != 1 {
			s = s[:n-1]
		}
	}
	if s == "" {
		return 0, 0, ErrMalformedNumber
	}
	// Hex digits in a decimal literal mean the author dropped the 0x
	// sigil; strconv would reject them anyway but we want one error
	// path for the whole grammar.
	for i := 0; i < len(s); i++ {
		if digitVal(s[i]) >= base {
			return 0, 0, ErrMalformedNumber
		}
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		d := digitVal(s[i])
		if v > (^uint64(0)-d)/base {
			return 0, 0, ErrMalformedNumber // overflow
		}
		v = v*base + d
	}
	if mul != 1 {
		nv := v * mul
		if nv/mul != v {
			return 0, 0, ErrMalformedNumber
		}
		v = nv
	}
	return v, 0, nil
}

func parseBinary(s string) (val, mask uint64, err error) {
	if s == "" || len(s) > 64 {
		return 0, 0, ErrMalformedNumber
	}
	for i := 0; i < len(s); i++ {
		val <<= 1
		mask <<= 1
		switch s[i] {
		case '0':
		case '1':
			val |= 1
		case 'x', 'X':
			mask |= 1
		default:
			return 0, 0, ErrMalformedNumber
		}
	}
	return val, mask, nil
}

func digitVal(c byte) uint64 {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0')
	case c >= 'a' && c <= 'f':
		return uint64(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return uint64(c-'A') + 10
	}
	return 1 << 8
}
