// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

import "fmt"

// DiagKind identifies a class of semantic error or warning detected
// while processing a device.
type DiagKind int

const (
	MalformedNumber DiagKind = iota + 1
	DimIndexMismatch
	InvalidBitRange
	ConflictingAlternate
	DuplicateName
	AddressOverlap
	FieldOutOfRange
	AddressBlockViolation

	UnresolvedReference
	WrongKindReference
	CircularInheritance

	ConflictingEnumUsage
	DuplicateEnumValue
	DefaultExpansionOverflow

	CPUFieldOutOfRange
	SAURegionInvalid
)

var diagKindNames = [...]string{
	MalformedNumber:          "MalformedNumber",
	DimIndexMismatch:         "DimIndexMismatch",
	InvalidBitRange:          "InvalidBitRange",
	ConflictingAlternate:     "ConflictingAlternate",
	DuplicateName:            "DuplicateName",
	AddressOverlap:           "AddressOverlap",
	FieldOutOfRange:          "FieldOutOfRange",
	AddressBlockViolation:    "AddressBlockViolation",
	UnresolvedReference:      "UnresolvedReference",
	WrongKindReference:       "WrongKindReference",
	CircularInheritance:      "CircularInheritance",
	ConflictingEnumUsage:     "ConflictingEnumUsage",
	DuplicateEnumValue:       "DuplicateEnumValue",
	DefaultExpansionOverflow: "DefaultExpansionOverflow",
	CPUFieldOutOfRange:       "CPUFieldOutOfRange",
	SAURegionInvalid:         "SAURegionInvalid",
}

func (k DiagKind) String() string {
	if k >= 1 && int(k) < len(diagKindNames) {
		return diagKindNames[k]
	}
	return fmt.Sprintf("DiagKind(%d)", int(k))
}

// Diag is a structured diagnostic. Path is the pre-expansion path of
// the offending node ("" for device-level problems).
type Diag struct {
	Kind    DiagKind
	Path    string
	Details string
	Warning bool
}

func (d *Diag) Error() string {
	s := d.Kind.String()
	if d.Warning {
		s = "warning: " + s
	}
	if d.Path != "" {
		s += " at " + d.Path
	}
	if d.Details != "" {
		s += ": " + d.Details
	}
	return s
}
