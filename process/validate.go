// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

import (
	"fmt"
	"regexp"
)

// validate checks the structural invariants of the processed tree:
// unique sibling names, overlap rules with their alternate-element
// exceptions, address-block containment, field ranges and the CPU and
// SAU descriptors.
func (p *processor) validate(d *Device) error {
	if err := p.validateCPU(d.CPU); err != nil {
		return err
	}
	if err := p.validatePeripheralSet(d); err != nil {
		return err
	}
	for _, pp := range d.Peripherals {
		if err := p.validatePeripheral(d, pp); err != nil {
			return err
		}
	}
	return nil
}

var revisionRe = regexp.MustCompile(`^r[0-9]+p[0-9]+$`)

var cpuNames = map[string]bool{
	"CM0": true, "CM0PLUS": true, "CM0+": true, "CM1": true,
	"CM3": true, "CM4": true, "CM7": true,
	"CM23": true, "CM33": true, "CM35P": true, "CM52": true,
	"CM55": true, "CM85": true,
	"SC000": true, "SC300": true,
	"ARMV8MML": true, "ARMV8MBL": true, "ARMV81MML": true,
	"CA5": true, "CA7": true, "CA8": true, "CA9": true,
	"CA15": true, "CA17": true, "CA53": true, "CA57": true, "CA72": true,
	"SMC1": true, "other": true,
}

func (p *processor) validateCPU(cpu *CPU) error {
	if cpu == nil {
		return nil
	}
	if !cpuNames[cpu.Name] {
		if err := p.fatal(&Diag{
			Kind: CPUFieldOutOfRange, Path: "cpu",
			Details: "unknown CPU name " + quote(cpu.Name),
		}); err != nil {
			return err
		}
	}
	if !revisionRe.MatchString(cpu.Revision) {
		if err := p.fatal(&Diag{
			Kind: CPUFieldOutOfRange, Path: "cpu",
			Details: "revision " + quote(cpu.Revision) + " does not match rNpM",
		}); err != nil {
			return err
		}
	}
	switch cpu.Endian {
	case Little, Big, Selectable, OtherEnd:
	default:
		if err := p.fatal(&Diag{
			Kind: CPUFieldOutOfRange, Path: "cpu",
			Details: "unknown endianness " + quote(string(cpu.Endian)),
		}); err != nil {
			return err
		}
	}
	if cpu.NVICPrioBits < 2 || cpu.NVICPrioBits > 8 {
		if err := p.fatal(&Diag{
			Kind: CPUFieldOutOfRange, Path: "cpu",
			Details: fmt.Sprintf("nvicPrioBits %d outside [2,8]", cpu.NVICPrioBits),
		}); err != nil {
			return err
		}
	}
	if sc := cpu.SAURegionsConfig; sc != nil {
		if cpu.SAUNumRegions != nil && uint(len(sc.Regions)) > *cpu.SAUNumRegions {
			if err := p.fatal(&Diag{
				Kind: SAURegionInvalid, Path: "cpu",
				Details: fmt.Sprintf("%d regions configured, %d supported",
					len(sc.Regions), *cpu.SAUNumRegions),
			}); err != nil {
				return err
			}
		}
		for i, r := range sc.Regions {
			path := fmt.Sprintf("cpu.sauRegionsConfig.region[%d]", i)
			if r.Base > r.Limit {
				if err := p.fatal(&Diag{
					Kind: SAURegionInvalid, Path: path,
					Details: fmt.Sprintf("base %#x above limit %#x", r.Base, r.Limit),
				}); err != nil {
					return err
				}
			}
			if r.Access != NonSecureCallable && r.Access != NonSecureOnly {
				if err := p.fatal(&Diag{
					Kind: SAURegionInvalid, Path: path,
					Details: "access must be c or n",
				}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// validatePeripheralSet checks peripheral names and the address-block
// overlap rule between peripherals: overlapping peripherals must name
// each other via alternatePeripheral.
func (p *processor) validatePeripheralSet(d *Device) error {
	seen := make(map[string]bool)
	for _, pp := range d.Peripherals {
		if seen[pp.Name] {
			if err := p.fatal(&Diag{
				Kind: DuplicateName, Path: pp.Name,
				Details: "duplicate peripheral name",
			}); err != nil {
				return err
			}
		}
		seen[pp.Name] = true
	}
	for i, a := range d.Peripherals {
		for _, b := range d.Peripherals[i+1:] {
			if !peripheralsOverlap(a, b) || alternates(a.Name, b.Name, a.AlternatePeripheral, b.AlternatePeripheral) {
				continue
			}
			if err := p.fatal(&Diag{
				Kind: AddressOverlap, Path: b.Name,
				Details: "address blocks overlap " + quote(a.Name) +
					" without alternatePeripheral",
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func peripheralsOverlap(a, b *Peripheral) bool {
	for _, ab := range a.AddressBlocks {
		for _, bb := range b.AddressBlocks {
			as, ae := a.BaseAddress+ab.Offset, a.BaseAddress+ab.Offset+ab.Size
			bs, be := b.BaseAddress+bb.Offset, b.BaseAddress+bb.Offset+bb.Size
			if as < be && bs < ae {
				return true
			}
		}
	}
	return false
}

// alternates reports whether one of two elements names the other as
// its alternate.
func alternates(aName, bName, aAlt, bAlt string) bool {
	return (aAlt != "" && aAlt == bName) || (bAlt != "" && bAlt == aName)
}

func (p *processor) validatePeripheral(d *Device, pp *Peripheral) error {
	// Blocks owned by one peripheral must span disjoint ranges.
	for i, a := range pp.AddressBlocks {
		for _, b := range pp.AddressBlocks[i+1:] {
			if a.Offset < b.Offset+b.Size && b.Offset < a.Offset+a.Size {
				if err := p.fatal(&Diag{
					Kind: AddressBlockViolation, Path: pp.Name,
					Details: "address blocks overlap",
				}); err != nil {
					return err
				}
			}
		}
	}
	if err := p.validateItems(d, pp, pp.Name, pp.Items); err != nil {
		return err
	}
	return nil
}

func (p *processor) validateItems(d *Device, pp *Peripheral, path string, items []Item) error {
	seen := make(map[string]bool)
	for _, it := range items {
		name := itemName(it)
		ipath := path + "." + name
		if seen[name] {
			if err := p.fatal(&Diag{
				Kind: DuplicateName, Path: ipath, Details: "duplicate name",
			}); err != nil {
				return err
			}
		}
		seen[name] = true
		switch v := it.(type) {
		case *Register:
			if err := p.validateRegister(d, pp, ipath, v); err != nil {
				return err
			}
		case *Cluster:
			if err := p.validateItems(d, pp, ipath, v.Items); err != nil {
				return err
			}
		}
	}
	// Overlaps among siblings, subject to the alternate exceptions.
	for i, a := range items {
		for _, b := range items[i+1:] {
			if err := p.checkItemOverlap(path, a, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func itemName(it Item) string {
	switch v := it.(type) {
	case *Register:
		return v.Name
	case *Cluster:
		return v.Name
	}
	return ""
}

func itemSpan(it Item) (start, end uint64) {
	switch v := it.(type) {
	case *Register:
		return v.Address, v.Address + regBytes(v.Size)
	case *Cluster:
		return v.BaseAddress, v.EndAddress
	}
	return 0, 0
}

func (p *processor) checkItemOverlap(path string, a, b Item) error {
	as, ae := itemSpan(a)
	bs, be := itemSpan(b)
	if as >= be || bs >= ae {
		return nil
	}
	ra, aIsReg := a.(*Register)
	rb, bIsReg := b.(*Register)
	switch {
	case aIsReg && bIsReg:
		if alternates(ra.Name, rb.Name, ra.AlternateRegister, rb.AlternateRegister) {
			return nil
		}
		// Registers sharing an alternate group overlay each other.
		if ra.AlternateGroup != "" && ra.AlternateGroup == rb.AlternateGroup {
			return nil
		}
	case !aIsReg && !bIsReg:
		ca, cb := a.(*Cluster), b.(*Cluster)
		if alternates(ca.Name, cb.Name, ca.AlternateCluster, cb.AlternateCluster) {
			return nil
		}
	}
	return p.fatal(&Diag{
		Kind: AddressOverlap, Path: path + "." + itemName(b),
		Details: quote(itemName(b)) + " overlaps " + quote(itemName(a)),
	})
}

func (p *processor) validateRegister(d *Device, pp *Peripheral, path string, r *Register) error {
	if r.Size == 0 {
		return p.fatal(&Diag{Kind: InvalidBitRange, Path: path, Details: "zero register size"})
	}
	if r.AlternateGroup != "" && r.AlternateRegister != "" {
		if err := p.fatal(&Diag{
			Kind: ConflictingAlternate, Path: path,
			Details: "both alternateGroup and alternateRegister set",
		}); err != nil {
			return err
		}
	}
	// A register's size divides or equals the device width.
	if w := d.Width; w != 0 && r.Size != w && (r.Size == 0 || w%r.Size != 0) {
		if err := p.fatal(&Diag{
			Kind: InvalidBitRange, Path: path,
			Details: fmt.Sprintf("size %d does not divide the %d-bit bus", r.Size, w),
		}); err != nil {
			return err
		}
	}
	if err := p.checkAddressBlocks(pp, path, r); err != nil {
		return err
	}
	// Fields lie within the register and may not overlap each other.
	for i, f := range r.Fields {
		fpath := path + "." + f.Name
		if f.MSB >= r.Size {
			if err := p.fatal(&Diag{
				Kind: FieldOutOfRange, Path: fpath,
				Details: fmt.Sprintf("msb %d outside the %d-bit register", f.MSB, r.Size),
			}); err != nil {
				return err
			}
		}
		for _, g := range r.Fields[:i] {
			if f.Name == g.Name {
				if err := p.fatal(&Diag{
					Kind: DuplicateName, Path: fpath, Details: "duplicate field name",
				}); err != nil {
					return err
				}
			}
			if f.LSB <= g.MSB && g.LSB <= f.MSB {
				if err := p.fatal(&Diag{
					Kind: FieldOutOfRange, Path: fpath,
					Details: "bits overlap field " + quote(g.Name),
				}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// checkAddressBlocks verifies that the register lies inside at least
// one registers-usage address block of its peripheral.
func (p *processor) checkAddressBlocks(pp *Peripheral, path string, r *Register) error {
	if len(pp.AddressBlocks) == 0 {
		return nil
	}
	off := r.Address - pp.BaseAddress
	end := off + regBytes(r.Size)
	for _, b := range pp.AddressBlocks {
		if off < b.Offset || end > b.Offset+b.Size {
			continue
		}
		switch b.Usage {
		case BlockRegisters:
			return nil
		case BlockReserved:
			p.warn(&Diag{
				Kind: AddressBlockViolation, Path: path, Warning: true,
				Details: "register inside a reserved address block",
			})
			return nil
		}
	}
	return p.fatal(&Diag{
		Kind: AddressBlockViolation, Path: path,
		Details: fmt.Sprintf("register at offset %#x is outside every registers-usage address block", off),
	})
}
