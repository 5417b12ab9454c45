// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

import (
	"errors"
	"strconv"

	"github.com/embeddedgo/svd"
)

// propSet is the immutable record of inheritable register properties
// carried down the tree during conversion. Merging a node's own
// properties onto the inherited record produces the record for its
// children; ancestors are never mutated.
type propSet struct {
	size       *uint
	access     *Access
	protection *Protection
	resetValue *uint64
	resetMask  *uint64
}

func (p *processor) mergeProps(ps propSet, g *svd.RegisterPropertiesGroup, path string) propSet {
	if g.Size != nil {
		v := uint(*g.Size)
		ps.size = &v
	}
	if g.Access != nil {
		if a, ok := parseAccess(*g.Access); ok {
			ps.access = &a
		} else {
			p.warn(&Diag{
				Kind: MalformedNumber, Path: path, Warning: true,
				Details: "unknown access " + quote(*g.Access) + ", ignored",
			})
		}
	}
	if g.Protection != nil {
		if pr, ok := parseProtection(*g.Protection); ok {
			// The strictest qualifier wins: secure > privileged >
			// non-secure.
			if ps.protection == nil || protRank(pr) > protRank(*ps.protection) {
				ps.protection = &pr
			}
		} else {
			p.warn(&Diag{
				Kind: MalformedNumber, Path: path, Warning: true,
				Details: "unknown protection " + quote(*g.Protection) + ", ignored",
			})
		}
	}
	if g.ResetValue != nil {
		v := uint64(*g.ResetValue)
		ps.resetValue = &v
	}
	if g.ResetMask != nil {
		v := uint64(*g.ResetMask)
		if ps.resetMask != nil {
			v &= *ps.resetMask
		}
		ps.resetMask = &v
	}
	return ps
}

func parseAccess(s string) (Access, bool) {
	switch Access(s) {
	case ReadOnly, WriteOnly, ReadWrite, WriteOnce, ReadWriteOnce:
		return Access(s), true
	}
	// SVDConv accepts the deprecated bare forms.
	switch s {
	case "read":
		return ReadOnly, true
	case "write":
		return WriteOnly, true
	}
	return "", false
}

func parseProtection(s string) (Protection, bool) {
	switch Protection(s) {
	case Secure, NonSecure, Privileged:
		return Protection(s), true
	}
	return "", false
}

func protRank(p Protection) int {
	switch p {
	case Secure:
		return 3
	case Privileged:
		return 2
	case NonSecure:
		return 1
	}
	return 0
}

// registerProps finalizes the propagated record at register level,
// applying the architectural defaults for whatever is still unset.
func (ps propSet) registerProps() (size uint, acc Access, prot Protection, rv, rm uint64) {
	size = 32
	if ps.size != nil {
		size = *ps.size
	}
	acc = ReadWrite
	if ps.access != nil {
		acc = *ps.access
	}
	if ps.protection != nil {
		prot = *ps.protection
	}
	if ps.resetValue != nil {
		rv = *ps.resetValue
	}
	if ps.resetMask != nil {
		rm = *ps.resetMask
	} else {
		rm = bitMask(size)
	}
	return size, acc, prot, rv, rm
}

func bitMask(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return 1<<bits - 1
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// mwv applies the modifiedWriteValues default: a write modifies the
// register unless stated otherwise.
func mwv(p *string) string {
	if p == nil {
		return "modify"
	}
	return *p
}

// convert builds the processed device from the expanded working tree,
// propagating the inheritable properties top down.
func (p *processor) convert(dev *svd.Device) (*Device, error) {
	out := &Device{
		SchemaVersion:           dev.SchemaVersion,
		Vendor:                  str(dev.Vendor),
		VendorID:                str(dev.VendorID),
		Name:                    dev.Name,
		Series:                  str(dev.Series),
		Version:                 dev.Version,
		Description:             dev.Description,
		LicenseText:             str(dev.LicenseText),
		HeaderSystemFilename:    str(dev.HeaderSystemFilename),
		HeaderDefinitionsPrefix: str(dev.HeaderDefinitionsPrefix),
		AddressUnitBits:         uint(dev.AddressUnitBits),
		Width:                   uint(dev.Width),
	}
	if dev.VendorExtensions != nil {
		out.VendorExtensions = append([]byte(nil), dev.VendorExtensions.XML...)
	}
	out.CPU = convertCPU(dev.CPU)

	ps := p.mergeProps(propSet{}, &dev.RegisterPropertiesGroup, dev.Name)
	size, acc, prot, rv, rm := ps.registerProps()
	out.Size, out.Access, out.Protection, out.ResetValue, out.ResetMask = size, acc, prot, rv, rm

	for _, n := range p.t.root.children {
		pp, err := p.convertPeripheral(n, ps)
		if err != nil {
			return nil, err
		}
		if pp != nil {
			out.Peripherals = append(out.Peripherals, pp)
		}
	}
	return out, nil
}

func convertCPU(cpu *svd.CPU) *CPU {
	if cpu == nil {
		return nil
	}
	out := &CPU{
		Name:                cpu.Name,
		Revision:            cpu.Revision,
		Endian:              Endian(cpu.Endian),
		MPUPresent:          boolVal(cpu.MPUPresent, false),
		FPUPresent:          boolVal(cpu.FPUPresent, false),
		FPUDP:               boolVal(cpu.FPUDP, false),
		DSPPresent:          boolVal(cpu.DSPPresent, false),
		IcachePresent:       boolVal(cpu.IcachePresent, false),
		DcachePresent:       boolVal(cpu.DcachePresent, false),
		ITCMPresent:         boolVal(cpu.ITCMPresent, false),
		DTCMPresent:         boolVal(cpu.DTCMPresent, false),
		VTORPresent:         boolVal(cpu.VTORPresent, true),
		NVICPrioBits:        uint(cpu.NVICPrioBits),
		VendorSystickConfig: cpu.VendorSystickConfig,
	}
	if cpu.DeviceNumInterrupts != nil {
		v := uint(*cpu.DeviceNumInterrupts)
		out.DeviceNumInterrupts = &v
	}
	if cpu.SAUNumRegions != nil {
		v := uint(*cpu.SAUNumRegions)
		out.SAUNumRegions = &v
	}
	if sc := cpu.SAURegionsConfig; sc != nil {
		osc := &SAURegionsConfig{
			Enabled:                boolVal(sc.Enabled, true),
			ProtectionWhenDisabled: Secure,
		}
		if sc.ProtectionWhenDisabled != nil {
			if pr, ok := parseProtection(*sc.ProtectionWhenDisabled); ok {
				osc.ProtectionWhenDisabled = pr
			}
		}
		for _, r := range sc.Regions {
			osc.Regions = append(osc.Regions, &SAURegion{
				Enabled: boolVal(r.Enabled, true),
				Name:    str(r.Name),
				Base:    uint64(r.Base),
				Limit:   uint64(r.Limit),
				Access:  SAUAccess(r.Access),
			})
		}
		out.SAURegionsConfig = osc
	}
	return out
}

func boolVal(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func (p *processor) convertPeripheral(n *node, ps propSet) (*Peripheral, error) {
	sp := n.p
	path := n.path()
	ps = p.mergeProps(ps, &sp.RegisterPropertiesGroup, path)

	out := &Peripheral{
		Name:                sp.Name,
		Version:             str(sp.Version),
		Description:         str(sp.Description),
		AlternatePeripheral: str(sp.AlternatePeripheral),
		GroupName:           str(sp.GroupName),
		PrependToName:       str(sp.PrependToName),
		AppendToName:        str(sp.AppendToName),
		HeaderStructName:    str(sp.HeaderStructName),
		DisableCondition:    str(sp.DisableCondition),
		BaseAddress:         uint64(sp.BaseAddress),
		Array:               n.array,
		Index:               n.index,
	}
	size, acc, prot, rv, rm := ps.registerProps()
	out.Size, out.Access, out.Protection, out.ResetValue, out.ResetMask = size, acc, prot, rv, rm
	out.IndexEnum = p.convertIndexEnum(n)

	for _, b := range sp.AddressBlocks {
		ob := &AddressBlock{
			Offset: uint64(b.Offset),
			Size:   uint64(b.Size),
			Usage:  BlockUsage(b.Usage),
		}
		// A block without its own protection gets the peripheral's.
		if b.Protection != nil {
			if pr, ok := parseProtection(*b.Protection); ok {
				ob.Protection = pr
			}
		} else {
			ob.Protection = out.Protection
		}
		out.AddressBlocks = append(out.AddressBlocks, ob)
	}
	for _, irq := range sp.Interrupts {
		out.Interrupts = append(out.Interrupts, &Interrupt{
			Name:        irq.Name,
			Description: str(irq.Description),
			Value:       int(irq.Value),
		})
	}

	items, err := p.convertItems(n, ps)
	if err != nil {
		return nil, err
	}
	out.Items = items
	return out, nil
}

func (p *processor) convertItems(n *node, ps propSet) ([]Item, error) {
	var items []Item
	for _, c := range n.children {
		switch c.kind {
		case kindCluster:
			oc, err := p.convertCluster(c, ps)
			if err != nil {
				return nil, err
			}
			if oc != nil {
				items = append(items, oc)
			}
		case kindRegister:
			or, err := p.convertRegister(c, ps)
			if err != nil {
				return nil, err
			}
			if or != nil {
				items = append(items, or)
			}
		}
	}
	return items, nil
}

func (p *processor) convertCluster(n *node, ps propSet) (*Cluster, error) {
	sc := n.c
	path := n.path()
	ps = p.mergeProps(ps, &sc.RegisterPropertiesGroup, path)

	out := &Cluster{
		Name:             sc.Name,
		Description:      str(sc.Description),
		AlternateCluster: str(sc.AlternateCluster),
		HeaderStructName: str(sc.HeaderStructName),
		AddressOffset:    uint64(sc.AddressOffset),
		Array:            n.array,
		Index:            n.index,
	}
	size, acc, prot, rv, rm := ps.registerProps()
	out.Size, out.Access, out.Protection, out.ResetValue, out.ResetMask = size, acc, prot, rv, rm
	out.IndexEnum = p.convertIndexEnum(n)

	items, err := p.convertItems(n, ps)
	if err != nil {
		return nil, err
	}
	out.Items = items
	return out, nil
}

func (p *processor) convertRegister(n *node, ps propSet) (*Register, error) {
	sr := n.r
	path := n.path()
	ps = p.mergeProps(ps, &sr.RegisterPropertiesGroup, path)
	size, acc, prot, rv, rm := ps.registerProps()

	out := &Register{
		Name:                sr.Name,
		DisplayName:         str(sr.DisplayName),
		Description:         str(sr.Description),
		AlternateGroup:      str(sr.AlternateGroup),
		AlternateRegister:   str(sr.AlternateRegister),
		AddressOffset:       uint64(sr.AddressOffset),
		Size:                size,
		Access:              acc,
		Protection:          prot,
		ResetValue:          rv,
		ResetMask:           rm,
		DataType:            str(sr.DataType),
		ModifiedWriteValues: mwv(sr.ModifiedWriteValues),
		ReadAction:          str(sr.ReadAction),
		Array:               n.array,
		Index:               n.index,
	}
	out.WriteConstraint = convertWriteConstraint(sr.WriteConstraint)
	out.IndexEnum = p.convertIndexEnum(n)

	for _, c := range n.children {
		if c.kind != kindField {
			continue
		}
		of, err := p.convertField(c, size, acc)
		if err != nil {
			return nil, err
		}
		if of != nil {
			out.Fields = append(out.Fields, of)
		}
	}
	return out, nil
}

func convertWriteConstraint(wc *svd.WriteConstraint) *WriteConstraint {
	if wc == nil {
		return nil
	}
	out := &WriteConstraint{
		WriteAsRead:         boolVal(wc.WriteAsRead, false),
		UseEnumeratedValues: boolVal(wc.UseEnumeratedValues, false),
	}
	if wc.Range != nil {
		out.Range = &Range{
			Minimum: uint64(wc.Range.Minimum),
			Maximum: uint64(wc.Range.Maximum),
		}
	}
	return out
}

func (p *processor) convertField(n *node, regSize uint, regAccess Access) (*Field, error) {
	sf := n.f
	path := n.path()

	lsb, msb, diag := fieldBitRange(sf, regSize, path)
	if diag != nil {
		if err := p.fatal(diag); err != nil {
			return nil, err
		}
		return nil, nil
	}

	out := &Field{
		Name:                sf.Name,
		Description:         str(sf.Description),
		LSB:                 lsb,
		MSB:                 msb,
		Access:              regAccess,
		ModifiedWriteValues: mwv(sf.ModifiedWriteValues),
		ReadAction:          str(sf.ReadAction),
		Array:               n.array,
		Index:               n.index,
	}
	if sf.Access != nil {
		if a, ok := parseAccess(*sf.Access); ok {
			out.Access = a
		} else {
			p.warn(&Diag{
				Kind: MalformedNumber, Path: path, Warning: true,
				Details: "unknown access " + quote(*sf.Access) + ", ignored",
			})
		}
	}
	out.WriteConstraint = convertWriteConstraint(sf.WriteConstraint)

	enums, err := p.convertEnums(n, out.Width())
	if err != nil {
		return nil, err
	}
	out.Enums = enums
	return out, nil
}

// fieldBitRange canonicalizes one of the three equivalent bit-range
// forms to {lsb, msb}. A bitOffset form without bitWidth defaults the
// width to the rest of the register.
func fieldBitRange(f *svd.Field, regSize uint, path string) (lsb, msb uint, diag *Diag) {
	switch {
	case f.LSB != nil && f.MSB != nil:
		lsb, msb = uint(*f.LSB), uint(*f.MSB)
	case f.BitRange != nil:
		var ok bool
		lsb, msb, ok = parseBitRangePattern(*f.BitRange)
		if !ok {
			return 0, 0, &Diag{
				Kind: InvalidBitRange, Path: path,
				Details: "bad bitRange " + quote(*f.BitRange),
			}
		}
	case f.BitOffset != nil:
		lsb = uint(*f.BitOffset)
		var width uint
		if f.BitWidth != nil {
			width = uint(*f.BitWidth)
		} else {
			if lsb >= regSize {
				return 0, 0, &Diag{
					Kind: InvalidBitRange, Path: path,
					Details: "bitOffset " + strconv.FormatUint(uint64(lsb), 10) +
						" outside the register",
				}
			}
			width = regSize - lsb
		}
		if width == 0 {
			return 0, 0, &Diag{Kind: InvalidBitRange, Path: path, Details: "zero bitWidth"}
		}
		msb = lsb + width - 1
	default:
		return 0, 0, &Diag{Kind: InvalidBitRange, Path: path, Details: "no bit range"}
	}
	if lsb > msb {
		return 0, 0, &Diag{
			Kind: InvalidBitRange, Path: path,
			Details: "lsb " + strconv.FormatUint(uint64(lsb), 10) +
				" above msb " + strconv.FormatUint(uint64(msb), 10),
		}
	}
	return lsb, msb, nil
}

var errNoRange = errors.New("no explicit bit range")

// rawBitRange is fieldBitRange without the register-size default,
// used to compare a derived field's range against its base.
func rawBitRange(f *svd.Field) (lsb, msb uint, err error) {
	switch {
	case f.LSB != nil && f.MSB != nil:
		return uint(*f.LSB), uint(*f.MSB), nil
	case f.BitRange != nil:
		lsb, msb, ok := parseBitRangePattern(*f.BitRange)
		if !ok {
			return 0, 0, errNoRange
		}
		return lsb, msb, nil
	case f.BitOffset != nil && f.BitWidth != nil:
		return uint(*f.BitOffset), uint(*f.BitOffset) + uint(*f.BitWidth) - 1, nil
	}
	return 0, 0, errNoRange
}

// convertIndexEnum turns a dimArrayIndex attached to an expanded
// array instance into a processed container. Its values are taken
// literally: no isDefault or wildcard expansion applies to array
// indices.
func (p *processor) convertIndexEnum(n *node) *EnumeratedValues {
	if n.idxEnum == nil {
		return nil
	}
	out := &EnumeratedValues{
		HeaderEnumName: str(n.idxEnum.HeaderEnumName),
		Usage:          UsageReadWrite,
	}
	for _, ev := range n.idxEnum.EnumeratedValue {
		if ev.Value == nil {
			continue
		}
		v, _, err := svd.ParseValue(*ev.Value)
		if err != nil {
			p.warn(&Diag{
				Kind: MalformedNumber, Path: n.path(), Warning: true,
				Details: "bad dimArrayIndex value " + quote(*ev.Value) + ", ignored",
			})
			continue
		}
		out.Values = append(out.Values, &EnumeratedValue{
			Name:        ev.Name,
			Description: str(ev.Description),
			Value:       v,
		})
	}
	return out
}
