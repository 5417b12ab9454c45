// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

// Deep copies. The process package works on a private copy of the
// parsed tree so that the input stays untouched for the caller.

func cloneptr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func clonelist[T any](s []*T, cl func(*T) *T) []*T {
	if s == nil {
		return nil
	}
	out := make([]*T, len(s))
	for i, e := range s {
		out[i] = cl(e)
	}
	return out
}

func (d *Device) Clone() *Device {
	if d == nil {
		return nil
	}
	c := *d
	c.Vendor = cloneptr(d.Vendor)
	c.VendorID = cloneptr(d.VendorID)
	c.Series = cloneptr(d.Series)
	c.LicenseText = cloneptr(d.LicenseText)
	c.CPU = d.CPU.Clone()
	c.HeaderSystemFilename = cloneptr(d.HeaderSystemFilename)
	c.HeaderDefinitionsPrefix = cloneptr(d.HeaderDefinitionsPrefix)
	c.RegisterPropertiesGroup = d.RegisterPropertiesGroup.clone()
	c.Peripherals = clonelist(d.Peripherals, (*Peripheral).Clone)
	if d.VendorExtensions != nil {
		ve := &VendorExtensions{XML: append([]byte(nil), d.VendorExtensions.XML...)}
		c.VendorExtensions = ve
	}
	return &c
}

func (cpu *CPU) Clone() *CPU {
	if cpu == nil {
		return nil
	}
	c := *cpu
	c.MPUPresent = cloneptr(cpu.MPUPresent)
	c.FPUPresent = cloneptr(cpu.FPUPresent)
	c.FPUDP = cloneptr(cpu.FPUDP)
	c.DSPPresent = cloneptr(cpu.DSPPresent)
	c.IcachePresent = cloneptr(cpu.IcachePresent)
	c.DcachePresent = cloneptr(cpu.DcachePresent)
	c.ITCMPresent = cloneptr(cpu.ITCMPresent)
	c.DTCMPresent = cloneptr(cpu.DTCMPresent)
	c.VTORPresent = cloneptr(cpu.VTORPresent)
	c.DeviceNumInterrupts = cloneptr(cpu.DeviceNumInterrupts)
	c.SAUNumRegions = cloneptr(cpu.SAUNumRegions)
	if cpu.SAURegionsConfig != nil {
		sc := *cpu.SAURegionsConfig
		sc.Enabled = cloneptr(cpu.SAURegionsConfig.Enabled)
		sc.ProtectionWhenDisabled = cloneptr(cpu.SAURegionsConfig.ProtectionWhenDisabled)
		sc.Regions = clonelist(cpu.SAURegionsConfig.Regions, func(r *SAURegion) *SAURegion {
			rc := *r
			rc.Enabled = cloneptr(r.Enabled)
			rc.Name = cloneptr(r.Name)
			return &rc
		})
		c.SAURegionsConfig = &sc
	}
	return &c
}

func (g RegisterPropertiesGroup) clone() RegisterPropertiesGroup {
	g.Size = cloneptr(g.Size)
	g.Access = cloneptr(g.Access)
	g.Protection = cloneptr(g.Protection)
	g.ResetValue = cloneptr(g.ResetValue)
	g.ResetMask = cloneptr(g.ResetMask)
	return g
}

func (g DimElementGroup) clone() DimElementGroup {
	g.Dim = cloneptr(g.Dim)
	g.DimIncrement = cloneptr(g.DimIncrement)
	g.DimIndex = cloneptr(g.DimIndex)
	g.DimName = cloneptr(g.DimName)
	g.DimArrayIndex = g.DimArrayIndex.Clone()
	return g
}

func (di *DimArrayIndex) Clone() *DimArrayIndex {
	if di == nil {
		return nil
	}
	c := *di
	c.HeaderEnumName = cloneptr(di.HeaderEnumName)
	c.EnumeratedValue = clonelist(di.EnumeratedValue, (*EnumeratedValue).Clone)
	return &c
}

func (p *Peripheral) Clone() *Peripheral {
	if p == nil {
		return nil
	}
	c := *p
	c.DerivedFrom = cloneptr(p.DerivedFrom)
	c.DimElementGroup = p.DimElementGroup.clone()
	c.Version = cloneptr(p.Version)
	c.Description = cloneptr(p.Description)
	c.AlternatePeripheral = cloneptr(p.AlternatePeripheral)
	c.GroupName = cloneptr(p.GroupName)
	c.PrependToName = cloneptr(p.PrependToName)
	c.AppendToName = cloneptr(p.AppendToName)
	c.HeaderStructName = cloneptr(p.HeaderStructName)
	c.DisableCondition = cloneptr(p.DisableCondition)
	c.RegisterPropertiesGroup = p.RegisterPropertiesGroup.clone()
	c.AddressBlocks = clonelist(p.AddressBlocks, func(b *AddressBlock) *AddressBlock {
		bc := *b
		bc.Protection = cloneptr(b.Protection)
		return &bc
	})
	c.Interrupts = clonelist(p.Interrupts, func(irq *Interrupt) *Interrupt {
		ic := *irq
		ic.Description = cloneptr(irq.Description)
		return &ic
	})
	c.Registers = p.Registers.Clone()
	return &c
}

func (rs Registers) Clone() Registers {
	if rs == nil {
		return nil
	}
	c := make(Registers, len(rs))
	for i, rc := range rs {
		switch n := rc.(type) {
		case *Register:
			c[i] = n.Clone()
		case *Cluster:
			c[i] = n.Clone()
		}
	}
	return c
}

func (cl *Cluster) Clone() *Cluster {
	if cl == nil {
		return nil
	}
	c := *cl
	c.DerivedFrom = cloneptr(cl.DerivedFrom)
	c.DimElementGroup = cl.DimElementGroup.clone()
	c.Description = cloneptr(cl.Description)
	c.AlternateCluster = cloneptr(cl.AlternateCluster)
	c.HeaderStructName = cloneptr(cl.HeaderStructName)
	c.RegisterPropertiesGroup = cl.RegisterPropertiesGroup.clone()
	c.Children = cl.Children.Clone()
	return &c
}

func (r *Register) Clone() *Register {
	if r == nil {
		return nil
	}
	c := *r
	c.DerivedFrom = cloneptr(r.DerivedFrom)
	c.DimElementGroup = r.DimElementGroup.clone()
	c.DisplayName = cloneptr(r.DisplayName)
	c.Description = cloneptr(r.Description)
	c.AlternateGroup = cloneptr(r.AlternateGroup)
	c.AlternateRegister = cloneptr(r.AlternateRegister)
	c.RegisterPropertiesGroup = r.RegisterPropertiesGroup.clone()
	c.DataType = cloneptr(r.DataType)
	c.ModifiedWriteValues = cloneptr(r.ModifiedWriteValues)
	c.WriteConstraint = r.WriteConstraint.Clone()
	c.ReadAction = cloneptr(r.ReadAction)
	c.Fields = clonelist(r.Fields, (*Field).Clone)
	return &c
}

func (wc *WriteConstraint) Clone() *WriteConstraint {
	if wc == nil {
		return nil
	}
	c := *wc
	c.WriteAsRead = cloneptr(wc.WriteAsRead)
	c.UseEnumeratedValues = cloneptr(wc.UseEnumeratedValues)
	if wc.Range != nil {
		r := *wc.Range
		c.Range = &r
	}
	return &c
}

func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	c := *f
	c.DerivedFrom = cloneptr(f.DerivedFrom)
	c.DimElementGroup = f.DimElementGroup.clone()
	c.Description = cloneptr(f.Description)
	c.BitOffset = cloneptr(f.BitOffset)
	c.BitWidth = cloneptr(f.BitWidth)
	c.LSB = cloneptr(f.LSB)
	c.MSB = cloneptr(f.MSB)
	c.BitRange = cloneptr(f.BitRange)
	c.Access = cloneptr(f.Access)
	c.ModifiedWriteValues = cloneptr(f.ModifiedWriteValues)
	c.WriteConstraint = f.WriteConstraint.Clone()
	c.ReadAction = cloneptr(f.ReadAction)
	c.EnumeratedValues = clonelist(f.EnumeratedValues, (*EnumeratedValues).Clone)
	return &c
}

func (evs *EnumeratedValues) Clone() *EnumeratedValues {
	if evs == nil {
		return nil
	}
	c := *evs
	c.DerivedFrom = cloneptr(evs.DerivedFrom)
	c.Name = cloneptr(evs.Name)
	c.HeaderEnumName = cloneptr(evs.HeaderEnumName)
	c.Usage = cloneptr(evs.Usage)
	c.EnumeratedValue = clonelist(evs.EnumeratedValue, (*EnumeratedValue).Clone)
	return &c
}

func (ev *EnumeratedValue) Clone() *EnumeratedValue {
	if ev == nil {
		return nil
	}
	c := *ev
	c.Description = cloneptr(ev.Description)
	c.Value = cloneptr(ev.Value)
	c.IsDefault = cloneptr(ev.IsDefault)
	return &c
}
