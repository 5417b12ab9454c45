// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

import "github.com/embeddedgo/svd"

// materialize resolves one derivedFrom link: the derived node gets a
// deep copy of its base overlaid with its own explicit attributes and
// children. Name and baseAddress/addressOffset are never inherited;
// the dim group is inherited only when the derived node has none of
// its own; the derivedFrom link itself is dropped.
func (p *processor) materialize(n, base *node) {
	switch n.kind {
	case kindPeripheral:
		mergePeripheral(n.p, base.p)
	case kindCluster:
		mergeCluster(n.c, base.c)
	case kindRegister:
		mergeRegister(n.r, base.r)
	case kindField:
		p.mergeField(n, base)
	case kindEnum:
		mergeEnums(n.e, base.e)
	}
	n.clearDeriv()
}

func overlayProps(m, own *svd.RegisterPropertiesGroup) {
	if own.Size != nil {
		m.Size = own.Size
	}
	if own.Access != nil {
		m.Access = own.Access
	}
	if own.Protection != nil {
		m.Protection = own.Protection
	}
	if own.ResetValue != nil {
		m.ResetValue = own.ResetValue
	}
	if own.ResetMask != nil {
		m.ResetMask = own.ResetMask
	}
}

func hasDim(g *svd.DimElementGroup) bool { return g.Dim != nil }

func mergePeripheral(dst, base *svd.Peripheral) {
	m := base.Clone()
	m.DerivedFrom = nil
	m.Name = dst.Name
	m.BaseAddress = dst.BaseAddress
	if hasDim(&dst.DimElementGroup) {
		m.DimElementGroup = dst.DimElementGroup
	}
	if dst.Version != nil {
		m.Version = dst.Version
	}
	if dst.Description != nil {
		m.Description = dst.Description
	}
	if dst.AlternatePeripheral != nil {
		m.AlternatePeripheral = dst.AlternatePeripheral
	}
	if dst.GroupName != nil {
		m.GroupName = dst.GroupName
	}
	if dst.PrependToName != nil {
		m.PrependToName = dst.PrependToName
	}
	if dst.AppendToName != nil {
		m.AppendToName = dst.AppendToName
	}
	if dst.HeaderStructName != nil {
		m.HeaderStructName = dst.HeaderStructName
	}
	if dst.DisableCondition != nil {
		m.DisableCondition = dst.DisableCondition
	}
	overlayProps(&m.RegisterPropertiesGroup, &dst.RegisterPropertiesGroup)
	// Address blocks describe the derived peripheral's own layout: an
	// explicit set replaces the inherited one wholesale.
	if len(dst.AddressBlocks) > 0 {
		m.AddressBlocks = dst.AddressBlocks
	}
	m.Interrupts = mergeInterrupts(m.Interrupts, dst.Interrupts)
	m.Registers = mergeItems(m.Registers, dst.Registers)
	*dst = *m
}

func mergeInterrupts(inherited, own []*svd.Interrupt) []*svd.Interrupt {
	out := inherited
	for _, irq := range own {
		replaced := false
		for i, h := range out {
			if h.Name == irq.Name {
				out[i] = irq
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, irq)
		}
	}
	return out
}

// mergeItems overlays the derived node's own register/cluster children
// onto the inherited list: a child whose name and kind match an
// inherited child replaces it in place, new children are appended in
// source order.
func mergeItems(inherited, own svd.Registers) svd.Registers {
	out := inherited
	for _, oc := range own {
		replaced := false
		for i, ic := range out {
			if sameItem(ic, oc) {
				out[i] = oc
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, oc)
		}
	}
	return out
}

func sameItem(a, b svd.RegisterCluster) bool {
	switch av := a.(type) {
	case *svd.Register:
		bv, ok := b.(*svd.Register)
		return ok && av.Name == bv.Name
	case *svd.Cluster:
		bv, ok := b.(*svd.Cluster)
		return ok && av.Name == bv.Name
	}
	return false
}

func mergeCluster(dst, base *svd.Cluster) {
	m := base.Clone()
	m.DerivedFrom = nil
	m.Name = dst.Name
	m.AddressOffset = dst.AddressOffset
	if hasDim(&dst.DimElementGroup) {
		m.DimElementGroup = dst.DimElementGroup
	}
	if dst.Description != nil {
		m.Description = dst.Description
	}
	if dst.AlternateCluster != nil {
		m.AlternateCluster = dst.AlternateCluster
	}
	if dst.HeaderStructName != nil {
		m.HeaderStructName = dst.HeaderStructName
	}
	overlayProps(&m.RegisterPropertiesGroup, &dst.RegisterPropertiesGroup)
	m.Children = mergeItems(m.Children, dst.Children)
	*dst = *m
}

func mergeRegister(dst, base *svd.Register) {
	m := base.Clone()
	m.DerivedFrom = nil
	m.Name = dst.Name
	m.AddressOffset = dst.AddressOffset
	if hasDim(&dst.DimElementGroup) {
		m.DimElementGroup = dst.DimElementGroup
	}
	if dst.DisplayName != nil {
		m.DisplayName = dst.DisplayName
	}
	if dst.Description != nil {
		m.Description = dst.Description
	}
	if dst.AlternateGroup != nil {
		m.AlternateGroup = dst.AlternateGroup
	}
	if dst.AlternateRegister != nil {
		m.AlternateRegister = dst.AlternateRegister
	}
	overlayProps(&m.RegisterPropertiesGroup, &dst.RegisterPropertiesGroup)
	if dst.DataType != nil {
		m.DataType = dst.DataType
	}
	if dst.ModifiedWriteValues != nil {
		m.ModifiedWriteValues = dst.ModifiedWriteValues
	}
	if dst.WriteConstraint != nil {
		m.WriteConstraint = dst.WriteConstraint
	}
	if dst.ReadAction != nil {
		m.ReadAction = dst.ReadAction
	}
	m.Fields = mergeFields(m.Fields, dst.Fields)
	*dst = *m
}

func mergeFields(inherited, own []*svd.Field) []*svd.Field {
	out := inherited
	for _, of := range own {
		replaced := false
		for i, f := range out {
			if f.Name == of.Name {
				out[i] = of
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, of)
		}
	}
	return out
}

func (p *processor) mergeField(n, base *node) {
	dst, src := n.f, base.f
	// A derived field restating the base's exact bit range is a
	// redundant override worth flagging.
	if hasBitRange(dst) && hasBitRange(src) {
		dl, dm, derr := rawBitRange(dst)
		bl, bm, berr := rawBitRange(src)
		if derr == nil && berr == nil && dl == bl && dm == bm {
			p.warn(&Diag{
				Kind: InvalidBitRange, Path: n.path(),
				Details: "bit range restates the base field's", Warning: true,
			})
		}
	}
	m := src.Clone()
	m.DerivedFrom = nil
	m.Name = dst.Name
	if hasDim(&dst.DimElementGroup) {
		m.DimElementGroup = dst.DimElementGroup
	}
	if dst.Description != nil {
		m.Description = dst.Description
	}
	if hasBitRange(dst) {
		m.BitOffset = dst.BitOffset
		m.BitWidth = dst.BitWidth
		m.LSB = dst.LSB
		m.MSB = dst.MSB
		m.BitRange = dst.BitRange
	}
	if dst.Access != nil {
		m.Access = dst.Access
	}
	if dst.ModifiedWriteValues != nil {
		m.ModifiedWriteValues = dst.ModifiedWriteValues
	}
	if dst.WriteConstraint != nil {
		m.WriteConstraint = dst.WriteConstraint
	}
	if dst.ReadAction != nil {
		m.ReadAction = dst.ReadAction
	}
	// Enumerations are a two-slot structure keyed by usage, not a
	// mergeable list: explicit containers replace the inherited ones.
	if len(dst.EnumeratedValues) > 0 {
		m.EnumeratedValues = dst.EnumeratedValues
	}
	*dst = *m
}

func hasBitRange(f *svd.Field) bool {
	return f.BitOffset != nil || f.BitWidth != nil || f.LSB != nil ||
		f.MSB != nil || f.BitRange != nil
}

func mergeEnums(dst, base *svd.EnumeratedValues) {
	m := base.Clone()
	m.DerivedFrom = nil
	if dst.Name != nil {
		m.Name = dst.Name
	}
	if dst.HeaderEnumName != nil {
		m.HeaderEnumName = dst.HeaderEnumName
	}
	if dst.Usage != nil {
		m.Usage = dst.Usage
	}
	out := m.EnumeratedValue
	for _, ov := range dst.EnumeratedValue {
		replaced := false
		for i, v := range out {
			if v.Name == ov.Name {
				out[i] = ov
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, ov)
		}
	}
	m.EnumeratedValue = out
	*dst = *m
}
