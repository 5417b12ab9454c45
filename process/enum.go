// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

import (
	"math/bits"
	"strconv"

	"github.com/embeddedgo/svd"
)

// convertEnums processes the enumerated-value containers of one
// field: keys them by usage, expands don't-care values into concrete
// sets and expands an isDefault entry against the field's value
// space.
func (p *processor) convertEnums(n *node, width uint) ([]*EnumeratedValues, error) {
	srcs := n.f.EnumeratedValues
	if len(srcs) == 0 {
		return nil, nil
	}
	path := n.path()

	usages := make([]Usage, len(srcs))
	for i, evs := range srcs {
		u := UsageReadWrite
		if evs.Usage != nil {
			var ok bool
			if u, ok = parseUsage(*evs.Usage); !ok {
				p.warn(&Diag{
					Kind: MalformedNumber, Path: path, Warning: true,
					Details: "unknown usage " + quote(*evs.Usage) + ", assuming read-write",
				})
				u = UsageReadWrite
			}
		}
		usages[i] = u
	}
	// A field has at most one read and one write container; a single
	// read-write container occupies both slots.
	conflict := len(srcs) > 2
	if len(srcs) == 2 {
		if usages[0] == usages[1] || usages[0] == UsageReadWrite || usages[1] == UsageReadWrite {
			conflict = true
		}
	}
	if conflict {
		diag := &Diag{
			Kind: ConflictingEnumUsage, Path: path,
			Details: strconv.Itoa(len(srcs)) + " containers sharing a usage",
		}
		if err := p.fatal(diag); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var out []*EnumeratedValues
	for i, evs := range srcs {
		oc, err := p.convertEnumContainer(evs, usages[i], width, path)
		if err != nil {
			return nil, err
		}
		if oc != nil {
			out = append(out, oc)
		}
	}
	return out, nil
}

func parseUsage(s string) (Usage, bool) {
	switch Usage(s) {
	case UsageRead, UsageWrite, UsageReadWrite:
		return Usage(s), true
	}
	return "", false
}

func (p *processor) convertEnumContainer(evs *svd.EnumeratedValues, usage Usage, width uint, path string) (*EnumeratedValues, error) {
	out := &EnumeratedValues{
		Name:           str(evs.Name),
		HeaderEnumName: str(evs.HeaderEnumName),
		Usage:          usage,
	}
	vmax := bitMask(width)
	limit := uint64(p.opts.ExpansionLimit)

	// Explicit concrete values win over wildcard expansions wherever
	// they appear in the container, so collect them up front.
	explicit := make(map[uint64]bool)
	for _, ev := range evs.EnumeratedValue {
		if ev.Value == nil {
			continue
		}
		if v, mask, err := svd.ParseValue(*ev.Value); err == nil && mask == 0 {
			explicit[v] = true
		}
	}

	covered := make(map[uint64]bool)
	var def *svd.EnumeratedValue
	for _, ev := range evs.EnumeratedValue {
		if ev.Value == nil {
			if !boolVal(ev.IsDefault, false) {
				diag := &Diag{
					Kind: MalformedNumber, Path: path,
					Details: "enumerated value " + quote(ev.Name) + " has neither value nor isDefault",
				}
				if err := p.fatal(diag); err != nil {
					return nil, err
				}
				return nil, nil
			}
			if def == nil {
				def = ev
			} else {
				p.warn(&Diag{
					Kind: DuplicateEnumValue, Path: path, Warning: true,
					Details: "extra isDefault entry " + quote(ev.Name) + ", first one kept",
				})
			}
			continue
		}
		v, mask, err := svd.ParseValue(*ev.Value)
		if err != nil {
			diag := &Diag{
				Kind: MalformedNumber, Path: path,
				Details: "enumerated value " + quote(ev.Name) + ": " + quote(*ev.Value),
			}
			if err := p.fatal(diag); err != nil {
				return nil, err
			}
			return nil, nil
		}
		if v|mask > vmax {
			diag := &Diag{
				Kind: FieldOutOfRange, Path: path,
				Details: "enumerated value " + quote(*ev.Value) + " does not fit in " +
					strconv.FormatUint(uint64(width), 10) + " bits",
			}
			if err := p.fatal(diag); err != nil {
				return nil, err
			}
			return nil, nil
		}
		if mask == 0 {
			if covered[v] {
				p.warn(&Diag{
					Kind: DuplicateEnumValue, Path: path, Warning: true,
					Details: "value " + strconv.FormatUint(v, 10) + " listed twice, first one kept",
				})
				continue
			}
			covered[v] = true
			out.Values = append(out.Values, &EnumeratedValue{
				Name:        ev.Name,
				Description: str(ev.Description),
				Value:       v,
			})
			continue
		}
		// Don't-care bits: expand into the cartesian set of concrete
		// values, in ascending order at the entry's position.
		if width > 16 {
			diag := &Diag{
				Kind: DefaultExpansionOverflow, Path: path,
				Details: "don't-care bits in a " + strconv.FormatUint(uint64(width), 10) + "-bit field",
			}
			if err := p.fatal(diag); err != nil {
				return nil, err
			}
			return nil, nil
		}
		for _, cv := range expandWildcard(v, mask) {
			// A collision with an explicit entry is dropped silently:
			// the explicit entry wins.
			if explicit[cv] || covered[cv] {
				continue
			}
			covered[cv] = true
			out.Values = append(out.Values, &EnumeratedValue{
				Name:        ev.Name + "_" + strconv.FormatUint(cv, 10),
				Description: str(ev.Description),
				Value:       cv,
			})
		}
	}

	if def != nil {
		if width >= 63 || uint64(1)<<width > limit {
			diag := &Diag{
				Kind: DefaultExpansionOverflow, Path: path,
				Details: "isDefault over a " + strconv.FormatUint(uint64(width), 10) + "-bit field",
			}
			if err := p.fatal(diag); err != nil {
				return nil, err
			}
			return nil, nil
		}
		// One synthetic entry per uncovered value, sharing the
		// default entry's name and description.
		for v := uint64(0); v <= vmax; v++ {
			if covered[v] {
				continue
			}
			covered[v] = true
			out.Values = append(out.Values, &EnumeratedValue{
				Name:        def.Name,
				Description: str(def.Description),
				Value:       v,
			})
		}
	}
	out.Complete = width < 64 && uint64(len(covered)) == uint64(1)<<width
	return out, nil
}

// expandWildcard enumerates, in ascending order, the concrete values
// of a literal with don't-care bits.
func expandWildcard(v, mask uint64) []uint64 {
	k := bits.OnesCount64(mask)
	var pos []uint
	for b := uint(0); b < 64; b++ {
		if mask&(1<<b) != 0 {
			pos = append(pos, b)
		}
	}
	vals := make([]uint64, 0, 1<<k)
	for i := uint64(0); i < 1<<k; i++ {
		cv := v
		for j, b := range pos {
			if i&(1<<j) != 0 {
				cv |= 1 << b
			}
		}
		vals = append(vals, cv)
	}
	return vals
}
