// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package process expands a parsed CMSIS-SVD device description into
// its canonical form: derivedFrom inheritance is resolved (forward
// references included, cycles rejected), dim groups are expanded into
// arrays and lists, the inheritable register properties are
// propagated down the tree, enumerations are flattened and absolute
// addresses are computed and checked.
//
// Processing is a pure, single-threaded function from the parsed tree
// to the processed one; the input is never modified. Diagnostics come
// out as a structured list: by default the first fatal one aborts
// processing, in collect mode the subtrees that fail derivation,
// expansion or conversion are skipped and the result is marked
// partial.
package process

import (
	"github.com/embeddedgo/svd"
)

type Options struct {
	// CollectDiagnostics keeps processing after a fatal diagnostic,
	// skipping the offending subtree. The returned device carries
	// everything that could be processed and is marked Partial.
	// Diagnostics raised by the final structural validation are
	// recorded without removing the offending elements from the
	// returned device.
	CollectDiagnostics bool

	// ExpansionLimit caps the value space (2^bitWidth) of a field over
	// which an isDefault entry may expand; a wider field is rejected
	// with DefaultExpansionOverflow. Zero means the default of 65536.
	ExpansionLimit int
}

// Process expands dev. The returned diagnostics contain warnings and,
// in collect mode, the fatal diagnostics as well; in the default
// fail-fast mode the first fatal diagnostic is also returned as the
// error and no device is returned.
func Process(dev *svd.Device, opts *Options) (*Device, []*Diag, error) {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.ExpansionLimit <= 0 {
		o.ExpansionLimit = 1 << 16
	}
	p := &processor{opts: o, work: dev.Clone()}
	p.t = buildTree(p.work)
	out, err := p.run()
	if err != nil {
		return nil, p.diags, err
	}
	return out, p.diags, nil
}

type processor struct {
	opts    Options
	work    *svd.Device
	t       *tree
	diags   []*Diag
	partial bool
}

func (p *processor) run() (*Device, error) {
	if err := p.resolveDerivations(); err != nil {
		return nil, err
	}
	if err := p.expandDims(); err != nil {
		return nil, err
	}
	out, err := p.convert(p.work)
	if err != nil {
		return nil, err
	}
	computeAddresses(out)
	if err := p.validate(out); err != nil {
		return nil, err
	}
	out.Partial = p.partial
	return out, nil
}

// fatal records a fatal diagnostic. In fail-fast mode it is returned
// as the error that aborts processing; in collect mode it returns nil
// and the caller skips the affected subtree.
func (p *processor) fatal(d *Diag) error {
	p.diags = append(p.diags, d)
	if p.opts.CollectDiagnostics {
		p.partial = true
		return nil
	}
	return d
}

func (p *processor) warn(d *Diag) {
	d.Warning = true
	p.diags = append(p.diags, d)
}

// drop removes a node and its subtree from the working tree, both
// from the node tree and from the underlying structs so that rebuilds
// do not resurrect it. Used in collect mode to skip subtrees.
func (p *processor) drop(n *node) {
	parent := n.parent
	if parent == nil {
		return
	}
	for i, c := range parent.children {
		if c == n {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	switch n.kind {
	case kindPeripheral:
		for i, sp := range p.work.Peripherals {
			if sp == n.p {
				p.work.Peripherals = append(p.work.Peripherals[:i], p.work.Peripherals[i+1:]...)
				break
			}
		}
	case kindCluster, kindRegister:
		var items *svd.Registers
		if parent.kind == kindPeripheral {
			items = &parent.p.Registers
		} else {
			items = &parent.c.Children
		}
		for i, it := range *items {
			if rc, ok := it.(*svd.Register); ok && rc == n.r {
				*items = append((*items)[:i], (*items)[i+1:]...)
				break
			}
			if cc, ok := it.(*svd.Cluster); ok && cc == n.c {
				*items = append((*items)[:i], (*items)[i+1:]...)
				break
			}
		}
	case kindField:
		fields := parent.r.Fields
		for i, f := range fields {
			if f == n.f {
				parent.r.Fields = append(fields[:i], fields[i+1:]...)
				break
			}
		}
	case kindEnum:
		evs := parent.f.EnumeratedValues
		for i, e := range evs {
			if e == n.e {
				parent.f.EnumeratedValues = append(evs[:i], evs[i+1:]...)
				break
			}
		}
	}
}
