// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

import (
	"strings"

	"github.com/embeddedgo/svd"
)

// kind tags the working-tree nodes so that derivation, expansion and
// path resolution can be written once for all levels of the model.
type kind uint8

const (
	kindDevice kind = iota
	kindPeripheral
	kindCluster
	kindRegister
	kindField
	kindEnum
)

var kindNames = [...]string{"device", "peripheral", "cluster", "register", "field", "enumeratedValues"}

func (k kind) String() string { return kindNames[k] }

// node wraps one element of the private copy of the parsed tree.
// Except on the device root, which has none, exactly one of the
// payload pointers is set, matching kind.
type node struct {
	id       int64
	kind     kind
	parent   *node
	children []*node

	p *svd.Peripheral
	c *svd.Cluster
	r *svd.Register
	f *svd.Field
	e *svd.EnumeratedValues

	// set on instances created by dim expansion
	array   bool
	index   string
	idxEnum *svd.DimArrayIndex
}

// ID makes node a gonum graph.Node.
func (n *node) ID() int64 { return n.id }

func (n *node) name() string {
	switch n.kind {
	case kindPeripheral:
		return n.p.Name
	case kindCluster:
		return n.c.Name
	case kindRegister:
		return n.r.Name
	case kindField:
		return n.f.Name
	case kindEnum:
		if n.e.Name != nil {
			return *n.e.Name
		}
	}
	return ""
}

func (n *node) deriv() string {
	var p *string
	switch n.kind {
	case kindPeripheral:
		p = n.p.DerivedFrom
	case kindCluster:
		p = n.c.DerivedFrom
	case kindRegister:
		p = n.r.DerivedFrom
	case kindField:
		p = n.f.DerivedFrom
	case kindEnum:
		p = n.e.DerivedFrom
	}
	if p == nil {
		return ""
	}
	return *p
}

func (n *node) clearDeriv() {
	switch n.kind {
	case kindPeripheral:
		n.p.DerivedFrom = nil
	case kindCluster:
		n.c.DerivedFrom = nil
	case kindRegister:
		n.r.DerivedFrom = nil
	case kindField:
		n.f.DerivedFrom = nil
	case kindEnum:
		n.e.DerivedFrom = nil
	}
}

func (n *node) dim() *svd.DimElementGroup {
	switch n.kind {
	case kindPeripheral:
		return &n.p.DimElementGroup
	case kindCluster:
		return &n.c.DimElementGroup
	case kindRegister:
		return &n.r.DimElementGroup
	case kindField:
		return &n.f.DimElementGroup
	}
	return nil
}

// path returns the dotted pre-expansion path of the node, used in
// diagnostics and as the canonical node identity.
func (n *node) path() string {
	if n.kind == kindDevice {
		return ""
	}
	var segs []string
	for m := n; m != nil && m.kind != kindDevice; m = m.parent {
		name := m.name()
		if name == "" {
			name = "(" + m.kind.String() + ")"
		}
		segs = append(segs, name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, ".")
}

// walk visits n and its descendants depth first, in child order.
func (n *node) walk(visit func(*node)) {
	visit(n)
	for _, c := range n.children {
		c.walk(visit)
	}
}

// tree is the working tree built over the cloned input model. It
// lives only for the duration of one Process call.
type tree struct {
	root   *node
	nextID int64
}

func (t *tree) newNode(k kind, parent *node) *node {
	n := &node{id: t.nextID, kind: k, parent: parent}
	t.nextID++
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	return n
}

func buildTree(dev *svd.Device) *tree {
	t := new(tree)
	t.root = t.newNode(kindDevice, nil)
	for _, p := range dev.Peripherals {
		t.addPeripheral(t.root, p)
	}
	return t
}

func (t *tree) addPeripheral(parent *node, p *svd.Peripheral) *node {
	n := t.newNode(kindPeripheral, parent)
	n.p = p
	t.addRegisters(n, p.Registers)
	return n
}

func (t *tree) addRegisters(parent *node, rs svd.Registers) {
	for _, rc := range rs {
		switch v := rc.(type) {
		case *svd.Register:
			t.addRegister(parent, v)
		case *svd.Cluster:
			t.addCluster(parent, v)
		}
	}
}

func (t *tree) addCluster(parent *node, c *svd.Cluster) *node {
	n := t.newNode(kindCluster, parent)
	n.c = c
	t.addRegisters(n, c.Children)
	return n
}

func (t *tree) addRegister(parent *node, r *svd.Register) *node {
	n := t.newNode(kindRegister, parent)
	n.r = r
	for _, f := range r.Fields {
		t.addField(n, f)
	}
	return n
}

func (t *tree) addField(parent *node, f *svd.Field) *node {
	n := t.newNode(kindField, parent)
	n.f = f
	for _, evs := range f.EnumeratedValues {
		e := t.newNode(kindEnum, n)
		e.e = evs
	}
	return n
}
