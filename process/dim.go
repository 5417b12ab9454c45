// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

import (
	"strconv"
	"strings"

	"github.com/embeddedgo/svd"
)

// expandDims replaces every node carrying a dim group with its
// expanded instances: N siblings inserted in ascending index order at
// the template's position. Array-form templates (Name[%s]) become
// indexable arrays, substitution-form templates (Name%s) become lists
// of independent nodes.
func (p *processor) expandDims() error {
	return p.expandChildren(p.t.root)
}

func (p *processor) expandChildren(parent *node) error {
	for i := 0; i < len(parent.children); i++ {
		n := parent.children[i]
		g := n.dim()
		if g == nil || g.Dim == nil {
			if err := p.expandChildren(n); err != nil {
				return err
			}
			continue
		}
		insts, diag := p.expandNode(n)
		if diag != nil {
			if err := p.fatal(diag); err != nil {
				return err
			}
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			i--
			continue
		}
		out := make([]*node, 0, len(parent.children)+len(insts)-1)
		out = append(out, parent.children[:i]...)
		out = append(out, insts...)
		out = append(out, parent.children[i+1:]...)
		parent.children = out
		for _, inst := range insts {
			inst.parent = parent
			if err := p.expandChildren(inst); err != nil {
				return err
			}
		}
		i += len(insts) - 1
	}
	return nil
}

func (p *processor) expandNode(n *node) ([]*node, *Diag) {
	g := n.dim()
	dim := uint(*g.Dim)
	if dim < 1 {
		return nil, &Diag{Kind: DimIndexMismatch, Path: n.path(), Details: "dim must be >= 1"}
	}
	if g.DimIncrement == nil || *g.DimIncrement == 0 {
		return nil, &Diag{Kind: DimIndexMismatch, Path: n.path(), Details: "dimIncrement must be > 0"}
	}
	inc := uint64(*g.DimIncrement)
	name := n.name()
	array := strings.Contains(name, "[%s]")
	if !array && !strings.Contains(name, "%s") {
		return nil, &Diag{
			Kind: DimIndexMismatch, Path: n.path(),
			Details: "dim element name " + quote(name) + " has no %s placeholder",
		}
	}
	var tokens []string
	if array {
		// dimIndex is meaningless for arrays; indices are 0..dim-1.
		for k := uint(0); k < dim; k++ {
			tokens = append(tokens, strconv.FormatUint(uint64(k), 10))
		}
	} else {
		var diag *Diag
		tokens, diag = dimIndexTokens(dim, g.DimIndex, n.path())
		if diag != nil {
			return nil, diag
		}
	}
	idxEnum := g.DimArrayIndex
	insts := make([]*node, len(tokens))
	for k, tok := range tokens {
		inst, diag := p.instance(n, uint64(k), tok, array, inc, idxEnum)
		if diag != nil {
			return nil, diag
		}
		insts[k] = inst
	}
	return insts, nil
}

// dimIndexTokens interprets the dimIndex grammar: an inclusive
// numeric range N1-N2, an inclusive one-character alpha range A-Z, or
// a comma-separated list of identifier tokens. Without dimIndex the
// indices are consecutive integers from 0.
func dimIndexTokens(dim uint, dimIndex *string, path string) ([]string, *Diag) {
	var tokens []string
	switch {
	case dimIndex == nil:
		for k := uint(0); k < dim; k++ {
			tokens = append(tokens, strconv.FormatUint(uint64(k), 10))
		}
	case isNumRange(*dimIndex):
		lo, hi, _ := strings.Cut(*dimIndex, "-")
		start, _ := strconv.ParseUint(lo, 10, 64)
		end, _ := strconv.ParseUint(hi, 10, 64)
		if end < start {
			return nil, &Diag{
				Kind: DimIndexMismatch, Path: path,
				Details: "dimIndex range " + quote(*dimIndex) + " is decreasing",
			}
		}
		for v := start; v <= end; v++ {
			tokens = append(tokens, strconv.FormatUint(v, 10))
		}
	case isAlphaRange(*dimIndex):
		start, end := (*dimIndex)[0], (*dimIndex)[2]
		if end < start {
			return nil, &Diag{
				Kind: DimIndexMismatch, Path: path,
				Details: "dimIndex range " + quote(*dimIndex) + " is decreasing",
			}
		}
		for c := start; c <= end; c++ {
			tokens = append(tokens, string(c))
		}
	default:
		for _, tok := range strings.Split(*dimIndex, ",") {
			tok = strings.TrimSpace(tok)
			if !isIndexToken(tok) {
				return nil, &Diag{
					Kind: DimIndexMismatch, Path: path,
					Details: "bad dimIndex " + quote(*dimIndex),
				}
			}
			tokens = append(tokens, tok)
		}
	}
	if uint(len(tokens)) != dim {
		return nil, &Diag{
			Kind: DimIndexMismatch, Path: path,
			Details: "dimIndex yields " + strconv.Itoa(len(tokens)) +
				" names, dim is " + strconv.FormatUint(uint64(dim), 10),
		}
	}
	return tokens, nil
}

func isNumRange(s string) bool {
	lo, hi, ok := strings.Cut(s, "-")
	return ok && lo != "" && hi != "" && allDigits(lo) && allDigits(hi)
}

func isAlphaRange(s string) bool {
	return len(s) == 3 && s[1] == '-' && isLetter(s[0]) && isLetter(s[2])
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIndexToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			return false
		}
	}
	return true
}

func dimName(name, tok string, array bool) string {
	if array {
		return strings.Replace(name, "[%s]", "["+tok+"]", 1)
	}
	return strings.Replace(name, "%s", tok, 1)
}

// instance clones the template node for index k, rewriting its name
// and address and dropping the dim group.
func (p *processor) instance(n *node, k uint64, tok string, array bool, inc uint64, idxEnum *svd.DimArrayIndex) (*node, *Diag) {
	scratch := &node{kind: n.parent.kind}
	var inst *node
	switch n.kind {
	case kindPeripheral:
		c := n.p.Clone()
		c.Name = dimName(c.Name, tok, array)
		c.BaseAddress += svd.Uint64(k * inc)
		c.DimElementGroup = svd.DimElementGroup{}
		inst = p.t.addPeripheral(scratch, c)
	case kindCluster:
		c := n.c.Clone()
		c.Name = dimName(c.Name, tok, array)
		c.AddressOffset += svd.Uint64(k * inc)
		c.DimElementGroup = svd.DimElementGroup{}
		inst = p.t.addCluster(scratch, c)
	case kindRegister:
		c := n.r.Clone()
		c.Name = dimName(c.Name, tok, array)
		if c.DisplayName != nil {
			dn := dimName(*c.DisplayName, tok, array)
			c.DisplayName = &dn
		}
		c.AddressOffset += svd.Uint64(k * inc)
		c.DimElementGroup = svd.DimElementGroup{}
		inst = p.t.addRegister(scratch, c)
	case kindField:
		c := n.f.Clone()
		c.Name = dimName(c.Name, tok, array)
		if diag := shiftFieldBits(c, k*inc, n.path()); diag != nil {
			return nil, diag
		}
		c.DimElementGroup = svd.DimElementGroup{}
		inst = p.t.addField(scratch, c)
	default:
		return nil, &Diag{Kind: DimIndexMismatch, Path: n.path(), Details: "element cannot be dimmed"}
	}
	inst.parent = nil
	inst.array = array
	inst.index = tok
	inst.idxEnum = idxEnum.Clone()
	return inst, nil
}

// shiftFieldBits moves a field instance's bit position up by the dim
// increment, whatever form the bit range was given in. The bitRange
// pattern form is canonicalized to lsb/msb on the way.
func shiftFieldBits(f *svd.Field, by uint64, path string) *Diag {
	if f.BitRange != nil {
		lsb, msb, ok := parseBitRangePattern(*f.BitRange)
		if !ok {
			return &Diag{Kind: InvalidBitRange, Path: path, Details: "bad bitRange " + quote(*f.BitRange)}
		}
		l, m := svd.Uint(lsb), svd.Uint(msb)
		f.LSB, f.MSB = &l, &m
		f.BitRange = nil
	}
	switch {
	case f.LSB != nil && f.MSB != nil:
		*f.LSB += svd.Uint(by)
		*f.MSB += svd.Uint(by)
	case f.BitOffset != nil:
		*f.BitOffset += svd.Uint(by)
	}
	return nil
}

// parseBitRangePattern parses the "[msb:lsb]" form.
func parseBitRangePattern(s string) (lsb, msb uint, ok bool) {
	if len(s) < 5 || s[0] != '[' || s[len(s)-1] != ']' {
		return 0, 0, false
	}
	hi, lo, found := strings.Cut(s[1:len(s)-1], ":")
	if !found || !allDigits(hi) || !allDigits(lo) {
		return 0, 0, false
	}
	m, _ := strconv.ParseUint(hi, 10, 32)
	l, _ := strconv.ParseUint(lo, 10, 32)
	return uint(l), uint(m), true
}
