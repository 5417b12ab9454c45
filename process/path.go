// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

import "strings"

// A reference is a dotted sequence of segments. Each segment is an
// identifier, optionally array-indexed (Timer[0]) or in one of the
// dim-template forms (Timer[%s], Timer%s) that exist only before
// expansion.
type refSeg struct {
	raw      string
	ident    string
	indexed  bool
	template bool
}

func splitRef(ref string) ([]refSeg, bool) {
	if ref == "" {
		return nil, false
	}
	parts := strings.Split(ref, ".")
	segs := make([]refSeg, len(parts))
	for i, part := range parts {
		s, ok := parseSeg(part)
		if !ok {
			return nil, false
		}
		segs[i] = s
	}
	return segs, true
}

func parseSeg(s string) (refSeg, bool) {
	seg := refSeg{raw: s}
	switch {
	case strings.HasSuffix(s, "[%s]"):
		seg.template = true
		seg.ident = s[:len(s)-4]
	case strings.HasSuffix(s, "%s"):
		seg.template = true
		seg.ident = s[:len(s)-2]
	case strings.HasSuffix(s, "]"):
		i := strings.IndexByte(s, '[')
		if i < 0 {
			return seg, false
		}
		idx := s[i+1 : len(s)-1]
		if idx == "" || !allDigits(idx) {
			return seg, false
		}
		seg.indexed = true
		seg.ident = s[:i]
	default:
		seg.ident = s
	}
	if !validIdent(seg.ident) {
		return seg, false
	}
	return seg, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// segMatches reports whether the node's (possibly template) name
// matches the reference segment. A concrete segment matches a
// template node when stripping the placeholder from the template
// yields the segment's identifier: Timer[0] matches Timer[%s].
func segMatches(n *node, seg refSeg) bool {
	name := n.name()
	if name == seg.raw {
		return true
	}
	switch {
	case strings.HasSuffix(name, "[%s]"):
		return name[:len(name)-4] == seg.ident
	case strings.HasSuffix(name, "%s"):
		return name[:len(name)-2] == seg.ident
	}
	return false
}

// resolveRef resolves the derivedFrom reference of node n. A nil
// match with a nil diag means the target was not found in the current
// state of the tree; the caller may retry after more derivations have
// been materialized. A non-nil diag is a definite error.
func resolveRef(root, n *node, ref string) (match *node, wrongKind bool, diag *Diag) {
	segs, ok := splitRef(ref)
	if !ok {
		return nil, false, &Diag{
			Kind: UnresolvedReference, Path: n.path(),
			Details: "malformed reference " + quote(ref),
		}
	}
	if len(segs) == 1 {
		return resolveSingle(n, segs[0])
	}
	return resolveDotted(root, n, segs)
}

// resolveSingle looks a name up in the scope chain: the node's
// siblings first, then each enclosing container's siblings, finally
// the peripherals. The first match of the node's own kind wins.
func resolveSingle(n *node, seg refSeg) (*node, bool, *Diag) {
	wrongKind := false
	for scope := n; scope.parent != nil; scope = scope.parent {
		for _, sib := range scope.parent.children {
			if sib == n || !segMatches(sib, seg) {
				continue
			}
			if sib.kind == n.kind {
				return sib, false, nil
			}
			wrongKind = true
		}
	}
	return nil, wrongKind, nil
}

// resolveDotted resolves a dotted reference absolutely, walking from
// the peripherals and selecting the uniquely-named child at each
// step.
func resolveDotted(root, n *node, segs []refSeg) (*node, bool, *Diag) {
	scope := root.children
	var cur *node
	for _, seg := range segs {
		var matches []*node
		for _, c := range scope {
			if c != n && segMatches(c, seg) {
				matches = append(matches, c)
			}
		}
		switch len(matches) {
		case 0:
			return nil, false, nil
		case 1:
			cur = matches[0]
			scope = cur.children
		default:
			return nil, false, &Diag{
				Kind: UnresolvedReference, Path: n.path(),
				Details: "ambiguous reference " + quote(joinSegs(segs)),
			}
		}
	}
	if cur.kind != n.kind {
		return nil, true, &Diag{
			Kind: WrongKindReference, Path: n.path(),
			Details: quote(joinSegs(segs)) + " is a " + cur.kind.String() +
				", want " + n.kind.String(),
		}
	}
	return cur, false, nil
}

func joinSegs(segs []refSeg) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.raw
	}
	return strings.Join(parts, ".")
}

func quote(s string) string { return "'" + s + "'" }
