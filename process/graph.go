// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

import (
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
)

// resolveDerivations materializes every derivedFrom link. It works in
// rounds: each round resolves the references that are resolvable in
// the current state of the tree, orders them so that bases precede
// their derivations, and materializes them. References into a derived
// subtree that has not been materialized yet are deferred to a later
// round. A round that makes no progress means unresolved references;
// a cyclic round means circular inheritance.
func (p *processor) resolveDerivations() error {
	for {
		pending := p.pendingNodes()
		if len(pending) == 0 {
			return nil
		}

		resolved := make(map[*node]*node)
		wrongKind := make(map[*node]bool)
		var unresolved []*node
		for _, n := range pending {
			base, wk, diag := resolveRef(p.t.root, n, n.deriv())
			if diag != nil {
				if err := p.fatal(diag); err != nil {
					return err
				}
				p.drop(n)
				continue
			}
			if base == nil {
				wrongKind[n] = wk
				unresolved = append(unresolved, n)
				continue
			}
			if base == n || isAncestor(base, n) || isAncestor(n, base) {
				diag := &Diag{
					Kind: CircularInheritance, Path: n.path(),
					Details: "derives from its own subtree via " + quote(n.deriv()),
				}
				if err := p.fatal(diag); err != nil {
					return err
				}
				p.drop(n)
				continue
			}
			resolved[n] = base
		}

		// Defer every derivation whose base subtree still contains an
		// unresolvable link: materializing it now would copy the
		// unresolved child. Deferral is transitive.
		deferred := make(map[*node]bool)
		for changed := true; changed; {
			changed = false
			for _, n := range pending {
				base := resolved[n]
				if base == nil || deferred[n] {
					continue
				}
				blocked := false
				base.walk(func(w *node) {
					if w == n || w.deriv() == "" {
						return
					}
					if resolved[w] == nil || deferred[w] {
						blocked = true
					}
				})
				if blocked {
					deferred[n] = true
					changed = true
				}
			}
		}

		// Build the derivation graph over this round's ready nodes
		// and detect inheritance cycles.
		g := multi.NewDirectedGraph()
		var ready []*node
		var edges []derivEdge
		for _, n := range pending {
			if base := resolved[n]; base != nil && !deferred[n] {
				ready = append(ready, n)
				g.AddNode(n)
				base.walk(func(w *node) {
					if w != n && w.deriv() != "" && resolved[w] != nil && !deferred[w] {
						edges = append(edges, derivEdge{w, n})
					}
				})
			}
		}
		for _, e := range edges {
			g.SetLine(g.NewLine(e.from, e.to))
		}
		if _, err := topo.Sort(g); err != nil {
			unord, ok := err.(topo.Unorderable)
			if !ok {
				return err
			}
			for _, scc := range unord {
				diag := &Diag{
					Kind: CircularInheritance, Path: cycleStart(scc).path(),
					Details: "cycle " + cycleString(scc, resolved),
				}
				if err := p.fatal(diag); err != nil {
					return err
				}
				for _, gn := range scc {
					p.drop(gn.(*node))
				}
			}
			continue
		}

		// topo.Sort breaks ties in map order; diagnostics and the
		// processed tree must be reproducible, so the materialization
		// order is recomputed deterministically over the same edges.
		order := kahnOrder(ready, edges)
		for _, n := range order {
			p.materialize(n, resolved[n])
		}

		if len(order) == 0 {
			// No progress: everything left is unresolvable.
			for _, n := range unresolved {
				kind := UnresolvedReference
				if wrongKind[n] {
					kind = WrongKindReference
				}
				diag := &Diag{Kind: kind, Path: n.path(), Details: quote(n.deriv())}
				if err := p.fatal(diag); err != nil {
					return err
				}
				p.drop(n)
			}
			if len(unresolved) == 0 {
				return nil
			}
		}

		// Materialization rewires child structs; rebuild the node
		// tree from them so the next round sees a coherent state.
		p.t = buildTree(p.work)
	}
}

// pendingNodes returns, in tree order, every node that still carries
// a derivedFrom link.
func (p *processor) pendingNodes() []*node {
	var pending []*node
	p.t.root.walk(func(n *node) {
		if n.deriv() != "" {
			pending = append(pending, n)
		}
	})
	return pending
}

type derivEdge struct{ from, to *node }

func isAncestor(a, n *node) bool {
	for m := n.parent; m != nil; m = m.parent {
		if m == a {
			return true
		}
	}
	return false
}

// kahnOrder returns a topological order of the given nodes that is
// deterministic: among unordered nodes the one that comes first in
// tree order goes first.
func kahnOrder(nodes []*node, edges []derivEdge) []*node {
	indeg := make(map[*node]int, len(nodes))
	next := make(map[*node][]*node, len(nodes))
	for _, n := range nodes {
		indeg[n] = 0
	}
	for _, e := range edges {
		indeg[e.to]++
		next[e.from] = append(next[e.from], e.to)
	}
	var order, queue []*node
	for _, n := range nodes { // nodes come sorted in tree order
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		// pick the smallest id to keep the order stable
		mi := 0
		for i, n := range queue {
			if n.id < queue[mi].id {
				mi = i
			}
		}
		n := queue[mi]
		queue = append(queue[:mi], queue[mi+1:]...)
		order = append(order, n)
		for _, m := range next[n] {
			if indeg[m]--; indeg[m] == 0 {
				queue = append(queue, m)
			}
		}
	}
	return order
}

// cycleString renders the cycle by following the derivation links
// from its first member, e.g. "A -> C -> B -> A".
func cycleString(scc []graph.Node, resolved map[*node]*node) string {
	start := cycleStart(scc)
	in := make(map[*node]bool, len(scc))
	for _, gn := range scc {
		in[gn.(*node)] = true
	}
	var b strings.Builder
	b.WriteString(start.path())
	for n := resolved[start]; n != nil && n != start && in[n]; n = resolved[n] {
		b.WriteString(" -> ")
		b.WriteString(n.path())
	}
	b.WriteString(" -> ")
	b.WriteString(start.path())
	return b.String()
}

func cycleStart(scc []graph.Node) *node {
	start := scc[0].(*node)
	for _, gn := range scc[1:] {
		if n := gn.(*node); n.id < start.id {
			start = n
		}
	}
	return start
}
