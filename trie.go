package xmlctx

import "strings"

// node is one segment of the base-package trie. Nodes are never mutated once
// reachable from a published root; inserts copy the path they touch.
type node struct {
	children map[string]*node
	index    *Index
}

func segments(pkg string) []string {
	return strings.Split(pkg, ".")
}

// with returns a copy of n with idx stored at segs.
func (n *node) with(segs []string, idx *Index) *node {
	cp := &node{children: make(map[string]*node)}
	var next *node
	if n != nil {
		cp.index = n.index
		for k, v := range n.children {
			cp.children[k] = v
		}
	}
	if len(segs) == 0 {
		cp.index = idx
		return cp
	}
	if n != nil {
		next = n.children[segs[0]]
	}
	cp.children[segs[0]] = next.with(segs[1:], idx)
	return cp
}

// nearest returns the deepest index on the path to segs. Ancestors with fewer
// than two segments only match when they are the package itself.
func (n *node) nearest(segs []string) *Index {
	var found *Index
	cur := n
	for i, s := range segs {
		if cur == nil {
			break
		}
		cur = cur.children[s]
		if cur == nil {
			break
		}
		depth := i + 1
		if cur.index != nil && (depth >= 2 || depth == len(segs)) {
			found = cur.index
		}
	}
	return found
}

// exact returns the index stored at segs.
func (n *node) exact(segs []string) *Index {
	cur := n
	for _, s := range segs {
		if cur == nil {
			return nil
		}
		cur = cur.children[s]
	}
	if cur == nil {
		return nil
	}
	return cur.index
}

// walk appends the base package of every stored index.
func (n *node) walk(out []string) []string {
	if n == nil {
		return out
	}
	if n.index != nil {
		out = append(out, n.index.base)
	}
	for _, k := range sortedKeys(n.children) {
		out = n.children[k].walk(out)
	}
	return out
}
