package main

// DefaultMaxDepth bounds every first-match search. No visited set is kept,
// so the bound is also the only guarantee of termination if a host ever
// hands back a tree that loops on itself.
const DefaultMaxDepth = 15

// collectDepth bounds the collecting searches. Scroll regions and tables
// sit at uneven depths, so these walks reach further than first-match ones.
const collectDepth = 64

// walk describes one traversal over a host tree.
type walk struct {
	match       func(Node) bool
	maxDepth    int  // children further than this from root are never examined
	first       bool // stop at the first match
	includeRoot bool
	visibleOnly bool // prune hidden nodes and everything below them
	depthFirst  bool
}

type walkEntry struct {
	node  Node
	depth int
}

// run performs the traversal.
func (w walk) run(root Node) []Node {
	if root == nil || w.match == nil {
		return nil
	}
	var found []Node
	if w.includeRoot && (!w.visibleOnly || root.Visible()) && w.match(root) {
		found = append(found, root)
		if w.first {
			return found
		}
	}
	if w.maxDepth <= 0 {
		return found
	}
	if w.depthFirst {
		w.descend(root, 0, &found)
		return found
	}

	pending := []walkEntry{{node: root}}
	for len(pending) > 0 {
		cur := pending[0]
		pending = pending[1:]
		for _, child := range cur.node.Children() {
			if !w.admit(child) {
				continue
			}
			if w.match(child) {
				found = append(found, child)
				if w.first {
					return found
				}
			}
			if cur.depth+1 < w.maxDepth {
				pending = append(pending, walkEntry{node: child, depth: cur.depth + 1})
			}
		}
	}
	return found
}

// descend is the pre-order variant: a child's whole subtree is searched
// before its next sibling is looked at. It reports whether the walk is done.
func (w walk) descend(n Node, depth int, found *[]Node) bool {
	for _, child := range n.Children() {
		if !w.admit(child) {
			continue
		}
		if w.match(child) {
			*found = append(*found, child)
			if w.first {
				return true
			}
		}
		if depth+1 < w.maxDepth && w.descend(child, depth+1, found) {
			return true
		}
	}
	return false
}

func (w walk) admit(n Node) bool {
	return n != nil && (!w.visibleOnly || n.Visible())
}

// Find returns the first descendant of root satisfying match in
// breadth-first order, or nil. root itself is not tested and no node
// further than maxDepth levels below root is examined.
func Find(root Node, match func(Node) bool, maxDepth int) Node {
	found := walk{match: match, maxDepth: maxDepth, first: true}.run(root)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// FindAll collects root and every descendant satisfying match, in
// breadth-first encounter order.
func FindAll(root Node, match func(Node) bool) []Node {
	return walk{match: match, maxDepth: collectDepth, includeRoot: true}.run(root)
}

// FindEach collects every node matching outer under root, then runs a
// bounded Find for inner below each of them. Nodes found by the second
// phase are returned in the order their outer node was encountered.
func FindEach(root Node, outer, inner func(Node) bool, maxDepth int) []Node {
	var found []Node
	for _, n := range FindAll(root, outer) {
		if m := Find(n, inner, maxDepth); m != nil {
			found = append(found, m)
		}
	}
	return found
}

// FindVisible returns the first descendant of root satisfying match in
// depth-first order, never descending into hidden subtrees.
func FindVisible(root Node, match func(Node) bool) Node {
	found := walk{match: match, maxDepth: collectDepth, first: true, visibleOnly: true, depthFirst: true}.run(root)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}
