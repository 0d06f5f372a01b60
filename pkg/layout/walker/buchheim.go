package walker

// node is a vertex of the tree being laid out. Field names follow Buchheim,
// Jünger and Leipert, "Improving Walker's Algorithm to Run in Linear Time".
type node struct {
	id       string
	parent   *node
	children []*node
	number   int // 1-based position among siblings
	depth    int
	virtual  bool

	prelim, mod   float64
	shift, change float64
	thread, anc   *node
	x             float64
}

func newNode(id string, parent *node, number, depth int) *node {
	n := &node{id: id, parent: parent, number: number, depth: depth}
	n.anc = n
	return n
}

func (n *node) leftSibling() *node {
	if n.parent == nil || n.number <= 1 {
		return nil
	}
	return n.parent.children[n.number-2]
}

func (n *node) leftmostSibling() *node {
	if n.parent == nil || n.number <= 1 {
		return nil
	}
	return n.parent.children[0]
}

func (n *node) nextLeft() *node {
	if len(n.children) > 0 {
		return n.children[0]
	}
	return n.thread
}

func (n *node) nextRight() *node {
	if len(n.children) > 0 {
		return n.children[len(n.children)-1]
	}
	return n.thread
}

// spacing returns the minimum horizontal distance between two neighbours.
type spacing struct {
	sibling, subtree float64
}

func (s spacing) between(a, b *node) float64 {
	if a.parent == b.parent && !a.parent.virtual {
		return s.sibling
	}
	return s.subtree
}

// layoutTree assigns x to every node of the tree rooted at root in O(n).
func layoutTree(root *node, sp spacing) {
	firstWalk(root, sp)
	secondWalk(root, -root.prelim)
}

func firstWalk(v *node, sp spacing) {
	if len(v.children) == 0 {
		if w := v.leftSibling(); w != nil {
			v.prelim = w.prelim + sp.between(w, v)
		}
		return
	}

	defaultAncestor := v.children[0]
	for _, w := range v.children {
		firstWalk(w, sp)
		defaultAncestor = apportion(w, defaultAncestor, sp)
	}
	executeShifts(v)

	first, last := v.children[0], v.children[len(v.children)-1]
	midpoint := (first.prelim + last.prelim) / 2
	if w := v.leftSibling(); w != nil {
		v.prelim = w.prelim + sp.between(w, v)
		v.mod = v.prelim - midpoint
	} else {
		v.prelim = midpoint
	}
}

// apportion pushes v's subtree right until its left contour clears the right
// contour of every subtree to its left, spreading the shift over the
// subtrees in between.
func apportion(v, defaultAncestor *node, sp spacing) *node {
	w := v.leftSibling()
	if w == nil {
		return defaultAncestor
	}

	vip, vop := v, v
	vim, vom := w, v.leftmostSibling()
	sip, sop := vip.mod, vop.mod
	sim, som := vim.mod, vom.mod

	for vim.nextRight() != nil && vip.nextLeft() != nil {
		vim = vim.nextRight()
		vip = vip.nextLeft()
		vom = vom.nextLeft()
		vop = vop.nextRight()
		vop.anc = v

		shift := (vim.prelim + sim) - (vip.prelim + sip) + sp.between(vim, vip)
		if shift > 0 {
			moveSubtree(ancestor(vim, v, defaultAncestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.mod
		sip += vip.mod
		som += vom.mod
		sop += vop.mod
	}

	if vim.nextRight() != nil && vop.nextRight() == nil {
		vop.thread = vim.nextRight()
		vop.mod += sim - sop
	}
	if vip.nextLeft() != nil && vom.nextLeft() == nil {
		vom.thread = vip.nextLeft()
		vom.mod += sip - som
		defaultAncestor = v
	}
	return defaultAncestor
}

func ancestor(vim, v, defaultAncestor *node) *node {
	if vim.anc.parent == v.parent {
		return vim.anc
	}
	return defaultAncestor
}

func moveSubtree(wm, wp *node, shift float64) {
	subtrees := float64(wp.number - wm.number)
	if subtrees <= 0 {
		subtrees = 1
	}
	wp.change -= shift / subtrees
	wp.shift += shift
	wm.change += shift / subtrees
	wp.prelim += shift
	wp.mod += shift
}

func executeShifts(v *node) {
	var shift, change float64
	for i := len(v.children) - 1; i >= 0; i-- {
		w := v.children[i]
		w.prelim += shift
		w.mod += shift
		change += w.change
		shift += w.shift + change
	}
}

func secondWalk(v *node, m float64) {
	v.x = v.prelim + m
	for _, w := range v.children {
		secondWalk(w, m+v.mod)
	}
}
