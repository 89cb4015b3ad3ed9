package tree

import "github.com/zarSou9/tr-migrator/internal/nodeid"

// Canonicalize rewrites every ID in the tree from its position, clears null
// papers, gives every breakdown a non-nil sub-node list and drops a lone
// transparent breakdown that holds nothing.
func Canonicalize(root *Node) {
	canonicalize(root, nodeid.Root)
}

func canonicalize(n *Node, id string) {
	n.ID = id
	for i := range n.Questions {
		n.Questions[i].ID = nodeid.QuestionID(id, i)
	}
	if isNull(n.Papers) {
		n.Papers = nil
	}
	if len(n.Breakdowns) == 1 && n.Breakdowns[0].Transparent() && len(n.Breakdowns[0].SubNodes) == 0 {
		n.Breakdowns = nil
	}
	for g := range n.Breakdowns {
		b := &n.Breakdowns[g]
		b.ID = nodeid.BreakdownID(id, g)
		if isNull(b.Paper) {
			b.Paper = nil
		}
		if b.SubNodes == nil {
			b.SubNodes = []Node{}
		}
		for c := range b.SubNodes {
			canonicalize(&b.SubNodes[c], nodeid.ChildID(id, g, c))
		}
	}
}

// Lookup follows steps from root and returns the node reached.
func Lookup(root *Node, steps []nodeid.Step) (*Node, bool) {
	cur := root
	for _, s := range steps {
		if s.Group >= len(cur.Breakdowns) {
			return nil, false
		}
		b := &cur.Breakdowns[s.Group]
		if s.Child >= len(b.SubNodes) {
			return nil, false
		}
		cur = &b.SubNodes[s.Child]
	}
	return cur, true
}

// Walk calls fn for every node, parents before children.
func Walk(n *Node, fn func(*Node)) {
	fn(n)
	for g := range n.Breakdowns {
		b := &n.Breakdowns[g]
		for c := range b.SubNodes {
			Walk(&b.SubNodes[c], fn)
		}
	}
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node) { total++ })
	return total
}
