package tree

import (
	"bytes"

	"github.com/zarSou9/tr-migrator/internal/nodeid"
)

// Diff reports the positional ID of the first node, in pre-order, whose own
// fields or breakdown headers differ between a and b. Sub-nodes are compared
// separately, so the ID names the shallowest difference.
func Diff(a, b *Node) (string, bool) {
	return diff(a, b, nodeid.Root)
}

func diff(a, b *Node, id string) (string, bool) {
	if !bytes.Equal(shallow(a), shallow(b)) {
		return id, true
	}
	for g := range a.Breakdowns {
		ab, bb := &a.Breakdowns[g], &b.Breakdowns[g]
		for c := range ab.SubNodes {
			if at, differs := diff(&ab.SubNodes[c], &bb.SubNodes[c], nodeid.ChildID(id, g, c)); differs {
				return at, true
			}
		}
	}
	return "", false
}

// shallow encodes n with each breakdown reduced to its header and child
// count.
func shallow(n *Node) []byte {
	type header struct {
		Breakdown
		Children int `json:"children"`
	}
	headers := make([]header, len(n.Breakdowns))
	for i, b := range n.Breakdowns {
		b.SubNodes = nil
		headers[i] = header{Breakdown: b, Children: len(n.Breakdowns[i].SubNodes)}
	}

	own := *n
	own.Breakdowns = nil
	data, err := marshal(struct {
		Node    *Node    `json:"node"`
		Headers []header `json:"headers"`
	}{&own, headers}, "")
	if err != nil {
		return nil
	}
	return data
}
