package category

import "sort"

// Node is a category with its children attached. Children are ordered
// ascending by Lft at every level.
type Node struct {
	Category
	Children []*Node
}

// BuildTree reassembles the flat collection into a forest. Attachment follows
// ParentID; a category whose parent is missing from the input, or that sits on
// its own ancestor chain, is kept as a root instead of being dropped. Sorting
// by Lft, not by id or input order, is what reproduces the server's intended
// display order across edits.
func BuildTree(categories []Category) []*Node {
	nodes := make(map[int]*Node, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &Node{Category: c}
	}

	var roots []*Node
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok || onOwnAncestorChain(nodes, c) {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortByLft(roots)
	return roots
}

// onOwnAncestorChain reports whether following ParentID links from c leads
// back to c itself. The walk is bounded by the collection size, so a cycle
// that does not contain c terminates the walk without a hit.
func onOwnAncestorChain(nodes map[int]*Node, c Category) bool {
	id := c.ParentID
	for steps := 0; steps <= len(nodes); steps++ {
		if id == nil {
			return false
		}
		if *id == c.ID {
			return true
		}
		parent, ok := nodes[*id]
		if !ok {
			return false
		}
		id = parent.ParentID
	}
	return false
}

func sortByLft(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Lft < nodes[j].Lft })
	for _, n := range nodes {
		sortByLft(n.Children)
	}
}
