// Package design models the remote design document: the node tree fetched
// from the design service and the reference strings that identify a subtree.
package design

import "strings"

// Node is one visual node in a design document. The tree is owned by the
// fetcher; after a fetch it is read-only everywhere downstream.
type Node struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Children []*Node `json:"children,omitempty"`
}

// ChildSummaries returns one "id | name | type" line per direct child,
// the shape the classification prompts expect.
func (n *Node) ChildSummaries() []string {
	if n == nil {
		return nil
	}
	lines := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		lines = append(lines, c.ID+" | "+c.Name+" | "+c.Type)
	}
	return lines
}

// Outline renders the subtree as an indented "id | name | type" outline,
// the representation the discovery and extraction prompts consume.
func (n *Node) Outline() string {
	var b strings.Builder
	n.outline(&b, 0)
	return strings.TrimRight(b.String(), "\n")
}

func (n *Node) outline(b *strings.Builder, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.ID + " | " + n.Name + " | " + n.Type + "\n")
	for _, c := range n.Children {
		c.outline(b, depth+1)
	}
}

// Find walks the tree depth-first and returns the node with the given id,
// or nil if it is not present.
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// CountNodes returns the total number of nodes in the subtree rooted at n.
func (n *Node) CountNodes() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.CountNodes()
	}
	return total
}
