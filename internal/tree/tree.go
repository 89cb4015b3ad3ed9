// Package tree defines the knowledge tree document: nodes, their breakdown
// groupings, questions and links.
package tree

import (
	"bytes"
	"encoding/json"
)

// Node is one vertex of the knowledge tree.
type Node struct {
	ID              string          `json:"id,omitempty"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	MiniDescription string          `json:"mini_description,omitempty"`
	Questions       []Question      `json:"questions,omitempty"`
	Papers          json.RawMessage `json:"papers,omitempty"`
	Links           []Link          `json:"links,omitempty"`
	Breakdowns      []Breakdown     `json:"breakdowns,omitempty"`
}

// Breakdown groups the children of a node. A breakdown without a title, paper
// or explanation is transparent: it exists only to hold sub-nodes.
type Breakdown struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title,omitempty"`
	Paper       json.RawMessage `json:"paper,omitempty"`
	Explanation string          `json:"explanation,omitempty"`
	SubNodes    []Node          `json:"sub_nodes"`
}

// Question is a question attached to a node.
type Question struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question"`
}

// Link points from one node to another. In the JSON tree a link carries ID;
// in the directory tree it carries Path and Title instead.
type Link struct {
	ID     string `json:"id,omitempty"`
	Path   string `json:"path,omitempty"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// GroupStrategy decides how a node's breakdowns are laid out on disk.
type GroupStrategy int

const (
	// SingleGroup places children directly under the node directory.
	SingleGroup GroupStrategy = iota
	// MultiGroup gives every breakdown its own directory level.
	MultiGroup
)

// String implements fmt.Stringer.
func (s GroupStrategy) String() string {
	if s == MultiGroup {
		return "multi-group"
	}
	return "single-group"
}

// Strategy returns the layout strategy for n.
func Strategy(n *Node) GroupStrategy {
	switch {
	case len(n.Breakdowns) == 0:
		return SingleGroup
	case len(n.Breakdowns) > 1:
		return MultiGroup
	case !n.Breakdowns[0].Transparent():
		return MultiGroup
	default:
		return SingleGroup
	}
}

// Transparent reports whether b carries no content of its own.
func (b *Breakdown) Transparent() bool {
	return b.Title == "" && !b.HasPaper() && b.Explanation == ""
}

// HasPaper reports whether b carries a paper object.
func (b *Breakdown) HasPaper() bool {
	return !isNull(b.Paper)
}

// PaperTitle returns the "title" field of the paper, or "".
func (b *Breakdown) PaperTitle() string {
	if !b.HasPaper() {
		return ""
	}
	var paper struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(b.Paper, &paper); err != nil {
		return ""
	}
	return paper.Title
}

// HasPapers reports whether n carries a papers array.
func (n *Node) HasPapers() bool {
	return !isNull(n.Papers)
}

// Children returns the nodes a single-group node holds directly.
func (n *Node) Children() []Node {
	if len(n.Breakdowns) == 0 {
		return nil
	}
	return n.Breakdowns[0].SubNodes
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
