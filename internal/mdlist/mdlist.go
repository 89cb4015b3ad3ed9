// Package mdlist parses and renders nested markdown lists.
//
// A list is either unordered ("- item") or ordered ("1. item"). Items may own a
// child list, written one tab deeper than the item itself. Parsing is
// indentation driven and tolerant: lines that do not fit the list they land in
// are skipped rather than reported.
package mdlist

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Kind distinguishes bullet lists from numbered lists.
type Kind int

const (
	// KindUnordered is a bullet list.
	KindUnordered Kind = iota
	// KindOrdered is a numbered list.
	KindOrdered
)

// DefaultPrefixes are the bullet markers accepted when none are given.
var DefaultPrefixes = []string{"-", "*"}

var numberLinePattern = regexp.MustCompile(`^(\d+)\. (.*)$`)

// Item is one list entry with an optional nested list.
type Item struct {
	Text  string
	Child *List
}

// List is an ordered sequence of items of one kind.
type List struct {
	Kind  Kind
	Items []Item
}

// NewUnordered returns a bullet list holding texts.
func NewUnordered(texts ...string) *List {
	return newList(KindUnordered, texts)
}

// NewOrdered returns a numbered list holding texts.
func NewOrdered(texts ...string) *List {
	return newList(KindOrdered, texts)
}

func newList(kind Kind, texts []string) *List {
	l := &List{Kind: kind, Items: make([]Item, 0, len(texts))}
	for _, t := range texts {
		l.Items = append(l.Items, Item{Text: t})
	}
	return l
}

// Add appends an item.
func (l *List) Add(text string, child *List) {
	l.Items = append(l.Items, Item{Text: text, Child: child})
}

// Texts returns the item texts of the top level.
func (l *List) Texts() []string {
	out := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		out = append(out, it.Text)
	}
	return out
}

// Len returns the number of top-level items.
func (l *List) Len() int {
	return len(l.Items)
}

// frame associates an open list with the indentation that closes it.
type frame struct {
	indent int
	list   *List
}

// Parse reads a markdown list from text.
//
// The kind of the top-level list is decided by its first line. When that list
// is ordered and filler is non-empty, the list starts out as filler and each
// parsed top-level item replaces the entry at the slot named by its numeral;
// this lets an explicit ordering override a default one. In every other case
// items are appended in the order they are read.
func Parse(text string, prefixes []string, filler []string) *List {
	if prefixes == nil {
		prefixes = DefaultPrefixes
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return NewUnordered()
	}
	lines := strings.Split(text, "\n")

	root := NewUnordered()
	if isNumberLine(trimIndent(lines[0])) {
		root = NewOrdered(filler...)
	}
	useFiller := root.Kind == KindOrdered && len(filler) > 0

	stack := []frame{{indent: 0, list: root}}
	for i, full := range lines {
		line := trimIndent(full)
		if line == "" {
			continue
		}
		indent := len(full) - len(line)

		depth := len(stack)
		for depth > 1 && stack[depth-1].indent > indent {
			depth--
		}
		parent := stack[depth-1].list

		var body string
		slot := 0
		if parent.Kind == KindOrdered {
			n, rest, ok := parseNumberLine(line)
			if !ok {
				continue
			}
			slot, body = n-1, rest
		} else {
			rest, ok := trimBullet(line, prefixes)
			if !ok {
				continue
			}
			body = rest
		}
		stack = stack[:depth]

		var child *List
		if next, ok := nextNonBlank(lines, i); ok {
			nextLine := trimIndent(next)
			if len(next)-len(nextLine) > indent {
				child = NewUnordered()
				if isNumberLine(nextLine) {
					child = NewOrdered()
				}
				stack = append(stack, frame{indent: indent + 1, list: child})
			}
		}

		item := Item{Text: body, Child: child}
		if parent == root && useFiller {
			root.replaceSlot(slot, item)
		} else {
			parent.Items = append(parent.Items, item)
		}
	}

	return root
}

// replaceSlot moves item to slot. An equal childless entry is removed first;
// failing that, whatever currently occupies the slot is dropped.
func (l *List) replaceSlot(slot int, item Item) {
	removed := false
	if item.Child == nil {
		for j, it := range l.Items {
			if it.Child == nil && it.Text == item.Text {
				l.Items = slices.Delete(l.Items, j, j+1)
				removed = true
				break
			}
		}
	}
	if !removed && slot < len(l.Items) {
		l.Items = slices.Delete(l.Items, slot, slot+1)
	}
	slot = min(slot, len(l.Items))
	l.Items = slices.Insert(l.Items, slot, item)
}

// String renders the list as markdown.
func (l *List) String() string {
	return l.Render(0)
}

// Render renders the list as markdown with spacing blank lines between lines.
func (l *List) Render(spacing int) string {
	sep := "\n" + strings.Repeat("\n", spacing)
	return strings.Join(l.lines(0), sep)
}

func (l *List) lines(indent int) []string {
	tabs := strings.Repeat("\t", indent)
	var out []string
	for i, it := range l.Items {
		if l.Kind == KindOrdered {
			out = append(out, tabs+strconv.Itoa(i+1)+". "+it.Text)
		} else {
			out = append(out, tabs+"- "+it.Text)
		}
		if it.Child != nil {
			out = append(out, it.Child.lines(indent+1)...)
		}
	}
	return out
}

func trimIndent(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

func isNumberLine(line string) bool {
	_, _, ok := parseNumberLine(line)
	return ok
}

// parseNumberLine splits "N. rest" into N and rest. N must be at least 1.
func parseNumberLine(line string) (int, string, bool) {
	m := numberLinePattern.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, "", false
	}
	return n, m[2], true
}

func trimBullet(line string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if rest, ok := strings.CutPrefix(line, p+" "); ok {
			return rest, true
		}
	}
	return "", false
}

func nextNonBlank(lines []string, i int) (string, bool) {
	for _, l := range lines[i+1:] {
		if strings.TrimSpace(l) != "" {
			return l, true
		}
	}
	return "", false
}
