// Package layout maps tree nodes to directory names and back.
//
// Names are computed in memory from the tree alone, so the encoder, the link
// resolver and the decoder agree on every path without touching the disk.
package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zarSou9/tr-migrator/internal/tree"
)

// DefaultSuffix marks breakdown-group directories.
const DefaultSuffix = "."

// PapersFile is the sidecar holding a node's raw papers array. No child
// directory may take its name.
const PapersFile = "papers.json"

// untitledPrefix starts every anonymous breakdown stem.
const untitledPrefix = "Untitled"

var invalidNameChars = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\-.]`)

// Sanitize turns a title into a directory name.
func Sanitize(title string) string {
	name := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	name = invalidNameChars.ReplaceAllString(name, "_")
	if name == "" || strings.Trim(name, ".") == "" {
		return strings.Repeat("_", max(len(name), 1))
	}
	return name
}

// Desanitize recovers the title a plain sanitized name stands for.
func Desanitize(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// Truncate shortens s to max runes, appending end when it cut something and s
// does not already end with end.
func Truncate(s string, max int, end string) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	out := string(runes[:max])
	if !strings.HasSuffix(s, end) {
		out += end
	}
	return out
}

// Layout holds the naming settings shared by both directions.
type Layout struct {
	// Suffix is appended to breakdown-group directory names.
	Suffix string
}

// New returns a Layout using suffix, or DefaultSuffix when it is empty.
func New(suffix string) Layout {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return Layout{Suffix: suffix}
}

// CheckSuffix rejects breakdown suffixes that cannot be part of a single
// directory name. A suffix may not end in a digit: dedupe counters would
// make content names look like breakdown directories.
func CheckSuffix(suffix string) error {
	if invalidNameChars.MatchString(suffix) {
		return fmt.Errorf("suffix %q may only use letters, digits, '_', '-' and '.'", suffix)
	}
	if n := len(suffix); n > 0 && suffix[n-1] >= '0' && suffix[n-1] <= '9' {
		return fmt.Errorf("suffix %q may not end in a digit", suffix)
	}
	return nil
}

func (l Layout) suffix() string {
	if l.Suffix == "" {
		return DefaultSuffix
	}
	return l.Suffix
}

// Stem strips the breakdown suffix from a directory name.
func (l Layout) Stem(name string) string {
	return strings.TrimSuffix(name, l.suffix())
}

// Group is the on-disk shape of one breakdown of a node.
type Group struct {
	// Dir is the breakdown directory name, empty for single-group nodes.
	Dir string
	// Children are the content directory names of the sub-nodes, in order.
	Children []string
}

// Plan returns the directory names below n, one Group per breakdown.
func (l Layout) Plan(n *tree.Node) []Group {
	if len(n.Breakdowns) == 0 {
		return nil
	}
	if tree.Strategy(n) == tree.SingleGroup {
		return []Group{{Children: l.ContentNames(n.Breakdowns[0].SubNodes)}}
	}
	dirs := l.BreakdownNames(n.Breakdowns)
	groups := make([]Group, len(n.Breakdowns))
	for g := range n.Breakdowns {
		groups[g] = Group{Dir: dirs[g], Children: l.ContentNames(n.Breakdowns[g].SubNodes)}
	}
	return groups
}

// RootName returns the directory name of the tree root.
func (l Layout) RootName(root *tree.Node) string {
	return l.contentName(root.Title)
}

// ContentNames returns unique directory names for sibling nodes.
func (l Layout) ContentNames(nodes []tree.Node) []string {
	names := make([]string, len(nodes))
	seen := map[string]bool{PapersFile: true}
	for i := range nodes {
		names[i] = unique(l.contentName(nodes[i].Title), "", seen)
	}
	return names
}

// BreakdownNames returns unique directory names, suffix included, for the
// breakdowns of one node.
func (l Layout) BreakdownNames(breakdowns []tree.Breakdown) []string {
	names := make([]string, len(breakdowns))
	seen := make(map[string]bool, len(breakdowns))
	for i := range breakdowns {
		names[i] = unique(l.BreakdownStem(&breakdowns[i]), l.suffix(), seen)
	}
	return names
}

// BreakdownStem returns the name of a breakdown before deduplication and
// without the suffix.
func (l Layout) BreakdownStem(b *tree.Breakdown) string {
	if b.Title != "" {
		return Sanitize(b.Title)
	}
	return AnonymousStem(b.PaperTitle())
}

// AnonymousStem names a breakdown that has no title of its own.
func AnonymousStem(paperTitle string) string {
	return Sanitize(untitledPrefix + " " + Truncate(paperTitle, 18, "_"))
}

// IsAnonymousStem reports whether stem could have come from AnonymousStem.
func IsAnonymousStem(stem string) bool {
	return strings.HasPrefix(stem, untitledPrefix)
}

// NeedsTitleSection reports whether a node directory name loses its title.
func NeedsTitleSection(title, name string) bool {
	return Desanitize(name) != title
}

// NeedsBreakdownTitleSection reports whether a breakdown stem loses its
// title. Anonymous breakdowns never need one.
func NeedsBreakdownTitleSection(title, stem string) bool {
	if title == "" {
		return false
	}
	return Desanitize(stem) != title || IsAnonymousStem(stem)
}

// BreakdownTitle recovers a breakdown title from its stem when no Title
// section was written.
func BreakdownTitle(stem string) string {
	if IsAnonymousStem(stem) {
		return ""
	}
	return Desanitize(stem)
}

// contentName keeps content directories from being read back as breakdowns.
func (l Layout) contentName(title string) string {
	name := Sanitize(title)
	if s := l.suffix(); strings.HasSuffix(name, s) {
		name = strings.TrimSuffix(name, s) + "_"
	}
	return name
}

// unique appends a counter to base until base+suffix is unused. Names are
// compared case-insensitively so case-folding filesystems stay safe.
func unique(base, suffix string, seen map[string]bool) string {
	name := base + suffix
	for counter := 1; seen[strings.ToLower(name)]; counter++ {
		name = base + strconv.Itoa(counter) + suffix
	}
	seen[strings.ToLower(name)] = true
	return name
}

var placeholderPattern = regexp.MustCompile(`^Paper: "(.*)"$`)

// Placeholder is the Order entry written for an anonymous breakdown.
func Placeholder(paperTitle string) string {
	return `Paper: "` + paperTitle + `"`
}

// ParsePlaceholder extracts the paper title from an Order placeholder.
func ParsePlaceholder(s string) (string, bool) {
	m := placeholderPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
