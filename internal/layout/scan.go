package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind tells content directories from breakdown-group directories.
type Kind int

const (
	// ContentNode is a directory holding one node.
	ContentNode Kind = iota
	// BreakdownGroup is a directory holding one breakdown of its parent.
	BreakdownGroup
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == BreakdownGroup {
		return "breakdown"
	}
	return "content"
}

// Entry is one subdirectory found by Scan.
type Entry struct {
	Name         string
	Stem         string
	Kind         Kind
	Path         string
	MarkdownPath string
}

// Scan lists the subdirectories of dir sorted by name and tags each one.
func (l Layout) Scan(dir string) ([]Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	suffix := l.suffix()
	var entries []Entry
	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		name := item.Name()
		entry := Entry{Name: name, Stem: name, Kind: ContentNode, Path: filepath.Join(dir, name)}
		if len(name) > len(suffix) && strings.HasSuffix(name, suffix) {
			entry.Kind = BreakdownGroup
			entry.Stem = strings.TrimSuffix(name, suffix)
		}
		entry.MarkdownPath = filepath.Join(entry.Path, entry.Stem+".md")
		entries = append(entries, entry)
	}
	return entries, nil
}

// ScanRoot describes the root directory itself.
func (l Layout) ScanRoot(dir string) Entry {
	name := filepath.Base(dir)
	return Entry{
		Name:         name,
		Stem:         name,
		Kind:         ContentNode,
		Path:         dir,
		MarkdownPath: filepath.Join(dir, name+".md"),
	}
}
