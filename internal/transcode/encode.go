package transcode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/zarSou9/tr-migrator/internal/layout"
	"github.com/zarSou9/tr-migrator/internal/links"
	"github.com/zarSou9/tr-migrator/internal/mdlist"
	"github.com/zarSou9/tr-migrator/internal/nodeid"
	"github.com/zarSou9/tr-migrator/internal/section"
	"github.com/zarSou9/tr-migrator/internal/tree"
)

// DanglingLink is a link whose target ID is not in the tree.
type DanglingLink struct {
	NodeID   string
	TargetID string
}

// EncodeResult summarizes a finished encode.
type EncodeResult struct {
	RootDir       string
	Nodes         int
	Breakdowns    int
	DanglingLinks []DanglingLink
}

// Encoder writes a tree as directories of markdown files.
type Encoder struct {
	opts     Options
	resolver links.Resolver
	result   *EncodeResult
}

// NewEncoder returns an Encoder using opts.
func NewEncoder(opts Options) *Encoder {
	return &Encoder{opts: opts}
}

// Encode writes root below outDir. outDir is created if needed; the root
// node directory and every directory below it must not exist yet.
func (e *Encoder) Encode(root *tree.Node, outDir string) (*EncodeResult, error) {
	if root == nil {
		return nil, errors.New("encode: nil root")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	e.resolver = links.Resolver{Root: root, Layout: e.opts.Layout}
	name := e.opts.Layout.RootName(root)
	e.result = &EncodeResult{RootDir: filepath.Join(outDir, name)}

	if err := e.writeNode(root, outDir, name, nodeid.Root); err != nil {
		return nil, err
	}
	e.opts.logger().Debug("encoded tree", "root", e.result.RootDir, "nodes", e.result.Nodes)
	return e.result, nil
}

// writeNode writes n and its subtree. id is the position of n and is only
// used in reports.
func (e *Encoder) writeNode(n *tree.Node, parent, name, id string) error {
	dir := filepath.Join(parent, name)
	if err := mkdir(dir); err != nil {
		return err
	}
	e.result.Nodes++

	plan := e.opts.Layout.Plan(n)
	doc, err := e.nodeSections(n, name, id, plan)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, name+".md"), []byte(section.Join(doc))); err != nil {
		return err
	}

	if n.HasPapers() {
		var buf bytes.Buffer
		if err := json.Indent(&buf, n.Papers, "", "  "); err != nil {
			return fmt.Errorf("node %s: papers: %w", id, err)
		}
		if err := writeFile(filepath.Join(dir, layout.PapersFile), buf.Bytes()); err != nil {
			return err
		}
	}

	for g, group := range plan {
		b := &n.Breakdowns[g]
		childParent := dir
		if group.Dir != "" {
			childParent = filepath.Join(dir, group.Dir)
			if err := e.writeBreakdown(b, childParent, nodeid.BreakdownID(id, g), group); err != nil {
				return err
			}
		}
		for c := range b.SubNodes {
			if err := e.writeNode(&b.SubNodes[c], childParent, group.Children[c], nodeid.ChildID(id, g, c)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Encoder) nodeSections(n *tree.Node, name, id string, plan []layout.Group) (section.Sections, error) {
	var doc section.Sections
	if layout.NeedsTitleSection(n.Title, name) {
		doc.Add(section.Title, n.Title)
	}
	if n.MiniDescription != "" {
		doc.Add(section.MiniDescription, e.opts.toSource(n.MiniDescription))
	}
	if n.Description != "" {
		doc.Add(section.Description, e.opts.toSource(n.Description))
	}
	if len(n.Questions) > 0 {
		questions := mdlist.NewUnordered()
		for _, q := range n.Questions {
			questions.Add(e.opts.toSourceInline(q.Question), nil)
		}
		doc.Add(section.Questions, questions.Render(1))
	}
	if order := e.nodeOrder(n, plan); order != "" {
		doc.Add(section.Order, order)
	}
	if len(n.Links) > 0 {
		related, err := e.relatedNodes(n, id)
		if err != nil {
			return nil, err
		}
		doc.Add(section.RelatedNodes, related)
	}
	return doc, nil
}

// nodeOrder lists the child directories when sorting them would change their
// order. Anonymous breakdowns are listed by paper title.
func (e *Encoder) nodeOrder(n *tree.Node, plan []layout.Group) string {
	if !e.opts.PreserveOrder || len(plan) == 0 {
		return ""
	}
	if plan[0].Dir == "" {
		return orderList(plan[0].Children, plan[0].Children)
	}

	dirs := make([]string, len(plan))
	entries := make([]string, len(plan))
	for g, group := range plan {
		dirs[g] = group.Dir
		entries[g] = group.Dir
		if b := &n.Breakdowns[g]; b.Title == "" {
			entries[g] = layout.Placeholder(b.PaperTitle())
		}
	}
	return orderList(dirs, entries)
}

func orderList(names, entries []string) string {
	if slices.IsSorted(names) {
		return ""
	}
	return mdlist.NewOrdered(entries...).String()
}

func (e *Encoder) relatedNodes(n *tree.Node, id string) (string, error) {
	list := mdlist.NewUnordered()
	for _, l := range n.Links {
		resolved, ok, err := e.resolver.ToPath(l)
		if err != nil {
			return "", fmt.Errorf("node %s: link: %w", id, err)
		}
		if !ok {
			e.result.DanglingLinks = append(e.result.DanglingLinks, DanglingLink{NodeID: id, TargetID: l.ID})
			e.opts.logger().Warn("link target not in tree", "node", id, "target", l.ID)
		}

		title := resolved.Title
		if title == "" {
			title = resolved.Path
		}
		var reason *mdlist.List
		if resolved.Reason != "" {
			reason = mdlist.NewUnordered("Reason: " + e.opts.toSourceInline(resolved.Reason))
		}
		list.Add("["+linkTitleEscaper.Replace(title)+"](/"+resolved.Path+")", reason)
	}
	return list.String(), nil
}

func (e *Encoder) writeBreakdown(b *tree.Breakdown, dir, id string, group layout.Group) error {
	if err := mkdir(dir); err != nil {
		return err
	}
	e.result.Breakdowns++

	stem := e.opts.Layout.Stem(group.Dir)
	var doc section.Sections
	if layout.NeedsBreakdownTitleSection(b.Title, stem) {
		doc.Add(section.Title, b.Title)
	}
	if b.HasPaper() {
		paper, err := section.FencedJSON(b.Paper)
		if err != nil {
			return fmt.Errorf("breakdown %s: paper: %w", id, err)
		}
		doc.Add(section.Paper, paper)
	}
	if b.Explanation != "" {
		doc.Add(section.Explanation, e.opts.toSource(b.Explanation))
	}
	if e.opts.PreserveOrder {
		if order := orderList(group.Children, group.Children); order != "" {
			doc.Add(section.Order, order)
		}
	}
	return writeFile(filepath.Join(dir, stem+".md"), []byte(section.Join(doc)))
}

func mkdir(dir string) error {
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &DirectoryExistsError{Path: dir}
		}
		return fmt.Errorf("creating directory: %w", err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
