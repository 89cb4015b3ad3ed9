package transcode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/zarSou9/tr-migrator/internal/layout"
	"github.com/zarSou9/tr-migrator/internal/links"
	"github.com/zarSou9/tr-migrator/internal/mdlist"
	"github.com/zarSou9/tr-migrator/internal/nodeid"
	"github.com/zarSou9/tr-migrator/internal/section"
	"github.com/zarSou9/tr-migrator/internal/tree"
)

var (
	orderLinePattern = regexp.MustCompile(`^(\s*\d+\. )(.*)$`)
	reasonPrefix     = "Reason:"
	errNotADirectory = errors.New("not a directory")
)

// DecodeResult is a decoded tree plus what the decoder had to leave out.
type DecodeResult struct {
	Root       *tree.Node
	Unresolved []*links.UnresolvedLinkError
	Skipped    []SkippedDir
}

// Decoder reads a directory of markdown files back into a tree.
type Decoder struct {
	opts    Options
	index   *links.IndexBuilder
	pending map[string][]tree.Link
	result  *DecodeResult
}

// NewDecoder returns a Decoder using opts.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// Decode reads the tree rooted at rootDir. IDs are assigned from position;
// links are resolved once every node directory is known.
func (d *Decoder) Decode(rootDir string) (*DecodeResult, error) {
	rootDir = filepath.Clean(rootDir)
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root directory %s: %w", rootDir, errNotADirectory)
	}

	d.index = links.NewIndexBuilder()
	d.pending = make(map[string][]tree.Link)
	d.result = &DecodeResult{}

	entry := d.opts.Layout.ScanRoot(rootDir)
	root, err := d.node(entry, nodeid.Root, entry.Name)
	if err != nil {
		return nil, fmt.Errorf("root node: %w", err)
	}

	d.resolveLinks(root)
	d.result.Root = root
	return d.result, nil
}

func (d *Decoder) node(entry layout.Entry, id, rel string) (*tree.Node, error) {
	doc, err := readSections(entry.MarkdownPath)
	if err != nil {
		return nil, err
	}

	n := &tree.Node{ID: id, Title: layout.Desanitize(entry.Name)}
	if title, ok := doc.Get(section.Title); ok {
		n.Title = title
	}
	if v, ok := doc.Get(section.MiniDescription); ok {
		n.MiniDescription = d.opts.toDisplay(v)
	}
	if v, ok := doc.Get(section.Description); ok {
		n.Description = d.opts.toDisplay(v)
	}
	if v, ok := doc.Get(section.Questions); ok {
		for i, q := range mdlist.Parse(v, nil, nil).Texts() {
			n.Questions = append(n.Questions, tree.Question{
				ID:       nodeid.QuestionID(id, i),
				Question: d.opts.fromSourceInline(q),
			})
		}
	}
	if v, ok := doc.Get(section.RelatedNodes); ok {
		d.pending[id] = d.parseLinks(v, entry.MarkdownPath)
	}
	if n.Papers, err = readPapers(entry.Path); err != nil {
		return nil, err
	}
	d.index.Add(rel, id)

	entries, err := d.opts.Layout.Scan(entry.Path)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return n, nil
	}

	order, _ := doc.Get(section.Order)
	if isBreakdownLayer(entries) {
		if n.Breakdowns, err = d.breakdowns(entry.Path, entries, order, id, rel); err != nil {
			return nil, err
		}
		return n, nil
	}
	if err := checkContentOnly(entry.Path, entries); err != nil {
		return nil, err
	}

	subs, err := d.children(entry.Path, entries, order, id, 0, rel)
	if err != nil {
		return nil, err
	}
	if len(subs) > 0 {
		n.Breakdowns = []tree.Breakdown{{ID: nodeid.BreakdownID(id, 0), SubNodes: subs}}
	}
	return n, nil
}

// children decodes the content directories of one group. Skipped
// directories do not take up an index.
func (d *Decoder) children(dir string, entries []layout.Entry, order, parentID string, group int, rel string) ([]tree.Node, error) {
	ordered, err := d.order(dir, entries, order, nil)
	if err != nil {
		return nil, err
	}

	subs := make([]tree.Node, 0, len(ordered))
	for _, e := range ordered {
		childID := nodeid.ChildID(parentID, group, len(subs))
		child, err := d.node(e, childID, path.Join(rel, e.Name))
		if errors.Is(err, ErrMissingContentFile) {
			d.skip(e.Path, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		subs = append(subs, *child)
	}
	return subs, nil
}

// breakdownDir is a breakdown directory whose markdown has been read.
type breakdownDir struct {
	entry     layout.Entry
	doc       section.Sections
	paper     json.RawMessage
	anonymous bool
}

func (b *breakdownDir) paperTitle() string {
	bd := tree.Breakdown{Paper: b.paper}
	return bd.PaperTitle()
}

func (d *Decoder) breakdowns(dir string, entries []layout.Entry, order, id, rel string) ([]tree.Breakdown, error) {
	parsed := make(map[string]*breakdownDir, len(entries))
	var anonymous []*breakdownDir
	for _, e := range entries {
		doc, err := readSections(e.MarkdownPath)
		if errors.Is(err, ErrMissingContentFile) {
			d.skip(e.Path, err)
			continue
		}
		if err != nil {
			return nil, err
		}

		bd := &breakdownDir{entry: e, doc: doc}
		if body, ok := doc.Get(section.Paper); ok {
			if bd.paper, err = section.UnfenceJSON(body); err != nil {
				return nil, fmt.Errorf("%s: paper: %w", e.MarkdownPath, err)
			}
		}
		if _, titled := doc.Get(section.Title); !titled && layout.IsAnonymousStem(e.Stem) {
			bd.anonymous = true
			anonymous = append(anonymous, bd)
		}
		parsed[e.Name] = bd
	}

	// Counters only ever lengthen a name, so this is creation order.
	slices.SortStableFunc(anonymous, func(a, b *breakdownDir) int {
		if len(a.entry.Name) != len(b.entry.Name) {
			return len(a.entry.Name) - len(b.entry.Name)
		}
		return strings.Compare(a.entry.Name, b.entry.Name)
	})

	ordered, err := d.order(dir, entries, order, anonymous)
	if err != nil {
		return nil, err
	}

	groups := make([]tree.Breakdown, 0, len(parsed))
	for _, e := range ordered {
		bd, ok := parsed[e.Name]
		if !ok {
			continue
		}
		b, err := d.breakdown(bd, id, len(groups), rel)
		if err != nil {
			return nil, err
		}
		groups = append(groups, b)
	}
	return groups, nil
}

func (d *Decoder) breakdown(bd *breakdownDir, parentID string, group int, rel string) (tree.Breakdown, error) {
	b := tree.Breakdown{
		ID:    nodeid.BreakdownID(parentID, group),
		Paper: bd.paper,
	}
	if title, ok := bd.doc.Get(section.Title); ok {
		b.Title = title
	} else if !bd.anonymous {
		b.Title = layout.BreakdownTitle(bd.entry.Stem)
	}
	if v, ok := bd.doc.Get(section.Explanation); ok {
		b.Explanation = d.opts.toDisplay(v)
	}

	entries, err := d.opts.Layout.Scan(bd.entry.Path)
	if err != nil {
		return b, err
	}
	for _, e := range entries {
		if e.Kind == layout.BreakdownGroup {
			return b, &MixedLayoutError{Dir: bd.entry.Path, Reason: "breakdown directory " + e.Name + " inside a breakdown"}
		}
	}

	order, _ := bd.doc.Get(section.Order)
	if b.SubNodes, err = d.children(bd.entry.Path, entries, order, parentID, group, path.Join(rel, bd.entry.Name)); err != nil {
		return b, err
	}
	return b, nil
}

// order applies an Order section to entries. Entries it does not name keep
// their sorted position where the list leaves room and are appended
// otherwise.
func (d *Decoder) order(dir string, entries []layout.Entry, text string, anonymous []*breakdownDir) ([]layout.Entry, error) {
	if strings.TrimSpace(text) == "" {
		return entries, nil
	}
	text, err := resolvePlaceholders(dir, text, anonymous)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]layout.Entry, len(entries))
	names := make([]string, len(entries))
	for i, e := range entries {
		byName[e.Name] = e
		names[i] = e.Name
	}

	log := d.opts.logger()
	seen := make(map[string]bool, len(entries))
	out := make([]layout.Entry, 0, len(entries))
	for _, name := range mdlist.Parse(text, nil, names).Texts() {
		e, ok := byName[name]
		if !ok {
			log.Warn("order names a missing directory", "dir", dir, "name", name)
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, e)
	}
	for _, e := range entries {
		if !seen[e.Name] {
			log.Warn("directory missing from order, appending", "dir", dir, "name", e.Name)
			out = append(out, e)
		}
	}
	return out, nil
}

// resolvePlaceholders replaces each `Paper: "<title>"` Order entry with the
// name of the first unused anonymous breakdown carrying that paper.
func resolvePlaceholders(dir, text string, anonymous []*breakdownDir) (string, error) {
	used := make([]bool, len(anonymous))
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := orderLinePattern.FindStringSubmatch(strings.TrimRight(line, " \t\r"))
		if m == nil {
			continue
		}
		title, ok := layout.ParsePlaceholder(m[2])
		if !ok {
			continue
		}
		j := -1
		for k, bd := range anonymous {
			if !used[k] && bd.paperTitle() == title {
				j = k
				break
			}
		}
		if j < 0 {
			return "", &AmbiguousPlaceholderError{Dir: dir, PaperTitle: title}
		}
		used[j] = true
		lines[i] = m[1] + anonymous[j].entry.Name
	}
	return strings.Join(lines, "\n"), nil
}

func (d *Decoder) parseLinks(body, file string) []tree.Link {
	var out []tree.Link
	for _, item := range mdlist.Parse(body, nil, nil).Items {
		title, target, ok := splitLinkItem(strings.TrimSpace(item.Text))
		if !ok {
			d.opts.logger().Warn("skipping related node entry", "file", file, "entry", item.Text)
			continue
		}
		l := tree.Link{Path: strings.TrimPrefix(target, "/"), Title: linkTitleUnescaper.Replace(title)}
		if item.Child != nil {
			for _, sub := range item.Child.Items {
				if reason, ok := strings.CutPrefix(sub.Text, reasonPrefix); ok {
					l.Reason = d.opts.fromSourceInline(strings.TrimSpace(reason))
				}
			}
		}
		out = append(out, l)
	}
	return out
}

// splitLinkItem splits "[title](target)" at the first "](" not preceded by a
// backslash escape.
func splitLinkItem(s string) (title, target string, ok bool) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	for i := 1; i < len(s)-1; i++ {
		switch {
		case s[i] == '\\':
			i++
		case s[i] == ']' && s[i+1] == '(':
			return s[1:i], s[i+2 : len(s)-1], true
		}
	}
	return "", "", false
}

// resolveLinks rewrites path links to IDs from the finished index.
func (d *Decoder) resolveLinks(root *tree.Node) {
	ix := d.index.Snapshot()
	tree.Walk(root, func(n *tree.Node) {
		raw := d.pending[n.ID]
		if len(raw) == 0 {
			return
		}
		n.Links = make([]tree.Link, 0, len(raw))
		for _, l := range raw {
			resolved, ok := ix.ToID(l)
			if !ok {
				d.result.Unresolved = append(d.result.Unresolved, &links.UnresolvedLinkError{NodeID: n.ID, Path: l.Path})
				d.opts.logger().Warn("could not resolve link", "node", n.ID, "path", l.Path)
			}
			n.Links = append(n.Links, resolved)
		}
	})
}

func (d *Decoder) skip(dir string, err error) {
	d.result.Skipped = append(d.result.Skipped, SkippedDir{Path: dir, Err: err})
	d.opts.logger().Warn("skipping directory", "dir", dir, "err", err)
}

func readSections(file string) (section.Sections, error) {
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", file, ErrMissingContentFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	return section.Split(string(data)), nil
}

func readPapers(dir string) (json.RawMessage, error) {
	file := filepath.Join(dir, layout.PapersFile)
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return json.RawMessage(buf.Bytes()), nil
}

func isBreakdownLayer(entries []layout.Entry) bool {
	for _, e := range entries {
		if e.Kind != layout.BreakdownGroup {
			return false
		}
	}
	return true
}

func checkContentOnly(dir string, entries []layout.Entry) error {
	for _, e := range entries {
		if e.Kind == layout.BreakdownGroup {
			return &MixedLayoutError{Dir: dir, Reason: "content and breakdown directories side by side"}
		}
	}
	return nil
}
