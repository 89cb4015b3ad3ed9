// Package links converts node links between ID form and directory-path form.
package links

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/zarSou9/tr-migrator/internal/layout"
	"github.com/zarSou9/tr-migrator/internal/nodeid"
	"github.com/zarSou9/tr-migrator/internal/tree"
)

// UnknownTitle is the title written for a link whose target does not exist.
const UnknownTitle = "Unknown Node"

var unknownPathPattern = regexp.MustCompile(`^Unknown path \(ID: (.*)\)$`)

// UnknownPath is the path written for a link whose target does not exist.
func UnknownPath(id string) string {
	return "Unknown path (ID: " + id + ")"
}

// UnresolvedLinkError reports a path link that matched no directory.
type UnresolvedLinkError struct {
	NodeID string
	Path   string
}

func (e *UnresolvedLinkError) Error() string {
	return fmt.Sprintf("node %s: link %q does not match any node directory", e.NodeID, e.Path)
}

// Resolver turns ID links into path links for one tree.
type Resolver struct {
	Root   *tree.Node
	Layout layout.Layout
}

// ToPath rewrites an ID link as a path link. A link whose ID does not name a
// node in the tree, including a breakdown ID, gets the unknown-path
// placeholder. Only an ID that does not parse is an error.
func (r Resolver) ToPath(link tree.Link) (tree.Link, bool, error) {
	if link.ID == "" {
		return link, true, nil
	}
	idxs, err := nodeid.DecodeIndices(link.ID)
	if err != nil {
		return link, false, err
	}

	unknown := tree.Link{Path: UnknownPath(link.ID), Title: UnknownTitle, Reason: link.Reason}
	steps, ok := nodeid.Pair(idxs)
	if !ok {
		return unknown, false, nil
	}
	dir, title, ok := r.locate(steps)
	if !ok {
		return unknown, false, nil
	}
	return tree.Link{Path: dir + "/" + path.Base(dir) + ".md", Title: title, Reason: link.Reason}, true, nil
}

// Dir returns the slash-separated directory of the node at id, starting at
// the root directory name.
func (r Resolver) Dir(id string) (string, error) {
	steps, err := nodeid.Decode(id)
	if err != nil {
		return "", err
	}
	dir, _, ok := r.locate(steps)
	if !ok {
		return "", fmt.Errorf("node %s is not in the tree", id)
	}
	return dir, nil
}

func (r Resolver) locate(steps []nodeid.Step) (string, string, bool) {
	parts := []string{r.Layout.RootName(r.Root)}
	cur := r.Root
	for _, s := range steps {
		plan := r.Layout.Plan(cur)
		if s.Group >= len(plan) || s.Child >= len(plan[s.Group].Children) {
			return "", "", false
		}
		if plan[s.Group].Dir != "" {
			parts = append(parts, plan[s.Group].Dir)
		}
		parts = append(parts, plan[s.Group].Children[s.Child])
		cur = &cur.Breakdowns[s.Group].SubNodes[s.Child]
	}
	return strings.Join(parts, "/"), cur.Title, true
}

// IndexBuilder collects directory-to-ID pairs while a tree is decoded.
type IndexBuilder struct {
	ids map[string]string
}

// NewIndexBuilder returns an empty builder.
func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{ids: make(map[string]string)}
}

// Add records that the node directory dir has id. dir is slash-separated and
// starts at the root directory name.
func (b *IndexBuilder) Add(dir, id string) {
	b.ids[path.Clean(dir)] = id
}

// Snapshot freezes the entries added so far.
func (b *IndexBuilder) Snapshot() *Index {
	ids := make(map[string]string, len(b.ids))
	for k, v := range b.ids {
		ids[k] = v
	}
	return &Index{ids: ids}
}

// Index maps node directories to IDs.
type Index struct {
	ids map[string]string
}

// Len returns the number of indexed directories.
func (ix *Index) Len() int {
	return len(ix.ids)
}

// ToID rewrites a path link as an ID link. Links that already carry an ID
// pass through. A miss returns the link unchanged and false.
func (ix *Index) ToID(link tree.Link) (tree.Link, bool) {
	if link.ID != "" {
		return link, true
	}
	target := strings.TrimPrefix(link.Path, "/")
	if m := unknownPathPattern.FindStringSubmatch(target); m != nil {
		return tree.Link{ID: m[1], Reason: link.Reason}, true
	}
	if target == "" {
		return link, false
	}

	dir := path.Clean(target)
	if strings.HasSuffix(dir, ".md") {
		dir = path.Dir(dir)
	}
	if id, ok := ix.ids[dir]; ok {
		return tree.Link{ID: id, Reason: link.Reason}, true
	}
	return link, false
}
