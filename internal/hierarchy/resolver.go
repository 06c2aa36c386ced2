// Package hierarchy turns the flat list of extracted groups into the
// parent/child tree that drives document emission.
package hierarchy

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dgallion1/doxadoc/internal/doctree"
)

const (
	pageMarker   = "group__"
	structMarker = "struct"
	unionMarker  = "union"
)

// mangledName matches a Doxygen-escaped name: underscores in the source name
// are doubled, and a single underscore separates the name from a suffix.
var mangledName = regexp.MustCompile(`^[A-Za-z0-9]+(?:_{2,}[A-Za-z0-9]*)+`)

// DecodeName recovers the source name embedded in a Doxygen id after
// stripping a marker of markerLen bytes. It returns "" when the id does not
// carry an escaped name.
func DecodeName(id string, markerLen int) string {
	if len(id) <= markerLen {
		return ""
	}
	return strings.ReplaceAll(mangledName.FindString(id[markerLen:]), "__", "_")
}

// UnresolvedGroupError reports a child group reference that matches no
// group name.
type UnresolvedGroupError struct {
	Group string
	Name  string
}

func (e *UnresolvedGroupError) Error() string {
	return fmt.Sprintf("group %q references unknown group %q", e.Group, e.Name)
}

// CycleError reports groups that are their own ancestors.
type CycleError struct {
	Groups []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("group hierarchy has a cycle through %s", strings.Join(e.Groups, ", "))
}

// Resolver builds the group tree and attaches pages and composites to their
// groups.
type Resolver struct {
	log *slog.Logger
}

func NewResolver(log *slog.Logger) *Resolver {
	return &Resolver{log: log}
}

// Resolve assigns group ids, attaches pages and structs, resolves child
// names and assembles the tree. It mutates the groups in set and may be
// called again on the same set.
func (r *Resolver) Resolve(set *doctree.RecordSet, report *doctree.Report) (*doctree.Tree, error) {
	groups := set.Groups()
	for i, g := range groups {
		g.ID = doctree.GroupID(i)
		g.Parent = doctree.Root
		g.ChildIDs = nil
		g.Pages = nil
		g.Structs = nil
		g.Unions = nil
	}

	byName := make(map[string]doctree.GroupID, len(groups))
	for _, g := range groups {
		key := doctree.Fold(g.Name)
		if first, dup := byName[key]; dup {
			report.Warn(doctree.WarnDuplicateGroup, g.Name, "name already used by group %d", first)
			continue
		}
		byName[key] = g.ID
	}

	r.attachPages(set, groups, byName, report)
	r.attachComposites(set, groups, report)

	for _, g := range groups {
		for _, name := range g.ChildNames {
			id, ok := byName[doctree.Fold(name)]
			if !ok {
				return nil, &UnresolvedGroupError{Group: g.Name, Name: name}
			}
			g.ChildIDs = append(g.ChildIDs, id)
		}
	}
	for _, g := range groups {
		for _, id := range g.ChildIDs {
			groups[id].Parent = g.ID
		}
	}

	tree := assemble(groups)
	if err := checkReachable(tree, groups); err != nil {
		return nil, err
	}
	r.log.Debug("group hierarchy resolved",
		"groups", len(groups),
		"top_level", len(tree.Children(doctree.Root)))
	return tree, nil
}

func (r *Resolver) attachPages(set *doctree.RecordSet, groups []*doctree.Group, byName map[string]doctree.GroupID, report *doctree.Report) {
	for _, pg := range set.AttachablePages() {
		name := DecodeName(pg.DocID, len(pageMarker))
		id, ok := byName[doctree.Fold(name)]
		if name == "" || !ok {
			report.Warn(doctree.WarnUnattachedPage, pg.Name, "no group matches page id %q", pg.DocID)
			continue
		}
		groups[id].Pages = append(groups[id].Pages, pg)
		r.log.Debug("page attached", "page", pg.Name, "group", groups[id].Name)
	}
}

func (r *Resolver) attachComposites(set *doctree.RecordSet, groups []*doctree.Group, report *doctree.Report) {
	structsByName := map[string]*doctree.Composite{}
	byID := map[string]*doctree.Composite{}
	for _, c := range set.Structs() {
		if k := doctree.Fold(c.Name); structsByName[k] == nil {
			structsByName[k] = c
		}
	}
	for _, c := range append(set.Structs(), set.Unions()...) {
		if k := doctree.Fold(c.ID); byID[k] == nil {
			byID[k] = c
		}
	}

	for _, g := range groups {
		attached := map[string]bool{}
		attach := func(c *doctree.Composite) {
			key := string(c.Kind) + ":" + doctree.Fold(c.Name)
			if attached[key] {
				return
			}
			attached[key] = true
			if c.Kind == doctree.CompositeUnion {
				g.Unions = append(g.Unions, c)
			} else {
				g.Structs = append(g.Structs, c)
			}
		}

		for _, ic := range g.InnerClasses {
			found := false
			if strings.HasPrefix(ic.RefID, structMarker) {
				if name := DecodeName(ic.RefID, len(structMarker)); name != "" {
					if c := structsByName[doctree.Fold(name)]; c != nil {
						attach(c)
						found = true
					}
				}
			}
			if strings.HasPrefix(ic.RefID, structMarker) || strings.HasPrefix(ic.RefID, unionMarker) {
				if c := byID[doctree.Fold(ic.RefID)]; c != nil {
					attach(c)
					found = true
				}
			}
			if !found {
				report.Warn(doctree.WarnUnresolvedInnerClass, g.Name, "inner class %q matches no struct or union", ic.RefID)
			}
		}
	}
}

// assemble builds the tree. Top-level groups keep id order; children keep
// the order their parent declared them in.
func assemble(groups []*doctree.Group) *doctree.Tree {
	tree := doctree.NewTree(groups)
	root := tree.Nodes[doctree.Root]
	for _, g := range groups {
		node := &doctree.TreeNode{ID: g.ID, Parent: g.Parent}
		seen := make(map[doctree.GroupID]bool, len(g.ChildIDs))
		for _, c := range g.ChildIDs {
			if groups[c].Parent != g.ID || seen[c] {
				continue
			}
			seen[c] = true
			node.Children = append(node.Children, c)
		}
		tree.Nodes[g.ID] = node
		if g.Parent == doctree.Root {
			root.Children = append(root.Children, g.ID)
		}
	}
	return tree
}

// checkReachable fails when a group cannot be reached from the root, which
// only happens when it sits on a parent cycle.
func checkReachable(tree *doctree.Tree, groups []*doctree.Group) error {
	reached := make([]bool, len(groups))
	_ = tree.Walk(func(g *doctree.Group, _ int) error {
		reached[g.ID] = true
		return nil
	})
	var lost []string
	for _, g := range groups {
		if !reached[g.ID] {
			lost = append(lost, g.Name)
		}
	}
	if len(lost) > 0 {
		return &CycleError{Groups: lost}
	}
	return nil
}
