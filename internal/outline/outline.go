// Package outline summarizes a resolved group tree as a flat, ordered table
// of contents.
package outline

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/doxadoc/internal/doctree"
)

// Entry is one group in render order.
type Entry struct {
	Title      string   `json:"title"`
	Depth      int      `json:"depth"`
	Breadcrumb []string `json:"breadcrumb"`
	Pages      int      `json:"pages"`
	Functions  int      `json:"functions"`
	Enums      int      `json:"enums"`
	Structs    int      `json:"structs"`
	Unions     int      `json:"unions"`
	Typedefs   int      `json:"typedefs"`
	PageTokens int      `json:"page_tokens"`
}

// Build flattens tree depth-first, in the same order the document renderer
// emits groups.
func Build(tree *doctree.Tree) []Entry {
	var entries []Entry
	for _, child := range tree.Children(doctree.Root) {
		walkNode(tree, child, nil, 1, &entries)
	}
	return entries
}

func walkNode(tree *doctree.Tree, id doctree.GroupID, breadcrumb []string, depth int, entries *[]Entry) {
	g := tree.Group(id)
	if g == nil {
		return
	}

	crumb := copyBreadcrumb(breadcrumb)
	crumb = append(crumb, g.Name)

	*entries = append(*entries, Entry{
		Title:      g.Name,
		Depth:      depth,
		Breadcrumb: crumb,
		Pages:      len(g.Pages),
		Functions:  len(g.Functions),
		Enums:      len(g.Enums),
		Structs:    len(g.Structs),
		Unions:     len(g.Unions),
		Typedefs:   len(g.Typedefs),
		PageTokens: pageTokens(g.Pages),
	})

	for _, child := range tree.Children(id) {
		walkNode(tree, child, crumb, depth+1, entries)
	}
}

func pageTokens(pages []*doctree.Page) int {
	total := 0
	for _, pg := range pages {
		for _, b := range pg.Blocks {
			switch b := b.(type) {
			case doctree.TextBlock:
				total += EstimateTokens(b.Text)
			case doctree.CodeBlock:
				total += EstimateTokens(b.Code)
			case doctree.TitleBlock:
				total += EstimateTokens(b.Title)
			case doctree.ListBlock:
				total += EstimateTokens(strings.Join(b.Items, " "))
			case doctree.TableBlock:
				total += EstimateTokens(strings.Join(b.Header, " "))
				for _, row := range b.Rows {
					total += EstimateTokens(strings.Join(row, " "))
				}
			}
		}
	}
	return total
}

func copyBreadcrumb(bc []string) []string {
	if bc == nil {
		return nil
	}
	cp := make([]string, len(bc))
	copy(cp, bc)
	return cp
}

// Write prints entries as an indented list, two spaces per level.
func Write(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		_, err := fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", e.Depth-1), e.Title, counts(e))
		if err != nil {
			return err
		}
	}
	return nil
}

// Format is Write into a string.
func Format(entries []Entry) string {
	var sb strings.Builder
	_ = Write(&sb, entries)
	return sb.String()
}

func counts(e Entry) string {
	var parts []string
	add := func(n int, noun string) {
		if n == 0 {
			return
		}
		if n > 1 {
			noun += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, noun))
	}
	add(e.Pages, "page")
	add(e.Functions, "function")
	add(e.Enums, "enum")
	add(e.Structs, "struct")
	add(e.Unions, "union")
	add(e.Typedefs, "typedef")
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
