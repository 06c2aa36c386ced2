// Package render emits the AsciiDoc reference manual for a resolved group
// tree.
package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/doxadoc/internal/composite"
	"github.com/dgallion1/doxadoc/internal/doctree"
)

// Options control the document header and the optional sections.
type Options struct {
	Title             string `yaml:"title" json:"title"`
	SourceHighlighter string `yaml:"source_highlighter" json:"source_highlighter"`
	TOC               string `yaml:"toc" json:"toc"`
	TOCLevels         int    `yaml:"toc_levels" json:"toc_levels"`

	// Typedefs and Unions add per-group sections after Structs.
	Typedefs bool `yaml:"typedefs" json:"typedefs"`
	Unions   bool `yaml:"unions" json:"unions"`
}

// DefaultOptions returns the header Doxygen users expect.
func DefaultOptions() Options {
	return Options{
		Title:             "Index",
		SourceHighlighter: "coderay",
		TOC:               "left",
		TOCLevels:         4,
	}
}

// Renderer writes one AsciiDoc document per call to Render.
type Renderer struct {
	log  *slog.Logger
	opts Options
}

func New(log *slog.Logger, opts Options) *Renderer {
	return &Renderer{log: log, opts: opts}
}

// Render emits the header, the preamble pages and then every group
// depth-first. Struct declarations are expanded with the composite renderer;
// unresolved references are recorded in report.
func (r *Renderer) Render(set *doctree.RecordSet, tree *doctree.Tree, report *doctree.Report) (string, error) {
	var sb strings.Builder
	r.header(&sb)

	for _, pg := range set.PreamblePages() {
		if err := writePage(&sb, pg, 0); err != nil {
			return "", fmt.Errorf("render page %s: %w", pg.Name, err)
		}
	}

	comp := composite.NewRenderer(composite.NewIndex(set.Structs(), set.Unions()), report)
	err := tree.Walk(func(g *doctree.Group, depth int) error {
		if err := r.group(&sb, g, depth, comp); err != nil {
			return fmt.Errorf("render group %s: %w", g.Name, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	sb.WriteString("\n")
	return sb.String(), nil
}

func (r *Renderer) header(sb *strings.Builder) {
	fmt.Fprintf(sb, "= %s API Documentation\n", r.opts.Title)
	fmt.Fprintf(sb, ":source-highlighter: %s\n", r.opts.SourceHighlighter)
	fmt.Fprintf(sb, ":toc: %s\n", r.opts.TOC)
	fmt.Fprintf(sb, ":toclevels: %d\n", r.opts.TOCLevels)
	sb.WriteString("\n")
}

// heading returns an AsciiDoc section marker for depth; depth 0 is the
// document title.
func heading(depth int) string {
	return strings.Repeat("=", depth+1)
}

func (r *Renderer) group(sb *strings.Builder, g *doctree.Group, depth int, comp *composite.Renderer) error {
	r.log.Debug("rendering group",
		"group", g.Name,
		"depth", depth,
		"functions", len(g.Functions),
		"structs", len(g.Structs))

	sb.WriteString(heading(depth) + " " + g.Name + "\n")

	for _, pg := range g.Pages {
		if err := writePage(sb, pg, depth); err != nil {
			return fmt.Errorf("page %s: %w", pg.Name, err)
		}
	}

	if len(g.Functions) > 0 {
		sb.WriteString(heading(depth+1) + " Functions\n\n")
		for _, fn := range g.Functions {
			if err := writeFunction(sb, fn, depth+2); err != nil {
				return fmt.Errorf("function %s: %w", fn.Name, err)
			}
		}
	}

	if len(g.Enums) > 0 {
		sb.WriteString(heading(depth+1) + " Enums\n\n")
		for _, e := range g.Enums {
			writeEnum(sb, e, depth+2)
		}
	}

	if len(g.Structs) > 0 {
		sb.WriteString(heading(depth+1) + " Structs\n")
		if err := writeComposites(sb, g.Structs, depth+2, comp); err != nil {
			return err
		}
	}

	if r.opts.Unions && len(g.Unions) > 0 {
		sb.WriteString(heading(depth+1) + " Unions\n")
		if err := writeComposites(sb, g.Unions, depth+2, comp); err != nil {
			return err
		}
	}

	if r.opts.Typedefs && len(g.Typedefs) > 0 {
		sb.WriteString(heading(depth+1) + " Typedefs\n\n")
		for _, td := range g.Typedefs {
			writeTypedef(sb, td, depth+2)
		}
	}

	sb.WriteString("\n")
	return nil
}

func writeComposites(sb *strings.Builder, cs []*doctree.Composite, depth int, comp *composite.Renderer) error {
	for _, c := range cs {
		sb.WriteString("\n")
		sb.WriteString(heading(depth) + " " + c.Name + "\n")
		sb.WriteString("\n")
		sb.WriteString("[cols='h,5a']\n")
		sb.WriteString("|===\n")
		sb.WriteString("| Description\n")
		sb.WriteString("| " + c.Brief + "\n")
		sb.WriteString("\n")
		sb.WriteString("| Signature \n")
		sb.WriteString("|\n")
		sb.WriteString("[source,C]\n")
		sb.WriteString("----\n")
		if err := comp.Render(sb, c, 0, ""); err != nil {
			return fmt.Errorf("%s %s: %w", c.Kind, c.Name, err)
		}
		sb.WriteString("----\n")
		sb.WriteString("|===\n")
		sb.WriteString("\n")
	}
	return nil
}
