package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/doxadoc/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser imports Markdown files as pages using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	// Heading levels are shifted so the first-level heading is the page title.
	var blocks []doctree.Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			blocks = append(blocks, doctree.TitleBlock{
				Title: inlineText(node, src),
				Level: node.Level - 1,
			})
		case *ast.FencedCodeBlock:
			blocks = append(blocks, doctree.CodeBlock{Code: rawLines(node, src)})
		case *ast.CodeBlock:
			blocks = append(blocks, doctree.CodeBlock{Code: rawLines(node, src)})
		case *ast.List:
			var list doctree.ListBlock
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				if t := inlineText(item, src); t != "" {
					list.Items = append(list.Items, t)
				}
			}
			blocks = append(blocks, list)
		case *ast.HTMLBlock, *ast.ThematicBreak:
		default:
			if t := inlineText(n, src); t != "" {
				blocks = append(blocks, doctree.TextBlock{Text: t})
			}
		}
	}

	return pageDocument(filename, titled(pageTitle(filename), blocks)), nil
}

// inlineText gets the text content of a goldmark node's inline descendants.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(src))
				if t.HardLineBreak() {
					buf.WriteByte('\n')
				} else if t.SoftLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

func rawLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}
