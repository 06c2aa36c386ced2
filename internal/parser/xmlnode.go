package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// xmlNode is a minimal DOM. Doxygen descriptions are mixed content, which
// struct-tag unmarshalling cannot represent in order.
type xmlNode struct {
	Name     string // empty for character data
	Attrs    map[string]string
	Text     string
	Children []*xmlNode
	Parent   *xmlNode
}

func decodeXML(r io.Reader) (*xmlNode, error) {
	dec := xml.NewDecoder(r)
	doc := &xmlNode{}
	cur := doc

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{Name: t.Name.Local, Parent: cur}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			cur.Children = append(cur.Children, n)
			cur = n
		case xml.EndElement:
			if cur.Parent == nil {
				return nil, fmt.Errorf("decode xml: unexpected </%s>", t.Name.Local)
			}
			cur = cur.Parent
		case xml.CharData:
			if cur == doc {
				continue
			}
			cur.Children = append(cur.Children, &xmlNode{Text: string(t), Parent: cur})
		}
	}

	for _, c := range doc.Children {
		if c.isElement() {
			c.Parent = nil
			return c, nil
		}
	}
	return nil, errors.New("decode xml: no root element")
}

func (n *xmlNode) isElement() bool { return n.Name != "" }

func (n *xmlNode) attr(name string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[name]
}

// child returns the first direct child element called name.
func (n *xmlNode) child(name string) *xmlNode {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *xmlNode) childrenNamed(name string) []*xmlNode {
	if n == nil {
		return nil
	}
	var out []*xmlNode
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func (n *xmlNode) hasElementChildren() bool {
	for _, c := range n.Children {
		if c.isElement() {
			return true
		}
	}
	return false
}

// text returns the concatenated character data of n and its descendants.
func (n *xmlNode) text() string {
	if n == nil {
		return ""
	}
	if !n.isElement() {
		return n.Text
	}
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *xmlNode) writeText(b *strings.Builder) {
	for _, c := range n.Children {
		if c.isElement() {
			c.writeText(b)
		} else {
			b.WriteString(c.Text)
		}
	}
}

// trimmed is text with surrounding whitespace removed.
func (n *xmlNode) trimmed() string {
	return strings.TrimSpace(n.text())
}

// walk visits n and every descendant element in document order.
func (n *xmlNode) walk(fn func(*xmlNode)) {
	if !n.isElement() {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}
