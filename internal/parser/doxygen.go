package parser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/doxadoc/internal/doctree"
)

// ErrIndexDocument is returned when index.xml is handed to Parse instead of
// LoadIndex.
var ErrIndexDocument = errors.New("index document must be loaded with LoadIndex")

// DoxygenParser extracts records from one Doxygen XML compound file.
type DoxygenParser struct{}

func (p *DoxygenParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	root, err := decodeXML(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	switch root.Name {
	case "doxygen":
	case "doxygenindex":
		return nil, ErrIndexDocument
	default:
		return nil, fmt.Errorf("%s: unexpected root element <%s>", filename, root.Name)
	}

	def := root.child("compounddef")
	if def == nil {
		return nil, fmt.Errorf("%s: missing compounddef", filename)
	}
	kind, err := doctree.ParseCompoundKind(def.attr("kind"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	x := &extractor{doc: &doctree.Document{
		ID:       def.attr("id"),
		Name:     def.child("compoundname").trimmed(),
		Kind:     kind,
		Language: def.attr("language"),
	}}

	switch kind {
	case doctree.KindFile:
		err = x.file(def)
	case doctree.KindPage:
		x.page(root)
	case doctree.KindGroup:
		err = x.group(def)
	case doctree.KindStruct, doctree.KindUnion:
		err = x.composite(def, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return x.doc, nil
}

type extractor struct {
	doc *doctree.Document
}

func (x *extractor) warn(kind doctree.WarningKind, subject, format string, args ...any) {
	x.doc.Warnings = append(x.doc.Warnings, doctree.Warning{
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	})
}

type members struct {
	functions []*doctree.Function
	enums     []*doctree.Enum
	typedefs  []*doctree.Typedef
}

// sectionMember is the member kind each typed section must contain.
var sectionMember = map[string]string{
	"func":    "function",
	"enum":    "enum",
	"typedef": "typedef",
}

func (x *extractor) memberSections(def *xmlNode) (members, error) {
	var m members
	for _, sec := range def.childrenNamed("sectiondef") {
		kind := sec.attr("kind")
		switch kind {
		case "define", "var":
			x.warn(doctree.WarnIgnoredSection, x.doc.Name, "%s section ignored", kind)
		case "func", "enum", "typedef":
			for _, md := range sec.childrenNamed("memberdef") {
				if mk := md.attr("kind"); mk != sectionMember[kind] {
					return m, &doctree.UnknownKindError{What: "member", Kind: mk}
				}
				if err := x.member(md, &m); err != nil {
					return m, err
				}
			}
		case "user-defined":
			for _, md := range sec.childrenNamed("memberdef") {
				switch mk := md.attr("kind"); mk {
				case "define", "variable":
					x.warn(doctree.WarnIgnoredSection, md.child("name").trimmed(), "%s member ignored", mk)
				default:
					if err := x.member(md, &m); err != nil {
						return m, err
					}
				}
			}
		default:
			return m, &doctree.UnknownKindError{What: "section", Kind: kind}
		}
	}
	return m, nil
}

func (x *extractor) member(md *xmlNode, m *members) error {
	switch kind := md.attr("kind"); kind {
	case "function":
		m.functions = append(m.functions, x.function(md))
	case "enum":
		m.enums = append(m.enums, enumeration(md))
	case "typedef":
		m.typedefs = append(m.typedefs, &doctree.Typedef{
			Name: md.child("name").trimmed(),
			Type: md.child("type").trimmed(),
			Doc:  md.child("detaileddescription").trimmed(),
		})
	default:
		return &doctree.UnknownKindError{What: "member", Kind: kind}
	}
	return nil
}

func (x *extractor) file(def *xmlNode) error {
	m, err := x.memberSections(def)
	if err != nil {
		return err
	}
	x.doc.Functions = m.functions
	x.doc.Enums = m.enums
	x.doc.Typedefs = m.typedefs
	return nil
}

func (x *extractor) group(def *xmlNode) error {
	g := &doctree.Group{
		Name:   def.child("title").trimmed(),
		Parent: doctree.Root,
	}
	if g.Name == "" {
		g.Name = x.doc.Name
	}
	for _, ic := range def.childrenNamed("innerclass") {
		g.InnerClasses = append(g.InnerClasses, doctree.InnerClass{
			RefID: ic.attr("refid"),
			Name:  ic.trimmed(),
		})
	}
	for _, ig := range def.childrenNamed("innergroup") {
		g.ChildNames = append(g.ChildNames, ig.trimmed())
	}

	m, err := x.memberSections(def)
	if err != nil {
		return err
	}
	g.Functions = m.functions
	g.Enums = m.enums
	g.Typedefs = m.typedefs
	x.doc.Groups = append(x.doc.Groups, g)
	return nil
}

func (x *extractor) composite(def *xmlNode, kind doctree.CompoundKind) error {
	c := &doctree.Composite{
		ID:    x.doc.ID,
		Name:  x.doc.Name,
		Kind:  doctree.CompositeKind(kind),
		Brief: def.child("briefdescription").trimmed(),
	}
	for _, sec := range def.childrenNamed("sectiondef") {
		if k := sec.attr("kind"); k != "public-attrib" {
			return &doctree.UnknownKindError{What: "section", Kind: k}
		}
		for _, md := range sec.childrenNamed("memberdef") {
			if md.attr("kind") != "variable" {
				continue
			}
			c.Fields = append(c.Fields, doctree.Field{
				Type:       md.child("type").trimmed(),
				Name:       md.child("name").trimmed(),
				ArgsString: md.child("argsstring").trimmed(),
				Brief:      md.child("briefdescription").trimmed(),
				Detail:     md.child("detaileddescription").trimmed(),
			})
		}
	}
	if kind == doctree.KindUnion {
		x.doc.Unions = append(x.doc.Unions, c)
	} else {
		x.doc.Structs = append(x.doc.Structs, c)
	}
	return nil
}

// page scans every element of the document in order, as Doxygen places the
// page title outside the detailed description.
func (x *extractor) page(root *xmlNode) {
	pg := &doctree.Page{DocID: x.doc.ID, Name: x.doc.Name}
	root.walk(func(n *xmlNode) {
		switch n.Name {
		case "para":
			if n.Parent != nil && n.Parent.Name == "listitem" {
				pg.Blocks = append(pg.Blocks, x.listItemBlocks(n, pg.Name)...)
				return
			}
			pg.Blocks = append(pg.Blocks, x.paraBlocks(n, pg.Name, nil)...)
		case "title":
			parent := n.Parent.Name
			switch {
			case parent == "compounddef":
				pg.Blocks = append(pg.Blocks, doctree.TitleBlock{Title: n.trimmed()})
			case strings.HasPrefix(parent, "sect"):
				level, err := strconv.Atoi(parent[len(parent)-1:])
				if err != nil {
					return
				}
				pg.Blocks = append(pg.Blocks, doctree.TitleBlock{Title: n.trimmed(), Level: level})
			}
		}
	})
	x.doc.Pages = append(x.doc.Pages, pg)
}

func (x *extractor) function(md *xmlNode) *doctree.Function {
	fn := &doctree.Function{
		Name:       md.child("name").trimmed(),
		ReturnType: md.child("type").trimmed(),
		Definition: md.child("definition").trimmed(),
		ArgsString: md.child("argsstring").trimmed(),
		Brief:      md.child("briefdescription").trimmed(),
	}
	for i, p := range md.childrenNamed("param") {
		typ, decl := p.child("type"), p.child("declname")
		param := doctree.Param{Type: typ.trimmed(), DeclName: decl.trimmed()}
		if typ == nil || (decl == nil && param.Type != "void") {
			x.warn(doctree.WarnMalformedParam, fn.Name, "parameter %d is missing its type or name", i+1)
		}
		fn.Params = append(fn.Params, param)
	}
	if dd := md.child("detaileddescription"); dd != nil {
		for _, para := range dd.childrenNamed("para") {
			fn.Details = append(fn.Details, x.paraBlocks(para, fn.Name, fn)...)
		}
	}
	return fn
}

// inlineElements contribute their text to the surrounding paragraph.
var inlineElements = map[string]bool{
	"ref":            true,
	"computeroutput": true,
	"bold":           true,
	"emphasis":       true,
	"ulink":          true,
	"anchor":         true,
	"superscript":    true,
	"subscript":      true,
	"small":          true,
	"strike":         true,
	"underline":      true,
}

// paraBlocks splits a paragraph into blocks. Parameter lists and return
// sections are folded into fn when one is given.
func (x *extractor) paraBlocks(para *xmlNode, subject string, fn *doctree.Function) []doctree.Block {
	var blocks []doctree.Block
	var inline strings.Builder
	flush := func() {
		if t := strings.TrimSpace(inline.String()); t != "" {
			blocks = append(blocks, doctree.TextBlock{Text: t})
		}
		inline.Reset()
	}

	for _, c := range para.Children {
		if !c.isElement() {
			inline.WriteString(c.Text)
			continue
		}
		switch {
		case c.Name == "programlisting":
			flush()
			blocks = append(blocks, doctree.CodeBlock{Code: codeListing(c)})
		case c.Name == "itemizedlist" || c.Name == "orderedlist":
			flush()
			blocks = append(blocks, listItems(c))
		case c.Name == "parameterlist" && fn != nil:
			flush()
			parameterList(c, fn)
		case c.Name == "simplesect" && fn != nil && c.attr("kind") == "return":
			flush()
			fn.Returns = append(fn.Returns, c.trimmed())
		case c.Name == "linebreak":
			inline.WriteString("\n")
		case inlineElements[c.Name]:
			inline.WriteString(c.text())
		case fn == nil && c.child("para") != nil:
			// Page paragraphs nested in containers are visited on their own.
			flush()
		default:
			flush()
			name := c.Name
			if k := c.attr("kind"); k != "" {
				name += " kind=" + k
			}
			x.warn(doctree.WarnUnhandledElement, subject, "<%s> dropped", name)
		}
	}
	flush()
	return blocks
}

// listItemBlocks returns the code and list blocks nested in a list item
// paragraph. Its text already belongs to the enclosing list.
func (x *extractor) listItemBlocks(para *xmlNode, subject string) []doctree.Block {
	if !para.hasElementChildren() {
		return nil
	}
	var out []doctree.Block
	for _, b := range x.paraBlocks(para, subject, nil) {
		switch b.(type) {
		case doctree.CodeBlock, doctree.ListBlock:
			out = append(out, b)
		}
	}
	return out
}

func listItems(n *xmlNode) doctree.ListBlock {
	var list doctree.ListBlock
	for _, item := range n.childrenNamed("listitem") {
		if t := item.child("para").trimmed(); t != "" {
			list.Items = append(list.Items, t)
		}
	}
	return list
}

func parameterList(n *xmlNode, fn *doctree.Function) {
	for _, item := range n.childrenNamed("parameteritem") {
		nameNode := item.child("parameternamelist").child("parametername")
		name := nameNode.trimmed()
		if name == "" {
			continue
		}
		desc := item.child("parameterdescription")
		text := desc.child("para").trimmed()
		if text == "" {
			text = desc.trimmed()
		}
		for i := range fn.Params {
			if fn.Params[i].DeclName == name {
				fn.Params[i].Direction = nameNode.attr("direction")
				fn.Params[i].Description = text
			}
		}
	}
}

// codeListing flattens a programlisting into source text. Leading and
// trailing blank lines are dropped.
func codeListing(n *xmlNode) string {
	var lines []string
	for _, cl := range n.childrenNamed("codeline") {
		var b strings.Builder
		writeCode(cl, &b)
		lines = append(lines, b.String())
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func writeCode(n *xmlNode, b *strings.Builder) {
	for _, c := range n.Children {
		switch {
		case !c.isElement():
			b.WriteString(c.Text)
		case c.Name == "sp":
			b.WriteByte(' ')
		default:
			writeCode(c, b)
		}
	}
}

func enumeration(md *xmlNode) *doctree.Enum {
	e := &doctree.Enum{
		Name: md.child("name").trimmed(),
		Doc:  md.child("briefdescription").child("para").trimmed(),
	}
	for _, v := range md.childrenNamed("enumvalue") {
		e.Values = append(e.Values, doctree.EnumValue{
			Name: v.child("name").trimmed(),
			Doc:  v.child("briefdescription").child("para").trimmed(),
		})
	}
	return e
}
