package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgallion1/doxadoc/internal/doctree"
)

// IndexFile is the name Doxygen gives the compound index.
const IndexFile = "index.xml"

// IndexEntry is one compound listed in index.xml.
type IndexEntry struct {
	RefID string
	Kind  string
	Name  string
}

// OpenFunc returns the contents of a compound file by name.
type OpenFunc func(name string) ([]byte, error)

// ReadIndex lists the compounds in an index.xml document in order.
func ReadIndex(r io.Reader) ([]IndexEntry, error) {
	root, err := decodeXML(r)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if root.Name != "doxygenindex" {
		return nil, fmt.Errorf("read index: unexpected root element <%s>", root.Name)
	}
	var entries []IndexEntry
	for _, c := range root.childrenNamed("compound") {
		entries = append(entries, IndexEntry{
			RefID: c.attr("refid"),
			Kind:  c.attr("kind"),
			Name:  c.child("name").trimmed(),
		})
	}
	return entries, nil
}

// LoadIndex reads index.xml from r and extracts every compound it lists, in
// index order. Directory compounds are skipped silently; compounds of other
// unsupported kinds are skipped with a warning.
func LoadIndex(r io.Reader, open OpenFunc, report *doctree.Report) (*doctree.RecordSet, error) {
	entries, err := ReadIndex(r)
	if err != nil {
		return nil, err
	}

	set := &doctree.RecordSet{}
	p := &DoxygenParser{}
	for _, e := range entries {
		if e.Kind == "dir" {
			continue
		}
		if _, err := doctree.ParseCompoundKind(e.Kind); err != nil {
			report.Warn(doctree.WarnSkippedCompound, e.Name, "compound kind %q not converted", e.Kind)
			continue
		}
		name := e.RefID + ".xml"
		data, err := open(name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		doc, err := p.Parse(bytes.NewReader(data), name)
		if err != nil {
			return nil, err
		}
		set.Add(doc)
	}
	return set, nil
}
