package doctree

// RecordSet holds every extracted document in encounter order.
type RecordSet struct {
	Documents []*Document
}

// Add appends a document.
func (s *RecordSet) Add(docs ...*Document) {
	s.Documents = append(s.Documents, docs...)
}

// Groups returns all groups in encounter order.
func (s *RecordSet) Groups() []*Group {
	var out []*Group
	for _, d := range s.Documents {
		out = append(out, d.Groups...)
	}
	return out
}

// Structs returns all structs in encounter order.
func (s *RecordSet) Structs() []*Composite {
	var out []*Composite
	for _, d := range s.Documents {
		out = append(out, d.Structs...)
	}
	return out
}

// Unions returns all unions in encounter order.
func (s *RecordSet) Unions() []*Composite {
	var out []*Composite
	for _, d := range s.Documents {
		out = append(out, d.Unions...)
	}
	return out
}

// AttachablePages returns pages of non-standalone page documents, the ones
// the resolver tries to attach to groups.
func (s *RecordSet) AttachablePages() []*Page {
	var out []*Page
	for _, d := range s.Documents {
		if d.Kind != KindPage || d.isPreamble() {
			continue
		}
		out = append(out, d.Pages...)
	}
	return out
}

// PreamblePages returns the README page and standalone pages, rendered
// before the group tree.
func (s *RecordSet) PreamblePages() []*Page {
	var out []*Page
	for _, d := range s.Documents {
		if d.Kind == KindPage && d.isPreamble() {
			out = append(out, d.Pages...)
		}
	}
	return out
}

// Warnings returns every warning raised during extraction.
func (s *RecordSet) Warnings() []Warning {
	var out []Warning
	for _, d := range s.Documents {
		out = append(out, d.Warnings...)
	}
	return out
}

func (d *Document) isPreamble() bool {
	return d.Standalone || d.Name == ReadmePageName
}
