// Package composite renders structs and unions as C declarations, expanding
// fields whose type is another documented struct or union in place.
package composite

import (
	"fmt"
	"strings"

	"github.com/dgallion1/doxadoc/internal/doctree"
)

const (
	indentUnit   = "   "
	structPrefix = "struct "
	unionPrefix  = "union "
)

// CycleError reports a composite that contains itself.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("composite type %s contains itself", strings.Join(e.Path, " -> "))
}

type fieldKey struct {
	scope string
	field string
}

// Index resolves the struct or union a field type refers to. Lookups by a
// proper dotted prefix and by the full name are kept apart so a composite
// never resolves to itself through one of its own members.
type Index struct {
	structs      map[fieldKey][]*doctree.Composite
	structsExact map[fieldKey][]*doctree.Composite
	unions       map[string]*doctree.Composite
	unionsExact  map[string]*doctree.Composite
}

// NewIndex indexes structs under every proper dotted prefix of their name
// paired with their last name segment, and unions under every proper prefix.
// Both are also indexed by full name.
func NewIndex(structs, unions []*doctree.Composite) *Index {
	idx := &Index{
		structs:      make(map[fieldKey][]*doctree.Composite),
		structsExact: make(map[fieldKey][]*doctree.Composite),
		unions:       make(map[string]*doctree.Composite),
		unionsExact:  make(map[string]*doctree.Composite),
	}
	for _, s := range structs {
		segs := strings.Split(s.Name, ".")
		last := doctree.Fold(segs[len(segs)-1])
		for _, scope := range properPrefixes(segs) {
			k := fieldKey{scope: scope, field: last}
			idx.structs[k] = append(idx.structs[k], s)
		}
		k := fieldKey{scope: doctree.Fold(s.Name), field: last}
		idx.structsExact[k] = append(idx.structsExact[k], s)
	}
	for _, u := range unions {
		for _, scope := range properPrefixes(strings.Split(u.Name, ".")) {
			if _, ok := idx.unions[scope]; !ok {
				idx.unions[scope] = u
			}
		}
		if k := doctree.Fold(u.Name); idx.unionsExact[k] == nil {
			idx.unionsExact[k] = u
		}
	}
	return idx
}

// properPrefixes returns every dotted prefix of segs shorter than the full
// name.
func properPrefixes(segs []string) []string {
	out := make([]string, 0, len(segs)-1)
	for i := 1; i < len(segs); i++ {
		out = append(out, doctree.Fold(strings.Join(segs[:i], ".")))
	}
	return out
}

// Structs returns the structs bound to field under scope. nested reports a
// "::" qualified type, which prefers structs declared inside scope over the
// struct named scope; otherwise the order is reversed.
func (idx *Index) Structs(scope, field string, nested bool) []*doctree.Composite {
	k := fieldKey{scope: doctree.Fold(scope), field: doctree.Fold(field)}
	first, second := idx.structs[k], idx.structsExact[k]
	if !nested {
		first, second = second, first
	}
	if len(first) > 0 {
		return first
	}
	return second
}

// Union returns the union a field of type scope refers to, with the same
// preference as Structs.
func (idx *Index) Union(scope string, nested bool) *doctree.Composite {
	k := doctree.Fold(scope)
	first, second := idx.unions[k], idx.unionsExact[k]
	if !nested {
		first, second = second, first
	}
	if first != nil {
		return first
	}
	return second
}

// scopeOf strips the kind marker from a field type and returns the
// qualifier before any "::", and whether one was present.
func scopeOf(typ, marker string) (string, bool) {
	s := strings.Replace(typ, marker, "", 1)
	s, _, nested := strings.Cut(s, "::")
	return strings.TrimSpace(s), nested
}

// Renderer writes composite declarations.
type Renderer struct {
	idx    *Index
	report *doctree.Report
}

func NewRenderer(idx *Index, report *doctree.Report) *Renderer {
	return &Renderer{idx: idx, report: report}
}

// Render writes c at depth, three spaces per level. fieldName is the member
// name c is declared under, or "" at the top level.
func (r *Renderer) Render(sb *strings.Builder, c *doctree.Composite, depth int, fieldName string) error {
	return r.render(sb, c, depth, fieldName, nil)
}

func (r *Renderer) render(sb *strings.Builder, c *doctree.Composite, depth int, fieldName string, path []string) error {
	key := doctree.Fold(c.Name)
	for _, p := range path {
		if p == key {
			return &CycleError{Path: append(append([]string{}, path...), key)}
		}
	}
	path = append(path, key)

	indent := strings.Repeat(indentUnit, depth)
	inner := indent + indentUnit

	if c.Kind == doctree.CompositeUnion {
		sb.WriteString(indent + "union\n")
	} else if c.Unnamed() {
		sb.WriteString(indent + "struct\n")
	} else {
		sb.WriteString(indent + "struct " + c.Name + "\n")
	}
	sb.WriteString(indent + "{\n")

	for _, f := range c.Fields {
		switch {
		case strings.Contains(f.Type, unionPrefix):
			u := r.idx.Union(scopeOf(f.Type, unionPrefix))
			if u == nil {
				r.unresolved(c, f)
				continue
			}
			if err := r.render(sb, u, depth+1, f.Name, path); err != nil {
				return err
			}
		case strings.Contains(f.Type, structPrefix):
			scope, nested := scopeOf(f.Type, structPrefix)
			matches := r.idx.Structs(scope, f.Name, nested)
			if len(matches) == 0 {
				r.unresolved(c, f)
				continue
			}
			for _, s := range matches {
				if err := r.render(sb, s, depth+1, f.Name, path); err != nil {
					return err
				}
			}
		default:
			if f.Detail != "" {
				sb.WriteString(inner + "/** " + f.Name + " " + f.Detail + "\n")
				sb.WriteString(inner + "*/\n")
			}
			sb.WriteString(inner + f.Type + " " + f.Name + f.ArgsString + ";\n")
		}
	}

	sb.WriteString(indent + "}")
	if fieldName != "" && (c.Kind == doctree.CompositeStruct || !c.Unnamed()) {
		sb.WriteString(" " + fieldName)
	}
	sb.WriteString(";\n")
	return nil
}

func (r *Renderer) unresolved(c *doctree.Composite, f doctree.Field) {
	r.report.Warn(doctree.WarnUnresolvedFieldType, c.Name+"."+f.Name,
		"field type %q matches no documented struct or union", f.Type)
}
