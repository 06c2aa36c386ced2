package doctree

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// CompoundKind identifies the top-level entity an extracted document describes.
type CompoundKind string

const (
	KindFile   CompoundKind = "file"
	KindPage   CompoundKind = "page"
	KindGroup  CompoundKind = "group"
	KindStruct CompoundKind = "struct"
	KindUnion  CompoundKind = "union"
)

// ReadmePageName is the compound name Doxygen gives a project's README page.
const ReadmePageName = "md_README"

// UnknownKindError reports a compound, section or member kind the converter
// does not understand. It always aborts the run.
type UnknownKindError struct {
	What string // "compound", "section", "member"
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown %s kind %q", e.What, e.Kind)
}

// ParseCompoundKind validates a compound kind attribute.
func ParseCompoundKind(s string) (CompoundKind, error) {
	switch k := CompoundKind(s); k {
	case KindFile, KindPage, KindGroup, KindStruct, KindUnion:
		return k, nil
	}
	return "", &UnknownKindError{What: "compound", Kind: s}
}

// Document is the record set extracted from one input file.
type Document struct {
	ID       string
	Name     string
	Kind     CompoundKind
	Language string

	// Standalone pages are rendered ahead of the group tree and never
	// attached to a group.
	Standalone bool

	Pages     []*Page
	Groups    []*Group
	Structs   []*Composite
	Unions    []*Composite
	Functions []*Function
	Enums     []*Enum
	Typedefs  []*Typedef

	Warnings []Warning
}

// Group is a documentation group. ID and Parent are assigned during
// hierarchy resolution; ChildNames are the unresolved references the
// extractor saw.
type Group struct {
	ID     GroupID
	Name   string
	Parent GroupID

	ChildNames   []string
	ChildIDs     []GroupID
	InnerClasses []InnerClass

	Pages     []*Page
	Functions []*Function
	Enums     []*Enum
	Structs   []*Composite
	Unions    []*Composite
	Typedefs  []*Typedef
}

// InnerClass is a reference from a group to a struct or union. RefID carries
// the kind marker and the mangled name, e.g. "structnet__addr".
type InnerClass struct {
	RefID string
	Name  string
}

// CompositeKind distinguishes structs from unions.
type CompositeKind string

const (
	CompositeStruct CompositeKind = "struct"
	CompositeUnion  CompositeKind = "union"
)

// UnnamedSegment marks an anonymous struct or union in a dotted name.
const UnnamedSegment = "__unnamed__"

// Composite is a struct or union with its fields in declaration order.
type Composite struct {
	ID     string
	Name   string
	Kind   CompositeKind
	Brief  string
	Fields []Field
}

// Unnamed reports whether the composite is anonymous.
func (c *Composite) Unnamed() bool {
	for _, seg := range strings.Split(c.Name, ".") {
		if seg == UnnamedSegment {
			return true
		}
	}
	return false
}

// Field is a member variable of a composite.
type Field struct {
	Type       string
	Name       string
	ArgsString string
	Brief      string
	Detail     string
}

// Function is a documented function member.
type Function struct {
	Name       string
	ReturnType string
	Definition string
	ArgsString string
	Params     []Param
	Brief      string
	Details    []Block
	Returns    []string
}

// Param is a function parameter. Direction and Description come from the
// parameter list in the detailed description.
type Param struct {
	Type        string
	DeclName    string
	Direction   string
	Description string
}

// Enum is an enumeration and its values.
type Enum struct {
	Name   string
	Doc    string
	Values []EnumValue
}

type EnumValue struct {
	Name string
	Doc  string
}

// Typedef is a type alias.
type Typedef struct {
	Name string
	Type string
	Doc  string
}

// Page is a free-form documentation page made of blocks.
type Page struct {
	DocID  string
	Name   string
	Blocks []Block
}

// Fold returns the case-insensitive key for a name.
func Fold(s string) string {
	return cases.Fold().String(s)
}
