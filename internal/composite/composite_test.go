package composite

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/doxadoc/internal/doctree"
)

func render(t *testing.T, c *doctree.Composite, structs, unions []*doctree.Composite) (string, *doctree.Report) {
	t.Helper()
	var report doctree.Report
	var sb strings.Builder
	r := NewRenderer(NewIndex(structs, unions), &report)
	if err := r.Render(&sb, c, 0, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sb.String(), &report
}

func TestRender_ScalarFields(t *testing.T) {
	point := &doctree.Composite{Name: "point", Kind: doctree.CompositeStruct, Fields: []doctree.Field{
		{Type: "int", Name: "x", Detail: "Horizontal offset."},
		{Type: "int", Name: "y"},
		{Type: "char", Name: "label", ArgsString: "[8]"},
	}}

	got, report := render(t, point, []*doctree.Composite{point}, nil)
	want := "struct point\n" +
		"{\n" +
		"   /** x Horizontal offset.\n" +
		"   */\n" +
		"   int x;\n" +
		"   int y;\n" +
		"   char label[8];\n" +
		"};\n"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
	if strings.Count(got, "struct") != 1 || strings.Contains(got, "union") {
		t.Errorf("expected no nested composite keywords, got:\n%s", got)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", report.Warnings)
	}
}

func TestRender_AnonymousNestedStruct(t *testing.T) {
	outer := &doctree.Composite{Name: "Outer", Kind: doctree.CompositeStruct, Fields: []doctree.Field{
		{Type: "int", Name: "id"},
		{Type: "struct Outer.__unnamed__.inner", Name: "inner"},
	}}
	inner := &doctree.Composite{Name: "Outer.__unnamed__.inner", Kind: doctree.CompositeStruct, Fields: []doctree.Field{
		{Type: "long", Name: "value"},
	}}

	got, _ := render(t, outer, []*doctree.Composite{outer, inner}, nil)
	want := "struct Outer\n" +
		"{\n" +
		"   int id;\n" +
		"   struct\n" +
		"   {\n" +
		"      long value;\n" +
		"   } inner;\n" +
		"};\n"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestRender_AnonymousMemberNamedLikeOwner(t *testing.T) {
	data := &doctree.Composite{Name: "data", Kind: doctree.CompositeStruct, Fields: []doctree.Field{
		{Type: "struct data::@0", Name: "data"},
	}}
	inner := &doctree.Composite{Name: "data.__unnamed__.data", Kind: doctree.CompositeStruct, Fields: []doctree.Field{
		{Type: "int", Name: "x"},
	}}

	got, report := render(t, data, []*doctree.Composite{data, inner}, nil)
	want := "struct data\n" +
		"{\n" +
		"   struct\n" +
		"   {\n" +
		"      int x;\n" +
		"   } data;\n" +
		"};\n"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", report.Warnings)
	}
}

func TestRender_UnionNamedLikeOwner(t *testing.T) {
	val := &doctree.Composite{Name: "val", Kind: doctree.CompositeUnion, Fields: []doctree.Field{
		{Type: "union val::@1", Name: "val"},
	}}
	anon := &doctree.Composite{Name: "val.__unnamed__", Kind: doctree.CompositeUnion, Fields: []doctree.Field{
		{Type: "long", Name: "l"},
	}}
	holder := &doctree.Composite{Name: "holder", Kind: doctree.CompositeStruct, Fields: []doctree.Field{
		{Type: "union val", Name: "v"},
	}}

	got, _ := render(t, holder, nil, []*doctree.Composite{val, anon})
	if !strings.Contains(got, "      union\n      {\n         long l;\n      };\n") {
		t.Errorf("expected nested anonymous union, got:\n%s", got)
	}
}

func TestRender_NestedUnion(t *testing.T) {
	msg := &doctree.Composite{Name: "msg", Kind: doctree.CompositeStruct, Fields: []doctree.Field{
		{Type: "union msg::@0", Name: "body"},
		{Type: "union payload", Name: "data"},
	}}
	anon := &doctree.Composite{Name: "msg.__unnamed__", Kind: doctree.CompositeUnion, Fields: []doctree.Field{
		{Type: "int", Name: "i"},
		{Type: "float", Name: "f"},
	}}
	payload := &doctree.Composite{Name: "payload", Kind: doctree.CompositeUnion, Fields: []doctree.Field{
		{Type: "char", Name: "raw", ArgsString: "[4]"},
	}}

	got, _ := render(t, msg, []*doctree.Composite{msg}, []*doctree.Composite{anon, payload})
	want := "struct msg\n" +
		"{\n" +
		"   union\n" +
		"   {\n" +
		"      int i;\n" +
		"      float f;\n" +
		"   };\n" +
		"   union\n" +
		"   {\n" +
		"      char raw[4];\n" +
		"   } data;\n" +
		"};\n"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestRender_UnresolvedReference(t *testing.T) {
	s := &doctree.Composite{Name: "list", Kind: doctree.CompositeStruct, Fields: []doctree.Field{
		{Type: "struct node *", Name: "head"},
		{Type: "int", Name: "len"},
	}}

	got, report := render(t, s, []*doctree.Composite{s}, nil)
	if strings.Contains(got, "head") {
		t.Errorf("expected unresolved field to be omitted, got:\n%s", got)
	}
	if !strings.Contains(got, "   int len;\n") {
		t.Errorf("expected remaining field, got:\n%s", got)
	}
	if report.Count(doctree.WarnUnresolvedFieldType) != 1 {
		t.Errorf("expected one unresolved field warning, got %v", report.Warnings)
	}
}

func TestRender_Cycle(t *testing.T) {
	node := &doctree.Composite{Name: "node", Kind: doctree.CompositeStruct, Fields: []doctree.Field{
		{Type: "struct node", Name: "node"},
	}}

	var report doctree.Report
	var sb strings.Builder
	err := NewRenderer(NewIndex([]*doctree.Composite{node}, nil), &report).Render(&sb, node, 0, "")
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(cycle.Path) != 2 {
		t.Errorf("expected path of 2, got %v", cycle.Path)
	}
}

func TestRender_DepthIndent(t *testing.T) {
	s := &doctree.Composite{Name: "s", Kind: doctree.CompositeStruct, Fields: []doctree.Field{{Type: "int", Name: "a"}}}
	var report doctree.Report
	var sb strings.Builder
	if err := NewRenderer(NewIndex(nil, nil), &report).Render(&sb, s, 2, "member"); err != nil {
		t.Fatal(err)
	}
	want := "      struct s\n      {\n         int a;\n      } member;\n"
	if sb.String() != want {
		t.Errorf("expected %q, got %q", want, sb.String())
	}
}

func TestIndex_CaseInsensitive(t *testing.T) {
	inner := &doctree.Composite{Name: "Outer.__unnamed__.Inner", Kind: doctree.CompositeStruct}
	idx := NewIndex([]*doctree.Composite{inner}, nil)
	if got := idx.Structs("outer", "INNER", true); len(got) != 1 {
		t.Errorf("expected case-insensitive match, got %v", got)
	}
	if got := idx.Structs("Other", "Inner", true); len(got) != 0 {
		t.Errorf("expected no match outside scope, got %v", got)
	}
}

func TestIndex_NestedPreference(t *testing.T) {
	data := &doctree.Composite{Name: "data", Kind: doctree.CompositeStruct}
	anon := &doctree.Composite{Name: "data.__unnamed__.data", Kind: doctree.CompositeStruct}
	idx := NewIndex([]*doctree.Composite{data, anon}, nil)

	if got := idx.Structs("data", "data", true); len(got) != 1 || got[0] != anon {
		t.Errorf("expected nested struct for qualified type, got %v", got)
	}
	if got := idx.Structs("data", "data", false); len(got) != 1 || got[0] != data {
		t.Errorf("expected named struct for plain type, got %v", got)
	}
}

func TestScopeOf(t *testing.T) {
	tests := []struct {
		typ, marker, want string
		nested            bool
	}{
		{"struct Outer.__unnamed__.inner", structPrefix, "Outer.__unnamed__.inner", false},
		{"union msg::@0", unionPrefix, "msg", true},
		{"union payload", unionPrefix, "payload", false},
	}
	for _, tt := range tests {
		got, nested := scopeOf(tt.typ, tt.marker)
		if got != tt.want || nested != tt.nested {
			t.Errorf("scopeOf(%q): expected %q %v, got %q %v", tt.typ, tt.want, tt.nested, got, nested)
		}
	}
}
