package hierarchy

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dgallion1/doxadoc/internal/doctree"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func groupDoc(groups ...*doctree.Group) *doctree.Document {
	return &doctree.Document{Kind: doctree.KindGroup, Groups: groups}
}

func names(tree *doctree.Tree, ids []doctree.GroupID) []string {
	var out []string
	for _, id := range ids {
		out = append(out, tree.Group(id).Name)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDecodeName(t *testing.T) {
	tests := []struct {
		id     string
		marker int
		want   string
	}{
		{"group__net__core_1intro", len(pageMarker), "net_core"},
		{"group__net__core", len(pageMarker), "net_core"},
		{"group__a__b__c_1x", len(pageMarker), "a_b_c"},
		{"group__plain_1page", len(pageMarker), ""},
		{"structnet__addr", len(structMarker), "net_addr"},
		{"structpoint", len(structMarker), ""},
		{"group_", len(pageMarker), ""},
		{"", len(pageMarker), ""},
	}
	for _, tt := range tests {
		if got := DecodeName(tt.id, tt.marker); got != tt.want {
			t.Errorf("DecodeName(%q): expected %q, got %q", tt.id, tt.want, got)
		}
	}
}

func TestResolve_ParentChild(t *testing.T) {
	var set doctree.RecordSet
	set.Add(
		groupDoc(&doctree.Group{Name: "A", ChildNames: []string{"b"}}),
		groupDoc(&doctree.Group{Name: "B"}),
	)

	var report doctree.Report
	tree, err := NewResolver(testLogger()).Resolve(&set, &report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	top := names(tree, tree.Children(doctree.Root))
	if !equal(top, []string{"A"}) {
		t.Fatalf("expected only A at top level, got %v", top)
	}
	if got := names(tree, tree.Children(0)); !equal(got, []string{"B"}) {
		t.Errorf("expected B under A, got %v", got)
	}
	b := tree.Group(1)
	if b.Parent != 0 {
		t.Errorf("expected B.Parent 0, got %d", b.Parent)
	}
}

func TestResolve_DeclarationOrder(t *testing.T) {
	var set doctree.RecordSet
	set.Add(groupDoc(
		&doctree.Group{Name: "root", ChildNames: []string{"zeta", "alpha", "mid"}},
		&doctree.Group{Name: "alpha"},
		&doctree.Group{Name: "mid"},
		&doctree.Group{Name: "zeta"},
		&doctree.Group{Name: "other"},
	))

	var report doctree.Report
	tree, err := NewResolver(testLogger()).Resolve(&set, &report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(tree, tree.Children(doctree.Root)); !equal(got, []string{"root", "other"}) {
		t.Errorf("expected top-level in id order, got %v", got)
	}
	if got := names(tree, tree.Children(0)); !equal(got, []string{"zeta", "alpha", "mid"}) {
		t.Errorf("expected declaration order, got %v", got)
	}
}

func TestResolve_UnresolvedChild(t *testing.T) {
	var set doctree.RecordSet
	set.Add(groupDoc(&doctree.Group{Name: "A", ChildNames: []string{"missing"}}))

	var report doctree.Report
	_, err := NewResolver(testLogger()).Resolve(&set, &report)
	var unresolved *UnresolvedGroupError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedGroupError, got %v", err)
	}
	if unresolved.Group != "A" || unresolved.Name != "missing" {
		t.Errorf("unexpected error fields %+v", unresolved)
	}
}

func TestResolve_CaseInsensitiveNames(t *testing.T) {
	var set doctree.RecordSet
	set.Add(groupDoc(
		&doctree.Group{Name: "Net", ChildNames: []string{"SOCKETS"}},
		&doctree.Group{Name: "sockets"},
	))

	var report doctree.Report
	tree, err := NewResolver(testLogger()).Resolve(&set, &report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(tree, tree.Children(0)); !equal(got, []string{"sockets"}) {
		t.Errorf("expected sockets under Net, got %v", got)
	}
}

func TestResolve_Cycle(t *testing.T) {
	tests := []struct {
		name   string
		groups []*doctree.Group
	}{
		{"mutual", []*doctree.Group{
			{Name: "top"},
			{Name: "a", ChildNames: []string{"b"}},
			{Name: "b", ChildNames: []string{"a"}},
		}},
		{"self", []*doctree.Group{{Name: "a", ChildNames: []string{"a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var set doctree.RecordSet
			set.Add(groupDoc(tt.groups...))
			var report doctree.Report
			_, err := NewResolver(testLogger()).Resolve(&set, &report)
			var cycle *CycleError
			if !errors.As(err, &cycle) {
				t.Fatalf("expected CycleError, got %v", err)
			}
		})
	}
}

func TestResolve_ChildClaimedTwice(t *testing.T) {
	var set doctree.RecordSet
	set.Add(groupDoc(
		&doctree.Group{Name: "p1", ChildNames: []string{"c"}},
		&doctree.Group{Name: "p2", ChildNames: []string{"c", "c"}},
		&doctree.Group{Name: "c"},
	))

	var report doctree.Report
	tree, err := NewResolver(testLogger()).Resolve(&set, &report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tree.Children(0); len(got) != 0 {
		t.Errorf("expected p1 to lose c to the later parent, got %v", got)
	}
	if got := names(tree, tree.Children(1)); !equal(got, []string{"c"}) {
		t.Errorf("expected c exactly once under p2, got %v", got)
	}
}

func TestResolve_PageAttachment(t *testing.T) {
	intro := &doctree.Page{DocID: "group__net__core_1intro", Name: "intro"}
	stray := &doctree.Page{DocID: "group__nothing__here_1x", Name: "stray"}
	readme := &doctree.Page{DocID: "md_README", Name: doctree.ReadmePageName}

	var set doctree.RecordSet
	set.Add(
		groupDoc(&doctree.Group{Name: "NET_core"}),
		&doctree.Document{Kind: doctree.KindPage, Name: "intro", Pages: []*doctree.Page{intro}},
		&doctree.Document{Kind: doctree.KindPage, Name: "stray", Pages: []*doctree.Page{stray}},
		&doctree.Document{Kind: doctree.KindPage, Name: doctree.ReadmePageName, Pages: []*doctree.Page{readme}},
	)

	var report doctree.Report
	tree, err := NewResolver(testLogger()).Resolve(&set, &report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := tree.Group(0)
	if len(g.Pages) != 1 || g.Pages[0] != intro {
		t.Errorf("expected intro attached, got %+v", g.Pages)
	}
	if n := report.Count(doctree.WarnUnattachedPage); n != 1 {
		t.Errorf("expected 1 unattached page warning, got %d", n)
	}
}

func TestResolve_StructAttachment(t *testing.T) {
	addr := &doctree.Composite{ID: "structnet__addr", Name: "net_addr", Kind: doctree.CompositeStruct}
	point := &doctree.Composite{ID: "structpoint", Name: "point", Kind: doctree.CompositeStruct}
	value := &doctree.Composite{ID: "unionvalue", Name: "value", Kind: doctree.CompositeUnion}

	var set doctree.RecordSet
	set.Add(
		groupDoc(&doctree.Group{Name: "net", InnerClasses: []doctree.InnerClass{
			{RefID: "structnet__addr"},
			{RefID: "structpoint"},
			{RefID: "structnet__addr"},
			{RefID: "unionvalue"},
			{RefID: "structghost__type"},
		}}),
		&doctree.Document{Kind: doctree.KindStruct, Structs: []*doctree.Composite{addr}},
		&doctree.Document{Kind: doctree.KindStruct, Structs: []*doctree.Composite{point}},
		&doctree.Document{Kind: doctree.KindUnion, Unions: []*doctree.Composite{value}},
	)

	var report doctree.Report
	tree, err := NewResolver(testLogger()).Resolve(&set, &report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := tree.Group(0)
	if len(g.Structs) != 2 || g.Structs[0] != addr || g.Structs[1] != point {
		t.Errorf("expected net_addr then point exactly once, got %+v", g.Structs)
	}
	if len(g.Unions) != 1 || g.Unions[0] != value {
		t.Errorf("expected union attached, got %+v", g.Unions)
	}
	if n := report.Count(doctree.WarnUnresolvedInnerClass); n != 1 {
		t.Errorf("expected 1 unresolved inner class warning, got %d", n)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	addr := &doctree.Composite{ID: "structnet__addr", Name: "net_addr", Kind: doctree.CompositeStruct}
	var set doctree.RecordSet
	set.Add(
		groupDoc(
			&doctree.Group{Name: "net", ChildNames: []string{"sub"}, InnerClasses: []doctree.InnerClass{{RefID: "structnet__addr"}}},
			&doctree.Group{Name: "sub"},
		),
		&doctree.Document{Kind: doctree.KindStruct, Structs: []*doctree.Composite{addr}},
	)

	r := NewResolver(testLogger())
	for i := 0; i < 2; i++ {
		var report doctree.Report
		tree, err := r.Resolve(&set, &report)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if n := len(tree.Group(0).Structs); n != 1 {
			t.Errorf("run %d: expected 1 struct, got %d", i, n)
		}
		if n := len(tree.Children(0)); n != 1 {
			t.Errorf("run %d: expected 1 child, got %d", i, n)
		}
	}
}

func TestResolve_DuplicateNames(t *testing.T) {
	var set doctree.RecordSet
	set.Add(groupDoc(
		&doctree.Group{Name: "dup"},
		&doctree.Group{Name: "DUP"},
		&doctree.Group{Name: "owner", ChildNames: []string{"dup"}},
	))

	var report doctree.Report
	tree, err := NewResolver(testLogger()).Resolve(&set, &report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Count(doctree.WarnDuplicateGroup) != 1 {
		t.Errorf("expected a duplicate group warning")
	}
	if got := tree.Children(2); len(got) != 1 || got[0] != 0 {
		t.Errorf("expected first dup to be the child, got %v", got)
	}
}
