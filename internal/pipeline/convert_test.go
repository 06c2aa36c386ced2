package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/doxadoc/internal/doctree"
	"github.com/dgallion1/doxadoc/internal/hierarchy"
	"github.com/dgallion1/doxadoc/internal/render"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func groupFile(id, title string, children ...string) File {
	var inner strings.Builder
	for _, c := range children {
		fmt.Fprintf(&inner, "<innergroup refid=\"group__%s\">%s</innergroup>", c, c)
	}
	xml := fmt.Sprintf(`<?xml version='1.0' encoding='UTF-8' standalone='no'?>
<doxygen version="1.9.1">
  <compounddef id="%s" kind="group">
    <compoundname>%s</compoundname>
    <title>%s</title>
    %s
  </compounddef>
</doxygen>`, id, title, title, inner.String())
	return File{Name: id + ".xml", Data: []byte(xml)}
}

const testIndex = `<?xml version='1.0' encoding='UTF-8' standalone='no'?>
<doxygenindex version="1.9.1">
  <compound refid="group__b" kind="group"><name>b</name></compound>
  <compound refid="group__a" kind="group"><name>a</name></compound>
  <compound refid="namespacenet" kind="namespace"><name>net</name></compound>
  <compound refid="dir_1" kind="dir"><name>src</name></compound>
</doxygenindex>`

func TestLoadFiles_IndexOrder(t *testing.T) {
	files := []File{
		groupFile("group__a", "a", "b"),
		{Name: "notes.md", Data: []byte("# Notes\n\nHello.\n")},
		{Name: "index.xml", Data: []byte(testIndex)},
		groupFile("group__b", "b"),
	}

	parsed := 0
	report := &doctree.Report{}
	set, err := LoadFiles(context.Background(), files, ParseOptions{MaxConcurrent: 2, OnParsed: func() { parsed++ }}, report)
	require.NoError(t, err)

	require.Len(t, set.Documents, 3)
	assert.Equal(t, "b", set.Documents[0].Groups[0].Name)
	assert.Equal(t, "a", set.Documents[1].Groups[0].Name)
	assert.Equal(t, doctree.KindPage, set.Documents[2].Kind)
	assert.Equal(t, 1, report.Count(doctree.WarnSkippedCompound))
	assert.Equal(t, 4, parsed)
}

func TestLoadFiles_MissingCompound(t *testing.T) {
	files := []File{{Name: "index.xml", Data: []byte(testIndex)}, groupFile("group__a", "a")}
	_, err := LoadFiles(context.Background(), files, ParseOptions{}, &doctree.Report{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group__b.xml")
}

func TestParseFiles_PreservesOrder(t *testing.T) {
	var files []File
	for i := range 20 {
		files = append(files, groupFile(fmt.Sprintf("group__g%02d", i), fmt.Sprintf("g%02d", i)))
	}

	set, err := ParseFiles(context.Background(), files, ParseOptions{MaxConcurrent: 4})
	require.NoError(t, err)
	require.Len(t, set.Documents, 20)
	for i, d := range set.Documents {
		assert.Equal(t, fmt.Sprintf("g%02d", i), d.Groups[0].Name)
	}
}

func TestParseFiles_Errors(t *testing.T) {
	_, err := ParseFiles(context.Background(), []File{{Name: "a.exe"}}, ParseOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")

	_, err = ParseFiles(context.Background(), []File{{Name: "broken.xml", Data: []byte("<doxygen><compounddef")}}, ParseOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.xml")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ParseFiles(ctx, []File{groupFile("group__a", "a")}, ParseOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestConvert(t *testing.T) {
	files := []File{
		{Name: "index.xml", Data: []byte(testIndex)},
		groupFile("group__a", "a", "b"),
		groupFile("group__b", "b"),
		{Name: "notes.md", Data: []byte("# Notes\n\nHello.\n")},
	}
	report := &doctree.Report{}
	set, err := LoadFiles(context.Background(), files, ParseOptions{}, report)
	require.NoError(t, err)

	opts := render.DefaultOptions()
	opts.Title = "demo"
	res, err := Convert(set, report, opts, testLogger())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Document, "= demo API Documentation\n"))
	notes := strings.Index(res.Document, "== Notes\n")
	a := strings.Index(res.Document, "== a\n")
	b := strings.Index(res.Document, "=== b\n")
	require.NotEqual(t, -1, notes)
	assert.Less(t, notes, a)
	assert.Less(t, a, b)

	require.Len(t, res.Outline, 2)
	assert.Equal(t, []string{"a", "b"}, res.Outline[1].Breadcrumb)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, doctree.WarnSkippedCompound, res.Warnings[0].Kind)
}

func TestConvert_MergesExtractionWarnings(t *testing.T) {
	var set doctree.RecordSet
	set.Add(&doctree.Document{
		Kind:     doctree.KindGroup,
		Groups:   []*doctree.Group{{Name: "a"}},
		Warnings: []doctree.Warning{{Kind: doctree.WarnIgnoredSection, Subject: "a", Message: "define section"}},
	})

	res, err := Convert(&set, nil, render.DefaultOptions(), testLogger())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, doctree.WarnIgnoredSection, res.Warnings[0].Kind)
}

func TestConvert_UnresolvedGroup(t *testing.T) {
	var set doctree.RecordSet
	set.Add(&doctree.Document{Kind: doctree.KindGroup, Groups: []*doctree.Group{{Name: "a", ChildNames: []string{"missing"}}}})

	_, err := Convert(&set, nil, render.DefaultOptions(), testLogger())
	var unresolved *hierarchy.UnresolvedGroupError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "missing", unresolved.Name)
}

func TestWorker_Process(t *testing.T) {
	stats := NewRenderStats(time.Hour)
	w := NewWorker(testLogger(), render.DefaultOptions(), stats, 2, false)

	job := NewJob("custom", []File{groupFile("group__a", "a")})
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	require.Equal(t, StatusCompleted, snap.Status, "errors: %v", snap.Progress.Errors)
	assert.Equal(t, 1, snap.Progress.FilesParsed)
	assert.Equal(t, 1, snap.Progress.Groups)
	require.NotNil(t, job.Result())
	assert.Contains(t, job.Result().Document, "= custom API Documentation\n")

	phases := stats.Snapshot()
	for _, p := range []string{PhaseParse, PhaseResolve, PhaseRender} {
		assert.Equal(t, 1, phases[p].Count, "phase %s", p)
	}
}

func TestWorker_ProcessFailure(t *testing.T) {
	w := NewWorker(testLogger(), render.DefaultOptions(), NewRenderStats(time.Hour), 2, false)

	job := NewJob("", []File{groupFile("group__a", "a", "nope")})
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "resolving", snap.Phase)
	require.Len(t, snap.Progress.Errors, 1)
	assert.Contains(t, snap.Progress.Errors[0], "nope")
	assert.Nil(t, job.Result())
}
