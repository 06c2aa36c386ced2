package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/doxadoc/internal/doctree"
	"github.com/dgallion1/doxadoc/internal/hierarchy"
	"github.com/dgallion1/doxadoc/internal/outline"
	"github.com/dgallion1/doxadoc/internal/parser"
	"github.com/dgallion1/doxadoc/internal/render"
)

// File is one named input: a Doxygen XML compound, index.xml or a page to
// import.
type File struct {
	Name string
	Data []byte
}

// ParseOptions bound and configure the parse phase.
type ParseOptions struct {
	MaxConcurrent int
	PDFFallback   bool

	// OnParsed is called once per parsed file when set.
	OnParsed func()
}

// Result is a finished conversion.
type Result struct {
	Document string
	Tree     *doctree.Tree
	Outline  []outline.Entry
	Warnings []doctree.Warning
}

// LoadFiles extracts records from files. When an index.xml is present the
// XML compounds are read in index order and the remaining files are imported
// as pages after them; otherwise every file is parsed in the given order.
func LoadFiles(ctx context.Context, files []File, opts ParseOptions, report *doctree.Report) (*doctree.RecordSet, error) {
	var index []byte
	compounds := make(map[string][]byte)
	var pages []File
	for _, f := range files {
		base := filepath.Base(f.Name)
		switch {
		case base == parser.IndexFile:
			index = f.Data
		case strings.EqualFold(filepath.Ext(base), ".xml"):
			compounds[base] = f.Data
		default:
			pages = append(pages, f)
		}
	}
	if index == nil {
		return ParseFiles(ctx, files, opts)
	}

	open := func(name string) ([]byte, error) {
		data, ok := compounds[name]
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
		}
		return data, nil
	}
	set, err := parser.LoadIndex(bytes.NewReader(index), open, report)
	if err != nil {
		return nil, err
	}
	if opts.OnParsed != nil {
		for range len(compounds) + 1 {
			opts.OnParsed()
		}
	}

	extra, err := ParseFiles(ctx, pages, opts)
	if err != nil {
		return nil, err
	}
	set.Add(extra.Documents...)
	return set, nil
}

// ParseFiles parses files with bounded concurrency. Documents keep the order
// of files regardless of completion order; the first failing file in that
// order determines the error.
func ParseFiles(ctx context.Context, files []File, opts ParseOptions) (*doctree.RecordSet, error) {
	limit := opts.MaxConcurrent
	if limit <= 0 {
		limit = 1
	}

	type parseResult struct {
		doc *doctree.Document
		err error
	}
	results := make([]parseResult, len(files))
	done := make(chan struct{}, len(files))
	sem := make(chan struct{}, limit)

	for i, f := range files {
		sem <- struct{}{}
		go func(i int, f File) {
			defer func() {
				<-sem
				done <- struct{}{}
			}()
			if err := ctx.Err(); err != nil {
				results[i] = parseResult{err: err}
				return
			}
			doc, err := parseFile(f, opts)
			results[i] = parseResult{doc: doc, err: err}
			if err == nil && opts.OnParsed != nil {
				opts.OnParsed()
			}
		}(i, f)
	}
	for range files {
		<-done
	}

	set := &doctree.RecordSet{}
	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("parse %s: %w", files[i].Name, r.err)
		}
		set.Add(r.doc)
	}
	return set, nil
}

func parseFile(f File, opts ParseOptions) (*doctree.Document, error) {
	p, err := parser.ForFile(f.Name)
	if err != nil {
		return nil, err
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = opts.PDFFallback
	}
	return p.Parse(bytes.NewReader(f.Data), f.Name)
}

// Convert resolves the group hierarchy of set and renders it. Extraction
// warnings already in set are merged into report ahead of resolution and
// rendering warnings; every warning is logged. report may be nil.
func Convert(set *doctree.RecordSet, report *doctree.Report, opts render.Options, log *slog.Logger) (*Result, error) {
	return convert(set, report, opts, log, nil, nil)
}

// convert is Convert with optional job status updates and phase timings.
func convert(set *doctree.RecordSet, report *doctree.Report, opts render.Options, log *slog.Logger, job *Job, stats *RenderStats) (*Result, error) {
	if report == nil {
		report = &doctree.Report{}
	}
	report.Add(set.Warnings()...)

	if job != nil {
		job.SetStatus(StatusResolving, "resolving")
	}
	start := time.Now()
	tree, err := hierarchy.NewResolver(log).Resolve(set, report)
	if err != nil {
		return nil, fmt.Errorf("resolve groups: %w", err)
	}
	if stats != nil {
		stats.Record(PhaseResolve, time.Since(start))
	}

	if job != nil {
		job.SetStatus(StatusRendering, "rendering")
	}
	start = time.Now()
	doc, err := render.New(log, opts).Render(set, tree, report)
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	if stats != nil {
		stats.Record(PhaseRender, time.Since(start))
	}

	for _, w := range report.Warnings {
		log.Warn("conversion warning", "kind", w.Kind, "subject", w.Subject, "message", w.Message)
	}

	return &Result{
		Document: doc,
		Tree:     tree,
		Outline:  outline.Build(tree),
		Warnings: report.Warnings,
	}, nil
}
