package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/doxadoc/internal/config"
	"github.com/dgallion1/doxadoc/internal/doctree"
	"github.com/dgallion1/doxadoc/internal/pipeline"
)

// InputFlags select the Doxygen output directory and extra pages.
type InputFlags struct {
	Input string   `short:"i" help:"Doxygen XML output directory" required:"" type:"existingdir"`
	Page  []string `short:"p" help:"Extra page to import (md, txt, csv, html, pdf, docx); repeatable" type:"existingfile"`
}

// readInputs collects every *.xml file of dir in name order followed by the
// extra pages in flag order.
func readInputs(dir string, pages []string) ([]pipeline.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var files []pipeline.File
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		files = append(files, pipeline.File{Name: e.Name(), Data: data})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no xml files in %s", dir)
	}

	for _, p := range pages {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read page: %w", err)
		}
		files = append(files, pipeline.File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

// load reads and parses the inputs named by flags.
func (f InputFlags) load(ctx context.Context, cfg config.Config, report *doctree.Report) (*doctree.RecordSet, error) {
	files, err := readInputs(f.Input, f.Page)
	if err != nil {
		return nil, err
	}
	return pipeline.LoadFiles(ctx, files, pipeline.ParseOptions{
		MaxConcurrent: cfg.MaxConcurrentParse,
		PDFFallback:   cfg.PDFFallbackPdftotext,
	}, report)
}
